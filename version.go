package pilestats

import "fmt"

const (
	VersionNumber      = 0.2
	MinorVersionNumber = 0
)

// Version returns the library version, e.g. "0.2.0".
func Version() string {
	return fmt.Sprintf("%.1f.%d", VersionNumber, MinorVersionNumber)
}
