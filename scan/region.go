package scan

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRange is the cause of every RangeError.
	ErrInvalidRange = errors.New("invalid range")
	// ErrScannerUsed is returned when starting a Scanner that is not Idle.
	ErrScannerUsed = errors.New("scanner already started")
)

// RangeError reports a region with no contig, a negative start or an end not
// after its start.
type RangeError struct {
	Region Region
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %q [%d, %d)", ErrInvalidRange, e.Region.Contig, e.Region.Start, e.Region.End)
}

// Unwrap returns ErrInvalidRange.
func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// Cause returns ErrInvalidRange, for errors.Cause.
func (e *RangeError) Cause() error { return ErrInvalidRange }

// Region is a 0-based, end-exclusive interval on a contig.
type Region struct {
	Contig     string
	Start, End int
}

// Len returns the number of positions in r.
func (r Region) Len() int {
	return r.End - r.Start
}

// Validate returns a *RangeError when r cannot be scanned.
func (r Region) Validate() error {
	if r.Contig == "" || r.Start < 0 || r.End <= r.Start {
		return &RangeError{r}
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Contig, r.Start, r.End)
}

// Window selects how positions are grouped into records. The zero Window
// emits one record per position.
type Window struct {
	// Size groups positions into consecutive windows of Size positions.
	Size int
	// MinDepth groups positions into maximal runs with depth of at least MinDepth.
	MinDepth int
}

// Fixed returns a Window of size consecutive positions.
func Fixed(size int) Window {
	return Window{Size: size}
}

// DepthRuns returns a Window spanning each maximal run of positions with at
// least minDepth reads. A minDepth below 1 is taken as 1.
func DepthRuns(minDepth int) Window {
	if minDepth < 1 {
		minDepth = 1
	}
	return Window{MinDepth: minDepth}
}

// IsZero reports whether w selects per-position records.
func (w Window) IsZero() bool {
	return w.Size <= 0 && w.MinDepth <= 0
}
