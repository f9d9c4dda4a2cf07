package config

import (
	"github.com/pkg/errors"

	"github.com/guigolab/pilestats/pileup"
)

// Output formats.
const (
	TSV  = "tsv"
	JSON = "json"
)

// Config holds the settings of a pilestats run.
type Config struct {
	Cpu, MaxBuf, Reads int
	Input, Output      string
	Format             string
	// Stat names the statistics family.
	Stat string
	// Region restricts the scan to one samtools style region. Empty means
	// every reference in the header.
	Region string
	// Bed restricts the scan to the target intervals of a BED file.
	Bed   string
	Fasta string
	// Window and MinDepth select fixed size or depth-run windows. At most one is set.
	Window, MinDepth int
	Pad              bool
	OneBased         bool
	Policy           pileup.Policy
}

// NewConfig returns a Config with the default output settings.
func NewConfig(cpu, maxBuf, reads int) *Config {
	return &Config{
		Cpu:    cpu,
		MaxBuf: maxBuf,
		Reads:  reads,
		Output: "-",
		Format: TSV,
		Stat:   "coverage",
	}
}

// Windowed reports whether records span windows rather than single positions.
func (c *Config) Windowed() bool {
	return c.Window > 0 || c.MinDepth > 0
}

// Validate checks option values and combinations.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("no input file")
	}
	if c.Cpu < 1 {
		return errors.Errorf("invalid number of cpus: %d", c.Cpu)
	}
	if c.MaxBuf < 0 {
		return errors.Errorf("invalid buffer size: %d", c.MaxBuf)
	}
	if c.Format != TSV && c.Format != JSON {
		return errors.Errorf("unknown output format %q", c.Format)
	}
	if c.Window < 0 || c.MinDepth < 0 {
		return errors.New("window size and minimum depth must not be negative")
	}
	if c.Window > 0 && c.MinDepth > 0 {
		return errors.New("window size and minimum depth are mutually exclusive")
	}
	return nil
}
