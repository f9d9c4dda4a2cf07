package sam

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInputOrdering is the cause of every OrderError.
var ErrInputOrdering = errors.New("reads are not sorted by start position")

// ErrUnknownContig is returned when a region names a reference absent from the header.
var ErrUnknownContig = errors.New("unknown contig")

// OrderError reports the first read found starting before its predecessor.
type OrderError struct {
	Contig string
	Read   string
	Prev   int
	Start  int
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%v: read %s on %s starts at %d after a read starting at %d", ErrInputOrdering, e.Read, e.Contig, e.Start, e.Prev)
}

// Unwrap returns ErrInputOrdering.
func (e *OrderError) Unwrap() error { return ErrInputOrdering }

// Cause returns ErrInputOrdering, for errors.Cause.
func (e *OrderError) Cause() error { return ErrInputOrdering }
