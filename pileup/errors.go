package pileup

import (
	"github.com/guigolab/pilestats/sam"
)

// ErrInputOrdering is the cause of every OrderError, whether found by the
// Builder or by the read source.
var ErrInputOrdering = sam.ErrInputOrdering

// OrderError reports the first read found starting before its predecessor.
type OrderError = sam.OrderError
