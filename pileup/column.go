package pileup

import (
	"github.com/guigolab/pilestats/sam"
)

// Entry is the contribution of one read to a pileup column.
type Entry struct {
	Read *sam.Record
	// Offset is the query offset of the aligned base, or -1 when the
	// position falls in a deletion or a reference skip.
	Offset int
	// Ins is the length of an insertion right after this position in the read.
	Ins int
	// DelLen is the length of a deletion right after this position, or of a
	// deletion starting here when no aligned base precedes it.
	DelLen int
	Del    bool
	Skip   bool
}

// HasBase reports whether the entry carries an aligned base.
func (e *Entry) HasBase() bool {
	return e.Offset >= 0
}

// Base returns the upper-case read base, or 0 for deletions and skips.
func (e *Entry) Base() byte {
	if e.Offset < 0 {
		return 0
	}
	return e.Read.BaseAt(e.Offset)
}

// Qual returns the base quality, or 0xff for deletions and skips.
func (e *Entry) Qual() byte {
	if e.Offset < 0 {
		return 0xff
	}
	return e.Read.QualAt(e.Offset)
}

// Anchor is an insertion with no aligned base before it, placed at the start
// position of its read. Reads with no reference span only appear as anchors.
type Anchor struct {
	Read *sam.Record
	Len  int
}

// Column is the set of reads overlapping one reference position.
type Column struct {
	Contig  string
	Pos     int
	Entries []Entry
	Anchors []Anchor
}

// Depth returns the number of reads in the column.
func (c *Column) Depth() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}
