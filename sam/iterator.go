package sam

import (
	"io"

	"github.com/biogo/hts/sam"
)

// Iterator yields the records of one reference overlapping a region, in file
// order. Every record read from the reference is checked for start order,
// including the ones outside the region. When the file is read sequentially
// the rest of the reference is checked too once the region is passed.
type Iterator struct {
	MaxReads, Reads int
	Chr             string
	refID           int
	start, end      int
	last            int
	sequential      bool
	next            func() (*sam.Record, error)
	closers         []io.Closer
	rec             *Record
	seen, done      bool
	err             error
}

// Next advances to the next record, returning false at the end of the
// region or on error.
func (i *Iterator) Next() bool {
	if i.done || i.err != nil {
		return false
	}
	if i.MaxReads >= 0 && i.Reads >= i.MaxReads {
		i.done = true
		return false
	}
	for {
		r, ok := i.read()
		if !ok {
			i.done = true
			return false
		}
		if r.Pos >= i.end {
			if i.sequential {
				for {
					if _, ok := i.read(); !ok {
						break
					}
				}
			}
			i.done = true
			return false
		}
		if r.End() <= i.start && r.Pos < i.start {
			continue
		}
		i.rec = NewRecord(r)
		if i.rec.IsPrimary() {
			i.Reads++
		}
		return true
	}
}

// read returns the next record of the reference, checking its start against
// the previous one. It returns false at the end of the reference or on error.
func (i *Iterator) read() (*sam.Record, bool) {
	for {
		r, err := i.next()
		if err != nil {
			if err != io.EOF {
				i.err = err
			}
			return nil, false
		}
		if r.Ref == nil || r.Ref.ID() != i.refID {
			if i.seen {
				// sequential input moved on to the next reference
				return nil, false
			}
			continue
		}
		i.seen = true
		if r.Pos < i.last {
			i.err = &OrderError{Contig: i.Chr, Read: r.Name, Prev: i.last, Start: r.Pos}
			return nil, false
		}
		i.last = r.Pos
		return r, true
	}
}

// Record returns the current record.
func (i *Iterator) Record() *Record {
	return i.rec
}

// Error returns the first non-EOF error encountered.
func (i *Iterator) Error() error {
	return i.err
}

// Close releases the underlying readers and file.
func (i *Iterator) Close() error {
	var err error
	for _, c := range i.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	i.closers = nil
	return err
}
