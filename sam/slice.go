package sam

import (
	"io"

	"github.com/biogo/hts/sam"
)

// Slice is an in-memory set of records usable as a Fetcher. Records are
// served in slice order, which is expected to be sorted by start.
type Slice []*Record

// Fetch returns a Source over the records of contig overlapping [start, end).
func (s Slice) Fetch(contig string, start, end int) (Source, error) {
	var recs []*Record
	for _, r := range s {
		if r.Contig() != contig {
			continue
		}
		if r.Pos >= end || (r.End() <= start && r.Pos < start) {
			continue
		}
		recs = append(recs, r)
	}
	return NewSliceSource(recs), nil
}

// SliceSource is a Source over a slice of records.
type SliceSource struct {
	recs []*Record
	i    int
}

// NewSliceSource returns a Source yielding recs in order.
func NewSliceSource(recs []*Record) *SliceSource {
	return &SliceSource{recs: recs, i: -1}
}

func (s *SliceSource) Next() bool {
	if s.i+1 >= len(s.recs) {
		s.i = len(s.recs)
		return false
	}
	s.i++
	return true
}

func (s *SliceSource) Record() *Record {
	if s.i < 0 || s.i >= len(s.recs) {
		return nil
	}
	return s.recs[s.i]
}

func (s *SliceSource) Error() error {
	return nil
}

// ReadAll parses every record of a SAM text stream.
func ReadAll(r io.Reader) ([]*Record, error) {
	sr, err := sam.NewReader(r)
	if err != nil {
		return nil, err
	}
	var recs []*Record
	for {
		rec, err := sr.Read()
		if err != nil {
			if err == io.EOF {
				return recs, nil
			}
			return nil, err
		}
		recs = append(recs, NewRecord(rec))
	}
}
