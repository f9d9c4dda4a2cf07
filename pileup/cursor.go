package pileup

import (
	hts "github.com/biogo/hts/sam"
	"github.com/guigolab/pilestats/sam"
)

type segKind uint8

const (
	segAligned segKind = iota
	segDeleted
	segSkipped
)

// segment is a run of reference positions consumed by one CIGAR operation.
type segment struct {
	start, len int
	qstart     int
	kind       segKind
	// ins and del hold the insertion or deletion immediately following
	// the last position of the segment.
	ins, del int
	// lead is the length of a deletion segment with no aligned base before
	// it, reported at its first position.
	lead int
}

func (s *segment) end() int {
	return s.start + s.len
}

// segments walks the CIGAR of r and returns its reference-consuming runs
// together with the length of any insertion preceding the first of them.
func segments(r *sam.Record) (segs []segment, lead int) {
	ref, q := r.Pos, 0
	segs = make([]segment, 0, len(r.Cigar))
	for _, co := range r.Cigar {
		n := co.Len()
		switch co.Type() {
		case hts.CigarMatch, hts.CigarEqual, hts.CigarMismatch:
			segs = append(segs, segment{start: ref, len: n, qstart: q, kind: segAligned})
			ref += n
			q += n
		case hts.CigarInsertion:
			if len(segs) == 0 {
				lead += n
			} else {
				segs[len(segs)-1].ins += n
			}
			q += n
		case hts.CigarDeletion:
			seg := segment{start: ref, len: n, qstart: -1, kind: segDeleted}
			if len(segs) > 0 && segs[len(segs)-1].kind == segAligned {
				segs[len(segs)-1].del += n
			} else {
				seg.lead = n
			}
			segs = append(segs, seg)
			ref += n
		case hts.CigarSkipped:
			segs = append(segs, segment{start: ref, len: n, qstart: -1, kind: segSkipped})
			ref += n
		case hts.CigarSoftClipped:
			q += n
		}
	}
	return segs, lead
}

// cursor tracks one active read as the pileup position moves forward.
type cursor struct {
	rec  *sam.Record
	segs []segment
	i    int
	end  int
}

func newCursor(r *sam.Record, segs []segment) *cursor {
	end := r.Pos
	if len(segs) > 0 {
		end = segs[len(segs)-1].end()
	}
	return &cursor{rec: r, segs: segs, end: end}
}

// at returns the entry of the read at pos. Positions must be requested in
// increasing order.
func (c *cursor) at(pos int) (Entry, bool) {
	for c.i < len(c.segs) && c.segs[c.i].end() <= pos {
		c.i++
	}
	if c.i == len(c.segs) || pos < c.segs[c.i].start {
		return Entry{}, false
	}
	s := &c.segs[c.i]
	e := Entry{Read: c.rec, Offset: -1}
	switch s.kind {
	case segAligned:
		e.Offset = s.qstart + pos - s.start
	case segDeleted:
		e.Del = true
	case segSkipped:
		e.Skip = true
	}
	if pos == s.start {
		e.DelLen = s.lead
	}
	if pos == s.end()-1 {
		e.Ins = s.ins
		e.DelLen += s.del
	}
	return e, true
}
