package stats

import (
	"github.com/guigolab/pilestats/pileup"
)

// IndelRecord holds insertion and deletion evidence. Insertions and deleted
// bases are counted at the aligned base preceding them, or where the read
// starts when nothing precedes them; deletions at every position they cover.
type IndelRecord struct {
	Locus
	ReadsAll      uint64 `json:"reads_all"`
	Insertions    uint64 `json:"insertions"`
	Deletions     uint64 `json:"deletions"`
	InsertedBases uint64 `json:"inserted_bases"`
	DeletedBases  uint64 `json:"deleted_bases"`
}

func (r *IndelRecord) Depth() uint64 { return r.ReadsAll }

func (r *IndelRecord) Fields() []string {
	return []string{"reads_all", "insertions", "deletions", "inserted_bases", "deleted_bases"}
}

func (r *IndelRecord) Values() []interface{} {
	return []interface{}{r.ReadsAll, r.Insertions, r.Deletions, r.InsertedBases, r.DeletedBases}
}

// IndelStats counts insertion and deletion evidence.
type IndelStats struct {
	rec IndelRecord
}

// NewIndelStats creates a new instance of IndelStats.
func NewIndelStats() *IndelStats {
	return &IndelStats{}
}

// Collect counts the indels of col, including reads anchored to it.
func (s *IndelStats) Collect(col *pileup.Column, ref byte) {
	for i := range col.Entries {
		e := &col.Entries[i]
		s.rec.ReadsAll++
		if e.Del {
			s.rec.Deletions++
		}
		if e.Ins > 0 {
			s.rec.Insertions++
			s.rec.InsertedBases += uint64(e.Ins)
		}
		s.rec.DeletedBases += uint64(e.DelLen)
	}
	for _, a := range col.Anchors {
		s.rec.Insertions++
		s.rec.InsertedBases += uint64(a.Len)
	}
}

// Emit returns the counts collected so far.
func (s *IndelStats) Emit(loc Locus) Record {
	r := s.rec
	r.Locus = loc
	return &r
}

// Reset clears all counts.
func (s *IndelStats) Reset() {
	s.rec = IndelRecord{}
}
