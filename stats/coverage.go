package stats

import (
	"github.com/guigolab/pilestats/pileup"
)

// CoverageRecord holds read counts split by strand, proper pairing and mate.
type CoverageRecord struct {
	Locus
	ReadsAll   uint64 `json:"reads_all"`
	ReadsPP    uint64 `json:"reads_pp"`
	ReadsFwd   uint64 `json:"reads_fwd"`
	ReadsRev   uint64 `json:"reads_rev"`
	ReadsPPFwd uint64 `json:"reads_pp_fwd"`
	ReadsPPRev uint64 `json:"reads_pp_rev"`
	ReadsMate1 uint64 `json:"reads_mate1"`
	ReadsMate2 uint64 `json:"reads_mate2"`
}

func (r *CoverageRecord) Depth() uint64 { return r.ReadsAll }

func (r *CoverageRecord) Fields() []string {
	return []string{"reads_all", "reads_pp", "reads_fwd", "reads_rev", "reads_pp_fwd", "reads_pp_rev", "reads_mate1", "reads_mate2"}
}

func (r *CoverageRecord) Values() []interface{} {
	return []interface{}{r.ReadsAll, r.ReadsPP, r.ReadsFwd, r.ReadsRev, r.ReadsPPFwd, r.ReadsPPRev, r.ReadsMate1, r.ReadsMate2}
}

// CoverageStats counts the reads covering each position.
type CoverageStats struct {
	rec CoverageRecord
}

// NewCoverageStats creates a new instance of CoverageStats.
func NewCoverageStats() *CoverageStats {
	return &CoverageStats{}
}

// Collect counts the reads of col.
func (s *CoverageStats) Collect(col *pileup.Column, ref byte) {
	for i := range col.Entries {
		r := col.Entries[i].Read
		pp := r.IsProperlyPaired()
		s.rec.ReadsAll++
		if pp {
			s.rec.ReadsPP++
		}
		if r.IsReverse() {
			s.rec.ReadsRev++
			if pp {
				s.rec.ReadsPPRev++
			}
		} else {
			s.rec.ReadsFwd++
			if pp {
				s.rec.ReadsPPFwd++
			}
		}
		if r.IsPaired() {
			if r.IsRead1() {
				s.rec.ReadsMate1++
			}
			if r.IsRead2() {
				s.rec.ReadsMate2++
			}
		}
	}
}

// Emit returns the counts collected so far.
func (s *CoverageStats) Emit(loc Locus) Record {
	r := s.rec
	r.Locus = loc
	return &r
}

// Reset clears all counts.
func (s *CoverageStats) Reset() {
	s.rec = CoverageRecord{}
}
