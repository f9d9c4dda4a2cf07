package stats

import (
	"github.com/guigolab/pilestats/pileup"
)

// GCRecord holds read counts together with the reference GC content, in
// percent of the positions with a known reference base.
type GCRecord struct {
	Locus
	ReadsAll uint64 `json:"reads_all"`
	ReadsPP  uint64 `json:"reads_pp"`
	GC       Value  `json:"gc"`
}

func (r *GCRecord) Depth() uint64 { return r.ReadsAll }

func (r *GCRecord) Fields() []string {
	return []string{"reads_all", "reads_pp", "gc"}
}

func (r *GCRecord) Values() []interface{} {
	return []interface{}{r.ReadsAll, r.ReadsPP, r.GC}
}

// GCStats counts reads and reference GC content. It is mostly useful over
// windows, where it is collected for every position of the window.
type GCStats struct {
	readsAll, readsPP uint64
	known, gc         uint64
}

// NewGCStats creates a new instance of GCStats.
func NewGCStats() *GCStats {
	return &GCStats{}
}

// Collect counts the reads of col and its reference base.
func (s *GCStats) Collect(col *pileup.Column, ref byte) {
	if isACGT(ref) {
		s.known++
		if ref == 'G' || ref == 'C' {
			s.gc++
		}
	}
	for i := range col.Entries {
		s.readsAll++
		if col.Entries[i].Read.IsProperlyPaired() {
			s.readsPP++
		}
	}
}

// Emit returns the counts collected so far.
func (s *GCStats) Emit(loc Locus) Record {
	r := &GCRecord{Locus: loc, ReadsAll: s.readsAll, ReadsPP: s.readsPP}
	if s.known > 0 {
		r.GC = Some(100 * float64(s.gc) / float64(s.known))
	}
	return r
}

// Reset clears all counts.
func (s *GCStats) Reset() {
	*s = GCStats{}
}
