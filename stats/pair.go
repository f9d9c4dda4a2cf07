package stats

import (
	"math"

	"github.com/guigolab/pilestats/pileup"
	"github.com/guigolab/pilestats/sam"
)

// PairRecord holds mate-pair attributes of the covering reads and template
// length moments over properly paired, non-duplicate, primary reads.
type PairRecord struct {
	Locus
	ReadsAll             uint64 `json:"reads_all"`
	ReadsPaired          uint64 `json:"reads_paired"`
	ReadsPP              uint64 `json:"reads_pp"`
	ReadsMateUnmapped    uint64 `json:"reads_mate_unmapped"`
	ReadsMateOtherContig uint64 `json:"reads_mate_other_chr"`
	ReadsMateSameStrand  uint64 `json:"reads_mate_same_strand"`
	ReadsFaceAway        uint64 `json:"reads_faceaway"`
	ReadsSoftClipped     uint64 `json:"reads_softclipped"`
	ReadsDuplicate       uint64 `json:"reads_duplicate"`
	TlenCount            uint64 `json:"tlen_count"`
	MeanTlen             Value  `json:"mean_tlen"`
	StdTlen              Value  `json:"std_tlen"`
	RMSTlen              Value  `json:"rms_tlen"`
}

func (r *PairRecord) Depth() uint64 { return r.ReadsAll }

func (r *PairRecord) Fields() []string {
	return []string{"reads_all", "reads_paired", "reads_pp", "reads_mate_unmapped", "reads_mate_other_chr", "reads_mate_same_strand",
		"reads_faceaway", "reads_softclipped", "reads_duplicate", "tlen_count", "mean_tlen", "std_tlen", "rms_tlen"}
}

func (r *PairRecord) Values() []interface{} {
	return []interface{}{r.ReadsAll, r.ReadsPaired, r.ReadsPP, r.ReadsMateUnmapped, r.ReadsMateOtherContig, r.ReadsMateSameStrand,
		r.ReadsFaceAway, r.ReadsSoftClipped, r.ReadsDuplicate, r.TlenCount, r.MeanTlen, r.StdTlen, r.RMSTlen}
}

// PairStats counts mate-pair attributes.
type PairStats struct {
	rec  PairRecord
	tlen Moments
}

// NewPairStats creates a new instance of PairStats.
func NewPairStats() *PairStats {
	return &PairStats{}
}

// hasTemplate reports whether the template length of r enters the moments.
func hasTemplate(r *sam.Record) bool {
	return r.IsProperlyPaired() && !r.IsDuplicate() && r.IsPrimary() && !r.IsSupplementary() && r.TempLen != 0
}

// Collect counts the pair attributes of the reads in col.
func (s *PairStats) Collect(col *pileup.Column, ref byte) {
	for i := range col.Entries {
		r := col.Entries[i].Read
		s.rec.ReadsAll++
		if r.IsDuplicate() {
			s.rec.ReadsDuplicate++
		}
		if r.IsSoftClipped() {
			s.rec.ReadsSoftClipped++
		}
		if hasTemplate(r) {
			s.tlen.Add(math.Abs(float64(r.TempLen)))
		}
		if !r.IsPaired() {
			continue
		}
		s.rec.ReadsPaired++
		if r.IsProperlyPaired() {
			s.rec.ReadsPP++
		}
		switch {
		case r.HasMateUnmapped():
			s.rec.ReadsMateUnmapped++
		case r.HasMateOnOtherContig():
			s.rec.ReadsMateOtherContig++
		case r.IsReverse() == r.IsMateReverse():
			s.rec.ReadsMateSameStrand++
		case r.IsFaceAway():
			s.rec.ReadsFaceAway++
		}
	}
}

// Emit returns the counts collected so far.
func (s *PairStats) Emit(loc Locus) Record {
	r := s.rec
	r.Locus = loc
	r.TlenCount = s.tlen.Count()
	r.MeanTlen = s.tlen.Mean()
	r.StdTlen = s.tlen.Std()
	r.RMSTlen = s.tlen.RMS()
	return &r
}

// Reset clears all counts.
func (s *PairStats) Reset() {
	s.rec = PairRecord{}
	s.tlen.Reset()
}
