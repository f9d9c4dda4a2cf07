package stats

import (
	"github.com/guigolab/pilestats/pileup"
)

// QualityRecord holds base and mapping quality summaries. Means are
// undefined when their count is zero.
type QualityRecord struct {
	Locus
	ReadsAll   uint64 `json:"reads_all"`
	BaseQCount uint64 `json:"baseq_count"`
	MeanBaseQ  Value  `json:"mean_baseq"`
	RMSBaseQ   Value  `json:"rms_baseq"`
	MapQCount  uint64 `json:"mapq_count"`
	MeanMapQ   Value  `json:"mean_mapq"`
	RMSMapQ    Value  `json:"rms_mapq"`
	MaxMapQ    Value  `json:"max_mapq"`
	ReadsMapQ0 uint64 `json:"reads_mapq0"`
}

func (r *QualityRecord) Depth() uint64 { return r.ReadsAll }

func (r *QualityRecord) Fields() []string {
	return []string{"reads_all", "baseq_count", "mean_baseq", "rms_baseq", "mapq_count", "mean_mapq", "rms_mapq", "max_mapq", "reads_mapq0"}
}

func (r *QualityRecord) Values() []interface{} {
	return []interface{}{r.ReadsAll, r.BaseQCount, r.MeanBaseQ, r.RMSBaseQ, r.MapQCount, r.MeanMapQ, r.RMSMapQ, r.MaxMapQ, r.ReadsMapQ0}
}

// QualityStats summarises base and mapping qualities.
type QualityStats struct {
	policy      pileup.Policy
	readsAll    uint64
	readsMapQ0  uint64
	baseq, mapq Moments
}

// NewQualityStats creates a new instance of QualityStats.
func NewQualityStats(policy pileup.Policy) *QualityStats {
	return &QualityStats{policy: policy}
}

// Collect adds the qualities of col. Bases below the base quality threshold
// and bases with no recorded quality are left out of the base quality summary.
func (s *QualityStats) Collect(col *pileup.Column, ref byte) {
	for i := range col.Entries {
		e := &col.Entries[i]
		s.readsAll++
		s.mapq.Add(float64(e.Read.MapQ))
		if e.Read.MapQ == 0 {
			s.readsMapQ0++
		}
		if !e.HasBase() {
			continue
		}
		if q := e.Qual(); q != 0xff && s.policy.BaseOK(q) {
			s.baseq.Add(float64(q))
		}
	}
}

// Emit returns the summaries collected so far.
func (s *QualityStats) Emit(loc Locus) Record {
	return &QualityRecord{
		Locus:      loc,
		ReadsAll:   s.readsAll,
		BaseQCount: s.baseq.Count(),
		MeanBaseQ:  s.baseq.Mean(),
		RMSBaseQ:   s.baseq.RMS(),
		MapQCount:  s.mapq.Count(),
		MeanMapQ:   s.mapq.Mean(),
		RMSMapQ:    s.mapq.RMS(),
		MaxMapQ:    s.mapq.Max(),
		ReadsMapQ0: s.readsMapQ0,
	}
}

// Reset clears all summaries.
func (s *QualityStats) Reset() {
	s.readsAll, s.readsMapQ0 = 0, 0
	s.baseq.Reset()
	s.mapq.Reset()
}
