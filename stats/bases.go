package stats

import (
	"github.com/guigolab/pilestats/pileup"
	"github.com/guigolab/pilestats/reference"
)

// BaseRecord holds base composition and agreement with the reference.
// Matches and mismatches are undefined when the reference base is unknown.
type BaseRecord struct {
	Locus
	Ref          string `json:"ref"`
	ReadsAll     uint64 `json:"reads_all"`
	ReadsPP      uint64 `json:"reads_pp"`
	Matches      Count  `json:"matches"`
	MatchesPP    Count  `json:"matches_pp"`
	Mismatches   Count  `json:"mismatches"`
	MismatchesPP Count  `json:"mismatches_pp"`
	A            uint64 `json:"A"`
	C            uint64 `json:"C"`
	G            uint64 `json:"G"`
	T            uint64 `json:"T"`
	N            uint64 `json:"N"`
}

func (r *BaseRecord) Depth() uint64 { return r.ReadsAll }

func (r *BaseRecord) Fields() []string {
	return []string{"ref", "reads_all", "reads_pp", "matches", "matches_pp", "mismatches", "mismatches_pp", "A", "C", "G", "T", "N"}
}

func (r *BaseRecord) Values() []interface{} {
	return []interface{}{r.Ref, r.ReadsAll, r.ReadsPP, r.Matches, r.MatchesPP, r.Mismatches, r.MismatchesPP, r.A, r.C, r.G, r.T, r.N}
}

// BaseStats counts read bases and compares them to the reference.
type BaseStats struct {
	policy pileup.Policy
	ref    byte
	rec    BaseRecord
}

// NewBaseStats creates a new instance of BaseStats.
func NewBaseStats(policy pileup.Policy) *BaseStats {
	return &BaseStats{policy: policy}
}

// Collect counts the bases of col passing the base quality threshold.
func (s *BaseStats) Collect(col *pileup.Column, ref byte) {
	s.ref = ref
	known := isACGT(ref)
	if known {
		s.rec.Matches.Add(0)
		s.rec.MatchesPP.Add(0)
		s.rec.Mismatches.Add(0)
		s.rec.MismatchesPP.Add(0)
	}
	for i := range col.Entries {
		e := &col.Entries[i]
		pp := e.Read.IsProperlyPaired()
		s.rec.ReadsAll++
		if pp {
			s.rec.ReadsPP++
		}
		if !e.HasBase() || !s.policy.BaseOK(e.Qual()) {
			continue
		}
		b := e.Base()
		switch b {
		case 'A':
			s.rec.A++
		case 'C':
			s.rec.C++
		case 'G':
			s.rec.G++
		case 'T':
			s.rec.T++
		default:
			s.rec.N++
		}
		if !known {
			continue
		}
		if b == ref {
			s.rec.Matches.Add(1)
			if pp {
				s.rec.MatchesPP.Add(1)
			}
		} else {
			s.rec.Mismatches.Add(1)
			if pp {
				s.rec.MismatchesPP.Add(1)
			}
		}
	}
}

// Emit returns the counts collected so far. The reference base is only
// reported for single-position records.
func (s *BaseStats) Emit(loc Locus) Record {
	r := s.rec
	r.Locus = loc
	if loc.End-loc.Start == 1 {
		if s.ref == reference.Unknown {
			r.Ref = "N"
		} else {
			r.Ref = string(s.ref)
		}
	} else {
		r.Ref = "."
	}
	return &r
}

// Reset clears all counts.
func (s *BaseStats) Reset() {
	s.rec = BaseRecord{}
	s.ref = reference.Unknown
}
