// Package stats reduces pileup columns into per-position or per-window summary records.
package stats

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/guigolab/pilestats/pileup"
)

// Value is a floating point statistic that may be undefined.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a defined Value.
func Some(v float64) Value {
	return Value{v, true}
}

// String formats the value rounded to six decimals, without exponent.
func (m Value) String() string {
	if !m.Valid {
		return "NA"
	}
	return strconv.FormatFloat(m.rounded(), 'f', -1, 64)
}

// MarshalJSON encodes undefined values as null.
func (m Value) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.rounded())
}

func (m Value) rounded() float64 {
	r := math.Round(m.V*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

// Count is a counter that is undefined until something is added to it.
type Count struct {
	N     uint64
	Valid bool
}

// Add adds n to the count and marks it defined.
func (c *Count) Add(n uint64) {
	c.N += n
	c.Valid = true
}

func (c Count) String() string {
	if !c.Valid {
		return "NA"
	}
	return strconv.FormatUint(c.N, 10)
}

// MarshalJSON encodes undefined counts as null.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.N)
}

// Locus is the half-open reference interval a record summarises. Per-position
// records have End == Start+1.
type Locus struct {
	Contig string `json:"chrom"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Loc returns l.
func (l Locus) Loc() Locus {
	return l
}

// Record is an immutable summary row.
type Record interface {
	Loc() Locus
	// Depth is the reads_all field.
	Depth() uint64
	// Fields names the columns following the locus.
	Fields() []string
	// Values returns the column values, in Fields order.
	Values() []interface{}
}

// Accumulator reduces pileup columns into records. Collect is called once per
// position, Emit produces the record for everything collected since the last
// Reset.
type Accumulator interface {
	Collect(col *pileup.Column, ref byte)
	Emit(loc Locus) Record
	Reset()
}

// Family names a set of statistics.
type Family string

const (
	Coverage Family = "coverage"
	Bases    Family = "bases"
	Quality  Family = "quality"
	Indel    Family = "indel"
	Pair     Family = "pair"
	GC       Family = "gc"
)

// Families lists the supported statistic families.
var Families = []Family{Coverage, Bases, Quality, Indel, Pair, GC}

// ParseFamily returns the Family named s.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown statistics type %q, expected one of %s", s, familyNames())
}

func familyNames() string {
	names := make([]string, len(Families))
	for i, f := range Families {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// New returns an empty Accumulator for family f.
func New(f Family, policy pileup.Policy) (Accumulator, error) {
	policy = policy.Normalize()
	switch f {
	case Coverage:
		return NewCoverageStats(), nil
	case Bases:
		return NewBaseStats(policy), nil
	case Quality:
		return NewQualityStats(policy), nil
	case Indel:
		return NewIndelStats(), nil
	case Pair:
		return NewPairStats(), nil
	case GC:
		return NewGCStats(), nil
	}
	return nil, errors.Errorf("unknown statistics type %q", f)
}

func isACGT(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}
