package sam

import (
	"github.com/biogo/hts/sam"
)

// Record is a read-only view over an alignment record.
type Record struct {
	*sam.Record
	seq []byte
}

// NewRecord wraps a biogo sam.Record.
func NewRecord(r *sam.Record) *Record {
	return &Record{Record: r}
}

// Contig returns the name of the reference the record is aligned to, or "*".
func (r *Record) Contig() string {
	if r.Ref == nil {
		return "*"
	}
	return r.Ref.Name()
}

// Bases returns the expanded read sequence. The slice is cached and must not be modified.
func (r *Record) Bases() []byte {
	if r.seq == nil && r.Seq.Length > 0 {
		r.seq = r.Seq.Expand()
	}
	return r.seq
}

// BaseAt returns the upper-case base at query offset i.
func (r *Record) BaseAt(i int) byte {
	b := r.Bases()
	if i < 0 || i >= len(b) {
		return 'N'
	}
	return upper(b[i])
}

// QualAt returns the base quality at query offset i. Missing qualities are reported as 0xff.
func (r *Record) QualAt(i int) byte {
	if i < 0 || i >= len(r.Qual) {
		return 0xff
	}
	return r.Qual[i]
}

func (r *Record) IsPrimary() bool {
	return r.Flags&sam.Secondary == 0
}

func (r *Record) IsSecondary() bool {
	return r.Flags&sam.Secondary == sam.Secondary
}

func (r *Record) IsSupplementary() bool {
	return r.Flags&sam.Supplementary == sam.Supplementary
}

func (r *Record) IsUnmapped() bool {
	return r.Flags&sam.Unmapped == sam.Unmapped
}

func (r *Record) IsPaired() bool {
	return r.Flags&sam.Paired == sam.Paired
}

func (r *Record) IsProperlyPaired() bool {
	return r.Flags&sam.ProperPair == sam.ProperPair
}

func (r *Record) IsRead1() bool {
	return r.Flags&sam.Read1 == sam.Read1
}

func (r *Record) IsRead2() bool {
	return r.Flags&sam.Read2 == sam.Read2
}

func (r *Record) IsReverse() bool {
	return r.Flags&sam.Reverse == sam.Reverse
}

func (r *Record) IsMateReverse() bool {
	return r.Flags&sam.MateReverse == sam.MateReverse
}

func (r *Record) HasMateUnmapped() bool {
	return r.Flags&sam.MateUnmapped == sam.MateUnmapped
}

func (r *Record) IsDuplicate() bool {
	return r.Flags&sam.Duplicate == sam.Duplicate
}

func (r *Record) IsQCFail() bool {
	return r.Flags&sam.QCFail == sam.QCFail
}

// IsSoftClipped reports whether the alignment carries soft-clipped bases.
func (r *Record) IsSoftClipped() bool {
	for _, op := range r.Cigar {
		if op.Type() == sam.CigarSoftClipped {
			return true
		}
	}
	return false
}

// HasMateOnOtherContig reports whether the mate is aligned to a different reference.
func (r *Record) HasMateOnOtherContig() bool {
	return r.IsPaired() && !r.HasMateUnmapped() && r.MateRef != nil && r.Ref != nil && r.MateRef.ID() != r.Ref.ID()
}

// IsFaceAway reports whether the read and its mate on the same contig point away from each other.
func (r *Record) IsFaceAway() bool {
	if !r.IsPaired() || r.HasMateUnmapped() || r.HasMateOnOtherContig() {
		return false
	}
	if r.IsReverse() == r.IsMateReverse() {
		return false
	}
	if r.IsReverse() {
		return r.MatePos > r.Pos
	}
	return r.MatePos < r.Pos
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
