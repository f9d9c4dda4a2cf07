package pileup

import (
	"github.com/guigolab/pilestats/sam"
)

// Policy decides which reads enter the pileup and which of their bases count
// towards base-level statistics. It holds no state.
type Policy struct {
	ExcludeDuplicates    bool
	ExcludeSecondary     bool
	ExcludeSupplementary bool
	ExcludeUnmapped      bool
	ExcludeQCFail        bool
	MinMappingQuality    int
	// MinBaseQuality drops single bases from composition and quality counts.
	// Depth and indel evidence of the read are unaffected.
	MinBaseQuality int
	// MaxDepth caps the number of reads piled up at once. Zero means no limit.
	MaxDepth int
}

// Normalize returns a copy of p with out-of-range thresholds reset to exclude nothing.
func (p Policy) Normalize() Policy {
	if p.MinMappingQuality < 0 {
		p.MinMappingQuality = 0
	}
	if p.MinBaseQuality < 0 {
		p.MinBaseQuality = 0
	}
	if p.MaxDepth < 0 {
		p.MaxDepth = 0
	}
	return p
}

// Keep reports whether r passes the read-level filters.
func (p Policy) Keep(r *sam.Record) bool {
	switch {
	case p.ExcludeUnmapped && r.IsUnmapped():
		return false
	case p.ExcludeDuplicates && r.IsDuplicate():
		return false
	case p.ExcludeSecondary && r.IsSecondary():
		return false
	case p.ExcludeSupplementary && r.IsSupplementary():
		return false
	case p.ExcludeQCFail && r.IsQCFail():
		return false
	}
	return int(r.MapQ) >= p.MinMappingQuality
}

// BaseOK reports whether a base of quality q counts towards base-level statistics.
// Missing qualities (0xff) only pass when no threshold is set.
func (p Policy) BaseOK(q byte) bool {
	if p.MinBaseQuality <= 0 {
		return true
	}
	return q != 0xff && int(q) >= p.MinBaseQuality
}
