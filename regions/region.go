package regions

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/guigolab/pilestats/scan"
)

// ErrBadRegion is the cause of region strings that cannot be parsed.
var ErrBadRegion = errors.New("bad region")

// Parse parses a samtools style region, "contig", "contig:start" or
// "contig:start-end", with 1-based inclusive coordinates and optional
// thousands separators. The returned Region is 0-based and end-exclusive,
// clamped to the contig length found in lengths.
func Parse(s string, lengths map[string]int) (scan.Region, error) {
	var r scan.Region
	contig, span := s, ""
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		if _, ok := lengths[s]; !ok {
			contig, span = s[:i], s[i+1:]
		}
	}
	length, ok := lengths[contig]
	if !ok {
		return r, errors.Wrapf(ErrBadRegion, "%q: unknown contig %q", s, contig)
	}
	r = scan.Region{Contig: contig, Start: 0, End: length}
	if span == "" {
		return r, nil
	}
	span = strings.Replace(span, ",", "", -1)
	from, to := span, ""
	hasEnd := false
	if i := strings.IndexByte(span, '-'); i >= 0 {
		from, to, hasEnd = span[:i], span[i+1:], true
	}
	start, err := strconv.Atoi(from)
	if err != nil || start < 1 {
		return r, errors.Wrapf(ErrBadRegion, "%q: invalid start", s)
	}
	r.Start = start - 1
	if hasEnd && to != "" {
		end, err := strconv.Atoi(to)
		if err != nil {
			return r, errors.Wrapf(ErrBadRegion, "%q: invalid end", s)
		}
		if end < length {
			r.End = end
		}
	}
	if r.End <= r.Start {
		return r, errors.Wrapf(ErrBadRegion, "%q: empty interval", s)
	}
	return r, nil
}
