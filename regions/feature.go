package regions

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
)

// FeatureSlice represents a slice of Feature, sortable by contig and start position
type FeatureSlice []*Feature

func (s FeatureSlice) Len() int {
	return len(s)
}
func (s FeatureSlice) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
func (s FeatureSlice) Less(i, j int) bool {
	if s[i].Chr() != s[j].Chr() {
		return s[i].Chr() < s[j].Chr()
	}
	if s[i].Start() != s[j].Start() {
		return s[i].Start() < s[j].Start()
	}
	return s[i].End() < s[j].End()
}

// NewFeatureSlice returns a new FeatureSlice instance from a slice of rtreego.Spatial
func NewFeatureSlice(intervals []rtreego.Spatial) FeatureSlice {
	var fs FeatureSlice
	for _, i := range intervals {
		fs = append(fs, i.(*Feature))
	}
	return fs
}

// Feature represents a target interval read from a BED file.
type Feature struct {
	location  *rtreego.Rect
	chr, name string
}

// NewFeature returns a new instance of a Feature spanning [start, end).
func NewFeature(chr, name string, start, end int) (*Feature, error) {
	rect, err := rtreego.NewRect(rtreego.Point{float64(start)}, []float64{float64(end - start)})
	if err != nil {
		return nil, err
	}
	return &Feature{rect, chr, name}, nil
}

// Chr returns the chromosome of the feature
func (f *Feature) Chr() string {
	return f.chr
}

// Name returns the name column of the feature, if any
func (f *Feature) Name() string {
	return f.name
}

// Start returns the 0-based start position of the feature
func (f *Feature) Start() int {
	return int(f.location.PointCoord(0))
}

// End returns the end position of the feature, exclusive
func (f *Feature) End() int {
	return int(f.location.PointCoord(0) + f.location.LengthsCoord(0))
}

// Bounds returns the location of the feature. It is used within the Rtree.
func (f *Feature) Bounds() *rtreego.Rect {
	return f.location
}

// String returns the string representation of a Feature
func (f *Feature) String() string {
	return fmt.Sprintf("%s:%d-%d", f.Chr(), f.Start(), f.End())
}

// Out returns the BED representation of a Feature
func (f *Feature) Out() string {
	if f.name == "" {
		return fmt.Sprintf("%s\t%d\t%d", f.Chr(), f.Start(), f.End())
	}
	return fmt.Sprintf("%s\t%d\t%d\t%s", f.Chr(), f.Start(), f.End(), f.Name())
}
