// Package regions reads BED target intervals into per-contig R-trees and
// resolves the regions a scan has to cover.
package regions

import (
	"os"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/guigolab/pilestats/scan"
)

type tree struct {
	chr  string
	tree *rtreego.Rtree
}

// Index is a map of Rtrees of merged target intervals with contig names as keys.
type Index map[string]*rtreego.Rtree

// Get returns the Rtree for the specified contig, or nil if it has no targets.
func (t Index) Get(chr string) *rtreego.Rtree {
	v, ok := t[chr]
	if ok {
		return v
	}
	return nil
}

// Len returns the number of contigs in the index.
func (t Index) Len() int {
	return len(t)
}

// Contigs returns the indexed contig names, sorted.
func (t Index) Contigs() []string {
	chrs := make([]string, 0, len(t))
	for chr := range t {
		chrs = append(chrs, chr)
	}
	sort.Strings(chrs)
	return chrs
}

// mergeIntervals merges overlapping and adjacent features. The input is sorted in place.
func mergeIntervals(intervals []*Feature) []*Feature {
	if len(intervals) == 0 {
		return nil
	}
	sort.Sort(FeatureSlice(intervals))
	var out []*Feature
	x := intervals[0]
	for _, f := range intervals[1:] {
		if f.Start() <= x.End() {
			if f.End() > x.End() {
				m, err := NewFeature(x.Chr(), x.Name(), x.Start(), f.End())
				if err != nil {
					log.Panic(err)
				}
				x = m
			}
			continue
		}
		out = append(out, x)
		x = f
	}
	return append(out, x)
}

func createTree(trees chan<- *tree, chr string, feats []*Feature, wg *sync.WaitGroup) {
	defer wg.Done()
	merged := mergeIntervals(feats)
	spatials := make([]rtreego.Spatial, len(merged))
	for i, f := range merged {
		spatials[i] = f
	}
	log.WithFields(log.Fields{
		"Reference": chr,
		"Targets":   len(feats),
		"Merged":    len(merged),
	}).Debug("Indexing targets")
	trees <- &tree{chr, rtreego.NewTree(1, 25, 50, spatials...)}
}

// CreateIndex creates the Rtree indices for the specified BED file. It builds an Rtree
// for each contig and returns an Index having the contig names as keys.
func CreateIndex(bedFile string) (Index, error) {
	f, err := os.Open(bedFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	idx, err := createIndex(NewScanner(f))
	if err != nil {
		return nil, errors.Wrap(err, bedFile)
	}
	return idx, nil
}

func createIndex(scanner *Scanner) (Index, error) {
	chunks := make(map[string][]*Feature)
	for scanner.Next() {
		f := scanner.Feat()
		chunks[f.Chr()] = append(chunks[f.Chr()], f)
	}
	if err := scanner.Error(); err != nil {
		return nil, err
	}

	trees := make(chan *tree)
	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for chr, feats := range chunks {
		go createTree(trees, chr, feats, &wg)
	}
	go func() {
		wg.Wait()
		close(trees)
	}()

	idx := make(Index)
	for t := range trees {
		idx[t.chr] = t.tree
	}
	return idx, nil
}

// QueryIndex returns the features of index overlapping [begin, end), sorted by start.
func QueryIndex(index *rtreego.Rtree, begin, end int) []*Feature {
	if index == nil || end <= begin {
		return nil
	}
	bb, err := rtreego.NewRect(rtreego.Point{float64(begin)}, []float64{float64(end - begin)})
	if err != nil {
		return nil
	}
	feats := NewFeatureSlice(index.SearchIntersect(bb))
	n := 0
	for _, f := range feats {
		if f.Start() < end && f.End() > begin {
			feats[n] = f
			n++
		}
	}
	feats = feats[:n]
	sort.Sort(feats)
	return feats
}

// Clip returns the parts of the indexed targets falling inside r, in order.
func (t Index) Clip(r scan.Region) []scan.Region {
	var out []scan.Region
	for _, f := range QueryIndex(t.Get(r.Contig), r.Start, r.End) {
		c := scan.Region{Contig: r.Contig, Start: f.Start(), End: f.End()}
		if c.Start < r.Start {
			c.Start = r.Start
		}
		if c.End > r.End {
			c.End = r.End
		}
		out = append(out, c)
	}
	return out
}
