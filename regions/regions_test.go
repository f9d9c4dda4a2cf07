package regions

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guigolab/pilestats/scan"
)

var targets = []byte(`# targets
track name=capture
chr1	100	200	t1
chr1	150	250	t2
chr1	250	300	t3
chr1	400	500
chr1	600	600	empty
chr2	10	20	t4
chr3	0	50	t5
`)

func TestCreateIndex(t *testing.T) {
	index, err := createIndex(NewScanner(bytes.NewReader(targets)))
	require.NoError(t, err)
	if index.Len() != 3 {
		t.Errorf("(createIndex) expected length 3, got %v", index.Len())
	}
	sizes := map[string]int{"chr1": 2, "chr2": 1, "chr3": 1}
	validChr := regexp.MustCompile(`^chr`)
	for key, value := range index {
		typeString := fmt.Sprintf("%T", value)
		if typeString != "*rtreego.Rtree" {
			t.Errorf("(createIndex) expected *rtreego.Rtree, got %v", typeString)
		}
		if !validChr.MatchString(key) {
			t.Errorf("(createIndex) expected chrN key, got %v", key)
		}
		if value.Size() != sizes[key] {
			t.Errorf("(createIndex) [%s] expected %d merged intervals, got %v", key, sizes[key], value.Size())
		}
	}
	assert.Equal(t, []string{"chr1", "chr2", "chr3"}, index.Contigs())
	assert.Nil(t, index.Get("chrM"))
}

func TestQueryIndex(t *testing.T) {
	index, err := createIndex(NewScanner(bytes.NewReader(targets)))
	require.NoError(t, err)
	for i, c := range []struct {
		begin, end int
		expected   []string
	}{
		{0, 1000, []string{"chr1:100-300", "chr1:400-500"}},
		{120, 130, []string{"chr1:100-300"}},
		{300, 400, nil},
		{299, 401, []string{"chr1:100-300", "chr1:400-500"}},
		{500, 600, nil},
	} {
		var got []string
		for _, f := range QueryIndex(index.Get("chr1"), c.begin, c.end) {
			got = append(got, f.String())
		}
		if !assert.Equal(t, c.expected, got) {
			t.Errorf("(QueryIndex) [%d] expected %v, got %v", i, c.expected, got)
		}
	}
	assert.Nil(t, QueryIndex(index.Get("chrX"), 0, 100))
}

func TestClip(t *testing.T) {
	index, err := createIndex(NewScanner(bytes.NewReader(targets)))
	require.NoError(t, err)
	got := index.Clip(scan.Region{Contig: "chr1", Start: 150, End: 450})
	assert.Equal(t, []scan.Region{
		{Contig: "chr1", Start: 150, End: 300},
		{Contig: "chr1", Start: 400, End: 450},
	}, got)
	assert.Empty(t, index.Clip(scan.Region{Contig: "chr2", Start: 20, End: 100}))
}

func TestMergeIntervals(t *testing.T) {
	var feats []*Feature
	for _, iv := range [][2]int{{50, 60}, {10, 20}, {15, 30}, {30, 40}, {45, 46}} {
		f, err := NewFeature("chr1", "", iv[0], iv[1])
		require.NoError(t, err)
		feats = append(feats, f)
	}
	var got []string
	for _, f := range mergeIntervals(feats) {
		got = append(got, f.Out())
	}
	assert.Equal(t, []string{"chr1\t10\t40", "chr1\t45\t46", "chr1\t50\t60"}, got)
	assert.Nil(t, mergeIntervals(nil))
}

func TestReaderErrors(t *testing.T) {
	for i, bed := range []string{
		"chr1\t100\n",
		"chr1\tx\t200\n",
		"chr1\t100\t50\n",
		"chr1\t-5\t50\n",
	} {
		_, err := createIndex(NewScanner(bytes.NewReader([]byte(bed))))
		if err == nil {
			t.Errorf("(createIndex) [%d] expected error for %q", i, bed)
			continue
		}
		assert.Contains(t, err.Error(), "BED line 1")
	}
}

func TestCreateIndexGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.bed.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(targets)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	index, err := CreateIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 3, index.Len())

	_, err = CreateIndex(filepath.Join(t.TempDir(), "missing.bed"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	lengths := map[string]int{"chr1": 1000, "chr2": 500, "HLA-A*01:01": 300}
	for i, c := range []struct {
		in       string
		expected scan.Region
	}{
		{"chr1", scan.Region{Contig: "chr1", Start: 0, End: 1000}},
		{"chr1:101-200", scan.Region{Contig: "chr1", Start: 100, End: 200}},
		{"chr1:1,001-1,500", scan.Region{Contig: "chr1", Start: 1000, End: 1500}},
		{"chr1:501-500", scan.Region{Contig: "chr1", Start: 500, End: 500}},
		{"chr2:400", scan.Region{Contig: "chr2", Start: 399, End: 500}},
		{"chr2:400-", scan.Region{Contig: "chr2", Start: 399, End: 500}},
		{"chr2:1-9999", scan.Region{Contig: "chr2", Start: 0, End: 500}},
		{"HLA-A*01:01", scan.Region{Contig: "HLA-A*01:01", Start: 0, End: 300}},
		{"HLA-A*01:01:11-20", scan.Region{Contig: "HLA-A*01:01", Start: 10, End: 20}},
	} {
		r, err := Parse(c.in, lengths)
		if c.expected.End <= c.expected.Start {
			assert.Error(t, err, "[%d]", i)
			continue
		}
		if err != nil {
			t.Errorf("(Parse) [%d] unexpected error: %v", i, err)
			continue
		}
		if r != c.expected {
			t.Errorf("(Parse) [%d] expected %v, got %v", i, c.expected, r)
		}
	}
	for _, bad := range []string{"chrX", "chr1:0-10", "chr1:abc", "chr1:10-x", "chr1:20-10"} {
		_, err := Parse(bad, lengths)
		if assert.Error(t, err, bad) {
			assert.Equal(t, ErrBadRegion, errors.Cause(err), bad)
		}
	}
}
