package sam

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const header = "@HD\tVN:1.6\tSO:coordinate\n@SQ\tSN:ref\tLN:100\n@SQ\tSN:alt\tLN:50\n"

func checkTest(err error, t *testing.T) {
	if err != nil {
		t.Fatal(err)
	}
}

func parseOne(t *testing.T, line string) *Record {
	recs, err := ReadAll(strings.NewReader(header + line))
	checkTest(err, t)
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
	return recs[0]
}

func TestFlags(t *testing.T) {
	for i, s := range []struct {
		line  string
		flags [8]bool
	}{
		{
			"r001	99	ref	7	30	8M2I4M1D3M	=	37	39	TTAGATAAAGGATACTG	*\n",
			[8]bool{true, false, true, true, true, false, false, false},
		},
		{
			"r002	4	*	0	0	*	*	0	0	*	*\n",
			[8]bool{true, true, false, false, false, false, false, false},
		},
		{
			"r003	9	ref	9	30	5S6M	*	0	0	GCCTAAGCTAA	*\n",
			[8]bool{true, false, true, false, false, false, true, false},
		},
		{
			"r004	256	ref	16	30	6M14N5M	*	0	0	ATAGCTTCAGC	*\n",
			[8]bool{false, false, false, false, false, false, false, false},
		},
		{
			"r003	149	*	0	0	*	*	0	0	*	*\n",
			[8]bool{true, true, true, false, false, true, false, true},
		},
		{
			"r001	147	ref	37	30	9M	=	7	-39	CAGCGGCAT	*\n",
			[8]bool{true, false, true, true, false, true, false, true},
		},
	} {
		rec := parseOne(t, s.line)
		flags := [8]bool{rec.IsPrimary(), rec.IsUnmapped(), rec.IsPaired(), rec.IsProperlyPaired(), rec.IsRead1(), rec.IsRead2(), rec.HasMateUnmapped(), rec.IsReverse()}
		if flags != s.flags {
			t.Errorf("(flags) [%d] %s: expected %v, got %v", i, rec.Name, s.flags, flags)
		}
	}
}

func TestPairOrientation(t *testing.T) {
	for i, s := range []struct {
		line                   string
		faceAway, otherContig bool
		softClipped            bool
	}{
		{"r1	99	ref	7	30	5M	=	37	35	ACGTA	IIIII\n", false, false, false},
		{"r2	83	ref	7	30	5M	=	37	35	ACGTA	IIIII\n", true, false, false},
		{"r3	97	ref	7	30	2S3M	alt	3	0	ACGTA	IIIII\n", false, true, true},
		{"r4	65	ref	7	30	5M	=	37	0	ACGTA	IIIII\n", false, false, false},
	} {
		rec := parseOne(t, s.line)
		if got := rec.IsFaceAway(); got != s.faceAway {
			t.Errorf("(IsFaceAway) [%d] expected %v, got %v", i, s.faceAway, got)
		}
		if got := rec.HasMateOnOtherContig(); got != s.otherContig {
			t.Errorf("(HasMateOnOtherContig) [%d] expected %v, got %v", i, s.otherContig, got)
		}
		if got := rec.IsSoftClipped(); got != s.softClipped {
			t.Errorf("(IsSoftClipped) [%d] expected %v, got %v", i, s.softClipped, got)
		}
	}
}

func TestBasesAndQualities(t *testing.T) {
	rec := parseOne(t, "r1	0	ref	11	60	4M	*	0	0	ACGT	!+5?\n")
	if rec.Contig() != "ref" || rec.Start() != 10 || rec.End() != 14 {
		t.Fatalf("unexpected placement %s:%d-%d", rec.Contig(), rec.Start(), rec.End())
	}
	for i, c := range []struct {
		base, qual byte
	}{
		{'A', 0}, {'C', 10}, {'G', 20}, {'T', 30},
	} {
		if b := rec.BaseAt(i); b != c.base {
			t.Errorf("(BaseAt) [%d] expected %c, got %c", i, c.base, b)
		}
		if q := rec.QualAt(i); q != c.qual {
			t.Errorf("(QualAt) [%d] expected %d, got %d", i, c.qual, q)
		}
	}
	if b := rec.BaseAt(10); b != 'N' {
		t.Errorf("(BaseAt) out of range: expected N, got %c", b)
	}
	if q := rec.QualAt(-1); q != 0xff {
		t.Errorf("(QualAt) out of range: expected 0xff, got %d", q)
	}
}

func collect(t *testing.T, src Source) []string {
	var names []string
	for src.Next() {
		names = append(names, src.Record().Name)
	}
	checkTest(src.Error(), t)
	return names
}

const records = "a	0	ref	1	30	5M	*	0	0	AAAAA	IIIII\n" +
	"b	0	ref	20	30	5M	*	0	0	AAAAA	IIIII\n" +
	"c	0	ref	40	30	5M	*	0	0	AAAAA	IIIII\n" +
	"d	0	alt	1	30	5M	*	0	0	AAAAA	IIIII\n"

func TestSliceFetch(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(header + records))
	checkTest(err, t)
	for i, c := range []struct {
		contig     string
		start, end int
		expected   string
	}{
		{"ref", 0, 100, "a,b,c"},
		{"ref", 5, 40, "b,c"},
		{"ref", 23, 39, "b"},
		{"ref", 24, 39, ""},
		{"alt", 0, 50, "d"},
		{"none", 0, 50, ""},
	} {
		src, err := Slice(recs).Fetch(c.contig, c.start, c.end)
		checkTest(err, t)
		got := strings.Join(collect(t, src), ",")
		if got != c.expected {
			t.Errorf("(Fetch) [%d] %s:%d-%d expected %q, got %q", i, c.contig, c.start, c.end, c.expected, got)
		}
	}
}

func TestReaderSequential(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "test.sam")
	checkTest(os.WriteFile(fn, []byte(header+records), 0644), t)

	r, err := NewReader(fn, 1)
	checkTest(err, t)
	if len(r.Refs) != 2 {
		t.Fatalf("expected 2 references, got %d", len(r.Refs))
	}
	src, err := r.Fetch("ref", 10, 100)
	checkTest(err, t)
	got := strings.Join(collect(t, src), ",")
	if got != "b,c" {
		t.Errorf("(Fetch) expected b,c, got %s", got)
	}
	checkTest(src.(*Iterator).Close(), t)

	r.MaxReads = 1
	src, err = r.Fetch("ref", 0, 100)
	checkTest(err, t)
	if got := strings.Join(collect(t, src), ","); got != "a" {
		t.Errorf("(Fetch) with MaxReads expected a, got %s", got)
	}

	_, err = r.Fetch("chrZ", 0, 10)
	if errors.Cause(err) != ErrUnknownContig {
		t.Errorf("(Fetch) expected ErrUnknownContig, got %v", err)
	}
}

const unsorted = "@HD\tVN:1.6\n@SQ\tSN:ref\tLN:1000\n" +
	"a\t0\tref\t11\t30\t3M\t*\t0\t0\tAAA\tIII\n" +
	"b\t0\tref\t501\t30\t3M\t*\t0\t0\tAAA\tIII\n" +
	"c\t0\tref\t21\t30\t3M\t*\t0\t0\tAAA\tIII\n"

func TestReaderSequentialOrdering(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "unsorted.sam")
	checkTest(os.WriteFile(fn, []byte(unsorted), 0644), t)
	r, err := NewReader(fn, 1)
	checkTest(err, t)
	for i, c := range []struct {
		start, end int
		expected   string
	}{
		{0, 100, "a"},
		{0, 1000, "a,b"},
		{600, 1000, ""},
	} {
		src, err := r.Fetch("ref", c.start, c.end)
		checkTest(err, t)
		var names []string
		for src.Next() {
			names = append(names, src.Record().Name)
		}
		if got := strings.Join(names, ","); got != c.expected {
			t.Errorf("(Fetch) [%d] %d-%d expected %q, got %q", i, c.start, c.end, c.expected, got)
		}
		var oe *OrderError
		if !errors.As(src.Error(), &oe) {
			t.Errorf("(Fetch) [%d] %d-%d expected an OrderError, got %v", i, c.start, c.end, src.Error())
			continue
		}
		if oe.Read != "c" || oe.Prev != 500 || oe.Start != 20 {
			t.Errorf("(Fetch) [%d] unexpected error %v", i, oe)
		}
		if errors.Cause(src.Error()) != ErrInputOrdering {
			t.Errorf("(Fetch) [%d] expected ErrInputOrdering cause", i)
		}
	}
}

func TestReaderSortOrder(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "byname.sam")
	text := strings.Replace(header, "SO:coordinate", "SO:queryname", 1) + records
	checkTest(os.WriteFile(fn, []byte(text), 0644), t)
	_, err := NewReader(fn, 1)
	if errors.Cause(err) != ErrInputOrdering {
		t.Errorf("(NewReader) expected ErrInputOrdering for a name sorted file, got %v", err)
	}
}

func TestCheckBytes(t *testing.T) {
	for i, c := range []struct {
		data     []byte
		expected bool
	}{
		{[]byte{0x1f, 0x8b, 0x08}, true},
		{[]byte("@HD"), false},
		{[]byte{0x1f}, false},
	} {
		ok, err := isBgzf(bufioReader(c.data))
		checkTest(err, t)
		if ok != c.expected {
			t.Errorf("(isBgzf) [%d] expected %v, got %v", i, c.expected, ok)
		}
	}
}

func bufioReader(b []byte) *bufio.Reader {
	return bufio.NewReader(bytes.NewReader(b))
}
