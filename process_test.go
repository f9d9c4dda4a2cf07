package pilestats

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guigolab/pilestats/config"
	"github.com/guigolab/pilestats/pileup"
	"github.com/guigolab/pilestats/regions"
	"github.com/guigolab/pilestats/scan"
)

const testSam = "@HD\tVN:1.6\tSO:coordinate\n" +
	"@SQ\tSN:chr1\tLN:200\n" +
	"@SQ\tSN:chr2\tLN:100\n" +
	"r1\t0\tchr1\t11\t60\t5M\t*\t0\t0\tACGTA\tIIIII\n" +
	"r2\t16\tchr1\t13\t60\t5M\t*\t0\t0\tCCCCC\tIIIII\n" +
	"r3\t0\tchr2\t1\t60\t3M\t*\t0\t0\tGGG\tIII\n"

const coverageHeader = "chrom\tpos\treads_all\treads_pp\treads_fwd\treads_rev\treads_pp_fwd\treads_pp_rev\treads_mate1\treads_mate2"

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeBam(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "test.bam")
	sr, err := sam.NewReader(strings.NewReader(text))
	require.NoError(t, err)
	f, err := os.Create(path)
	require.NoError(t, err)
	bw, err := bam.NewWriter(f, sr.Header(), 1)
	require.NoError(t, err)
	for {
		rec, err := sr.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, bw.Write(rec))
	}
	require.NoError(t, bw.Close())
	require.NoError(t, f.Close())
	return path
}

func newConfig(input string) *config.Config {
	cfg := config.NewConfig(2, 1, -1)
	cfg.Input = input
	return cfg
}

func process(t *testing.T, cfg *config.Config) []string {
	var buf bytes.Buffer
	require.NoError(t, Process(cfg, &buf))
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestProcessTSV(t *testing.T) {
	expected := []string{
		coverageHeader,
		"chr1\t10\t1\t0\t1\t0\t0\t0\t0\t0",
		"chr1\t11\t1\t0\t1\t0\t0\t0\t0\t0",
		"chr1\t12\t2\t0\t1\t1\t0\t0\t0\t0",
		"chr1\t13\t2\t0\t1\t1\t0\t0\t0\t0",
		"chr1\t14\t2\t0\t1\t1\t0\t0\t0\t0",
		"chr1\t15\t1\t0\t0\t1\t0\t0\t0\t0",
		"chr1\t16\t1\t0\t0\t1\t0\t0\t0\t0",
		"chr2\t0\t1\t0\t1\t0\t0\t0\t0\t0",
		"chr2\t1\t1\t0\t1\t0\t0\t0\t0\t0",
		"chr2\t2\t1\t0\t1\t0\t0\t0\t0\t0",
	}
	for i, input := range []string{writeFile(t, "test.sam", testSam), writeBam(t, testSam)} {
		for _, cpu := range []int{1, 4} {
			cfg := newConfig(input)
			cfg.Cpu = cpu
			got := process(t, cfg)
			if !assert.Equal(t, expected, got) {
				t.Errorf("(Process) [%d] unexpected output with %d cpus", i, cpu)
			}
		}
	}
}

func TestProcessOneBased(t *testing.T) {
	cfg := newConfig(writeFile(t, "test.sam", testSam))
	cfg.Region = "chr1:13-14"
	cfg.OneBased = true
	assert.Equal(t, []string{
		coverageHeader,
		"chr1\t13\t2\t0\t1\t1\t0\t0\t0\t0",
		"chr1\t14\t2\t0\t1\t1\t0\t0\t0\t0",
	}, process(t, cfg))
}

func TestProcessPad(t *testing.T) {
	cfg := newConfig(writeFile(t, "test.sam", testSam))
	cfg.Region = "chr2:1-5"
	cfg.Pad = true
	got := process(t, cfg)
	require.Len(t, got, 6)
	assert.Equal(t, "chr2\t3\t0\t0\t0\t0\t0\t0\t0\t0", got[4])
}

func TestProcessWindowsJSON(t *testing.T) {
	cfg := newConfig(writeBam(t, testSam))
	cfg.Region = "chr1:1-20"
	cfg.Window = 5
	cfg.Format = config.JSON
	assert.Equal(t, []string{
		`{"chrom":"chr1","start":10,"end":15,"reads_all":8,"reads_pp":0,"reads_fwd":5,"reads_rev":3,"reads_pp_fwd":0,"reads_pp_rev":0,"reads_mate1":0,"reads_mate2":0}`,
		`{"chrom":"chr1","start":15,"end":20,"reads_all":2,"reads_pp":0,"reads_fwd":0,"reads_rev":2,"reads_pp_fwd":0,"reads_pp_rev":0,"reads_mate1":0,"reads_mate2":0}`,
	}, process(t, cfg))

	cfg.Window = 0
	cfg.MinDepth = 2
	cfg.Format = config.TSV
	cfg.Region = ""
	got := process(t, cfg)
	assert.Equal(t, "chrom\tstart\tend\treads_all", strings.Join(strings.Split(got[0], "\t")[:4], "\t"))
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[1], "chr1\t12\t15\t6\t"), got[1])
}

func TestProcessBed(t *testing.T) {
	cfg := newConfig(writeFile(t, "test.sam", testSam))
	cfg.Bed = writeFile(t, "targets.bed", "chr2\t0\t1\nchr1\t11\t13\tt1\nchrM\t0\t10\n")
	got := process(t, cfg)
	require.Len(t, got, 4)
	assert.True(t, strings.HasPrefix(got[1], "chr1\t11\t"))
	assert.True(t, strings.HasPrefix(got[2], "chr1\t12\t"))
	assert.True(t, strings.HasPrefix(got[3], "chr2\t0\t"))
}

func TestProcessFasta(t *testing.T) {
	fa := writeFile(t, "ref.fa", ">chr1\nACGTACGTACGTACGTACGT\n")
	require.NoError(t, os.WriteFile(fa+".fai", []byte("chr1\t20\t6\t20\t21\n"), 0644))
	cfg := newConfig(writeFile(t, "test.sam", testSam))
	cfg.Fasta = fa
	cfg.Stat = "bases"
	cfg.Region = "chr1:11-11"
	assert.Equal(t, []string{
		"chrom\tpos\tref\treads_all\treads_pp\tmatches\tmatches_pp\tmismatches\tmismatches_pp\tA\tC\tG\tT\tN",
		"chr1\t10\tG\t1\t0\t0\t0\t1\t0\t1\t0\t0\t0\t0",
	}, process(t, cfg))

	cfg.Fasta = ""
	assert.Equal(t, "chr1\t10\tN\t1\t0\tNA\tNA\tNA\tNA\t1\t0\t0\t0\t0", process(t, cfg)[1])

	cfg.Fasta = filepath.Join(t.TempDir(), "missing.fa")
	assert.Error(t, Process(cfg, io.Discard))
}

func TestProcessPolicy(t *testing.T) {
	cfg := newConfig(writeFile(t, "test.sam", testSam))
	cfg.Region = "chr1:13-13"
	cfg.Policy = pileup.Policy{MinMappingQuality: 61}
	assert.Equal(t, []string{coverageHeader}, process(t, cfg))
}

func TestProcessErrors(t *testing.T) {
	input := writeFile(t, "test.sam", testSam)
	for i, c := range []struct {
		set   func(*config.Config)
		cause error
	}{
		{func(c *config.Config) { c.Stat = "variation" }, nil},
		{func(c *config.Config) { c.Region = "chrX:1-10" }, regions.ErrBadRegion},
		{func(c *config.Config) { c.Input = filepath.Join(filepath.Dir(input), "missing.bam") }, nil},
		{func(c *config.Config) { c.Format = "xml" }, nil},
		{func(c *config.Config) { c.Window, c.MinDepth = 10, 2 }, nil},
	} {
		cfg := newConfig(input)
		c.set(cfg)
		err := Process(cfg, io.Discard)
		if err == nil {
			t.Errorf("(Process) [%d] expected error", i)
			continue
		}
		if c.cause != nil {
			assert.Equal(t, c.cause, errors.Cause(err), "[%d]", i)
		}
	}
}

func TestProcessOrdering(t *testing.T) {
	unsorted := "@HD\tVN:1.6\n@SQ\tSN:chr1\tLN:200\n" +
		"a\t0\tchr1\t11\t60\t3M\t*\t0\t0\tAAA\tIII\n" +
		"b\t0\tchr1\t31\t60\t3M\t*\t0\t0\tAAA\tIII\n" +
		"c\t0\tchr1\t21\t60\t3M\t*\t0\t0\tAAA\tIII\n"
	input := writeFile(t, "unsorted.sam", unsorted)
	var buf bytes.Buffer
	err := Process(newConfig(input), &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pileup.ErrInputOrdering))
	assert.Contains(t, err.Error(), "chr1:0-200")

	// the misplaced read lies inside the region, after a read past its end
	cfg := newConfig(input)
	cfg.Region = "chr1:1-25"
	err = Process(cfg, io.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pileup.ErrInputOrdering))
}

func TestRegions(t *testing.T) {
	var refs []*sam.Reference
	for _, r := range []struct {
		name string
		len  int
	}{{"chr1", 200}, {"chr2", 100}} {
		ref, err := sam.NewReference(r.name, "", "", r.len, nil, nil)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	regs, err := Regions(refs, "", nil)
	require.NoError(t, err)
	assert.Equal(t, []scan.Region{{Contig: "chr1", Start: 0, End: 200}, {Contig: "chr2", Start: 0, End: 100}}, regs)

	regs, err = Regions(refs, "chr2:51-60", nil)
	require.NoError(t, err)
	assert.Equal(t, []scan.Region{{Contig: "chr2", Start: 50, End: 60}}, regs)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0.2.0", Version())
}
