package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/guigolab/pilestats"
	"github.com/guigolab/pilestats/config"
	"github.com/guigolab/pilestats/utils"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

var (
	loglevel string
	cfg      = config.NewConfig(runtime.NumCPU(), 1000, -1)
)

func run(cmd *cobra.Command, args []string) (err error) {
	level, err := log.ParseLevel(loglevel)
	if err != nil {
		return
	}
	log.SetLevel(level)
	logger := log.WithFields(log.Fields{
		"version":   version,
		"commit":    commit,
		"buildTime": date,
	})
	logger.Infof("Running %s", cmd.Use)
	log.Infof("Using %v out of %v logical CPUs", cfg.Cpu, runtime.NumCPU())

	w, err := utils.NewWriter(cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "creating %s", cfg.Output)
	}
	if err = pilestats.Process(cfg, w); err != nil {
		w.Close()
		return errors.Wrapf(err, "processing %s", cfg.Input)
	}
	return w.Close()
}

func setFlags(c *cobra.Command) {
	f := c.PersistentFlags()
	f.StringVarP(&cfg.Input, "input", "i", "", "input BAM or SAM file (required)")
	f.StringVarP(&cfg.Output, "output", "o", "-", "output file, gzipped if it ends in .gz")
	f.StringVarP(&loglevel, "loglevel", "", "warn", "logging level")
	f.IntVarP(&cfg.Cpu, "cpu", "c", runtime.NumCPU(), "number of cpus to be used")
	f.IntVarP(&cfg.MaxBuf, "max-buf", "", 1000, "maximum number of buffered records per region")
	f.IntVarP(&cfg.Reads, "reads", "n", -1, "number of records to process per region")
	f.StringVarP(&cfg.Stat, "type", "t", "coverage", "statistics type: coverage, bases, quality, indel, pair or gc")
	f.StringVarP(&cfg.Region, "region", "r", "", "region to scan, as chr, chr:start or chr:start-end")
	f.StringVarP(&cfg.Bed, "bed", "", "", "BED file with the target intervals")
	f.StringVarP(&cfg.Fasta, "fasta", "f", "", "indexed FASTA reference")
	f.IntVarP(&cfg.Window, "window", "w", 0, "fixed window size")
	f.IntVarP(&cfg.MinDepth, "min-depth", "", 0, "collect runs of positions with at least this depth")
	f.BoolVarP(&cfg.Pad, "pad", "", false, "output positions with no coverage")
	f.BoolVarP(&cfg.OneBased, "one-based", "", false, "output 1-based positions")
	f.StringVarP(&cfg.Format, "format", "", config.TSV, "output format: tsv or json")

	f.BoolVarP(&cfg.Policy.ExcludeDuplicates, "exclude-duplicates", "", false, "skip duplicate reads")
	f.BoolVarP(&cfg.Policy.ExcludeSecondary, "exclude-secondary", "", false, "skip secondary alignments")
	f.BoolVarP(&cfg.Policy.ExcludeSupplementary, "exclude-supplementary", "", false, "skip supplementary alignments")
	f.BoolVarP(&cfg.Policy.ExcludeUnmapped, "exclude-unmapped", "", false, "skip reads flagged unmapped that still carry a position")
	f.BoolVarP(&cfg.Policy.ExcludeQCFail, "exclude-qcfail", "", false, "skip reads failing quality checks")
	f.IntVarP(&cfg.Policy.MinMappingQuality, "min-mapq", "", 0, "minimum mapping quality")
	f.IntVarP(&cfg.Policy.MinBaseQuality, "min-baseq", "", 0, "minimum base quality")
	f.IntVarP(&cfg.Policy.MaxDepth, "max-depth", "", 0, "maximum number of reads per position, 0 for no limit")
	c.MarkPersistentFlagRequired("input")

	c.SetVersionTemplate(`{{with .Name}}{{printf "== %s ==\n" .}}{{end}}{{printf "%s\n" .Version}}`)
}

func buildVersion(version, commit, date string) string {
	var result = fmt.Sprintf("version: %s\nlibrary: %s", version, pilestats.Version())
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	return result
}

func main() {
	var rootCmd = &cobra.Command{
		Use:          "pilestats",
		Short:        "Pileup statistics",
		Long:         "pilestats - compute per-position and windowed pileup statistics",
		RunE:         run,
		Version:      buildVersion(version, commit, date),
		SilenceUsage: true,
	}

	setFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Debug(err)
		os.Exit(1)
	}
}
