// Package pilestats computes per-position and windowed pileup statistics from
// a coordinate sorted BAM or SAM file.
package pilestats

import (
	"io"
	"sync"
	"time"

	hts "github.com/biogo/hts/sam"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/guigolab/pilestats/config"
	"github.com/guigolab/pilestats/reference"
	"github.com/guigolab/pilestats/regions"
	"github.com/guigolab/pilestats/sam"
	"github.com/guigolab/pilestats/scan"
	"github.com/guigolab/pilestats/stats"
)

func init() {
	log.SetLevel(log.WarnLevel)
}

// job is one region to scan. Records are streamed on out, which is closed
// when the scan ends; err is set before that.
type job struct {
	id     int
	region scan.Region
	out    chan stats.Record
	err    error
}

var errCanceled = errors.New("canceled")

type run struct {
	cfg    *config.Config
	reader *sam.Reader
	family stats.Family
	opts   scan.Options
	done   chan struct{}
	once   sync.Once
	// err is the first failure; it is only read after all workers are done.
	err error
}

// fail records err and stops all workers. Only the first call has an effect.
func (r *run) fail(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
	})
}

// Regions returns the regions to scan: the region string, or every reference
// of refs when it is empty, clipped to the targets when an index is given.
func Regions(refs []*hts.Reference, region string, targets regions.Index) ([]scan.Region, error) {
	lengths := make(map[string]int, len(refs))
	var all []scan.Region
	for _, ref := range refs {
		lengths[ref.Name()] = ref.Len()
		all = append(all, scan.Region{Contig: ref.Name(), Start: 0, End: ref.Len()})
	}
	if region != "" {
		r, err := regions.Parse(region, lengths)
		if err != nil {
			return nil, err
		}
		all = []scan.Region{r}
	}
	if targets == nil {
		return all, nil
	}
	var clipped []scan.Region
	for _, r := range all {
		clipped = append(clipped, targets.Clip(r)...)
	}
	return clipped, nil
}

func (r *run) worker(id int, jobs <-chan *job, wg *sync.WaitGroup) {
	defer wg.Done()
	logger := log.WithFields(log.Fields{
		"worker": id,
	})
	logger.Debug("Starting")

	var ref reference.Provider
	if r.cfg.Fasta != "" {
		fa, err := reference.Open(r.cfg.Fasta)
		if err != nil {
			r.fail(errors.Wrapf(err, "opening %s", r.cfg.Fasta))
			for j := range jobs {
				j.err = errCanceled
				close(j.out)
			}
			return
		}
		defer fa.Close()
		ref = fa
	}

	for j := range jobs {
		start := time.Now()
		n, err := r.scan(j, ref)
		if err != nil && err != errCanceled {
			r.fail(err)
		}
		j.err = err
		close(j.out)
		if err != nil {
			continue
		}
		logger.WithFields(log.Fields{
			"region":  j.region,
			"records": n,
			"time":    time.Since(start),
		}).Debug("Region done")
	}
	logger.Debug("Done")
}

func (r *run) scan(j *job, ref reference.Provider) (int, error) {
	acc, err := stats.New(r.family, r.opts.Policy)
	if err != nil {
		return 0, err
	}
	s := scan.New(r.reader, ref, acc, r.opts)
	if err := s.Start(j.region); err != nil {
		return 0, errors.Wrapf(err, "region %s", j.region)
	}
	n := 0
	for s.Next() {
		select {
		case j.out <- s.Record():
			n++
		case <-r.done:
			return n, errCanceled
		}
	}
	if err := s.Err(); err != nil {
		return n, errors.Wrapf(err, "region %s", j.region)
	}
	return n, nil
}

func (r *run) dispatch(js []*job) <-chan *job {
	jobs := make(chan *job)
	go func() {
		defer close(jobs)
		for _, j := range js {
			select {
			case jobs <- j:
			case <-r.done:
				for _, rest := range js[j.id:] {
					close(rest.out)
				}
				return
			}
		}
	}()
	return jobs
}

// Process scans the input file as set up by cfg and writes the records to w,
// in region order.
func Process(cfg *config.Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	family, err := stats.ParseFamily(cfg.Stat)
	if err != nil {
		return err
	}
	reader, err := sam.NewReader(cfg.Input, cfg.Cpu)
	if err != nil {
		return errors.Wrapf(err, "opening %s", cfg.Input)
	}
	if cfg.Reads > 0 {
		reader.MaxReads = cfg.Reads
	}

	var targets regions.Index
	if cfg.Bed != "" {
		log.Infof("Creating index for %s", cfg.Bed)
		start := time.Now()
		targets, err = regions.CreateIndex(cfg.Bed)
		if err != nil {
			return err
		}
		log.Infof("Index done in %v", time.Since(start))
	}
	regs, err := Regions(reader.Refs, cfg.Region, targets)
	if err != nil {
		return err
	}

	opts := scan.Options{Policy: cfg.Policy.Normalize(), Pad: cfg.Pad}
	switch {
	case cfg.Window > 0:
		opts.Window = scan.Fixed(cfg.Window)
	case cfg.MinDepth > 0:
		opts.Window = scan.DepthRuns(cfg.MinDepth)
	}
	r := &run{
		cfg:    cfg,
		reader: reader,
		family: family,
		opts:   opts,
		done:   make(chan struct{}),
	}

	acc, err := stats.New(family, opts.Policy)
	if err != nil {
		return err
	}
	out := NewRecordWriter(w, cfg.Format, acc.Emit(stats.Locus{}).Fields(), OutputOptions{
		OneBased: cfg.OneBased,
		Windowed: cfg.Windowed(),
	})

	start := time.Now()
	js := make([]*job, len(regs))
	size := 0
	for i, reg := range regs {
		js[i] = &job{id: i, region: reg, out: make(chan stats.Record, cfg.MaxBuf)}
		size += reg.Len()
	}
	log.WithFields(log.Fields{
		"regions":   len(regs),
		"positions": size,
	}).Infof("Collecting %s stats for %s", family, cfg.Input)
	jobs := r.dispatch(js)
	var wg sync.WaitGroup
	workers := cfg.Cpu
	if workers > len(js) {
		workers = len(js)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.worker(i+1, jobs, &wg)
	}

	if err := collect(js, out); err != nil && err != errCanceled {
		r.fail(err)
	}
	for _, j := range js {
		for range j.out {
		}
	}
	wg.Wait()
	if r.err != nil {
		return r.err
	}
	if err := out.Flush(); err != nil {
		return err
	}
	log.Infof("Stats done in %v", time.Since(start))
	return nil
}

// collect writes the records of each job in turn, stopping at the first error.
func collect(js []*job, out RecordWriter) error {
	if err := out.Begin(); err != nil {
		return err
	}
	for _, j := range js {
		for rec := range j.out {
			if err := out.Write(rec); err != nil {
				return err
			}
		}
		if j.err != nil {
			return j.err
		}
	}
	return nil
}
