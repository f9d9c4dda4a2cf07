// Package scan drives a pileup over a region and emits one summary record per
// position or per window.
package scan

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/guigolab/pilestats/pileup"
	"github.com/guigolab/pilestats/reference"
	"github.com/guigolab/pilestats/sam"
	"github.com/guigolab/pilestats/stats"
)

// State is the lifecycle stage of a Scanner.
type State int

const (
	Idle State = iota
	Scanning
	Windowing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Windowing:
		return "windowing"
	case Done:
		return "done"
	}
	return "unknown"
}

// Options configures a Scanner.
type Options struct {
	Policy pileup.Policy
	// Pad emits records for uncovered positions and windows too.
	Pad    bool
	Window Window
}

// Scanner is a single-use, pull-driven sequence of records over one region.
// It is not safe for concurrent use.
type Scanner struct {
	fetcher sam.Fetcher
	ref     reference.Provider
	acc     stats.Accumulator
	opts    Options

	state   State
	region  Region
	src     sam.Source
	b       *pileup.Builder
	pos     int
	pending *pileup.Column
	drained bool
	rec     stats.Record
	err     error
}

// New returns an Idle Scanner reading from fetcher and reducing columns with acc.
// ref may be nil when no reference is available.
func New(fetcher sam.Fetcher, ref reference.Provider, acc stats.Accumulator, opts Options) *Scanner {
	return &Scanner{
		fetcher: fetcher,
		ref:     ref,
		acc:     acc,
		opts:    opts,
	}
}

// State returns the current state.
func (s *Scanner) State() State {
	return s.state
}

// Start validates region and fetches its reads. An invalid region leaves the
// Scanner Idle; a fetch error moves it to Done.
func (s *Scanner) Start(region Region) error {
	if s.state != Idle {
		return ErrScannerUsed
	}
	if err := region.Validate(); err != nil {
		return err
	}
	src, err := s.fetcher.Fetch(region.Contig, region.Start, region.End)
	if err != nil {
		s.state = Done
		return err
	}
	s.region = region
	s.src = src
	s.b = pileup.NewBuilder(src, s.opts.Policy, region.Contig, region.Start, region.End)
	s.pos = region.Start
	s.state = Scanning
	if !s.opts.Window.IsZero() {
		s.state = Windowing
	}
	log.WithFields(log.Fields{
		"region": region,
		"state":  s.state,
	}).Debug("Starting scan")
	return nil
}

// Next advances to the next record. It returns false once the region is
// finished or an error occurred.
func (s *Scanner) Next() bool {
	var ok bool
	switch {
	case s.state == Scanning:
		ok = s.nextPosition()
	case s.state == Windowing && s.opts.Window.Size > 0:
		ok = s.nextFixed()
	case s.state == Windowing:
		ok = s.nextRun()
	default:
		return false
	}
	if !ok {
		s.finish()
	}
	return ok
}

// Record returns the current record.
func (s *Scanner) Record() stats.Record {
	return s.rec
}

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) finish() {
	s.state = Done
	s.rec = nil
	s.pending = nil
	if c, ok := s.src.(io.Closer); ok {
		if err := c.Close(); err != nil && s.err == nil {
			s.err = err
		}
	}
	log.WithFields(log.Fields{
		"region":  s.region,
		"dropped": s.b.Dropped,
	}).Debug("Scan done")
}

// peek returns the next covered column at or after s.pos, or nil when the
// builder is drained.
func (s *Scanner) peek() *pileup.Column {
	if s.pending == nil && !s.drained {
		if s.b.Next() {
			s.pending = s.b.Column()
		} else {
			s.drained = true
			s.err = s.b.Err()
		}
	}
	return s.pending
}

// take returns the column at s.pos, or nil when s.pos is not covered.
func (s *Scanner) take() *pileup.Column {
	if c := s.peek(); c != nil && c.Pos == s.pos {
		s.pending = nil
		return c
	}
	return nil
}

func (s *Scanner) empty() *pileup.Column {
	return &pileup.Column{Contig: s.region.Contig, Pos: s.pos}
}

func (s *Scanner) collect(col *pileup.Column) {
	s.acc.Collect(col, reference.Lookup(s.ref, s.region.Contig, s.pos))
}

func (s *Scanner) emit(start, end int) {
	s.rec = s.acc.Emit(stats.Locus{Contig: s.region.Contig, Start: start, End: end})
}

func (s *Scanner) nextPosition() bool {
	for s.pos < s.region.End {
		col := s.take()
		if s.err != nil {
			return false
		}
		if col == nil {
			if !s.opts.Pad {
				if s.pending == nil {
					return false
				}
				s.pos = s.pending.Pos
				continue
			}
			col = s.empty()
		}
		s.acc.Reset()
		s.collect(col)
		s.emit(s.pos, s.pos+1)
		s.pos++
		return true
	}
	return false
}

func (s *Scanner) nextFixed() bool {
	size := s.opts.Window.Size
	for s.pos < s.region.End {
		if !s.opts.Pad {
			c := s.peek()
			if s.err != nil || c == nil {
				return false
			}
			if skip := (c.Pos - s.pos) / size * size; skip > 0 {
				s.pos += skip
			}
		}
		start := s.pos
		end := start + size
		if end > s.region.End {
			end = s.region.End
		}
		covered := false
		s.acc.Reset()
		for ; s.pos < end; s.pos++ {
			col := s.take()
			if s.err != nil {
				return false
			}
			if col == nil {
				col = s.empty()
			} else {
				covered = true
			}
			s.collect(col)
		}
		if covered || s.opts.Pad {
			s.emit(start, end)
			return true
		}
	}
	return false
}

func (s *Scanner) nextRun() bool {
	minDepth := s.opts.Window.MinDepth
	start := -1
	for s.pos < s.region.End {
		col := s.take()
		if s.err != nil {
			return false
		}
		if col != nil && col.Depth() >= minDepth {
			if start < 0 {
				start = s.pos
				s.acc.Reset()
			}
			s.collect(col)
			s.pos++
			continue
		}
		if start >= 0 {
			s.emit(start, s.pos)
			s.pos++
			return true
		}
		if col == nil {
			if s.pending == nil {
				return false
			}
			s.pos = s.pending.Pos
			continue
		}
		s.pos++
	}
	if start >= 0 {
		s.emit(start, s.pos)
		return true
	}
	return false
}
