// Package pileup turns a sorted stream of alignments into per-position pileup columns.
package pileup

import (
	log "github.com/sirupsen/logrus"

	"github.com/guigolab/pilestats/sam"
)

// Builder sweeps a sorted read source and yields one Column per covered
// position of [start, end), in increasing order. A position is covered when a
// read spans it or an insertion is anchored at it. Only the reads overlapping
// the current position are kept in memory.
type Builder struct {
	src        sam.Source
	policy     Policy
	contig     string
	start, end int
	pos        int
	last       int
	active     []*cursor
	anchors    []Anchor
	next       *sam.Record
	col        *Column
	started    bool
	exhausted  bool
	err        error
	// Dropped counts reads discarded because MaxDepth was reached.
	Dropped int
}

// NewBuilder returns a Builder over the reads of src overlapping [start, end).
func NewBuilder(src sam.Source, policy Policy, contig string, start, end int) *Builder {
	return &Builder{
		src:    src,
		policy: policy.Normalize(),
		contig: contig,
		start:  start,
		end:    end,
		pos:    start,
		last:   -1,
	}
}

// Column returns the current column. It is not modified by later calls to Next.
func (b *Builder) Column() *Column {
	return b.col
}

// Err returns the error that stopped the Builder, if any.
func (b *Builder) Err() error {
	return b.err
}

// Next advances to the next covered position.
func (b *Builder) Next() bool {
	b.col = nil
	if !b.started {
		b.started = true
		b.pull()
	}
	for b.err == nil {
		if len(b.active) == 0 {
			if b.next == nil {
				return false
			}
			if s := b.next.Start(); s > b.pos {
				b.pos = s
			}
		}
		if b.pos >= b.end {
			b.active, b.anchors, b.next = nil, nil, nil
			return false
		}
		for b.next != nil && b.next.Start() <= b.pos {
			b.admit(b.next)
			b.pull()
		}
		if b.err != nil {
			return false
		}
		col := b.column(b.pos)
		b.pos++
		b.evict()
		if len(col.Entries) > 0 || len(col.Anchors) > 0 {
			b.col = col
			return true
		}
	}
	return false
}

// pull reads the next record that passes the policy into the lookahead slot.
func (b *Builder) pull() {
	b.next = nil
	if b.exhausted {
		return
	}
	for b.src.Next() {
		r := b.src.Record()
		if r.Start() < b.last {
			b.err = &OrderError{Contig: b.contig, Read: r.Name, Prev: b.last, Start: r.Start()}
			return
		}
		b.last = r.Start()
		if !b.policy.Keep(r) {
			continue
		}
		if r.Start() >= b.end {
			break
		}
		b.next = r
		return
	}
	b.exhausted = true
	if err := b.src.Error(); err != nil {
		b.err = err
	}
}

// admit adds r to the active set. An insertion before the first reference
// position of r, or all of r when it has no reference span, is anchored at
// its start.
func (b *Builder) admit(r *sam.Record) {
	segs, lead := segments(r)
	if len(segs) == 0 {
		b.anchor(r, lead)
		return
	}
	c := newCursor(r, segs)
	if c.end <= b.start || c.end <= b.pos {
		return
	}
	if b.policy.MaxDepth > 0 && len(b.active) >= b.policy.MaxDepth {
		b.Dropped++
		if b.Dropped == 1 {
			log.WithFields(log.Fields{
				"Reference": b.contig,
				"Position":  b.pos,
				"MaxDepth":  b.policy.MaxDepth,
			}).Debugf("Maximum depth reached, dropping reads")
		}
		return
	}
	b.active = append(b.active, c)
	b.anchor(r, lead)
}

func (b *Builder) anchor(r *sam.Record, n int) {
	if n > 0 && r.Start() >= b.start {
		b.anchors = append(b.anchors, Anchor{Read: r, Len: n})
	}
}

func (b *Builder) column(pos int) *Column {
	col := &Column{Contig: b.contig, Pos: pos}
	if len(b.active) > 0 {
		col.Entries = make([]Entry, 0, len(b.active))
	}
	for _, c := range b.active {
		if e, ok := c.at(pos); ok {
			col.Entries = append(col.Entries, e)
		}
	}
	i := 0
	for i < len(b.anchors) && b.anchors[i].Read.Start() <= pos {
		if b.anchors[i].Read.Start() == pos {
			col.Anchors = append(col.Anchors, b.anchors[i])
		}
		i++
	}
	b.anchors = b.anchors[i:]
	return col
}

// evict drops the reads ending at or before the current position.
func (b *Builder) evict() {
	n := 0
	for _, c := range b.active {
		if c.end > b.pos {
			b.active[n] = c
			n++
		}
	}
	for i := n; i < len(b.active); i++ {
		b.active[i] = nil
	}
	b.active = b.active[:n]
}
