// Package reference provides reference bases to the pileup statistics.
package reference

import (
	"io"
	"os"

	"github.com/biogo/hts/fai"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Unknown is returned for positions without a known reference base.
const Unknown byte = 0

// blockSize is the length of sequence read from a FASTA file at a time.
const blockSize = 1 << 16

// Provider returns the upper-case reference base at a 0-based position, or Unknown.
type Provider interface {
	Base(contig string, pos int) byte
}

// Lookup calls p.Base, treating a nil Provider as knowing nothing.
func Lookup(p Provider, contig string, pos int) byte {
	if p == nil {
		return Unknown
	}
	return p.Base(contig, pos)
}

// Map serves sequences held in memory, keyed by contig name.
type Map map[string]string

// Base implements Provider.
func (m Map) Base(contig string, pos int) byte {
	s, ok := m[contig]
	if !ok || pos < 0 || pos >= len(s) {
		return Unknown
	}
	return upper(s[pos])
}

// Fasta serves bases from a FASTA file indexed with samtools faidx. Bases are
// read in blocks, so lookups at increasing positions are cheap. A Fasta must
// not be shared between goroutines.
type Fasta struct {
	Path  string
	f     *os.File
	idx   fai.Index
	fa    *fai.File
	chr   string
	start int
	buf   []byte
}

// Open opens path and its .fai index.
func Open(path string) (*Fasta, error) {
	idxFile, err := os.Open(path + ".fai")
	if err != nil {
		return nil, errors.Wrapf(err, "opening FASTA index for %s", path)
	}
	defer idxFile.Close()
	idx, err := fai.ReadFrom(idxFile)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s.fai", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Fasta{
		Path: path,
		f:    f,
		idx:  idx,
		fa:   fai.NewFile(f, idx),
	}, nil
}

// Len returns the length of contig and whether it is present in the index.
func (r *Fasta) Len(contig string) (int, bool) {
	rec, ok := r.idx[contig]
	if !ok {
		return 0, false
	}
	return rec.Length, true
}

// Base implements Provider. Read failures are logged and reported as Unknown.
func (r *Fasta) Base(contig string, pos int) byte {
	length, ok := r.Len(contig)
	if !ok || pos < 0 || pos >= length {
		return Unknown
	}
	if contig != r.chr || pos < r.start || pos >= r.start+len(r.buf) {
		if err := r.load(contig, pos, length); err != nil {
			log.WithFields(log.Fields{
				"Reference": contig,
				"Position":  pos,
			}).Warnf("Cannot read reference sequence: %v", err)
			r.chr, r.buf = "", nil
			return Unknown
		}
	}
	return upper(r.buf[pos-r.start])
}

func (r *Fasta) load(contig string, pos, length int) error {
	end := pos + blockSize
	if end > length {
		end = length
	}
	seq, err := r.fa.SeqRange(contig, pos, end)
	if err != nil {
		return err
	}
	buf := r.buf[:0]
	if cap(buf) < end-pos {
		buf = make([]byte, 0, blockSize)
	}
	buf = buf[:end-pos]
	if _, err := io.ReadFull(seq, buf); err != nil {
		return err
	}
	r.chr, r.start, r.buf = contig, pos, buf
	return nil
}

// Close closes the FASTA file.
func (r *Fasta) Close() error {
	return r.f.Close()
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
