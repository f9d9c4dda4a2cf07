package sam

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/bgzf/index"
	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Source is a forward-only sequence of alignment records sorted by start position.
type Source interface {
	Next() bool
	Record() *Record
	Error() error
}

// Fetcher returns a fresh Source over the records overlapping a region.
type Fetcher interface {
	Fetch(contig string, start, end int) (Source, error)
}

// Reader gives region access to a BAM or SAM file. Every Fetch opens its own
// file handle, so regions can be scanned concurrently.
type Reader struct {
	FileName string
	Workers  int
	MaxReads int
	Header   *sam.Header
	Index    *bam.Index
	Refs     []*sam.Reference
	isBam    bool
}

// NewReader opens the alignment file, reads its header and, for BAM input,
// the .bai index when one is found next to it.
func NewReader(fileName string, workers int) (*Reader, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	br := bufio.NewReader(f)
	isBam, err := isBgzf(br)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fileName)
	}
	var h *sam.Header
	if isBam {
		r, err := bam.NewReader(br, workers)
		if err != nil {
			return nil, err
		}
		h = r.Header()
		r.Close()
	} else {
		r, err := sam.NewReader(br)
		if err != nil {
			return nil, err
		}
		h = r.Header()
	}
	var idx *bam.Index
	if isBam {
		idx, err = readIndex(fileName)
		if err != nil {
			return nil, err
		}
	}
	if idx == nil {
		if h.SortOrder != sam.UnknownOrder && h.SortOrder != sam.Coordinate {
			return nil, errors.Wrapf(ErrInputOrdering, "%s: header sort order is %v", fileName, h.SortOrder)
		}
		log.WithFields(log.Fields{
			"File": fileName,
		}).Warnf("No BAM index found, regions are read sequentially")
	}
	return &Reader{
		FileName: fileName,
		Workers:  workers,
		MaxReads: -1,
		Header:   h,
		Index:    idx,
		Refs:     h.Refs(),
		isBam:    isBam,
	}, nil
}

func readIndex(bamFile string) (*bam.Index, error) {
	for _, name := range []string{bamFile + ".bai", strings.TrimSuffix(bamFile, ".bam") + ".bai"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		log.Infof("Opening BAM index %s", name)
		i, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer i.Close()
		bai, err := bam.ReadIndex(i)
		if err != nil {
			return nil, errors.Wrapf(err, "reading index %s", name)
		}
		return bai, nil
	}
	return nil, nil
}

// Reference returns the header reference with the given name.
func (r *Reader) Reference(name string) (*sam.Reference, bool) {
	for _, ref := range r.Refs {
		if ref.Name() == name {
			return ref, true
		}
	}
	return nil, false
}

// Fetch returns an Iterator over the records of contig overlapping [start, end).
func (r *Reader) Fetch(contig string, start, end int) (Source, error) {
	ref, ok := r.Reference(contig)
	if !ok {
		return nil, errors.Wrap(ErrUnknownContig, contig)
	}
	f, err := os.Open(r.FileName)
	if err != nil {
		return nil, err
	}
	it := &Iterator{
		last:     -1,
		MaxReads: r.MaxReads,
		Chr:      contig,
		refID:    ref.ID(),
		start:    start,
		end:      end,
		closers:  []io.Closer{f},
	}
	if !r.isBam {
		sr, err := sam.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, err
		}
		it.next = sr.Read
		it.sequential = true
		return it, nil
	}
	br, err := bam.NewReader(f, r.Workers)
	if err != nil {
		f.Close()
		return nil, err
	}
	it.closers = append([]io.Closer{br}, it.closers...)
	if r.Index == nil {
		it.next = br.Read
		it.sequential = true
		return it, nil
	}
	log.WithFields(log.Fields{
		"Reference": contig,
		"Start":     start,
		"End":       end,
	}).Debugf("Querying index")
	chunks, err := r.Index.Chunks(ref, start, end)
	if err != nil {
		if err == io.EOF || err == index.ErrInvalid {
			it.next = func() (*sam.Record, error) { return nil, io.EOF }
			return it, nil
		}
		it.Close()
		return nil, err
	}
	bit, err := bam.NewIterator(br, chunks)
	if err != nil {
		it.Close()
		return nil, err
	}
	it.closers = append([]io.Closer{bit}, it.closers...)
	it.next = func() (*sam.Record, error) {
		if bit.Next() {
			return bit.Record(), nil
		}
		if err := bit.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return it, nil
}

// CheckBytes peeks at a buffered stream and checks if the first read bytes match.
func CheckBytes(b *bufio.Reader, buf []byte) (bool, error) {
	m, err := b.Peek(len(buf))
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	for i := range buf {
		if m[i] != buf[i] {
			return false, nil
		}
	}
	return true, nil
}

func isBgzf(b *bufio.Reader) (bool, error) {
	return CheckBytes(b, []byte{0x1f, 0x8b})
}
