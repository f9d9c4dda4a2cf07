package utils

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
)

// Writer is a buffered output that flushes and closes every layer underneath it.
type Writer struct {
	*bufio.Writer
	closers []io.Closer
}

// Close flushes buffered data and closes the underlying writers.
func (w *Writer) Close() error {
	err := w.Flush()
	for _, c := range w.closers {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NewWriter returns a new Writer given an output file name. If the file name is '-'
// the Writer wraps os.Stdout, which is left open on Close. Names ending in
// .gz are gzip compressed.
func NewWriter(output string) (*Writer, error) {
	if output == "-" || output == "" {
		return &Writer{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(output, ".gz") {
		log.WithFields(log.Fields{
			"File": output,
		}).Debug("Writing gzip compressed output")
		zw := gzip.NewWriter(f)
		return &Writer{Writer: bufio.NewWriter(zw), closers: []io.Closer{zw, f}}, nil
	}
	return &Writer{Writer: bufio.NewWriter(f), closers: []io.Closer{f}}, nil
}
