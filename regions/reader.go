package regions

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// FeatureReader reads BED records from a plain, gzip or bzip2 compressed stream.
type FeatureReader struct {
	r    *bufio.Reader
	line int
}

// NewFeatureReader returns a FeatureReader over r, detecting compression from the first bytes.
func NewFeatureReader(r io.Reader) (*FeatureReader, error) {
	br, err := buffReader(r)
	if err != nil {
		return nil, err
	}
	return &FeatureReader{r: br}, nil
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
	return bytes.Equal(m, buf), nil
}

func isGzip(b *bufio.Reader) (bool, error) {
	return CheckBytes(b, []byte{0x1f, 0x8b})
}

func isBzip2(b *bufio.Reader) (bool, error) {
	return CheckBytes(b, []byte{0x42, 0x5a, 0x68})
}

func buffReader(r io.Reader) (*bufio.Reader, error) {
	br := bufio.NewReader(r)
	if isGz, err := isGzip(br); err != nil {
		return nil, err
	} else if isGz {
		rdr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return bufio.NewReader(rdr), nil
	}
	if isBz, err := isBzip2(br); err != nil {
		return nil, err
	} else if isBz {
		return bufio.NewReader(bzip2.NewReader(br)), nil
	}
	return br, nil
}

func skip(line []byte) bool {
	return len(line) == 0 ||
		bytes.HasPrefix(line, []byte{'#'}) ||
		bytes.HasPrefix(line, []byte("track")) ||
		bytes.HasPrefix(line, []byte("browser"))
}

// Read returns the next feature. Empty intervals are skipped. It returns io.EOF
// at the end of the stream.
func (r *FeatureReader) Read() (*Feature, error) {
	for {
		line, err := r.r.ReadBytes('\n')
		if err != nil && (err != io.EOF || len(line) == 0) {
			return nil, err
		}
		r.line++
		line = bytes.TrimSpace(line)
		if skip(line) {
			continue
		}
		f, perr := r.parse(line)
		if perr != nil {
			return nil, errors.Wrapf(perr, "BED line %d", r.line)
		}
		if f == nil {
			continue
		}
		return f, nil
	}
}

func (r *FeatureReader) parse(line []byte) (*Feature, error) {
	fields := bytes.Split(line, []byte{'\t'})
	if len(fields) < 3 {
		return nil, errors.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	start, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return nil, errors.Wrap(err, "start")
	}
	end, err := strconv.Atoi(string(fields[2]))
	if err != nil {
		return nil, errors.Wrap(err, "end")
	}
	if start < 0 || end < start {
		return nil, errors.Errorf("invalid interval [%d, %d)", start, end)
	}
	if end == start {
		return nil, nil
	}
	var name string
	if len(fields) > 3 {
		name = string(fields[3])
	}
	return NewFeature(string(fields[0]), name, start, end)
}
