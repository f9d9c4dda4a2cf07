package pilestats

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/guigolab/pilestats/config"
	"github.com/guigolab/pilestats/stats"
)

// OutputOptions controls how record coordinates are written.
type OutputOptions struct {
	// OneBased writes 1-based positions; window ends are then inclusive,
	// which leaves them unchanged.
	OneBased bool
	// Windowed writes start and end columns instead of a single position.
	Windowed bool
}

// RecordWriter serialises records in a tabular or JSON Lines format.
type RecordWriter interface {
	// Begin writes the header, if the format has one.
	Begin() error
	Write(rec stats.Record) error
	Flush() error
}

// NewRecordWriter returns a RecordWriter for format, config.TSV or config.JSON,
// writing records with the given field names.
func NewRecordWriter(w io.Writer, format string, fields []string, opts OutputOptions) RecordWriter {
	if format == config.JSON {
		return NewJSONWriter(w, fields, opts)
	}
	return NewTSVWriter(w, fields, opts)
}

func (o OutputOptions) locus(l stats.Locus) (start, end int) {
	start, end = l.Start, l.End
	if o.OneBased {
		start++
	}
	return
}

// TSVWriter writes tab separated records with a header line. Undefined values
// are written as NA.
type TSVWriter struct {
	w      *bufio.Writer
	fields []string
	opts   OutputOptions
	buf    []byte
}

// NewTSVWriter returns a new TSVWriter writing to w.
func NewTSVWriter(w io.Writer, fields []string, opts OutputOptions) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriter(w), fields: fields, opts: opts}
}

// Begin writes the header line.
func (t *TSVWriter) Begin() error {
	t.buf = append(t.buf[:0], "chrom"...)
	if t.opts.Windowed {
		t.buf = append(t.buf, "\tstart\tend"...)
	} else {
		t.buf = append(t.buf, "\tpos"...)
	}
	for _, f := range t.fields {
		t.buf = append(t.buf, '\t')
		t.buf = append(t.buf, f...)
	}
	t.buf = append(t.buf, '\n')
	_, err := t.w.Write(t.buf)
	return err
}

// Write writes one record line.
func (t *TSVWriter) Write(rec stats.Record) error {
	l := rec.Loc()
	start, end := t.opts.locus(l)
	t.buf = append(t.buf[:0], l.Contig...)
	t.buf = append(t.buf, '\t')
	t.buf = strconv.AppendInt(t.buf, int64(start), 10)
	if t.opts.Windowed {
		t.buf = append(t.buf, '\t')
		t.buf = strconv.AppendInt(t.buf, int64(end), 10)
	}
	for _, v := range rec.Values() {
		t.buf = append(t.buf, '\t')
		t.buf = appendValue(t.buf, v)
	}
	t.buf = append(t.buf, '\n')
	_, err := t.w.Write(t.buf)
	return err
}

// Flush writes any buffered data to the underlying writer.
func (t *TSVWriter) Flush() error {
	return t.w.Flush()
}

func appendValue(buf []byte, v interface{}) []byte {
	switch v := v.(type) {
	case uint64:
		return strconv.AppendUint(buf, v, 10)
	case string:
		return append(buf, v...)
	case fmt.Stringer:
		return append(buf, v.String()...)
	}
	return append(buf, fmt.Sprint(v)...)
}

// JSONWriter writes one JSON object per record and line. Undefined values
// are written as null.
type JSONWriter struct {
	w      *bufio.Writer
	fields []string
	opts   OutputOptions
	buf    []byte
}

// NewJSONWriter returns a new JSONWriter writing to w.
func NewJSONWriter(w io.Writer, fields []string, opts OutputOptions) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w), fields: fields, opts: opts}
}

// Begin does nothing; JSON Lines output has no header.
func (j *JSONWriter) Begin() error {
	return nil
}

// Write writes one record object.
func (j *JSONWriter) Write(rec stats.Record) error {
	l := rec.Loc()
	start, end := j.opts.locus(l)
	j.buf = append(j.buf[:0], `{"chrom":`...)
	j.buf = strconv.AppendQuote(j.buf, l.Contig)
	if j.opts.Windowed {
		j.buf = append(j.buf, `,"start":`...)
		j.buf = strconv.AppendInt(j.buf, int64(start), 10)
		j.buf = append(j.buf, `,"end":`...)
		j.buf = strconv.AppendInt(j.buf, int64(end), 10)
	} else {
		j.buf = append(j.buf, `,"pos":`...)
		j.buf = strconv.AppendInt(j.buf, int64(start), 10)
	}
	for i, v := range rec.Values() {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		j.buf = append(j.buf, ',')
		j.buf = strconv.AppendQuote(j.buf, j.fields[i])
		j.buf = append(j.buf, ':')
		j.buf = append(j.buf, b...)
	}
	j.buf = append(j.buf, '}', '\n')
	_, err := j.w.Write(j.buf)
	return err
}

// Flush writes any buffered data to the underlying writer.
func (j *JSONWriter) Flush() error {
	return j.w.Flush()
}
