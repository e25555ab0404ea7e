package advscan

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sink receives every captured record.
type Sink interface {
	Emit(r Record) error
}

// SinkFunc is an adapter to allow the use of ordinary functions as sinks.
type SinkFunc func(r Record) error

// Emit calls f(r).
func (f SinkFunc) Emit(r Record) error {
	return f(r)
}

// TSVSink writes one tab-separated line per record: the address followed by
// the type code, label and value of each structure.
type TSVSink struct {
	w *bufio.Writer
}

// NewTSVSink returns a sink writing tab-separated lines to w.
func NewTSVSink(w io.Writer) *TSVSink {
	return &TSVSink{w: bufio.NewWriter(w)}
}

// Emit writes the line and flushes it immediately.
func (s *TSVSink) Emit(r Record) error {
	s.w.WriteString(FormatTSV(r))
	s.w.WriteByte('\n')
	return s.w.Flush()
}

// FormatTSV returns the tab-separated form of a record, without the trailing
// newline. The timestamp is not part of it.
func FormatTSV(r Record) string {
	fields := make([]string, 0, 1+3*len(r.Structs))
	fields = append(fields, r.Addr)
	for _, s := range r.Structs {
		fields = append(fields, s.Type.String(), s.Desc, s.Value)
	}
	return strings.Join(fields, "\t")
}

// JSONSink writes one JSON object per line.
type JSONSink struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONSink returns a sink writing JSON lines to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONSink{w: bw, enc: enc}
}

// Emit writes the record and flushes it immediately.
func (s *JSONSink) Emit(r Record) error {
	if err := s.enc.Encode(r); err != nil {
		return err
	}
	return s.w.Flush()
}

// FileAppendSink appends the JSON form of every record to a file. The file
// is opened in append mode and closed again for each record, so it is never
// truncated and is recreated by the next record if it was removed.
type FileAppendSink struct {
	path    string
	newline bool
}

// NewFileAppendSink returns a sink appending to path. When newline is false
// payloads are written back to back, without a separator.
func NewFileAppendSink(path string, newline bool) *FileAppendSink {
	return &FileAppendSink{path: path, newline: newline}
}

// Emit appends the record to the file.
func (s *FileAppendSink) Emit(r Record) (err error) {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if s.newline {
		b = append(b, '\n')
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", s.path, cerr)
		}
	}()

	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

// TeeSink emits every record to each of its sinks in order.
type TeeSink []Sink

// Emit passes r to all sinks, stopping at the first error.
func (t TeeSink) Emit(r Record) error {
	for _, s := range t {
		if err := s.Emit(r); err != nil {
			return err
		}
	}
	return nil
}
