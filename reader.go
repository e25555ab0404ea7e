package advscan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedLine is returned by ParseTSVLine for lines that are not in the
// format written by TSVSink.
var ErrMalformedLine = errors.New("advscan: malformed tab-separated line")

// ParseTSVLine parses a line written by TSVSink. The returned record has a
// zero Time, since the tab-separated format does not carry one.
func ParseTSVLine(line string) (Record, error) {
	tokens := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if tokens[0] == "" {
		return Record{}, fmt.Errorf("%w: no address", ErrMalformedLine)
	}

	rest := tokens[1:]
	if len(rest)%3 != 0 {
		return Record{}, fmt.Errorf("%w: %d tokens after the address, want a multiple of 3", ErrMalformedLine, len(rest))
	}

	r := Record{Addr: tokens[0], Structs: make([]Structure, 0, len(rest)/3)}
	for ; len(rest) > 0; rest = rest[3:] {
		t, err := strconv.ParseUint(rest[0], 10, 8)
		if err != nil {
			return Record{}, fmt.Errorf("%w: type %q isn't a number", ErrMalformedLine, rest[0])
		}
		r.Structs = append(r.Structs, Structure{
			Type:  ADType(t),
			Desc:  rest[1],
			Value: rest[2],
		})
	}
	return r, nil
}

// RecordReader reads records written by JSONSink or FileAppendSink. Records
// may be separated by newlines or written back to back.
type RecordReader struct {
	dec *json.Decoder
}

// NewRecordReader returns a reader decoding records from r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{dec: json.NewDecoder(r)}
}

// Next returns the next record, or io.EOF when the input is exhausted.
func (rr *RecordReader) Next() (Record, error) {
	var r Record
	if err := rr.dec.Decode(&r); err != nil {
		return Record{}, err
	}
	return r, nil
}
