package codec

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// maxLineBytes bounds a single record line. Firehose batches can carry
// long lines, but anything past this is a corrupt stream, not an event.
const maxLineBytes = 16 * 1024 * 1024

// Error marks a failure to decompress the raw object. It is fatal for the
// whole object: once the stream is corrupt there is no safe partial decode.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Decoder streams newline-delimited records out of a gzip-compressed buffer,
// in input order. Blank lines are not records and are discarded.
type Decoder struct {
	gz *gzip.Reader
	sc *bufio.Scanner
}

// NewDecoder validates the gzip header and prepares line iteration.
// A non-gzip buffer fails here with an *Error.
func NewDecoder(data []byte) (*Decoder, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Err: err}
	}
	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Decoder{gz: gz, sc: sc}, nil
}

// Next returns the next non-empty record line. It returns io.EOF when the
// stream is exhausted and an *Error if the stream turns out to be corrupt
// mid-read. The returned slice is a copy and remains valid across calls.
func (d *Decoder) Next() ([]byte, error) {
	for d.sc.Scan() {
		line := bytes.TrimSpace(d.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		out := make([]byte, len(line))
		copy(out, line)
		return out, nil
	}
	if err := d.sc.Err(); err != nil {
		return nil, &Error{Err: err}
	}
	if err := d.gz.Close(); err != nil {
		// A truncated gzip stream can scan cleanly and only fail the
		// trailer checksum on Close.
		return nil, &Error{Err: err}
	}
	return nil, io.EOF
}

// Encode joins record lines with a newline separator. The processed zone is
// plain NDJSON, so no compression and no trailing newline.
func Encode(lines [][]byte) []byte {
	return bytes.Join(lines, []byte("\n"))
}
