package core

// decode.go turns an uploaded CSV file into a RawTable.
//
// This is the host's decoder, not part of the validation pass: the engine
// only ever sees rows of raw text. Decoding is lenient so that a messy
// export still reaches the engine and gets cell-level errors instead of a
// file-level rejection:
//   - a UTF-8 byte order mark is dropped
//   - invalid UTF-8 sequences become U+FFFD
//   - rows may have any width, and stray quotes are tolerated

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrFileTooLarge is returned when the input exceeds the decode limit.
var ErrFileTooLarge = errors.New("file too large")

// DefaultMaxFileSize is the decode limit used when none is given (100MB).
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable decodes CSV from r. maxSize bounds the input in bytes; a value
// of zero or less uses DefaultMaxFileSize.
func ReadTable(r io.Reader, maxSize int64) (RawTable, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, maxSize)
	}

	return parseCSV(sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM)))
}

func parseCSV(data []byte) (RawTable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	table := make(RawTable, len(records))
	for i, rec := range records {
		table[i] = Row(rec)
	}
	return table, nil
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// WriteTemplate writes a header-only CSV for schema.
func WriteTemplate(w io.Writer, schema Schema) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Labels()); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
