package core

import (
	"encoding/json"
	"sort"
)

// ParsedRecord holds one data row keyed by field.
//
// Cells under correctly positioned header columns land in Fields under the
// schema key. Every other cell lands in Unmapped under its raw header text,
// or the empty key when the column has no header. Original keeps the row
// exactly as uploaded, so no input is ever lost.
type ParsedRecord struct {
	Fields   map[string]string
	Unmapped map[string]string
	Original Row
}

// OriginalArrayKey is the JSON key carrying the verbatim row.
const OriginalArrayKey = "originalArray"

func newRecord(row Row) ParsedRecord {
	original := make(Row, len(row))
	copy(original, row)
	return ParsedRecord{
		Fields:   map[string]string{},
		Unmapped: map[string]string{},
		Original: original,
	}
}

// Get returns the value of a schema field.
func (r ParsedRecord) Get(key string) (string, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Value returns the value of a schema field, or "" when absent.
func (r ParsedRecord) Value(key string) string {
	return r.Fields[key]
}

// Keys returns every key present in the record, sorted.
func (r ParsedRecord) Keys() []string {
	seen := make(map[string]bool, len(r.Fields)+len(r.Unmapped))
	for k := range r.Unmapped {
		seen[k] = true
	}
	for k := range r.Fields {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON flattens the record into a single object. Schema fields win
// over unmapped columns sharing a name; the cell is still in originalArray.
func (r ParsedRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+len(r.Unmapped)+1)
	for k, v := range r.Unmapped {
		out[k] = v
	}
	for k, v := range r.Fields {
		out[k] = v
	}

	original := r.Original
	if original == nil {
		original = Row{}
	}
	out[OriginalArrayKey] = []string(original)

	return json.Marshal(out)
}
