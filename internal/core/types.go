package core

import (
	"errors"
	"fmt"
)

// ValueType is the declared type of a schema field.
type ValueType string

const (
	TypeString ValueType = "string"
	TypeDate   ValueType = "date"
	TypeFile   ValueType = "file"
	TypeList   ValueType = "list"
)

// RuleName names a per-field validation rule.
type RuleName string

const (
	RuleRequired   RuleName = "required"
	RulePastDate   RuleName = "pastDate"
	RuleFutureDate RuleName = "futureDate"
)

// Schema construction errors. These are caller bugs, not data errors.
var (
	ErrEmptySchema     = errors.New("schema has no fields")
	ErrEmptyKey        = errors.New("field key is empty")
	ErrDuplicateKey    = errors.New("duplicate field key")
	ErrUnknownRule     = errors.New("unknown validation rule")
	ErrUnknownType     = errors.New("unknown value type")
	ErrUnknownCrossRef = errors.New("cross-reference field not in schema")
)

// FieldSpec declares one expected column.
type FieldSpec struct {
	Key   string     // Record key: "externalId"
	Label string     // Header text expected in the uploaded file
	Type  ValueType  // Declared value type
	Rules []RuleName // Applied in order
}

// HasRule reports whether the field declares rule r.
func (f FieldSpec) HasRule(r RuleName) bool {
	for _, rule := range f.Rules {
		if rule == r {
			return true
		}
	}
	return false
}

// Schema is the ordered column declaration for one entity type.
// Column order is significant: header positions are checked against it.
type Schema struct {
	fields []FieldSpec
	index  map[string]int
}

// NewSchema validates the field list and builds a Schema.
func NewSchema(fields ...FieldSpec) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, ErrEmptySchema
	}

	s := Schema{
		fields: make([]FieldSpec, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if f.Key == "" {
			return Schema{}, fmt.Errorf("field %d: %w", i, ErrEmptyKey)
		}
		if _, dup := s.index[f.Key]; dup {
			return Schema{}, fmt.Errorf("field %q: %w", f.Key, ErrDuplicateKey)
		}
		if f.Type == "" {
			f.Type = TypeString
		}
		switch f.Type {
		case TypeString, TypeDate, TypeFile, TypeList:
		default:
			return Schema{}, fmt.Errorf("field %q type %q: %w", f.Key, f.Type, ErrUnknownType)
		}
		for _, r := range f.Rules {
			switch r {
			case RuleRequired, RulePastDate, RuleFutureDate:
			default:
				return Schema{}, fmt.Errorf("field %q rule %q: %w", f.Key, r, ErrUnknownRule)
			}
		}
		if f.Label == "" {
			f.Label = f.Key
		}
		f.Rules = append([]RuleName(nil), f.Rules...)

		s.fields[i] = f
		s.index[f.Key] = i
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on error.
// Intended for package-level schema declarations.
func MustSchema(fields ...FieldSpec) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(fmt.Sprintf("invalid schema: %v", err))
	}
	return s
}

// Len returns the number of declared columns.
func (s Schema) Len() int { return len(s.fields) }

// Field returns the i-th field spec.
func (s Schema) Field(i int) FieldSpec { return s.fields[i] }

// Fields returns a copy of the field specs in declared order.
func (s Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// IndexOf returns the position of the field with the given key, or -1.
func (s Schema) IndexOf(key string) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	return -1
}

// Labels returns the expected header row.
func (s Schema) Labels() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Label
	}
	return out
}

// Row is an ordered sequence of raw text cells.
type Row []string

// RawTable is a decoded spreadsheet. Row 0 is the header row.
type RawTable []Row

// ErrorKind classifies a data error found during an import.
type ErrorKind string

const (
	KindEmptyFile             ErrorKind = "emptyFile"
	KindExcessHeader          ErrorKind = "excessHeader"
	KindInvalidHeaderPosition ErrorKind = "invalidHeaderPosition"
	KindEmptyRow              ErrorKind = "emptyRow"
	KindExtraField            ErrorKind = "extraField"
	KindRequired              ErrorKind = "required"
	KindDateFormat            ErrorKind = "dateFormat"
	KindNotAPastDate          ErrorKind = "notAPastDate"
	KindNotAFutureDate        ErrorKind = "notAFutureDate"
	KindUnexpectedExternalID  ErrorKind = "unexpectedExternalID"
	KindValueDoesNotMatch     ErrorKind = "valueDoesNotMatch"
)

// HeaderRowIndex is the row index carried by header errors.
const HeaderRowIndex = -1

// RowRef addresses a row. Data rows are 0-based with the header excluded.
type RowRef struct {
	Index int `json:"index"`
}

// ColRef addresses a column plus optional context for the UI.
type ColRef struct {
	Index         int     `json:"index"`
	Name          string  `json:"name,omitempty"`
	ExpectedIndex *int    `json:"expectedIndex,omitempty"`
	Content       *string `json:"content,omitempty"`
}

// ValidationError is a single cell-addressed data error.
// It is a value, never returned through the error interface.
type ValidationError struct {
	Kind ErrorKind `json:"error"`
	Row  RowRef    `json:"row"`
	Col  ColRef    `json:"col"`
}

// String renders the error for logs and CLI output.
func (e ValidationError) String() string {
	s := fmt.Sprintf("%s at row %d col %d", e.Kind, e.Row.Index, e.Col.Index)
	if e.Col.Name != "" {
		s += fmt.Sprintf(" (%s)", e.Col.Name)
	}
	return s
}
