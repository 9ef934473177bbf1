package core

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestSplitRow(t *testing.T) {
	schema := MustSchema(FieldSpec{Key: "a"}, FieldSpec{Key: "b"})
	layout := ReconcileHeader(Row{"a", "b", "notes"}, schema)

	tests := []struct {
		name         string
		row          Row
		wantFields   map[string]string
		wantUnmapped map[string]string
		wantErrs     []ValidationError
	}{
		{
			name:         "zero width",
			row:          Row{},
			wantFields:   map[string]string{},
			wantUnmapped: map[string]string{},
			wantErrs:     nil,
		},
		{
			name:         "short row defaults missing keys",
			row:          Row{"x"},
			wantFields:   map[string]string{"a": "x", "b": ""},
			wantUnmapped: map[string]string{},
		},
		{
			name:         "blank row",
			row:          Row{"", ""},
			wantFields:   map[string]string{"a": "", "b": ""},
			wantUnmapped: map[string]string{},
			wantErrs: []ValidationError{
				{Kind: KindEmptyRow, Row: RowRef{Index: 4}, Col: ColRef{Index: 0}},
			},
		},
		{
			name:         "whitespace is not blank",
			row:          Row{" ", ""},
			wantFields:   map[string]string{"a": " ", "b": ""},
			wantUnmapped: map[string]string{},
		},
		{
			name:         "blank row wider than schema",
			row:          Row{"", "", "", ""},
			wantFields:   map[string]string{"a": "", "b": ""},
			wantUnmapped: map[string]string{"notes": "", "": ""},
			wantErrs: []ValidationError{
				{Kind: KindExtraField, Row: RowRef{Index: 4}, Col: ColRef{Index: 2, Content: strPtr("")}},
				{Kind: KindExtraField, Row: RowRef{Index: 4}, Col: ColRef{Index: 3, Content: strPtr("")}},
			},
		},
		{
			name:         "surplus cells",
			row:          Row{"x", "y", "note", "loose"},
			wantFields:   map[string]string{"a": "x", "b": "y"},
			wantUnmapped: map[string]string{"notes": "note", "": "loose"},
			wantErrs: []ValidationError{
				{Kind: KindExtraField, Row: RowRef{Index: 4}, Col: ColRef{Index: 2, Content: strPtr("note")}},
				{Kind: KindExtraField, Row: RowRef{Index: 4}, Col: ColRef{Index: 3, Content: strPtr("loose")}},
			},
		},
		{
			name:         "empty surplus cell still reported",
			row:          Row{"x", "y", ""},
			wantFields:   map[string]string{"a": "x", "b": "y"},
			wantUnmapped: map[string]string{"notes": ""},
			wantErrs: []ValidationError{
				{Kind: KindExtraField, Row: RowRef{Index: 4}, Col: ColRef{Index: 2, Content: strPtr("")}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, errs := SplitRow(4, tt.row, schema, layout)

			if !reflect.DeepEqual(rec.Fields, tt.wantFields) {
				t.Errorf("Fields = %v, want %v", rec.Fields, tt.wantFields)
			}
			if !reflect.DeepEqual(rec.Unmapped, tt.wantUnmapped) {
				t.Errorf("Unmapped = %v, want %v", rec.Unmapped, tt.wantUnmapped)
			}
			if !reflect.DeepEqual(errs, tt.wantErrs) {
				t.Errorf("errors = %v, want %v", errs, tt.wantErrs)
			}
			if !reflect.DeepEqual(rec.Original, tt.row) {
				t.Errorf("Original = %q, want %q", rec.Original, tt.row)
			}
		})
	}
}

func TestSplitRow_MisplacedColumnIsUnmapped(t *testing.T) {
	schema := MustSchema(FieldSpec{Key: "a"}, FieldSpec{Key: "b"})
	layout := ReconcileHeader(Row{"b", "a"}, schema)

	rec, errs := SplitRow(0, Row{"1", "2"}, schema, layout)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if rec.Value("a") != "" || rec.Value("b") != "" {
		t.Errorf("misplaced cells must not fill schema keys: %v", rec.Fields)
	}
	if rec.Unmapped["b"] != "1" || rec.Unmapped["a"] != "2" {
		t.Errorf("Unmapped = %v", rec.Unmapped)
	}
}

func TestSplitRow_CopiesOriginal(t *testing.T) {
	schema := MustSchema(FieldSpec{Key: "a"})
	layout := ReconcileHeader(Row{"a"}, schema)

	row := Row{"x"}
	rec, _ := SplitRow(0, row, schema, layout)
	row[0] = "changed"

	if rec.Original[0] != "x" {
		t.Errorf("Original shares storage with input row")
	}
}
