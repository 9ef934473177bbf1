package core

// header.go reconciles an uploaded header row against a schema.
//
// Each header cell is checked on its own: it is either correctly positioned,
// a known field at the wrong index, or a name the schema does not declare.
// Expected fields that never appear are not reported here; the required rule
// on the data rows catches them.

// HeaderLayout is the result of reconciling a header row.
type HeaderLayout struct {
	// Keys holds the record key for every header column. Correctly positioned
	// columns carry the schema key, all others their raw header text.
	Keys []string

	// Mapped marks the columns whose key is a schema key.
	Mapped []bool

	// Errors lists header problems in column order.
	Errors []ValidationError
}

// ReconcileHeader classifies every header cell against the schema.
func ReconcileHeader(header Row, schema Schema) HeaderLayout {
	labels := make([]string, schema.Len())
	for i := range labels {
		labels[i] = Normalize(schema.Field(i).Label)
	}

	layout := HeaderLayout{
		Keys:   make([]string, len(header)),
		Mapped: make([]bool, len(header)),
	}

	for i, raw := range header {
		h := Normalize(raw)

		if i < len(labels) && labels[i] == h {
			layout.Keys[i] = schema.Field(i).Key
			layout.Mapped[i] = true
			continue
		}

		layout.Keys[i] = raw

		if j := indexOfLabel(labels, h); j >= 0 {
			expected := j
			layout.Errors = append(layout.Errors, ValidationError{
				Kind: KindInvalidHeaderPosition,
				Row:  RowRef{Index: HeaderRowIndex},
				Col:  ColRef{Index: i, Name: raw, ExpectedIndex: &expected},
			})
			continue
		}

		layout.Errors = append(layout.Errors, ValidationError{
			Kind: KindExcessHeader,
			Row:  RowRef{Index: HeaderRowIndex},
			Col:  ColRef{Index: i, Name: raw},
		})
	}

	return layout
}

// KeyAt returns the record key for column i. Columns past the header row
// have no name and use the empty key.
func (l HeaderLayout) KeyAt(i int) (key string, mapped bool) {
	if i < len(l.Keys) {
		return l.Keys[i], l.Mapped[i]
	}
	return "", false
}

// MappedIndex returns the column holding the schema field at position i,
// or -1 when that field is not correctly positioned in the header.
func (l HeaderLayout) MappedIndex(i int) int {
	if i < len(l.Mapped) && l.Mapped[i] {
		return i
	}
	return -1
}

func indexOfLabel(labels []string, h string) int {
	for j, l := range labels {
		if l == h {
			return j
		}
	}
	return -1
}
