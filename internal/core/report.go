package core

// ImportReport is everything an import produced.
//
// ErrorsByRow and Records are parallel: entry i belongs to data row i, and an
// entry of ErrorsByRow is empty when its row is clean. The one exception is
// an empty file, which carries a single emptyFile error and no records.
type ImportReport struct {
	HeaderErrors []ValidationError   `json:"headerErrors"`
	ErrorsByRow  [][]ValidationError `json:"errorsByRow"`
	Records      []ParsedRecord      `json:"records"`
}

func emptyFileReport() ImportReport {
	return ImportReport{
		HeaderErrors: []ValidationError{},
		ErrorsByRow: [][]ValidationError{{{
			Kind: KindEmptyFile,
			Row:  RowRef{Index: 0},
			Col:  ColRef{Index: 0},
		}}},
		Records: []ParsedRecord{},
	}
}

// IsEmptyFile reports whether the table had nothing to import.
func (r ImportReport) IsEmptyFile() bool {
	return len(r.Records) == 0 &&
		len(r.ErrorsByRow) == 1 &&
		len(r.ErrorsByRow[0]) == 1 &&
		r.ErrorsByRow[0][0].Kind == KindEmptyFile
}

// ErrorCount returns the number of errors across header and rows.
func (r ImportReport) ErrorCount() int {
	n := len(r.HeaderErrors)
	for _, errs := range r.ErrorsByRow {
		n += len(errs)
	}
	return n
}

// HasErrors reports whether anything needs fixing before the records can
// be submitted.
func (r ImportReport) HasErrors() bool {
	return r.ErrorCount() > 0
}

// RowsWithErrors returns the number of data rows with at least one error.
func (r ImportReport) RowsWithErrors() int {
	if r.IsEmptyFile() {
		return 0
	}
	n := 0
	for _, errs := range r.ErrorsByRow {
		if len(errs) > 0 {
			n++
		}
	}
	return n
}

// AllErrors returns header errors followed by row errors in row order.
func (r ImportReport) AllErrors() []ValidationError {
	out := make([]ValidationError, 0, r.ErrorCount())
	out = append(out, r.HeaderErrors...)
	for _, errs := range r.ErrorsByRow {
		out = append(out, errs...)
	}
	return out
}

// CountByKind tallies errors per kind.
func (r ImportReport) CountByKind() map[ErrorKind]int {
	counts := make(map[ErrorKind]int)
	for _, e := range r.AllErrors() {
		counts[e.Kind]++
	}
	return counts
}
