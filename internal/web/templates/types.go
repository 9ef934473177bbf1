// Package templates holds the templ components of the import server.
package templates

// ReportCell is one grid cell. Errors holds the messages of the errors
// addressed to the cell and is empty for a clean cell.
type ReportCell struct {
	Text   string
	Errors string
}

// ReportRow is one uploaded data row.
type ReportRow struct {
	Label string
	Cells []ReportCell
}

// ReportError is one entry of the error list below the grid.
type ReportError struct {
	Where   string // "Header" or "Row 3"
	Column  int    // 1-based
	Message string
	Action  string
	Code    string
}

// ReportParams is everything ReportPage renders.
type ReportParams struct {
	Title          string
	Rows           int
	ErrorCount     int
	RowsWithErrors int
	EmptyFile      bool
	Header         []ReportCell
	Body           []ReportRow
	Errors         []ReportError
}
