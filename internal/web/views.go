package web

// views.go builds the view model of the HTML error grid: the uploaded rows
// as they were sent, with every addressed cell carrying its messages.

import (
	"fmt"
	"strings"

	"github.com/input-output-hk/atala-prism-sub004/internal/core"
	"github.com/input-output-hk/atala-prism-sub004/internal/web/templates"
)

type cellKey struct{ row, col int }

// buildReportParams lays result out as a grid as wide as the widest of the
// header, the schema and any row.
func buildReportParams(def core.SchemaDefinition, result *core.ImportResult) templates.ReportParams {
	report := result.Report

	params := templates.ReportParams{
		Title:          def.Label,
		Rows:           result.Rows,
		ErrorCount:     result.Errors,
		RowsWithErrors: report.RowsWithErrors(),
		EmptyFile:      report.IsEmptyFile(),
	}

	all := report.AllErrors()
	marks := make(map[cellKey][]string)
	for _, e := range all {
		msg := core.MapKind(e.Kind)
		k := cellKey{row: e.Row.Index, col: e.Col.Index}
		marks[k] = append(marks[k], msg.Message)

		where := "Header"
		if e.Row.Index != core.HeaderRowIndex {
			where = fmt.Sprintf("Row %d", e.Row.Index+1)
		}
		params.Errors = append(params.Errors, templates.ReportError{
			Where:   where,
			Column:  e.Col.Index + 1,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	}

	if params.EmptyFile {
		return params
	}

	width := max(len(result.Header), def.Schema.Len())
	for _, rec := range report.Records {
		width = max(width, len(rec.Original))
	}

	params.Header = make([]templates.ReportCell, width)
	for col := range params.Header {
		text := ""
		if col < len(result.Header) {
			text = result.Header[col]
		} else if col < def.Schema.Len() {
			text = def.Schema.Field(col).Label
		}
		params.Header[col] = reportCell(text, marks[cellKey{row: core.HeaderRowIndex, col: col}])
	}

	params.Body = make([]templates.ReportRow, len(report.Records))
	for i, rec := range report.Records {
		cells := make([]templates.ReportCell, width)
		for col := range cells {
			text := ""
			if col < len(rec.Original) {
				text = rec.Original[col]
			}
			cells[col] = reportCell(text, marks[cellKey{row: i, col: col}])
		}
		params.Body[i] = templates.ReportRow{Label: fmt.Sprint(i + 1), Cells: cells}
	}

	return params
}

func reportCell(text string, messages []string) templates.ReportCell {
	return templates.ReportCell{Text: text, Errors: strings.Join(messages, "; ")}
}
