package web

import (
	"testing"

	"github.com/input-output-hk/atala-prism-sub004/internal/core"
)

func TestBuildReportParams(t *testing.T) {
	def, ok := core.Get("contacts")
	if !ok {
		t.Fatal("contacts schema not registered")
	}
	table := core.RawTable{
		{"External ID", "Name"},
		{"C-1", "", "loose"},
	}
	report, err := core.Validate(table, def.Schema)
	if err != nil {
		t.Fatal(err)
	}
	result := &core.ImportResult{Header: table[0], Rows: 1, Errors: report.ErrorCount(), Report: report}

	p := buildReportParams(def, result)

	if p.Title != "Contacts" || p.EmptyFile {
		t.Fatalf("Title=%q EmptyFile=%v", p.Title, p.EmptyFile)
	}
	if len(p.Header) != 3 || len(p.Body) != 1 || len(p.Body[0].Cells) != 3 {
		t.Fatalf("grid is %d wide with %d rows", len(p.Header), len(p.Body))
	}
	if p.Header[0].Errors != "" {
		t.Errorf("matched header cell marked: %q", p.Header[0].Errors)
	}
	if p.Header[1].Errors != core.MapKind(core.KindExcessHeader).Message {
		t.Errorf("misnamed header cell = %q", p.Header[1].Errors)
	}
	if got := p.Body[0].Cells[2]; got.Text != "loose" || got.Errors != core.MapKind(core.KindExtraField).Message {
		t.Errorf("surplus cell = %+v", got)
	}
	if p.Body[0].Label != "1" {
		t.Errorf("row label = %q", p.Body[0].Label)
	}
	if len(p.Errors) != report.ErrorCount() {
		t.Errorf("error list has %d entries, want %d", len(p.Errors), report.ErrorCount())
	}
}

func TestBuildReportParams_EmptyFile(t *testing.T) {
	def, _ := core.Get("contacts")
	report, err := core.Validate(core.RawTable{{"External ID", "Contact Name"}}, def.Schema)
	if err != nil {
		t.Fatal(err)
	}

	p := buildReportParams(def, &core.ImportResult{Report: report, Errors: report.ErrorCount()})
	if !p.EmptyFile || p.Header != nil || p.Body != nil {
		t.Errorf("empty file params = %+v", p)
	}
	if len(p.Errors) != 1 || p.Errors[0].Code != "IMP001" {
		t.Errorf("errors = %+v", p.Errors)
	}
}
