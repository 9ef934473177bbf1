package core

import (
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func propertySchema() Schema {
	return MustSchema(
		FieldSpec{Key: "firstName", Rules: []RuleName{RuleRequired}},
		FieldSpec{Key: "lastName"},
		FieldSpec{Key: "externalId", Rules: []RuleName{RuleRequired}},
	)
}

// genRow generates rows of 0 to 6 cells drawn from a small alphabet that
// includes blanks.
func genRow() gopter.Gen {
	cell := gen.OneConstOf("", " ", "a", "Ann", "12/08/91", "x,y")
	return gen.SliceOfN(6, cell).Map(func(cells []string) Row {
		return Row(cells)
	})
}

// TestProperty_RecordPerDataRow checks that no data row is ever dropped.
func TestProperty_RecordPerDataRow(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	schema := propertySchema()
	header := Row{"firstName", "lastName", "externalId"}

	properties.Property("records and error lists have one entry per data row", prop.ForAll(
		func(rows []Row, width int) bool {
			table := RawTable{header}
			for _, r := range rows {
				if len(r) > width {
					r = r[:width]
				}
				table = append(table, r)
			}

			report, err := Validate(table, schema, WithNow(testNow))
			if err != nil {
				return false
			}
			if report.IsEmptyFile() {
				return isDegenerate(table)
			}
			return len(report.Records) == len(table)-1 && len(report.ErrorsByRow) == len(table)-1
		},
		gen.SliceOf(genRow()),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

// TestProperty_StructuralErrors checks the emptyRow and extraField counts.
func TestProperty_StructuralErrors(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	schema := propertySchema()
	layout := ReconcileHeader(Row{"firstName", "lastName", "externalId"}, schema)

	properties.Property("blank rows yield exactly one emptyRow", prop.ForAll(
		func(n int) bool {
			row := make(Row, n)
			rec, errs := SplitRow(0, row, schema, layout)
			if len(errs) != 1 || errs[0].Kind != KindEmptyRow || errs[0].Col.Index != 0 {
				return false
			}
			for i := 0; i < schema.Len(); i++ {
				v, ok := rec.Get(schema.Field(i).Key)
				if !ok || v != "" {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 3),
	))

	properties.Property("blank rows wider than the schema yield only extraField", prop.ForAll(
		func(n int) bool {
			_, errs := SplitRow(0, make(Row, n), schema, layout)
			if len(errs) != n-schema.Len() {
				return false
			}
			for _, e := range errs {
				if e.Kind != KindExtraField {
					return false
				}
			}
			return true
		},
		gen.IntRange(4, 8),
	))

	properties.Property("each surplus cell yields one extraField with its content", prop.ForAll(
		func(extra []string) bool {
			row := append(Row{"Ann", "Lee", "E1"}, extra...)
			_, errs := SplitRow(0, row, schema, layout)
			if len(errs) != len(extra) {
				return false
			}
			for i, e := range errs {
				if e.Kind != KindExtraField || e.Col.Index != schema.Len()+i {
					return false
				}
				if e.Col.Content == nil || *e.Col.Content != extra[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestProperty_HeaderNormalization checks that case and accent variants
// of a correctly positioned header are accepted.
func TestProperty_HeaderNormalization(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	schema := propertySchema()
	accents := map[rune]string{'a': "á", 'e': "é", 'i': "í", 'N': "Ñ", 'I': "Ï"}

	properties.Property("header variants reconcile without errors", prop.ForAll(
		func(upper, accent []bool, pad int) bool {
			header := make(Row, schema.Len())
			for i, label := range schema.Labels() {
				var b strings.Builder
				for j, r := range label {
					s := string(r)
					if j < len(accent) && accent[j] {
						if a, ok := accents[r]; ok {
							s = a
						}
					}
					if j < len(upper) && upper[j] {
						s = strings.ToUpper(s)
					}
					b.WriteString(s)
				}
				header[i] = strings.Repeat(" ", pad) + b.String() + strings.Repeat(" ", pad)
			}
			return len(ReconcileHeader(header, schema).Errors) == 0
		},
		gen.SliceOfN(12, gen.Bool()),
		gen.SliceOfN(12, gen.Bool()),
		gen.IntRange(0, 2),
	))

	properties.Property("normalize is idempotent", prop.ForAll(
		func(s string) bool {
			n := Normalize(s)
			return Normalize(n) == n
		},
		gen.UnicodeString(unicode.Latin),
	))

	properties.TestingRun(t)
}
