package core

// rows.go splits a data row into schema columns and surplus cells.
//
// Every row yields a record. Structural problems are reported alongside it:
//   - zero-width rows carry nothing and are not reported
//   - blank rows no wider than the schema get a single emptyRow error
//   - cells past the schema width get one extraField error each, blank or not

// SplitRow builds the record for one data row and reports structural errors.
// rowIndex is the 0-based data row index.
func SplitRow(rowIndex int, row Row, schema Schema, layout HeaderLayout) (ParsedRecord, []ValidationError) {
	rec := newRecord(row)
	if len(row) == 0 {
		return rec, nil
	}

	for i := 0; i < schema.Len(); i++ {
		rec.Fields[schema.Field(i).Key] = ""
	}

	for i, cell := range row {
		key, mapped := layout.KeyAt(i)
		if mapped {
			rec.Fields[key] = cell
		} else {
			rec.Unmapped[key] = cell
		}
	}

	if len(row) <= schema.Len() && isBlankRow(row) {
		return rec, []ValidationError{{
			Kind: KindEmptyRow,
			Row:  RowRef{Index: rowIndex},
			Col:  ColRef{Index: 0},
		}}
	}

	var errs []ValidationError
	for i := schema.Len(); i < len(row); i++ {
		content := row[i]
		errs = append(errs, ValidationError{
			Kind: KindExtraField,
			Row:  RowRef{Index: rowIndex},
			Col:  ColRef{Index: i, Content: &content},
		})
	}

	return rec, errs
}
