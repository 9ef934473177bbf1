package core

// validation.go applies per-field rules to a split record.
//
// Rules run in the order the field declares them and never stop early: a
// row with three problems reports three errors. Date format problems and
// date direction problems are reported as different kinds so a UI can
// phrase them differently.

import "time"

// ValidateFields checks every schema field of rec against its rules.
func ValidateFields(rowIndex int, rec ParsedRecord, schema Schema, now time.Time) []ValidationError {
	var errs []ValidationError

	for i := 0; i < schema.Len(); i++ {
		spec := schema.Field(i)
		value := rec.Value(spec.Key)

		for _, rule := range spec.Rules {
			if kind, failed := applyRule(rule, value, now); failed {
				errs = append(errs, ValidationError{
					Kind: kind,
					Row:  RowRef{Index: rowIndex},
					Col:  ColRef{Index: i, Name: spec.Key},
				})
			}
		}
	}

	return errs
}

// applyRule returns the error kind when value violates rule.
// Blank values pass the date rules; required is what rejects them.
func applyRule(rule RuleName, value string, now time.Time) (ErrorKind, bool) {
	switch rule {
	case RuleRequired:
		if isBlank(value) {
			return KindRequired, true
		}

	case RulePastDate:
		if isBlank(value) {
			return "", false
		}
		switch checkDate(value, now, true) {
		case dateUnparsable:
			return KindDateFormat, true
		case dateWrongSide:
			return KindNotAPastDate, true
		}

	case RuleFutureDate:
		if isBlank(value) {
			return "", false
		}
		switch checkDate(value, now, false) {
		case dateUnparsable:
			return KindDateFormat, true
		case dateWrongSide:
			return KindNotAFutureDate, true
		}
	}

	return "", false
}
