package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize reduces header text to a comparable form: trimmed, case-folded,
// and stripped of diacritics, so "  fírstNámé " compares equal to "firstName".
// It never fails; text that cannot be transformed is returned trimmed and lowered.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// A Caser and a transform chain carry state, so both are built per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		return strings.ToLower(text)
	}

	return strings.TrimSpace(cases.Fold().String(stripped))
}

// SameField reports whether two header texts name the same field.
func SameField(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// isBlank reports whether a cell is the empty string. Whitespace is content.
func isBlank(s string) bool {
	return s == ""
}

// isBlankRow reports whether every cell in the row is blank.
func isBlankRow(row Row) bool {
	for _, v := range row {
		if !isBlank(v) {
			return false
		}
	}
	return true
}
