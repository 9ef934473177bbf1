package core

// dates.go parses day/month/year cell values for the pastDate and
// futureDate rules.
//
// Accepted: day and month with one or two digits, a year with two or four
// digits, separated by '/', '-' or '.'. Both year widths are equally valid:
// "12/08/91" and "12/08/1991" name the same day.

import (
	"strings"
	"time"
)

// TwoDigitYearPivot decides the century of two-digit years. Years up to and
// including the pivot are read as 20xx, later ones as 19xx, so "49" is 2049
// and "91" is 1991.
var TwoDigitYearPivot = 68

var (
	fourDigitYearLayouts = []string{"2/1/2006", "2-1-2006", "2.1.2006"}
	twoDigitYearLayouts  = []string{"2/1/06", "2-1-06", "2.1.06"}
)

// ParseDate parses a day/month/year value. The returned time is midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		year := 1900 + t.Year()%100
		if t.Year()%100 <= TwoDigitYearPivot {
			year += 100
		}
		adjusted := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if adjusted.Day() != t.Day() {
			// 29 February in a century that is not a leap year.
			return time.Time{}, false
		}
		return adjusted, true
	}

	return time.Time{}, false
}

// dateCheck is the outcome of a directional date rule.
type dateCheck int

const (
	dateOK dateCheck = iota
	dateUnparsable
	dateWrongSide
)

// checkDate evaluates s against now. The date counts from its midnight in
// now's location: a date of today is in the past, never in the future.
func checkDate(s string, now time.Time, wantPast bool) dateCheck {
	d, ok := ParseDate(s)
	if !ok {
		return dateUnparsable
	}

	at := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	if wantPast && !at.Before(now) {
		return dateWrongSide
	}
	if !wantPast && !at.After(now) {
		return dateWrongSide
	}
	return dateOK
}
