package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{in: "12/08/1991", want: time.Date(1991, 8, 12, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "12/08/91", want: time.Date(1991, 8, 12, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "17/12/49", want: time.Date(2049, 12, 17, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "1-2-2003", want: time.Date(2003, 2, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "01.02.03", want: time.Date(2003, 2, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: " 5/6/2020 ", want: time.Date(2020, 6, 5, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "31/12/68", want: time.Date(2068, 12, 31, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "01/01/69", want: time.Date(1969, 1, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "656565"},
		{in: ""},
		{in: "32/01/2000"},
		{in: "12/13/2000"},
		{in: "2000-01-02"},
		{in: "29/02/2001"},
		{in: "12/08/991"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDate_PivotLeapDay(t *testing.T) {
	old := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = old }()

	// With a pivot of -1 every two-digit year is 19xx, and 1900 has no 29 February.
	TwoDigitYearPivot = -1
	if _, ok := ParseDate("29/02/00"); ok {
		t.Error("29/02/1900 should be rejected")
	}

	TwoDigitYearPivot = 68
	if _, ok := ParseDate("29/02/00"); !ok {
		t.Error("29/02/2000 should be accepted")
	}
}

func TestCheckDate(t *testing.T) {
	now := time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    string
		wantPast bool
		want     dateCheck
	}{
		{name: "past ok", value: "12/08/91", wantPast: true, want: dateOK},
		{name: "past wrong side", value: "17/12/49", wantPast: true, want: dateWrongSide},
		{name: "future ok", value: "17/12/49", wantPast: false, want: dateOK},
		{name: "future wrong side", value: "12/08/91", wantPast: false, want: dateWrongSide},
		{name: "today is past", value: "15/06/2020", wantPast: true, want: dateOK},
		{name: "today is not future", value: "15/06/2020", wantPast: false, want: dateWrongSide},
		{name: "tomorrow is future", value: "16/06/2020", wantPast: false, want: dateOK},
		{name: "garbage", value: "656565", wantPast: true, want: dateUnparsable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkDate(tt.value, now, tt.wantPast); got != tt.want {
				t.Errorf("checkDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
