/*
calendar_test.go - Specification tests for date parsing and week buckets

PURPOSE:
  The round-trip property here is the single most important correctness
  guarantee of the whole engine: a civil date string must survive
  parse/format unchanged no matter what timezone the host runs in.
  The tests pin the process timezone to offsets that straddle midnight
  UTC to prove it.
*/
package schedule

import (
	"testing"
	"time"
)

func TestDate_ParseFormat_RoundTrip(t *testing.T) {
	// GIVEN: canonical date strings, including leap days and year edges
	// THEN: FormatDate(ParseDate(s)) == s for every one
	cases := []string{
		"2024-01-01", "2024-02-29", "2024-12-31",
		"2023-02-28", "2000-02-29", "1999-12-31",
		"2024-03-10", "2024-11-03", // US DST transition days
		"2024-07-04", "2025-06-15",
	}
	for _, s := range cases {
		d, err := ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%q) failed: %v", s, err)
		}
		if got := d.String(); got != s {
			t.Errorf("round trip broke: %q -> %q", s, got)
		}
	}
}

func TestDate_RoundTrip_HostTimezoneIndependent(t *testing.T) {
	// GIVEN: host timezones whose offsets straddle midnight UTC
	// WHEN: parsing and formatting the same civil date under each
	// THEN: the date never shifts
	zones := []string{"Pacific/Kiritimati", "Pacific/Pago_Pago", "America/New_York", "UTC"}
	orig := time.Local
	defer func() { time.Local = orig }()

	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			t.Skipf("zone %s unavailable: %v", name, err)
		}
		time.Local = loc

		d, err := ParseDate("2024-01-31")
		if err != nil {
			t.Fatalf("zone %s: %v", name, err)
		}
		if got := d.String(); got != "2024-01-31" {
			t.Errorf("zone %s shifted the date: got %q", name, got)
		}
		if d.WeekdayName() != "wednesday" {
			t.Errorf("zone %s shifted the weekday: got %s", name, d.WeekdayName())
		}
	}
}

func TestDate_Reject_Malformed(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "2024-02-30", "01/02/2024", "2024-2-3", "garbage"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}

func TestDate_WeekdayIndex_MatchesPatternEncoding(t *testing.T) {
	// 2024-01-07 is a Sunday; the encoding is 0=Sunday..6=Saturday.
	sun := MustDate("2024-01-07")
	for i := 0; i < 7; i++ {
		if got := sun.AddDays(i).WeekdayIndex(); got != i {
			t.Errorf("day %d: WeekdayIndex = %d, want %d", i, got, i)
		}
	}
}

func TestDate_WeekKey_MondayAnchored(t *testing.T) {
	// GIVEN: the Monday-Sunday span 2024-01-01..2024-01-07
	// THEN: all seven days share one key, and the next Monday starts a new one
	monday := MustDate("2024-01-01")
	key := monday.WeekKey()
	if key != "2024-01-01" {
		t.Fatalf("Monday's key should be itself, got %s", key)
	}
	for i := 0; i < 7; i++ {
		if got := monday.AddDays(i).WeekKey(); got != key {
			t.Errorf("day +%d: key %s, want %s", i, got, key)
		}
	}
	if got := monday.AddDays(7).WeekKey(); got == key {
		t.Error("next Monday must start a new week bucket")
	}

	// Sunday belongs to the week of the PRECEDING Monday.
	if got := MustDate("2024-01-07").WeekKey(); got != "2024-01-01" {
		t.Errorf("Sunday bucketed wrong: %s", got)
	}
	// Week keys work across year boundaries too.
	if got := MustDate("2025-01-01").WeekKey(); got != "2024-12-30" {
		t.Errorf("year-boundary week wrong: %s", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2100, time.February, 28}, // century non-leap
		{2000, time.February, 29}, // 400-year leap
		{2024, time.April, 30},
		{2024, time.January, 31},
	}
	for _, c := range cases {
		if got := DaysInMonth(c.year, c.month); got != c.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", c.year, c.month, got, c.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := MustDate("2024-01-02")
	if got := DaysBetween(a, MustDate("2024-01-04")); got != 2 {
		t.Errorf("DaysBetween = %d, want 2", got)
	}
	if got := DaysBetween(a, MustDate("2024-01-01")); got != -1 {
		t.Errorf("DaysBetween backwards = %d, want -1", got)
	}
	// Across the Feb 29 leap day.
	if got := DaysBetween(MustDate("2024-02-28"), MustDate("2024-03-01")); got != 2 {
		t.Errorf("DaysBetween across leap day = %d, want 2", got)
	}
}
