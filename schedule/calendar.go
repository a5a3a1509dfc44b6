/*
calendar.go - Civil date utilities for the scheduling engine

PURPOSE:
  Provides the Date type used throughout the engine: a calendar date with
  no time-of-day component, anchored to UTC midnight. All recurrence math,
  week bucketing, and payroll grouping is built on these primitives.

TIMEZONE SAFETY:
  The single most important property of this file is that a YYYY-MM-DD
  string round-trips through ParseDate/FormatDate unchanged on EVERY host
  timezone, including offsets that straddle midnight UTC and DST
  transitions. time.Parse with an offset-free layout resolves in UTC, so
  the civil date never shifts with the host clock. Constructing dates from
  local timestamps is the known failure mode this type exists to avoid.

WEEK BUCKETS:
  WeekKey returns the canonical date string of the Monday beginning the
  week containing the date. Two dates share a key iff they fall in the
  same Monday-Sunday span. Payroll overtime is bucketed by this key.

SEE ALSO:
  - occurrence.go: Recurrence stepping built on AddDays/DaysInMonth
  - ../payroll/engine.go: Weekly overtime bucketing by WeekKey
*/
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// canonicalLayout is the only date wire format the engine accepts.
const canonicalLayout = "2006-01-02"

// =============================================================================
// DATE - Civil calendar date (day granularity, UTC-anchored)
// =============================================================================

// Date is a civil calendar date. The zero value is "no date".
type Date struct {
	Time time.Time
}

// NewDate constructs a Date at UTC midnight. Out-of-range day values
// normalize the way time.Date does (e.g. Feb 30 becomes Mar 1/2).
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(canonicalLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// MustDate parses a canonical date string or panics. Test/fixture helper.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the current civil date in the host's local timezone.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// String formats the date as zero-padded YYYY-MM-DD.
func (d Date) String() string { return d.Time.Format(canonicalLayout) }

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) IsZero() bool                  { return d.Time.IsZero() }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }

// WeekdayIndex returns the weekday as 0=Sunday..6=Saturday, matching the
// days_of_week encoding in recurrence patterns.
func (d Date) WeekdayIndex() int { return int(d.Time.Weekday()) }

// WeekdayName returns the lowercase weekday name ("sunday".."saturday").
func (d Date) WeekdayName() string { return strings.ToLower(d.Time.Weekday().String()) }

// Arithmetic
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysBetween returns the number of calendar days from `from` to `to`
// (negative when `to` precedes `from`).
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// =============================================================================
// WEEK BUCKETS - Monday-anchored grouping keys
// =============================================================================

// WeekMonday returns the Monday beginning the week containing d.
func (d Date) WeekMonday() Date {
	// Weekday is 0=Sunday..6=Saturday; shift so Monday maps to offset 0
	// and Sunday to offset 6.
	offset := (d.WeekdayIndex() + 6) % 7
	return d.AddDays(-offset)
}

// WeekKey returns the Monday-anchored week bucket key for d: the canonical
// date string of the week's Monday.
func (d Date) WeekKey() string { return d.WeekMonday().String() }
