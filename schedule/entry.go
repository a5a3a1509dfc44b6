/*
entry.go - Materialized schedule entry

PURPOSE:
  ScheduleEntry is the concrete, persistable unit produced by expanding a
  recurring pattern (or created ad-hoc by a scheduling UI). It carries
  denormalized target fields so that downstream consumers never need the
  originating pattern, plus per-entry compensation fields that payroll
  reads directly.

DERIVED FIELDS:
  Day     lowercase weekday name of Date
  WeekID  Monday-anchored week bucket key (calendar.go)
  EndTime StartTime + Hours, wrapping past midnight ("22:00" + 5h = "03:00")

SEE ALSO:
  - materialize.go: How entries are built from occurrences
  - ../payroll/engine.go: Pay calculation over entries
*/
package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a schedule entry. The engine only
// ever stamps StatusScheduled; later transitions are owned by the
// scheduling UI and arrive through the store.
type EntryStatus string

const (
	StatusScheduled  EntryStatus = "scheduled"
	StatusInProgress EntryStatus = "in_progress"
	StatusCompleted  EntryStatus = "completed"
	StatusCancelled  EntryStatus = "cancelled"
)

// UnassignedCleaner is the sentinel used when a pattern is materialized
// before any cleaner has been assigned.
const UnassignedCleaner = "UNASSIGNED"

// ScheduleEntry is one concrete shift on the calendar.
type ScheduleEntry struct {
	ID string // globally unique, never reused across materializations

	// Provenance.
	PatternID   string
	IsRecurring bool // distinguishes pattern-sourced entries from ad-hoc ones

	// Denormalized target fields, copied from the pattern.
	ClientName   string
	BuildingID   string
	BuildingName string
	Cleaners     []string

	// When.
	Date   Date
	Day    string // derived weekday name
	WeekID string // derived Monday-anchored week key

	Hours     decimal.Decimal
	StartTime string // "HH:MM", optional
	EndTime   string // derived, empty when StartTime is empty

	Status EntryStatus

	// Compensation. BonusAmount/Deductions/OvertimeRate may be edited
	// per-entry after creation; OvertimeRate defaults to 1.5.
	Payment        PaymentType
	HourlyRate     decimal.Decimal
	FlatRateAmount decimal.Decimal
	BonusAmount    decimal.Decimal
	Deductions     decimal.Decimal
	OvertimeRate   decimal.Decimal
}

// HasCleaner reports whether the named cleaner is assigned to this entry.
func (e *ScheduleEntry) HasCleaner(name string) bool {
	for _, c := range e.Cleaners {
		if c == name {
			return true
		}
	}
	return false
}

// =============================================================================
// CLOCK ARITHMETIC - "HH:MM" shift times
// =============================================================================

// parseClock parses a zero-padded "HH:MM" string into minutes past
// midnight. Unpadded components and trailing characters are rejected.
func parseClock(s string) (int, bool) {
	// time.Parse alone tolerates an unpadded hour.
	if len(s) != len("15:04") {
		return 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// addHoursToClock adds a (possibly fractional) hour count to an "HH:MM"
// start time, wrapping around midnight. A 22:00 shift of 5 hours ends at
// 03:00 the next day.
func addHoursToClock(start string, hours decimal.Decimal) (string, bool) {
	startMin, ok := parseClock(start)
	if !ok {
		return "", false
	}
	addMin := int(hours.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
	total := (startMin + addMin) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), true
}
