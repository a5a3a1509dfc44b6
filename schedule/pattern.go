/*
pattern.go - Recurring shift pattern model

PURPOSE:
  Defines RecurringShiftPattern, the declarative rule describing how a
  cleaning shift repeats over time. The pattern is pure data; expansion
  into concrete dates lives in occurrence.go and structural validation
  in lifecycle.go.

PATTERN TYPES:
  daily    repeats every Interval days
  weekly   repeats every Interval weeks, on the weekdays in DaysOfWeek
  monthly  repeats every Interval months, pinned to DayOfMonth
           (clamped to the shorter month when it overflows)
  custom   repeats every CustomDays days; degenerate case of daily kept
           as a distinct tag for compatibility with stored patterns

SEE ALSO:
  - occurrence.go: Pattern expansion
  - lifecycle.go: Activity checks and validation
  - materialize.go: Conversion of occurrences to schedule entries
*/
package schedule

import "github.com/shopspring/decimal"

// =============================================================================
// RECURRENCE + PAYMENT TAGS
// =============================================================================

// PatternType tags the recurrence rule variant.
type PatternType string

const (
	PatternDaily   PatternType = "daily"
	PatternWeekly  PatternType = "weekly"
	PatternMonthly PatternType = "monthly"
	PatternCustom  PatternType = "custom"
)

// PaymentType tags how a shift is compensated.
type PaymentType string

const (
	PaymentHourly   PaymentType = "hourly"
	PaymentFlatRate PaymentType = "flat_rate"
)

// DefaultOvertimeRate is the overtime multiplier stamped on materialized
// entries; it may be edited per-entry after creation.
var DefaultOvertimeRate = decimal.RequireFromString("1.5")

// =============================================================================
// RECURRING SHIFT PATTERN
// =============================================================================

// RecurringShiftPattern is the repeat rule for a shift. One pattern
// produces many schedule entries (append-only from the engine's side).
type RecurringShiftPattern struct {
	ID string

	// Target. Cleaners is ordered; the first entry is the primary
	// cleaner for display purposes.
	BuildingID   string
	BuildingName string
	ClientName   string
	Cleaners     []string

	// Shape of each occurrence.
	Hours     decimal.Decimal
	StartTime string // "HH:MM", optional
	Notes     string

	// Recurrence rule, discriminated by Type.
	Type       PatternType
	Interval   int   // daily/weekly/monthly step; must be >= 1
	DaysOfWeek []int // weekly only: 0=Sunday..6=Saturday, non-empty
	DayOfMonth int   // monthly only: 1..31
	CustomDays int   // custom only: repeat every N days, >= 1

	// Window. StartDate is the first occurrence. EndDate is an inclusive
	// upper bound; nil means open-ended. MaxOccurrences caps total
	// materialized entries independently of the date window; 0 = no cap.
	StartDate      Date
	EndDate        *Date
	MaxOccurrences int

	// Lifecycle bookkeeping.
	IsActive        bool
	LastGenerated   *Date // high-water mark of materialization
	OccurrenceCount int   // concrete entries produced so far

	// Compensation, copied onto entries at materialization.
	Payment        PaymentType
	HourlyRate     decimal.Decimal
	FlatRateAmount decimal.Decimal
}

// PrimaryCleaner returns the first assigned cleaner, or the unassigned
// sentinel when the pattern has no cleaners yet.
func (p *RecurringShiftPattern) PrimaryCleaner() string {
	if len(p.Cleaners) == 0 {
		return UnassignedCleaner
	}
	return p.Cleaners[0]
}

// stepDays returns the day step for the daily-like variants, 0 otherwise.
func (p *RecurringShiftPattern) stepDays() int {
	switch p.Type {
	case PatternDaily:
		return p.Interval
	case PatternCustom:
		return p.CustomDays
	default:
		return 0
	}
}
