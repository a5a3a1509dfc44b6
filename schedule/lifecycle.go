/*
lifecycle.go - Pattern activity checks and structural validation

PURPOSE:
  Decides whether a pattern is currently live (IsActive), whether its
  materialization window has fallen behind the present (NeedsGeneration),
  and whether the pattern is structurally sound at all (ValidatePattern).

VALIDATION CONTRACT:
  ValidatePattern never panics and never returns an error value; it
  always produces a report. Callers must reject pattern creation/edit on
  Valid=false before the pattern ever reaches the generator.

SEE ALSO:
  - occurrence.go: Generation, which assumes validated patterns
  - ../api/generate.go: The rolling-window generation service
*/
package schedule

import "fmt"

// DefaultWeeksAhead is the rolling materialization horizon: generation
// keeps concrete entries at least this many weeks ahead of today.
const DefaultWeeksAhead = 4

// =============================================================================
// ACTIVITY
// =============================================================================

// IsActive reports whether the pattern should produce occurrences as of
// today. A pattern goes inactive when its flag is cleared, before its
// start date, after its end date, or once its occurrence cap is reached.
func IsActive(p *RecurringShiftPattern, today Date) bool {
	if p == nil || !p.IsActive {
		return false
	}
	if today.Before(p.StartDate) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(today) {
		return false
	}
	if p.MaxOccurrences > 0 && p.OccurrenceCount >= p.MaxOccurrences {
		return false
	}
	return true
}

// NeedsGeneration reports whether new occurrences must be materialized so
// the schedule stays weeksAhead weeks in front of today. A pattern that
// has never been generated always needs generation; weeksAhead <= 0 falls
// back to DefaultWeeksAhead.
func NeedsGeneration(p *RecurringShiftPattern, today Date, weeksAhead int) bool {
	if !IsActive(p, today) {
		return false
	}
	if p.LastGenerated == nil {
		return true
	}
	if weeksAhead <= 0 {
		weeksAhead = DefaultWeeksAhead
	}
	horizon := today.AddDays(7 * weeksAhead)
	return p.LastGenerated.Before(horizon)
}

// =============================================================================
// STRUCTURAL VALIDATION
// =============================================================================

// ValidationReport lists everything structurally wrong with a pattern.
type ValidationReport struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidatePattern runs the full structural check list. It reports, never
// throws: a nil pattern is simply an invalid one.
func ValidatePattern(p *RecurringShiftPattern) ValidationReport {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if p == nil {
		return ValidationReport{Valid: false, Errors: []string{"pattern is nil"}}
	}

	if p.ID == "" {
		fail("missing pattern id")
	}
	if p.BuildingName == "" && p.BuildingID == "" {
		fail("missing building")
	}
	if p.ClientName == "" {
		fail("missing client name")
	}
	if len(p.Cleaners) == 0 {
		fail("missing assigned cleaners")
	}
	if !p.Hours.IsPositive() {
		fail("hours must be positive")
	}
	if p.StartTime != "" {
		if _, ok := parseClock(p.StartTime); !ok {
			fail("start_time %q is not a valid HH:MM clock time", p.StartTime)
		}
	}

	switch p.Type {
	case PatternDaily:
		if p.Interval <= 0 {
			fail("daily pattern requires a positive interval")
		}
	case PatternWeekly:
		if p.Interval <= 0 {
			fail("weekly pattern requires a positive interval")
		}
		if len(p.DaysOfWeek) == 0 {
			fail("weekly pattern requires a non-empty days_of_week")
		}
		for _, wd := range p.DaysOfWeek {
			if wd < 0 || wd > 6 {
				fail("days_of_week value %d out of range 0-6", wd)
			}
		}
	case PatternMonthly:
		if p.Interval <= 0 {
			fail("monthly pattern requires a positive interval")
		}
		if p.DayOfMonth < 1 || p.DayOfMonth > 31 {
			fail("monthly pattern requires day_of_month between 1 and 31")
		}
	case PatternCustom:
		if p.CustomDays <= 0 {
			fail("custom pattern requires positive custom_days")
		}
	default:
		fail("unknown pattern_type %q", p.Type)
	}

	if p.StartDate.IsZero() {
		fail("missing start_date")
	}
	if p.EndDate != nil && !p.StartDate.IsZero() && p.EndDate.Before(p.StartDate) {
		fail("end_date precedes start_date")
	}
	if p.MaxOccurrences < 0 {
		fail("max_occurrences must be positive when set")
	}

	switch p.Payment {
	case PaymentHourly, PaymentFlatRate:
	default:
		fail("unknown payment_type %q", p.Payment)
	}

	return ValidationReport{Valid: len(errs) == 0, Errors: errs}
}
