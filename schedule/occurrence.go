/*
occurrence.go - Pattern expansion into concrete occurrence dates

PURPOSE:
  Pure functions that turn a RecurringShiftPattern plus a date window into
  an ordered list of occurrence dates. This is the heart of the engine;
  everything here is deterministic, side-effect free, and bounded.

TERMINATION:
  Every loop in this file is explicitly bounded:
  - weekly scanning is capped at 7*interval + 7 days per step
  - generation output is capped, falling back to maxGeneratedOccurrences
    when neither the caller nor the pattern supplies a limit
  - total stepping is capped (maxGenerationSteps) so a window far in the
    future of the start date cannot spin for unbounded time
  Non-positive intervals are a validation failure, not a runtime hang:
  stepping simply refuses to advance and generation yields nothing.

WEEKLY SEMANTICS:
  "Every other Tuesday" is distinguished from "every Tuesday" by aligning
  candidate dates against the pattern's own start date: a candidate
  matches when its weekday is in DaysOfWeek AND the number of whole weeks
  elapsed since StartDate is a multiple of Interval.

MONTHLY SEMANTICS:
  Stepping adds Interval to the month component, then clamps the day to
  the target month's length: a day-31 pattern materializes on the
  28th/29th/30th in short months. The clamp never accumulates because
  each step re-pins to DayOfMonth.

SEE ALSO:
  - lifecycle.go: Full structural validation callers run before generation
  - materialize.go: Conversion of occurrences to schedule entries
*/
package schedule

import "time"

// maxGeneratedOccurrences bounds runaway generation for pathological
// patterns when neither the caller nor the pattern supplies a cap.
const maxGeneratedOccurrences = 100

// maxGenerationSteps bounds total stepping per generation call, covering
// the skip phase before the window opens.
const maxGenerationSteps = 100000

// Occurrence is one concrete date produced by expanding a pattern.
type Occurrence struct {
	Date    Date
	Weekday string // lowercase weekday name
	Number  int    // 1-based position within the generated list
}

// =============================================================================
// SINGLE-STEP ADVANCE
// =============================================================================

// NextOccurrence advances strictly forward from current by the pattern's
// recurrence rule. It returns ok=false when the computed next date falls
// past the pattern's end date, or when the recurrence fields are
// structurally invalid (unknown type, non-positive interval, weekly with
// no weekdays, monthly without a day of month).
func NextOccurrence(current Date, p *RecurringShiftPattern) (Date, bool) {
	if p == nil {
		return Date{}, false
	}

	var next Date
	switch p.Type {
	case PatternDaily, PatternCustom:
		step := p.stepDays()
		if step <= 0 {
			return Date{}, false
		}
		next = current.AddDays(step)

	case PatternWeekly:
		d, ok := nextWeekly(current, p)
		if !ok {
			return Date{}, false
		}
		next = d

	case PatternMonthly:
		if p.Interval <= 0 || p.DayOfMonth < 1 || p.DayOfMonth > 31 {
			return Date{}, false
		}
		next = nextMonthly(current, p.Interval, p.DayOfMonth)

	default:
		return Date{}, false
	}

	if p.EndDate != nil && next.After(*p.EndDate) {
		return Date{}, false
	}
	return next, true
}

// nextWeekly scans forward day by day until it finds a weekday present in
// DaysOfWeek whose whole-week distance from StartDate is a multiple of
// Interval. The scan is bounded: if Interval weeks plus one pass over the
// week yields no match, the rule can never match.
func nextWeekly(current Date, p *RecurringShiftPattern) (Date, bool) {
	if p.Interval <= 0 || len(p.DaysOfWeek) == 0 {
		return Date{}, false
	}

	allowed := make(map[int]bool, len(p.DaysOfWeek))
	for _, wd := range p.DaysOfWeek {
		if wd < 0 || wd > 6 {
			return Date{}, false
		}
		allowed[wd] = true
	}

	limit := 7*p.Interval + 7
	for i := 1; i <= limit; i++ {
		cand := current.AddDays(i)
		if !allowed[cand.WeekdayIndex()] {
			continue
		}
		weeks := DaysBetween(p.StartDate, cand) / 7
		if weeks >= 0 && weeks%p.Interval == 0 {
			return cand, true
		}
	}
	return Date{}, false
}

// nextMonthly adds interval months to current's month component and pins
// the day to min(dayOfMonth, days in the target month).
func nextMonthly(current Date, interval, dayOfMonth int) Date {
	// Normalize year/month via time.Date rather than manual modular
	// arithmetic; day 1 keeps the normalization from spilling over.
	anchor := time.Date(current.Year(), current.Month()+time.Month(interval), 1, 0, 0, 0, 0, time.UTC)
	day := dayOfMonth
	if last := DaysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return NewDate(anchor.Year(), anchor.Month(), day)
}

// =============================================================================
// WINDOWED GENERATION
// =============================================================================

// GenerateOccurrences expands a pattern into its ordered occurrence list.
//
// The sequence is seeded with StartDate itself, then advanced with
// NextOccurrence. Dates before windowStart are skipped, the first date
// after windowEnd stops generation, and output is capped at the first
// present of: maxCount, the pattern's MaxOccurrences, 100. The 100 is a
// fallback for open-ended patterns with no cap anywhere, not a ceiling;
// an explicit cap above it is honored. Either window bound may be nil. Output dates are strictly increasing and numbered
// from 1. Structurally invalid recurrence fields yield an empty result.
func GenerateOccurrences(p *RecurringShiftPattern, windowStart, windowEnd *Date, maxCount int) []Occurrence {
	if p == nil || p.StartDate.IsZero() || recurrenceBroken(p) {
		return nil
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return nil
	}

	limit := maxCount
	if limit <= 0 {
		limit = p.MaxOccurrences
	}
	if limit <= 0 {
		limit = maxGeneratedOccurrences
	}

	var out []Occurrence
	emit := func(d Date) {
		out = append(out, Occurrence{Date: d, Weekday: d.WeekdayName(), Number: len(out) + 1})
	}
	within := func(d Date) bool {
		if windowStart != nil && d.Before(*windowStart) {
			return false
		}
		if windowEnd != nil && d.After(*windowEnd) {
			return false
		}
		return true
	}

	if windowEnd != nil && p.StartDate.After(*windowEnd) {
		return nil
	}
	if within(p.StartDate) {
		emit(p.StartDate)
	}

	current := p.StartDate
	for steps := 0; len(out) < limit && steps < maxGenerationSteps; steps++ {
		next, ok := NextOccurrence(current, p)
		if !ok {
			break
		}
		current = next
		if windowEnd != nil && current.After(*windowEnd) {
			break
		}
		if windowStart != nil && current.Before(*windowStart) {
			continue
		}
		emit(current)
	}
	return out
}

// recurrenceBroken reports whether the pattern's recurrence fields are
// structurally unusable. GenerateOccurrences refuses such patterns up
// front so that a non-positive step can never turn into a spin loop.
func recurrenceBroken(p *RecurringShiftPattern) bool {
	switch p.Type {
	case PatternDaily:
		return p.Interval <= 0
	case PatternCustom:
		return p.CustomDays <= 0
	case PatternWeekly:
		if p.Interval <= 0 || len(p.DaysOfWeek) == 0 {
			return true
		}
		for _, wd := range p.DaysOfWeek {
			if wd < 0 || wd > 6 {
				return true
			}
		}
		return false
	case PatternMonthly:
		return p.Interval <= 0 || p.DayOfMonth < 1 || p.DayOfMonth > 31
	default:
		return true
	}
}

// DefaultUpcomingCount is how many occurrences UpcomingOccurrences
// returns when the caller doesn't say.
const DefaultUpcomingCount = 5

// UpcomingOccurrences is a convenience wrapper windowed from today to the
// pattern's end date, or one year out for open-ended patterns.
func UpcomingOccurrences(p *RecurringShiftPattern, count int, today Date) []Occurrence {
	if p == nil {
		return nil
	}
	if count <= 0 {
		count = DefaultUpcomingCount
	}
	end := today.AddDays(365)
	if p.EndDate != nil && p.EndDate.Before(end) {
		end = *p.EndDate
	}
	return GenerateOccurrences(p, &today, &end, count)
}
