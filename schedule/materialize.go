/*
materialize.go - Conversion of occurrences into schedule entries

PURPOSE:
  Turns the abstract dates produced by the generator into concrete,
  persistable ScheduleEntry records: fresh unique ids, denormalized
  target fields, derived day/week/end-time fields, compensation copied
  from the pattern.

IDEMPOTENCY:
  Entry ids are freshly generated on every call; re-materializing the
  same occurrence never reuses an id. Deduplication against entries that
  already exist is therefore an explicit input: callers pass the set of
  dates already materialized for the pattern (keyed on patternID+date)
  and those occurrences are skipped. The sqlite store backs this with a
  unique (pattern_id, date) index so a double-invoked generation run
  cannot double-book a shift.

SEE ALSO:
  - occurrence.go: Where the dates come from
  - store.go: EntryStore.MaterializedDates and SaveEntries
*/
package schedule

import "github.com/google/uuid"

// DateSet is a membership set of civil dates, keyed by canonical string.
type DateSet map[string]struct{}

// NewDateSet builds a set from the given dates.
func NewDateSet(dates ...Date) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

func (s DateSet) Add(d Date)           { s[d.String()] = struct{}{} }
func (s DateSet) Contains(d Date) bool { _, ok := s[d.String()]; return ok }

// MaterializeEntries builds one fresh ScheduleEntry per occurrence,
// skipping occurrences whose date appears in already (nil means skip
// nothing). A pattern with no assigned cleaners materializes against the
// UNASSIGNED sentinel rather than failing; assignment happens later in
// the scheduling UI.
func MaterializeEntries(p *RecurringShiftPattern, occurrences []Occurrence, already DateSet) []ScheduleEntry {
	if p == nil {
		return nil
	}

	cleaners := p.Cleaners
	if len(cleaners) == 0 {
		cleaners = []string{UnassignedCleaner}
	}

	entries := make([]ScheduleEntry, 0, len(occurrences))
	for _, occ := range occurrences {
		if already != nil && already.Contains(occ.Date) {
			continue
		}

		e := ScheduleEntry{
			ID:          uuid.NewString(),
			PatternID:   p.ID,
			IsRecurring: true,

			ClientName:   p.ClientName,
			BuildingID:   p.BuildingID,
			BuildingName: p.BuildingName,
			Cleaners:     append([]string(nil), cleaners...),

			Date:   occ.Date,
			Day:    occ.Date.WeekdayName(),
			WeekID: occ.Date.WeekKey(),

			Hours:     p.Hours,
			StartTime: p.StartTime,

			Status: StatusScheduled,

			Payment:        p.Payment,
			HourlyRate:     p.HourlyRate,
			FlatRateAmount: p.FlatRateAmount,
			OvertimeRate:   DefaultOvertimeRate,
		}
		if p.StartTime != "" {
			if end, ok := addHoursToClock(p.StartTime, p.Hours); ok {
				e.EndTime = end
			}
		}
		entries = append(entries, e)
	}
	return entries
}
