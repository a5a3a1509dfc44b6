/*
materialize_test.go - Specification tests for entry materialization
*/
package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
)

func materializablePattern() *RecurringShiftPattern {
	p := validPattern()
	p.Type = PatternDaily
	p.Interval = 1
	p.DaysOfWeek = nil
	return p
}

func TestMaterializeEntries_CopiesPatternFields(t *testing.T) {
	p := materializablePattern()
	occs := GenerateOccurrences(p, nil, nil, 3)
	entries := MaterializeEntries(p, occs, nil)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	e := entries[0]
	if e.ClientName != p.ClientName || e.BuildingName != p.BuildingName {
		t.Error("target fields must be denormalized from the pattern")
	}
	if e.PatternID != p.ID || !e.IsRecurring {
		t.Error("provenance fields missing")
	}
	if e.Status != StatusScheduled {
		t.Errorf("new entries start scheduled, got %s", e.Status)
	}
	if !e.Hours.Equal(p.Hours) || e.StartTime != p.StartTime {
		t.Error("shift shape must copy from the pattern")
	}
	if !e.OvertimeRate.Equal(DefaultOvertimeRate) {
		t.Errorf("overtime rate defaults to 1.5, got %s", e.OvertimeRate)
	}
	if e.Day != e.Date.WeekdayName() || e.WeekID != e.Date.WeekKey() {
		t.Error("derived day/week fields wrong")
	}
}

func TestMaterializeEntries_EndTime(t *testing.T) {
	// GIVEN: an 18:00 shift of 4 hours -> ends 22:00
	p := materializablePattern()
	entries := MaterializeEntries(p, GenerateOccurrences(p, nil, nil, 1), nil)
	if entries[0].EndTime != "22:00" {
		t.Errorf("end time = %s, want 22:00", entries[0].EndTime)
	}

	// GIVEN: a 22:00 shift of 5 hours -> wraps to 03:00 next day
	p.StartTime = "22:00"
	p.Hours = decimal.NewFromInt(5)
	entries = MaterializeEntries(p, GenerateOccurrences(p, nil, nil, 1), nil)
	if entries[0].EndTime != "03:00" {
		t.Errorf("wrapped end time = %s, want 03:00", entries[0].EndTime)
	}

	// Fractional hours land on the half hour.
	p.StartTime = "09:15"
	p.Hours = decimal.RequireFromString("2.5")
	entries = MaterializeEntries(p, GenerateOccurrences(p, nil, nil, 1), nil)
	if entries[0].EndTime != "11:45" {
		t.Errorf("fractional end time = %s, want 11:45", entries[0].EndTime)
	}

	// No start time, no end time.
	p.StartTime = ""
	entries = MaterializeEntries(p, GenerateOccurrences(p, nil, nil, 1), nil)
	if entries[0].EndTime != "" {
		t.Errorf("end time without start time: %s", entries[0].EndTime)
	}
}

func TestMaterializeEntries_UnassignedSentinel(t *testing.T) {
	p := materializablePattern()
	p.Cleaners = nil
	entries := MaterializeEntries(p, GenerateOccurrences(p, nil, nil, 1), nil)
	if len(entries) != 1 {
		t.Fatal("empty cleaner list must not block materialization")
	}
	if len(entries[0].Cleaners) != 1 || entries[0].Cleaners[0] != UnassignedCleaner {
		t.Errorf("cleaners = %v, want [%s]", entries[0].Cleaners, UnassignedCleaner)
	}
}

func TestMaterializeEntries_FreshIDsEveryCall(t *testing.T) {
	// Re-materializing the same occurrences must never reuse an id;
	// dedup happens via the skip set and the store, not via ids.
	p := materializablePattern()
	occs := GenerateOccurrences(p, nil, nil, 5)

	seen := make(map[string]bool)
	for pass := 0; pass < 2; pass++ {
		for _, e := range MaterializeEntries(p, occs, nil) {
			if e.ID == "" {
				t.Fatal("empty entry id")
			}
			if seen[e.ID] {
				t.Fatalf("id %s reused", e.ID)
			}
			seen[e.ID] = true
		}
	}
}

func TestMaterializeEntries_SkipsAlreadyMaterialized(t *testing.T) {
	p := materializablePattern()
	occs := GenerateOccurrences(p, nil, nil, 4)

	already := NewDateSet(occs[0].Date, occs[2].Date)
	entries := MaterializeEntries(p, occs, already)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].Date.Equal(occs[1].Date) || !entries[1].Date.Equal(occs[3].Date) {
		t.Errorf("wrong dates survived the skip set: %s, %s", entries[0].Date, entries[1].Date)
	}
}

func TestMaterializeEntries_DoesNotAliasPatternSlices(t *testing.T) {
	p := materializablePattern()
	entries := MaterializeEntries(p, GenerateOccurrences(p, nil, nil, 1), nil)
	entries[0].Cleaners[0] = "someone else"
	if p.Cleaners[0] != "Maria Lopez" {
		t.Error("materialization must copy, not alias, the cleaner list")
	}
}
