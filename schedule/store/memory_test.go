package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightfloor/shift-engine/schedule"
)

func testPattern(id string) *schedule.RecurringShiftPattern {
	return &schedule.RecurringShiftPattern{
		ID:           id,
		BuildingName: "Harbor Tower",
		ClientName:   "Acme Property Group",
		Cleaners:     []string{"Maria Lopez"},
		Hours:        decimal.NewFromInt(4),
		StartTime:    "18:00",
		Type:         schedule.PatternDaily,
		Interval:     1,
		StartDate:    schedule.MustDate("2024-01-01"),
		IsActive:     true,
		Payment:      schedule.PaymentHourly,
		HourlyRate:   decimal.NewFromInt(18),
	}
}

func testEntry(id, patternID, date string) schedule.ScheduleEntry {
	d := schedule.MustDate(date)
	return schedule.ScheduleEntry{
		ID:          id,
		PatternID:   patternID,
		IsRecurring: patternID != "",
		Cleaners:    []string{"Maria Lopez"},
		Date:        d,
		Day:         d.WeekdayName(),
		WeekID:      d.WeekKey(),
		Hours:       decimal.NewFromInt(4),
		Status:      schedule.StatusScheduled,
		Payment:     schedule.PaymentHourly,
		HourlyRate:  decimal.NewFromInt(18),
	}
}

// =============================================================================
// PATTERN STORE
// =============================================================================

func TestMemory_PatternRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.SavePattern(ctx, testPattern("p1")))

	got, err := m.GetPattern(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Harbor Tower", got.BuildingName)

	_, err = m.GetPattern(ctx, "missing")
	assert.ErrorIs(t, err, schedule.ErrPatternNotFound)
}

func TestMemory_SavePattern_RejectsInvalid(t *testing.T) {
	m := NewMemory()
	p := testPattern("p1")
	p.ClientName = ""
	err := m.SavePattern(context.Background(), p)
	assert.ErrorIs(t, err, schedule.ErrInvalidPattern)
}

func TestMemory_ListActivePatterns(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SavePattern(ctx, testPattern("p1")))
	require.NoError(t, m.SavePattern(ctx, testPattern("p2")))
	require.NoError(t, m.DeactivatePattern(ctx, "p1"))

	active, err := m.ListActivePatterns(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "p2", active[0].ID)

	all, err := m.ListPatterns(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemory_MarkGenerated(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SavePattern(ctx, testPattern("p1")))

	lg := schedule.MustDate("2024-02-01")
	require.NoError(t, m.MarkGenerated(ctx, "p1", lg, 12))

	got, err := m.GetPattern(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got.LastGenerated)
	assert.True(t, got.LastGenerated.Equal(lg))
	assert.Equal(t, 12, got.OccurrenceCount)

	assert.ErrorIs(t, m.MarkGenerated(ctx, "missing", lg, 1), schedule.ErrPatternNotFound)
}

func TestMemory_SavePattern_CopiesInput(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	p := testPattern("p1")
	require.NoError(t, m.SavePattern(ctx, p))
	p.Cleaners[0] = "mutated"

	got, err := m.GetPattern(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Lopez", got.Cleaners[0], "store must not alias caller slices")
}

// =============================================================================
// ENTRY STORE
// =============================================================================

func TestMemory_SaveEntries_IdempotentPerPatternDate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first := []schedule.ScheduleEntry{
		testEntry("e1", "p1", "2024-01-01"),
		testEntry("e2", "p1", "2024-01-02"),
	}
	n, err := m.SaveEntries(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Same dates again under fresh ids: both land on taken slots.
	again := []schedule.ScheduleEntry{
		testEntry("e3", "p1", "2024-01-01"),
		testEntry("e4", "p1", "2024-01-02"),
	}
	n, err = m.SaveEntries(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := m.ListEntriesByPattern(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemory_SaveEntries_ManualEntriesNeverCollide(t *testing.T) {
	// Entries without a pattern id have no (pattern, date) slot to claim.
	ctx := context.Background()
	m := NewMemory()
	n, err := m.SaveEntries(ctx, []schedule.ScheduleEntry{
		testEntry("e1", "", "2024-01-01"),
		testEntry("e2", "", "2024-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemory_MaterializedDates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, err := m.SaveEntries(ctx, []schedule.ScheduleEntry{
		testEntry("e1", "p1", "2024-01-01"),
		testEntry("e2", "p1", "2024-01-03"),
		testEntry("e3", "p2", "2024-01-05"),
	})
	require.NoError(t, err)

	set, err := m.MaterializedDates(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, set.Contains(schedule.MustDate("2024-01-01")))
	assert.True(t, set.Contains(schedule.MustDate("2024-01-03")))
	assert.False(t, set.Contains(schedule.MustDate("2024-01-05")), "other pattern's date leaked")
}

func TestMemory_ListEntriesByRange(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, err := m.SaveEntries(ctx, []schedule.ScheduleEntry{
		testEntry("e1", "p1", "2024-01-01"),
		testEntry("e2", "p1", "2024-01-10"),
		testEntry("e3", "p1", "2024-01-20"),
	})
	require.NoError(t, err)

	got, err := m.ListEntriesByRange(ctx, schedule.MustDate("2024-01-01"), schedule.MustDate("2024-01-10"))
	require.NoError(t, err)
	require.Len(t, got, 2, "range bounds are inclusive")
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)
}

func TestMemory_ListEntriesByCleaner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	other := testEntry("e2", "p1", "2024-01-02")
	other.Cleaners = []string{"Dan Kim"}
	_, err := m.SaveEntries(ctx, []schedule.ScheduleEntry{
		testEntry("e1", "p1", "2024-01-01"),
		other,
	})
	require.NoError(t, err)

	got, err := m.ListEntriesByCleaner(ctx, "Dan Kim", schedule.MustDate("2024-01-01"), schedule.MustDate("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].ID)
}

func TestMemory_UpdateEntryStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, err := m.SaveEntries(ctx, []schedule.ScheduleEntry{testEntry("e1", "p1", "2024-01-01")})
	require.NoError(t, err)

	require.NoError(t, m.UpdateEntryStatus(ctx, "e1", schedule.StatusCompleted))
	got, err := m.ListEntriesByPattern(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCompleted, got[0].Status)

	assert.ErrorIs(t, m.UpdateEntryStatus(ctx, "missing", schedule.StatusCancelled), schedule.ErrEntryNotFound)
}
