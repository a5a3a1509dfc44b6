// Package store provides in-memory implementations of the schedule
// storage interfaces, for tests and dev servers.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/brightfloor/shift-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory PatternStore + EntryStore
// =============================================================================

// Memory implements schedule.PatternStore and schedule.EntryStore with
// the same (pattern_id, date) idempotency contract as the sqlite store.
type Memory struct {
	mu       sync.RWMutex
	patterns map[string]*schedule.RecurringShiftPattern
	entries  map[string]schedule.ScheduleEntry // by entry id
	byDate   map[patternDate]string            // (pattern_id, date) -> entry id
}

type patternDate struct {
	PatternID string
	Date      string
}

func NewMemory() *Memory {
	return &Memory{
		patterns: make(map[string]*schedule.RecurringShiftPattern),
		entries:  make(map[string]schedule.ScheduleEntry),
		byDate:   make(map[patternDate]string),
	}
}

// Compile-time interface checks.
var (
	_ schedule.PatternStore = (*Memory)(nil)
	_ schedule.EntryStore   = (*Memory)(nil)
)

// =============================================================================
// PATTERN STORE
// =============================================================================

func (m *Memory) SavePattern(_ context.Context, p *schedule.RecurringShiftPattern) error {
	if report := schedule.ValidatePattern(p); !report.Valid {
		return schedule.ErrInvalidPattern
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clonePattern(p)
	m.patterns[cp.ID] = cp
	return nil
}

func (m *Memory) GetPattern(_ context.Context, id string) (*schedule.RecurringShiftPattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.patterns[id]
	if !ok {
		return nil, schedule.ErrPatternNotFound
	}
	return clonePattern(p), nil
}

func (m *Memory) ListPatterns(_ context.Context) ([]*schedule.RecurringShiftPattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(*schedule.RecurringShiftPattern) bool { return true }), nil
}

func (m *Memory) ListActivePatterns(_ context.Context) ([]*schedule.RecurringShiftPattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(p *schedule.RecurringShiftPattern) bool { return p.IsActive }), nil
}

func (m *Memory) listLocked(keep func(*schedule.RecurringShiftPattern) bool) []*schedule.RecurringShiftPattern {
	var out []*schedule.RecurringShiftPattern
	for _, p := range m.patterns {
		if keep(p) {
			out = append(out, clonePattern(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) MarkGenerated(_ context.Context, id string, lastGenerated schedule.Date, occurrenceCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.patterns[id]
	if !ok {
		return schedule.ErrPatternNotFound
	}
	lg := lastGenerated
	p.LastGenerated = &lg
	p.OccurrenceCount = occurrenceCount
	return nil
}

func (m *Memory) DeactivatePattern(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.patterns[id]
	if !ok {
		return schedule.ErrPatternNotFound
	}
	p.IsActive = false
	return nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

func (m *Memory) SaveEntries(_ context.Context, entries []schedule.ScheduleEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, e := range entries {
		key := patternDate{PatternID: e.PatternID, Date: e.Date.String()}
		if e.PatternID != "" {
			if _, exists := m.byDate[key]; exists {
				continue
			}
			m.byDate[key] = e.ID
		}
		m.entries[e.ID] = cloneEntry(e)
		inserted++
	}
	return inserted, nil
}

func (m *Memory) ListEntriesByPattern(_ context.Context, patternID string) ([]schedule.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entriesLocked(func(e schedule.ScheduleEntry) bool { return e.PatternID == patternID }), nil
}

func (m *Memory) ListEntriesByRange(_ context.Context, from, to schedule.Date) ([]schedule.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entriesLocked(func(e schedule.ScheduleEntry) bool {
		return from.BeforeOrEqual(e.Date) && e.Date.BeforeOrEqual(to)
	}), nil
}

func (m *Memory) ListEntriesByCleaner(_ context.Context, cleaner string, from, to schedule.Date) ([]schedule.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entriesLocked(func(e schedule.ScheduleEntry) bool {
		return from.BeforeOrEqual(e.Date) && e.Date.BeforeOrEqual(to) && e.HasCleaner(cleaner)
	}), nil
}

func (m *Memory) entriesLocked(keep func(schedule.ScheduleEntry) bool) []schedule.ScheduleEntry {
	var out []schedule.ScheduleEntry
	for _, e := range m.entries {
		if keep(e) {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *Memory) MaterializedDates(_ context.Context, patternID string) (schedule.DateSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := make(schedule.DateSet)
	for key := range m.byDate {
		if key.PatternID == patternID {
			set[key.Date] = struct{}{}
		}
	}
	return set, nil
}

func (m *Memory) UpdateEntryStatus(_ context.Context, id string, status schedule.EntryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return schedule.ErrEntryNotFound
	}
	e.Status = status
	m.entries[id] = e
	return nil
}

// =============================================================================
// DEFENSIVE COPIES
// =============================================================================

func clonePattern(p *schedule.RecurringShiftPattern) *schedule.RecurringShiftPattern {
	cp := *p
	cp.Cleaners = append([]string(nil), p.Cleaners...)
	cp.DaysOfWeek = append([]int(nil), p.DaysOfWeek...)
	if p.EndDate != nil {
		ed := *p.EndDate
		cp.EndDate = &ed
	}
	if p.LastGenerated != nil {
		lg := *p.LastGenerated
		cp.LastGenerated = &lg
	}
	return &cp
}

func cloneEntry(e schedule.ScheduleEntry) schedule.ScheduleEntry {
	e.Cleaners = append([]string(nil), e.Cleaners...)
	return e
}
