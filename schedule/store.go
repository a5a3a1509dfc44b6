/*
store.go - Persistence interfaces for patterns and schedule entries

PURPOSE:
  Defines the repository boundary between the pure engine and storage.
  The engine itself never touches these; the generation service and the
  HTTP layer read patterns, persist materialized entries, and advance
  the pattern's generation marker through them.

MATERIALIZATION CONTRACT:
  SaveEntries must be idempotent on (pattern_id, date): re-persisting an
  occurrence that already exists is silently skipped, never duplicated.
  That pair is the idempotency key for the whole generation pipeline.
  Entries themselves are append-only from the engine's perspective; only
  their status may change afterwards (owned by the scheduling UI).

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - schedule/store: In-memory store for tests and dev

SEE ALSO:
  - materialize.go: Where entries come from
  - ../api/generate.go: The service driving this interface
*/
package schedule

import "context"

// PatternStore persists recurring shift patterns.
type PatternStore interface {
	// SavePattern inserts or replaces a pattern by id.
	SavePattern(ctx context.Context, p *RecurringShiftPattern) error

	// GetPattern returns a pattern by id, or ErrPatternNotFound.
	GetPattern(ctx context.Context, id string) (*RecurringShiftPattern, error)

	// ListPatterns returns all patterns, ordered by id.
	ListPatterns(ctx context.Context) ([]*RecurringShiftPattern, error)

	// ListActivePatterns returns patterns whose active flag is set.
	// Date-window and cap checks stay in the engine (IsActive).
	ListActivePatterns(ctx context.Context) ([]*RecurringShiftPattern, error)

	// MarkGenerated advances the pattern's generation high-water mark and
	// its total occurrence count after a successful materialization.
	MarkGenerated(ctx context.Context, id string, lastGenerated Date, occurrenceCount int) error

	// DeactivatePattern clears the active flag. Patterns are never
	// deleted; their materialized entries outlive them.
	DeactivatePattern(ctx context.Context, id string) error
}

// EntryStore persists materialized schedule entries.
type EntryStore interface {
	// SaveEntries persists a batch, skipping any entry whose
	// (pattern_id, date) pair already exists. Returns how many were
	// actually inserted.
	SaveEntries(ctx context.Context, entries []ScheduleEntry) (int, error)

	// ListEntriesByPattern returns a pattern's entries ordered by date.
	ListEntriesByPattern(ctx context.Context, patternID string) ([]ScheduleEntry, error)

	// ListEntriesByRange returns entries with from <= date <= to, ordered
	// by date.
	ListEntriesByRange(ctx context.Context, from, to Date) ([]ScheduleEntry, error)

	// ListEntriesByCleaner returns the range-filtered entries that have
	// the named cleaner assigned, ordered by date.
	ListEntriesByCleaner(ctx context.Context, cleaner string, from, to Date) ([]ScheduleEntry, error)

	// MaterializedDates returns the set of dates already materialized for
	// a pattern. Fed back into MaterializeEntries to skip duplicates.
	MaterializedDates(ctx context.Context, patternID string) (DateSet, error)

	// UpdateEntryStatus transitions an entry's lifecycle status, or
	// returns ErrEntryNotFound.
	UpdateEntryStatus(ctx context.Context, id string, status EntryStatus) error
}
