/*
errors.go - Sentinel errors for the scheduling engine and its stores

PURPOSE:
  The pure engine functions never return errors: malformed input produces
  a safe empty result (nil slice, ok=false) or a validation report. The
  sentinels here belong to the storage boundary, where lookups can miss
  and writes can conflict.

USAGE:
  if errors.Is(err, schedule.ErrPatternNotFound) { ... }

SEE ALSO:
  - store.go: Interfaces whose implementations return these
  - lifecycle.go: ValidationReport (structural errors, never thrown)
*/
package schedule

import "errors"

var (
	// ErrPatternNotFound is returned when a referenced pattern doesn't exist.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrEntryNotFound is returned when a referenced schedule entry doesn't exist.
	ErrEntryNotFound = errors.New("schedule entry not found")

	// ErrInvalidPattern is returned when a store is asked to persist a
	// pattern that fails structural validation.
	ErrInvalidPattern = errors.New("invalid pattern")
)
