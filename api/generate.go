/*
generate.go - Rolling-window materialization service and scheduler

PURPOSE:
  The caller-side half of the engine's control flow: loads active
  patterns, filters to those whose materialization has fallen behind,
  expands them over the rolling window, persists the new entries, and
  advances each pattern's generation marker. A background goroutine
  re-runs the pass on a configurable interval.

DOUBLE-INVOCATION SAFETY:
  Two defenses stack here: MaterializeEntries skips dates the store
  already holds for the pattern, and SaveEntries is idempotent on
  (pattern_id, date). Either alone prevents double-booking; together a
  crashed run that never advanced the marker is also harmless.

FAILURE ISOLATION:
  A pattern that fails to load, expand, or persist is logged and
  skipped; one bad pattern never aborts the batch.

SEE ALSO:
  - ../schedule/lifecycle.go: NeedsGeneration and the weeks-ahead window
  - ../schedule/materialize.go: Entry construction and the skip set
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/brightfloor/shift-engine/schedule"
)

// Generator materializes entries for patterns that have fallen behind
// the rolling window.
type Generator struct {
	Patterns schedule.PatternStore
	Entries  schedule.EntryStore

	// WeeksAhead is the rolling horizon; <= 0 means
	// schedule.DefaultWeeksAhead.
	WeeksAhead int

	// CheckInterval is how often the background loop runs.
	CheckInterval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewGenerator creates a generation service over the given stores.
func NewGenerator(patterns schedule.PatternStore, entries schedule.EntryStore) *Generator {
	return &Generator{
		Patterns:      patterns,
		Entries:       entries,
		WeeksAhead:    schedule.DefaultWeeksAhead,
		CheckInterval: 1 * time.Hour,
	}
}

// GenerationResult summarizes one pass.
type GenerationResult struct {
	PatternsChecked   int
	PatternsGenerated int
	EntriesCreated    int
}

// RunOnce performs a single generation pass as of today.
func (g *Generator) RunOnce(ctx context.Context, today schedule.Date) (GenerationResult, error) {
	var res GenerationResult

	patterns, err := g.Patterns.ListActivePatterns(ctx)
	if err != nil {
		return res, err
	}

	weeksAhead := g.WeeksAhead
	if weeksAhead <= 0 {
		weeksAhead = schedule.DefaultWeeksAhead
	}
	horizon := today.AddDays(7 * weeksAhead)

	for _, p := range patterns {
		res.PatternsChecked++

		if !schedule.NeedsGeneration(p, today, weeksAhead) {
			continue
		}

		// Respect the pattern's remaining occurrence budget.
		remaining := 0
		if p.MaxOccurrences > 0 {
			remaining = p.MaxOccurrences - p.OccurrenceCount
			if remaining <= 0 {
				continue
			}
		}

		end := horizon
		if p.EndDate != nil && p.EndDate.Before(end) {
			end = *p.EndDate
		}

		occurrences := schedule.GenerateOccurrences(p, &today, &end, remaining)
		if len(occurrences) == 0 {
			continue
		}

		already, err := g.Entries.MaterializedDates(ctx, p.ID)
		if err != nil {
			log.Printf("[Generator] pattern %s: loading materialized dates: %v", p.ID, err)
			continue
		}

		entries := schedule.MaterializeEntries(p, occurrences, already)
		inserted := 0
		if len(entries) > 0 {
			if inserted, err = g.Entries.SaveEntries(ctx, entries); err != nil {
				log.Printf("[Generator] pattern %s: saving entries: %v", p.ID, err)
				continue
			}
		}

		last := occurrences[len(occurrences)-1].Date
		if err := g.Patterns.MarkGenerated(ctx, p.ID, last, p.OccurrenceCount+inserted); err != nil {
			log.Printf("[Generator] pattern %s: marking generated: %v", p.ID, err)
			continue
		}

		res.PatternsGenerated++
		res.EntriesCreated += inserted
	}

	return res, nil
}

// Start begins the background generation loop.
func (g *Generator) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ticker != nil {
		return
	}
	// Stop closes the previous stop channel; a restart needs a fresh one.
	g.stop = make(chan struct{})
	g.ticker = time.NewTicker(g.CheckInterval)
	g.wg.Add(1)
	go g.run()

	log.Printf("[Generator] Started with check interval: %v", g.CheckInterval)
}

// Stop stops the background loop and waits for an in-flight pass.
func (g *Generator) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ticker != nil {
		g.ticker.Stop()
		close(g.stop)
		g.wg.Wait()
		g.ticker = nil
		log.Println("[Generator] Stopped")
	}
}

func (g *Generator) run() {
	defer g.wg.Done()

	// Run immediately on start, then on every tick.
	g.pass()
	for {
		select {
		case <-g.ticker.C:
			g.pass()
		case <-g.stop:
			return
		}
	}
}

func (g *Generator) pass() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := g.RunOnce(ctx, schedule.Today())
	if err != nil {
		log.Printf("[Generator] pass failed: %v", err)
		return
	}
	if res.EntriesCreated > 0 {
		log.Printf("[Generator] materialized %d entries across %d patterns",
			res.EntriesCreated, res.PatternsGenerated)
	}
}
