/*
handlers.go - HTTP handlers for patterns, entries, payroll, and stats

PURPOSE:
  Connects the HTTP surface to the engine. Handlers follow a consistent
  shape: parse/validate input, call the pure engine or the stores,
  serialize the response.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation failures, malformed input (with the full error list
         for pattern validation, per the report-not-throw contract)
  - 404: Unknown pattern/entry
  - 500: Store failures
  Malformed dates in query strings produce 400, never a panic; the
  engine's own safe-empty semantics cover anything that slips through.

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
  - generate.go: The generation service behind POST /api/generate
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brightfloor/shift-engine/payroll"
	"github.com/brightfloor/shift-engine/schedule"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Patterns schedule.PatternStore
	Entries  schedule.EntryStore

	// DefaultRate is the fallback hourly rate for entries that carry
	// none (e.g. ad-hoc entries created before rates were set).
	DefaultRate decimal.Decimal

	// Generator powers the manual POST /api/generate trigger. Optional;
	// nil disables the endpoint.
	Generator *Generator
}

// NewHandler creates a handler over the given stores.
func NewHandler(patterns schedule.PatternStore, entries schedule.EntryStore) *Handler {
	return &Handler{
		Patterns:    patterns,
		Entries:     entries,
		DefaultRate: decimal.Zero,
	}
}

// =============================================================================
// PATTERN HANDLERS
// =============================================================================

// ListPatterns returns all patterns.
func (h *Handler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.Patterns.ListPatterns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list patterns", err)
		return
	}

	dtos := make([]PatternDTO, len(patterns))
	for i, p := range patterns {
		dtos[i] = patternToDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPattern returns a single pattern.
func (h *Handler) GetPattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Patterns.GetPattern(r.Context(), id)
	if errors.Is(err, schedule.ErrPatternNotFound) {
		writeError(w, http.StatusNotFound, "Pattern not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get pattern", err)
		return
	}
	writeJSON(w, http.StatusOK, patternToDTO(p))
}

// CreatePattern validates and persists a pattern. Validation failures
// come back as 400 with the full error report; nothing invalid ever
// reaches the generator.
func (h *Handler) CreatePattern(w http.ResponseWriter, r *http.Request) {
	var req CreatePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p := req.toPattern()
	if report := schedule.ValidatePattern(p); !report.Valid {
		writeJSON(w, http.StatusBadRequest, report)
		return
	}

	if err := h.Patterns.SavePattern(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save pattern", err)
		return
	}
	writeJSON(w, http.StatusCreated, patternToDTO(p))
}

// ValidatePattern dry-runs structural validation without persisting.
func (h *Handler) ValidatePattern(w http.ResponseWriter, r *http.Request) {
	var req CreatePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	writeJSON(w, http.StatusOK, schedule.ValidatePattern(req.toPattern()))
}

// DeactivatePattern turns a pattern off. Its entries persist.
func (h *Handler) DeactivatePattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Patterns.DeactivatePattern(r.Context(), id)
	if errors.Is(err, schedule.ErrPatternNotFound) {
		writeError(w, http.StatusNotFound, "Pattern not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to deactivate pattern", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOccurrences previews a pattern's upcoming occurrence dates.
func (h *Handler) GetOccurrences(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Patterns.GetPattern(r.Context(), id)
	if errors.Is(err, schedule.ErrPatternNotFound) {
		writeError(w, http.StatusNotFound, "Pattern not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get pattern", err)
		return
	}

	count := queryInt(r, "count", 0) // 0 = engine default
	occs := schedule.UpcomingOccurrences(p, count, schedule.Today())

	dtos := make([]OccurrenceDTO, len(occs))
	for i, o := range occs {
		dtos[i] = OccurrenceDTO{Date: o.Date.String(), Weekday: o.Weekday, Number: o.Number}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// GENERATION + ENTRY HANDLERS
// =============================================================================

// TriggerGeneration runs one generation pass immediately.
func (h *Handler) TriggerGeneration(w http.ResponseWriter, r *http.Request) {
	if h.Generator == nil {
		writeError(w, http.StatusServiceUnavailable, "Generation service not configured", nil)
		return
	}

	res, err := h.Generator.RunOnce(r.Context(), schedule.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Generation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{
		PatternsChecked:   res.PatternsChecked,
		PatternsGenerated: res.PatternsGenerated,
		EntriesCreated:    res.EntriesCreated,
	})
}

// ListEntries returns entries for a date range, optionally filtered to
// one cleaner. Query params: from, to (YYYY-MM-DD, required), cleaner.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	from, to, ok := queryRange(w, r)
	if !ok {
		return
	}

	var (
		entries []schedule.ScheduleEntry
		err     error
	)
	if cleaner := r.URL.Query().Get("cleaner"); cleaner != "" {
		entries, err = h.Entries.ListEntriesByCleaner(r.Context(), cleaner, from, to)
	} else {
		entries, err = h.Entries.ListEntriesByRange(r.Context(), from, to)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = entryToDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateEntryStatus transitions one entry's lifecycle status.
func (h *Handler) UpdateEntryStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateEntryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch schedule.EntryStatus(req.Status) {
	case schedule.StatusScheduled, schedule.StatusInProgress,
		schedule.StatusCompleted, schedule.StatusCancelled:
	default:
		writeError(w, http.StatusBadRequest, "Unknown status", nil)
		return
	}

	err := h.Entries.UpdateEntryStatus(r.Context(), id, schedule.EntryStatus(req.Status))
	if errors.Is(err, schedule.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// GetPayroll computes one cleaner's payroll for a period.
// Query params: cleaner (required), from, to (YYYY-MM-DD, required).
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	cleaner := r.URL.Query().Get("cleaner")
	if cleaner == "" {
		writeError(w, http.StatusBadRequest, "Missing cleaner parameter", nil)
		return
	}
	from, to, ok := queryRange(w, r)
	if !ok {
		return
	}

	entries, err := h.Entries.ListEntriesByCleaner(r.Context(), cleaner, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	writeJSON(w, http.StatusOK, payrollToDTO(payroll.ForPeriod(entries, cleaner, h.DefaultRate)))
}

// GetPayrollSummary computes payroll for every cleaner appearing in the
// period, omitting cleaners with nothing to pay.
func (h *Handler) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	from, to, ok := queryRange(w, r)
	if !ok {
		return
	}

	entries, err := h.Entries.ListEntriesByRange(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	// Every cleaner named on any entry in the period.
	seen := make(map[string]struct{})
	var names []string
	for _, e := range entries {
		for _, c := range e.Cleaners {
			if _, dup := seen[c]; !dup {
				seen[c] = struct{}{}
				names = append(names, c)
			}
		}
	}

	summary := payroll.Summary(entries, names, h.DefaultRate)
	dtos := make(map[string]PayrollResultDTO, len(summary))
	for name, res := range summary {
		dtos[name] = payrollToDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStats returns the company-wide dashboard rollup for a period.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	from, to, ok := queryRange(w, r)
	if !ok {
		return
	}

	entries, err := h.Entries.ListEntriesByRange(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}
	writeJSON(w, http.StatusOK, statsToDTO(payroll.ScheduleStats(entries)))
}

// =============================================================================
// HELPERS
// =============================================================================

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// queryRange parses the required from/to query params, writing a 400 and
// returning ok=false on any problem.
func queryRange(w http.ResponseWriter, r *http.Request) (from, to schedule.Date, ok bool) {
	var err error
	if from, err = schedule.ParseDate(r.URL.Query().Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing from date (use YYYY-MM-DD)", err)
		return from, to, false
	}
	if to, err = schedule.ParseDate(r.URL.Query().Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing to date (use YYYY-MM-DD)", err)
		return from, to, false
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to precedes from", nil)
		return from, to, false
	}
	return from, to, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
