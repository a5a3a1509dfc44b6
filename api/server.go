/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the mobile/web clients

ROUTE GROUPS:
  /api/patterns/*   Recurring pattern management and previews
  /api/entries/*    Materialized schedule entries
  /api/generate     Manual generation trigger
  /api/payroll/*    Per-cleaner payroll and summaries
  /api/stats        Dashboard rollup

SECURITY NOTE:
  No authentication middleware. Authn/authz is owned by the surrounding
  app; this service is deployed behind it.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/patterns", func(r chi.Router) {
			r.Get("/", h.ListPatterns)
			r.Post("/", h.CreatePattern)
			r.Post("/validate", h.ValidatePattern)
			r.Get("/{id}", h.GetPattern)
			r.Get("/{id}/occurrences", h.GetOccurrences)
			r.Post("/{id}/deactivate", h.DeactivatePattern)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/{id}/status", h.UpdateEntryStatus)
		})

		r.Post("/generate", h.TriggerGeneration)

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", h.GetPayroll)
			r.Get("/summary", h.GetPayrollSummary)
		})

		r.Get("/stats", h.GetStats)
	})

	// Landing page: a JSON index instead of a UI - screens live in the
	// surrounding app.
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "shift-engine",
			"endpoints": []string{
				"/api/patterns", "/api/entries", "/api/generate",
				"/api/payroll", "/api/payroll/summary", "/api/stats",
			},
		})
	})

	return r
}
