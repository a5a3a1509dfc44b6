/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift-engine server: SQLite store, HTTP
  handlers, the background generation scheduler, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create handler + generation service
  4. Configure HTTP router
  5. Start generator loop and server with graceful shutdown

COMMAND-LINE FLAGS:
  -port           HTTP server port (default: 8080)
  -db             SQLite database path (default: shifts.db)
                  Use ":memory:" for an in-memory database
  -generate-every How often the generation loop runs (default: 1h)
  -weeks-ahead    Rolling materialization horizon in weeks (default: 4)
  -default-rate   Fallback hourly rate for entries without one

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the generation loop
  4. Close database connection

SEE ALSO:
  - api/server.go: Router configuration
  - api/generate.go: Generation scheduler
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brightfloor/shift-engine/api"
	"github.com/brightfloor/shift-engine/schedule"
	"github.com/brightfloor/shift-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "shifts.db", "SQLite database path")
	generateEvery := flag.Duration("generate-every", time.Hour, "generation loop interval")
	weeksAhead := flag.Int("weeks-ahead", schedule.DefaultWeeksAhead, "materialization horizon in weeks")
	defaultRate := flag.String("default-rate", "0", "fallback hourly rate")
	flag.Parse()

	rate, err := decimal.NewFromString(*defaultRate)
	if err != nil {
		log.Fatalf("Invalid -default-rate %q: %v", *defaultRate, err)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Generation service
	generator := api.NewGenerator(store, store)
	generator.WeeksAhead = *weeksAhead
	generator.CheckInterval = *generateEvery

	// Handler + router
	handler := api.NewHandler(store, store)
	handler.DefaultRate = rate
	handler.Generator = generator
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	generator.Start()

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	generator.Stop()

	log.Println("Server stopped")
}
