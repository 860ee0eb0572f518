/*
main.go - Application entry point

PURPOSE:
  Starts the flextime dashboard server: loads configuration, opens the
  SQLite store, wires the HTTP handler and runs with graceful shutdown.

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides config, default from config: 8080)
  -db      SQLite database path (use ":memory:" for in-memory)
  -config  YAML config file path (default: fleksi.yaml)
  -seed    Insert demo entries and holiday declarations on startup

CONFIGURATION:
  Defaults -> YAML file -> FLEKSI_-prefixed environment variables.
  See config/config.go.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for active
  requests, close the database, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fleksi/flextime-engine/api"
	"github.com/fleksi/flextime-engine/config"
	"github.com/fleksi/flextime-engine/engine"
	"github.com/fleksi/flextime-engine/store"
	"github.com/fleksi/flextime-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	configPath := flag.String("config", "fleksi.yaml", "config file path")
	seed := flag.Bool("seed", false, "insert demo data on startup")
	flag.Parse()

	app, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		app.Port = *port
	}
	if *dbPath != "" {
		app.Database.Path = *dbPath
	}

	settings, err := app.EngineSettings()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	st, err := sqlite.New(app.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer st.Close()

	if *seed {
		if err := seedDemoData(context.Background(), st); err != nil {
			log.Warnf("Failed to seed demo data: %v", err)
		}
	}

	handler := api.NewHandler(st, settings, engine.SystemClock{})
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Flextime dashboard listening on http://localhost:%d", app.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}

// seedDemoData inserts a representative week of entries plus a few holiday
// declarations, so a fresh database renders a non-empty dashboard.
func seedDemoData(ctx context.Context, st store.EntryStore) error {
	existing, err := st.ListEntries(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Debug("Database not empty; skipping demo seed")
		return nil
	}

	now := time.Now()
	day := func(offset, hour, min int) time.Time {
		t := now.AddDate(0, 0, offset)
		return time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, t.Location())
	}
	closed := func(name string, start, end time.Time) store.Entry {
		return store.Entry{Name: name, StartTime: start, EndTime: &end}
	}

	entries := []store.Entry{
		closed("jobb", day(-4, 8, 0), day(-4, 16, 30)),
		closed("jobb", day(-3, 8, 15), day(-3, 15, 45)),
		closed("avspasering", day(-2, 12, 0), day(-2, 15, 0)),
		closed("jobb", day(-2, 8, 0), day(-2, 12, 0)),
		closed("jobb", day(-1, 9, 0), day(-1, 17, 0)),
	}
	for _, e := range entries {
		if _, err := st.AppendEntry(ctx, e); err != nil {
			return err
		}
	}

	holidays := fmt.Sprintf(
		"- %s: ferie: Long weekend\n- %s: helligdag: Public holiday\n",
		engine.DayOf(now.AddDate(0, 0, 14)),
		engine.DayOf(now.AddDate(0, 0, 30)),
	)
	if err := st.SetHolidayText(ctx, holidays); err != nil {
		return err
	}

	log.Infof("Seeded %d demo entries and holiday declarations", len(entries))
	return nil
}
