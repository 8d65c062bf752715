/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the absence engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (YAML file, environment, flags)
  2. Configure structured logging
  3. Initialize SQLite store
  4. Warm the holiday cache and start the holiday seeder
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (optional)
  -port    HTTP server port (overrides addr)
  -db      SQLite database path (overrides db)
           Use ":memory:" for in-memory database

ENVIRONMENT:
  ABSENCE_ADDR, ABSENCE_DB, ABSENCE_LOG_LEVEL, ABSENCE_CORS_ORIGINS,
  ABSENCE_SHUTDOWN_TIMEOUT, ABSENCE_WARM_YEARS, ABSENCE_SEED_INTERVAL

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (shutdown_timeout)
  3. Stop the seeder and close the database
  4. Exit

EXAMPLES:
  ./server -db="./data/absence.db"
  ./server -config=absence.yaml -port=3000

SEE ALSO:
  - config/config.go: Settings and precedence
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/absence-engine/api"
	"github.com/warp/absence-engine/calendar"
	"github.com/warp/absence-engine/config"
	"github.com/warp/absence-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config addr)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config db)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *port != 0 {
		cfg.Addr = fmt.Sprintf(":%d", *port)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	startup, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Ping(startup); err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	// Holiday calendar shared by every request
	cal := calendar.New()
	thisYear := time.Now().Year()
	years := make([]int, 0, 2*cfg.WarmYears+1)
	for y := thisYear - cfg.WarmYears; y <= thisYear+cfg.WarmYears; y++ {
		years = append(years, y)
	}
	if err := cal.Warm(startup, years...); err != nil {
		logger.Warn("holiday cache warm-up incomplete", "err", err)
	}

	seeder := api.NewHolidaySeeder(store, cal, logger)
	seeder.CheckInterval = cfg.SeedInterval
	seeder.Start()
	defer seeder.Stop()

	handler := api.NewHandler(store, cal, logger)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "db", cfg.DBPath, "cached_years", cal.Cache().Len())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
