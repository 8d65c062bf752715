/*
scheduler.go - Background holiday table seeder

PURPOSE:
  Keeps the persisted holiday table one year ahead. Reports and external
  tools read holidays from the database; the engine itself always computes
  them, so a missing table never affects counting.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - On each tick, looks at the current and next year
  - Seeds a year only when the store has no holidays for it
  - Warms the calendar cache for the same years

USAGE:
  seeder := NewHolidaySeeder(store, cal, logger)
  seeder.Start()
  // ... later
  seeder.Stop()

SEE ALSO:
  - handlers.go: SeedHolidays endpoint (manual, always overwrites)
*/
package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/absence-engine/calendar"
	"github.com/warp/absence-engine/generic"
)

// HolidayStore is the part of Store the seeder needs.
type HolidayStore interface {
	SaveHolidays(ctx context.Context, set generic.HolidaySet) error
	ListHolidays(ctx context.Context, year int) ([]generic.Holiday, error)
}

// HolidaySeeder persists computed holidays ahead of time.
type HolidaySeeder struct {
	Store         HolidayStore
	Calendar      *calendar.Calendar
	Logger        *slog.Logger
	CheckInterval time.Duration
	Now           func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewHolidaySeeder creates a seeder that checks once a day.
func NewHolidaySeeder(store HolidayStore, cal *calendar.Calendar, logger *slog.Logger) *HolidaySeeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &HolidaySeeder{
		Store:         store,
		Calendar:      cal,
		Logger:        logger,
		CheckInterval: 24 * time.Hour,
		Now:           time.Now,
	}
}

// Start begins the seeder. Calling Start on a running seeder does nothing.
func (s *HolidaySeeder) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return
	}
	if s.CheckInterval <= 0 {
		s.Logger.Info("holiday seeder disabled")
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker.C, s.stop)

	s.Logger.Info("holiday seeder started", "interval", s.CheckInterval.String())
}

// Stop stops the seeder and waits for an in-flight check to finish.
func (s *HolidaySeeder) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.Logger.Info("holiday seeder stopped")
}

func (s *HolidaySeeder) run(tick <-chan time.Time, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.check(stop)

	for {
		select {
		case <-tick:
			s.check(stop)
		case <-stop:
			return
		}
	}
}

func (s *HolidaySeeder) check(stop <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := s.RunNow(ctx); err != nil {
		s.Logger.Warn("holiday seeding failed", "err", err)
	}
}

// RunNow seeds the current and next year if they are missing and returns
// the years it wrote.
func (s *HolidaySeeder) RunNow(ctx context.Context) ([]int, error) {
	year := s.Now().Year()
	years := []int{year, year + 1}

	if err := s.Calendar.Warm(ctx, years...); err != nil {
		return nil, fmt.Errorf("failed to warm calendar: %w", err)
	}

	var seeded []int
	for _, y := range years {
		stored, err := s.Store.ListHolidays(ctx, y)
		if err != nil {
			return seeded, fmt.Errorf("failed to list holidays for %d: %w", y, err)
		}
		if len(stored) > 0 {
			continue
		}
		set := s.Calendar.HolidaysForYear(y)
		if err := s.Store.SaveHolidays(ctx, set); err != nil {
			return seeded, fmt.Errorf("failed to seed holidays for %d: %w", y, err)
		}
		s.Logger.Info("holidays seeded", "year", y, "count", len(set.Holidays()))
		seeded = append(seeded, y)
	}
	return seeded, nil
}
