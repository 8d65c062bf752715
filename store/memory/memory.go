// Package memory provides an in-memory absence store for tests and local
// development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/absence-engine/generic"
	"github.com/warp/absence-engine/timeoff"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	absences  map[string]timeoff.AbsenceRecord
	employees map[string]timeoff.ServiceRecord
	holidays  map[int][]generic.Holiday
}

func New() *Store {
	return &Store{
		absences:  make(map[string]timeoff.AbsenceRecord),
		employees: make(map[string]timeoff.ServiceRecord),
		holidays:  make(map[int][]generic.Holiday),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee creates or replaces a service record.
func (s *Store) SaveEmployee(_ context.Context, rec timeoff.ServiceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[rec.EmployeeID] = rec
	return nil
}

func (s *Store) ServiceRecord(_ context.Context, employeeID string) (timeoff.ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.employees[employeeID]
	if !ok {
		return timeoff.ServiceRecord{}, generic.ErrNotFound
	}
	return rec, nil
}

// =============================================================================
// ABSENCES
// =============================================================================

// Save inserts or replaces rec by ID.
func (s *Store) Save(_ context.Context, rec timeoff.AbsenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.absences[rec.ID] = rec
	return nil
}

func (s *Store) Get(_ context.Context, id string) (timeoff.AbsenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.absences[id]
	if !ok {
		return timeoff.AbsenceRecord{}, generic.ErrNotFound
	}
	return rec, nil
}

// ListByEmployee returns every record of employeeID ordered by start date.
func (s *Store) ListByEmployee(_ context.Context, employeeID string) ([]timeoff.AbsenceRecord, error) {
	return s.filter(func(r timeoff.AbsenceRecord) bool {
		return r.EmployeeID == employeeID
	}), nil
}

// ListBlocking returns the records of kind that still occupy their dates.
func (s *Store) ListBlocking(_ context.Context, employeeID string, kind timeoff.Kind) ([]timeoff.AbsenceRecord, error) {
	return s.filter(func(r timeoff.AbsenceRecord) bool {
		return r.EmployeeID == employeeID && r.Kind == kind && r.Status.Blocking()
	}), nil
}

func (s *Store) filter(keep func(timeoff.AbsenceRecord) bool) []timeoff.AbsenceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []timeoff.AbsenceRecord
	for _, r := range s.absences {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Period.Start.Compare(out[j].Period.Start); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHolidays replaces the stored holidays of set's year.
func (s *Store) SaveHolidays(_ context.Context, set generic.HolidaySet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays[set.Year()] = set.Holidays()
	return nil
}

// ListHolidays returns the stored holidays of year, ordered by date.
func (s *Store) ListHolidays(_ context.Context, year int) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hs := s.holidays[year]
	out := make([]generic.Holiday, len(hs))
	copy(out, hs)
	return out, nil
}
