/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists employees, absence records and seeded holiday tables. In
  production the same patterns apply to PostgreSQL with minor SQL dialect
  differences.

INTERFACES IMPLEMENTED:
  timeoff.Repository:        absence records (Get, Save, ListBlocking, ListByEmployee)
  timeoff.EmployeeDirectory: service records for accrual
  timeoff.OverlapLookup:     ListOverlapping, the overlap predicate in SQL

KEY TABLES:
  employees: hire and birth dates
  absences:  permits and vacations, one row per record, status updated in place
  holidays:  computed holiday sets persisted for reporting

BLOCKING STATUSES:
  ListBlocking returns only pending, approved and taken rows. Rejected and
  canceled rows stay in the table for history but free their dates.

DATES:
  Stored as TEXT in YYYY-MM-DD form so that lexical order is date order and
  range predicates work directly in SQL.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/absence.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - timeoff/request.go: Repository and EmployeeDirectory
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/absence-engine/generic"
	"github.com/warp/absence-engine/timeoff"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ timeoff.Repository        = (*Store)(nil)
	_ timeoff.EmployeeDirectory = (*Store)(nil)
	_ timeoff.OverlapLookup     = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection; used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		hire_date TEXT NOT NULL,
		birth_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		kind TEXT NOT NULL CHECK (kind IN ('permit', 'vacation')),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		days INTEGER NOT NULL,
		reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (start_date <= end_date)
	);

	-- Overlap lookups (hot path)
	CREATE INDEX IF NOT EXISTS idx_absences_employee_kind_status
		ON absences(employee_id, kind, status);
	CREATE INDEX IF NOT EXISTS idx_absences_employee_start
		ON absences(employee_id, start_date);

	CREATE TABLE IF NOT EXISTS holidays (
		year INTEGER NOT NULL,
		date TEXT NOT NULL,
		original_date TEXT NOT NULL,
		name TEXT NOT NULL,
		rule TEXT NOT NULL,
		PRIMARY KEY (date, name)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_year ON holidays(year);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

// SaveEmployee creates or updates a service record.
func (s *Store) SaveEmployee(ctx context.Context, rec timeoff.ServiceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, hire_date, birth_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			hire_date = excluded.hire_date,
			birth_date = excluded.birth_date
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.EmployeeID, rec.Name,
		rec.HireDate.String(),
		nullDate(rec.BirthDate),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ServiceRecord retrieves an employee by ID.
func (s *Store) ServiceRecord(ctx context.Context, employeeID string) (timeoff.ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec timeoff.ServiceRecord
	var hireDate string
	var birthDate sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, hire_date, birth_date FROM employees WHERE id = ?",
		employeeID,
	).Scan(&rec.EmployeeID, &rec.Name, &hireDate, &birthDate)

	if errors.Is(err, sql.ErrNoRows) {
		return timeoff.ServiceRecord{}, generic.ErrNotFound
	}
	if err != nil {
		return timeoff.ServiceRecord{}, err
	}

	if rec.HireDate, err = generic.ParseDate(hireDate); err != nil {
		return timeoff.ServiceRecord{}, fmt.Errorf("employee %s: bad hire_date: %w", employeeID, err)
	}
	if birthDate.Valid {
		if rec.BirthDate, err = generic.ParseDate(birthDate.String); err != nil {
			return timeoff.ServiceRecord{}, fmt.Errorf("employee %s: bad birth_date: %w", employeeID, err)
		}
	}
	return rec, nil
}

// =============================================================================
// ABSENCE REPOSITORY
// =============================================================================

const absenceColumns = `id, employee_id, kind, start_date, end_date, status, days, reason, created_at, updated_at`

// Save inserts a record or updates it in place.
func (s *Store) Save(ctx context.Context, rec timeoff.AbsenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO absences (` + absenceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			days = excluded.days,
			reason = excluded.reason,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.EmployeeID, string(rec.Kind),
		rec.Period.Start.String(), rec.Period.End.String(),
		string(rec.Status), rec.Days, nullString(rec.Reason),
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save absence %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves an absence by ID.
func (s *Store) Get(ctx context.Context, id string) (timeoff.AbsenceRecord, error) {
	recs, err := s.queryAbsences(ctx, "SELECT "+absenceColumns+" FROM absences WHERE id = ?", id)
	if err != nil {
		return timeoff.AbsenceRecord{}, err
	}
	if len(recs) == 0 {
		return timeoff.AbsenceRecord{}, generic.ErrNotFound
	}
	return recs[0], nil
}

// ListByEmployee returns every absence of an employee, oldest first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]timeoff.AbsenceRecord, error) {
	return s.queryAbsences(ctx,
		"SELECT "+absenceColumns+" FROM absences WHERE employee_id = ? ORDER BY start_date, id",
		employeeID,
	)
}

// ListBlocking returns the absences of kind that still occupy their dates.
func (s *Store) ListBlocking(ctx context.Context, employeeID string, kind timeoff.Kind) ([]timeoff.AbsenceRecord, error) {
	query := `
		SELECT ` + absenceColumns + `
		FROM absences
		WHERE employee_id = ? AND kind = ? AND status IN (?, ?, ?)
		ORDER BY start_date, id
	`
	return s.queryAbsences(ctx, query, employeeID, string(kind),
		string(timeoff.StatusPending), string(timeoff.StatusApproved), string(timeoff.StatusTaken))
}

// ListOverlapping returns the blocking absences of kind that intersect p.
// The inclusive predicate is evaluated in SQL, so availability checks only
// load the rows that can conflict.
func (s *Store) ListOverlapping(ctx context.Context, employeeID string, kind timeoff.Kind, p generic.Period) ([]timeoff.AbsenceRecord, error) {
	query := `
		SELECT ` + absenceColumns + `
		FROM absences
		WHERE employee_id = ? AND kind = ?
		  AND status IN (?, ?, ?)
		  AND start_date <= ? AND end_date >= ?
		ORDER BY start_date, id
	`
	return s.queryAbsences(ctx, query, employeeID, string(kind),
		string(timeoff.StatusPending), string(timeoff.StatusApproved), string(timeoff.StatusTaken),
		p.End.String(), p.Start.String())
}

func (s *Store) queryAbsences(ctx context.Context, query string, args ...any) ([]timeoff.AbsenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []timeoff.AbsenceRecord
	for rows.Next() {
		rec, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanAbsence(rows *sql.Rows) (timeoff.AbsenceRecord, error) {
	var rec timeoff.AbsenceRecord
	var kind, status, start, end, createdAt, updatedAt string
	var reason sql.NullString

	if err := rows.Scan(&rec.ID, &rec.EmployeeID, &kind, &start, &end, &status,
		&rec.Days, &reason, &createdAt, &updatedAt); err != nil {
		return rec, err
	}

	startDate, err := generic.ParseDate(start)
	if err != nil {
		return rec, fmt.Errorf("absence %s: bad start_date: %w", rec.ID, err)
	}
	endDate, err := generic.ParseDate(end)
	if err != nil {
		return rec, fmt.Errorf("absence %s: bad end_date: %w", rec.ID, err)
	}

	rec.Kind = timeoff.Kind(kind)
	rec.Status = timeoff.Status(status)
	rec.Period = generic.Period{Start: startDate, End: endDate}
	rec.Reason = reason.String
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return rec, fmt.Errorf("absence %s: bad created_at: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return rec, fmt.Errorf("absence %s: bad updated_at: %w", rec.ID, err)
	}
	return rec, nil
}

// =============================================================================
// HOLIDAY TABLE
// =============================================================================

// SaveHolidays replaces the stored holidays of set's year in one transaction.
func (s *Store) SaveHolidays(ctx context.Context, set generic.HolidaySet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM holidays WHERE year = ?", set.Year()); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO holidays (year, date, original_date, name, rule) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range set.Holidays() {
		if _, err := stmt.ExecContext(ctx, set.Year(), h.Date.String(), h.Original.String(), h.Name, string(h.Rule)); err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("duplicate holiday %s on %s: %w", h.Name, h.Date, err)
			}
			return err
		}
	}

	return tx.Commit()
}

// ListHolidays returns the stored holidays of year, ordered by date.
func (s *Store) ListHolidays(ctx context.Context, year int) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT date, original_date, name, rule FROM holidays WHERE year = ? ORDER BY date, name",
		year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var date, original, rule string
		if err := rows.Scan(&date, &original, &h.Name, &rule); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(date); err != nil {
			return nil, err
		}
		if h.Original, err = generic.ParseDate(original); err != nil {
			return nil, err
		}
		h.Rule = generic.HolidayRule(rule)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Reset deletes all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"absences", "holidays", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d generic.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
