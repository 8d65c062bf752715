package timeoff

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/absence-engine/generic"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Repository persists absence records. Get returns generic.ErrNotFound for
// an unknown id.
type Repository interface {
	Lookup
	Get(ctx context.Context, id string) (AbsenceRecord, error)
	Save(ctx context.Context, rec AbsenceRecord) error
	ListByEmployee(ctx context.Context, employeeID string) ([]AbsenceRecord, error)
}

// EmployeeDirectory resolves service records. ServiceRecord returns
// generic.ErrNotFound for an unknown employee.
type EmployeeDirectory interface {
	ServiceRecord(ctx context.Context, employeeID string) (ServiceRecord, error)
}

// =============================================================================
// REQUEST SERVICE - Absence lifecycle
// =============================================================================

// RequestService submits absences and moves them through their workflow.
// Submissions are serialized so two concurrent requests cannot both pass the
// overlap and balance checks against the same free dates.
type RequestService struct {
	Records   Repository
	Employees EmployeeDirectory
	Duration  *DurationPolicy
	Accrual   *AccrualCalculator

	// NewID mints record ids; defaults to uuid.NewString.
	NewID func() string

	// Now stamps CreatedAt/UpdatedAt and supplies "today" when a caller
	// leaves it empty; defaults to time.Now.
	Now func() time.Time

	mu sync.Mutex
}

// NewRequestService wires a service with the default duration and accrual
// rules over counter.
func NewRequestService(records Repository, employees EmployeeDirectory, counter *generic.DayCounter) *RequestService {
	return &RequestService{
		Records:   records,
		Employees: employees,
		Duration:  NewDurationPolicy(counter),
		Accrual:   NewAccrualCalculator(),
		NewID:     uuid.NewString,
		Now:       time.Now,
	}
}

// SubmitInput describes a new absence, or an edit of a pending one when ID
// is set.
type SubmitInput struct {
	ID         string
	EmployeeID string
	Kind       Kind
	Start      generic.Date
	End        generic.Date
	Reason     string
	Today      generic.Date // balance reference; zero means Now
}

// Submit validates and stores a pending absence. The checks run in order:
// range, kind, employee, overlap against both families, then balance for
// vacations.
func (rs *RequestService) Submit(ctx context.Context, in SubmitInput) (AbsenceRecord, error) {
	period, err := generic.NewPeriod(in.Start, in.End)
	if err != nil {
		return AbsenceRecord{}, err
	}
	if !in.Kind.Valid() {
		return AbsenceRecord{}, fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	svc, err := rs.Employees.ServiceRecord(ctx, in.EmployeeID)
	if err != nil {
		return AbsenceRecord{}, fmt.Errorf("employee %s: %w", in.EmployeeID, err)
	}

	now := rs.now()
	rec := AbsenceRecord{
		ID:         in.ID,
		EmployeeID: in.EmployeeID,
		Kind:       in.Kind,
		Period:     period,
		Status:     StatusPending,
		Reason:     strings.TrimSpace(in.Reason),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var ex Exclusions
	if in.ID != "" {
		prior, err := rs.Records.Get(ctx, in.ID)
		if err != nil {
			return AbsenceRecord{}, fmt.Errorf("absence %s: %w", in.ID, err)
		}
		if prior.EmployeeID != in.EmployeeID {
			return AbsenceRecord{}, fmt.Errorf("absence %s of employee %s: %w", in.ID, in.EmployeeID, generic.ErrNotFound)
		}
		if prior.Status != StatusPending {
			return AbsenceRecord{}, &TransitionError{ID: prior.ID, From: prior.Status, To: StatusPending}
		}
		rec.CreatedAt = prior.CreatedAt
		if prior.Kind == KindPermit {
			ex.PermitID = prior.ID
		} else {
			ex.VacationID = prior.ID
		}
	} else {
		rec.ID = rs.newID()
	}

	if err := NewAvailabilityChecker(rs.Records).Check(ctx, in.EmployeeID, period, ex); err != nil {
		return AbsenceRecord{}, err
	}

	rec.Days = rs.Duration.Days(in.Kind, period)

	if in.Kind == KindVacation {
		today := in.Today
		if today.IsZero() {
			today = generic.DateOf(now)
		}
		year := period.Start.Year()
		existing, err := rs.Records.ListBlocking(ctx, in.EmployeeID, KindVacation)
		if err != nil {
			return AbsenceRecord{}, fmt.Errorf("failed to load vacations: %w", err)
		}
		summary := rs.Accrual.Summarize(svc, year, today, existing, in.ID)
		if rec.Days > summary.Available {
			return AbsenceRecord{}, &InsufficientBalanceError{
				EmployeeID: in.EmployeeID,
				Year:       year,
				Requested:  rec.Days,
				Available:  summary.Available,
			}
		}
	}

	if err := rs.Records.Save(ctx, rec); err != nil {
		return AbsenceRecord{}, fmt.Errorf("failed to save absence: %w", err)
	}
	return rec, nil
}

// =============================================================================
// TRANSITIONS
// =============================================================================

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCanceled},
	StatusApproved: {StatusCanceled, StatusTaken},
}

// CanTransition reports whether the workflow allows from -> to.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (rs *RequestService) Approve(ctx context.Context, id string) (AbsenceRecord, error) {
	return rs.transition(ctx, id, StatusApproved)
}

func (rs *RequestService) Reject(ctx context.Context, id string) (AbsenceRecord, error) {
	return rs.transition(ctx, id, StatusRejected)
}

// Cancel frees the dates of a pending or approved absence.
func (rs *RequestService) Cancel(ctx context.Context, id string) (AbsenceRecord, error) {
	return rs.transition(ctx, id, StatusCanceled)
}

// MarkTaken records that an approved absence was enjoyed.
func (rs *RequestService) MarkTaken(ctx context.Context, id string) (AbsenceRecord, error) {
	return rs.transition(ctx, id, StatusTaken)
}

func (rs *RequestService) transition(ctx context.Context, id string, to Status) (AbsenceRecord, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rec, err := rs.Records.Get(ctx, id)
	if err != nil {
		return AbsenceRecord{}, fmt.Errorf("absence %s: %w", id, err)
	}
	if !CanTransition(rec.Status, to) {
		return AbsenceRecord{}, &TransitionError{ID: id, From: rec.Status, To: to}
	}

	rec.Status = to
	rec.UpdatedAt = rs.now()
	if err := rs.Records.Save(ctx, rec); err != nil {
		return AbsenceRecord{}, fmt.Errorf("failed to save absence: %w", err)
	}
	return rec, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// VacationSummary returns earned, taken and available days for year as of
// today.
func (rs *RequestService) VacationSummary(ctx context.Context, employeeID string, year int, today generic.Date) (VacationSummary, error) {
	svc, err := rs.Employees.ServiceRecord(ctx, employeeID)
	if err != nil {
		return VacationSummary{}, fmt.Errorf("employee %s: %w", employeeID, err)
	}
	existing, err := rs.Records.ListBlocking(ctx, employeeID, KindVacation)
	if err != nil {
		return VacationSummary{}, fmt.Errorf("failed to load vacations: %w", err)
	}
	return rs.Accrual.Summarize(svc, year, today, existing, ""), nil
}

// CheckAvailability runs the overlap check without storing anything. An
// unknown employee is reported as not found rather than as available.
func (rs *RequestService) CheckAvailability(ctx context.Context, employeeID string, candidate generic.Period, ex Exclusions) error {
	if _, err := rs.Employees.ServiceRecord(ctx, employeeID); err != nil {
		return fmt.Errorf("employee %s: %w", employeeID, err)
	}
	return NewAvailabilityChecker(rs.Records).Check(ctx, employeeID, candidate, ex)
}

func (rs *RequestService) newID() string {
	if rs.NewID == nil {
		return uuid.NewString()
	}
	return rs.NewID()
}

func (rs *RequestService) now() time.Time {
	if rs.Now == nil {
		return time.Now().UTC()
	}
	return rs.Now().UTC()
}
