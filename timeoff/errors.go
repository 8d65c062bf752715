package timeoff

import (
	"errors"
	"fmt"

	"github.com/warp/absence-engine/generic"
)

var (
	// ErrAbsenceConflict is returned when a requested range overlaps an
	// existing blocking absence of the same employee.
	ErrAbsenceConflict = errors.New("absence overlaps an existing record")

	// ErrInsufficientBalance is returned when a vacation asks for more days
	// than are available in its accrual year.
	ErrInsufficientBalance = errors.New("insufficient vacation balance")

	// ErrInvalidTransition is returned for a status change the workflow
	// does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnknownKind is returned for an absence kind other than permit or vacation.
	ErrUnknownKind = errors.New("unknown absence kind")
)

// ConflictError names the record that blocks a request.
type ConflictError struct {
	EmployeeID string
	Requested  generic.Period
	Existing   AbsenceRecord
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("employee %s already has a %s %s (%s) overlapping %s",
		e.EmployeeID, e.Existing.Status, e.Existing.Kind, e.Existing.Period, e.Requested)
}

func (e *ConflictError) Unwrap() error { return ErrAbsenceConflict }

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	EmployeeID string
	Year       int
	Requested  int
	Available  int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("requested %d vacation days exceed the %d available for %d",
		e.Requested, e.Available, e.Year)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// TransitionError reports a refused status change.
type TransitionError struct {
	ID   string
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("absence %s cannot move from %s to %s", e.ID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, generic.ErrInvalidRange) ||
		errors.Is(err, ErrAbsenceConflict) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrUnknownKind)
}
