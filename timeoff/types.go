// Package timeoff implements leave accrual and absence validation on top of
// the generic date engine: how many vacation days an employee has earned,
// how long an absence lasts, and whether a requested absence collides with
// one already on record.
package timeoff

import (
	"fmt"
	"time"

	"github.com/warp/absence-engine/generic"
)

// =============================================================================
// ABSENCE KINDS
// =============================================================================

// Kind distinguishes the two absence record families. Overlap checking
// treats them identically; only duration and balance rules differ.
type Kind string

const (
	KindPermit   Kind = "permit"
	KindVacation Kind = "vacation"
)

// Kinds lists every kind in the order availability checks run.
var Kinds = []Kind{KindPermit, KindVacation}

func (k Kind) Valid() bool { return k == KindPermit || k == KindVacation }

// ParseKind validates a kind coming from outside.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusCanceled Status = "canceled"
	StatusTaken    Status = "taken"
)

// Blocking reports whether a record in this status still occupies its dates.
// Rejected and canceled records free them.
func (s Status) Blocking() bool {
	switch s {
	case StatusPending, StatusApproved, StatusTaken:
		return true
	default:
		return false
	}
}

// =============================================================================
// RECORDS
// =============================================================================

// AbsenceRecord is a date-ranged absence owned by one employee.
type AbsenceRecord struct {
	ID         string
	EmployeeID string
	Kind       Kind
	Period     generic.Period
	Status     Status
	Days       int // duration charged, per DurationPolicy
	Reason     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ServiceRecord is what accrual needs to know about an employee.
type ServiceRecord struct {
	EmployeeID string
	Name       string
	HireDate   generic.Date
	BirthDate  generic.Date // optional
}
