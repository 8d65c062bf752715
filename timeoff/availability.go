package timeoff

import (
	"context"
	"fmt"

	"github.com/warp/absence-engine/generic"
)

// =============================================================================
// AVAILABILITY - Overlap checks against stored permits and vacations
// =============================================================================

// Lookup fetches the absences of an employee that still occupy their dates.
// Implementations return only blocking records (pending, approved, taken).
type Lookup interface {
	ListBlocking(ctx context.Context, employeeID string, kind Kind) ([]AbsenceRecord, error)
}

// OverlapLookup is implemented by stores that can narrow the blocking
// records of a kind to those intersecting a range on their side, with the
// same inclusive predicate as HasConflict.
type OverlapLookup interface {
	ListOverlapping(ctx context.Context, employeeID string, kind Kind, p generic.Period) ([]AbsenceRecord, error)
}

// Exclusions names the records an edit must not collide with: its own prior
// version, in whichever family it belongs to.
type Exclusions struct {
	PermitID   string
	VacationID string
}

func (e Exclusions) forKind(k Kind) string {
	if k == KindPermit {
		return e.PermitID
	}
	return e.VacationID
}

// AvailabilityChecker runs the overlap primitive once per absence family.
// Permits are checked first, then vacations; the first conflict found is
// returned.
type AvailabilityChecker struct {
	Lookup Lookup
}

// NewAvailabilityChecker creates a checker over lookup.
func NewAvailabilityChecker(lookup Lookup) *AvailabilityChecker {
	return &AvailabilityChecker{Lookup: lookup}
}

// Check returns nil when candidate is free for employeeID, a *ConflictError
// when it overlaps a blocking record, or ErrInvalidRange.
func (a *AvailabilityChecker) Check(ctx context.Context, employeeID string, candidate generic.Period, ex Exclusions) error {
	if !candidate.Valid() {
		return &generic.InvalidRangeError{Start: candidate.Start, End: candidate.End}
	}

	for _, kind := range Kinds {
		existing, err := a.candidates(ctx, employeeID, kind, candidate)
		if err != nil {
			return fmt.Errorf("failed to load %s records: %w", kind, err)
		}
		conflicts, err := Conflicts(employeeID, candidate, existing, ex.forKind(kind))
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{EmployeeID: employeeID, Requested: candidate, Existing: conflicts[0]}
		}
	}
	return nil
}

func (a *AvailabilityChecker) candidates(ctx context.Context, employeeID string, kind Kind, p generic.Period) ([]AbsenceRecord, error) {
	if narrow, ok := a.Lookup.(OverlapLookup); ok {
		return narrow.ListOverlapping(ctx, employeeID, kind, p)
	}
	return a.Lookup.ListBlocking(ctx, employeeID, kind)
}
