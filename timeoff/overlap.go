/*
overlap.go - Absence overlap validation

PURPOSE:
  Decides whether a requested absence collides with absences already on
  record for the same employee.

INVARIANT:
  An employee cannot be absent twice on the same day. Ranges are inclusive
  at both ends, so ranges that merely touch conflict:

    [Jan 1, Jan 10] vs [Jan 10, Jan 20]   conflict (Jan 10 is in both)
    [Jan 1, Jan  9] vs [Jan 10, Jan 20]   no conflict

  The predicate is symmetric: swapping candidate and stored range never
  changes the answer.

EDITS:
  When an existing record is edited, its own prior version must not count
  against it. excludeID drops that record; an empty excludeID drops nothing.

PURITY:
  HasConflict never fetches anything. Callers supply the records; see
  availability.go for the composition over a storage lookup.
*/
package timeoff

import "github.com/warp/absence-engine/generic"

// HasConflict reports whether candidate intersects any record of employeeID
// in existing, ignoring the record whose ID is excludeID. It returns
// ErrInvalidRange when candidate ends before it starts.
func HasConflict(employeeID string, candidate generic.Period, existing []AbsenceRecord, excludeID string) (bool, error) {
	conflicts, err := Conflicts(employeeID, candidate, existing, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// Conflicts returns the records that make HasConflict true, in input order.
func Conflicts(employeeID string, candidate generic.Period, existing []AbsenceRecord, excludeID string) ([]AbsenceRecord, error) {
	if !candidate.Valid() {
		return nil, &generic.InvalidRangeError{Start: candidate.Start, End: candidate.End}
	}

	var out []AbsenceRecord
	for _, rec := range existing {
		if rec.EmployeeID != employeeID {
			continue
		}
		if excludeID != "" && rec.ID == excludeID {
			continue
		}
		if candidate.Overlaps(rec.Period) {
			out = append(out, rec)
		}
	}
	return out, nil
}
