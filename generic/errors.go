/*
errors.go - Centralized error types for the date engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages (timeoff) wrap these errors with additional context.

ERROR CATEGORIES:
  1. Range errors - a Period with End before Start
  2. Lookup errors - a referenced employee or record does not exist

FAIL-FAST vs DEGRADE:
  Day counting never returns these errors; an inverted range counts as 0.
  Overlap validation and accrual windows return ErrInvalidRange because they
  sit closer to user input.

SEE ALSO:
  - period.go: NewPeriod returns InvalidRangeError
  - timeoff/errors.go: absence-specific errors
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a range has End before Start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrNotFound is returned when a referenced employee or record doesn't exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError reports the offending bounds.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s before start %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
