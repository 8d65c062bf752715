package generic

import "fmt"

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive range of calendar dates: both Start and End are
// occupied days. A well-formed Period has Start <= End.
//
// Examples:
//   - A one-day permit:        [2024-03-28, 2024-03-28]
//   - A vacation across years: [2023-12-20, 2024-01-05]
//   - Calendar year 2025:      [2025-01-01, 2025-12-31]
type Period struct {
	Start Date
	End   Date
}

// NewPeriod builds a Period and rejects End < Start with ErrInvalidRange.
func NewPeriod(start, end Date) (Period, error) {
	p := Period{Start: start, End: end}
	if !p.Valid() {
		return Period{}, &InvalidRangeError{Start: start, End: end}
	}
	return p, nil
}

// MustPeriod is NewPeriod for literals in tests and tables.
func MustPeriod(start, end Date) Period {
	p, err := NewPeriod(start, end)
	if err != nil {
		panic(err)
	}
	return p
}

// YearPeriod returns [Jan 1, Dec 31] of year.
func YearPeriod(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// Valid reports whether Start <= End.
func (p Period) Valid() bool {
	return p.Start.BeforeOrEqual(p.End)
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Overlaps reports whether two inclusive ranges share at least one day.
// Ranges that touch at a boundary date overlap. The relation is symmetric.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && p.End.AfterOrEqual(other.Start)
}

// Intersect returns the shared part of two ranges. ok is false when they do
// not overlap.
func (p Period) Intersect(other Period) (Period, bool) {
	if !p.Overlaps(other) {
		return Period{}, false
	}
	return Period{Start: MaxDate(p.Start, other.Start), End: MinDate(p.End, other.End)}, true
}

// Len returns the number of days in the range, or 0 if it is inverted.
func (p Period) Len() int {
	if !p.Valid() {
		return 0
	}
	return p.Start.DaysUntil(p.End) + 1
}

// Each calls fn for every day in the range in order. It stops early when fn
// returns false.
func (p Period) Each(fn func(Date) bool) {
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		if !fn(d) {
			return
		}
	}
}

// Days returns all days in the period as a slice.
func (p Period) Days() []Date {
	days := make([]Date, 0, p.Len())
	p.Each(func(d Date) bool {
		days = append(days, d)
		return true
	})
	return days
}

// Years returns every calendar year the range touches, in order.
func (p Period) Years() []int {
	if !p.Valid() {
		return nil
	}
	years := make([]int, 0, p.End.Year()-p.Start.Year()+1)
	for y := p.Start.Year(); y <= p.End.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// String returns a string representation of the period.
func (p Period) String() string {
	return fmt.Sprintf("[%s, %s]", p.Start, p.End)
}
