/*
accrual.go - Vacation accrual by months of service

PURPOSE:
  Computes how many vacation days an employee has earned in a calendar year.
  The statute grants 15 working days per full year of service, accrued in
  proportion to calendar months worked (not business days):

    15 days / 12 months = 1.25 days per month

MONTHS WORKED:
  The window is [max(hire date, Jan 1), min(today, Dec 31)].

    - Empty window (hired after today, or a future year): 0
    - Window inside one month: days in window / days in that month
    - Otherwise: whole months strictly between the first and last month,
      plus the share of the first month (from the start day to its end)
      and the share of the last month (up to the end day)

  Example: hired Jul 1 2024, evaluated on Jan 1 2025
    Aug..Nov = 4 whole months, July = 31/31, December = 31/31  -> 6 months

DAYS EARNED:
  floor(months * 15 / 12), never negative, never above 15.
  The example above earns floor(7.5) = 7 days.

TODAY:
  Always supplied by the caller. Nothing here reads the system clock.

SEE ALSO:
  - generic/time.go: AnniversaryIn clamps Feb 29 for anniversary projection
  - balance.go: earned minus taken
*/
package timeoff

import (
	"github.com/shopspring/decimal"

	"github.com/warp/absence-engine/generic"
)

// AnnualVacationDays is the statutory entitlement per full year of service.
const AnnualVacationDays = 15

// monthsPrecision absorbs the rounding of repeating fractions like 1/30
// before flooring; real month sums never sit closer than this to a day
// boundary.
const monthsPrecision = 10

var twelve = decimal.NewFromInt(12)

// =============================================================================
// ACCRUAL CALCULATOR
// =============================================================================

// AccrualCalculator prorates the annual entitlement by months worked.
type AccrualCalculator struct {
	AnnualEntitlement int
}

// NewAccrualCalculator returns a calculator for the statutory 15 days.
func NewAccrualCalculator() *AccrualCalculator {
	return &AccrualCalculator{AnnualEntitlement: AnnualVacationDays}
}

// MonthsWorked returns the fractional months covered by window. It returns
// ErrInvalidRange when window ends before it starts.
func (a *AccrualCalculator) MonthsWorked(window generic.Period) (decimal.Decimal, error) {
	if !window.Valid() {
		return decimal.Zero, &generic.InvalidRangeError{Start: window.Start, End: window.End}
	}
	start, end := window.Start, window.End

	startDays := decimal.NewFromInt(int64(start.DaysInMonth()))
	if start.Year() == end.Year() && start.Month() == end.Month() {
		inWindow := decimal.NewFromInt(int64(end.Day() - start.Day() + 1))
		return inWindow.Div(startDays), nil
	}

	between := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) - 1
	if between < 0 {
		between = 0
	}

	first := decimal.NewFromInt(int64(start.DaysInMonth() - start.Day() + 1)).Div(startDays)
	last := decimal.NewFromInt(int64(end.Day())).Div(decimal.NewFromInt(int64(end.DaysInMonth())))

	return decimal.NewFromInt(int64(between)).Add(first).Add(last), nil
}

// MonthsWorkedInYear returns the months of service inside year as of today.
// A zero hire date, or a window that is empty once clipped, yields zero.
func (a *AccrualCalculator) MonthsWorkedInYear(hire generic.Date, year int, today generic.Date) decimal.Decimal {
	window, ok := serviceWindow(hire, year, today)
	if !ok {
		return decimal.Zero
	}
	months, err := a.MonthsWorked(window)
	if err != nil {
		return decimal.Zero
	}
	return months
}

// VacationDaysEarned returns the whole vacation days earned in year as of
// today, in [0, AnnualEntitlement].
func (a *AccrualCalculator) VacationDaysEarned(hire generic.Date, year int, today generic.Date) int {
	return a.DaysForMonths(a.MonthsWorkedInYear(hire, year, today))
}

// DaysForMonths converts months of service into whole earned days, floored
// and capped at the annual entitlement.
func (a *AccrualCalculator) DaysForMonths(months decimal.Decimal) int {
	if !months.IsPositive() {
		return 0
	}
	entitlement := decimal.NewFromInt(int64(a.AnnualEntitlement))
	days := int(months.Round(monthsPrecision).Mul(entitlement).Div(twelve).Floor().IntPart())

	if days < 0 {
		return 0
	}
	if days > a.AnnualEntitlement {
		return a.AnnualEntitlement
	}
	return days
}

// serviceWindow clips [hire, today] to the calendar year.
func serviceWindow(hire generic.Date, year int, today generic.Date) (generic.Period, bool) {
	if hire.IsZero() || today.IsZero() {
		return generic.Period{}, false
	}
	window := generic.Period{
		Start: generic.MaxDate(hire, generic.StartOfYear(year)),
		End:   generic.MinDate(today, generic.EndOfYear(year)),
	}
	return window, window.Valid()
}

// =============================================================================
// SERVICE DATES
// =============================================================================

// YearsOfService returns completed years between hire and today, never
// negative.
func YearsOfService(hire, today generic.Date) int {
	if hire.IsZero() || today.Before(hire) {
		return 0
	}
	years := today.Year() - hire.Year()
	if today.Before(hire.AnniversaryIn(today.Year())) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// NextAnniversary returns the next work anniversary on or after today.
// A February 29 hire date is celebrated on February 28 in common years.
func NextAnniversary(hire, today generic.Date) generic.Date {
	return hire.NextOccurrence(today)
}

// NextBirthday returns the next birthday on or after today, with the same
// February 29 clamp as NextAnniversary.
func NextBirthday(birth, today generic.Date) generic.Date {
	return birth.NextOccurrence(today)
}
