package timeoff

import (
	"github.com/shopspring/decimal"

	"github.com/warp/absence-engine/generic"
)

// =============================================================================
// VACATION SUMMARY - Earned vs taken for one accrual year
// =============================================================================

// VacationSummary is the vacation position of an employee for one year.
// Taken sums every blocking vacation starting in the year, so pending
// requests already reserve their days.
type VacationSummary struct {
	EmployeeID   string
	Year         int
	AsOf         generic.Date
	MonthsWorked decimal.Decimal
	Earned       int
	Taken        int
	Available    int
}

// Summarize computes the summary of year from the service record and the
// employee's absences. Records of other employees, other kinds, other years
// and non-blocking statuses are ignored, as is excludeID.
func (a *AccrualCalculator) Summarize(svc ServiceRecord, year int, today generic.Date, records []AbsenceRecord, excludeID string) VacationSummary {
	months := a.MonthsWorkedInYear(svc.HireDate, year, today)
	earned := a.DaysForMonths(months)

	taken := 0
	for _, rec := range records {
		if rec.EmployeeID != svc.EmployeeID || rec.Kind != KindVacation || !rec.Status.Blocking() {
			continue
		}
		if excludeID != "" && rec.ID == excludeID {
			continue
		}
		if rec.Period.Start.Year() != year {
			continue
		}
		taken += rec.Days
	}

	available := earned - taken
	if available < 0 {
		available = 0
	}

	return VacationSummary{
		EmployeeID:   svc.EmployeeID,
		Year:         year,
		AsOf:         today,
		MonthsWorked: months,
		Earned:       earned,
		Taken:        taken,
		Available:    available,
	}
}
