package timeoff

import "github.com/warp/absence-engine/generic"

// DurationPolicy decides how many days an absence consumes. Permits are
// charged in calendar days; vacations in business days net of holidays,
// since the statutory entitlement is expressed in working days.
type DurationPolicy struct {
	Counter *generic.DayCounter
}

// NewDurationPolicy creates a policy that counts with counter.
func NewDurationPolicy(counter *generic.DayCounter) *DurationPolicy {
	return &DurationPolicy{Counter: counter}
}

// Days returns the charge for an absence of kind over p. An inverted range
// counts as 0; any valid range costs at least one day.
func (d *DurationPolicy) Days(kind Kind, p generic.Period) int {
	switch kind {
	case KindVacation:
		return d.Counter.BusinessDaysExcludingHolidays(p)
	default:
		return d.Counter.CalendarDays(p)
	}
}
