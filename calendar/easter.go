package calendar

import (
	cal "github.com/rickar/cal/v2"

	"github.com/warp/absence-engine/generic"
)

var easterSunday = &cal.Holiday{Name: "Domingo de Resurrección", Func: cal.CalcEasterOffset}

// Easter returns Easter Sunday of year (Gregorian computus). Years outside
// the Gregorian era still produce a date; it is consistent but meaningless.
func Easter(year int) generic.Date {
	actual, _ := easterSunday.Calc(year)
	return civil(actual)
}

// NextMonday returns d when it is a Monday, otherwise the Monday 1 to 6
// days after it.
func NextMonday(d generic.Date) generic.Date {
	for _, alt := range toMonday {
		if alt.Day == d.Weekday() {
			return d.AddDays(alt.Offset)
		}
	}
	return d
}
