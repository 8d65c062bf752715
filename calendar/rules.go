package calendar

import (
	"time"

	cal "github.com/rickar/cal/v2"

	"github.com/warp/absence-engine/generic"
)

// =============================================================================
// HOLIDAY RULES - Ley 51 de 1983 (Ley Emiliani)
// =============================================================================

// toMonday moves a holiday forward to the following Monday.
var toMonday = []cal.AltDay{
	{Day: time.Tuesday, Offset: 6},
	{Day: time.Wednesday, Offset: 5},
	{Day: time.Thursday, Offset: 4},
	{Day: time.Friday, Offset: 3},
	{Day: time.Saturday, Offset: 2},
	{Day: time.Sunday, Offset: 1},
}

type rule struct {
	holiday *cal.Holiday
	kind    generic.HolidayRule
}

func fixed(name string, month time.Month, day int) rule {
	return rule{
		holiday: &cal.Holiday{Name: name, Type: cal.ObservancePublic, Month: month, Day: day, Func: cal.CalcDayOfMonth},
		kind:    generic.RuleFixed,
	}
}

func emiliani(name string, month time.Month, day int) rule {
	return rule{
		holiday: &cal.Holiday{Name: name, Type: cal.ObservancePublic, Month: month, Day: day, Observed: toMonday, Func: cal.CalcDayOfMonth},
		kind:    generic.RuleMondayShift,
	}
}

func paschal(name string, offset int, shift bool) rule {
	r := rule{
		holiday: &cal.Holiday{Name: name, Type: cal.ObservanceReligious, Offset: offset, Func: cal.CalcEasterOffset},
		kind:    generic.RuleEaster,
	}
	if shift {
		r.holiday.Observed = toMonday
		r.kind = generic.RuleEasterShift
	}
	return r
}

// Fixed and Easter rules come before the Monday rules: a Monday rule's
// literal date is not a holiday once moved, and a business calendar reports
// only the first rule matching a date.
var rules = []rule{
	fixed("Año Nuevo", time.January, 1),
	fixed("Día del Trabajo", time.May, 1),
	fixed("Día de la Independencia", time.July, 20),
	fixed("Batalla de Boyacá", time.August, 7),
	fixed("Inmaculada Concepción", time.December, 8),
	fixed("Navidad", time.December, 25),

	paschal("Jueves Santo", -3, false),
	paschal("Viernes Santo", -2, false),
	paschal("Ascensión del Señor", 43, true),
	paschal("Corpus Christi", 64, true),
	paschal("Sagrado Corazón", 71, true),

	emiliani("Reyes Magos", time.January, 6),
	emiliani("San José", time.March, 19),
	emiliani("San Pedro y San Pablo", time.June, 29),
	emiliani("Asunción de la Virgen", time.August, 15),
	emiliani("Día de la Raza", time.October, 12),
	emiliani("Todos los Santos", time.November, 1),
	emiliani("Independencia de Cartagena", time.November, 11),
}

// Compute derives the holidays of year from the rule table. It is pure and
// does not touch any cache.
func Compute(year int) generic.HolidaySet {
	holidays := make([]generic.Holiday, 0, len(rules))
	for _, r := range rules {
		actual, observed := r.holiday.Calc(year)
		holidays = append(holidays, generic.Holiday{
			Date:     civil(observed),
			Original: civil(actual),
			Name:     r.holiday.Name,
			Rule:     r.kind,
		})
	}
	return generic.NewHolidaySet(year, holidays)
}

// civil keeps the calendar date of t. Year 1 is a real year here, so the
// zero time is not treated as unset.
func civil(t time.Time) generic.Date { return generic.NewDate(t.Date()) }

// newBusinessCalendar returns a Monday to Friday calendar observing every rule.
func newBusinessCalendar() *cal.BusinessCalendar {
	bc := cal.NewBusinessCalendar()
	bc.Name = "CO"
	for _, r := range rules {
		bc.AddHoliday(r.holiday)
	}
	return bc
}
