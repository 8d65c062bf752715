/*
counter.go - Business day counting over inclusive date ranges

PURPOSE:
  Counts the days of a Period that satisfy a predicate: every day, every
  weekday, or every weekday that is not a statutory holiday.

FLOOR-AT-ONE RULE:
  An absence always consumes at least one day. Every count over a valid
  range is at least 1, even when every day in it is a weekend or holiday:

    Sat 2024-02-03 .. Sun 2024-02-04   BusinessDays = 1
    Thu 2024-03-28 .. Fri 2024-03-29   BusinessDaysExcludingHolidays = 1

INVERTED RANGES:
  A range with End before Start counts as 0. Callers validate ordering
  upstream (NewPeriod); this is a fallback, not the error channel.

YEAR BOUNDARIES:
  The holiday-aware count consults the holiday set of every year the range
  touches, so [2023-12-20, 2024-01-05] sees both Christmas 2023 and New
  Year 2024.

SEE ALSO:
  - holiday.go: HolidayCalendar interface
  - calendar/calendar.go: the national calendar implementation
*/
package generic

import "time"

// =============================================================================
// DAY COUNTER
// =============================================================================

// DayCounter counts days in ranges. Calendar may be nil, in which case the
// holiday-aware counts behave like BusinessDays.
type DayCounter struct {
	Calendar HolidayCalendar
}

// NewDayCounter creates a counter backed by cal.
func NewDayCounter(cal HolidayCalendar) *DayCounter {
	return &DayCounter{Calendar: cal}
}

// CalendarDays counts every day in p.
func (c *DayCounter) CalendarDays(p Period) int {
	return countAtLeastOne(p, func(Date) bool { return true })
}

// BusinessDays counts the days in p that are not Saturday or Sunday.
// Holidays are not consulted.
func (c *DayCounter) BusinessDays(p Period) int {
	return countAtLeastOne(p, func(d Date) bool { return !d.IsWeekend() })
}

// BusinessDaysExcludingHolidays counts weekdays in p that are not holidays
// in any year the range touches.
func (c *DayCounter) BusinessDaysExcludingHolidays(p Period) int {
	if !p.Valid() {
		return 0
	}
	sets := c.holidaySets(p.Years())
	return countAtLeastOne(p, func(d Date) bool { return isWorkday(d, sets) })
}

// BusinessDaysExcludingHolidaysIn is BusinessDaysExcludingHolidays with an
// explicit reference year whose holidays are consulted in addition to the
// years the range touches.
func (c *DayCounter) BusinessDaysExcludingHolidaysIn(p Period, referenceYear int) int {
	if !p.Valid() {
		return 0
	}
	years := p.Years()
	if referenceYear < p.Start.Year() || referenceYear > p.End.Year() {
		years = append(years, referenceYear)
	}
	sets := c.holidaySets(years)
	return countAtLeastOne(p, func(d Date) bool { return isWorkday(d, sets) })
}

// CountWeekday counts how many times weekday occurs in p. This is a plain
// count: no floor applies.
func (c *DayCounter) CountWeekday(p Period, weekday time.Weekday) int {
	n := 0
	p.Each(func(d Date) bool {
		if d.Weekday() == weekday {
			n++
		}
		return true
	})
	return n
}

// IsWorkday reports whether d is neither a weekend day nor a holiday.
func (c *DayCounter) IsWorkday(d Date) bool {
	return isWorkday(d, c.holidaySets([]int{d.Year()}))
}

// HolidaysIn returns the holidays that fall inside p, ordered by date.
func (c *DayCounter) HolidaysIn(p Period) []Holiday {
	var out []Holiday
	for _, set := range c.holidaySets(p.Years()) {
		for _, h := range set.Holidays() {
			if p.Contains(h.Date) {
				out = append(out, h)
			}
		}
	}
	return out
}

func (c *DayCounter) holidaySets(years []int) []HolidaySet {
	if c.Calendar == nil {
		return nil
	}
	sets := make([]HolidaySet, 0, len(years))
	for _, y := range years {
		sets = append(sets, c.Calendar.HolidaysForYear(y))
	}
	return sets
}

func isWorkday(d Date, sets []HolidaySet) bool {
	if d.IsWeekend() {
		return false
	}
	for _, s := range sets {
		if s.Contains(d) {
			return false
		}
	}
	return true
}

// countAtLeastOne walks p inclusively and applies the floor-at-one rule.
func countAtLeastOne(p Period, pred func(Date) bool) int {
	if !p.Valid() {
		return 0
	}
	n := 0
	p.Each(func(d Date) bool {
		if pred(d) {
			n++
		}
		return true
	})
	if n < 1 {
		return 1
	}
	return n
}
