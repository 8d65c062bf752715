package generic

import "sort"

// =============================================================================
// HOLIDAY - A named non-working date
// =============================================================================

// HolidayRule records how a holiday's date was derived.
type HolidayRule string

const (
	RuleFixed       HolidayRule = "fixed"        // same month/day every year
	RuleMondayShift HolidayRule = "monday_shift" // moved forward to the next Monday
	RuleEaster      HolidayRule = "easter"       // fixed offset from Easter Sunday
	RuleEasterShift HolidayRule = "easter_shift" // Easter offset, then moved to Monday
)

// Holiday is a statutory non-working day.
type Holiday struct {
	Date     Date        // the day off
	Original Date        // the literal date before any Monday shift
	Name     string      // e.g. "Navidad", "Batalla de Boyacá"
	Rule     HolidayRule // how Date was derived
}

// Shifted reports whether the holiday was moved away from its literal date.
func (h Holiday) Shifted() bool { return !h.Date.Equal(h.Original) }

// HolidayCalendar provides the non-working days of a year.
type HolidayCalendar interface {
	// HolidaysForYear returns the holidays of year. Implementations must be
	// deterministic: the same year always yields the same set.
	HolidaysForYear(year int) HolidaySet
}

// =============================================================================
// HOLIDAY SET - Immutable per-year collection
// =============================================================================

// HolidaySet is the set of non-working dates of one year. It is never
// modified after construction, so one instance may be shared by any number
// of readers.
type HolidaySet struct {
	year     int
	holidays []Holiday
	index    map[Date][]int
}

// NewHolidaySet builds a set from holidays, sorted by date then name. Two
// holidays may fall on the same date; both are kept and the date counts once.
func NewHolidaySet(year int, holidays []Holiday) HolidaySet {
	sorted := make([]Holiday, len(holidays))
	copy(sorted, holidays)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Date.Compare(sorted[j].Date); c != 0 {
			return c < 0
		}
		return sorted[i].Name < sorted[j].Name
	})

	index := make(map[Date][]int, len(sorted))
	for i, h := range sorted {
		index[h.Date] = append(index[h.Date], i)
	}
	return HolidaySet{year: year, holidays: sorted, index: index}
}

func (s HolidaySet) Year() int { return s.year }

// Contains reports whether d is a holiday in this set.
func (s HolidaySet) Contains(d Date) bool {
	_, ok := s.index[d]
	return ok
}

// Lookup returns the holidays that fall on d.
func (s HolidaySet) Lookup(d Date) []Holiday {
	idx := s.index[d]
	out := make([]Holiday, len(idx))
	for i, j := range idx {
		out[i] = s.holidays[j]
	}
	return out
}

// Len returns the number of distinct dates.
func (s HolidaySet) Len() int { return len(s.index) }

// Dates returns the distinct dates in ascending order.
func (s HolidaySet) Dates() []Date {
	dates := make([]Date, 0, len(s.index))
	for i, h := range s.holidays {
		if i > 0 && s.holidays[i-1].Date.Equal(h.Date) {
			continue
		}
		dates = append(dates, h.Date)
	}
	return dates
}

// Holidays returns a copy of every named holiday, ordered by date.
func (s HolidaySet) Holidays() []Holiday {
	out := make([]Holiday, len(s.holidays))
	copy(out, s.holidays)
	return out
}
