/*
Package calendar implements the national holiday calendar.

PURPOSE:
  Produces the statutory non-working days of a year under Ley 51 de 1983:
  fixed-date holidays, holidays moved forward to Monday, and movable feasts
  anchored on Easter Sunday.

RULES (see rules.go):
  Fixed:          Jan 1, May 1, Jul 20, Aug 7, Dec 8, Dec 25
  Moved to Monday: Jan 6, Mar 19, Jun 29, Aug 15, Oct 12, Nov 1, Nov 11
  Easter based:   -3 and -2 days (kept), +43, +64, +71 days (moved to Monday)

RULE ENGINE:
  Each rule is a github.com/rickar/cal/v2 Holiday: CalcDayOfMonth for dated
  holidays, CalcEasterOffset for movable feasts, and an Observed table that
  moves Emiliani holidays to Monday. Compute turns Holiday.Calc results into
  a generic.HolidaySet; IsWorkday asks the matching cal.BusinessCalendar.

CACHING:
  HolidaysForYear memoizes through a YearCache. Each Calendar gets its own
  cache unless one is injected with WithCache, so tests never share state.

EXAMPLE:
  cal := calendar.New()
  set := cal.HolidaysForYear(2024)
  set.Contains(generic.NewDate(2024, time.March, 28)) // true, Jueves Santo

  counter := generic.NewDayCounter(cal)
  counter.BusinessDaysExcludingHolidays(period)

SEE ALSO:
  - generic/holiday.go: HolidaySet and the HolidayCalendar interface
  - generic/counter.go: business day counting
*/
package calendar

import (
	"context"

	cal "github.com/rickar/cal/v2"
	"golang.org/x/sync/errgroup"

	"github.com/warp/absence-engine/generic"
)

// Calendar is the national HolidayCalendar.
type Calendar struct {
	cache    *YearCache
	business *cal.BusinessCalendar
}

// Compile-time check that Calendar implements generic.HolidayCalendar
var _ generic.HolidayCalendar = (*Calendar)(nil)

// Option configures a Calendar.
type Option func(*Calendar)

// WithCache makes the calendar memoize into cache, which may be shared
// between calendars.
func WithCache(cache *YearCache) Option {
	return func(c *Calendar) { c.cache = cache }
}

// New creates a calendar with a private cache unless WithCache is given.
func New(opts ...Option) *Calendar {
	c := &Calendar{business: newBusinessCalendar()}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewYearCache()
	}
	return c
}

// HolidaysForYear returns the holidays of year, computing them on first use.
func (c *Calendar) HolidaysForYear(year int) generic.HolidaySet {
	return c.cache.GetOrCompute(year, Compute)
}

// IsHoliday reports whether d is a statutory holiday.
func (c *Calendar) IsHoliday(d generic.Date) bool {
	return c.HolidaysForYear(d.Year()).Contains(d)
}

// IsWorkday reports whether d is a Monday to Friday that is not observed
// as a holiday.
func (c *Calendar) IsWorkday(d generic.Date) bool {
	return c.business.IsWorkday(d.Time())
}

// NextHoliday returns the first holiday on or after from, and the number of
// days until it. It looks into the following year when from is past the
// last holiday of its own year.
func (c *Calendar) NextHoliday(from generic.Date) (generic.Holiday, int) {
	for _, year := range []int{from.Year(), from.Year() + 1} {
		for _, h := range c.HolidaysForYear(year).Holidays() {
			if h.Date.AfterOrEqual(from) {
				return h, from.DaysUntil(h.Date)
			}
		}
	}
	// Unreachable: every year has holidays in January.
	return generic.Holiday{}, 0
}

// Warm computes the given years in parallel and stores them in the cache.
// It returns early with ctx.Err() if the context is canceled.
func (c *Calendar) Warm(ctx context.Context, years ...int) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, year := range years {
		year := year
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.HolidaysForYear(year)
			return nil
		})
	}
	return g.Wait()
}

// Cache exposes the calendar's cache.
func (c *Calendar) Cache() *YearCache { return c.cache }
