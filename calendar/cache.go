package calendar

import (
	"sync"

	"github.com/warp/absence-engine/generic"
)

// YearCache memoizes holiday sets by year. It is safe for concurrent use.
//
// A miss computes outside any lock. Two goroutines missing on the same year
// both compute the same set and the first store wins; sets are immutable,
// so either result is correct.
type YearCache struct {
	m sync.Map // int -> generic.HolidaySet
}

// NewYearCache returns an empty cache.
func NewYearCache() *YearCache {
	return &YearCache{}
}

// Get returns the cached set for year.
func (c *YearCache) Get(year int) (generic.HolidaySet, bool) {
	v, ok := c.m.Load(year)
	if !ok {
		return generic.HolidaySet{}, false
	}
	return v.(generic.HolidaySet), true
}

// GetOrCompute returns the cached set for year, computing and storing it
// with compute on a miss.
func (c *YearCache) GetOrCompute(year int, compute func(int) generic.HolidaySet) generic.HolidaySet {
	if set, ok := c.Get(year); ok {
		return set
	}
	v, _ := c.m.LoadOrStore(year, compute(year))
	return v.(generic.HolidaySet)
}

// Len returns the number of cached years.
func (c *YearCache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Years returns the cached years in no particular order.
func (c *YearCache) Years() []int {
	var years []int
	c.m.Range(func(k, _ any) bool {
		years = append(years, k.(int))
		return true
	})
	return years
}
