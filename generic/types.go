/*
Package generic provides the core date engine.

PURPOSE:
  This package contains domain-agnostic types and algorithms for reasoning
  about calendar days: dates without time-of-day, inclusive ranges, holiday
  sets and the counters built on them. Absence rules (accrual, overlap,
  durations) live in timeoff and consume these types.

KEY CONCEPTS:
  - Date: A calendar date in UTC, comparable and usable as a map key
  - Period: An inclusive [Start, End] range of dates
  - HolidaySet: The immutable non-working dates of one year
  - HolidayCalendar: Anything that can produce a HolidaySet for a year
  - DayCounter: Calendar, business and holiday-aware day counts

DESIGN PRINCIPLES:
  1. Inclusive ranges: both ends of a Period are occupied days
  2. Determinism: the same inputs always yield the same counts
  3. No clock: "today" is always a parameter, never time.Now
  4. Immutability: holiday sets are built once and shared by readers

USAGE:
  p := generic.MustPeriod(generic.MustParseDate("2023-12-20"), generic.MustParseDate("2024-01-05"))
  counter := generic.NewDayCounter(calendar.New())
  counter.CalendarDays(p)                  // 17
  counter.BusinessDaysExcludingHolidays(p) // 11

SEE ALSO:
  - time.go: Date
  - period.go: Period
  - holiday.go: Holiday, HolidaySet, HolidayCalendar
  - counter.go: DayCounter
  - errors.go: ErrInvalidRange, ErrNotFound
*/
package generic
