package generic

import (
	"fmt"
	"time"

	cal "github.com/rickar/cal/v2"
)

// =============================================================================
// DATE - Calendar date with no time-of-day or timezone
// =============================================================================

// Date is a calendar date. The zero value means "unset" and is reported by
// IsZero; every constructed date, 0001-01-01 included, is set. Dates are
// comparable with == and usable as map keys.
type Date struct {
	t   time.Time
	set bool
}

const dateLayout = "2006-01-02"

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), set: true}
}

// DateOf drops the clock and location of t, keeping its local calendar date.
// The zero time.Time maps to the unset Date.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return NewDate(t.Date()), nil
}

// MustParseDate is ParseDate for literals in tests and tables.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) Compare(other Date) int        { return d.t.Compare(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n), set: true} }

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return !d.set }
func (d Date) Time() time.Time       { return d.t }
func (d Date) DaysInMonth() int      { return DaysInMonth(d.Year(), d.Month()) }
func (d Date) IsWeekend() bool       { return cal.IsWeekend(d.t) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty string yields
// the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// ANNIVERSARY PROJECTION
// =============================================================================

// AnniversaryIn projects d's month and day onto year. February 29 lands on
// February 28 when year is not a leap year; it never rolls into March.
func (d Date) AnniversaryIn(year int) Date {
	day := d.Day()
	if last := DaysInMonth(year, d.Month()); day > last {
		day = last
	}
	return NewDate(year, d.Month(), day)
}

// NextOccurrence returns the first projection of d's month and day that is
// on or after from.
func (d Date) NextOccurrence(from Date) Date {
	next := d.AnniversaryIn(from.Year())
	if next.Before(from) {
		next = d.AnniversaryIn(from.Year() + 1)
	}
	return next
}

// =============================================================================
// CALENDAR UTILITIES
// =============================================================================

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// DaysInMonth returns 28..31 for the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func IsLeapYear(year int) bool { return DaysInMonth(year, time.February) == 29 }

// MinDate and MaxDate
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}
