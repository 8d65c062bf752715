package generic

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_DropsClock(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	d := DateOf(time.Date(2024, time.March, 28, 23, 59, 0, 0, bogota))
	assert.Equal(t, NewDate(2024, time.March, 28), d)
	assert.True(t, DateOf(time.Time{}).IsZero())
}

func TestDate_YearOneIsSet(t *testing.T) {
	// GIVEN: The first day of year 1, which shares its instant with time.Time{}
	// WHEN: It is built, parsed or shifted
	// THEN: It stays a real date, distinct from the unset Date
	first := NewDate(1, time.January, 1)
	assert.False(t, first.IsZero())
	assert.NotEqual(t, Date{}, first)
	assert.Equal(t, "0001-01-01", first.String())

	parsed, err := ParseDate("0001-01-01")
	require.NoError(t, err)
	assert.Equal(t, first, parsed)

	assert.False(t, NewDate(1, time.January, 2).AddDays(-1).IsZero())
	assert.Equal(t, "", Date{}.String())
}

func TestDate_IsWeekend(t *testing.T) {
	assert.True(t, NewDate(2024, time.March, 30).IsWeekend())
	assert.True(t, NewDate(2024, time.March, 31).IsWeekend())
	assert.False(t, NewDate(2024, time.April, 1).IsWeekend())
}

func TestDate_Compare(t *testing.T) {
	a := NewDate(2024, time.January, 10)
	b := NewDate(2024, time.January, 11)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, a.DaysUntil(b))
	assert.Equal(t, -1, b.DaysUntil(a))
	assert.True(t, a == NewDate(2024, time.January, 10), "dates compare with ==")
}

func TestDate_TextRoundTrip(t *testing.T) {
	var got struct {
		Day Date `json:"day"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-02-29"}`), &got))
	assert.Equal(t, NewDate(2024, time.February, 29), got.Day)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-02-29"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"day":"29/02/2024"}`), &got))
}

func TestDate_AnniversaryIn_ClampsLeapDay(t *testing.T) {
	leap := NewDate(2024, time.February, 29)

	assert.Equal(t, NewDate(2025, time.February, 28), leap.AnniversaryIn(2025))
	assert.Equal(t, NewDate(2028, time.February, 29), leap.AnniversaryIn(2028))
	assert.Equal(t, NewDate(2100, time.February, 28), leap.AnniversaryIn(2100), "2100 is not a leap year")
	assert.Equal(t, NewDate(2025, time.July, 15), NewDate(2010, time.July, 15).AnniversaryIn(2025))
}

func TestDate_NextOccurrence(t *testing.T) {
	hire := NewDate(2019, time.June, 10)

	assert.Equal(t, NewDate(2024, time.June, 10), hire.NextOccurrence(NewDate(2024, time.June, 1)))
	assert.Equal(t, NewDate(2024, time.June, 10), hire.NextOccurrence(NewDate(2024, time.June, 10)), "today counts")
	assert.Equal(t, NewDate(2025, time.June, 10), hire.NextOccurrence(NewDate(2024, time.June, 11)))

	leap := NewDate(2020, time.February, 29)
	assert.Equal(t, NewDate(2027, time.February, 28), leap.NextOccurrence(NewDate(2027, time.January, 5)))
	assert.Equal(t, NewDate(2028, time.February, 29), leap.NextOccurrence(NewDate(2027, time.March, 1)))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(1900, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(2023))
}
