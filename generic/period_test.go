package generic

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func jan(day int) Date { return NewDate(2024, time.January, day) }

func TestNewPeriod_RejectsInverted(t *testing.T) {
	_, err := NewPeriod(jan(10), jan(9))
	assert.ErrorIs(t, err, ErrInvalidRange)

	var rangeErr *InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, jan(10), rangeErr.Start)

	p, err := NewPeriod(jan(9), jan(9))
	assert.NoError(t, err)
	assert.Equal(t, 1, p.Len())
}

func TestPeriod_Overlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Period
		want bool
	}{
		{"shared boundary day", Period{jan(1), jan(10)}, Period{jan(10), jan(20)}, true},
		{"adjacent days", Period{jan(1), jan(9)}, Period{jan(10), jan(20)}, false},
		{"contained", Period{jan(1), jan(31)}, Period{jan(5), jan(6)}, true},
		{"identical single day", Period{jan(3), jan(3)}, Period{jan(3), jan(3)}, true},
		{"disjoint", Period{jan(1), jan(2)}, Period{jan(20), jan(25)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestPeriod_Intersect(t *testing.T) {
	got, ok := Period{jan(1), jan(10)}.Intersect(Period{jan(5), jan(20)})
	assert.True(t, ok)
	assert.Equal(t, Period{jan(5), jan(10)}, got)

	_, ok = Period{jan(1), jan(2)}.Intersect(Period{jan(3), jan(4)})
	assert.False(t, ok)
}

func TestPeriod_DaysAndYears(t *testing.T) {
	p := Period{NewDate(2023, time.December, 30), NewDate(2024, time.January, 2)}
	assert.Len(t, p.Days(), 4)
	assert.Equal(t, []int{2023, 2024}, p.Years())
	assert.Equal(t, "[2023-12-30, 2024-01-02]", p.String())

	inverted := Period{jan(5), jan(1)}
	assert.Empty(t, inverted.Days())
	assert.Nil(t, inverted.Years())
	assert.Zero(t, inverted.Len())
}
