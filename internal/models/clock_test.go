package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("08:10")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Hour)
	assert.Equal(t, 10, c.Minute)
	assert.Equal(t, 490, c.Minutes())
}

func TestParseClockAfterMidnight(t *testing.T) {
	// Services past midnight keep the previous service date's clock.
	c, err := ParseClock("25:12")
	require.NoError(t, err)
	assert.Equal(t, 25, c.Hour)
	assert.Equal(t, 25*60+12, c.Minutes())
}

func TestParseClockInvalid(t *testing.T) {
	for _, s := range []string{"", "0810", "8:99", "-1:00", "aa:bb"} {
		_, err := ParseClock(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestClockOnDate(t *testing.T) {
	date := time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC)

	c := ClockTime{Hour: 8, Minute: 10}
	assert.Equal(t, time.Date(2025, 6, 2, 8, 10, 0, 0, time.UTC), c.OnDate(date))

	// 25:12 lands on the next calendar day.
	late := ClockTime{Hour: 25, Minute: 12}
	assert.Equal(t, time.Date(2025, 6, 3, 1, 12, 0, 0, time.UTC), late.OnDate(date))
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "07:55", ClockTime{Hour: 7, Minute: 55}.String())
}
