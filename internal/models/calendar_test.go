package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarForDate(t *testing.T) {
	// 2025-06-02 is a Monday.
	monday := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, CalendarWeekday, CalendarForDate(monday))
	assert.Equal(t, CalendarSaturday, CalendarForDate(monday.AddDate(0, 0, 5)))
	assert.Equal(t, CalendarHoliday, CalendarForDate(monday.AddDate(0, 0, 6)))
}

func TestCalendarFallbackOrder(t *testing.T) {
	assert.Equal(t,
		[]CalendarType{CalendarHoliday, CalendarWeekday, CalendarSaturday},
		CalendarFallback(CalendarHoliday))
	assert.Equal(t,
		[]CalendarType{CalendarWeekday, CalendarSaturday, CalendarHoliday},
		CalendarFallback(CalendarWeekday))
}

func TestParseCalendarType(t *testing.T) {
	cal, err := ParseCalendarType("saturday")
	assert.NoError(t, err)
	assert.Equal(t, CalendarSaturday, cal)

	_, err = ParseCalendarType("sunday")
	assert.Error(t, err)
}
