package models

import (
	"fmt"
	"time"
)

// CalendarType identifies the service-pattern variant a timetable belongs to.
type CalendarType string

const (
	CalendarWeekday  CalendarType = "weekday"
	CalendarSaturday CalendarType = "saturday"
	CalendarHoliday  CalendarType = "holiday"
)

// ParseCalendarType converts a string into a CalendarType.
func ParseCalendarType(s string) (CalendarType, error) {
	switch CalendarType(s) {
	case CalendarWeekday, CalendarSaturday, CalendarHoliday:
		return CalendarType(s), nil
	}
	return "", fmt.Errorf("unknown calendar type: %q", s)
}

// CalendarForDate returns the calendar variant that normally applies on the
// given date. National holidays falling on weekdays are the upstream source's
// concern; the cache's fallback chain covers the mismatch.
func CalendarForDate(t time.Time) CalendarType {
	switch t.Weekday() {
	case time.Saturday:
		return CalendarSaturday
	case time.Sunday:
		return CalendarHoliday
	default:
		return CalendarWeekday
	}
}

// CalendarFallback returns the calendar variants to try for a request, the
// requested one first and the remaining variants in priority order
// (weekday, then saturday, then holiday).
func CalendarFallback(requested CalendarType) []CalendarType {
	order := []CalendarType{CalendarWeekday, CalendarSaturday, CalendarHoliday}
	result := []CalendarType{requested}
	for _, c := range order {
		if c != requested {
			result = append(result, c)
		}
	}
	return result
}
