package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a timetable time of day. Hours may exceed 23 for services that
// run past midnight on the previous service date (e.g. "25:12").
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseClock parses an "HH:MM" timetable string.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid clock time: %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 {
		return ClockTime{}, fmt.Errorf("invalid clock hour: %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("invalid clock minute: %q", s)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// Minutes returns the time of day as minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// OnDate anchors the clock time to the midnight of the given service date.
func (c ClockTime) OnDate(date time.Time) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(time.Duration(c.Minutes()) * time.Minute)
}

// ClockOf extracts the time of day from an absolute time.
func ClockOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
