package schedule

import (
	"time"

	"railalert.transitlab.org/internal/models"
)

// NextOccurrence returns the next absolute firing time for a weekly-repeating
// alert: the first day within the coming week whose weekday bit is set and
// whose time-of-day instant lies strictly after now. The second return is
// false when the config repeats on no days.
//
// Callers must recompute after every firing rather than pre-compute future
// weeks, so config edits take effect immediately.
func NextOccurrence(cfg models.AlertConfig, timeOfDay models.ClockTime, now time.Time) (time.Time, bool) {
	if cfg.RepeatDays.IsEmpty() {
		return time.Time{}, false
	}
	for offset := 0; offset <= 7; offset++ {
		day := now.AddDate(0, 0, offset)
		if !cfg.RepeatDays.Contains(day.Weekday()) {
			continue
		}
		candidate := time.Date(day.Year(), day.Month(), day.Day(),
			timeOfDay.Hour, timeOfDay.Minute, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate, true
		}
	}
	return time.Time{}, false
}
