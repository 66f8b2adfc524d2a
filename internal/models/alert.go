package models

import "time"

// Weekdays is a bitmask of the days a repeating alert is armed for, one bit
// per time.Weekday (bit 0 = Sunday).
type Weekdays uint8

// WeekdaysOf builds a bitmask from individual weekdays.
func WeekdaysOf(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << uint(d)
	}
	return w
}

// Contains reports whether the given weekday's bit is set.
func (w Weekdays) Contains(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

// IsEmpty reports whether no day is set.
func (w Weekdays) IsEmpty() bool {
	return w == 0
}

// SnoozeConfig enables station-countdown notifications before arrival.
type SnoozeConfig struct {
	Enabled        bool  `json:"enabled"`
	StationsBefore []int `json:"stationsBefore,omitempty"`
}

// AlertConfig describes how a rider wants to be alerted for a route. Lead-time
// and proximity trigger modes are mutually exclusive: a non-zero
// ProximityRadiusMeters selects proximity mode.
type AlertConfig struct {
	ID                    string       `json:"id"`
	LeadMinutes           int          `json:"leadMinutes"`
	ProximityRadiusMeters float64      `json:"proximityRadiusMeters,omitempty"`
	NotifyTransfers       bool         `json:"notifyTransfers"`
	Snooze                SnoozeConfig `json:"snooze"`
	RepeatDays            Weekdays     `json:"repeatDays"`
	Active                bool         `json:"active"`
}

// ProximityMode reports whether the alert triggers on distance instead of time.
func (c AlertConfig) ProximityMode() bool {
	return c.ProximityRadiusMeters > 0
}

// NotificationKind tags the semantic purpose of a notification point.
type NotificationKind string

const (
	NotifyArrival   NotificationKind = "arrival"
	NotifyTransfer  NotificationKind = "transfer"
	NotifyDeparture NotificationKind = "departure"
	NotifyCountdown NotificationKind = "countdown"
)

// NotificationPoint is one future moment at which an alert must fire.
// Proximity-mode arrival points carry no trigger time; evaluating the
// geofence is the platform layer's job, this core only records the intent.
type NotificationPoint struct {
	StationID string           `json:"stationId"`
	TriggerAt time.Time        `json:"triggerAt,omitzero"`
	Kind      NotificationKind `json:"kind"`
	Proximity bool             `json:"proximity,omitempty"`
	ConfigID  string           `json:"configId"`
}

// NewNotificationPoint creates a new timed NotificationPoint.
func NewNotificationPoint(stationID string, triggerAt time.Time, kind NotificationKind, configID string) NotificationPoint {
	return NotificationPoint{
		StationID: stationID,
		TriggerAt: triggerAt,
		Kind:      kind,
		ConfigID:  configID,
	}
}
