// Package schedule derives notification trigger times from a resolved route
// and an alert configuration, and computes the next occurrence of
// weekly-repeating alerts.
package schedule

import (
	"log/slog"
	"time"

	"railalert.transitlab.org/internal/metrics"
	"railalert.transitlab.org/internal/models"
)

// DepartureReminderLead is the fixed head start for the departure reminder.
const DepartureReminderLead = 2 * time.Minute

// Planner converts a RouteResult plus an AlertConfig into absolute
// notification points. Points whose time has already passed at planning time
// are dropped, never scheduled retroactively.
type Planner struct {
	logger    *slog.Logger
	collector *metrics.Collector
	now       func() time.Time
}

// NewPlanner creates a Planner. The collector may be nil.
func NewPlanner(logger *slog.Logger, collector *metrics.Collector) *Planner {
	return &Planner{
		logger:    logger,
		collector: collector,
		now:       time.Now,
	}
}

// Plan computes every notification point for the route under the given
// config. Inactive configs and empty routes produce nothing.
func (p *Planner) Plan(cfg models.AlertConfig, route models.RouteResult) []models.NotificationPoint {
	if !cfg.Active || len(route.Sections) == 0 {
		return nil
	}
	now := p.now()
	first := route.Sections[0]
	last := route.Sections[len(route.Sections)-1]

	var points []models.NotificationPoint
	add := func(point models.NotificationPoint) {
		if !point.Proximity && !point.TriggerAt.After(now) {
			// PastTrigger: silent drop, logged only.
			p.logger.Debug("dropping past notification point",
				slog.String("station_id", point.StationID),
				slog.String("kind", string(point.Kind)),
				slog.Time("trigger_at", point.TriggerAt))
			if p.collector != nil {
				p.collector.PastTriggersDropped.Inc()
			}
			return
		}
		points = append(points, point)
		if p.collector != nil {
			p.collector.NotificationsPlanned.Inc()
		}
	}

	// Departure reminder.
	add(models.NewNotificationPoint(
		first.DepartureStationID,
		first.DepartureTime.Add(-DepartureReminderLead),
		models.NotifyDeparture,
		cfg.ID,
	))

	// Transfer points: one per intermediate arrival.
	if cfg.NotifyTransfers {
		for _, section := range route.Sections[:len(route.Sections)-1] {
			add(models.NewNotificationPoint(
				section.ArrivalStationID,
				section.ArrivalTime,
				models.NotifyTransfer,
				cfg.ID,
			))
		}
	}

	// Station countdowns on the final leg.
	if cfg.Snooze.Enabled {
		for _, before := range cfg.Snooze.StationsBefore {
			if before <= 0 {
				continue
			}
			idx := len(last.Stops) - 1 - before
			if idx < 0 || idx >= len(last.Stops) {
				continue
			}
			add(models.NewNotificationPoint(
				last.Stops[idx].StationID,
				last.Stops[idx].Arrival,
				models.NotifyCountdown,
				cfg.ID,
			))
		}
	}

	// Arrival point: lead time before arrival, or a proximity intent that
	// the platform's geofencing evaluates.
	if cfg.ProximityMode() {
		add(models.NotificationPoint{
			StationID: last.ArrivalStationID,
			Kind:      models.NotifyArrival,
			Proximity: true,
			ConfigID:  cfg.ID,
		})
	} else {
		add(models.NewNotificationPoint(
			last.ArrivalStationID,
			last.ArrivalTime.Add(-time.Duration(cfg.LeadMinutes)*time.Minute),
			models.NotifyArrival,
			cfg.ID,
		))
	}

	return points
}
