// Package timetable owns access to the external timetable provider: the
// Source interface, the TTL read-through Cache with calendar fallback, and an
// HTTP client implementation of Source.
package timetable

import (
	"context"

	"railalert.transitlab.org/internal/models"
)

// Source is the external timetable provider. Implementations must honor
// context cancellation and return the package's structured errors:
// models.ErrNoData when a key has no entries, models.ErrNetwork (wrapped) on
// transport failures, and models.ErrAmbiguousStation / models.ErrStationNotFound
// from name resolution.
type Source interface {
	// StationTimetable returns every scheduled departure at a station on a
	// line for one calendar variant.
	StationTimetable(ctx context.Context, stationID, lineID string, cal models.CalendarType) ([]models.TimetableEntry, error)

	// TrainStops returns the full ordered stop sequence of one train service.
	TrainStops(ctx context.Context, trainID, lineID string, cal models.CalendarType) (*models.TrainStopSequence, error)

	// ResolveStation maps a display name and line name to a canonical
	// station id.
	ResolveStation(ctx context.Context, name, lineName string) (string, error)
}
