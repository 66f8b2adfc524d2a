package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the route-search core. Lookup and source
// failures wrap these so callers can branch with errors.Is.
var (
	ErrUnknownStation = errors.New("unknown station")
	ErrUnknownLine    = errors.New("unknown line")

	// ErrDirectionMismatch marks a candidate train that does not reach the
	// destination in forward order. Recovered locally by trying the next
	// candidate, never surfaced on its own.
	ErrDirectionMismatch = errors.New("direction mismatch")

	// ErrSuperseded marks a search result discarded because a newer request
	// took over the engine's generation token.
	ErrSuperseded = errors.New("search superseded by newer request")

	// Upstream timetable source failures.
	ErrNoData           = errors.New("no timetable data")
	ErrNetwork          = errors.New("network failure")
	ErrAmbiguousStation = errors.New("ambiguous station name")
	ErrStationNotFound  = errors.New("station name not found")
)

// DataUnavailableError reports that no timetable could be obtained for a key
// across the full calendar fallback chain.
type DataUnavailableError struct {
	StationID string
	LineID    string
	Tried     []CalendarType
}

func (e *DataUnavailableError) Error() string {
	tried := make([]string, len(e.Tried))
	for i, c := range e.Tried {
		tried[i] = string(c)
	}
	return fmt.Sprintf("no timetable data for station %s on line %s (tried calendars: %s)",
		e.StationID, e.LineID, strings.Join(tried, ", "))
}

// UnsupportedRouteError reports that no cross-line path between two stations
// could be resolved. SupportedLines lets the caller tell the rider which
// lines the system does cover.
type UnsupportedRouteError struct {
	OriginID       string
	DestinationID  string
	SupportedLines []string
}

func (e *UnsupportedRouteError) Error() string {
	return fmt.Sprintf("no supported route from %s to %s (supported lines: %s)",
		e.OriginID, e.DestinationID, strings.Join(e.SupportedLines, ", "))
}

// IsDataUnavailable reports whether err is a DataUnavailableError.
func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}

// IsUnsupportedRoute reports whether err is an UnsupportedRouteError.
func IsUnsupportedRoute(err error) bool {
	var target *UnsupportedRouteError
	return errors.As(err, &target)
}
