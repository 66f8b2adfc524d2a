package models

import "time"

// SectionStop is one intermediate stop of a route section with its timing.
type SectionStop struct {
	StationID string    `json:"stationId"`
	Arrival   time.Time `json:"arrival"`
}

// RouteSection is one uninterrupted ride on a single line between two
// stations. DepartureTime is never after ArrivalTime.
type RouteSection struct {
	DepartureStationID string        `json:"departureStationId"`
	ArrivalStationID   string        `json:"arrivalStationId"`
	LineID             string        `json:"lineId"`
	DepartureTime      time.Time     `json:"departureTime"`
	ArrivalTime        time.Time     `json:"arrivalTime"`
	TrainID            string        `json:"trainId,omitempty"`
	Stops              []SectionStop `json:"stops,omitempty"`
}

// NewRouteSection creates a new RouteSection.
func NewRouteSection(departureStationID, arrivalStationID, lineID string, departureTime, arrivalTime time.Time, trainID string, stops []SectionStop) RouteSection {
	return RouteSection{
		DepartureStationID: departureStationID,
		ArrivalStationID:   arrivalStationID,
		LineID:             lineID,
		DepartureTime:      departureTime,
		ArrivalTime:        arrivalTime,
		TrainID:            trainID,
		Stops:              stops,
	}
}

// Duration returns the riding time of the section.
func (s RouteSection) Duration() time.Duration {
	return s.ArrivalTime.Sub(s.DepartureTime)
}

// RouteResult is an ordered chain of sections from origin to destination.
// Adjacent sections share a station, and each section departs no earlier than
// the previous arrival plus the transfer buffer at the shared station.
type RouteResult struct {
	Sections   []RouteSection `json:"sections"`
	ActualTime bool           `json:"actualTime"`
}

// NewRouteResult creates a new RouteResult.
func NewRouteResult(sections []RouteSection, actualTime bool) RouteResult {
	return RouteResult{
		Sections:   sections,
		ActualTime: actualTime,
	}
}

// TransferCount is the number of line changes on the route.
func (r RouteResult) TransferCount() int {
	if len(r.Sections) == 0 {
		return 0
	}
	return len(r.Sections) - 1
}

// DepartureTime is the departure time of the first section.
func (r RouteResult) DepartureTime() time.Time {
	if len(r.Sections) == 0 {
		return time.Time{}
	}
	return r.Sections[0].DepartureTime
}

// ArrivalTime is the arrival time of the final section.
func (r RouteResult) ArrivalTime() time.Time {
	if len(r.Sections) == 0 {
		return time.Time{}
	}
	return r.Sections[len(r.Sections)-1].ArrivalTime
}
