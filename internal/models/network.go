package models

// Station is a stop on one or more lines.
type Station struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	LineIDs []string `json:"lineIds"`
}

// NewStation creates a new Station.
func NewStation(id, name string, lat, lon float64, lineIDs []string) Station {
	return Station{
		ID:      id,
		Name:    name,
		Lat:     lat,
		Lon:     lon,
		LineIDs: lineIDs,
	}
}

// ServesLine reports whether the station belongs to the given line.
func (s Station) ServesLine(lineID string) bool {
	for _, id := range s.LineIDs {
		if id == lineID {
			return true
		}
	}
	return false
}

// Line is an ordered sequence of stations in one canonical direction. The
// reverse direction is the same sequence iterated backwards; a train runs
// "forward" iff its destination index exceeds its origin index.
type Line struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	StationIDs []string `json:"stationIds"`
}

// NewLine creates a new Line.
func NewLine(id, name string, stationIDs []string) Line {
	return Line{
		ID:         id,
		Name:       name,
		StationIDs: stationIDs,
	}
}

// IndexOf returns the position of a station in the canonical ordering, or -1.
func (l Line) IndexOf(stationID string) int {
	for i, id := range l.StationIDs {
		if id == stationID {
			return i
		}
	}
	return -1
}

// TransferEdge connects two lines at a shared station with a minimum
// dwell/walk time in minutes.
type TransferEdge struct {
	StationID          string `json:"stationId"`
	FromLineID         string `json:"fromLineId"`
	ToLineID           string `json:"toLineId"`
	MinTransferMinutes int    `json:"minTransferMinutes"`
}

// NewTransferEdge creates a new TransferEdge.
func NewTransferEdge(stationID, fromLineID, toLineID string, minTransferMinutes int) TransferEdge {
	return TransferEdge{
		StationID:          stationID,
		FromLineID:         fromLineID,
		ToLineID:           toLineID,
		MinTransferMinutes: minTransferMinutes,
	}
}

// Network is the static reference data a StationGraph is built from.
type Network struct {
	Stations               []Station      `json:"stations"`
	Lines                  []Line         `json:"lines"`
	Transfers              []TransferEdge `json:"transfers"`
	DefaultTransferMinutes int            `json:"defaultTransferMinutes"`
}
