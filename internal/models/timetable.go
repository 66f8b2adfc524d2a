package models

// TimetableEntry is one scheduled departure at a station on a line.
type TimetableEntry struct {
	TrainID     string       `json:"trainId"`
	Departure   string       `json:"departure"` // "HH:MM", may exceed 24:00
	Calendar    CalendarType `json:"calendar"`
	LineID      string       `json:"lineId"`
	StationID   string       `json:"stationId"`
	Destination string       `json:"destination,omitempty"`
}

// NewTimetableEntry creates a new TimetableEntry.
func NewTimetableEntry(trainID, departure string, calendar CalendarType, lineID, stationID, destination string) TimetableEntry {
	return TimetableEntry{
		TrainID:     trainID,
		Departure:   departure,
		Calendar:    calendar,
		LineID:      lineID,
		StationID:   stationID,
		Destination: destination,
	}
}

// SequenceStop is one stop of a train's run. Arrival and departure are "HH:MM"
// strings; either may be empty at termini.
type SequenceStop struct {
	StationID string `json:"stationId"`
	Arrival   string `json:"arrival,omitempty"`
	Departure string `json:"departure,omitempty"`
}

// BestArrival returns the arrival time, falling back to the departure time
// when the feed omits a separate arrival.
func (s SequenceStop) BestArrival() string {
	if s.Arrival != "" {
		return s.Arrival
	}
	return s.Departure
}

// BestDeparture returns the departure time, falling back to the arrival time.
func (s SequenceStop) BestDeparture() string {
	if s.Departure != "" {
		return s.Departure
	}
	return s.Arrival
}

// TrainStopSequence is the ordered list of stops for one train service. It
// disambiguates direction and yields true elapsed times between two stations.
type TrainStopSequence struct {
	TrainID  string         `json:"trainId"`
	LineID   string         `json:"lineId"`
	Calendar CalendarType   `json:"calendar"`
	Stops    []SequenceStop `json:"stops"`
}

// IndexOf returns the position of a station in the run, or -1 when the train
// does not stop there.
func (t TrainStopSequence) IndexOf(stationID string) int {
	for i, stop := range t.Stops {
		if stop.StationID == stationID {
			return i
		}
	}
	return -1
}
