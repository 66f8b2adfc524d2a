package refdata

import (
	"testing"

	"github.com/jamespfennell/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func testStatic() *gtfs.Static {
	stopA := gtfs.Stop{Id: "A", Name: "Alpha", Latitude: floatPtr(35.0), Longitude: floatPtr(139.0)}
	stopB := gtfs.Stop{Id: "B", Name: "Bravo", Latitude: floatPtr(35.1), Longitude: floatPtr(139.1)}
	stopC := gtfs.Stop{Id: "C", Name: "Charlie", Latitude: floatPtr(35.2), Longitude: floatPtr(139.2)}
	routeEast := gtfs.Route{Id: "east", ShortName: "E"}

	static := &gtfs.Static{
		Stops:  []gtfs.Stop{stopA, stopB, stopC},
		Routes: []gtfs.Route{routeEast},
	}
	// A short turn-back trip and the full run; the longer one defines the
	// canonical station order.
	static.Trips = []gtfs.ScheduledTrip{
		{
			ID:    "short",
			Route: &static.Routes[0],
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: &static.Stops[0]},
				{Stop: &static.Stops[1]},
			},
		},
		{
			ID:    "full",
			Route: &static.Routes[0],
			StopTimes: []gtfs.ScheduledStopTime{
				{Stop: &static.Stops[0]},
				{Stop: &static.Stops[1]},
				{Stop: &static.Stops[2]},
			},
		},
	}
	return static
}

func TestNetworkFromStatic(t *testing.T) {
	network := networkFromStatic(testStatic())

	require.Len(t, network.Lines, 1)
	line := network.Lines[0]
	assert.Equal(t, "east", line.ID)
	assert.Equal(t, "E", line.Name)
	assert.Equal(t, []string{"A", "B", "C"}, line.StationIDs)

	require.Len(t, network.Stations, 3)
	for _, station := range network.Stations {
		assert.Contains(t, station.LineIDs, "east")
	}
}

func TestNetworkFromStaticSkipsUnservedStops(t *testing.T) {
	static := testStatic()
	static.Stops = append(static.Stops, gtfs.Stop{Id: "orphan", Name: "Orphan"})

	network := networkFromStatic(static)
	for _, station := range network.Stations {
		assert.NotEqual(t, "orphan", station.ID)
	}
}
