package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRouteResultAccessors(t *testing.T) {
	dep := time.Date(2025, 6, 2, 8, 10, 0, 0, time.UTC)
	arr := dep.Add(30 * time.Minute)
	leg1 := NewRouteSection("A", "B", "line-1", dep, arr, "train-1", nil)
	leg2 := NewRouteSection("B", "C", "line-2", arr.Add(5*time.Minute), arr.Add(20*time.Minute), "train-2", nil)

	route := NewRouteResult([]RouteSection{leg1, leg2}, true)

	assert.Equal(t, 1, route.TransferCount())
	assert.Equal(t, dep, route.DepartureTime())
	assert.Equal(t, arr.Add(20*time.Minute), route.ArrivalTime())
	assert.True(t, route.ActualTime)
}

func TestRouteResultEmpty(t *testing.T) {
	route := NewRouteResult(nil, false)
	assert.Equal(t, 0, route.TransferCount())
	assert.True(t, route.DepartureTime().IsZero())
	assert.True(t, route.ArrivalTime().IsZero())
}

func TestSectionDuration(t *testing.T) {
	dep := time.Date(2025, 6, 2, 8, 10, 0, 0, time.UTC)
	section := NewRouteSection("A", "B", "line-1", dep, dep.Add(30*time.Minute), "t", nil)
	assert.Equal(t, 30*time.Minute, section.Duration())
}

func TestSequenceStopFallbacks(t *testing.T) {
	stop := SequenceStop{StationID: "A", Departure: "08:10"}
	assert.Equal(t, "08:10", stop.BestArrival())
	assert.Equal(t, "08:10", stop.BestDeparture())

	both := SequenceStop{StationID: "B", Arrival: "08:25", Departure: "08:26"}
	assert.Equal(t, "08:25", both.BestArrival())
	assert.Equal(t, "08:26", both.BestDeparture())
}

func TestTrainStopSequenceIndexOf(t *testing.T) {
	seq := TrainStopSequence{
		TrainID: "t1",
		Stops: []SequenceStop{
			{StationID: "A"}, {StationID: "B"}, {StationID: "C"},
		},
	}
	assert.Equal(t, 1, seq.IndexOf("B"))
	assert.Equal(t, -1, seq.IndexOf("Z"))
}
