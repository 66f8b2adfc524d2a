package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railalert.transitlab.org/internal/models"
)

func routeSource() *fakeSource {
	source := newFakeSource()
	source.addDeparture("A", "east", models.CalendarWeekday, "t1", "08:10")
	source.addDeparture("B", "east", models.CalendarWeekday, "t1", "08:25")
	source.addSequence("t1", "east", models.CalendarWeekday,
		models.SequenceStop{StationID: "A", Departure: "08:10"},
		models.SequenceStop{StationID: "B", Arrival: "08:25", Departure: "08:26"},
		models.SequenceStop{StationID: "C", Arrival: "08:40"},
	)
	return source
}

func TestRouteHandler(t *testing.T) {
	api := newTestAPI(t, routeSource())

	rec := serveRequest(t, api, "GET",
		"/api/where/route.json?key=test&from=A&to=B&departAfter=2025-06-02T08:00:00Z", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, 200, envelope.Code)

	var data routeListResponse
	decodeData(t, envelope, &data)
	require.Len(t, data.Routes, 1)
	route := data.Routes[0]
	assert.True(t, route.ActualTime)
	require.Len(t, route.Sections, 1)
	assert.Equal(t, "A", route.Sections[0].DepartureStationID)
	assert.Equal(t, "B", route.Sections[0].ArrivalStationID)
	assert.Equal(t, "t1", route.Sections[0].TrainID)
}

func TestRouteHandlerDateTimeParams(t *testing.T) {
	api := newTestAPI(t, routeSource())

	rec := serveRequest(t, api, "GET",
		"/api/where/route.json?key=test&from=A&to=B&date=2025-06-02&time=08:00", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data routeListResponse
	decodeData(t, decodeEnvelope(t, rec), &data)
	require.Len(t, data.Routes, 1)
	assert.Equal(t, "t1", data.Routes[0].Sections[0].TrainID)
}

func TestRouteHandlerRequiresAPIKey(t *testing.T) {
	api := newTestAPI(t, routeSource())

	rec := serveRequest(t, api, "GET", "/api/where/route.json?from=A&to=B", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouteHandlerValidation(t *testing.T) {
	api := newTestAPI(t, routeSource())

	t.Run("missing stations", func(t *testing.T) {
		rec := serveRequest(t, api, "GET", "/api/where/route.json?key=test", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "fieldErrors")
		assert.Contains(t, rec.Body.String(), "from")
	})

	t.Run("bad departAfter", func(t *testing.T) {
		rec := serveRequest(t, api, "GET",
			"/api/where/route.json?key=test&from=A&to=B&departAfter=tomorrow", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "departAfter")
	})

	t.Run("bad split date and time", func(t *testing.T) {
		rec := serveRequest(t, api, "GET",
			"/api/where/route.json?key=test&from=A&to=B&date=06/02/2025&time=0800", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "date")
		assert.Contains(t, rec.Body.String(), "time")
	})
}

func TestRouteHandlerUnknownStation(t *testing.T) {
	api := newTestAPI(t, routeSource())

	rec := serveRequest(t, api, "GET",
		"/api/where/route.json?key=test&from=A&to=ZZ&departAfter=2025-06-02T08:00:00Z", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteHandlerUnsupportedRoute(t *testing.T) {
	api := newTestAPI(t, routeSource())

	// X is on an island line with no transfer from A's network.
	rec := serveRequest(t, api, "GET",
		"/api/where/route.json?key=test&from=A&to=X&departAfter=2025-06-02T08:00:00Z", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "route not supported", envelope.Text)

	var data struct {
		SupportedLineIDs []string `json:"supportedLineIds"`
	}
	decodeData(t, envelope, &data)
	assert.Contains(t, data.SupportedLineIDs, "east")
}

func TestRouteHandlerDataUnavailable(t *testing.T) {
	// A source with no data at all exhausts the calendar fallback chain.
	api := newTestAPI(t, newFakeSource())

	rec := serveRequest(t, api, "GET",
		"/api/where/route.json?key=test&from=A&to=B&departAfter=2025-06-02T08:00:00Z", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "timetable data unavailable", envelope.Text)

	var data struct {
		Tried []string `json:"tried"`
	}
	decodeData(t, envelope, &data)
	assert.Equal(t, []string{"weekday", "saturday", "holiday"}, data.Tried)
}
