package restapi

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railalert.transitlab.org/internal/models"
)

func planRequestBody(leadMinutes int) string {
	return fmt.Sprintf(`{
		"config": {"id": "alert-1", "leadMinutes": %d, "active": true},
		"route": {
			"sections": [{
				"departureStationId": "A",
				"arrivalStationId": "B",
				"lineId": "east",
				"departureTime": "2030-06-03T08:10:00Z",
				"arrivalTime": "2030-06-03T08:40:00Z",
				"trainId": "t1"
			}],
			"actualTime": true
		}
	}`, leadMinutes)
}

func TestNotificationPlanHandler(t *testing.T) {
	api := newTestAPI(t, newFakeSource())

	rec := serveRequest(t, api, "POST", "/api/where/notification-plan.json?key=test",
		strings.NewReader(planRequestBody(10)))
	require.Equal(t, http.StatusOK, rec.Code)

	var data notificationPlanResponse
	decodeData(t, decodeEnvelope(t, rec), &data)
	require.NotEmpty(t, data.Points)

	var arrival *models.NotificationPoint
	for i := range data.Points {
		if data.Points[i].Kind == models.NotifyArrival {
			arrival = &data.Points[i]
		}
	}
	require.NotNil(t, arrival)
	assert.Equal(t, "B", arrival.StationID)
	assert.Equal(t, time.Date(2030, 6, 3, 8, 30, 0, 0, time.UTC), arrival.TriggerAt.UTC())
	assert.Equal(t, "alert-1", arrival.ConfigID)
}

func TestNotificationPlanHandlerValidation(t *testing.T) {
	api := newTestAPI(t, newFakeSource())

	t.Run("malformed body", func(t *testing.T) {
		rec := serveRequest(t, api, "POST", "/api/where/notification-plan.json?key=test",
			strings.NewReader("{not json"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing config id", func(t *testing.T) {
		body := `{"config": {"leadMinutes": 5, "active": true}, "route": {"sections": []}}`
		rec := serveRequest(t, api, "POST", "/api/where/notification-plan.json?key=test",
			strings.NewReader(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "config.id")
		assert.Contains(t, rec.Body.String(), "route.sections")
	})

	t.Run("oversized proximity radius", func(t *testing.T) {
		body := `{"config": {"id": "alert-1", "proximityRadiusMeters": 99999, "active": true},
			"route": {"sections": [{"departureStationId": "A", "arrivalStationId": "B", "lineId": "east"}]}}`
		rec := serveRequest(t, api, "POST", "/api/where/notification-plan.json?key=test",
			strings.NewReader(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "config.proximityRadiusMeters")
	})

	t.Run("lead and proximity are mutually exclusive", func(t *testing.T) {
		body := `{"config": {"id": "alert-1", "leadMinutes": 5, "proximityRadiusMeters": 300, "active": true},
			"route": {"sections": [{"departureStationId": "A", "arrivalStationId": "B", "lineId": "east"}]}}`
		rec := serveRequest(t, api, "POST", "/api/where/notification-plan.json?key=test",
			strings.NewReader(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "cannot both be set")
	})
}
