package restapi

import (
	"net/http"

	"railalert.transitlab.org/internal/models"
	"railalert.transitlab.org/internal/utils"
)

type proximityResponse struct {
	StationID      string  `json:"stationId"`
	DistanceMeters float64 `json:"distanceMeters"`
	Inside         bool    `json:"inside"`
}

// proximityHandler reports whether a rider position is inside an alert's
// radius around a station. The geofence itself is evaluated by the platform
// layer; this endpoint lets it ask the question against the network's
// canonical station coordinates.
func (api *RestAPI) proximityHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	stationID := params.Get("stationId")
	fieldErrors := make(map[string][]string)
	if err := utils.ValidateID(stationID); err != nil {
		fieldErrors["stationId"] = append(fieldErrors["stationId"], err.Error())
	}

	lat, fieldErrors := utils.ParseFloatParam(params, "lat", fieldErrors)
	lon, fieldErrors := utils.ParseFloatParam(params, "lon", fieldErrors)
	radius, fieldErrors := utils.ParseFloatParam(params, "radius", fieldErrors)

	if err := utils.ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}
	if err := utils.ValidateLongitude(lon); err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	}
	if radius <= 0 {
		fieldErrors["radius"] = append(fieldErrors["radius"], "radius must be positive")
	} else if err := utils.ValidateRadius(radius); err != nil {
		fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	station, err := api.Graph.Station(stationID)
	if err != nil {
		api.sendNotFound(w, r)
		return
	}

	response := proximityResponse{
		StationID:      station.ID,
		DistanceMeters: utils.HaversineDistance(station.Lat, station.Lon, lat, lon),
		Inside:         utils.WithinRadius(station.Lat, station.Lon, lat, lon, radius),
	}
	api.sendResponse(w, r, models.NewOKResponse(response))
}
