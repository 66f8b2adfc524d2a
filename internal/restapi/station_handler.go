package restapi

import (
	"net/http"

	"railalert.transitlab.org/internal/models"
	"railalert.transitlab.org/internal/utils"
)

type stationEntry struct {
	models.Station
	TransferMinutes int `json:"transferMinutes"`
}

func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	stationID := utils.ExtractIDFromParams(r, "id")

	if err := utils.ValidateID(stationID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	station, err := api.Graph.Station(stationID)
	if err != nil {
		api.sendNotFound(w, r)
		return
	}

	entry := stationEntry{
		Station:         station,
		TransferMinutes: api.Graph.TransferTime(stationID),
	}
	api.sendResponse(w, r, models.NewOKResponse(entry))
}
