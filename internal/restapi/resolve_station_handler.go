package restapi

import (
	"errors"
	"net/http"

	"railalert.transitlab.org/internal/models"
)

type resolveStationResponse struct {
	StationID string `json:"stationId"`
}

func (api *RestAPI) resolveStationHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	name := params.Get("name")
	lineName := params.Get("line")

	fieldErrors := make(map[string][]string)
	if name == "" {
		fieldErrors["name"] = append(fieldErrors["name"], "name cannot be empty")
	}
	if lineName == "" {
		fieldErrors["line"] = append(fieldErrors["line"], "line cannot be empty")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	stationID, err := api.Cache.ResolveStation(r.Context(), name, lineName)
	switch {
	case err == nil:
		api.sendResponse(w, r, models.NewOKResponse(resolveStationResponse{StationID: stationID}))
	case errors.Is(err, models.ErrStationNotFound):
		api.sendNotFound(w, r)
	case errors.Is(err, models.ErrAmbiguousStation):
		api.errorResponse(w, r, http.StatusUnprocessableEntity, "ambiguous station name", nil)
	default:
		api.serverErrorResponse(w, r, err)
	}
}
