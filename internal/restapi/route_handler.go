package restapi

import (
	"errors"
	"net/http"
	"time"

	"railalert.transitlab.org/internal/models"
	"railalert.transitlab.org/internal/utils"
)

type routeListResponse struct {
	Routes []models.RouteResult `json:"routes"`
}

func (api *RestAPI) routeHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	from := params.Get("from")
	to := params.Get("to")

	fieldErrors := make(map[string][]string)
	if err := utils.ValidateID(from); err != nil {
		fieldErrors["from"] = append(fieldErrors["from"], err.Error())
	}
	if err := utils.ValidateID(to); err != nil {
		fieldErrors["to"] = append(fieldErrors["to"], err.Error())
	}

	departAfter := time.Now()
	switch {
	case params.Get("departAfter") != "":
		parsed, err := time.Parse(time.RFC3339, params.Get("departAfter"))
		if err != nil {
			fieldErrors["departAfter"] = append(fieldErrors["departAfter"],
				"invalid time format, use RFC 3339")
		} else {
			departAfter = parsed
		}
	case params.Get("date") != "" || params.Get("time") != "":
		// Split date and clock parameters as an alternative to departAfter.
		// The date may be omitted and defaults to today.
		rawDate, rawClock := params.Get("date"), params.Get("time")
		if err := utils.ValidateDate(rawDate); err != nil {
			fieldErrors["date"] = append(fieldErrors["date"], err.Error())
		}
		if err := utils.ValidateClock(rawClock); err != nil {
			fieldErrors["time"] = append(fieldErrors["time"], err.Error())
		}
		if len(fieldErrors) == 0 {
			day := departAfter
			if rawDate != "" {
				day, _ = time.Parse("2006-01-02", rawDate)
			}
			clock, err := models.ParseClock(rawClock)
			if err != nil {
				fieldErrors["time"] = append(fieldErrors["time"], err.Error())
			} else {
				departAfter = clock.OnDate(day)
			}
		}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	results, err := api.Engine.Search(r.Context(), from, to, departAfter)
	switch {
	case err == nil:
		api.sendResponse(w, r, models.NewOKResponse(routeListResponse{Routes: results}))
	case errors.Is(err, models.ErrUnknownStation), errors.Is(err, models.ErrStationNotFound):
		api.sendNotFound(w, r)
	case models.IsUnsupportedRoute(err):
		var unsupported *models.UnsupportedRouteError
		errors.As(err, &unsupported)
		api.errorResponse(w, r, http.StatusUnprocessableEntity, "route not supported",
			struct {
				SupportedLineIDs []string `json:"supportedLineIds"`
			}{SupportedLineIDs: unsupported.SupportedLines})
	case models.IsDataUnavailable(err):
		var unavailable *models.DataUnavailableError
		errors.As(err, &unavailable)
		api.errorResponse(w, r, http.StatusServiceUnavailable, "timetable data unavailable",
			struct {
				StationID string   `json:"stationId"`
				LineID    string   `json:"lineId"`
				Tried     []string `json:"tried"`
			}{
				StationID: unavailable.StationID,
				LineID:    unavailable.LineID,
				Tried:     calendarNames(unavailable.Tried),
			})
	case errors.Is(err, models.ErrSuperseded):
		api.errorResponse(w, r, http.StatusConflict, "superseded by a newer search", nil)
	default:
		api.serverErrorResponse(w, r, err)
	}
}

func calendarNames(cals []models.CalendarType) []string {
	names := make([]string, len(cals))
	for i, cal := range cals {
		names[i] = string(cal)
	}
	return names
}
