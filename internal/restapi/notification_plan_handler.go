package restapi

import (
	"encoding/json"
	"net/http"

	"railalert.transitlab.org/internal/models"
	"railalert.transitlab.org/internal/utils"
)

type notificationPlanRequest struct {
	Config models.AlertConfig `json:"config"`
	Route  models.RouteResult `json:"route"`
}

type notificationPlanResponse struct {
	Points []models.NotificationPoint `json:"points"`
}

func (api *RestAPI) notificationPlanHandler(w http.ResponseWriter, r *http.Request) {
	var req notificationPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {"invalid JSON body"},
		})
		return
	}

	fieldErrors := make(map[string][]string)
	if req.Config.ID == "" {
		fieldErrors["config.id"] = append(fieldErrors["config.id"], "id cannot be empty")
	}
	if req.Config.LeadMinutes < 0 {
		fieldErrors["config.leadMinutes"] = append(fieldErrors["config.leadMinutes"],
			"leadMinutes must be non-negative")
	}
	if req.Config.ProximityRadiusMeters != 0 {
		if err := utils.ValidateRadius(req.Config.ProximityRadiusMeters); err != nil {
			fieldErrors["config.proximityRadiusMeters"] = append(fieldErrors["config.proximityRadiusMeters"],
				err.Error())
		}
	}
	// Lead-time and proximity are mutually exclusive trigger modes.
	if req.Config.LeadMinutes > 0 && req.Config.ProximityRadiusMeters > 0 {
		fieldErrors["config.leadMinutes"] = append(fieldErrors["config.leadMinutes"],
			"leadMinutes and proximityRadiusMeters cannot both be set")
	}
	if len(req.Route.Sections) == 0 {
		fieldErrors["route.sections"] = append(fieldErrors["route.sections"],
			"route must have at least one section")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	points := api.Planner.Plan(req.Config, req.Route)
	api.sendResponse(w, r, models.NewOKResponse(notificationPlanResponse{Points: points}))
}
