package restapi

import (
	"net/http"
	"strings"
	"time"

	"railalert.transitlab.org/internal/models"
	"railalert.transitlab.org/internal/schedule"
	"railalert.transitlab.org/internal/utils"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

type nextOccurrenceResponse struct {
	Scheduled bool      `json:"scheduled"`
	Next      time.Time `json:"next,omitzero"`
}

func (api *RestAPI) nextOccurrenceHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	fieldErrors := make(map[string][]string)

	var repeatDays models.Weekdays
	for _, name := range strings.Split(params.Get("days"), ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		day, ok := weekdayNames[name]
		if !ok {
			fieldErrors["days"] = append(fieldErrors["days"], "unknown weekday "+name)
			continue
		}
		repeatDays |= models.WeekdaysOf(day)
	}

	rawTime := params.Get("time")
	if err := utils.ValidateClock(rawTime); err != nil {
		fieldErrors["time"] = append(fieldErrors["time"], err.Error())
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	timeOfDay, err := models.ParseClock(rawTime)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"time": {err.Error()}})
		return
	}

	cfg := models.AlertConfig{RepeatDays: repeatDays}
	next, ok := schedule.NextOccurrence(cfg, timeOfDay, time.Now())

	api.sendResponse(w, r, models.NewOKResponse(nextOccurrenceResponse{
		Scheduled: ok,
		Next:      next,
	}))
}
