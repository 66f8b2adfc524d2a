package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// Routes builds the router for the API surface, wrapped in the request
// logging middleware. The metrics endpoint is not behind the API key check.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()

	router.Handler(http.MethodGet, "/api/where/route.json", validateAPIKey(api, api.routeHandler))
	router.Handler(http.MethodGet, "/api/where/station/:id", validateAPIKey(api, api.stationHandler))
	router.Handler(http.MethodGet, "/api/where/proximity.json", validateAPIKey(api, api.proximityHandler))
	router.Handler(http.MethodPost, "/api/where/notification-plan.json", validateAPIKey(api, api.notificationPlanHandler))
	router.Handler(http.MethodGet, "/api/where/next-occurrence.json", validateAPIKey(api, api.nextOccurrenceHandler))
	router.Handler(http.MethodGet, "/api/where/resolve-station.json", validateAPIKey(api, api.resolveStationHandler))

	router.Handler(http.MethodGet, "/metrics", api.Collector.Handler())

	return NewRequestLoggingMiddleware(api.Logger)(router)
}
