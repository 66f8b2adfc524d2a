// Package restapi exposes the route search, notification planning and repeat
// scheduling operations over HTTP.
package restapi

import (
	"railalert.transitlab.org/internal/app"
)

type RestAPI struct {
	*app.Application
}

// NewRestAPI creates a new RestAPI instance.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{Application: app}
}
