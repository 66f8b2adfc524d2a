// Package app wires the service's dependencies together for the HTTP layer.
package app

import (
	"log/slog"

	"railalert.transitlab.org/internal/graph"
	"railalert.transitlab.org/internal/metrics"
	"railalert.transitlab.org/internal/schedule"
	"railalert.transitlab.org/internal/search"
	"railalert.transitlab.org/internal/timetable"
)

// Application holds the dependencies for our HTTP handlers, helpers, and
// middleware.
type Application struct {
	Config    Config
	Logger    *slog.Logger
	Graph     *graph.Graph
	Cache     *timetable.Cache
	Engine    *search.Engine
	Planner   *schedule.Planner
	Collector *metrics.Collector
}

// Config holds all the configuration settings for our Application. These are
// read from command-line flags and the environment when the server starts.
type Config struct {
	Port    int
	Env     string
	ApiKeys []string

	GTFSSource  string
	NetworkFile string

	TimetableBaseURL string
	TimetableAPIKey  string
}
