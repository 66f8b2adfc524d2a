package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"railalert.transitlab.org/internal/app"
	"railalert.transitlab.org/internal/graph"
	"railalert.transitlab.org/internal/logging"
	"railalert.transitlab.org/internal/metrics"
	"railalert.transitlab.org/internal/refdata"
	"railalert.transitlab.org/internal/restapi"
	"railalert.transitlab.org/internal/schedule"
	"railalert.transitlab.org/internal/search"
	"railalert.transitlab.org/internal/timetable"
)

func main() {
	// A .env file is optional; flags and real environment variables win.
	_ = godotenv.Load()

	var cfg app.Config
	var apiKeysFlag string

	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&cfg.Env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", envOr("API_KEYS", "test"), "Comma separated API keys")
	flag.StringVar(&cfg.GTFSSource, "gtfs-source", envOr("GTFS_SOURCE", ""), "URL or path of a static GTFS zip file")
	flag.StringVar(&cfg.NetworkFile, "network-file", envOr("NETWORK_FILE", ""), "Path to the YAML network file (transfers, overrides)")
	flag.StringVar(&cfg.TimetableBaseURL, "timetable-url", envOr("TIMETABLE_URL", ""), "Base URL of the timetable provider")
	flag.StringVar(&cfg.TimetableAPIKey, "timetable-key", envOr("TIMETABLE_KEY", ""), "API key for the timetable provider")
	flag.Parse()

	for _, key := range strings.Split(apiKeysFlag, ",") {
		if key = strings.TrimSpace(key); key != "" {
			cfg.ApiKeys = append(cfg.ApiKeys, key)
		}
	}

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	loadStarted := time.Now()
	network, err := refdata.LoadGTFS(cfg.GTFSSource, logger)
	if err != nil {
		logging.LogError(logger, "failed to load GTFS network", err,
			slog.String("source", cfg.GTFSSource))
		os.Exit(1)
	}
	if cfg.NetworkFile != "" {
		file, err := refdata.LoadNetworkFile(cfg.NetworkFile)
		if err != nil {
			logging.LogError(logger, "failed to load network file", err,
				slog.String("path", cfg.NetworkFile))
			os.Exit(1)
		}
		network = file.Merge(network)
	}

	g, err := graph.New(network)
	if err != nil {
		logging.LogError(logger, "failed to build station graph", err)
		os.Exit(1)
	}
	logging.LogOperation(logger, "station_graph_ready",
		slog.Int("stations", len(network.Stations)),
		slog.Int("lines", len(network.Lines)),
		slog.Int("transfers", len(network.Transfers)),
		slog.Duration("duration", time.Since(loadStarted)))

	collector := metrics.NewCollector()
	source := timetable.NewHTTPSource(cfg.TimetableBaseURL, cfg.TimetableAPIKey)
	cache := timetable.NewCache(source, timetable.Config{}, logger, collector)
	engine := search.NewEngine(g, cache, search.Config{}, logger, collector)
	planner := schedule.NewPlanner(logger, collector)

	application := &app.Application{
		Config:    cfg,
		Logger:    logger,
		Graph:     g,
		Cache:     cache,
		Engine:    engine,
		Planner:   planner,
		Collector: collector,
	}
	api := restapi.NewRestAPI(application)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env)
	err = srv.ListenAndServe()
	logger.Error(err.Error())
	os.Exit(1)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
