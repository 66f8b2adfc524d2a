// Package refdata builds the static reference network (stations, lines,
// transfer edges) that the station graph is constructed from. Lines and
// stations come from a GTFS static feed; transfer buffers and overrides come
// from a YAML network file.
package refdata

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/jamespfennell/gtfs"

	"railalert.transitlab.org/internal/logging"
	"railalert.transitlab.org/internal/models"
)

// LoadGTFS reads a GTFS static feed from a URL or local zip file and derives
// the reference network: one line per route, ordered by the route's longest
// scheduled trip, and one station per stop referenced by those lines.
func LoadGTFS(source string, logger *slog.Logger) (models.Network, error) {
	isLocalFile := !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")

	b, err := rawFeedData(source, isLocalFile, logger)
	if err != nil {
		return models.Network{}, err
	}

	static, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return models.Network{}, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	return networkFromStatic(static), nil
}

func rawFeedData(source string, isLocalFile bool, logger *slog.Logger) ([]byte, error) {
	if isLocalFile {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	resp, err := http.Get(source)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeClose(resp.Body, logger, "gtfs_download")

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

func networkFromStatic(static *gtfs.Static) models.Network {
	// The longest scheduled trip of a route is the canonical station order
	// for its line; shorter turn-back services are subsets of it.
	representative := make(map[string]*gtfs.ScheduledTrip)
	for i := range static.Trips {
		trip := &static.Trips[i]
		if trip.Route == nil {
			continue
		}
		routeID := trip.Route.Id
		current, ok := representative[routeID]
		if !ok || len(trip.StopTimes) > len(current.StopTimes) {
			representative[routeID] = trip
		}
	}

	stationLines := make(map[string][]string)
	var lines []models.Line
	for i := range static.Routes {
		route := &static.Routes[i]
		trip, ok := representative[route.Id]
		if !ok || len(trip.StopTimes) == 0 {
			continue
		}
		stationIDs := make([]string, 0, len(trip.StopTimes))
		for _, stopTime := range trip.StopTimes {
			if stopTime.Stop == nil {
				continue
			}
			stationIDs = append(stationIDs, stopTime.Stop.Id)
			stationLines[stopTime.Stop.Id] = append(stationLines[stopTime.Stop.Id], route.Id)
		}
		lines = append(lines, models.NewLine(route.Id, lineName(route), stationIDs))
	}

	var stations []models.Station
	for i := range static.Stops {
		stop := &static.Stops[i]
		lineIDs, ok := stationLines[stop.Id]
		if !ok {
			continue
		}
		var lat, lon float64
		if stop.Latitude != nil {
			lat = *stop.Latitude
		}
		if stop.Longitude != nil {
			lon = *stop.Longitude
		}
		stations = append(stations, models.NewStation(stop.Id, stop.Name, lat, lon, dedupe(lineIDs)))
	}

	return models.Network{Stations: stations, Lines: lines}
}

func lineName(route *gtfs.Route) string {
	if route.ShortName != "" {
		return route.ShortName
	}
	if route.LongName != "" {
		return route.LongName
	}
	return route.Id
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
