package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"railalert.transitlab.org/internal/app"
	"railalert.transitlab.org/internal/graph"
	"railalert.transitlab.org/internal/metrics"
	"railalert.transitlab.org/internal/models"
	"railalert.transitlab.org/internal/schedule"
	"railalert.transitlab.org/internal/search"
	"railalert.transitlab.org/internal/timetable"
)

type fakeSource struct {
	timetables  map[string][]models.TimetableEntry
	sequences   map[string]*models.TrainStopSequence
	resolutions map[string]string
	ambiguous   map[string]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		timetables:  make(map[string][]models.TimetableEntry),
		sequences:   make(map[string]*models.TrainStopSequence),
		resolutions: make(map[string]string),
		ambiguous:   make(map[string]bool),
	}
}

func tkey(a, b string, cal models.CalendarType) string {
	return fmt.Sprintf("%s|%s|%s", a, b, cal)
}

func (s *fakeSource) addDeparture(stationID, lineID string, cal models.CalendarType, trainID, departure string) {
	key := tkey(stationID, lineID, cal)
	s.timetables[key] = append(s.timetables[key],
		models.NewTimetableEntry(trainID, departure, cal, lineID, stationID, ""))
}

func (s *fakeSource) addSequence(trainID, lineID string, cal models.CalendarType, stops ...models.SequenceStop) {
	s.sequences[tkey(trainID, lineID, cal)] = &models.TrainStopSequence{
		TrainID:  trainID,
		LineID:   lineID,
		Calendar: cal,
		Stops:    stops,
	}
}

func (s *fakeSource) StationTimetable(ctx context.Context, stationID, lineID string, cal models.CalendarType) ([]models.TimetableEntry, error) {
	entries, ok := s.timetables[tkey(stationID, lineID, cal)]
	if !ok {
		return nil, models.ErrNoData
	}
	return entries, nil
}

func (s *fakeSource) TrainStops(ctx context.Context, trainID, lineID string, cal models.CalendarType) (*models.TrainStopSequence, error) {
	seq, ok := s.sequences[tkey(trainID, lineID, cal)]
	if !ok {
		return nil, models.ErrNoData
	}
	return seq, nil
}

func (s *fakeSource) ResolveStation(ctx context.Context, name, lineName string) (string, error) {
	if s.ambiguous[name] {
		return "", models.ErrAmbiguousStation
	}
	if id, ok := s.resolutions[tkey(name, lineName, "")]; ok {
		return id, nil
	}
	return "", models.ErrStationNotFound
}

// testNetwork covers the direct case (east line A-B-C), the transfer case
// (north line B-D) and an unreachable island (west line X-Y).
func testNetwork() models.Network {
	return models.Network{
		Stations: []models.Station{
			models.NewStation("A", "Alpha", 35.0, 139.0, []string{"east"}),
			models.NewStation("B", "Bravo", 35.1, 139.1, []string{"east", "north"}),
			models.NewStation("C", "Charlie", 35.2, 139.2, []string{"east"}),
			models.NewStation("D", "Delta", 35.3, 139.3, []string{"north"}),
			models.NewStation("X", "Xray", 36.0, 140.0, []string{"west"}),
			models.NewStation("Y", "Yonder", 36.1, 140.1, []string{"west"}),
		},
		Lines: []models.Line{
			models.NewLine("east", "East Line", []string{"A", "B", "C"}),
			models.NewLine("north", "North Line", []string{"B", "D"}),
			models.NewLine("west", "West Line", []string{"X", "Y"}),
		},
		Transfers: []models.TransferEdge{
			models.NewTransferEdge("B", "east", "north", 5),
		},
		DefaultTransferMinutes: 3,
	}
}

func newTestAPI(t *testing.T, source timetable.Source) *RestAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.NewCollector()

	g, err := graph.New(testNetwork())
	require.NoError(t, err)

	cache := timetable.NewCache(source, timetable.Config{}, logger, collector)
	engine := search.NewEngine(g, cache, search.Config{}, logger, collector)
	planner := schedule.NewPlanner(logger, collector)

	application := &app.Application{
		Config:    app.Config{Env: "test", ApiKeys: []string{"test"}},
		Logger:    logger,
		Graph:     g,
		Cache:     cache,
		Engine:    engine,
		Planner:   planner,
		Collector: collector,
	}
	return NewRestAPI(application)
}

func serveRequest(t *testing.T, api *RestAPI, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	api.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.ResponseModel {
	t.Helper()
	var envelope models.ResponseModel
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func decodeData(t *testing.T, envelope models.ResponseModel, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
