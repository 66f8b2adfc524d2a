package timetable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"railalert.transitlab.org/internal/models"
)

// HTTPSource talks to a timetable provider over its JSON API.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPSource creates an HTTPSource for the given base URL.
func NewHTTPSource(baseURL, apiKey string) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type stationTimetableResponse struct {
	Entries []models.TimetableEntry `json:"entries"`
}

type resolveStationResponse struct {
	StationID string   `json:"stationId"`
	Matches   []string `json:"matches,omitempty"`
}

// StationTimetable implements Source.
func (s *HTTPSource) StationTimetable(ctx context.Context, stationID, lineID string, cal models.CalendarType) ([]models.TimetableEntry, error) {
	query := url.Values{}
	query.Set("station", stationID)
	query.Set("line", lineID)
	query.Set("calendar", string(cal))

	var response stationTimetableResponse
	if err := s.getJSON(ctx, "/v1/station-timetable", query, &response); err != nil {
		return nil, err
	}
	return response.Entries, nil
}

// TrainStops implements Source.
func (s *HTTPSource) TrainStops(ctx context.Context, trainID, lineID string, cal models.CalendarType) (*models.TrainStopSequence, error) {
	query := url.Values{}
	query.Set("train", trainID)
	query.Set("line", lineID)
	query.Set("calendar", string(cal))

	var seq models.TrainStopSequence
	if err := s.getJSON(ctx, "/v1/train-stops", query, &seq); err != nil {
		return nil, err
	}
	return &seq, nil
}

// ResolveStation implements Source.
func (s *HTTPSource) ResolveStation(ctx context.Context, name, lineName string) (string, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("line", lineName)

	var response resolveStationResponse
	if err := s.getJSON(ctx, "/v1/resolve-station", query, &response); err != nil {
		return "", err
	}
	if len(response.Matches) > 1 {
		return "", fmt.Errorf("station %q on %q: %w", name, lineName, models.ErrAmbiguousStation)
	}
	if response.StationID == "" {
		return "", fmt.Errorf("station %q on %q: %w", name, lineName, models.ErrStationNotFound)
	}
	return response.StationID, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", path, models.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decoding response: %w", path, err)
		}
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, models.ErrNoData)
	default:
		return fmt.Errorf("%s: %w: unexpected status %d", path, models.ErrNetwork, resp.StatusCode)
	}
}
