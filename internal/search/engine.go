// Package search implements route lookup between two stations: direct mode
// when the stations share a line, graph mode (bounded multi-leg transfer
// search) otherwise.
package search

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"railalert.transitlab.org/internal/graph"
	"railalert.transitlab.org/internal/metrics"
	"railalert.transitlab.org/internal/models"
	"railalert.transitlab.org/internal/timetable"
)

const (
	// DefaultMaxResults caps the ranked result list of one search.
	DefaultMaxResults = 10

	// DefaultMaxTransfers bounds graph-mode paths.
	DefaultMaxTransfers = 3

	// DefaultMaxPaths bounds how many candidate paths graph mode resolves
	// against the timetable.
	DefaultMaxPaths = 4
)

// requestState names the phases a search request moves through. Tracked for
// log correlation only.
type requestState string

const (
	stateResolving   requestState = "resolving"
	stateFetching    requestState = "fetching"
	stateReconciling requestState = "reconciling"
	stateDone        requestState = "done"
	stateFailed      requestState = "failed"
)

// Config holds the engine tunables.
type Config struct {
	MaxResults   int
	MaxTransfers int
	MaxPaths     int
}

// Engine resolves route searches against the station graph and the timetable
// cache. A newer Search supersedes older in-flight ones: each call takes a
// fresh generation token, and a completion whose token is no longer current
// is discarded instead of being returned.
type Engine struct {
	graph     *graph.Graph
	cache     *timetable.Cache
	logger    *slog.Logger
	collector *metrics.Collector

	maxResults   int
	maxTransfers int
	maxPaths     int

	generation atomic.Uint64
}

// NewEngine creates an Engine. The collector may be nil.
func NewEngine(g *graph.Graph, cache *timetable.Cache, cfg Config, logger *slog.Logger, collector *metrics.Collector) *Engine {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.MaxTransfers <= 0 {
		cfg.MaxTransfers = DefaultMaxTransfers
	}
	if cfg.MaxPaths <= 0 {
		cfg.MaxPaths = DefaultMaxPaths
	}
	return &Engine{
		graph:        g,
		cache:        cache,
		logger:       logger,
		collector:    collector,
		maxResults:   cfg.MaxResults,
		maxTransfers: cfg.MaxTransfers,
		maxPaths:     cfg.MaxPaths,
	}
}

// SupportedLines returns the line ids the engine can route over. Error
// payloads carry these so the caller can tell the rider what is covered.
func (e *Engine) SupportedLines() []string {
	return e.graph.LineIDs()
}

// Search finds up to MaxResults routes from origin to destination departing
// at or after departAfter, ranked by soonest arrival. Actual-time results
// always rank ahead of estimated ones.
func (e *Engine) Search(ctx context.Context, originID, destinationID string, departAfter time.Time) ([]models.RouteResult, error) {
	generation := e.generation.Add(1)
	started := time.Now()
	e.countStarted()
	e.logState(generation, stateResolving, originID, destinationID)

	if _, err := e.graph.Station(originID); err != nil {
		e.countOutcome("unknown_station")
		return nil, err
	}
	if _, err := e.graph.Station(destinationID); err != nil {
		e.countOutcome("unknown_station")
		return nil, err
	}

	cal := models.CalendarForDate(departAfter)
	e.logState(generation, stateFetching, originID, destinationID)

	var results []models.RouteResult
	var err error
	if shared := e.graph.SameLines(originID, destinationID); len(shared) > 0 {
		results, err = e.searchDirect(ctx, shared, originID, destinationID, departAfter, cal)
	} else {
		results, err = e.searchGraph(ctx, originID, destinationID, departAfter, cal)
	}
	if err != nil {
		e.logState(generation, stateFailed, originID, destinationID)
		switch {
		case models.IsDataUnavailable(err):
			e.countOutcome("no_data")
		case models.IsUnsupportedRoute(err):
			e.countOutcome("unsupported")
		default:
			e.countOutcome("error")
		}
		return nil, err
	}

	e.logState(generation, stateReconciling, originID, destinationID)
	if generation != e.generation.Load() {
		e.countSuperseded()
		e.logger.Info("discarding stale search result",
			slog.Uint64("generation", generation),
			slog.String("origin", originID),
			slog.String("destination", destinationID))
		return nil, models.ErrSuperseded
	}

	e.logState(generation, stateDone, originID, destinationID)
	e.observeSearch(started)
	e.countOutcome("ok")
	return results, nil
}

// searchDirect resolves the origin/destination pair on every shared line
// concurrently and merges the ranked results.
func (e *Engine) searchDirect(ctx context.Context, lineIDs []string, originID, destinationID string, departAfter time.Time, cal models.CalendarType) ([]models.RouteResult, error) {
	var mu sync.Mutex
	var all []candidateSection
	var lastErr error

	group, groupCtx := errgroup.WithContext(ctx)
	for _, lineID := range lineIDs {
		group.Go(func() error {
			sections, err := e.sectionsOnLine(groupCtx, lineID, originID, destinationID, departAfter, cal, e.maxResults)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One line having no data must not sink a pair served by
				// another line.
				lastErr = err
				return nil
			}
			all = append(all, sections...)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if len(all) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return []models.RouteResult{}, nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].actual != all[j].actual {
			return all[i].actual
		}
		return all[i].section.DepartureTime.Before(all[j].section.DepartureTime)
	})
	if len(all) > e.maxResults {
		all = all[:e.maxResults]
	}

	results := make([]models.RouteResult, 0, len(all))
	for _, cand := range all {
		results = append(results, models.NewRouteResult([]models.RouteSection{cand.section}, cand.actual))
	}
	return results, nil
}

// searchGraph finds candidate transfer paths, resolves each against the
// timetable independently, and ranks the survivors by arrival time.
func (e *Engine) searchGraph(ctx context.Context, originID, destinationID string, departAfter time.Time, cal models.CalendarType) ([]models.RouteResult, error) {
	paths := findPaths(e.graph, originID, destinationID, e.maxTransfers, e.maxPaths)
	if len(paths) == 0 {
		return nil, &models.UnsupportedRouteError{
			OriginID:       originID,
			DestinationID:  destinationID,
			SupportedLines: e.SupportedLines(),
		}
	}

	var mu sync.Mutex
	var results []models.RouteResult
	var sawNoData bool

	group, groupCtx := errgroup.WithContext(ctx)
	for _, path := range paths {
		group.Go(func() error {
			route, err := e.resolvePath(groupCtx, path, departAfter, cal)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if models.IsDataUnavailable(err) {
					sawNoData = true
				}
				e.logger.Debug("discarding unresolvable path",
					slog.String("origin", originID),
					slog.String("destination", destinationID),
					slog.String("error", err.Error()))
				return nil
			}
			results = append(results, route)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		if sawNoData {
			return nil, &models.DataUnavailableError{StationID: originID, LineID: "", Tried: models.CalendarFallback(cal)}
		}
		return nil, &models.UnsupportedRouteError{
			OriginID:       originID,
			DestinationID:  destinationID,
			SupportedLines: e.SupportedLines(),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].ActualTime != results[j].ActualTime {
			return results[i].ActualTime
		}
		return results[i].ArrivalTime().Before(results[j].ArrivalTime())
	})
	if len(results) > e.maxResults {
		results = results[:e.maxResults]
	}
	return results, nil
}

// resolvePath turns one candidate path into a timed route. Leg i+1 must
// depart no earlier than leg i's arrival plus the transfer buffer at the
// change station.
func (e *Engine) resolvePath(ctx context.Context, path []pathLeg, departAfter time.Time, cal models.CalendarType) (models.RouteResult, error) {
	earliest := departAfter
	sections := make([]models.RouteSection, 0, len(path))
	actual := true

	for i, leg := range path {
		candidates, err := e.sectionsOnLine(ctx, leg.LineID, leg.FromStationID, leg.ToStationID, earliest, cal, 1)
		if err != nil {
			return models.RouteResult{}, err
		}
		if len(candidates) == 0 {
			return models.RouteResult{}, &models.UnsupportedRouteError{
				OriginID:       leg.FromStationID,
				DestinationID:  leg.ToStationID,
				SupportedLines: e.SupportedLines(),
			}
		}
		best := candidates[0]
		sections = append(sections, best.section)
		actual = actual && best.actual

		if i < len(path)-1 {
			buffer := time.Duration(e.graph.TransferTime(leg.ToStationID)) * time.Minute
			earliest = best.section.ArrivalTime.Add(buffer)
		}
	}
	return models.NewRouteResult(sections, actual), nil
}

func (e *Engine) logState(generation uint64, state requestState, originID, destinationID string) {
	e.logger.Debug("search state",
		slog.Uint64("generation", generation),
		slog.String("state", string(state)),
		slog.String("origin", originID),
		slog.String("destination", destinationID))
}

func (e *Engine) countStarted() {
	if e.collector != nil {
		e.collector.SearchesStarted.Inc()
	}
}

func (e *Engine) countSuperseded() {
	if e.collector != nil {
		e.collector.SearchesSuperseded.Inc()
	}
}

func (e *Engine) countOutcome(outcome string) {
	if e.collector != nil {
		e.collector.SearchOutcomes.WithLabelValues(outcome).Inc()
	}
}

func (e *Engine) observeSearch(started time.Time) {
	if e.collector != nil {
		e.collector.SearchDuration.Observe(time.Since(started).Seconds())
	}
}
