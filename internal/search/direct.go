package search

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"railalert.transitlab.org/internal/models"
)

// candidateSection is one resolved single-line ride, tagged with whether its
// times came from a real stop sequence or a hop-count estimate.
type candidateSection struct {
	section models.RouteSection
	actual  bool
}

// sectionsOnLine resolves up to limit rides from originID to destinationID on
// one line, departing at or after earliest. Both station timetables are
// fetched concurrently, train ids present in both are direction-valid
// candidates, and each candidate is confirmed against its stop sequence
// before its exact times are used. Hop-count estimates are produced only when
// no candidate's stop sequence resolves.
func (e *Engine) sectionsOnLine(ctx context.Context, lineID, originID, destinationID string, earliest time.Time, cal models.CalendarType, limit int) ([]candidateSection, error) {
	var originEntries, destEntries []models.TimetableEntry
	var usedCal models.CalendarType

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		entries, used, err := e.cache.Entries(groupCtx, originID, lineID, cal)
		if err != nil {
			return err
		}
		originEntries, usedCal = entries, used
		return nil
	})
	group.Go(func() error {
		entries, _, err := e.cache.Entries(groupCtx, destinationID, lineID, cal)
		if err != nil {
			return err
		}
		destEntries = entries
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	atDestination := make(map[string]bool, len(destEntries))
	for _, entry := range destEntries {
		atDestination[entry.TrainID] = true
	}

	type candidate struct {
		trainID   string
		departure time.Time
	}
	var candidates []candidate
	for _, entry := range originEntries {
		if !atDestination[entry.TrainID] {
			continue
		}
		clock, err := models.ParseClock(entry.Departure)
		if err != nil {
			e.logger.Warn("skipping malformed timetable entry",
				slog.String("train_id", entry.TrainID),
				slog.String("departure", entry.Departure))
			continue
		}
		departure := clock.OnDate(earliest)
		if departure.Before(earliest) {
			continue
		}
		candidates = append(candidates, candidate{trainID: entry.TrainID, departure: departure})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].departure.Before(candidates[j].departure)
	})

	var sections []candidateSection
	var unresolved []candidate
	for _, cand := range candidates {
		if len(sections) >= limit {
			break
		}
		section, err := e.sectionFromSequence(ctx, lineID, originID, destinationID, cand.trainID, cand.departure, earliest, usedCal)
		if err != nil {
			if errors.Is(err, models.ErrDirectionMismatch) {
				continue
			}
			unresolved = append(unresolved, cand)
			continue
		}
		sections = append(sections, candidateSection{section: section, actual: true})
	}

	// Last resort: estimate from canonical hop counts, never mixed into the
	// actual-time results above.
	if len(sections) == 0 {
		for _, cand := range unresolved {
			if len(sections) >= limit {
				break
			}
			section, ok := e.estimateSection(lineID, originID, destinationID, cand.trainID, cand.departure)
			if !ok {
				continue
			}
			sections = append(sections, candidateSection{section: section, actual: false})
		}
	}
	return sections, nil
}

func (e *Engine) sectionFromSequence(ctx context.Context, lineID, originID, destinationID, trainID string, fallbackDeparture, earliest time.Time, cal models.CalendarType) (models.RouteSection, error) {
	seq, err := e.cache.StopSequence(ctx, trainID, lineID, cal)
	if err != nil {
		return models.RouteSection{}, err
	}

	originIdx := seq.IndexOf(originID)
	destinationIdx := seq.IndexOf(destinationID)
	if originIdx < 0 || destinationIdx <= originIdx {
		e.logger.Debug("direction mismatch, discarding candidate",
			slog.String("train_id", trainID),
			slog.String("line_id", lineID),
			slog.Int("origin_index", originIdx),
			slog.Int("destination_index", destinationIdx))
		return models.RouteSection{}, models.ErrDirectionMismatch
	}

	departure := fallbackDeparture
	if clockStr := seq.Stops[originIdx].BestDeparture(); clockStr != "" {
		if clock, err := models.ParseClock(clockStr); err == nil {
			departure = clock.OnDate(fallbackDeparture)
		}
	}
	if departure.Before(earliest) {
		return models.RouteSection{}, models.ErrDirectionMismatch
	}

	arrival := departure
	if clockStr := seq.Stops[destinationIdx].BestArrival(); clockStr != "" {
		if clock, err := models.ParseClock(clockStr); err == nil {
			arrival = clock.OnDate(fallbackDeparture)
		}
	}
	if arrival.Before(departure) {
		return models.RouteSection{}, models.ErrDirectionMismatch
	}

	stops := make([]models.SectionStop, 0, destinationIdx-originIdx+1)
	for i := originIdx; i <= destinationIdx; i++ {
		stopTime := departure
		if clockStr := seq.Stops[i].BestArrival(); clockStr != "" {
			if clock, err := models.ParseClock(clockStr); err == nil {
				stopTime = clock.OnDate(fallbackDeparture)
			}
		}
		stops = append(stops, models.SectionStop{StationID: seq.Stops[i].StationID, Arrival: stopTime})
	}

	return models.NewRouteSection(originID, destinationID, lineID, departure, arrival, trainID, stops), nil
}

// estimateSection builds a section from canonical hop counts and the average
// per-hop ride time when no stop sequence is available.
func (e *Engine) estimateSection(lineID, originID, destinationID, trainID string, departure time.Time) (models.RouteSection, bool) {
	hops, err := e.graph.HopCount(lineID, originID, destinationID)
	if err != nil {
		return models.RouteSection{}, false
	}
	if hops < 0 {
		hops = -hops
	}
	if hops == 0 {
		return models.RouteSection{}, false
	}
	arrival := departure.Add(time.Duration(hops*estimatedMinutesPerHop) * time.Minute)
	return models.NewRouteSection(originID, destinationID, lineID, departure, arrival, trainID, nil), true
}
