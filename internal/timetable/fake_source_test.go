package timetable

import (
	"context"
	"fmt"
	"sync"

	"railalert.transitlab.org/internal/models"
)

type timetableCall struct {
	stationID string
	lineID    string
	cal       models.CalendarType
}

// fakeSource is an in-memory Source for tests. Timetables are keyed by
// (station, line, calendar); stop sequences by (train, line, calendar).
type fakeSource struct {
	mu          sync.Mutex
	timetables  map[timetableCall][]models.TimetableEntry
	sequences   map[string]*models.TrainStopSequence
	errs        map[timetableCall]error
	resolutions map[string]string

	fetchCount int
	seqCount   int

	// When set, StationTimetable blocks until the channel closes. Used to
	// hold concurrent callers in flight.
	block chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		timetables:  make(map[timetableCall][]models.TimetableEntry),
		sequences:   make(map[string]*models.TrainStopSequence),
		errs:        make(map[timetableCall]error),
		resolutions: make(map[string]string),
	}
}

func (f *fakeSource) addTimetable(stationID, lineID string, cal models.CalendarType, entries ...models.TimetableEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timetables[timetableCall{stationID, lineID, cal}] = entries
}

func (f *fakeSource) addSequence(seq *models.TrainStopSequence) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sequences[seqID(seq.TrainID, seq.LineID, seq.Calendar)] = seq
}

func (f *fakeSource) failWith(stationID, lineID string, cal models.CalendarType, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[timetableCall{stationID, lineID, cal}] = err
}

func (f *fakeSource) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCount
}

func (f *fakeSource) seqFetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seqCount
}

func seqID(trainID, lineID string, cal models.CalendarType) string {
	return fmt.Sprintf("%s|%s|%s", trainID, lineID, cal)
}

func (f *fakeSource) StationTimetable(ctx context.Context, stationID, lineID string, cal models.CalendarType) ([]models.TimetableEntry, error) {
	f.mu.Lock()
	f.fetchCount++
	block := f.block
	err := f.errs[timetableCall{stationID, lineID, cal}]
	entries := f.timetables[timetableCall{stationID, lineID, cal}]
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (f *fakeSource) TrainStops(ctx context.Context, trainID, lineID string, cal models.CalendarType) (*models.TrainStopSequence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seqCount++
	seq, ok := f.sequences[seqID(trainID, lineID, cal)]
	if !ok {
		return nil, fmt.Errorf("train %s: %w", trainID, models.ErrNoData)
	}
	return seq, nil
}

func (f *fakeSource) ResolveStation(ctx context.Context, name, lineName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.resolutions[name+"|"+lineName]; ok {
		return id, nil
	}
	return "", models.ErrStationNotFound
}
