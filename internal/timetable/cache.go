package timetable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"railalert.transitlab.org/internal/metrics"
	"railalert.transitlab.org/internal/models"
)

const (
	// DefaultTTL bounds how long a fetched timetable is served without a
	// refresh.
	DefaultTTL = 5 * time.Minute

	// DefaultFetchTimeout bounds a single upstream call.
	DefaultFetchTimeout = 8 * time.Second

	// DefaultEmptyRetryBudget caps upstream re-fetches for a key that keeps
	// coming back empty within one TTL window. Empty results are never
	// cached, so without the budget a key with a genuine all-day service gap
	// would hit upstream on every query.
	DefaultEmptyRetryBudget = 2
)

// Config holds the tunables for a Cache.
type Config struct {
	TTL              time.Duration
	FetchTimeout     time.Duration
	EmptyRetryBudget int
}

type timetableKey struct {
	StationID string
	LineID    string
	Calendar  models.CalendarType
}

func (k timetableKey) String() string {
	return "tt|" + k.StationID + "|" + k.LineID + "|" + string(k.Calendar)
}

type sequenceKey struct {
	TrainID  string
	LineID   string
	Calendar models.CalendarType
}

func (k sequenceKey) String() string {
	return "seq|" + k.TrainID + "|" + k.LineID + "|" + string(k.Calendar)
}

type timetableValue struct {
	entries   []models.TimetableEntry
	usedCal   models.CalendarType
	fetchedAt time.Time
}

type sequenceValue struct {
	seq       *models.TrainStopSequence
	fetchedAt time.Time
}

type emptyStrike struct {
	count       int
	windowStart time.Time
}

// Cache is a concurrent read-through store in front of a timetable Source.
// Lookups for the same key in flight at the same time collapse into a single
// upstream fetch. A request whose calendar yields no entries falls back
// through the remaining calendar variants before reporting DataUnavailable,
// and only the calendar that actually produced data is cached. Empty results
// are never stored.
type Cache struct {
	source    Source
	logger    *slog.Logger
	collector *metrics.Collector

	ttl          time.Duration
	fetchTimeout time.Duration
	emptyBudget  int
	now          func() time.Time

	mu      sync.RWMutex
	entries map[timetableKey]timetableValue
	seqs    map[sequenceKey]sequenceValue
	strikes map[timetableKey]emptyStrike

	group singleflight.Group
}

// NewCache creates a Cache. The collector may be nil.
func NewCache(source Source, cfg Config, logger *slog.Logger, collector *metrics.Collector) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.EmptyRetryBudget <= 0 {
		cfg.EmptyRetryBudget = DefaultEmptyRetryBudget
	}
	return &Cache{
		source:       source,
		logger:       logger,
		collector:    collector,
		ttl:          cfg.TTL,
		fetchTimeout: cfg.FetchTimeout,
		emptyBudget:  cfg.EmptyRetryBudget,
		now:          time.Now,
		entries:      make(map[timetableKey]timetableValue),
		seqs:         make(map[sequenceKey]sequenceValue),
		strikes:      make(map[timetableKey]emptyStrike),
	}
}

// Entries returns the timetable for (stationID, lineID, cal), fetching
// upstream on a miss. The returned calendar is the variant that actually
// produced the data, which may differ from the requested one after fallback.
func (c *Cache) Entries(ctx context.Context, stationID, lineID string, cal models.CalendarType) ([]models.TimetableEntry, models.CalendarType, error) {
	key := timetableKey{StationID: stationID, LineID: lineID, Calendar: cal}

	if value, ok := c.lookup(key); ok {
		return value.entries, value.usedCal, nil
	}
	c.countMiss()

	if c.budgetExhausted(key) {
		return nil, "", &models.DataUnavailableError{
			StationID: stationID,
			LineID:    lineID,
			Tried:     models.CalendarFallback(cal),
		}
	}

	result, err, shared := c.group.Do(key.String(), func() (any, error) {
		// Another flight may have filled the key while we queued.
		if value, ok := c.lookup(key); ok {
			return value, nil
		}
		return c.fetchWithFallback(ctx, key)
	})
	if shared {
		c.countCoalesced()
	}
	if err != nil {
		return nil, "", err
	}
	value := result.(timetableValue)
	return value.entries, value.usedCal, nil
}

// StopSequence returns one train's stop sequence, fetching upstream on a
// miss. Train ids are calendar-specific, so there is no fallback here.
func (c *Cache) StopSequence(ctx context.Context, trainID, lineID string, cal models.CalendarType) (*models.TrainStopSequence, error) {
	key := sequenceKey{TrainID: trainID, LineID: lineID, Calendar: cal}

	c.mu.RLock()
	value, ok := c.seqs[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(value.fetchedAt) < c.ttl {
		c.countHit()
		return value.seq, nil
	}
	c.countMiss()

	result, err, shared := c.group.Do(key.String(), func() (any, error) {
		c.mu.RLock()
		value, ok := c.seqs[key]
		c.mu.RUnlock()
		if ok && c.now().Sub(value.fetchedAt) < c.ttl {
			return value.seq, nil
		}

		fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()

		started := c.now()
		seq, err := c.source.TrainStops(fetchCtx, trainID, lineID, cal)
		c.observeFetch(started, err)
		if err != nil {
			return nil, fmt.Errorf("train stops for %s on %s: %w", trainID, lineID, err)
		}
		if seq == nil || len(seq.Stops) == 0 {
			return nil, fmt.Errorf("train stops for %s on %s: %w", trainID, lineID, models.ErrNoData)
		}

		c.mu.Lock()
		c.seqs[key] = sequenceValue{seq: seq, fetchedAt: c.now()}
		c.mu.Unlock()
		return seq, nil
	})
	if shared {
		c.countCoalesced()
	}
	if err != nil {
		return nil, err
	}
	return result.(*models.TrainStopSequence), nil
}

// ResolveStation maps a display name and line name to a canonical station id.
// Resolution is a directory lookup against minimal static data, so there is
// nothing worth caching; the call is passed straight through with the fetch
// timeout applied.
func (c *Cache) ResolveStation(ctx context.Context, name, lineName string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	id, err := c.source.ResolveStation(fetchCtx, name, lineName)
	if err != nil {
		return "", fmt.Errorf("resolving station %q on line %q: %w", name, lineName, err)
	}
	return id, nil
}

// Invalidate drops a timetable key so the next lookup re-fetches.
func (c *Cache) Invalidate(stationID, lineID string, cal models.CalendarType) {
	key := timetableKey{StationID: stationID, LineID: lineID, Calendar: cal}
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	delete(c.strikes, key)
	c.mu.Unlock()
	if existed {
		c.countEviction("explicit")
	}
}

// lookup returns a fresh, non-empty cached value. A fresh-but-empty value is
// a stale entry: it is evicted on sight so callers re-fetch instead of
// serving a poisoned result.
func (c *Cache) lookup(key timetableKey) (timetableValue, bool) {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return timetableValue{}, false
	}
	if c.now().Sub(value.fetchedAt) >= c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.countEviction("ttl")
		return timetableValue{}, false
	}
	if len(value.entries) == 0 {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.countEviction("empty")
		c.logger.Warn("evicted stale empty cache entry",
			slog.String("station_id", key.StationID),
			slog.String("line_id", key.LineID),
			slog.String("calendar", string(key.Calendar)))
		return timetableValue{}, false
	}
	c.countHit()
	return value, true
}

func (c *Cache) fetchWithFallback(ctx context.Context, key timetableKey) (timetableValue, error) {
	fallback := models.CalendarFallback(key.Calendar)
	var lastErr error

	for _, cal := range fallback {
		fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
		started := c.now()
		entries, err := c.source.StationTimetable(fetchCtx, key.StationID, key.LineID, cal)
		cancel()
		c.observeFetch(started, err)

		if err != nil {
			if !errors.Is(err, models.ErrNoData) {
				lastErr = err
				c.logger.Warn("timetable fetch failed, trying next calendar",
					slog.String("station_id", key.StationID),
					slog.String("line_id", key.LineID),
					slog.String("calendar", string(cal)),
					slog.String("error", err.Error()))
			}
			continue
		}
		if len(entries) == 0 {
			continue
		}

		value := timetableValue{entries: entries, usedCal: cal, fetchedAt: c.now()}
		c.mu.Lock()
		c.entries[key] = value
		delete(c.strikes, key)
		c.mu.Unlock()
		return value, nil
	}

	c.recordStrike(key)
	if lastErr != nil {
		c.logger.Error("all calendar fallbacks failed",
			slog.String("station_id", key.StationID),
			slog.String("line_id", key.LineID),
			slog.String("error", lastErr.Error()))
	}
	return timetableValue{}, &models.DataUnavailableError{
		StationID: key.StationID,
		LineID:    key.LineID,
		Tried:     fallback,
	}
}

// budgetExhausted reports whether the key's empty-retry budget for the
// current TTL window is spent.
func (c *Cache) budgetExhausted(key timetableKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	strike, ok := c.strikes[key]
	if !ok {
		return false
	}
	if c.now().Sub(strike.windowStart) >= c.ttl {
		delete(c.strikes, key)
		return false
	}
	return strike.count >= c.emptyBudget
}

func (c *Cache) recordStrike(key timetableKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	strike, ok := c.strikes[key]
	if !ok || c.now().Sub(strike.windowStart) >= c.ttl {
		strike = emptyStrike{windowStart: c.now()}
	}
	strike.count++
	c.strikes[key] = strike
}

func (c *Cache) countHit() {
	if c.collector != nil {
		c.collector.CacheHits.Inc()
	}
}

func (c *Cache) countMiss() {
	if c.collector != nil {
		c.collector.CacheMisses.Inc()
	}
}

func (c *Cache) countCoalesced() {
	if c.collector != nil {
		c.collector.CacheCoalesced.Inc()
	}
}

func (c *Cache) countEviction(reason string) {
	if c.collector != nil {
		c.collector.CacheEvictions.WithLabelValues(reason).Inc()
	}
}

func (c *Cache) observeFetch(started time.Time, err error) {
	if c.collector == nil {
		return
	}
	c.collector.FetchDuration.Observe(c.now().Sub(started).Seconds())
	switch {
	case err == nil:
		c.collector.UpstreamFetches.WithLabelValues("ok").Inc()
	case errors.Is(err, models.ErrNoData):
		c.collector.UpstreamFetches.WithLabelValues("empty").Inc()
	default:
		c.collector.UpstreamFetches.WithLabelValues("error").Inc()
	}
}
