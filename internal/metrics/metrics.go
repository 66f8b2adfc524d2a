// Package metrics exposes prometheus collectors for the timetable cache and
// the route-search engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	CacheEvictions  *prometheus.CounterVec // reason label: ttl|empty|explicit
	CacheCoalesced  prometheus.Counter
	UpstreamFetches *prometheus.CounterVec // outcome label: ok|empty|error
	FetchDuration   prometheus.Histogram

	SearchesStarted    prometheus.Counter
	SearchesSuperseded prometheus.Counter
	SearchOutcomes     *prometheus.CounterVec // outcome label: ok|no_data|unsupported|unknown_station
	SearchDuration     prometheus.Histogram

	NotificationsPlanned prometheus.Counter
	PastTriggersDropped  prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railalert_timetable_cache_hits_total",
			Help: "Total timetable cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railalert_timetable_cache_misses_total",
			Help: "Total timetable cache misses.",
		}),
		CacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railalert_timetable_cache_evictions_total",
			Help: "Total cache evictions by reason.",
		}, []string{"reason"}),
		CacheCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railalert_timetable_cache_coalesced_total",
			Help: "Concurrent lookups collapsed into an in-flight upstream fetch.",
		}),
		UpstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railalert_timetable_upstream_fetches_total",
			Help: "Upstream timetable fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railalert_timetable_fetch_duration_seconds",
			Help:    "Upstream fetch latency.",
			Buckets: prometheus.DefBuckets,
		}),
		SearchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railalert_searches_started_total",
			Help: "Total route searches started.",
		}),
		SearchesSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railalert_searches_superseded_total",
			Help: "Searches whose results were discarded because a newer request took over.",
		}),
		SearchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railalert_search_outcomes_total",
			Help: "Route search outcomes.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railalert_search_duration_seconds",
			Help:    "End-to-end route search latency.",
			Buckets: prometheus.DefBuckets,
		}),
		NotificationsPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railalert_notification_points_planned_total",
			Help: "Notification points produced by the scheduler.",
		}),
		PastTriggersDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railalert_past_triggers_dropped_total",
			Help: "Computed notification points dropped for being in the past.",
		}),
	}

	reg.MustRegister(
		c.CacheHits, c.CacheMisses, c.CacheEvictions, c.CacheCoalesced,
		c.UpstreamFetches, c.FetchDuration,
		c.SearchesStarted, c.SearchesSuperseded, c.SearchOutcomes, c.SearchDuration,
		c.NotificationsPlanned, c.PastTriggersDropped,
	)
	return c
}

// Handler returns the /metrics HTTP handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
