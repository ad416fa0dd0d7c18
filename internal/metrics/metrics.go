package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CatalogRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "discovery",
		Name:      "catalog_requests_total",
		Help:      "Total TMDB page requests by query mode and result status.",
	}, []string{"mode", "status"})

	CatalogRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "discovery",
		Name:      "catalog_request_duration_seconds",
		Help:      "TMDB page request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"mode"})

	CatalogCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "discovery",
		Name:      "catalog_cache_hits_total",
		Help:      "Total TMDB pages served from the Redis page cache.",
	})

	CyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "discovery",
		Name:      "query_cycles_total",
		Help:      "Total query cycles by outcome (committed, cancelled, failed, stale).",
	}, []string{"outcome"})

	DeepSearchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "discovery",
		Name:      "deep_searches_total",
		Help:      "Total deep search escalations.",
	})

	CandidatesPerCycle = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "discovery",
		Name:      "cycle_candidates",
		Help:      "Number of deduplicated candidates per completed cycle.",
		Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
	})

	WatchlistSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "discovery",
		Name:      "watchlist_size",
		Help:      "Number of movies in the watchlist.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "discovery",
		Name:      "http_requests_total",
		Help:      "Total local API requests by method, route and status code.",
	}, []string{"method", "route", "status"})
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		CatalogRequestsTotal,
		CatalogRequestDuration,
		CatalogCacheHitsTotal,
		CyclesTotal,
		DeepSearchesTotal,
		CandidatesPerCycle,
		WatchlistSize,
		HTTPRequestsTotal,
	)
}
