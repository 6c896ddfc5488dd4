// Package metrics declares the prometheus collectors shared by the service and
// the image-fetch job, and the /metrics handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var msBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000}

var (
	DirectoryRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_directory_requests_total",
		Help: "Total number of /museums list requests",
	})
	DirectoryDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "muze_directory_duration_ms",
		Help:    "List request duration in milliseconds",
		Buckets: msBuckets,
	})
	EmptyResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_empty_results_total",
		Help: "List responses with no matching museum",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_redis_misses_total",
		Help: "Total redis cache misses",
	})
	NearestRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "muze_nearest_requests_total",
		Help: "Nearest-museum lookups by origin source",
	}, []string{"origin"})
	NearestCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_nearest_cache_hits_total",
		Help: "Nearest-museum lookups served from the in-process LRU",
	})
	VisibleRecomputeTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_visible_recompute_total",
		Help: "Visible-set recomputations triggered by category or query changes",
	})
	SessionEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "muze_session_events_total",
		Help: "Events dispatched to session orchestrators",
	}, []string{"event"})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "muze_active_sessions",
		Help: "Sessions currently held in memory",
	})
	FetchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_fetch_requests_total",
		Help: "Summary API requests made by the image-fetch job",
	})
	FetchSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_fetch_success_total",
		Help: "Items resolved to an image URL or NO_IMAGE",
	})
	FetchFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_fetch_fail_total",
		Help: "Items that ended in an ERROR line",
	})
	FetchRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "muze_fetch_retries_total",
		Help: "Retried summary API attempts",
	})
	FetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "muze_fetch_duration_ms",
		Help:    "Summary API call duration in milliseconds",
		Buckets: []float64{50, 100, 200, 500, 1000, 2000, 5000, 10000},
	})
)

func init() {
	prometheus.MustRegister(
		DirectoryRequestsTotal,
		DirectoryDurationMs,
		EmptyResultsTotal,
		RedisHitsTotal,
		RedisMissesTotal,
		NearestRequestsTotal,
		NearestCacheHitsTotal,
		VisibleRecomputeTotal,
		SessionEventsTotal,
		ActiveSessions,
		FetchRequestsTotal,
		FetchSuccessTotal,
		FetchFailTotal,
		FetchRetriesTotal,
		FetchDurationMs,
	)
}

// Handler exposes the default registry.
// Constraints: collectors register in init, so importing the package is
// enough. Mounted at API_BASE+"/metrics" behind the same rate limiter as the
// API.
func Handler() http.Handler { return promhttp.Handler() }
