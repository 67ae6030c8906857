package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog metrics
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamview_catalog_requests_total",
			Help: "Total number of catalog API requests",
		},
		[]string{"operation", "status"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamview_catalog_request_duration_seconds",
			Help:    "Catalog API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamview_catalog_fallbacks_total",
			Help: "Total number of fallback set substitutions",
		},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamview_cache_lookups_total",
			Help: "Total number of catalog cache lookups",
		},
		[]string{"operation", "result"},
	)

	// Playback metrics
	PlaybackSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamview_playback_sessions_total",
			Help: "Total number of playback sessions started",
		},
	)

	PlaybackSessionSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamview_playback_session_seconds",
			Help:    "Wall-clock length of playback sessions in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		},
	)

	PlaybackFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamview_playback_failures_total",
			Help: "Total number of sessions that failed to load",
		},
	)

	PlaybackSeeksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamview_playback_seeks_total",
			Help: "Total number of seeks issued to the player",
		},
	)

	ControlsAutoHidesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamview_controls_auto_hides_total",
			Help: "Total number of times the inactivity timer hid the controls",
		},
	)
)

// RequestStatus labels for CatalogRequestsTotal.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Cache result labels for CacheLookupsTotal.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)
