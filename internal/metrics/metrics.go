package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ResolutionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taxpoint_resolutions_total",
		Help: "Total tax resolutions requested",
	})
	EngineHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxpoint_engine_hits_total",
		Help: "Total successful resolutions per engine tier",
	}, []string{"engine"})
	EngineMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "taxpoint_engine_misses_total",
		Help: "Total missed resolutions per engine tier",
	}, []string{"engine"})
	DefaultFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taxpoint_default_fallbacks_total",
		Help: "Total resolutions that fell through to the fixed default rate",
	})
	GeocodeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taxpoint_geocode_requests_total",
		Help: "Total reverse-geocoding requests issued",
	})
	GeocodeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taxpoint_geocode_failures_total",
		Help: "Total reverse-geocoding failures",
	})
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "taxpoint_geocode_duration_ms",
		Help:    "Reverse-geocoding call duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	GeoCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taxpoint_geocache_hits_total",
		Help: "Total geocode cache hits",
	})
	GeoCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taxpoint_geocache_misses_total",
		Help: "Total geocode cache misses",
	})
)

func init() {
	prometheus.MustRegister(
		ResolutionsTotal,
		EngineHitsTotal,
		EngineMissesTotal,
		DefaultFallbacksTotal,
		GeocodeRequestsTotal,
		GeocodeFailuresTotal,
		GeocodeDurationMs,
		GeoCacheHitsTotal,
		GeoCacheMissesTotal,
	)
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
