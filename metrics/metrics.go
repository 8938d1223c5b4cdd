package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripwise_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripwise_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Destination cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_destination_cache_lookups_total",
			Help: "Destination cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	// Itinerary generator
	GeneratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_generator_calls_total",
			Help: "Calls to the itinerary generator by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome: ok, error, open
	)

	GeneratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripwise_generator_call_duration_seconds",
			Help:    "Itinerary generator call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tripwise_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Lifecycle events and live connections
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripwise_itinerary_events_published_total",
			Help: "Itinerary lifecycle events published by type",
		},
		[]string{"type"},
	)

	LiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripwise_live_connections",
			Help: "Open live feed WebSocket connections",
		},
	)
)

func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordGeneratorCall(operation, outcome string, duration time.Duration) {
	GeneratorCalls.WithLabelValues(operation, outcome).Inc()
	GeneratorDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
