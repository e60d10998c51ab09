package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cork",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cork",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Auth outcomes: ok, missing, invalid
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cork",
			Subsystem: "gateway",
			Name:      "auth_requests_total",
			Help:      "Total authentication attempts",
		},
		[]string{"status"},
	)

	// Search outcomes: ok, unavailable, skipped
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cork",
			Subsystem: "gateway",
			Name:      "search_requests_total",
			Help:      "Search provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cork",
			Subsystem: "gateway",
			Name:      "provider_duration_seconds",
			Help:      "Outbound provider call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cork",
			Subsystem: "gateway",
			Name:      "provider_errors_total",
			Help:      "Total provider call failures",
		},
		[]string{"provider", "error_type"},
	)

	ModelInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cork",
			Subsystem: "gateway",
			Name:      "model_invocations_total",
			Help:      "Language model calls by model and status",
		},
		[]string{"model", "status"},
	)

	// 1=closed, 0.5=half-open, 0=open
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cork",
			Subsystem: "gateway",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state per provider",
		},
		[]string{"provider"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordAuth records an authentication outcome
func RecordAuth(status string) {
	AuthRequestsTotal.WithLabelValues(status).Inc()
}

// RecordSearch records a search outcome
func RecordSearch(provider, outcome string) {
	SearchRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordProviderDuration records the latency of one outbound call
func RecordProviderDuration(provider string, durationSec float64) {
	ProviderDuration.WithLabelValues(provider).Observe(durationSec)
}

// RecordProviderError records a provider error
func RecordProviderError(provider, errorType string) {
	ProviderErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordModelInvocation records a model call outcome
func RecordModelInvocation(model, status string) {
	ModelInvocationsTotal.WithLabelValues(model, status).Inc()
}

// SetBreakerState publishes the breaker state for a provider
func SetBreakerState(provider string, value float64) {
	BreakerState.WithLabelValues(provider).Set(value)
}
