package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeUpstream    = "upstream_error"
	OutcomeUnavailable = "unavailable"
)

// CatalogMetrics records calls made to the external game catalog.
type CatalogMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	breaker  *prometheus.GaugeVec
}

// NewCatalogMetrics registers the catalog client metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Duration of catalog requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Catalog requests by operation and outcome.",
	}, []string{"operation", "outcome"})
	breaker := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_circuit_breaker_state",
		Help: "Catalog circuit breaker state (0=closed, 1=half-open, 2=open).",
	}, []string{"name"})
	reg.MustRegister(duration, requests, breaker)
	return &CatalogMetrics{
		duration: duration,
		requests: requests,
		breaker:  breaker,
	}
}

// Observe records one finished catalog call.
func (c *CatalogMetrics) Observe(operation, outcome string, duration time.Duration) {
	if c == nil || c.duration == nil || c.requests == nil {
		return
	}
	op := normalizeLabel(operation)
	c.duration.WithLabelValues(op).Observe(duration.Seconds())
	c.requests.WithLabelValues(op, normalizeLabel(outcome)).Inc()
}

// SetBreakerState publishes the current breaker state for name.
func (c *CatalogMetrics) SetBreakerState(name string, state float64) {
	if c == nil || c.breaker == nil {
		return
	}
	c.breaker.WithLabelValues(normalizeLabel(name)).Set(state)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
