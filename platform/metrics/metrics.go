// Package metrics holds the Prometheus collectors exported on /metrics.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Geocode lookup outcomes.
const (
	GeocodeHit      = "hit"
	GeocodeMiss     = "miss"
	GeocodeCached   = "cached"
	GeocodeError    = "error"
	GeocodeThrottle = "throttled"
)

type Metrics struct {
	registry       *prometheus.Registry
	droppedRecords *prometheus.CounterVec
	geocodeLookups *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New builds a registry with the application collectors plus the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		droppedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stakeholder_records_dropped_total",
			Help: "Stakeholder records left off the map, by reason.",
		}, []string{"reason"}),
		geocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geocode_lookups_total",
			Help: "Forward geocoding lookups, by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.droppedRecords,
		m.geocodeLookups,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordDropped(reason string) {
	if m == nil {
		return
	}
	m.droppedRecords.WithLabelValues(reason).Inc()
}

func (m *Metrics) GeocodeLookup(outcome string) {
	if m == nil {
		return
	}
	m.geocodeLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
