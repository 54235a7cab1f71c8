package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Request rate per route pattern and status class.
	HTTPRequestsTotal *prometheus.CounterVec

	// Latency per route pattern. The dataset is local, so p99 above a few
	// hundred ms usually means a missing index on measurement(date).
	HTTPRequestDuration *prometheus.HistogramVec

	HTTPRequestsInFlight prometheus.Gauge

	// Aggregate queries answered with 404 "Date not found", split by reason
	// ("empty" or "zero_min").
	AggregateNotFoundTotal *prometheus.CounterVec

	// Requests rejected by the rate limiter.
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "climate_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	AggregateNotFoundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climate_aggregate_not_found_total",
			Help: "Temperature aggregate requests answered with Date not found",
		},
		[]string{"reason"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "climate_rate_limit_denied_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestsInFlight,
		AggregateNotFoundTotal,
		RateLimitDeniedTotal,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
