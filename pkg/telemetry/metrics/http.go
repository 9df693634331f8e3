package metrics

import (
	"strconv"
	"time"

	"meridian-hq/crosswind/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks metrics for the API server.
//
// Metrics:
//   - crosswind_http_requests_total: request count by method, path, status
//   - crosswind_http_request_duration_seconds: handling time histogram
//   - crosswind_http_in_flight_requests: live request gauge
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"method", "path", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP request handling in seconds",
				Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 1, 5, 30, 120},
			},
			[]string{"method", "path"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "in_flight_requests",
				Help:      "Number of HTTP requests currently being handled",
			},
		),
	}

	registry.MustRegister(
		hm.requestsTotal,
		hm.requestDuration,
		hm.inFlight,
	)

	return hm
}

// RecordRequest records a completed HTTP request.
func (hm *HTTPMetrics) RecordRequest(method, path string, status int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	hm.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// AddInFlight adjusts the in-flight request gauge.
func (hm *HTTPMetrics) AddInFlight(delta float64) {
	hm.inFlight.Add(delta)
}
