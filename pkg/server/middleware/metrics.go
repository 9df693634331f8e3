package middleware

import (
	"net/http"
	"time"

	"meridian-hq/crosswind/pkg/telemetry/metrics"
)

// Metrics records request counts, latencies and in-flight gauges on the
// telemetry collector. A nil collector disables recording and passes
// requests through untouched.
//
// Example usage:
//
//	handler = middleware.Metrics(collector)(handler)
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			collector.AddInFlight(1)
			defer collector.AddInFlight(-1)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			collector.RecordHTTPRequest(r.Method, r.URL.Path, rw.statusCode, time.Since(start))
		})
	}
}
