// Package metrics provides Prometheus metrics collection for Crosswind.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring the API
// server and the automation pipeline: HTTP request counts and latencies,
// scheduled job runs, campaigns collected per platform, alerts fired, and
// optimization actions applied.
//
// # Metrics Categories
//
//   - HTTP Metrics: Request count, duration histogram, and in-flight gauge
//   - Pipeline Metrics: Job runs, durations, last-run timestamps, campaigns
//     collected, alerts fired, and optimizations applied
//   - Runtime Metrics: Standard Go and process collectors
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	// Record HTTP activity (normally done by middleware)
//	collector.RecordHTTPRequest("GET", "/api/status", 200, 3*time.Millisecond)
//
//	// Record pipeline activity
//	collector.RecordJobRun("collect", nil, 2*time.Second)
//	collector.RecordCampaignsCollected("google_ads", 5)
//	collector.RecordAlert("low_roas", "warning")
//	collector.RecordOptimization("increase_bid")
//
//	// Expose the endpoint
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// # Cardinality Management
//
// HTTP path labels pass through a cardinality limiter. Once the number of
// unique paths exceeds the limit, further paths are aggregated into "other"
// so an abusive client cannot grow the metric space without bound.
//
// Token usage and API cost metrics live in pkg/usage, which owns the rate
// and spend accounting. Both register against the same namespace and can
// share a registry.
package metrics
