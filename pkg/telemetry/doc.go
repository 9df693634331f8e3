// Package telemetry provides observability for Crosswind.
//
// # Overview
//
// The telemetry package groups structured logging, Prometheus metrics, and
// health check endpoints. It gives visibility into the collection pipeline,
// the optimization engine, and the API server while keeping per-request
// overhead low.
//
// # Components
//
//   - logging: Structured logging built on log/slog (JSON or text)
//   - metrics: Prometheus metrics collection and the /metrics endpoint
//   - health: Liveness and readiness probes plus build information
//
// # Usage
//
//	// Logger
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	logger.Info("pipeline run complete", "campaigns", 15, "duration_ms", 820)
//
//	// Metrics
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordJobRun("pipeline", nil, duration)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	// Health probes
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("store", health.DatabaseCheck(store.DB()))
//	health.Mount(mux, checker, version, commit, buildTime)
//
// Token usage accounting and API spend tracking live in pkg/usage; its
// metrics register under the same namespace and can share the registry.
package telemetry
