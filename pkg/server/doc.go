// Package server assembles the crosswind HTTP API.
//
// This package ties the domain components (pipeline, store, alerts,
// optimizer, insights, copywriter) to HTTP routes, chains the
// middleware for cross-cutting concerns, and manages server lifecycle
// including graceful shutdown on SIGTERM/SIGINT.
//
// # Basic Usage
//
// Creating and starting a server:
//
//	import (
//	    "context"
//	    "meridian-hq/crosswind/pkg/config"
//	    "meridian-hq/crosswind/pkg/server"
//	)
//
//	cfg := config.GetConfig()
//
//	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, server.Components{
//	    Pipeline:  p,
//	    Store:     st,
//	    Alerts:    alertMgr,
//	    Insights:  agent,
//	    Optimizer: opt,
//	    Copy:      copyGen,
//	    Version:   "1.0.0",
//	})
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//   - GET / - API index
//   - GET /health - Liveness probe (always 200)
//   - GET /ready - Readiness probe (runs registered component checks)
//   - GET /version - Build information
//   - GET /metrics - Prometheus exposition (when metrics are enabled)
//   - POST /api/collect - Run a collection pass now
//   - GET /api/alerts - Evaluate alert thresholds on the last hour
//   - POST /api/optimize - Bid adjustments plus budget reallocation
//   - GET /api/insights - Insight report over the last day
//   - GET /api/usage - Model usage and estimated spend
//   - POST /api/reports - Write the HTML and JSON report artifacts
//   - POST /api/copy - Generate ad copy variations
//   - GET /api/status - Generative, usage and scheduler snapshot
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to
// outermost):
//  1. Timeout: enforces the per-request deadline
//  2. CORS: Cross-Origin Resource Sharing headers
//  3. Logging: request/response logging through slog
//  4. Recovery: turns panics into 500 responses
//  5. RequestID: unique request ID, set before logging runs
//  6. Metrics: Prometheus request counters and latencies
//
// # Graceful Shutdown
//
// Start blocks until the context is cancelled, a signal arrives, or
// Shutdown is called. The shutdown process stops accepting new
// connections and waits up to the configured shutdown timeout for
// active requests to finish.
package server
