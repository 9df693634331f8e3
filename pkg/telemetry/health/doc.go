// Package health provides health check endpoints for Crosswind.
//
// # Overview
//
// The health package implements liveness and readiness probes for Kubernetes
// and other orchestration systems, along with a version information endpoint.
// Components register probe functions with the Checker; the readiness
// endpoint runs all of them concurrently and aggregates the results.
//
// # Endpoints
//
//   - /health: Liveness probe - the process is running
//   - /ready: Readiness probe - the service can do useful work
//   - /version: Build information - version, commit, build time
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//
//	// Register component probes
//	checker.RegisterCheck("store", health.DatabaseCheck(store.DB()))
//	checker.RegisterCheck("ad_store", health.DatabaseCheck(adStore.DB()))
//	checker.RegisterCheck("scheduler", func(ctx context.Context) error {
//	    if !sched.Running() {
//	        return errors.New("scheduler not running")
//	    }
//	    return nil
//	})
//
//	// Mount the endpoints
//	health.Mount(mux, checker, version, commit, buildTime)
//
// # Liveness vs Readiness
//
// The liveness probe never runs component probes; it only proves the process
// is alive, so orchestrators can use tight intervals without load. The
// readiness probe runs every registered probe with a per-check timeout and
// answers 503 while any component is unhealthy, which takes the instance out
// of rotation until the component recovers.
//
// # Component Probes
//
// Crosswind registers probes for:
//   - store: campaign store reachable (database ping)
//   - ad_store: ad library reachable (database ping)
//   - scheduler: background scheduler running (when enabled)
//   - reports: report output directory accessible
package health
