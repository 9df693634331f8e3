package health

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"
)

// CheckFunc probes a single component. It returns nil when the component is
// healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of one component probe.
type CheckResult struct {
	// Status is the component status: "ok" or "unhealthy"
	Status string `json:"status"`

	// Message carries the error text for unhealthy components
	Message string `json:"message,omitempty"`

	// Duration is how long the probe took
	Duration time.Duration `json:"duration_ms,omitempty"`
}

// HealthStatus is the aggregated status reported by the probe endpoints.
type HealthStatus struct {
	// Status is the overall status: "ok", "ready", or "degraded"
	Status string `json:"status"`

	// Checks holds per-component results (readiness only)
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Timestamp is when the probe ran
	Timestamp time.Time `json:"timestamp"`
}

// ErrCheckTimeout is reported when a component probe exceeds the checker's
// per-check timeout.
var ErrCheckTimeout = errors.New("health check timeout")

// Checker runs registered component probes and aggregates their results.
// Components register a CheckFunc under a name; the readiness endpoint runs
// all of them concurrently on each probe.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	checkTimeout time.Duration
}

// New creates a health checker. A zero timeout defaults to 5 seconds per
// component probe.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 5 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck registers a probe for a named component, replacing any
// existing probe under the same name.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// UnregisterCheck removes the probe for a named component.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, name)
}

// CheckLiveness reports whether the process is alive. It never runs
// component probes, so it stays fast enough for tight probe intervals.
func (c *Checker) CheckLiveness(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
	}
}

// CheckReadiness runs every registered component probe concurrently and
// aggregates the results. Any unhealthy component degrades the overall
// status. With no probes registered the service is considered ready.
func (c *Checker) CheckReadiness(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := maps.Clone(c.checks)
	c.mu.RUnlock()

	type probeResult struct {
		name   string
		result CheckResult
	}

	resultCh := make(chan probeResult, len(checks))
	for name, check := range checks {
		go func(name string, check CheckFunc) {
			resultCh <- probeResult{name, c.runCheck(ctx, check)}
		}(name, check)
	}

	status := "ready"
	results := make(map[string]CheckResult, len(checks))
	for range checks {
		pr := <-resultCh
		results[pr.name] = pr.result
		if pr.result.Status == "unhealthy" {
			status = "degraded"
		}
	}

	return HealthStatus{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now(),
	}
}

// runCheck executes one probe under the per-check timeout. The probe runs in
// its own goroutine so a CheckFunc that ignores its context cannot stall the
// readiness endpoint.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	select {
	case err := <-errChan:
		result := CheckResult{Status: "ok", Duration: time.Since(start)}
		if err != nil {
			result.Status = "unhealthy"
			result.Message = err.Error()
		}
		return result

	case <-checkCtx.Done():
		return CheckResult{
			Status:   "unhealthy",
			Message:  ErrCheckTimeout.Error(),
			Duration: time.Since(start),
		}
	}
}

// GetCheck returns the probe registered under name, or nil.
func (c *Checker) GetCheck(name string) CheckFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.checks[name]
}

// ListChecks returns the names of all registered probes, sorted.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CheckCount returns the number of registered probes.
func (c *Checker) CheckCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.checks)
}
