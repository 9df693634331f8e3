package metrics

import (
	"fmt"
	"sync"
	"time"

	"meridian-hq/crosswind/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector is the orchestrator for all Prometheus metrics in Crosswind.
// It owns the registry, registers the metric subsystems, and provides a
// unified interface for recording observations across components.
//
// The HTTP path label is cardinality-limited: once the limiter fills,
// unseen paths are aggregated into "other" so a scanner probing random
// URLs cannot grow the series set without bound.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// HTTP metrics
	httpMetrics *HTTPMetrics

	// Pipeline metrics
	pipelineMetrics *PipelineMetrics

	// Cardinality tracking
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil a fresh
// registry is created. Standard Go runtime and process collectors are
// registered alongside the service metrics.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "crosswind"
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.httpMetrics = NewHTTPMetrics(cfg, registry)
	c.pipelineMetrics = NewPipelineMetrics(cfg, registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// RecordHTTPRequest records metrics for a completed HTTP request.
//
// Parameters:
//   - method: HTTP method ("GET", "POST")
//   - path: route pattern (e.g., "/api/collect")
//   - status: numeric status code
//   - duration: total handling time
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	labelSet := fmt.Sprintf("http:%s:%s", method, path)
	if !c.cardinalityLimiter.Allow(labelSet) {
		path = "other"
	}

	c.httpMetrics.RecordRequest(method, path, status, duration)
}

// AddInFlight adjusts the in-flight HTTP request gauge.
func (c *Collector) AddInFlight(delta float64) {
	if !c.config.Enabled {
		return
	}
	c.httpMetrics.AddInFlight(delta)
}

// RecordJobRun records a completed background job run.
//
// Parameters:
//   - job: job name ("pipeline", "optimization", "report")
//   - err: the run's outcome; nil counts as success
//   - duration: total run time
func (c *Collector) RecordJobRun(job string, err error, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.pipelineMetrics.RecordRun(job, err, duration)
}

// RecordCampaignsCollected counts campaigns fetched from a platform.
func (c *Collector) RecordCampaignsCollected(platform string, count int) {
	if !c.config.Enabled {
		return
	}
	c.pipelineMetrics.RecordCampaigns(platform, count)
}

// RecordAlert counts a fired alert by type and severity.
func (c *Collector) RecordAlert(alertType, severity string) {
	if !c.config.Enabled {
		return
	}
	c.pipelineMetrics.RecordAlert(alertType, severity)
}

// RecordOptimization counts an applied optimization action.
func (c *Collector) RecordOptimization(action string) {
	if !c.config.Enabled {
		return
	}
	c.pipelineMetrics.RecordOptimization(action)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
