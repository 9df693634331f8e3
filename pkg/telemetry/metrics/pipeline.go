package metrics

import (
	"time"

	"meridian-hq/crosswind/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics tracks metrics for scheduled jobs and pipeline activity.
//
// Metrics:
//   - crosswind_pipeline_runs_total: job executions by job name and status
//   - crosswind_pipeline_run_duration_seconds: job execution time histogram
//   - crosswind_pipeline_last_run_timestamp_seconds: unix time of last run per job
//   - crosswind_pipeline_campaigns_collected_total: campaigns fetched per platform
//   - crosswind_pipeline_alerts_fired_total: alerts raised by type and severity
//   - crosswind_pipeline_optimizations_total: optimization actions applied
type PipelineMetrics struct {
	runsTotal          *prometheus.CounterVec
	runDuration        *prometheus.HistogramVec
	lastRun            *prometheus.GaugeVec
	campaignsCollected *prometheus.CounterVec
	alertsFired        *prometheus.CounterVec
	optimizations      *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers pipeline metrics with the provided registry.
func NewPipelineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PipelineMetrics {
	pm := &PipelineMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total number of pipeline job executions",
			},
			[]string{"job", "status"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "run_duration_seconds",
				Help:      "Duration of pipeline job executions in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"job"},
		),

		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix timestamp of the most recent run per job",
			},
			[]string{"job"},
		),

		campaignsCollected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "campaigns_collected_total",
				Help:      "Total number of campaigns collected per platform",
			},
			[]string{"platform"},
		),

		alertsFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "alerts_fired_total",
				Help:      "Total number of alerts raised by type and severity",
			},
			[]string{"type", "severity"},
		),

		optimizations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "pipeline",
				Name:      "optimizations_total",
				Help:      "Total number of optimization actions applied",
			},
			[]string{"action"},
		),
	}

	registry.MustRegister(
		pm.runsTotal,
		pm.runDuration,
		pm.lastRun,
		pm.campaignsCollected,
		pm.alertsFired,
		pm.optimizations,
	)

	return pm
}

// RecordRun records a completed pipeline job execution.
func (pm *PipelineMetrics) RecordRun(job string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}

	pm.runsTotal.WithLabelValues(job, status).Inc()
	pm.runDuration.WithLabelValues(job).Observe(duration.Seconds())
	pm.lastRun.WithLabelValues(job).SetToCurrentTime()
}

// RecordCampaigns records campaigns collected for a platform.
func (pm *PipelineMetrics) RecordCampaigns(platform string, count int) {
	pm.campaignsCollected.WithLabelValues(platform).Add(float64(count))
}

// RecordAlert records a fired alert.
func (pm *PipelineMetrics) RecordAlert(alertType, severity string) {
	pm.alertsFired.WithLabelValues(alertType, severity).Inc()
}

// RecordOptimization records an applied optimization action.
func (pm *PipelineMetrics) RecordOptimization(action string) {
	pm.optimizations.WithLabelValues(action).Inc()
}
