package usage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the usage ledger. All
// series live under crosswind_usage_*. Construct one Metrics per
// registry and share it; registering the same instruments twice on one
// registry panics.
type Metrics struct {
	calls          *prometheus.CounterVec
	tokens         *prometheus.CounterVec
	cost           prometheus.Counter
	waits          *prometheus.CounterVec
	waitSeconds    *prometheus.HistogramVec
	snapshotWrites *prometheus.CounterVec
	currentRPM     prometheus.Gauge
	currentTPM     prometheus.Gauge
}

// NewMetrics creates and registers the ledger instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "crosswind",
				Subsystem: "usage",
				Name:      "calls_total",
				Help:      "External generative calls recorded, by component and result.",
			},
			[]string{"component", "result"},
		),
		tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "crosswind",
				Subsystem: "usage",
				Name:      "tokens_total",
				Help:      "Tokens consumed by successful calls, by component and direction.",
			},
			[]string{"component", "direction"},
		),
		cost: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "crosswind",
				Subsystem: "usage",
				Name:      "cost_dollars_total",
				Help:      "Estimated spend in dollars across all successful calls.",
			},
		),
		waits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "crosswind",
				Subsystem: "usage",
				Name:      "admit_waits_total",
				Help:      "Admissions that had to wait, by exhausted budget.",
			},
			[]string{"budget"},
		),
		waitSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "crosswind",
				Subsystem: "usage",
				Name:      "admit_wait_seconds",
				Help:      "Duration of admission waits in seconds.",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"budget"},
		),
		snapshotWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "crosswind",
				Subsystem: "usage",
				Name:      "snapshot_writes_total",
				Help:      "Snapshot persistence attempts, by result.",
			},
			[]string{"result"},
		),
		currentRPM: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "crosswind",
				Subsystem: "usage",
				Name:      "current_rpm",
				Help:      "Requests currently inside the rolling one-minute window.",
			},
		),
		currentTPM: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "crosswind",
				Subsystem: "usage",
				Name:      "current_tpm",
				Help:      "Token weight currently inside the rolling one-minute window.",
			},
		),
	}
}

// RecordCall counts one recorded call.
func (m *Metrics) RecordCall(component string, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	m.calls.WithLabelValues(component, result).Inc()
}

// RecordTokens counts the token consumption of one successful call.
func (m *Metrics) RecordTokens(component string, inputTokens, outputTokens uint64) {
	m.tokens.WithLabelValues(component, "input").Add(float64(inputTokens))
	m.tokens.WithLabelValues(component, "output").Add(float64(outputTokens))
}

// RecordCost adds the estimated dollar cost of one successful call.
func (m *Metrics) RecordCost(dollars float64) {
	m.cost.Add(dollars)
}

// RecordWait counts one admission wait against the named budget
// ("rpm" or "tpm") and observes its duration.
func (m *Metrics) RecordWait(budget string, wait time.Duration) {
	m.waits.WithLabelValues(budget).Inc()
	m.waitSeconds.WithLabelValues(budget).Observe(wait.Seconds())
}

// RecordSnapshot counts one snapshot persistence attempt.
func (m *Metrics) RecordSnapshot(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	m.snapshotWrites.WithLabelValues(result).Inc()
}

// UpdateWindows publishes the live window occupancy.
func (m *Metrics) UpdateWindows(rpm, tpm int64) {
	m.currentRPM.Set(float64(rpm))
	m.currentTPM.Set(float64(tpm))
}
