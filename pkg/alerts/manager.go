package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/store"
)

// Notifier delivers one alert to an external channel.
type Notifier interface {
	Send(ctx context.Context, alert *Alert) error
}

// Manager evaluates campaign metrics against thresholds and dispatches
// notifications for new alerts. Safe for concurrent use; the scheduler
// and the HTTP surface share one manager so dedup state is global.
type Manager struct {
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	config   *config.AlertsConfig
	sentKeys []string
	history  []*Alert
}

// New creates a manager. A nil config uses the package defaults; a nil
// notifier means alerts are logged and recorded but not delivered.
func New(cfg *config.AlertsConfig, notifier Notifier, logger *slog.Logger) *Manager {
	if cfg == nil {
		cfg = &config.AlertsConfig{
			BudgetUtilizationThreshold: config.DefaultBudgetUtilizationThreshold,
			ROASThreshold:              config.DefaultROASThreshold,
			MaxHistory:                 config.DefaultAlertMaxHistory,
			HistoryTrim:                config.DefaultAlertHistoryTrim,
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		config:   cfg,
		notifier: notifier,
		logger:   logger.With("component", "alerts"),
	}
}

// UpdateThresholds replaces the evaluation thresholds and history
// bounds. Recorded history and dedup state carry over; only future
// evaluations change. Used by config hot-reload; a nil cfg is ignored.
func (m *Manager) UpdateThresholds(cfg *config.AlertsConfig) {
	if cfg == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
}

// CheckMetrics evaluates the metrics, records the resulting alerts in
// history and dispatches notifications for ones not recently sent. The
// full alert list is returned regardless of notification outcome.
func (m *Manager) CheckMetrics(ctx context.Context, metrics []*store.MetricRecord) []*Alert {
	alerts := m.Evaluate(metrics)

	m.record(alerts)
	m.notify(ctx, alerts)

	return alerts
}

// Evaluate runs the threshold checks without touching dedup state or
// sending anything. Thresholds are read once at entry, so a reload
// mid-evaluation cannot mix old and new values in one pass.
func (m *Manager) Evaluate(metrics []*store.MetricRecord) []*Alert {
	m.mu.Lock()
	budgetThreshold := m.config.BudgetUtilizationThreshold
	roasThreshold := m.config.ROASThreshold
	m.mu.Unlock()

	now := time.Now().UTC()
	var alerts []*Alert

	for _, metric := range metrics {
		if metric.BudgetUtilization > budgetThreshold {
			alerts = append(alerts, &Alert{
				Type:      TypeBudget,
				Severity:  SeverityWarning,
				Metric:    "budget_utilization",
				Value:     metric.BudgetUtilization,
				Threshold: budgetThreshold,
				Message:   fmt.Sprintf("Campaign %s at %.1f%% budget", metric.CampaignID, metric.BudgetUtilization),
				Timestamp: now,
			})
		}

		if metric.ROAS < roasThreshold {
			alerts = append(alerts, &Alert{
				Type:      TypePerformance,
				Severity:  SeverityWarning,
				Metric:    "roas",
				Value:     metric.ROAS,
				Threshold: roasThreshold,
				Message:   fmt.Sprintf("Campaign %s ROAS below target: %.2f", metric.CampaignID, metric.ROAS),
				Timestamp: now,
			})
		}
	}

	return alerts
}

// History returns a copy of the recorded alerts, newest last.
func (m *Manager) History() []*Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Alert, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Manager) record(alerts []*Alert) {
	if len(alerts) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, alerts...)
	if len(m.history) > m.config.MaxHistory {
		m.history = append([]*Alert(nil), m.history[len(m.history)-m.config.HistoryTrim:]...)
	}
}

func (m *Manager) notify(ctx context.Context, alerts []*Alert) {
	if m.notifier == nil {
		if len(alerts) > 0 {
			m.logger.Info("no notifier configured, alerts logged only", "count", len(alerts))
		}
		return
	}

	for _, alert := range alerts {
		key := alert.Key()
		if m.recentlySent(key) {
			continue
		}

		if err := m.notifier.Send(ctx, alert); err != nil {
			m.logger.Error("alert notification failed", "error", err, "message", alert.Message)
		} else {
			m.logger.Info("alert sent", "message", alert.Message)
		}

		// Mark as sent either way so a flapping notifier does not
		// spam the channel with the same event.
		m.markSent(key)
	}
}

func (m *Manager) recentlySent(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range m.sentKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (m *Manager) markSent(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentKeys = append(m.sentKeys, key)
	if len(m.sentKeys) > m.config.MaxHistory {
		m.sentKeys = append([]string(nil), m.sentKeys[len(m.sentKeys)-m.config.HistoryTrim:]...)
	}
}
