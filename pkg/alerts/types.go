package alerts

import (
	"fmt"
	"strconv"
	"time"
)

// AlertType classifies what an alert is about.
type AlertType string

const (
	TypeBudget      AlertType = "budget"
	TypePerformance AlertType = "performance"
	TypeSystem      AlertType = "system"
	TypeAnomaly     AlertType = "anomaly"
)

// Severity ranks how urgent an alert is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one threshold violation observed on a campaign.
type Alert struct {
	Type      AlertType `json:"alert_type"`
	Severity  Severity  `json:"severity"`
	Metric    string    `json:"metric_name"`
	Value     float64   `json:"current_value"`
	Threshold float64   `json:"threshold_value"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Key identifies an alert for dedup purposes. Two alerts with the same
// type, metric and value are considered the same event.
func (a *Alert) Key() string {
	return fmt.Sprintf("%s_%s_%s", a.Type, a.Metric, strconv.FormatFloat(a.Value, 'g', -1, 64))
}
