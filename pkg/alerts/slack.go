package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Slack webhook payload types.

type slackMessage struct {
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color,omitempty"`
	Fields []slackField `json:"fields"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SlackNotifier posts alerts to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier creates a notifier for the given webhook URL. A zero
// timeout defaults to 10 seconds.
func NewSlackNotifier(webhookURL string, timeout time.Duration, logger *slog.Logger) *SlackNotifier {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
		logger:     logger.With("component", "alerts.slack"),
	}
}

// Send posts the alert to the webhook.
func (s *SlackNotifier) Send(ctx context.Context, alert *Alert) error {
	body, err := json.Marshal(buildSlackMessage(alert))
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack notification failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func buildSlackMessage(alert *Alert) *slackMessage {
	icon := "📊"
	color := ""
	switch alert.Severity {
	case SeverityInfo:
		icon, color = "ℹ️", "good"
	case SeverityWarning:
		icon, color = "⚠️", "warning"
	case SeverityCritical:
		icon, color = "🔴", "danger"
	}

	return &slackMessage{
		Text: fmt.Sprintf("%s %s", icon, alert.Message),
		Attachments: []slackAttachment{{
			Color: color,
			Fields: []slackField{
				{Title: "Metric", Value: alert.Metric, Short: true},
				{Title: "Current", Value: fmt.Sprintf("%.2f", alert.Value), Short: true},
				{Title: "Threshold", Value: fmt.Sprintf("%.2f", alert.Threshold), Short: true},
				{Title: "Type", Value: string(alert.Type), Short: true},
			},
		}},
	}
}
