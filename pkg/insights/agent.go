package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"meridian-hq/crosswind/pkg/genai"
	"meridian-hq/crosswind/pkg/store"
	"meridian-hq/crosswind/pkg/usage"
)

// Generator is the metered generative path the agent needs.
// *genai.MeteredClient satisfies it.
type Generator interface {
	Available() bool
	GenerateJSON(ctx context.Context, component usage.Component, prompt string, v any) (*genai.Result, error)
}

// modelInsights is the JSON payload the model is asked to produce.
type modelInsights struct {
	Summary          string            `json:"summary"`
	Recommendations  []string          `json:"recommendations"`
	PlatformInsights map[string]string `json:"platform_insights"`
	Patterns         []string          `json:"patterns"`
}

// Agent turns campaign metrics into an insight report, through the
// generative endpoint when one is configured and through templates
// otherwise. Model failures of any kind degrade to the template path;
// AnalyzePerformance always returns a report.
type Agent struct {
	client     Generator
	targetROAS float64
	logger     *slog.Logger
}

// NewAgent creates an insight agent. client may be nil for a pure
// template agent; a non-positive targetROAS falls back to 3.0.
func NewAgent(client Generator, targetROAS float64, logger *slog.Logger) *Agent {
	if targetROAS <= 0 {
		targetROAS = 3.0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		client:     client,
		targetROAS: targetROAS,
		logger:     logger.With("component", "insights"),
	}
}

// AnalyzePerformance aggregates the metrics and generates a report.
func (a *Agent) AnalyzePerformance(ctx context.Context, metrics []*store.MetricRecord) *Report {
	stats := Analyze(metrics)
	periodStart, periodEnd := period(metrics)

	if a.client != nil && a.client.Available() {
		report, err := a.modelReport(ctx, stats, periodStart, periodEnd)
		if err == nil {
			return report
		}
		a.logger.Error("model insight generation failed, using template", "error", err)
	} else {
		a.logger.Info("generative endpoint unavailable, using template insights")
	}

	return a.templateReport(stats, periodStart, periodEnd)
}

func (a *Agent) modelReport(ctx context.Context, stats *Statistics, periodStart, periodEnd time.Time) (*Report, error) {
	prompt, err := buildPrompt(stats)
	if err != nil {
		return nil, err
	}

	var payload modelInsights
	if _, err := a.client.GenerateJSON(ctx, usage.ComponentInsightAgent, prompt, &payload); err != nil {
		return nil, err
	}

	if payload.Summary == "" {
		payload.Summary = fmt.Sprintf("Analyzed %d campaigns", stats.TotalCampaigns)
	}
	if payload.Recommendations == nil {
		payload.Recommendations = []string{}
	}
	if payload.Patterns == nil {
		payload.Patterns = []string{}
	}
	if payload.PlatformInsights == nil {
		payload.PlatformInsights = map[string]string{}
	}

	return &Report{
		ReportID:         newReportID(),
		Timestamp:        time.Now().UTC(),
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		Summary:          payload.Summary,
		KeyMetrics:       stats,
		Recommendations:  payload.Recommendations,
		PlatformInsights: payload.PlatformInsights,
		Patterns:         payload.Patterns,
		GeneratedBy:      SourceModel,
	}, nil
}

func (a *Agent) templateReport(stats *Statistics, periodStart, periodEnd time.Time) *Report {
	recommendations := []string{}
	patterns := []string{}

	if best := bestPlatform(stats.PlatformBreakdown); best != "" {
		recommendations = append(recommendations, fmt.Sprintf("Increase budget allocation to %s - highest ROAS", best))
		patterns = append(patterns, fmt.Sprintf("%s shows strongest performance", best))
	}

	if stats.AvgCTR < 2.0 {
		recommendations = append(recommendations, "CTR below 2% - test new ad creatives and headlines")
	}
	if stats.OverallROAS < a.targetROAS {
		recommendations = append(recommendations, "ROAS below target - review targeting and bidding strategy")
	}
	if len(recommendations) > 3 {
		recommendations = recommendations[:3]
	}

	return &Report{
		ReportID:         newReportID(),
		Timestamp:        time.Now().UTC(),
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		Summary:          fmt.Sprintf("Analyzed %d campaigns with $%.2f spend", stats.TotalCampaigns, stats.TotalSpend),
		KeyMetrics:       stats,
		Recommendations:  recommendations,
		PlatformInsights: map[string]string{},
		Patterns:         patterns,
		GeneratedBy:      SourceTemplate,
	}
}

// buildPrompt renders the JSON-constrained analysis prompt.
func buildPrompt(stats *Statistics) (string, error) {
	statsJSON, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal statistics: %w", err)
	}

	return fmt.Sprintf(`Analyze these B2B campaign metrics and provide actionable insights:

Statistics:
%s

Requirements:
1. Identify the best and worst performing platforms
2. Find patterns in high-performing campaigns
3. Suggest 3 specific optimization actions
4. Note any concerning trends

Keep insights specific to B2B tech companies with long sales cycles.

Return ONLY a valid JSON object with these exact keys (no markdown, no extra text):
{
"summary": "one line summary of performance",
"recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"],
"platform_insights": {"google_ads": "insight", "meta": "insight", "linkedin": "insight"},
"patterns": ["pattern 1", "pattern 2"]
}`, statsJSON), nil
}

// bestPlatform picks the platform with the highest revenue-to-spend
// ratio. Keys are visited in sorted order so ties break
// deterministically.
func bestPlatform(breakdown map[string]PlatformStats) string {
	platforms := make([]string, 0, len(breakdown))
	for platform := range breakdown {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	var best string
	var bestRatio float64
	for _, platform := range platforms {
		p := breakdown[platform]
		spend := p.Spend
		if spend < 1 {
			spend = 1
		}
		ratio := p.Revenue / spend
		if best == "" || ratio > bestRatio {
			best = platform
			bestRatio = ratio
		}
	}
	return best
}

// period returns the metric timestamp bounds, or now for both when
// there are no metrics.
func period(metrics []*store.MetricRecord) (time.Time, time.Time) {
	now := time.Now().UTC()
	if len(metrics) == 0 {
		return now, now
	}

	start, end := metrics[0].Timestamp, metrics[0].Timestamp
	for _, m := range metrics[1:] {
		if m.Timestamp.Before(start) {
			start = m.Timestamp
		}
		if m.Timestamp.After(end) {
			end = m.Timestamp
		}
	}
	return start, end
}

func newReportID() string {
	return "report_" + time.Now().UTC().Format("20060102_150405")
}
