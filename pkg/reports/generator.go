package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"meridian-hq/crosswind/pkg/copywriter"
	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/store"
)

// Generator renders campaign reports for stakeholder distribution: an
// HTML report and a machine-readable JSON summary, both written to the
// output directory.
type Generator struct {
	outputDir string
	tmpl      *template.Template
	logger    *slog.Logger
}

// NewGenerator creates a report generator writing into outputDir,
// creating the directory when missing.
func NewGenerator(outputDir string, logger *slog.Logger) (*Generator, error) {
	if outputDir == "" {
		outputDir = "reports"
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}

	return &Generator{
		outputDir: outputDir,
		tmpl:      tmpl,
		logger:    logger.With("component", "reports"),
	}, nil
}

// campaignRow is one pre-formatted line of the recent-campaigns table.
type campaignRow struct {
	CampaignID string
	Platform   string
	CTR        string
	ROAS       string
	Spend      string
	Status     string
}

// htmlContext is the template's view of the report data.
type htmlContext struct {
	ReportDate         string
	PeriodStart        string
	PeriodEnd          string
	Summary            string
	KPIs               KPIs
	Recommendations    []string
	Patterns           []string
	Platforms          map[string]PlatformTotals
	Campaigns          []campaignRow
	Adjustments        []*optimizer.Adjustment
	BudgetPlan         *optimizer.BudgetPlan
	TopPerformer       *store.MetricRecord
	SuggestionPlatform string
	AdSuggestions      *copywriter.Variations
}

// RenderHTML renders the report without touching disk.
func (g *Generator) RenderHTML(data *Data) ([]byte, error) {
	if data == nil || data.Insights == nil {
		return nil, fmt.Errorf("report data requires insights")
	}

	top := topPerformer(data.Metrics)
	suggestionPlatform := "google_ads"
	if top != nil {
		suggestionPlatform = top.Platform
	}

	ctx := htmlContext{
		ReportDate:         time.Now().Format("2006-01-02 15:04"),
		PeriodStart:        data.Insights.PeriodStart.Format("2006-01-02"),
		PeriodEnd:          data.Insights.PeriodEnd.Format("2006-01-02"),
		Summary:            data.Insights.Summary,
		KPIs:               buildKPIs(data.Metrics),
		Recommendations:    data.Insights.Recommendations,
		Patterns:           data.Insights.Patterns,
		Platforms:          platformBreakdown(data.Metrics),
		Campaigns:          campaignRows(data.Metrics),
		Adjustments:        data.Adjustments,
		BudgetPlan:         data.BudgetPlan,
		TopPerformer:       top,
		SuggestionPlatform: suggestionPlatform,
		AdSuggestions:      copywriter.TemplateVariations(suggestionPlatform),
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "report.html", ctx); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// HTMLReport renders the report and writes it to the output directory.
// It returns the file path.
func (g *Generator) HTMLReport(data *Data) (string, error) {
	html, err := g.RenderHTML(data)
	if err != nil {
		return "", err
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("report_%s.html", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	g.logger.Info("generated HTML report", "path", path)
	return path, nil
}

// BuildSummary assembles the JSON summary without touching disk.
func BuildSummary(data *Data) *Summary {
	recommendations := data.Insights.Recommendations
	if len(recommendations) > 3 {
		recommendations = recommendations[:3]
	}

	return &Summary{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Period: Period{
			Start: data.Insights.PeriodStart,
			End:   data.Insights.PeriodEnd,
		},
		ExecutiveSummary:   data.Insights.Summary,
		KPIs:               buildKPIs(data.Metrics),
		TopRecommendations: recommendations,
		PlatformBreakdown:  platformBreakdown(data.Metrics),
		AlertsSummary:      alertsSummary(data.Metrics),
	}
}

// SummaryJSON assembles the summary and writes it to the output
// directory. It returns the summary and the file path.
func (g *Generator) SummaryJSON(data *Data) (*Summary, string, error) {
	if data == nil || data.Insights == nil {
		return nil, "", fmt.Errorf("report data requires insights")
	}

	summary := BuildSummary(data)

	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("summary_%s.json", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return nil, "", fmt.Errorf("failed to write summary: %w", err)
	}

	g.logger.Info("generated JSON summary", "path", path)
	return summary, path, nil
}

// InsightsJSON writes an insight report to the output directory as
// <report_id>.json. It returns the file path.
func (g *Generator) InsightsJSON(report *insights.Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("insight report is nil")
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal insight report: %w", err)
	}

	path := filepath.Join(g.outputDir, report.ReportID+".json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write insight report: %w", err)
	}

	g.logger.Info("saved insight report", "path", path)
	return path, nil
}

// buildKPIs computes the headline numbers. Average ROAS is
// revenue-weighted rather than a mean of per-campaign ratios.
func buildKPIs(metrics []*store.MetricRecord) KPIs {
	kpis := KPIs{TotalCampaigns: len(metrics)}
	if len(metrics) == 0 {
		return kpis
	}

	var revenue, sumCTR float64
	for _, m := range metrics {
		kpis.TotalSpend += m.DailySpend
		revenue += m.Revenue
		sumCTR += m.CTR
	}

	if kpis.TotalSpend > 0 {
		kpis.AvgROAS = revenue / kpis.TotalSpend
	}
	kpis.AvgCTR = sumCTR / float64(len(metrics))
	return kpis
}

// topPerformer returns the metric with the highest ROAS, or nil.
func topPerformer(metrics []*store.MetricRecord) *store.MetricRecord {
	var best *store.MetricRecord
	for _, m := range metrics {
		if best == nil || m.ROAS > best.ROAS {
			best = m
		}
	}
	return best
}

// campaignRows formats the first ten metrics for the report table.
func campaignRows(metrics []*store.MetricRecord) []campaignRow {
	if len(metrics) > 10 {
		metrics = metrics[:10]
	}

	rows := make([]campaignRow, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, campaignRow{
			CampaignID: m.CampaignID,
			Platform:   m.Platform,
			CTR:        fmt.Sprintf("%.2f%%", m.CTR),
			ROAS:       fmt.Sprintf("%.2f", m.ROAS),
			Spend:      fmt.Sprintf("$%.2f", m.DailySpend),
			Status:     campaignStatus(m.ROAS),
		})
	}
	return rows
}

// campaignStatus buckets a campaign by its ROAS.
func campaignStatus(roas float64) string {
	switch {
	case roas >= 4:
		return "excellent"
	case roas >= 3:
		return "good"
	case roas >= 2:
		return "fair"
	default:
		return "needs_attention"
	}
}

// platformBreakdown aggregates spend, revenue, and ROAS per platform.
func platformBreakdown(metrics []*store.MetricRecord) map[string]PlatformTotals {
	platforms := map[string]PlatformTotals{}
	for _, m := range metrics {
		p := platforms[m.Platform]
		p.Count++
		p.Spend += m.DailySpend
		p.Revenue += m.Revenue
		platforms[m.Platform] = p
	}

	for name, p := range platforms {
		if p.Spend > 0 {
			p.ROAS = p.Revenue / p.Spend
		}
		platforms[name] = p
	}
	return platforms
}

// alertsSummary counts campaigns in alert territory: budget utilization
// above 80%, ROAS under 2, CTR under 1%.
func alertsSummary(metrics []*store.MetricRecord) AlertsSummary {
	byType := map[string][]string{
		"high_spend": {},
		"low_roas":   {},
		"low_ctr":    {},
	}

	for _, m := range metrics {
		if m.BudgetUtilization > 80 {
			byType["high_spend"] = append(byType["high_spend"], m.CampaignID)
		}
		if m.ROAS < 2 {
			byType["low_roas"] = append(byType["low_roas"], m.CampaignID)
		}
		if m.CTR < 1 {
			byType["low_ctr"] = append(byType["low_ctr"], m.CampaignID)
		}
	}

	total := 0
	for _, ids := range byType {
		total += len(ids)
	}

	return AlertsSummary{
		TotalAlerts: total,
		ByType:      byType,
	}
}
