package reports

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/store"
)

func reportMetric(id, platform string, spend, revenue, ctr, roas, utilization float64) *store.MetricRecord {
	return &store.MetricRecord{
		ID:                id,
		CampaignID:        id,
		CampaignName:      id,
		Platform:          platform,
		Timestamp:         time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
		DailySpend:        spend,
		Revenue:           revenue,
		CTR:               ctr,
		ROAS:              roas,
		BudgetUtilization: utilization,
	}
}

func reportData() *Data {
	return &Data{
		Insights: &insights.Report{
			ReportID:    "report_20250610_080000",
			Timestamp:   time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
			PeriodStart: time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
			Summary:     "Analyzed 3 campaigns with $300.00 spend",
			Recommendations: []string{
				"Increase budget allocation to meta - highest ROAS",
				"CTR below 2% - test new ad creatives and headlines",
			},
			Patterns:    []string{"meta shows strongest performance"},
			GeneratedBy: insights.SourceTemplate,
		},
		Metrics: []*store.MetricRecord{
			reportMetric("meta_camp_001", "meta", 100, 500, 3.0, 5.0, 60),
			reportMetric("google_ads_camp_001", "google_ads", 150, 300, 1.5, 2.0, 90),
			reportMetric("linkedin_camp_001", "linkedin", 50, 75, 0.5, 1.5, 40),
		},
	}
}

func newTestGenerator(t *testing.T) (*Generator, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "reports")
	g, err := NewGenerator(dir, nil)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	return g, dir
}

func TestNewGenerator_CreatesOutputDir(t *testing.T) {
	_, dir := newTestGenerator(t)

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("output dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("output path is not a directory")
	}
}

func TestRenderHTML(t *testing.T) {
	g, _ := newTestGenerator(t)

	html, err := g.RenderHTML(reportData())
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	content := string(html)

	for _, want := range []string{
		"Campaign Performance Report",
		"Analyzed 3 campaigns with $300.00 spend",
		"Increase budget allocation to meta",
		"meta shows strongest performance",
		"meta_camp_001",
		"google_ads_camp_001",
		"Period 2025-06-09 to 2025-06-10",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// meta_camp_001 has the best ROAS, so statuses and suggestions
	// follow it.
	if !strings.Contains(content, "excellent") {
		t.Error("top performer should be flagged excellent")
	}
	if !strings.Contains(content, "needs_attention") {
		t.Error("worst performer should be flagged needs_attention")
	}
	if !strings.Contains(content, "Ad Copy Suggestions (meta)") {
		t.Error("ad suggestions should target the top performer's platform")
	}
	if !strings.Contains(content, "Still Using Paper Logs?") {
		t.Error("ad suggestions should carry the meta template copy")
	}
}

func TestRenderHTML_RequiresInsights(t *testing.T) {
	g, _ := newTestGenerator(t)

	if _, err := g.RenderHTML(&Data{}); err == nil {
		t.Fatal("expected error without insights")
	}
}

func TestRenderHTML_OptimizationSections(t *testing.T) {
	g, _ := newTestGenerator(t)

	data := reportData()
	data.Adjustments = []*optimizer.Adjustment{
		{
			CampaignID:        "google_ads_camp_001",
			Platform:          "google_ads",
			CurrentBid:        0.60,
			NewBid:            0.51,
			AdjustmentPercent: -15.0,
			Reasons:           []string{"ROAS below target (2.00 < 3.00)"},
		},
	}
	data.BudgetPlan = &optimizer.BudgetPlan{
		TotalBudget: 300,
		Allocations: map[string]optimizer.BudgetAllocation{
			"meta_camp_001": {
				CurrentBudget:     100,
				RecommendedBudget: 170,
				Change:            70,
				ChangePercent:     70.0,
				PerformanceScore:  1.7,
			},
		},
	}

	html, err := g.RenderHTML(data)
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	content := string(html)

	if !strings.Contains(content, "Recommended Bid Adjustments") {
		t.Error("missing bid adjustments section")
	}
	if !strings.Contains(content, "-15.0%") {
		t.Error("missing adjustment percent")
	}
	if !strings.Contains(content, "ROAS below target (2.00 &lt; 3.00)") {
		t.Error("missing escaped adjustment reason")
	}
	if !strings.Contains(content, "Budget Reallocation") {
		t.Error("missing budget section")
	}
	if !strings.Contains(content, "+70.0%") {
		t.Error("missing budget change percent")
	}
}

func TestHTMLReport_WritesFile(t *testing.T) {
	g, dir := newTestGenerator(t)

	path, err := g.HTMLReport(reportData())
	if err != nil {
		t.Fatalf("HTMLReport failed: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("report written outside output dir: %s", path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "report_") || !strings.HasSuffix(base, ".html") {
		t.Errorf("unexpected report filename: %s", base)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file unreadable: %v", err)
	}
	if !strings.Contains(string(content), "<!DOCTYPE html>") {
		t.Error("report file is not an HTML document")
	}
}

func TestSummaryJSON(t *testing.T) {
	g, dir := newTestGenerator(t)

	data := reportData()
	data.Insights.Recommendations = []string{"one", "two", "three", "four"}

	summary, path, err := g.SummaryJSON(data)
	if err != nil {
		t.Fatalf("SummaryJSON failed: %v", err)
	}

	if _, err := uuid.Parse(summary.ReportID); err != nil {
		t.Errorf("report id is not a uuid: %q", summary.ReportID)
	}
	if summary.KPIs.TotalCampaigns != 3 {
		t.Errorf("total campaigns = %d", summary.KPIs.TotalCampaigns)
	}
	if summary.KPIs.TotalSpend != 300 {
		t.Errorf("total spend = %f", summary.KPIs.TotalSpend)
	}
	// 875 revenue over 300 spend.
	if summary.KPIs.AvgROAS < 2.916 || summary.KPIs.AvgROAS > 2.917 {
		t.Errorf("avg roas = %f", summary.KPIs.AvgROAS)
	}
	if summary.KPIs.AvgCTR < 1.666 || summary.KPIs.AvgCTR > 1.667 {
		t.Errorf("avg ctr = %f", summary.KPIs.AvgCTR)
	}
	if len(summary.TopRecommendations) != 3 {
		t.Errorf("recommendations should cap at 3, got %v", summary.TopRecommendations)
	}

	meta := summary.PlatformBreakdown["meta"]
	if meta.Count != 1 || meta.Spend != 100 || meta.Revenue != 500 || meta.ROAS != 5.0 {
		t.Errorf("unexpected meta breakdown: %+v", meta)
	}

	if summary.AlertsSummary.TotalAlerts != 3 {
		t.Errorf("total alerts = %d", summary.AlertsSummary.TotalAlerts)
	}
	if got := summary.AlertsSummary.ByType["high_spend"]; len(got) != 1 || got[0] != "google_ads_camp_001" {
		t.Errorf("high_spend = %v", got)
	}
	if got := summary.AlertsSummary.ByType["low_roas"]; len(got) != 1 || got[0] != "linkedin_camp_001" {
		t.Errorf("low_roas = %v", got)
	}
	if got := summary.AlertsSummary.ByType["low_ctr"]; len(got) != 1 || got[0] != "linkedin_camp_001" {
		t.Errorf("low_ctr = %v", got)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("summary written outside output dir: %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("summary file unreadable: %v", err)
	}
	var decoded Summary
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("summary file is not valid JSON: %v", err)
	}
	if decoded.ExecutiveSummary != data.Insights.Summary {
		t.Errorf("executive summary = %q", decoded.ExecutiveSummary)
	}
}

func TestInsightsJSON(t *testing.T) {
	g, dir := newTestGenerator(t)

	report := reportData().Insights
	path, err := g.InsightsJSON(report)
	if err != nil {
		t.Fatalf("InsightsJSON failed: %v", err)
	}

	want := filepath.Join(dir, report.ReportID+".json")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("insight file unreadable: %v", err)
	}
	var decoded insights.Report
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("insight file is not valid JSON: %v", err)
	}
	if decoded.ReportID != report.ReportID {
		t.Errorf("report id = %q, want %q", decoded.ReportID, report.ReportID)
	}
	if decoded.Summary != report.Summary {
		t.Errorf("summary = %q", decoded.Summary)
	}

	if _, err := g.InsightsJSON(nil); err == nil {
		t.Error("expected error for nil report")
	}
}

func TestBuildKPIs_Empty(t *testing.T) {
	kpis := buildKPIs(nil)
	if kpis.TotalCampaigns != 0 || kpis.TotalSpend != 0 || kpis.AvgROAS != 0 || kpis.AvgCTR != 0 {
		t.Errorf("expected zero KPIs, got %+v", kpis)
	}
}

func TestCampaignStatus(t *testing.T) {
	tests := []struct {
		roas float64
		want string
	}{
		{5.0, "excellent"},
		{4.0, "excellent"},
		{3.5, "good"},
		{3.0, "good"},
		{2.5, "fair"},
		{2.0, "fair"},
		{1.9, "needs_attention"},
		{0, "needs_attention"},
	}

	for _, tt := range tests {
		if got := campaignStatus(tt.roas); got != tt.want {
			t.Errorf("campaignStatus(%.1f) = %q, want %q", tt.roas, got, tt.want)
		}
	}
}

func TestCampaignRows_CapsAtTen(t *testing.T) {
	metrics := make([]*store.MetricRecord, 0, 12)
	for i := 0; i < 12; i++ {
		metrics = append(metrics, reportMetric("camp", "meta", 10, 20, 2, 2, 50))
	}

	rows := campaignRows(metrics)
	if len(rows) != 10 {
		t.Errorf("expected 10 rows, got %d", len(rows))
	}
}

func TestTopPerformer_Empty(t *testing.T) {
	if top := topPerformer(nil); top != nil {
		t.Errorf("expected nil top performer, got %+v", top)
	}
}
