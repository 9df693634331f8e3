package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"meridian-hq/crosswind/pkg/adstore"
	"meridian-hq/crosswind/pkg/alerts"
	"meridian-hq/crosswind/pkg/collector"
	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/reports"
	"meridian-hq/crosswind/pkg/store"
	"meridian-hq/crosswind/pkg/telemetry/metrics"
)

// pipelineMetric builds a raw record whose derived rates come out of
// Finalize as CTR = clicks/100 percent and ROAS = revenue/100.
func pipelineMetric(campaignID, platform string, clicks int64, revenue float64) *store.MetricRecord {
	return &store.MetricRecord{
		CampaignID:       campaignID,
		CampaignName:     campaignID,
		Platform:         platform,
		Timestamp:        time.Now().UTC().Add(-time.Hour),
		Impressions:      10000,
		Clicks:           clicks,
		Conversions:      20,
		DailySpend:       100,
		DailyBudgetLimit: 200,
		Revenue:          revenue,
		CPC:              0.5,
	}
}

func newTestPipeline(t *testing.T, withReports bool) (*Pipeline, *store.MemoryStore, *adstore.MemoryLibrary, string) {
	t.Helper()

	st := store.NewMemoryStore()
	sources, err := collector.MockSources([]string{"google_ads", "meta", "linkedin"}, 2, 42)
	if err != nil {
		t.Fatalf("building mock sources: %v", err)
	}
	library := adstore.NewMemoryLibrary()

	comps := Components{
		Store:     st,
		Collector: collector.New(st, sources, slog.Default()),
		Alerts:    alerts.New(nil, nil, slog.Default()),
		Insights:  insights.NewAgent(nil, 3.0, slog.Default()),
		Optimizer: optimizer.New(st, nil, slog.Default()),
		Library:   library,
		Metrics:   metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "crosswind"}, nil),
	}

	dir := ""
	if withReports {
		dir = t.TempDir()
		gen, err := reports.NewGenerator(dir, slog.Default())
		if err != nil {
			t.Fatalf("building report generator: %v", err)
		}
		comps.Reports = gen
	}

	return New(comps, slog.Default()), st, library, dir
}

func seedMetrics(t *testing.T, st *store.MemoryStore, records ...*store.MetricRecord) {
	t.Helper()
	if _, err := st.InsertMetrics(context.Background(), records); err != nil {
		t.Fatalf("seeding metrics: %v", err)
	}
}

func TestPipeline_Collect(t *testing.T) {
	p, st, _, _ := newTestPipeline(t, false)

	result, err := p.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if result.Total != 6 {
		t.Errorf("total collected = %d, want 6", result.Total)
	}
	if len(result.Campaigns) != 3 {
		t.Errorf("platforms collected = %d, want 3", len(result.Campaigns))
	}
	for _, platform := range []string{"google_ads", "meta", "linkedin"} {
		if result.Campaigns[platform] != 2 {
			t.Errorf("%s collected = %d, want 2", platform, result.Campaigns[platform])
		}
	}

	if st.Size() != 6 {
		t.Errorf("store holds %d records, want 6", st.Size())
	}
}

func TestPipeline_Insights_WritesReport(t *testing.T) {
	p, st, _, dir := newTestPipeline(t, true)
	seedMetrics(t, st,
		pipelineMetric("google_ads_camp_001", "google_ads", 400, 500),
		pipelineMetric("meta_camp_001", "meta", 100, 100),
	)

	report, path, err := p.Insights(context.Background())
	if err != nil {
		t.Fatalf("Insights failed: %v", err)
	}

	if report.GeneratedBy != insights.SourceTemplate {
		t.Errorf("generated_by = %q, want %q", report.GeneratedBy, insights.SourceTemplate)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("insight report written outside output dir: %s", path)
	}
	if filepath.Base(path) != report.ReportID+".json" {
		t.Errorf("insight file = %s, want %s.json", filepath.Base(path), report.ReportID)
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
		t.Errorf("decoded report id = %q, want %q", decoded.ReportID, report.ReportID)
	}
}

func TestPipeline_Insights_NoGenerator(t *testing.T) {
	p, st, _, _ := newTestPipeline(t, false)
	seedMetrics(t, st, pipelineMetric("google_ads_camp_001", "google_ads", 400, 500))

	report, path, err := p.Insights(context.Background())
	if err != nil {
		t.Fatalf("Insights failed: %v", err)
	}
	if report == nil {
		t.Fatal("Insights returned nil report")
	}
	if path != "" {
		t.Errorf("path = %q, want empty without a report generator", path)
	}
}

func TestPipeline_Optimize_NoMetrics(t *testing.T) {
	p, _, _, _ := newTestPipeline(t, false)

	result, err := p.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if len(result.Adjustments) != 0 {
		t.Errorf("adjustments = %d, want 0", len(result.Adjustments))
	}
	if result.BudgetPlan != nil {
		t.Error("expected nil budget plan without metrics")
	}
	if result.HighPerformers != 0 {
		t.Errorf("high performers = %d, want 0", result.HighPerformers)
	}
	if result.Patterns != nil {
		t.Error("expected nil patterns for empty library")
	}
}

func TestPipeline_Optimize_HighPerformers(t *testing.T) {
	p, st, library, _ := newTestPipeline(t, false)
	seedMetrics(t, st,
		pipelineMetric("google_ads_camp_001", "google_ads", 400, 500), // CTR 4.0, ROAS 5.0
		pipelineMetric("meta_camp_001", "meta", 350, 400),             // CTR 3.5, ROAS 4.0
		pipelineMetric("linkedin_camp_001", "linkedin", 100, 100),     // CTR 1.0, ROAS 1.0
	)

	result, err := p.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if result.HighPerformers != 2 {
		t.Errorf("high performers = %d, want 2", result.HighPerformers)
	}
	if library.Size() != 2 {
		t.Errorf("library holds %d ads, want 2", library.Size())
	}

	top, err := library.TopPerformers(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("TopPerformers failed: %v", err)
	}
	if len(top) != 2 || top[0].ID != "google_ads_camp_001_ad" {
		t.Fatalf("unexpected top performers: %+v", top)
	}
	if top[0].Headline != "High Performing Ad" || top[0].CTA != "Learn More" {
		t.Errorf("unexpected placeholder creative: %+v", top[0])
	}
	if top[0].CTR != 4.0 || top[0].ROAS != 5.0 {
		t.Errorf("stored rates = %.1f/%.1f, want 4.0/5.0", top[0].CTR, top[0].ROAS)
	}

	if result.BudgetPlan == nil {
		t.Fatal("expected a budget plan")
	}
	if result.BudgetPlan.TotalBudget != 600 {
		t.Errorf("total budget = %.0f, want 600", result.BudgetPlan.TotalBudget)
	}

	if result.Patterns == nil || result.Patterns.TotalAdsAnalyzed != 2 {
		t.Errorf("unexpected patterns: %+v", result.Patterns)
	}

	// One record per campaign is below the optimizer's history floor.
	if len(result.Adjustments) != 0 {
		t.Errorf("adjustments = %d, want 0 with thin history", len(result.Adjustments))
	}
}

func TestPipeline_Report(t *testing.T) {
	p, st, _, dir := newTestPipeline(t, true)
	seedMetrics(t, st,
		pipelineMetric("google_ads_camp_001", "google_ads", 400, 500),
		pipelineMetric("meta_camp_001", "meta", 350, 400),
		pipelineMetric("linkedin_camp_001", "linkedin", 100, 100),
	)

	result, err := p.Report(context.Background(), 0)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if result.Insights == nil {
		t.Fatal("report result missing insights")
	}
	if result.Summary == nil {
		t.Fatal("report result missing summary")
	}
	if result.Summary.KPIs.TotalCampaigns != 3 {
		t.Errorf("total campaigns = %d, want 3", result.Summary.KPIs.TotalCampaigns)
	}

	for _, path := range []string{result.HTMLPath, result.SummaryPath} {
		if filepath.Dir(path) != dir {
			t.Errorf("report artifact outside output dir: %s", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("report artifact missing: %v", err)
		}
	}
	if !strings.HasSuffix(result.HTMLPath, ".html") {
		t.Errorf("html path = %s", result.HTMLPath)
	}
	if !strings.HasSuffix(result.SummaryPath, ".json") {
		t.Errorf("summary path = %s", result.SummaryPath)
	}
}

func TestPipeline_Report_NoGenerator(t *testing.T) {
	p, st, _, _ := newTestPipeline(t, false)
	seedMetrics(t, st, pipelineMetric("google_ads_camp_001", "google_ads", 400, 500))

	result, err := p.Report(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if result.Summary == nil {
		t.Fatal("expected summary without file output")
	}
	if result.HTMLPath != "" || result.SummaryPath != "" {
		t.Errorf("expected no artifact paths, got %q / %q", result.HTMLPath, result.SummaryPath)
	}
}

func TestPipeline_RunOnce(t *testing.T) {
	p, st, _, dir := newTestPipeline(t, true)

	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	if st.Size() == 0 {
		t.Error("store empty after full run")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading output dir: %v", err)
	}
	// Insight JSON, HTML report, summary JSON.
	if len(entries) < 3 {
		t.Errorf("output dir holds %d files, want at least 3", len(entries))
	}
}

func TestPipeline_Jobs(t *testing.T) {
	p, _, _, _ := newTestPipeline(t, false)

	cfg := &config.SchedulerConfig{
		PipelineSchedule:     "*/30 * * * *",
		OptimizationSchedule: "0 */2 * * *",
		ReportSchedule:       "0 6 * * *",
	}

	jobs := p.Jobs(cfg)
	if len(jobs) != 3 {
		t.Fatalf("jobs = %d, want 3", len(jobs))
	}

	want := map[string]string{
		"pipeline":     "*/30 * * * *",
		"optimization": "0 */2 * * *",
		"report":       "0 6 * * *",
	}
	for _, job := range jobs {
		schedule, ok := want[job.Name]
		if !ok {
			t.Errorf("unexpected job %q", job.Name)
			continue
		}
		if job.Schedule != schedule {
			t.Errorf("job %q schedule = %q, want %q", job.Name, job.Schedule, schedule)
		}
		if job.Run == nil {
			t.Errorf("job %q has no run function", job.Name)
		}
	}
}

func TestPipeline_ScheduledPipelineInsightGate(t *testing.T) {
	p, _, _, dir := newTestPipeline(t, true)

	countInsightFiles := func() int {
		t.Helper()
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("reading output dir: %v", err)
		}
		n := 0
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), ".json") {
				n++
			}
		}
		return n
	}

	now := time.Now()

	// Hour 9 is off-cadence: collection only, no insight report.
	p.now = func() time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, time.Local)
	}
	if err := p.runScheduledPipeline(context.Background()); err != nil {
		t.Fatalf("scheduled pipeline failed: %v", err)
	}
	if got := countInsightFiles(); got != 0 {
		t.Errorf("insight files after off-cadence run = %d, want 0", got)
	}

	// Hour 8 is on the four-hour cadence.
	p.now = func() time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, time.Local)
	}
	if err := p.runScheduledPipeline(context.Background()); err != nil {
		t.Fatalf("scheduled pipeline failed: %v", err)
	}
	if got := countInsightFiles(); got != 1 {
		t.Errorf("insight files after on-cadence run = %d, want 1", got)
	}
}
