package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"meridian-hq/crosswind/pkg/adstore"
	"meridian-hq/crosswind/pkg/alerts"
	"meridian-hq/crosswind/pkg/collector"
	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/genai"
	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/reports"
	"meridian-hq/crosswind/pkg/scheduler"
	"meridian-hq/crosswind/pkg/store"
	"meridian-hq/crosswind/pkg/telemetry/metrics"
)

const (
	// collectWindow is the trailing window platform sources report on.
	collectWindow = 24 * time.Hour

	// lookbackWindow bounds the metrics read back for optimization,
	// insights and reports.
	lookbackWindow = 24 * time.Hour

	// Admission thresholds for the ad library. Campaigns above both
	// are treated as high performers worth learning from.
	highPerformerCTR  = 3.0
	highPerformerROAS = 3.0

	// insightHourInterval gates insight generation on the scheduled
	// pipeline: insights run only when the wall-clock hour is a
	// multiple of this.
	insightHourInterval = 4
)

// Mock platform sources carry no creative text, so high performers
// enter the ad library with placeholder copy.
const (
	placeholderHeadline    = "High Performing Ad"
	placeholderDescription = "Ad description"
	placeholderCTA         = "Learn More"
)

// Components holds the wired parts the pipeline orchestrates. Store,
// Collector, Alerts, Insights, Optimizer and Library must be set.
// Reports, Client and Metrics are optional: a nil Reports skips file
// output, a nil Client skips usage logging, a nil Metrics skips
// recording.
type Components struct {
	Store     store.Store
	Collector *collector.Collector
	Alerts    *alerts.Manager
	Insights  *insights.Agent
	Optimizer *optimizer.Optimizer
	Library   adstore.Library
	Reports   *reports.Generator
	Client    *genai.MeteredClient
	Metrics   *metrics.Collector
}

// Pipeline coordinates the campaign automation flow: collect metrics,
// check alerts, generate insights, optimize bids and budgets, grow the
// ad library, and produce reports.
type Pipeline struct {
	store     store.Store
	collector *collector.Collector
	alerts    *alerts.Manager
	insights  *insights.Agent
	optimizer *optimizer.Optimizer
	library   adstore.Library
	reports   *reports.Generator
	client    *genai.MeteredClient
	metrics   *metrics.Collector
	logger    *slog.Logger

	now func() time.Time
}

// New creates a pipeline over the given components.
func New(c Components, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:     c.Store,
		collector: c.Collector,
		alerts:    c.Alerts,
		insights:  c.Insights,
		optimizer: c.Optimizer,
		library:   c.Library,
		reports:   c.Reports,
		client:    c.Client,
		metrics:   c.Metrics,
		logger:    logger.With("component", "pipeline"),
		now:       time.Now,
	}
}

// CollectResult summarizes one collection pass.
type CollectResult struct {
	// Campaigns maps platform to the number of campaign metrics
	// inserted.
	Campaigns map[string]int `json:"campaigns"`

	// Total is the sum across platforms.
	Total int `json:"total"`

	// Alerts fired while checking the collected metrics.
	Alerts []*alerts.Alert `json:"alerts"`
}

// Collect fetches campaign metrics from every platform source, stores
// them, and checks the trailing window for alert conditions.
func (p *Pipeline) Collect(ctx context.Context) (*CollectResult, error) {
	p.logger.Info("collecting campaign data")

	counts, err := p.collector.CollectAll(ctx, collectWindow)
	if err != nil {
		return nil, fmt.Errorf("collection failed: %w", err)
	}

	total := 0
	for platform, n := range counts {
		total += n
		if p.metrics != nil {
			p.metrics.RecordCampaignsCollected(platform, n)
		}
	}

	records, err := p.store.RecentMetrics(ctx, p.now().Add(-collectWindow))
	if err != nil {
		return nil, fmt.Errorf("reading collected metrics: %w", err)
	}

	var fired []*alerts.Alert
	if p.alerts != nil {
		fired = p.alerts.CheckMetrics(ctx, records)
		for _, alert := range fired {
			if p.metrics != nil {
				p.metrics.RecordAlert(string(alert.Type), string(alert.Severity))
			}
		}
	}

	if p.client != nil {
		stats := p.client.Stats()
		p.logger.Info("generative usage",
			"total_requests", stats.TotalRequests,
			"estimated_cost", stats.EstimatedCost,
		)
	}

	p.logger.Info("collection complete", "campaigns", total, "alerts", len(fired))

	return &CollectResult{Campaigns: counts, Total: total, Alerts: fired}, nil
}

// Insights analyzes the trailing window and returns the report. When a
// report generator is configured the report is also written to disk as
// <report_id>.json; the returned path is empty otherwise.
func (p *Pipeline) Insights(ctx context.Context) (*insights.Report, string, error) {
	records, err := p.store.RecentMetrics(ctx, p.now().Add(-lookbackWindow))
	if err != nil {
		return nil, "", fmt.Errorf("reading recent metrics: %w", err)
	}

	report := p.insights.AnalyzePerformance(ctx, records)

	path := ""
	if p.reports != nil {
		path, err = p.reports.InsightsJSON(report)
		if err != nil {
			return nil, "", fmt.Errorf("saving insight report: %w", err)
		}
	}

	p.logger.Info("insight report generated",
		"report_id", report.ReportID,
		"generated_by", report.GeneratedBy,
	)

	return report, path, nil
}

// OptimizeResult summarizes one optimization pass.
type OptimizeResult struct {
	// Adjustments are the recommended bid changes.
	Adjustments []*optimizer.Adjustment `json:"adjustments"`

	// BudgetPlan reallocates the combined daily budget across
	// campaigns. Nil when there were no metrics to work from.
	BudgetPlan *optimizer.BudgetPlan `json:"budget_plan,omitempty"`

	// HighPerformers is the number of campaigns admitted to the ad
	// library this pass.
	HighPerformers int `json:"high_performers"`

	// Patterns summarizes the ad library after admission. Nil when
	// the library is empty.
	Patterns *adstore.Patterns `json:"patterns,omitempty"`
}

// Optimize computes bid adjustments and a budget reallocation over the
// trailing window, stores high-performing campaigns in the ad library,
// and re-analyzes creative patterns.
func (p *Pipeline) Optimize(ctx context.Context) (*OptimizeResult, error) {
	p.logger.Info("starting optimization pass")

	records, err := p.store.RecentMetrics(ctx, p.now().Add(-lookbackWindow))
	if err != nil {
		return nil, fmt.Errorf("reading recent metrics: %w", err)
	}

	if len(records) == 0 {
		p.logger.Info("no recent metrics for optimization")
		return &OptimizeResult{Adjustments: []*optimizer.Adjustment{}}, nil
	}

	adjustments, err := p.optimizer.CalculateAdjustments(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("calculating adjustments: %w", err)
	}

	for _, adj := range adjustments {
		p.logger.Info("bid adjustment",
			"campaign_id", adj.CampaignID,
			"adjustment_percent", adj.AdjustmentPercent,
			"reasons", strings.Join(adj.Reasons, ", "),
		)
		if p.metrics != nil {
			p.metrics.RecordOptimization("bid_adjustment")
		}
	}

	totalBudget := 0.0
	for _, record := range records {
		totalBudget += record.DailyBudgetLimit
	}
	plan := p.optimizer.BudgetReallocation(records, totalBudget)
	if plan != nil && p.metrics != nil {
		p.metrics.RecordOptimization("budget_reallocation")
	}

	stored := p.storeHighPerformers(ctx, records)

	patterns, err := p.library.AnalyzePatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyzing ad patterns: %w", err)
	}
	if patterns != nil {
		p.logger.Info("ad pattern analysis",
			"ads_analyzed", patterns.TotalAdsAnalyzed,
			"avg_ctr", patterns.AverageCTR,
			"avg_roas", patterns.AverageROAS,
		)
	}

	p.logger.Info("optimization pass complete",
		"adjustments", len(adjustments),
		"high_performers", stored,
	)

	return &OptimizeResult{
		Adjustments:    adjustments,
		BudgetPlan:     plan,
		HighPerformers: stored,
		Patterns:       patterns,
	}, nil
}

// storeHighPerformers admits campaigns above the CTR and ROAS
// thresholds into the ad library. Returns the number stored.
func (p *Pipeline) storeHighPerformers(ctx context.Context, records []*store.MetricRecord) int {
	stored := 0
	for _, record := range records {
		if record.CTR <= highPerformerCTR || record.ROAS <= highPerformerROAS {
			continue
		}

		ad := &adstore.StoredAd{
			ID:          record.CampaignID + "_ad",
			CampaignID:  record.CampaignID,
			Platform:    record.Platform,
			Headline:    placeholderHeadline,
			Description: placeholderDescription,
			CTA:         placeholderCTA,
			CTR:         record.CTR,
			Conversions: record.Conversions,
			ROAS:        record.ROAS,
			CreatedAt:   p.now().UTC(),
		}
		if err := p.library.StoreAd(ctx, ad); err != nil {
			p.logger.Error("failed to store high performer",
				"ad_id", ad.ID,
				"error", err,
			)
			continue
		}
		stored++
	}
	return stored
}

// ReportResult summarizes one report generation pass.
type ReportResult struct {
	// Insights is the analysis the report was built from.
	Insights *insights.Report `json:"insights"`

	// Summary is the machine-readable report summary.
	Summary *reports.Summary `json:"summary"`

	// HTMLPath and SummaryPath are the written files; empty when no
	// report generator is configured.
	HTMLPath    string `json:"html_path,omitempty"`
	SummaryPath string `json:"summary_path,omitempty"`
}

// Report builds a full campaign report over the trailing window:
// insight analysis, bid adjustments and a budget reallocation, rendered
// to HTML with a JSON summary alongside. A totalBudget of zero or less
// falls back to the sum of the campaigns' daily budget limits.
func (p *Pipeline) Report(ctx context.Context, totalBudget float64) (*ReportResult, error) {
	p.logger.Info("generating report")

	records, err := p.store.RecentMetrics(ctx, p.now().Add(-lookbackWindow))
	if err != nil {
		return nil, fmt.Errorf("reading recent metrics: %w", err)
	}

	report := p.insights.AnalyzePerformance(ctx, records)

	var adjustments []*optimizer.Adjustment
	var plan *optimizer.BudgetPlan
	if len(records) > 0 {
		adjustments, err = p.optimizer.CalculateAdjustments(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("calculating adjustments: %w", err)
		}

		if totalBudget <= 0 {
			for _, record := range records {
				totalBudget += record.DailyBudgetLimit
			}
		}
		plan = p.optimizer.BudgetReallocation(records, totalBudget)
	}

	data := &reports.Data{
		Insights:    report,
		Metrics:     records,
		Adjustments: adjustments,
		BudgetPlan:  plan,
	}

	result := &ReportResult{Insights: report}

	if p.reports == nil {
		result.Summary = reports.BuildSummary(data)
		p.logger.Info("report built without file output",
			"report_id", result.Summary.ReportID,
		)
		return result, nil
	}

	htmlPath, err := p.reports.HTMLReport(data)
	if err != nil {
		return nil, fmt.Errorf("writing HTML report: %w", err)
	}

	summary, summaryPath, err := p.reports.SummaryJSON(data)
	if err != nil {
		return nil, fmt.Errorf("writing report summary: %w", err)
	}

	result.Summary = summary
	result.HTMLPath = htmlPath
	result.SummaryPath = summaryPath

	p.logger.Info("report complete",
		"html", htmlPath,
		"summary", summaryPath,
	)

	return result, nil
}

// RunOnce executes the full flow a single time: collect, insights,
// optimize, report. Used by the one-shot CLI command.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	if _, err := p.Collect(ctx); err != nil {
		return err
	}
	if _, _, err := p.Insights(ctx); err != nil {
		return err
	}
	if _, err := p.Optimize(ctx); err != nil {
		return err
	}
	if _, err := p.Report(ctx, 0); err != nil {
		return err
	}
	return nil
}

// Jobs returns the scheduled jobs for this pipeline with schedules
// taken from cfg. The collection job also generates insights when the
// wall-clock hour is a multiple of four.
func (p *Pipeline) Jobs(cfg *config.SchedulerConfig) []scheduler.Job {
	return []scheduler.Job{
		{Name: "pipeline", Schedule: cfg.PipelineSchedule, Run: p.runScheduledPipeline},
		{Name: "optimization", Schedule: cfg.OptimizationSchedule, Run: p.runScheduledOptimization},
		{Name: "report", Schedule: cfg.ReportSchedule, Run: p.runScheduledReport},
	}
}

func (p *Pipeline) runScheduledPipeline(ctx context.Context) error {
	if _, err := p.Collect(ctx); err != nil {
		return err
	}

	// Insight generation spends model tokens, so it rides the
	// collection cadence on a coarser interval.
	if p.now().Hour()%insightHourInterval == 0 {
		if _, _, err := p.Insights(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) runScheduledOptimization(ctx context.Context) error {
	_, err := p.Optimize(ctx)
	return err
}

func (p *Pipeline) runScheduledReport(ctx context.Context) error {
	_, err := p.Report(ctx, 0)
	return err
}
