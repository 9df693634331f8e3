package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"meridian-hq/crosswind/pkg/alerts"
	"meridian-hq/crosswind/pkg/cli"
	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/usage"
)

var pipelineFlags struct {
	dryRun bool
	format string
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the campaign pipeline once and exit",
	Long: `Run the full campaign pipeline a single time: collect metrics from
every platform, check alert conditions, generate an insight report,
compute bid and budget optimizations, store high performers in the ad
library, and produce the performance report.

With --dry-run everything runs against in-memory backends and nothing
is written to disk or delivered to notification channels.

Examples:
  # Run once against the configured stores
  crosswind pipeline

  # Inspect what a run would produce without touching disk
  crosswind pipeline --dry-run

  # Machine-readable run summary
  crosswind pipeline --dry-run --format json`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().BoolVar(&pipelineFlags.dryRun, "dry-run", false, "use memory backends and skip all file output")
	pipelineCmd.Flags().StringVar(&pipelineFlags.format, "format", "text", "output format: text, json")
}

// pipelineRunSummary is the machine-readable result of one pipeline run.
type pipelineRunSummary struct {
	DryRun         bool            `json:"dry_run"`
	Collected      int             `json:"collected"`
	Platforms      map[string]int  `json:"platforms"`
	Alerts         []*alerts.Alert `json:"alerts"`
	ReportID       string          `json:"report_id"`
	GeneratedBy    string          `json:"generated_by"`
	InsightsPath   string          `json:"insights_path,omitempty"`
	Adjustments    int             `json:"adjustments"`
	HighPerformers int             `json:"high_performers"`
	HTMLReport     string          `json:"html_report,omitempty"`
	SummaryFile    string          `json:"summary_file,omitempty"`
	Usage          *usage.Stats    `json:"usage,omitempty"`
}

func runPipeline(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(pipelineFlags.format)
	if err != nil {
		return err
	}

	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	logger, err := initLogging(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	comps, closeComps, err := buildComponents(cfg, logger, buildOptions{dryRun: pipelineFlags.dryRun})
	if err != nil {
		return cli.NewCommandError("pipeline", err)
	}
	defer closeComps()

	ctx := cli.SetupSignalHandler()
	summary := pipelineRunSummary{DryRun: pipelineFlags.dryRun}

	res, err := comps.pipeline.Collect(ctx)
	if err != nil {
		return cli.NewCommandError("pipeline", err)
	}
	summary.Collected = res.Total
	summary.Platforms = res.Campaigns
	summary.Alerts = res.Alerts

	report, path, err := comps.pipeline.Insights(ctx)
	if err != nil {
		return cli.NewCommandError("pipeline", err)
	}
	summary.ReportID = report.ReportID
	summary.GeneratedBy = report.GeneratedBy
	summary.InsightsPath = path

	opt, err := comps.pipeline.Optimize(ctx)
	if err != nil {
		return cli.NewCommandError("pipeline", err)
	}
	summary.Adjustments = len(opt.Adjustments)
	summary.HighPerformers = opt.HighPerformers

	result, err := comps.pipeline.Report(ctx, 0)
	if err != nil {
		return cli.NewCommandError("pipeline", err)
	}
	summary.HTMLReport = result.HTMLPath
	summary.SummaryFile = result.SummaryPath

	if comps.client.Available() {
		stats := comps.client.Stats()
		summary.Usage = &stats
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(os.Stdout, summary)
	}

	printRunSummary(&summary)
	return nil
}

func printRunSummary(s *pipelineRunSummary) {
	if s.DryRun {
		fmt.Println("Dry run: memory backends, no files written")
	}

	fmt.Printf("✓ Collected %d campaign snapshots from %d platforms\n", s.Collected, len(s.Platforms))
	for _, alert := range s.Alerts {
		fmt.Printf("  ! %s/%s: %s\n", alert.Type, alert.Severity, alert.Message)
	}

	fmt.Printf("✓ Insight report %s (%s)\n", s.ReportID, s.GeneratedBy)
	if s.InsightsPath != "" {
		fmt.Printf("  saved: %s\n", s.InsightsPath)
	}

	fmt.Printf("✓ Optimization: %d bid adjustments, %d high performers stored\n",
		s.Adjustments, s.HighPerformers)

	if s.HTMLReport != "" {
		fmt.Printf("✓ Report written: %s\n", s.HTMLReport)
		fmt.Printf("  summary: %s\n", s.SummaryFile)
	} else {
		fmt.Println("✓ Report built")
	}

	if s.Usage != nil {
		fmt.Printf("✓ Generative usage: %d requests, %d tokens, $%.4f estimated\n",
			s.Usage.TotalRequests, s.Usage.TotalTokens, s.Usage.EstimatedCost)
	}

	fmt.Println()
	fmt.Println("Pipeline complete")
}
