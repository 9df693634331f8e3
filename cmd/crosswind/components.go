package main

import (
	"fmt"
	"log/slog"

	"meridian-hq/crosswind/pkg/adstore"
	"meridian-hq/crosswind/pkg/alerts"
	"meridian-hq/crosswind/pkg/collector"
	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/copywriter"
	"meridian-hq/crosswind/pkg/genai"
	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/pipeline"
	"meridian-hq/crosswind/pkg/reports"
	"meridian-hq/crosswind/pkg/store"
	"meridian-hq/crosswind/pkg/telemetry/logging"
	"meridian-hq/crosswind/pkg/telemetry/metrics"
	"meridian-hq/crosswind/pkg/usage"
)

// serviceComponents is the wired object graph shared by the run and
// pipeline commands.
type serviceComponents struct {
	store     store.Store
	library   adstore.Library
	ledger    *usage.Ledger
	client    *genai.MeteredClient
	alerts    *alerts.Manager
	insights  *insights.Agent
	optimizer *optimizer.Optimizer
	copy      *copywriter.Generator
	reports   *reports.Generator
	pipeline  *pipeline.Pipeline
}

// buildOptions selects the wiring variant. A nil metrics collector
// disables instrumentation. Dry-run swaps in memory backends and
// suppresses every external side effect: no database files, no report
// files, no usage snapshots, no Slack notifications.
type buildOptions struct {
	metrics *metrics.Collector
	dryRun  bool
}

// buildComponents assembles the full component graph from cfg. The
// returned closer releases storage in reverse construction order and is
// safe to call even after a partial failure path returned an error.
func buildComponents(cfg *config.Config, logger *slog.Logger, opts buildOptions) (*serviceComponents, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	st, err := buildStore(cfg, opts.dryRun)
	if err != nil {
		return nil, closeAll, fmt.Errorf("campaign store: %w", err)
	}
	closers = append(closers, func() {
		if err := st.Close(); err != nil {
			logger.Error("closing campaign store", "error", err)
		}
	})

	library, err := buildLibrary(cfg, opts.dryRun)
	if err != nil {
		return nil, closeAll, fmt.Errorf("ad library: %w", err)
	}
	closers = append(closers, func() {
		if err := library.Close(); err != nil {
			logger.Error("closing ad library", "error", err)
		}
	})

	var usageMetrics *usage.Metrics
	if opts.metrics != nil {
		usageMetrics = usage.NewMetrics(opts.metrics.Registry())
	}
	snapshotPath := cfg.Usage.SnapshotPath
	if opts.dryRun {
		snapshotPath = ""
	}
	ledger, err := usage.NewLedger(usage.Config{
		RPMLimit:               cfg.Usage.RPMLimit,
		TPMLimit:               cfg.Usage.TPMLimit,
		CostPerMillionInput:    cfg.Usage.CostPerMillionInput,
		CostPerMillionOutput:   cfg.Usage.CostPerMillionOutput,
		SnapshotEveryNRequests: cfg.Usage.SnapshotEveryNRequests,
		SnapshotPath:           snapshotPath,
		WaitPolicy:             usage.WaitPolicy(cfg.Usage.WaitPolicy),
		Logger:                 logger,
		Metrics:                usageMetrics,
	})
	if err != nil {
		return nil, closeAll, fmt.Errorf("usage ledger: %w", err)
	}

	client := genai.NewMetered(genai.New(&cfg.Gemini, logger), ledger, logger)

	sources, err := collector.MockSources(cfg.Collector.Platforms, cfg.Collector.CampaignsPerPlatform, cfg.Collector.Seed)
	if err != nil {
		return nil, closeAll, fmt.Errorf("platform sources: %w", err)
	}

	var notifier alerts.Notifier
	if cfg.Alerts.SlackWebhookURL != "" && !opts.dryRun {
		notifier = alerts.NewSlackNotifier(cfg.Alerts.SlackWebhookURL, cfg.Alerts.WebhookTimeout, logger)
	}

	var reporter *reports.Generator
	if !opts.dryRun {
		reporter, err = reports.NewGenerator(cfg.Reports.OutputDir, logger)
		if err != nil {
			return nil, closeAll, fmt.Errorf("report generator: %w", err)
		}
	}

	comps := &serviceComponents{
		store:     st,
		library:   library,
		ledger:    ledger,
		client:    client,
		alerts:    alerts.New(&cfg.Alerts, notifier, logger),
		insights:  insights.NewAgent(client, cfg.Optimizer.TargetROAS, logger),
		optimizer: optimizer.New(st, &cfg.Optimizer, logger),
		copy:      copywriter.New(client, library, logger),
		reports:   reporter,
	}

	comps.pipeline = pipeline.New(pipeline.Components{
		Store:     comps.store,
		Collector: collector.New(st, sources, logger),
		Alerts:    comps.alerts,
		Insights:  comps.insights,
		Optimizer: comps.optimizer,
		Library:   comps.library,
		Reports:   comps.reports,
		Client:    comps.client,
		Metrics:   opts.metrics,
	}, logger)

	return comps, closeAll, nil
}

// buildStore selects the campaign store backend. Dry-run always gets a
// memory store regardless of configuration.
func buildStore(cfg *config.Config, dryRun bool) (store.Store, error) {
	if dryRun || cfg.Store.Backend == "memory" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStore(&store.SQLiteConfig{
		Path:         cfg.Store.Path,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		MaxIdleConns: cfg.Store.MaxIdleConns,
		WALMode:      cfg.Store.WALMode,
		BusyTimeout:  cfg.Store.BusyTimeout,
	})
}

// buildLibrary selects the ad library backend.
func buildLibrary(cfg *config.Config, dryRun bool) (adstore.Library, error) {
	if dryRun {
		return adstore.NewMemoryLibrary(), nil
	}
	return adstore.NewSQLiteLibraryWithConfig(adstore.SQLiteConfig{
		Path:        cfg.AdStore.Path,
		BusyTimeout: cfg.AdStore.BusyTimeout,
	})
}

// initLogging builds the structured logger from config and installs it
// as the process default.
func initLogging(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger.Slog())
	return logger.Slog(), nil
}
