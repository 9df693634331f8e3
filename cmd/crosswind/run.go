package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"meridian-hq/crosswind/pkg/adstore"
	"meridian-hq/crosswind/pkg/cli"
	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/scheduler"
	"meridian-hq/crosswind/pkg/server"
	"meridian-hq/crosswind/pkg/store"
	"meridian-hq/crosswind/pkg/telemetry/health"
	"meridian-hq/crosswind/pkg/telemetry/metrics"
	"meridian-hq/crosswind/pkg/usage"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Crosswind service",
	Long: `Start the Crosswind service with the specified configuration.

The service runs the campaign pipeline on its configured schedules and
serves the HTTP API for on-demand collection, alerting, optimization,
insights, copy generation and reporting.

Examples:
  # Start with default config
  crosswind run

  # Start with custom config
  crosswind run --config /etc/crosswind/config.yaml

  # Override listen address
  crosswind run --listen 0.0.0.0:8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := initLogging(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	printBanner(cfg)

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	slog.Info("initializing components")
	comps, closeComps, err := buildComponents(cfg, logger, buildOptions{metrics: collector})
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer closeComps()

	fmt.Printf("✓ Storage ready (%s campaign store, ad library)\n", cfg.Store.Backend)
	if comps.client.Available() {
		fmt.Printf("✓ Generative endpoint ready (%s)\n", comps.client.Model())
	} else {
		fmt.Println("✓ Generative endpoint disabled (no API key)")
	}
	fmt.Printf("✓ Platform sources configured (%d platforms)\n", len(cfg.Collector.Platforms))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs := comps.pipeline.Jobs(&cfg.Scheduler)
		sched = scheduler.New(jobs, collector, logger)
		if err := sched.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer sched.Stop()
		fmt.Printf("✓ Scheduler started (%d jobs)\n", len(jobs))
	} else {
		slog.Info("scheduler disabled, pipeline runs on demand only")
	}

	checker := health.New(0)
	registerHealthChecks(checker, comps, cfg)
	slog.Debug("health checks registered", "checks", checker.ListChecks())

	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, server.Components{
		Pipeline:  comps.pipeline,
		Store:     comps.store,
		Alerts:    comps.alerts,
		Insights:  comps.insights,
		Optimizer: comps.optimizer,
		Copy:      comps.copy,
		Client:    comps.client,
		Scheduler: sched,
		Health:    checker,
		Metrics:   collector,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	if cfg.Watch {
		watcher, err := config.NewFileWatcher(cfgFile, 0, logger)
		if err != nil {
			slog.Warn("config watcher unavailable", "error", err)
		} else {
			go func() {
				if err := watcher.Watch(ctx, func() error {
					if err := config.ReloadConfig(cfgFile); err != nil {
						return err
					}
					applyReload(config.GetConfig(), comps)
					return nil
				}); err != nil {
					slog.Warn("config watcher stopped", "error", err)
				}
			}()
			defer watcher.Stop()
			fmt.Println("✓ Configuration watcher active")
		}
	}

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until a shutdown signal, context cancellation or a
	// listener error, and shuts down gracefully on its own.
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// applyReload pushes a freshly loaded config into the components that
// take live updates: usage pricing, alert thresholds and optimizer
// tuning. Everything else (listen address, storage paths, schedules)
// keeps its boot-time value until a restart.
func applyReload(cfg *config.Config, comps *serviceComponents) {
	comps.ledger.SetCosts(usage.CostModel{
		PerMillionInput:  cfg.Usage.CostPerMillionInput,
		PerMillionOutput: cfg.Usage.CostPerMillionOutput,
	})
	comps.alerts.UpdateThresholds(&cfg.Alerts)
	comps.optimizer.UpdateTuning(&cfg.Optimizer)

	slog.Info("configuration reloaded",
		"roas_threshold", cfg.Alerts.ROASThreshold,
		"target_roas", cfg.Optimizer.TargetROAS,
	)
}

// registerHealthChecks wires readiness probes for the storage backends
// and the report output directory. SQLite backends are probed through
// their database handles, the memory backends through Ping.
func registerHealthChecks(checker *health.Checker, comps *serviceComponents, cfg *config.Config) {
	if s, ok := comps.store.(*store.SQLiteStore); ok {
		checker.RegisterCheck("store", health.DatabaseCheck(s.DB()))
	} else {
		checker.RegisterCheck("store", comps.store.Ping)
	}

	if lib, ok := comps.library.(*adstore.SQLiteLibrary); ok {
		checker.RegisterCheck("ad_library", health.DatabaseCheck(lib.DB()))
	}

	checker.RegisterCheck("reports", health.DirectoryCheck(cfg.Reports.OutputDir))
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Crosswind v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	slog.Debug("platforms configured", "count", len(cfg.Collector.Platforms))
	if cfg.Scheduler.Enabled {
		slog.Debug("scheduler enabled",
			"pipeline", cfg.Scheduler.PipelineSchedule,
			"optimization", cfg.Scheduler.OptimizationSchedule,
			"report", cfg.Scheduler.ReportSchedule,
		)
	}
	if cfg.Gemini.APIKey == "" {
		slog.Debug("no generative API key configured")
	}
}
