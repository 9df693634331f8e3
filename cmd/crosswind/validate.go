package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"meridian-hq/crosswind/pkg/cli"
	"meridian-hq/crosswind/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply defaults and environment variable
overrides, and run every validation rule against the result.

Validation failures are reported per field with the dotted path into
the YAML document (e.g. "server.listen_address").

Examples:
  # Validate the default config file
  crosswind validate

  # Validate a specific file
  crosswind validate --config /etc/crosswind/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	fmt.Printf("Validating configuration: %s\n", cfgFile)
	fmt.Println()

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ %d validation error(s):\n", len(verr.Errors))
			for _, fieldErr := range verr.Errors {
				fmt.Printf("  - %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return cli.NewConfigError("", "configuration is invalid")
		}
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	fmt.Println("✓ Configuration valid")
	fmt.Println()
	fmt.Printf("  Listen address:  %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Store backend:   %s\n", cfg.Store.Backend)
	fmt.Printf("  Platforms:       %s\n", strings.Join(cfg.Collector.Platforms, ", "))
	fmt.Printf("  Scheduler:       %s\n", schedulerSummary(&cfg.Scheduler))
	if cfg.Gemini.APIKey != "" {
		fmt.Printf("  Generative:      enabled (%s)\n", cfg.Gemini.Model)
	} else {
		fmt.Println("  Generative:      disabled (no API key)")
	}

	return nil
}

func schedulerSummary(cfg *config.SchedulerConfig) string {
	if !cfg.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("pipeline %q, optimization %q, report %q",
		cfg.PipelineSchedule, cfg.OptimizationSchedule, cfg.ReportSchedule)
}
