package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention CROSSWIND_SECTION_FIELD (e.g.,
// CROSSWIND_SERVER_LISTEN_ADDRESS). Environment variables always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format CROSSWIND_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("CROSSWIND_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("CROSSWIND_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("CROSSWIND_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("CROSSWIND_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("CROSSWIND_SERVER_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.RequestTimeout = d
		}
	}

	// Gemini overrides. The bare GEMINI_API_KEY form is accepted for
	// compatibility with existing deployments.
	if val := os.Getenv("CROSSWIND_GEMINI_BASE_URL"); val != "" {
		cfg.Gemini.BaseURL = val
	}
	if val := os.Getenv("CROSSWIND_GEMINI_API_KEY"); val != "" {
		cfg.Gemini.APIKey = val
	} else if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		cfg.Gemini.APIKey = val
	}
	if val := os.Getenv("CROSSWIND_GEMINI_MODEL"); val != "" {
		cfg.Gemini.Model = val
	}
	if val := os.Getenv("CROSSWIND_GEMINI_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Gemini.Timeout = d
		}
	}
	if val := os.Getenv("CROSSWIND_GEMINI_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Gemini.MaxRetries = i
		}
	}

	// Usage overrides
	if val := os.Getenv("CROSSWIND_USAGE_RPM_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Usage.RPMLimit = i
		}
	}
	if val := os.Getenv("CROSSWIND_USAGE_TPM_LIMIT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Usage.TPMLimit = i
		}
	}
	if val := os.Getenv("CROSSWIND_USAGE_SNAPSHOT_PATH"); val != "" {
		cfg.Usage.SnapshotPath = val
	}
	if val := os.Getenv("CROSSWIND_USAGE_WAIT_POLICY"); val != "" {
		cfg.Usage.WaitPolicy = val
	}

	// Store overrides
	if val := os.Getenv("CROSSWIND_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("CROSSWIND_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}
	if val := os.Getenv("CROSSWIND_AD_STORE_PATH"); val != "" {
		cfg.AdStore.Path = val
	}

	// Alerts overrides
	if val := os.Getenv("CROSSWIND_ALERTS_SLACK_WEBHOOK_URL"); val != "" {
		cfg.Alerts.SlackWebhookURL = val
	}
	if val := os.Getenv("CROSSWIND_ALERTS_BUDGET_UTILIZATION_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Alerts.BudgetUtilizationThreshold = f
		}
	}
	if val := os.Getenv("CROSSWIND_ALERTS_ROAS_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Alerts.ROASThreshold = f
		}
	}

	// Reports overrides
	if val := os.Getenv("CROSSWIND_REPORTS_OUTPUT_DIR"); val != "" {
		cfg.Reports.OutputDir = val
	}

	// Scheduler overrides
	if val := os.Getenv("CROSSWIND_SCHEDULER_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Scheduler.Enabled = b
		}
	}
	if val := os.Getenv("CROSSWIND_SCHEDULER_PIPELINE_SCHEDULE"); val != "" {
		cfg.Scheduler.PipelineSchedule = val
	}
	if val := os.Getenv("CROSSWIND_SCHEDULER_OPTIMIZATION_SCHEDULE"); val != "" {
		cfg.Scheduler.OptimizationSchedule = val
	}
	if val := os.Getenv("CROSSWIND_SCHEDULER_REPORT_SCHEDULE"); val != "" {
		cfg.Scheduler.ReportSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("CROSSWIND_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CROSSWIND_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CROSSWIND_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CROSSWIND_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}

	// Watch override
	if val := os.Getenv("CROSSWIND_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch = b
		}
	}
}
