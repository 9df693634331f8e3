package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateGemini(&cfg.Gemini)...)
	errs = append(errs, validateUsage(&cfg.Usage)...)
	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validateAdStore(&cfg.AdStore)...)
	errs = append(errs, validateCollector(&cfg.Collector)...)
	errs = append(errs, validateOptimizer(&cfg.Optimizer)...)
	errs = append(errs, validateAlerts(&cfg.Alerts)...)
	errs = append(errs, validateReports(&cfg.Reports)...)
	errs = append(errs, validateScheduler(&cfg.Scheduler)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.request_timeout",
			Message: "request timeout must be positive",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 { // 10MB is excessive
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}

	return errs
}

// validateGemini validates generative endpoint configuration.
func validateGemini(cfg *GeminiConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "gemini.base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "gemini.base_url",
			Message: fmt.Sprintf("invalid base URL %q", cfg.BaseURL),
		})
	}

	if cfg.Model == "" {
		errs = append(errs, FieldError{
			Field:   "gemini.model",
			Message: "model is required",
		})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "gemini.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "gemini.max_retries",
			Message: "max retries must be non-negative",
		})
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "gemini.temperature",
			Message: "temperature must be between 0.0 and 2.0",
		})
	}
	if cfg.MaxOutputTokens < 0 {
		errs = append(errs, FieldError{
			Field:   "gemini.max_output_tokens",
			Message: "max output tokens must be non-negative",
		})
	}

	return errs
}

// validateUsage validates usage ledger configuration.
func validateUsage(cfg *UsageConfig) []FieldError {
	var errs []FieldError

	if cfg.RPMLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "usage.rpm_limit",
			Message: "rpm limit must be positive",
		})
	}
	if cfg.TPMLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "usage.tpm_limit",
			Message: "tpm limit must be positive",
		})
	}
	if cfg.CostPerMillionInput < 0 {
		errs = append(errs, FieldError{
			Field:   "usage.cost_per_million_input",
			Message: "cost rate must be non-negative",
		})
	}
	if cfg.CostPerMillionOutput < 0 {
		errs = append(errs, FieldError{
			Field:   "usage.cost_per_million_output",
			Message: "cost rate must be non-negative",
		})
	}
	if cfg.SnapshotEveryNRequests <= 0 {
		errs = append(errs, FieldError{
			Field:   "usage.snapshot_every_n_requests",
			Message: "snapshot cadence must be positive",
		})
	}

	switch cfg.WaitPolicy {
	case "hold_lock", "release_lock":
	default:
		errs = append(errs, FieldError{
			Field:   "usage.wait_policy",
			Message: fmt.Sprintf("wait policy must be %q or %q, got %q", "hold_lock", "release_lock", cfg.WaitPolicy),
		})
	}

	return errs
}

// validateStore validates metrics store configuration.
func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "store.backend",
			Message: fmt.Sprintf("backend must be %q or %q, got %q", "sqlite", "memory", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "store.path",
			Message: "path is required for the sqlite backend",
		})
	}

	if cfg.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "store.max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "store.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}
	if cfg.MaxIdleConns > cfg.MaxOpenConns && cfg.MaxOpenConns > 0 {
		errs = append(errs, FieldError{
			Field:   "store.max_idle_conns",
			Message: "max idle connections cannot exceed max open connections",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "store.busy_timeout",
			Message: "busy timeout must be positive",
		})
	}

	return errs
}

// validateAdStore validates ad library configuration.
func validateAdStore(cfg *AdStoreConfig) []FieldError {
	var errs []FieldError

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "ad_store.path",
			Message: "path is required",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "ad_store.busy_timeout",
			Message: "busy timeout must be positive",
		})
	}

	return errs
}

// validateCollector validates collection configuration.
func validateCollector(cfg *CollectorConfig) []FieldError {
	var errs []FieldError

	if len(cfg.Platforms) == 0 {
		errs = append(errs, FieldError{
			Field:   "collector.platforms",
			Message: "at least one platform must be configured",
		})
	}
	for i, p := range cfg.Platforms {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("collector.platforms[%d]", i),
				Message: "platform name cannot be empty",
			})
		}
	}
	if cfg.CampaignsPerPlatform <= 0 {
		errs = append(errs, FieldError{
			Field:   "collector.campaigns_per_platform",
			Message: "campaigns per platform must be positive",
		})
	}

	return errs
}

// validateOptimizer validates optimization configuration.
func validateOptimizer(cfg *OptimizerConfig) []FieldError {
	var errs []FieldError

	if cfg.TargetROAS <= 0 {
		errs = append(errs, FieldError{
			Field:   "optimizer.target_roas",
			Message: "target ROAS must be positive",
		})
	}
	if cfg.MaxBidChange <= 0 || cfg.MaxBidChange > 1 {
		errs = append(errs, FieldError{
			Field:   "optimizer.max_bid_change",
			Message: "max bid change must be in (0, 1]",
		})
	}
	if cfg.MinDataPoints < 1 {
		errs = append(errs, FieldError{
			Field:   "optimizer.min_data_points",
			Message: "min data points must be at least 1",
		})
	}

	return errs
}

// validateAlerts validates alert configuration.
func validateAlerts(cfg *AlertsConfig) []FieldError {
	var errs []FieldError

	if cfg.BudgetUtilizationThreshold <= 0 || cfg.BudgetUtilizationThreshold > 100 {
		errs = append(errs, FieldError{
			Field:   "alerts.budget_utilization_threshold",
			Message: "budget utilization threshold must be in (0, 100]",
		})
	}
	if cfg.ROASThreshold <= 0 {
		errs = append(errs, FieldError{
			Field:   "alerts.roas_threshold",
			Message: "ROAS threshold must be positive",
		})
	}
	if cfg.SlackWebhookURL != "" {
		if u, err := url.Parse(cfg.SlackWebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   "alerts.slack_webhook_url",
				Message: fmt.Sprintf("invalid webhook URL %q", cfg.SlackWebhookURL),
			})
		}
	}
	if cfg.WebhookTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "alerts.webhook_timeout",
			Message: "webhook timeout must be positive",
		})
	}
	if cfg.MaxHistory < 1 {
		errs = append(errs, FieldError{
			Field:   "alerts.max_history",
			Message: "max history must be at least 1",
		})
	}
	if cfg.HistoryTrim < 1 || cfg.HistoryTrim > cfg.MaxHistory {
		errs = append(errs, FieldError{
			Field:   "alerts.history_trim",
			Message: "history trim must be at least 1 and no larger than max history",
		})
	}

	return errs
}

// validateReports validates report configuration.
func validateReports(cfg *ReportsConfig) []FieldError {
	var errs []FieldError

	if cfg.OutputDir == "" {
		errs = append(errs, FieldError{
			Field:   "reports.output_dir",
			Message: "output directory is required",
		})
	}

	return errs
}

// validateScheduler validates scheduler configuration. Cron expressions
// are parsed by the scheduler itself at startup; this only checks the
// fields are present when scheduling is on.
func validateScheduler(cfg *SchedulerConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.PipelineSchedule == "" {
		errs = append(errs, FieldError{
			Field:   "scheduler.pipeline_schedule",
			Message: "pipeline schedule is required when the scheduler is enabled",
		})
	}
	if cfg.OptimizationSchedule == "" {
		errs = append(errs, FieldError{
			Field:   "scheduler.optimization_schedule",
			Message: "optimization schedule is required when the scheduler is enabled",
		})
	}
	if cfg.ReportSchedule == "" {
		errs = append(errs, FieldError{
			Field:   "scheduler.report_schedule",
			Message: "report schedule is required when the scheduler is enabled",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("level must be one of debug, info, warn, error; got %q", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("format must be json or text, got %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}
