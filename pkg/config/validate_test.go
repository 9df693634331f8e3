package config

import (
	"strings"
	"testing"
)

// validConfig returns a fully-defaulted configuration for mutation in
// validation tests.
func validConfig() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

func TestValidate_DefaultsPass(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "missing listen address",
			mutate:    func(c *Config) { c.Server.ListenAddress = "" },
			wantField: "server.listen_address",
		},
		{
			name:      "negative read timeout",
			mutate:    func(c *Config) { c.Server.ReadTimeout = -1 },
			wantField: "server.read_timeout",
		},
		{
			name:      "excessive header bytes",
			mutate:    func(c *Config) { c.Server.MaxHeaderBytes = 20 * 1024 * 1024 },
			wantField: "server.max_header_bytes",
		},
		{
			name:      "bad gemini url",
			mutate:    func(c *Config) { c.Gemini.BaseURL = "not a url" },
			wantField: "gemini.base_url",
		},
		{
			name:      "missing model",
			mutate:    func(c *Config) { c.Gemini.Model = "" },
			wantField: "gemini.model",
		},
		{
			name:      "temperature out of range",
			mutate:    func(c *Config) { c.Gemini.Temperature = 3.5 },
			wantField: "gemini.temperature",
		},
		{
			name:      "zero rpm limit",
			mutate:    func(c *Config) { c.Usage.RPMLimit = -1 },
			wantField: "usage.rpm_limit",
		},
		{
			name:      "bad wait policy",
			mutate:    func(c *Config) { c.Usage.WaitPolicy = "spin" },
			wantField: "usage.wait_policy",
		},
		{
			name:      "bad store backend",
			mutate:    func(c *Config) { c.Store.Backend = "postgres" },
			wantField: "store.backend",
		},
		{
			name:      "idle exceeds open conns",
			mutate:    func(c *Config) { c.Store.MaxIdleConns = 50 },
			wantField: "store.max_idle_conns",
		},
		{
			name:      "empty platform name",
			mutate:    func(c *Config) { c.Collector.Platforms = []string{"google_ads", " "} },
			wantField: "collector.platforms[1]",
		},
		{
			name:      "bid change above one",
			mutate:    func(c *Config) { c.Optimizer.MaxBidChange = 1.5 },
			wantField: "optimizer.max_bid_change",
		},
		{
			name:      "budget threshold above 100",
			mutate:    func(c *Config) { c.Alerts.BudgetUtilizationThreshold = 150 },
			wantField: "alerts.budget_utilization_threshold",
		},
		{
			name:      "bad webhook url",
			mutate:    func(c *Config) { c.Alerts.SlackWebhookURL = "::bad::" },
			wantField: "alerts.slack_webhook_url",
		},
		{
			name:      "trim larger than history",
			mutate:    func(c *Config) { c.Alerts.HistoryTrim = 500 },
			wantField: "alerts.history_trim",
		},
		{
			name:      "missing report dir",
			mutate:    func(c *Config) { c.Reports.OutputDir = "" },
			wantField: "reports.output_dir",
		},
		{
			name:      "missing pipeline schedule",
			mutate:    func(c *Config) { c.Scheduler.PipelineSchedule = "" },
			wantField: "scheduler.pipeline_schedule",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "metrics path without slash",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			wantField: "telemetry.metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			verr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got: %v", tt.wantField, verr)
			}
		})
	}
}

func TestValidate_DisabledSchedulerSkipsSchedules(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.Enabled = false
	cfg.Scheduler.PipelineSchedule = ""
	cfg.Scheduler.OptimizationSchedule = ""
	cfg.Scheduler.ReportSchedule = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("disabled scheduler must not require schedules: %v", err)
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ListenAddress = ""
	cfg.Gemini.Model = ""
	cfg.Usage.RPMLimit = -1

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) < 3 {
		t.Errorf("expected at least 3 errors, got %d: %v", len(verr.Errors), verr)
	}
	if !strings.Contains(verr.Error(), "3 errors") && !strings.Contains(verr.Error(), "errors:") {
		t.Errorf("expected multi-error summary, got: %v", verr.Error())
	}
}

func TestFieldError_Error(t *testing.T) {
	fe := FieldError{Field: "usage.rpm_limit", Message: "must be positive"}
	if got := fe.Error(); got != "usage.rpm_limit: must be positive" {
		t.Errorf("unexpected error string: %q", got)
	}
}

func TestValidationError_SingleError(t *testing.T) {
	verr := ValidationError{Errors: []FieldError{{Field: "gemini.model", Message: "model is required"}}}
	if !strings.Contains(verr.Error(), "gemini.model") {
		t.Errorf("expected field in message, got: %q", verr.Error())
	}
}
