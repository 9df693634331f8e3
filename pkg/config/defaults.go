package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultRequestTimeout  = 120 * time.Second

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = false

	// Gemini defaults
	DefaultGeminiBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel           = "gemini-2.0-flash-exp"
	DefaultGeminiTimeout         = 60 * time.Second
	DefaultGeminiMaxRetries      = 3
	DefaultGeminiTemperature     = 0.7
	DefaultGeminiMaxOutputTokens = 2048

	// Usage defaults
	DefaultUsageRPMLimit             = 15
	DefaultUsageTPMLimit             = 1000000
	DefaultUsageCostPerMillionInput  = 0.075
	DefaultUsageCostPerMillionOutput = 0.30
	DefaultUsageSnapshotEvery        = 10
	DefaultUsageSnapshotPath         = "data/usage.json"
	DefaultUsageWaitPolicy           = "hold_lock"

	// Store defaults
	DefaultStoreBackend      = "sqlite"
	DefaultStorePath         = "data/crosswind.db"
	DefaultStoreMaxOpenConns = 10
	DefaultStoreMaxIdleConns = 5
	DefaultStoreWALMode      = true
	DefaultStoreBusyTimeout  = 5 * time.Second

	// Ad store defaults
	DefaultAdStorePath        = "data/adlibrary.db"
	DefaultAdStoreBusyTimeout = 5 * time.Second

	// Collector defaults
	DefaultCampaignsPerPlatform = 5

	// Optimizer defaults
	DefaultTargetROAS    = 3.0
	DefaultMaxBidChange  = 0.25
	DefaultMinDataPoints = 7

	// Alerts defaults
	DefaultBudgetUtilizationThreshold = 80.0
	DefaultROASThreshold              = 2.0
	DefaultWebhookTimeout             = 10 * time.Second
	DefaultAlertMaxHistory            = 100
	DefaultAlertHistoryTrim           = 50

	// Reports defaults
	DefaultReportsOutputDir = "reports"

	// Scheduler defaults
	DefaultSchedulerEnabled      = true
	DefaultPipelineSchedule      = "*/30 * * * *"
	DefaultOptimizationSchedule  = "0 */2 * * *"
	DefaultReportSchedule        = "0 6 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "crosswind"
)

// DefaultPlatforms returns the default advertising platform list.
func DefaultPlatforms() []string {
	return []string{"google_ads", "meta", "linkedin"}
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}

	// CORS defaults. Bools with a true default follow the zero-value
	// convention: false in the file is indistinguishable from unset,
	// so disabling is done via environment override.
	if !cfg.Server.CORS.Enabled {
		cfg.Server.CORS.Enabled = DefaultCORSEnabled
	}
	if cfg.Server.CORS.AllowedOrigins == nil {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.CORS.AllowedMethods == nil {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if cfg.Server.CORS.AllowedHeaders == nil {
		cfg.Server.CORS.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
	if cfg.Server.CORS.ExposedHeaders == nil {
		cfg.Server.CORS.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Gemini defaults
	if cfg.Gemini.BaseURL == "" {
		cfg.Gemini.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultGeminiModel
	}
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = DefaultGeminiTimeout
	}
	if cfg.Gemini.MaxRetries == 0 {
		cfg.Gemini.MaxRetries = DefaultGeminiMaxRetries
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = DefaultGeminiTemperature
	}
	if cfg.Gemini.MaxOutputTokens == 0 {
		cfg.Gemini.MaxOutputTokens = DefaultGeminiMaxOutputTokens
	}

	// Usage defaults
	if cfg.Usage.RPMLimit == 0 {
		cfg.Usage.RPMLimit = DefaultUsageRPMLimit
	}
	if cfg.Usage.TPMLimit == 0 {
		cfg.Usage.TPMLimit = DefaultUsageTPMLimit
	}
	if cfg.Usage.CostPerMillionInput == 0 {
		cfg.Usage.CostPerMillionInput = DefaultUsageCostPerMillionInput
	}
	if cfg.Usage.CostPerMillionOutput == 0 {
		cfg.Usage.CostPerMillionOutput = DefaultUsageCostPerMillionOutput
	}
	if cfg.Usage.SnapshotEveryNRequests == 0 {
		cfg.Usage.SnapshotEveryNRequests = DefaultUsageSnapshotEvery
	}
	if cfg.Usage.SnapshotPath == "" {
		cfg.Usage.SnapshotPath = DefaultUsageSnapshotPath
	}
	if cfg.Usage.WaitPolicy == "" {
		cfg.Usage.WaitPolicy = DefaultUsageWaitPolicy
	}

	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = DefaultStoreMaxOpenConns
	}
	if cfg.Store.MaxIdleConns == 0 {
		cfg.Store.MaxIdleConns = DefaultStoreMaxIdleConns
	}
	if !cfg.Store.WALMode {
		cfg.Store.WALMode = DefaultStoreWALMode
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = DefaultStoreBusyTimeout
	}

	// Ad store defaults
	if cfg.AdStore.Path == "" {
		cfg.AdStore.Path = DefaultAdStorePath
	}
	if cfg.AdStore.BusyTimeout == 0 {
		cfg.AdStore.BusyTimeout = DefaultAdStoreBusyTimeout
	}

	// Collector defaults
	if cfg.Collector.Platforms == nil {
		cfg.Collector.Platforms = DefaultPlatforms()
	}
	if cfg.Collector.CampaignsPerPlatform == 0 {
		cfg.Collector.CampaignsPerPlatform = DefaultCampaignsPerPlatform
	}

	// Optimizer defaults
	if cfg.Optimizer.TargetROAS == 0 {
		cfg.Optimizer.TargetROAS = DefaultTargetROAS
	}
	if cfg.Optimizer.MaxBidChange == 0 {
		cfg.Optimizer.MaxBidChange = DefaultMaxBidChange
	}
	if cfg.Optimizer.MinDataPoints == 0 {
		cfg.Optimizer.MinDataPoints = DefaultMinDataPoints
	}

	// Alerts defaults
	if cfg.Alerts.BudgetUtilizationThreshold == 0 {
		cfg.Alerts.BudgetUtilizationThreshold = DefaultBudgetUtilizationThreshold
	}
	if cfg.Alerts.ROASThreshold == 0 {
		cfg.Alerts.ROASThreshold = DefaultROASThreshold
	}
	if cfg.Alerts.WebhookTimeout == 0 {
		cfg.Alerts.WebhookTimeout = DefaultWebhookTimeout
	}
	if cfg.Alerts.MaxHistory == 0 {
		cfg.Alerts.MaxHistory = DefaultAlertMaxHistory
	}
	if cfg.Alerts.HistoryTrim == 0 {
		cfg.Alerts.HistoryTrim = DefaultAlertHistoryTrim
	}

	// Reports defaults
	if cfg.Reports.OutputDir == "" {
		cfg.Reports.OutputDir = DefaultReportsOutputDir
	}

	// Scheduler defaults
	if !cfg.Scheduler.Enabled {
		cfg.Scheduler.Enabled = DefaultSchedulerEnabled
	}
	if cfg.Scheduler.PipelineSchedule == "" {
		cfg.Scheduler.PipelineSchedule = DefaultPipelineSchedule
	}
	if cfg.Scheduler.OptimizationSchedule == "" {
		cfg.Scheduler.OptimizationSchedule = DefaultOptimizationSchedule
	}
	if cfg.Scheduler.ReportSchedule == "" {
		cfg.Scheduler.ReportSchedule = DefaultReportSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if !cfg.Telemetry.Metrics.Enabled {
		cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
