package config

import "time"

// Config is the root configuration structure for Crosswind.
// It contains all configuration sections for the HTTP server, the
// generative endpoint, usage limits, storage, the pipeline components,
// scheduling and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen
	// address, timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Gemini contains configuration for the generative endpoint used
	// by insights and copy generation.
	Gemini GeminiConfig `yaml:"gemini"`

	// Usage contains rate limit and cost tracking configuration for
	// the shared usage ledger.
	Usage UsageConfig `yaml:"usage"`

	// Store contains configuration for the campaign metrics store.
	Store StoreConfig `yaml:"store"`

	// AdStore contains configuration for the ad performance library.
	AdStore AdStoreConfig `yaml:"ad_store"`

	// Collector contains configuration for metrics collection.
	Collector CollectorConfig `yaml:"collector"`

	// Optimizer contains bid and budget optimization tunables.
	Optimizer OptimizerConfig `yaml:"optimizer"`

	// Alerts contains alert thresholds and notification settings.
	Alerts AlertsConfig `yaml:"alerts"`

	// Reports contains report generation settings.
	Reports ReportsConfig `yaml:"reports"`

	// Scheduler contains cron schedules for the background jobs.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Telemetry contains observability configuration for logging and
	// metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch enables hot-reloading of this file. When true the service
	// watches the configuration file and applies safe changes without
	// a restart.
	// Default: false
	Watch bool `yaml:"watch"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are dropped.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// RequestTimeout bounds the handling of a single API request,
	// including any synchronous pipeline work it triggers.
	// Default: 120s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Use ["*"] to allow all origins (not recommended for production).
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers that are exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed in
	// CORS requests.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// GeminiConfig contains configuration for the generative endpoint.
type GeminiConfig struct {
	// BaseURL is the base URL for the generative API.
	// Default: "https://generativelanguage.googleapis.com/v1beta"
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates requests. Usually supplied via the
	// CROSSWIND_GEMINI_API_KEY or GEMINI_API_KEY environment variable
	// rather than the file.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier to generate with.
	// Default: "gemini-2.0-flash-exp"
	Model string `yaml:"model"`

	// Timeout is the per-request timeout for generative calls.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retry attempts for transient
	// failures (429, 5xx, network errors).
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// Temperature controls sampling randomness. Range 0.0 to 2.0.
	// Default: 0.7
	Temperature float64 `yaml:"temperature"`

	// MaxOutputTokens caps the generated response length.
	// Default: 2048
	MaxOutputTokens int `yaml:"max_output_tokens"`
}

// UsageConfig contains rate limit and cost tracking configuration for
// the usage ledger.
type UsageConfig struct {
	// RPMLimit is the rolling one-minute request budget.
	// Default: 15
	RPMLimit int `yaml:"rpm_limit"`

	// TPMLimit is the rolling one-minute token budget. Admission waits
	// start at 90% of this value.
	// Default: 1000000
	TPMLimit int `yaml:"tpm_limit"`

	// CostPerMillionInput is the dollar price per million input tokens.
	// Default: 0.075
	CostPerMillionInput float64 `yaml:"cost_per_million_input"`

	// CostPerMillionOutput is the dollar price per million output tokens.
	// Default: 0.30
	CostPerMillionOutput float64 `yaml:"cost_per_million_output"`

	// SnapshotEveryNRequests is the snapshot cadence: a usage snapshot
	// is written each time the successful-request total reaches a
	// multiple of this value.
	// Default: 10
	SnapshotEveryNRequests int `yaml:"snapshot_every_n_requests"`

	// SnapshotPath is the JSON file usage snapshots are written to.
	// Empty disables persistence.
	// Default: "data/usage.json"
	SnapshotPath string `yaml:"snapshot_path"`

	// WaitPolicy selects how admission waits interact with the ledger
	// lock: "hold_lock" (strict FIFO) or "release_lock" (ledger stays
	// live during waits).
	// Default: "hold_lock"
	WaitPolicy string `yaml:"wait_policy"`
}

// StoreConfig contains configuration for the campaign metrics store.
type StoreConfig struct {
	// Backend selects the storage backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "data/crosswind.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables SQLite write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// AdStoreConfig contains configuration for the ad performance library.
type AdStoreConfig struct {
	// Path is the SQLite database file path for stored ad records.
	// Default: "data/adlibrary.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits on a locked database,
	// in milliseconds on the wire but expressed as a duration here.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// CollectorConfig contains configuration for campaign metrics collection.
type CollectorConfig struct {
	// Platforms lists the advertising platforms to collect from.
	// Default: ["google_ads", "meta", "linkedin"]
	Platforms []string `yaml:"platforms"`

	// CampaignsPerPlatform is how many campaigns each platform reports.
	// Default: 5
	CampaignsPerPlatform int `yaml:"campaigns_per_platform"`

	// Seed seeds the synthetic metrics generator. Zero draws a random
	// seed per process, any other value makes collection reproducible.
	// Default: 0
	Seed int64 `yaml:"seed"`
}

// OptimizerConfig contains bid and budget optimization tunables.
type OptimizerConfig struct {
	// TargetROAS is the return-on-ad-spend the optimizer steers toward.
	// Default: 3.0
	TargetROAS float64 `yaml:"target_roas"`

	// MaxBidChange caps a single bid adjustment as a fraction of the
	// current bid (0.25 = 25%).
	// Default: 0.25
	MaxBidChange float64 `yaml:"max_bid_change"`

	// MinDataPoints is the minimum number of historical records a
	// campaign needs before the optimizer will touch it.
	// Default: 7
	MinDataPoints int `yaml:"min_data_points"`
}

// AlertsConfig contains alert thresholds and notification settings.
type AlertsConfig struct {
	// BudgetUtilizationThreshold is the percent of daily budget spend
	// above which a budget alert fires.
	// Default: 80.0
	BudgetUtilizationThreshold float64 `yaml:"budget_utilization_threshold"`

	// ROASThreshold is the return-on-ad-spend below which a
	// performance alert fires.
	// Default: 2.0
	ROASThreshold float64 `yaml:"roas_threshold"`

	// SlackWebhookURL receives alert notifications. Empty disables
	// Slack delivery; alerts are still recorded in history.
	SlackWebhookURL string `yaml:"slack_webhook_url"`

	// WebhookTimeout bounds a single notification POST.
	// Default: 10s
	WebhookTimeout time.Duration `yaml:"webhook_timeout"`

	// MaxHistory is the alert history high-water mark; when history
	// grows past it the oldest entries are dropped.
	// Default: 100
	MaxHistory int `yaml:"max_history"`

	// HistoryTrim is the size history is trimmed back to when
	// MaxHistory is exceeded.
	// Default: 50
	HistoryTrim int `yaml:"history_trim"`
}

// ReportsConfig contains report generation settings.
type ReportsConfig struct {
	// OutputDir is the directory generated reports are written to.
	// Default: "reports"
	OutputDir string `yaml:"output_dir"`
}

// SchedulerConfig contains cron schedules for the background jobs.
// Schedules use standard five-field cron syntax.
type SchedulerConfig struct {
	// Enabled controls whether background jobs run at all. When false
	// the pipeline only runs on demand through the API.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// PipelineSchedule triggers collection, alerting and storage of
	// high performers.
	// Default: "*/30 * * * *" (every 30 minutes)
	PipelineSchedule string `yaml:"pipeline_schedule"`

	// OptimizationSchedule triggers bid and budget optimization.
	// Default: "0 */2 * * *" (every 2 hours)
	OptimizationSchedule string `yaml:"optimization_schedule"`

	// ReportSchedule triggers daily report generation.
	// Default: "0 6 * * *" (daily at 6 AM)
	ReportSchedule string `yaml:"report_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log output.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path metrics are exposed on.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "crosswind"
	Namespace string `yaml:"namespace"`
}
