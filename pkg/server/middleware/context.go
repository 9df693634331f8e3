package middleware

// contextKey keeps middleware context values from colliding with keys
// set by other packages.
type contextKey string

const (
	// RequestIDKey carries the per-request ID set by RequestID.
	RequestIDKey contextKey = "request_id"

	// StartTimeKey carries the arrival time set by Logging for
	// middleware further down that needs request latency.
	StartTimeKey contextKey = "start_time"
)
