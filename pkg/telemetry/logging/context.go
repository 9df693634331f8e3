package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for HTTP request IDs.
	RequestIDKey contextKey = "request_id"

	// JobKey is the context key for scheduled job names.
	JobKey contextKey = "job"

	// CampaignKey is the context key for campaign identifiers.
	CampaignKey contextKey = "campaign"

	// PlatformKey is the context key for advertising platform names.
	PlatformKey contextKey = "platform"

	// ComponentKey is the context key for pipeline component names.
	ComponentKey contextKey = "component"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithJob adds a scheduled job name to the context.
func WithJob(ctx context.Context, job string) context.Context {
	return context.WithValue(ctx, JobKey, job)
}

// GetJob retrieves the scheduled job name from the context.
func GetJob(ctx context.Context) string {
	if job, ok := ctx.Value(JobKey).(string); ok {
		return job
	}
	return ""
}

// WithCampaign adds a campaign identifier to the context.
func WithCampaign(ctx context.Context, campaign string) context.Context {
	return context.WithValue(ctx, CampaignKey, campaign)
}

// GetCampaign retrieves the campaign identifier from the context.
func GetCampaign(ctx context.Context) string {
	if campaign, ok := ctx.Value(CampaignKey).(string); ok {
		return campaign
	}
	return ""
}

// WithPlatform adds an advertising platform name to the context.
func WithPlatform(ctx context.Context, platform string) context.Context {
	return context.WithValue(ctx, PlatformKey, platform)
}

// GetPlatform retrieves the advertising platform name from the context.
func GetPlatform(ctx context.Context) string {
	if platform, ok := ctx.Value(PlatformKey).(string); ok {
		return platform
	}
	return ""
}

// WithComponent adds a pipeline component name to the context.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, ComponentKey, component)
}

// GetComponent retrieves the pipeline component name from the context.
func GetComponent(ctx context.Context) string {
	if component, ok := ctx.Value(ComponentKey).(string); ok {
		return component
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if job := GetJob(ctx); job != "" {
		fields = append(fields, "job", job)
	}
	if campaign := GetCampaign(ctx); campaign != "" {
		fields = append(fields, "campaign", campaign)
	}
	if platform := GetPlatform(ctx); platform != "" {
		fields = append(fields, "platform", platform)
	}
	if component := GetComponent(ctx); component != "" {
		fields = append(fields, "component", component)
	}

	return fields
}
