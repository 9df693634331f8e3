package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/store"
)

// insightWindow is the analysis period for on-demand insight reports.
const insightWindow = 24 * time.Hour

// insightsResponse flattens the insight report for API consumers.
type insightsResponse struct {
	Status          string               `json:"status"`
	ReportID        string               `json:"report_id"`
	Summary         string               `json:"summary"`
	KeyMetrics      *insights.Statistics `json:"key_metrics"`
	Recommendations []string             `json:"recommendations"`
	Patterns        []string             `json:"patterns"`
	GeneratedBy     string               `json:"generated_by"`
}

// InsightsHandler produces an insight report over the last day of
// metrics. Unlike the scheduled pipeline it never writes report files.
type InsightsHandler struct {
	Store    store.Store
	Insights *insights.Agent
}

// NewInsightsHandler creates the insight report handler.
func NewInsightsHandler(st store.Store, agent *insights.Agent) *InsightsHandler {
	return &InsightsHandler{Store: st, Insights: agent}
}

// ServeHTTP implements http.Handler for GET /api/insights.
func (h *InsightsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w, http.MethodGet)
		return
	}

	records, err := h.Store.RecentMetrics(ctx, time.Now().Add(-insightWindow))
	if err != nil {
		slog.ErrorContext(ctx, "failed to load recent metrics", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	report := h.Insights.AnalyzePerformance(ctx, records)

	writeJSON(ctx, w, http.StatusOK, insightsResponse{
		Status:          "success",
		ReportID:        report.ReportID,
		Summary:         report.Summary,
		KeyMetrics:      report.KeyMetrics,
		Recommendations: report.Recommendations,
		Patterns:        report.Patterns,
		GeneratedBy:     report.GeneratedBy,
	})
}
