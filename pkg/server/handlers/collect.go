package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"meridian-hq/crosswind/pkg/pipeline"
)

// collectResponse reports the outcome of an on-demand collection run.
type collectResponse struct {
	Status             string         `json:"status"`
	CampaignsCollected int            `json:"campaigns_collected"`
	Platforms          map[string]int `json:"platforms"`
	AlertsFired        int            `json:"alerts_fired"`
	Timestamp          time.Time      `json:"timestamp"`
}

// CollectHandler triggers a collection pass over every configured
// platform source.
type CollectHandler struct {
	Pipeline *pipeline.Pipeline
}

// NewCollectHandler creates the collection trigger handler.
func NewCollectHandler(p *pipeline.Pipeline) *CollectHandler {
	return &CollectHandler{Pipeline: p}
}

// ServeHTTP implements http.Handler for POST /api/collect.
func (h *CollectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		methodNotAllowed(ctx, w, http.MethodPost)
		return
	}

	result, err := h.Pipeline.Collect(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "collection failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, w, http.StatusOK, collectResponse{
		Status:             "success",
		CampaignsCollected: result.Total,
		Platforms:          result.Campaigns,
		AlertsFired:        len(result.Alerts),
		Timestamp:          time.Now().UTC(),
	})
}
