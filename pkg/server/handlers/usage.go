package handlers

import (
	"net/http"

	"meridian-hq/crosswind/pkg/genai"
	"meridian-hq/crosswind/pkg/usage"
)

// usageResponse carries the ledger's aggregated model usage.
type usageResponse struct {
	Status string      `json:"status"`
	Usage  usage.Stats `json:"usage"`
}

// UsageHandler reports token usage and estimated spend from the
// metered client's ledger. A nil client reports zero usage.
type UsageHandler struct {
	Client *genai.MeteredClient
}

// NewUsageHandler creates the usage stats handler.
func NewUsageHandler(client *genai.MeteredClient) *UsageHandler {
	return &UsageHandler{Client: client}
}

// ServeHTTP implements http.Handler for GET /api/usage.
func (h *UsageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w, http.MethodGet)
		return
	}

	var stats usage.Stats
	if h.Client != nil {
		stats = h.Client.Stats()
	}

	writeJSON(ctx, w, http.StatusOK, usageResponse{
		Status: "success",
		Usage:  stats,
	})
}
