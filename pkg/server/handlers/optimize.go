package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/store"
)

// optimizeWindow is how far back the optimization pass looks for
// current metrics.
const optimizeWindow = 24 * time.Hour

// optimizeRequest carries the optional reallocation budget. When
// absent or zero the budget is the sum of the campaigns' daily limits.
type optimizeRequest struct {
	TotalBudget float64 `json:"total_budget"`
}

// optimizeResponse carries bid adjustments and the budget plan.
type optimizeResponse struct {
	Status       string                  `json:"status"`
	Adjustments  []*optimizer.Adjustment `json:"adjustments"`
	Reallocation *optimizer.BudgetPlan   `json:"reallocation"`
}

// OptimizeHandler runs an on-demand optimization pass: bid adjustments
// from campaign history plus a performance-weighted budget plan.
type OptimizeHandler struct {
	Store     store.Store
	Optimizer *optimizer.Optimizer
}

// NewOptimizeHandler creates the optimization trigger handler.
func NewOptimizeHandler(st store.Store, opt *optimizer.Optimizer) *OptimizeHandler {
	return &OptimizeHandler{Store: st, Optimizer: opt}
}

// ServeHTTP implements http.Handler for POST /api/optimize.
func (h *OptimizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		methodNotAllowed(ctx, w, http.MethodPost)
		return
	}

	var req optimizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	records, err := h.Store.RecentMetrics(ctx, time.Now().Add(-optimizeWindow))
	if err != nil {
		slog.ErrorContext(ctx, "failed to load recent metrics", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	adjustments, err := h.Optimizer.CalculateAdjustments(ctx, records)
	if err != nil {
		slog.ErrorContext(ctx, "bid adjustment failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}
	if adjustments == nil {
		adjustments = []*optimizer.Adjustment{}
	}

	totalBudget := req.TotalBudget
	if totalBudget <= 0 {
		for _, record := range records {
			totalBudget += record.DailyBudgetLimit
		}
	}

	plan := h.Optimizer.BudgetReallocation(records, totalBudget)

	writeJSON(ctx, w, http.StatusOK, optimizeResponse{
		Status:       "success",
		Adjustments:  adjustments,
		Reallocation: plan,
	})
}
