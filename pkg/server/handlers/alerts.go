package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"meridian-hq/crosswind/pkg/alerts"
	"meridian-hq/crosswind/pkg/store"
)

// alertWindow is how far back the alert check looks for fresh metrics.
const alertWindow = time.Hour

// alertsResponse lists the alerts fired by an on-demand check.
type alertsResponse struct {
	Status      string          `json:"status"`
	Alerts      []*alerts.Alert `json:"alerts"`
	TotalAlerts int             `json:"total_alerts"`
}

// AlertsHandler evaluates alert thresholds against the last hour of
// metrics. Fired alerts go through the manager, so they land in the
// alert history and the notifier like scheduled checks do.
type AlertsHandler struct {
	Store  store.Store
	Alerts *alerts.Manager
}

// NewAlertsHandler creates the alert check handler.
func NewAlertsHandler(st store.Store, mgr *alerts.Manager) *AlertsHandler {
	return &AlertsHandler{Store: st, Alerts: mgr}
}

// ServeHTTP implements http.Handler for GET /api/alerts.
func (h *AlertsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w, http.MethodGet)
		return
	}

	records, err := h.Store.RecentMetrics(ctx, time.Now().Add(-alertWindow))
	if err != nil {
		slog.ErrorContext(ctx, "failed to load recent metrics", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	fired := h.Alerts.CheckMetrics(ctx, records)
	if fired == nil {
		fired = []*alerts.Alert{}
	}

	writeJSON(ctx, w, http.StatusOK, alertsResponse{
		Status:      "success",
		Alerts:      fired,
		TotalAlerts: len(fired),
	})
}
