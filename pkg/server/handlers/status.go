package handlers

import (
	"net/http"
	"time"

	"meridian-hq/crosswind/pkg/genai"
	"meridian-hq/crosswind/pkg/scheduler"
	"meridian-hq/crosswind/pkg/usage"
)

// generativeStatus reports whether the model path is usable.
type generativeStatus struct {
	Available bool   `json:"available"`
	Model     string `json:"model,omitempty"`
}

// schedulerStatus reports the cron runner state.
type schedulerStatus struct {
	Running  bool                 `json:"running"`
	NextRuns map[string]time.Time `json:"next_runs,omitempty"`
}

// statusResponse is the service-level status snapshot.
type statusResponse struct {
	Status     string           `json:"status"`
	Generative generativeStatus `json:"generative"`
	Usage      usage.Stats      `json:"usage"`
	Scheduler  *schedulerStatus `json:"scheduler,omitempty"`
}

// StatusHandler reports generative availability, ledger usage and
// scheduler state in one snapshot.
type StatusHandler struct {
	Client    *genai.MeteredClient
	Scheduler *scheduler.Scheduler
}

// NewStatusHandler creates the service status handler. Both fields may
// be nil for deployments running without a model or scheduler.
func NewStatusHandler(client *genai.MeteredClient, sched *scheduler.Scheduler) *StatusHandler {
	return &StatusHandler{Client: client, Scheduler: sched}
}

// ServeHTTP implements http.Handler for GET /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w, http.MethodGet)
		return
	}

	resp := statusResponse{Status: "success"}

	if h.Client != nil {
		resp.Generative = generativeStatus{
			Available: h.Client.Available(),
			Model:     h.Client.Model(),
		}
		resp.Usage = h.Client.Stats()
	}

	if h.Scheduler != nil {
		resp.Scheduler = &schedulerStatus{
			Running:  h.Scheduler.IsRunning(),
			NextRuns: h.Scheduler.NextRuns(),
		}
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
