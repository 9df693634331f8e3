package handlers

import "net/http"

// indexResponse describes the API surface for discovery.
type indexResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// IndexHandler serves the API index at the root path.
type IndexHandler struct {
	Version string
}

// NewIndexHandler creates the root index handler.
func NewIndexHandler(version string) *IndexHandler {
	return &IndexHandler{Version: version}
}

// ServeHTTP implements http.Handler for the API index.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The root pattern matches every unregistered path.
	if r.URL.Path != "/" {
		writeError(ctx, w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(ctx, w, http.MethodGet)
		return
	}

	writeJSON(ctx, w, http.StatusOK, indexResponse{
		Name:    "crosswind",
		Version: h.Version,
		Endpoints: []string{
			"/health",
			"/ready",
			"/version",
			"/metrics",
			"/api/collect",
			"/api/alerts",
			"/api/optimize",
			"/api/insights",
			"/api/usage",
			"/api/reports",
			"/api/copy",
			"/api/status",
		},
	})
}
