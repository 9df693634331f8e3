package handlers

import (
	"net/http"

	"meridian-hq/crosswind/pkg/copywriter"
)

// defaultCopyPlatform is assumed when the request names no platform.
const defaultCopyPlatform = "google_ads"

// copyRequest selects the platform to write copy for.
type copyRequest struct {
	Platform string `json:"platform"`
}

// copyResponse carries one generated set of copy variations.
type copyResponse struct {
	Status     string                 `json:"status"`
	Platform   string                 `json:"platform"`
	Source     string                 `json:"source"`
	Variations *copywriter.Variations `json:"variations"`
	Count      int                    `json:"count"`
}

// CopyHandler generates ad copy variations for a platform, through the
// model when one is configured and the built-in templates otherwise.
type CopyHandler struct {
	Copy *copywriter.Generator
}

// NewCopyHandler creates the copy generation handler.
func NewCopyHandler(gen *copywriter.Generator) *CopyHandler {
	return &CopyHandler{Copy: gen}
}

// ServeHTTP implements http.Handler for POST /api/copy.
func (h *CopyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		methodNotAllowed(ctx, w, http.MethodPost)
		return
	}

	req := copyRequest{Platform: defaultCopyPlatform}
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Platform == "" {
		req.Platform = defaultCopyPlatform
	}

	variations, source := h.Copy.Variations(ctx, req.Platform)

	writeJSON(ctx, w, http.StatusOK, copyResponse{
		Status:     "success",
		Platform:   req.Platform,
		Source:     source,
		Variations: variations,
		Count:      len(variations.Headlines),
	})
}
