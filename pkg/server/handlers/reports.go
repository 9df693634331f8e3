package handlers

import (
	"log/slog"
	"net/http"

	"meridian-hq/crosswind/pkg/pipeline"
	"meridian-hq/crosswind/pkg/reports"
)

// defaultReportBudget is the reallocation budget assumed when the
// request does not name one.
const defaultReportBudget = 5000.0

// reportRequest carries the optional reallocation budget for the
// report's optimization section.
type reportRequest struct {
	TotalBudget float64 `json:"total_budget"`
}

// reportResponse points at the written report artifacts.
type reportResponse struct {
	Status      string           `json:"status"`
	HTMLReport  string           `json:"html_report"`
	SummaryFile string           `json:"summary_file"`
	Summary     *reports.Summary `json:"summary"`
}

// ReportsHandler builds a full performance report on demand and writes
// the HTML and JSON artifacts to the report directory.
type ReportsHandler struct {
	Pipeline *pipeline.Pipeline
}

// NewReportsHandler creates the report generation handler.
func NewReportsHandler(p *pipeline.Pipeline) *ReportsHandler {
	return &ReportsHandler{Pipeline: p}
}

// ServeHTTP implements http.Handler for POST /api/reports.
func (h *ReportsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		methodNotAllowed(ctx, w, http.MethodPost)
		return
	}

	req := reportRequest{TotalBudget: defaultReportBudget}
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.Pipeline.Report(ctx, req.TotalBudget)
	if err != nil {
		slog.ErrorContext(ctx, "report generation failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, w, http.StatusOK, reportResponse{
		Status:      "success",
		HTMLReport:  result.HTMLPath,
		SummaryFile: result.SummaryPath,
		Summary:     result.Summary,
	})
}
