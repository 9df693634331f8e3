package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// errorResponse is the JSON envelope for failed requests.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes the error envelope with the given status code.
func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, errorResponse{
		Status:  "error",
		Message: message,
	})
}

// methodNotAllowed writes a 405 error envelope.
func methodNotAllowed(ctx context.Context, w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(ctx, w, http.StatusMethodNotAllowed, "method not allowed, use "+allowed)
}

// decodeBody decodes an optional JSON request body into v. An empty body
// leaves v untouched so callers keep their defaults.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
