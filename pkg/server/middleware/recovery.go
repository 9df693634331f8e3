package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// errorResponse is the JSON envelope written for middleware failures.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Recovery catches panics in HTTP handlers and returns a 500 error.
// The panic value and stack trace are logged, but never exposed to
// the client.
//
// Example usage:
//
//	handler = middleware.Recovery(handler)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				ctx := r.Context()
				slog.ErrorContext(ctx, "panic recovered",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(errorResponse{
					Status:  "error",
					Message: "internal server error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
