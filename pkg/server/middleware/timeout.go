package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Timeout enforces a maximum duration for request handling. When the
// deadline expires before the handler finishes, the client receives a
// 504 Gateway Timeout and the handler's context is cancelled.
//
// Example usage:
//
//	handler = middleware.Timeout(30*time.Second)(handler)
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(w, r.WithContext(ctx))
			}()

			select {
			case <-done:
				// Request completed before the deadline.

			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					// The handler goroutine sees the cancelled context
					// and is expected to abandon its work.
					slog.WarnContext(r.Context(), "request timed out",
						"method", r.Method,
						"path", r.URL.Path,
						"timeout", timeout.String(),
						"request_id", GetRequestID(r.Context()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusGatewayTimeout)
					_ = json.NewEncoder(w).Encode(errorResponse{
						Status:  "error",
						Message: "request timed out",
					})
				}
			}
		})
	}
}
