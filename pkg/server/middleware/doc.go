// Package middleware provides HTTP middleware for the crosswind server.
//
// The middleware compose as standard http.Handler wrappers. The server
// applies them so that Metrics and RequestID sit outermost; RequestID
// runs before Recovery and Logging so their log lines carry the ID:
//
//	handler = middleware.Timeout(cfg.RequestTimeout)(mux)
//	handler = middleware.CORS(&cfg.CORS)(handler)
//	handler = middleware.Logging(handler)
//	handler = middleware.Recovery(handler)
//	handler = middleware.RequestID(handler)
//	handler = middleware.Metrics(collector)(handler)
package middleware
