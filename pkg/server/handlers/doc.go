// Package handlers implements the crosswind HTTP API endpoints.
//
// Each handler is a struct carrying the components it needs and
// implementing http.Handler. Handlers check the method first, run the
// operation, and answer with JSON. Failures use the shared error
// envelope {"status": "error", "message": "..."}.
package handlers
