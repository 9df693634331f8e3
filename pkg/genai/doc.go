// Package genai is the HTTP client for the generative endpoint that
// backs insights and ad copy generation.
//
// Client speaks the generateContent wire format with pooled
// connections, retries transient failures with exponential backoff, and
// maps endpoint failures to typed errors (AuthError, RateLimitError,
// TimeoutError, ParseError, APIError). Token counts come from the
// response's usage metadata; when the endpoint omits it the client
// falls back to a length/4 estimate so accounting never has gaps.
//
// MeteredClient couples the client to the usage ledger: every call is
// admitted against the rolling request and token budgets, and its
// outcome is recorded under the calling component. Components should go
// through MeteredClient; the bare Client is for tests and tooling.
//
// A client without an API key is deliberately constructible. It reports
// Available() == false and callers degrade to template output, which
// keeps the whole service usable with no credentials at all.
package genai
