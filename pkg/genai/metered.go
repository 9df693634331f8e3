package genai

import (
	"context"
	"encoding/json"
	"log/slog"

	"meridian-hq/crosswind/pkg/usage"
)

// MeteredClient wraps a Client with the usage ledger. Every call is
// admitted against the rolling rate limits before it leaves the
// process and recorded afterward, attributed to the calling component.
type MeteredClient struct {
	client *Client
	ledger *usage.Ledger
	logger *slog.Logger
}

// NewMetered wraps client with ledger accounting.
func NewMetered(client *Client, ledger *usage.Ledger, logger *slog.Logger) *MeteredClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeteredClient{
		client: client,
		ledger: ledger,
		logger: logger.With("component", "genai.metered"),
	}
}

// Available reports whether the underlying client can reach the
// endpoint.
func (m *MeteredClient) Available() bool {
	return m.client.Available()
}

// Model returns the configured model identifier.
func (m *MeteredClient) Model() string {
	return m.client.Model()
}

// Generate admits the request against the ledger's budgets, performs
// the call and records the outcome under the given component. Failed
// calls record an error with zero tokens.
func (m *MeteredClient) Generate(ctx context.Context, component usage.Component, prompt string) (*Result, error) {
	if !m.client.Available() {
		return nil, ErrUnavailable
	}

	m.ledger.Admit()

	result, err := m.client.Generate(ctx, prompt)
	if err != nil {
		m.ledger.Record(component, 0, 0, false)
		return nil, err
	}

	m.ledger.Record(component, result.InputTokens, result.OutputTokens, true)
	return result, nil
}

// GenerateJSON admits the request, generates, and decodes a JSON object
// from the model output into v. Unparseable model output counts as a
// failed call: the tokens were spent, but output the caller cannot use
// is an error as far as accounting goes.
func (m *MeteredClient) GenerateJSON(ctx context.Context, component usage.Component, prompt string, v any) (*Result, error) {
	if !m.client.Available() {
		return nil, ErrUnavailable
	}

	m.ledger.Admit()

	result, err := m.client.Generate(ctx, prompt)
	if err != nil {
		m.ledger.Record(component, 0, 0, false)
		return nil, err
	}

	raw, err := ExtractJSON(result.Text)
	if err != nil {
		m.ledger.Record(component, 0, 0, false)
		return nil, &ParseError{RawResponse: result.Text, Cause: err}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		m.ledger.Record(component, 0, 0, false)
		return nil, &ParseError{RawResponse: result.Text, Cause: err}
	}

	m.ledger.Record(component, result.InputTokens, result.OutputTokens, true)
	return result, nil
}

// Stats returns the ledger's point-in-time accounting view.
func (m *MeteredClient) Stats() usage.Stats {
	return m.ledger.Stats()
}
