package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"meridian-hq/crosswind/pkg/config"
)

// Client talks to a Gemini-style generateContent endpoint over HTTP
// with connection pooling and retry on transient failures.
//
// A client built without an API key is a valid no-op: Available()
// reports false and Generate returns ErrUnavailable, so callers can
// construct it unconditionally and branch on availability.
type Client struct {
	config *config.GeminiConfig
	client *http.Client
	logger *slog.Logger
}

// New creates a client. A nil config or empty API key yields an
// unavailable client rather than an error.
func New(cfg *config.GeminiConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "genai")

	if cfg == nil || cfg.APIKey == "" {
		logger.Warn("no API key configured, generative features disabled")
		return &Client{logger: logger}
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}
}

// Available reports whether the client can reach the endpoint.
func (c *Client) Available() bool {
	return c.config != nil
}

// Model returns the configured model identifier, or "" when the client
// is unavailable.
func (c *Client) Model() string {
	if c.config == nil {
		return ""
	}
	return c.config.Model
}

// Generate sends the prompt to the endpoint and returns the generated
// text with token accounting. Transient failures (5xx, network errors)
// are retried with exponential backoff; auth failures, rate limits and
// bad requests are returned immediately as typed errors.
func (c *Client) Generate(ctx context.Context, prompt string) (*Result, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}

	body, err := json.Marshal(&generateRequest{
		Contents: []content{{
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimSuffix(c.config.BaseURL, "/"), c.config.Model)

	respBody, err := c.doWithRetry(ctx, url, body)
	if err != nil {
		return nil, err
	}

	return c.parseResponse(prompt, respBody)
}

// doWithRetry posts the body, retrying transient failures with
// exponential backoff while the context allows.
func (c *Client) doWithRetry(ctx context.Context, url string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.config.APIKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err

			if ctx.Err() != nil {
				return nil, &TimeoutError{Timeout: c.config.Timeout}
			}

			c.logger.Warn("request failed, will retry", "attempt", attempt+1, "error", err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			respBody, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, &ParseError{Cause: fmt.Errorf("failed to read response: %w", err)}
			}
			return respBody, nil
		}

		errorBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, &AuthError{Message: string(errorBody)}

		case http.StatusTooManyRequests:
			return nil, &RateLimitError{
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
				Message:    string(errorBody),
			}

		case http.StatusBadRequest:
			return nil, &APIError{StatusCode: resp.StatusCode, Message: string(errorBody)}

		default:
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: string(errorBody)}
			c.logger.Warn("request returned error status, will retry",
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
		}
	}

	return nil, lastErr
}

// parseResponse extracts the generated text and token accounting.
func (c *Client) parseResponse(prompt string, body []byte) (*Result, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{
			RawResponse: string(body),
			Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	if len(resp.Candidates) == 0 {
		return nil, &ParseError{
			RawResponse: string(body),
			Cause:       fmt.Errorf("response contained no candidates"),
		}
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := sb.String()

	if text == "" {
		return nil, &ParseError{
			RawResponse: string(body),
			Cause:       fmt.Errorf("response contained no text"),
		}
	}

	result := &Result{Text: text}

	if um := resp.UsageMetadata; um != nil && um.PromptTokenCount+um.CandidatesTokenCount > 0 {
		result.InputTokens = uint64(um.PromptTokenCount)
		result.OutputTokens = uint64(um.CandidatesTokenCount)
	} else {
		// No usage metadata, approximate at 4 characters per token.
		result.InputTokens = uint64(len(prompt) / 4)
		result.OutputTokens = uint64(len(text) / 4)
		result.Estimated = true
	}

	c.logger.Debug("generation complete",
		"input_tokens", result.InputTokens,
		"output_tokens", result.OutputTokens,
		"estimated", result.Estimated,
	)

	return result, nil
}

// Close releases pooled connections.
func (c *Client) Close() {
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
}
