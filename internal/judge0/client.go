package judge0

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	submissionsPath = "/submissions"
	languagesPath   = "/languages"

	// fieldsAll asks the service for every result field.
	fieldsAll = "all"
)

// ClientOptions tunes a Client. Zero values fall back to defaults.
type ClientOptions struct {
	// HTTPClient overrides the underlying HTTP client, mainly for tests.
	HTTPClient *http.Client
	// MaxPollAttempts bounds WaitForResult's attempt budget.
	MaxPollAttempts int
	// PollInterval is the fixed delay between poll attempts.
	PollInterval time.Duration
}

// Client is the high-level execution service client. It combines the
// endpoint registry, the per-endpoint transport, the fallback loop, and
// the result poller behind a small API.
type Client struct {
	reg          *Registry
	transport    *transport
	logger       *slog.Logger
	maxAttempts  int
	pollInterval time.Duration
}

// NewClient builds a client over the given registry and credentials.
func NewClient(reg *Registry, creds Credentials, opts ClientOptions, logger *slog.Logger) *Client {
	c := &Client{
		reg:          reg,
		transport:    newTransport(creds, opts.HTTPClient, logger),
		logger:       logger,
		maxAttempts:  opts.MaxPollAttempts,
		pollInterval: opts.PollInterval,
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxPollAttempts
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	return c
}

// Registry returns the client's endpoint registry.
func (c *Client) Registry() *Registry {
	return c.reg
}

// tokenResponse is the service's answer to an asynchronous submission.
type tokenResponse struct {
	Token string `json:"token"`
}

// Submit sends a submission with wait=false and returns the issued token
// together with the endpoint that accepted it. The token is only valid
// against that endpoint, so callers must pass the same endpoint to
// FetchResult or WaitForResult.
func (c *Client) Submit(ctx context.Context, req SubmissionRequest) (string, Endpoint, error) {
	body := encodeSubmission(req)
	path := submissionsPath + "?" + submissionQuery(false)

	return tryEndpoints(c.reg, c.logger, func(ep Endpoint) (string, error) {
		resp, err := c.transport.send(ctx, ep, http.MethodPost, path, nil, body)
		if err != nil {
			return "", err
		}

		var tok tokenResponse
		if err := json.Unmarshal(resp.body, &tok); err != nil {
			return "", fmt.Errorf("parse submission response from %s: %w", ep.Host, err)
		}
		if tok.Token == "" {
			return "", fmt.Errorf("submission response from %s missing token", ep.Host)
		}
		return tok.Token, nil
	})
}

// Execute sends a submission with wait=true, so the serving endpoint runs
// it synchronously and returns a full, already-terminal result. Output
// fields are base64-decoded before returning.
func (c *Client) Execute(ctx context.Context, req SubmissionRequest) (*ExecutionResult, Endpoint, error) {
	body := encodeSubmission(req)
	path := submissionsPath + "?" + submissionQuery(true)

	return tryEndpoints(c.reg, c.logger, func(ep Endpoint) (*ExecutionResult, error) {
		resp, err := c.transport.send(ctx, ep, http.MethodPost, path, nil, body)
		if err != nil {
			return nil, err
		}
		return parseResult(resp.body, ep.Host)
	})
}

// FetchResult retrieves the current result for a token from the endpoint
// that issued it. The result may be non-terminal; callers that need a
// finished result use WaitForResult.
func (c *Client) FetchResult(ctx context.Context, ep Endpoint, token string) (*ExecutionResult, error) {
	path := fmt.Sprintf("%s/%s?%s", submissionsPath, url.PathEscape(token), resultQuery())

	resp, err := c.transport.send(ctx, ep, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parseResult(resp.body, ep.Host)
}

// WaitForResult polls the issuing endpoint until the token's result is
// terminal or the client's poll budget runs out.
func (c *Client) WaitForResult(ctx context.Context, ep Endpoint, token string) (*ExecutionResult, error) {
	return pollForResult(ctx, func(ctx context.Context) (*ExecutionResult, error) {
		return c.FetchResult(ctx, ep, token)
	}, c.maxAttempts, c.pollInterval, c.logger)
}

// Language is one runtime supported by the execution service.
type Language struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Languages fetches the supported language list from the first endpoint
// that answers.
func (c *Client) Languages(ctx context.Context) ([]Language, Endpoint, error) {
	return tryEndpoints(c.reg, c.logger, func(ep Endpoint) ([]Language, error) {
		resp, err := c.transport.send(ctx, ep, http.MethodGet, languagesPath, nil, nil)
		if err != nil {
			return nil, err
		}

		var langs []Language
		if err := json.Unmarshal(resp.body, &langs); err != nil {
			return nil, fmt.Errorf("parse languages from %s: %w", ep.Host, err)
		}
		return langs, nil
	})
}

// parseResult decodes a raw result body, requiring a status object and
// base64-decoding the output fields. A result without a status is
// malformed and fails the attempt.
func parseResult(body []byte, host string) (*ExecutionResult, error) {
	var res ExecutionResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parse result from %s: %w", host, err)
	}
	if res.Status.ID == 0 {
		return nil, fmt.Errorf("result from %s missing status", host)
	}
	if err := decodeResult(&res); err != nil {
		return nil, fmt.Errorf("result from %s: %w", host, err)
	}
	return &res, nil
}

// submissionQuery builds the query string for creating submissions. The
// payload is always base64-encoded by encodeSubmission, so base64_encoded
// is unconditionally true on the wire.
func submissionQuery(wait bool) string {
	q := url.Values{}
	q.Set("base64_encoded", "true")
	q.Set("wait", fmt.Sprintf("%t", wait))
	q.Set("fields", fieldsAll)
	return q.Encode()
}

// resultQuery builds the query string for fetching a submission's result.
func resultQuery() string {
	q := url.Values{}
	q.Set("base64_encoded", "true")
	q.Set("fields", fieldsAll)
	return q.Encode()
}
