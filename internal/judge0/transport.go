package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRapidAPIKey        = "X-RapidAPI-Key"
	headerRapidAPIHost       = "X-RapidAPI-Host"

	defaultHTTPTimeout = 30 * time.Second

	// errorBodyLimit caps how much of an error response body is read into
	// the error message.
	errorBodyLimit = 4 << 10
)

// Credentials holds the secrets used to authenticate against endpoints,
// selected per endpoint by its type.
type Credentials struct {
	RapidAPIKey string
	CEToken     string
}

// wireResponse is a successful (2xx) response from a single endpoint.
type wireResponse struct {
	status int
	body   []byte
	// rateLimitRemaining is the parsed X-RateLimit-Remaining header,
	// or -1 when the endpoint did not send one.
	rateLimitRemaining int
}

// transport performs HTTP calls against individual endpoints. It injects
// the authentication headers an endpoint's type requires, captures
// rate-limit telemetry, and converts every non-2xx response into an
// *EndpointError so failures stay traceable to the host that produced them.
type transport struct {
	http   *http.Client
	creds  Credentials
	logger *slog.Logger
}

func newTransport(creds Credentials, httpClient *http.Client, logger *slog.Logger) *transport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &transport{
		http:   httpClient,
		creds:  creds,
		logger: logger,
	}
}

// send issues a request to ep at the given relative path. A nil body sends
// no payload. Extra headers are merged in before the auth headers, so
// authentication always wins on collision. The returned response always has
// a 2xx status; anything else comes back as an *EndpointError.
func (t *transport) send(ctx context.Context, ep Endpoint, method, path string, extra http.Header, body any) (*wireResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, ep.URL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", ep.Host, err)
	}

	for key, values := range extra {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	// Auth headers applied last so caller-supplied headers cannot strip
	// authentication.
	req.Header.Set("Content-Type", "application/json")
	switch ep.Type {
	case TypeRapidAPI:
		req.Header.Set(headerRapidAPIKey, t.creds.RapidAPIKey)
		req.Header.Set(headerRapidAPIHost, ep.Host)
	case TypeCE:
		req.Header.Set("Authorization", "Bearer "+t.creds.CEToken)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(ep.Host, outcomeNetworkError).Inc()
		return nil, wrapNetworkError(ep.Host, err)
	}
	defer resp.Body.Close()

	remaining := parseRateLimitRemaining(resp.Header)
	if remaining >= 0 {
		upstreamRateLimitRemaining.WithLabelValues(ep.Host).Set(float64(remaining))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamRequestsTotal.WithLabelValues(ep.Host, outcomeHTTPError).Inc()
		msg := readErrorMessage(resp.Body)
		t.logger.Warn("endpoint request failed",
			"host", ep.Host,
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, &EndpointError{
			Host:    ep.Host,
			Status:  resp.StatusCode,
			Message: msg,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(ep.Host, outcomeNetworkError).Inc()
		return nil, wrapNetworkError(ep.Host, err)
	}

	upstreamRequestsTotal.WithLabelValues(ep.Host, outcomeOK).Inc()
	return &wireResponse{
		status:             resp.StatusCode,
		body:               data,
		rateLimitRemaining: remaining,
	}, nil
}

// wrapNetworkError attaches the endpoint host to a network-level failure.
// If the error already carries endpoint context, the host is merged in
// rather than wrapped again.
func wrapNetworkError(host string, err error) error {
	var epErr *EndpointError
	if errors.As(err, &epErr) {
		if epErr.Host == "" {
			epErr.Host = host
		}
		return err
	}
	return &EndpointError{
		Host:    host,
		Message: err.Error(),
		cause:   err,
	}
}

// parseRateLimitRemaining reads the remaining-quota header, returning -1
// when it is absent or unparseable. Absence is not an error; CE endpoints
// never send the header.
func parseRateLimitRemaining(h http.Header) int {
	raw := h.Get(headerRateLimitRemaining)
	if raw == "" {
		return -1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

// readErrorMessage extracts a human-readable message from an error response
// body. Judge0 reports errors as {"error": "..."}; anything else is used
// verbatim, truncated.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, errorBodyLimit))
	if err != nil || len(data) == 0 {
		return "request failed"
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(data))
}
