package judge0

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrAllEndpointsFailed is returned when every configured endpoint failed
// and no individual error was captured.
var ErrAllEndpointsFailed = errors.New("all execution endpoints failed")

// ErrPollTimeout is returned when the polling budget is exhausted before a
// terminal status is observed.
var ErrPollTimeout = errors.New("polling budget exhausted")

// EndpointError describes a failed request against a single endpoint. It
// always carries the host that produced it, and the HTTP status when one
// was received (Status is 0 for network-level failures).
type EndpointError struct {
	Host    string
	Status  int
	Message string
	cause   error
}

func (e *EndpointError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("endpoint %s: %s (status %d)", e.Host, e.Message, e.Status)
	}
	return fmt.Sprintf("endpoint %s: %s", e.Host, e.Message)
}

// Unwrap exposes the underlying network error, if any.
func (e *EndpointError) Unwrap() error {
	return e.cause
}

// RateLimited reports whether the endpoint rejected the request for quota
// exhaustion rather than being down.
func (e *EndpointError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// AggregateError is returned when every endpoint in the registry failed and
// at least one of them was rate limited. Enumerating the rate-limited hosts
// distinguishes "quota exhausted" from "service down" without re-running.
type AggregateError struct {
	// RateLimitedHosts lists the hosts that answered 429, in attempt order.
	RateLimitedHosts []string
	// Last is the error from the final endpoint attempted.
	Last error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("all endpoints failed; rate limited: %s; last error: %v",
		strings.Join(e.RateLimitedHosts, ", "), e.Last)
}

// Unwrap exposes the last endpoint error for errors.Is/As inspection.
func (e *AggregateError) Unwrap() error {
	return e.Last
}
