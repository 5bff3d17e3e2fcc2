package judge0

import (
	"errors"
	"log/slog"
)

// tryEndpoints runs fn against registry endpoints in ascending priority
// order and returns the first success along with the endpoint that served
// it, so callers can pin follow-up requests (token polling) to the same
// host. Failures are carried as explicit results: each error is recorded
// and the loop moves on to the next endpoint, strictly sequentially.
//
// When every endpoint fails and at least one was rate limited, the returned
// error is an *AggregateError enumerating the rate-limited hosts; otherwise
// the last endpoint's error is returned as-is. Side effects already
// committed by failed attempts (such as a partially accepted submission)
// are not rolled back.
func tryEndpoints[T any](reg *Registry, logger *slog.Logger, fn func(Endpoint) (T, error)) (T, Endpoint, error) {
	var (
		zero        T
		lastErr     error
		rateLimited []string
	)

	for _, ep := range reg.ByPriority() {
		v, err := fn(ep)
		if err == nil {
			return v, ep, nil
		}

		lastErr = err
		var epErr *EndpointError
		if errors.As(err, &epErr) && epErr.RateLimited() {
			rateLimited = append(rateLimited, ep.Host)
		}
		logger.Warn("endpoint attempt failed, falling back",
			"host", ep.Host,
			"priority", ep.Priority,
			"error", err,
		)
	}

	if len(rateLimited) > 0 {
		return zero, Endpoint{}, &AggregateError{
			RateLimitedHosts: rateLimited,
			Last:             lastErr,
		}
	}
	if lastErr != nil {
		return zero, Endpoint{}, lastErr
	}
	return zero, Endpoint{}, ErrAllEndpointsFailed
}
