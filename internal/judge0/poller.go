package judge0

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Polling defaults; the worst-case wall-clock budget is roughly
// maxAttempts * interval plus per-attempt network latency.
const (
	DefaultMaxPollAttempts = 30
	DefaultPollInterval    = time.Second
)

// pollForResult repeatedly invokes fetch until it reports a terminal status
// or the attempt budget runs out. A terminal result is returned immediately
// without a trailing sleep. Fetch failures are retryable: they are logged
// and the poller moves to the next attempt, except on the final attempt,
// where the error is returned. Exhausting the budget on non-terminal
// statuses yields an error wrapping ErrPollTimeout that names the attempt
// count.
func pollForResult(ctx context.Context, fetch func(context.Context) (*ExecutionResult, error), maxAttempts int, interval time.Duration, logger *slog.Logger) (*ExecutionResult, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPollAttempts
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := fetch(ctx)
		switch {
		case err != nil:
			if attempt == maxAttempts {
				return nil, err
			}
			logger.Warn("result fetch failed, retrying",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"error", err,
			)
		case IsTerminal(res.Status.ID):
			return res, nil
		}

		if attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("%w: no terminal status after %d attempts", ErrPollTimeout, maxAttempts)
}
