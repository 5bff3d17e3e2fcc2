package judge0

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// HealthStatus is one endpoint's probe outcome. A probe never fails with a
// Go error; unhealthy endpoints come back with Healthy=false and the error
// message attached, so callers can fan out across many endpoints without
// one failure aborting the batch.
type HealthStatus struct {
	Endpoint string       `json:"endpoint"`
	Type     EndpointType `json:"type"`
	Priority int          `json:"priority"`
	Healthy  bool         `json:"healthy"`
	// RateLimitRemaining is the quota the endpoint last reported, 0 when
	// the endpoint sends no rate-limit header.
	RateLimitRemaining int    `json:"rate_limit_remaining"`
	Error              string `json:"error,omitempty"`
}

// CheckHealth probes a single endpoint via its lightweight language
// metadata route.
func (c *Client) CheckHealth(ctx context.Context, ep Endpoint) HealthStatus {
	status := HealthStatus{
		Endpoint: ep.Host,
		Type:     ep.Type,
		Priority: ep.Priority,
	}

	resp, err := c.transport.send(ctx, ep, http.MethodGet, languagesPath, nil, nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	status.Healthy = true
	if resp.rateLimitRemaining >= 0 {
		status.RateLimitRemaining = resp.rateLimitRemaining
	}
	return status
}

// CheckAll probes every registered endpoint concurrently. Each check is
// independent and side-effect-free, so the fan-out is safe; results come
// back in priority order regardless of completion order.
func (c *Client) CheckAll(ctx context.Context) []HealthStatus {
	endpoints := c.reg.ByPriority()
	statuses := make([]HealthStatus, len(endpoints))

	g, ctx := errgroup.WithContext(ctx)
	for i, ep := range endpoints {
		i, ep := i, ep
		g.Go(func() error {
			statuses[i] = c.CheckHealth(ctx, ep)
			return nil
		})
	}
	// Probes never return errors; Wait only synchronizes the fan-out.
	_ = g.Wait()

	return statuses
}
