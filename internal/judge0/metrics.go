package judge0

import "github.com/prometheus/client_golang/prometheus"

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_requests_total",
			Help: "Total number of requests sent to execution endpoints.",
		},
		[]string{"host", "outcome"},
	)

	upstreamRateLimitRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gateway_upstream_rate_limit_remaining",
			Help: "Remaining rate-limit quota last reported by an endpoint.",
		},
		[]string{"host"},
	)
)

func init() {
	prometheus.MustRegister(upstreamRequestsTotal)
	prometheus.MustRegister(upstreamRateLimitRemaining)
}

const (
	outcomeOK          = "ok"
	outcomeHTTPError   = "http_error"
	outcomeNetworkError = "network_error"
)
