package judge0

import "sort"

// EndpointType determines which authentication headers the transport
// attaches to requests against an endpoint.
type EndpointType string

// Endpoint transport types.
const (
	// TypeRapidAPI endpoints authenticate with X-RapidAPI-Key/-Host headers.
	TypeRapidAPI EndpointType = "rapidapi"
	// TypeCE endpoints authenticate with a bearer Authorization header.
	TypeCE EndpointType = "ce"
)

// Endpoint is one configured base address for the execution service.
type Endpoint struct {
	// URL is the base address requests are sent to, without a trailing slash.
	URL string `json:"url"`
	// Host labels the endpoint and doubles as the X-RapidAPI-Host value
	// for rapidapi endpoints.
	Host string `json:"host"`
	Type EndpointType `json:"type"`
	// Priority orders fallback attempts; lower is tried first.
	Priority int `json:"priority"`
}

// Registry is an immutable set of endpoints fixed at construction time.
// Callers that need fallback order derive it via ByPriority; the registry
// itself keeps the configured order.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry builds a registry from the given endpoints. The slice is
// copied, so later mutation by the caller does not affect the registry.
func NewRegistry(endpoints []Endpoint) *Registry {
	eps := make([]Endpoint, len(endpoints))
	copy(eps, endpoints)
	return &Registry{endpoints: eps}
}

// All returns a copy of the endpoints in configured order.
func (r *Registry) All() []Endpoint {
	eps := make([]Endpoint, len(r.endpoints))
	copy(eps, r.endpoints)
	return eps
}

// ByPriority returns a copy of the endpoints sorted ascending by priority.
// The sort is stable, so endpoints sharing a priority keep configured order.
func (r *Registry) ByPriority() []Endpoint {
	eps := r.All()
	sort.SliceStable(eps, func(i, j int) bool {
		return eps[i].Priority < eps[j].Priority
	})
	return eps
}

// Lookup finds the endpoint with the given host. Submission tokens are only
// valid against the endpoint that issued them, so callers resolve the
// pinned host back to an endpoint before polling.
func (r *Registry) Lookup(host string) (Endpoint, bool) {
	for _, ep := range r.endpoints {
		if ep.Host == host {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// Len reports the number of configured endpoints.
func (r *Registry) Len() int {
	return len(r.endpoints)
}
