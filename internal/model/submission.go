package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID string for use as a submission identifier.
func NewID() string {
	return ulid.Make().String()
}

// Submission lifecycle statuses, as tracked locally by the gateway. These
// are distinct from the execution service's numeric status ids, which are
// recorded in StatusID/StatusDescription once known.
const (
	StatusQueued    = "queued"
	StatusSubmitted = "submitted"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// validTransitions maps each status to the set of statuses it may transition to.
var validTransitions = map[string]map[string]bool{
	StatusQueued: {
		StatusSubmitted: true,
		StatusCompleted: true,
		StatusFailed:    true,
	},
	StatusSubmitted: {
		StatusCompleted: true,
		StatusFailed:    true,
	},
}

// ValidTransition reports whether transitioning from one status to another is allowed.
// Queued submissions may complete directly when executed synchronously.
func ValidTransition(from, to string) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// Submission is one unit of code execution tracked by the gateway. Token
// and EndpointHost pin the upstream submission: tokens are only valid
// against the endpoint that issued them, so the host is persisted alongside
// the token and reused for all result polling.
type Submission struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	Token          string     `json:"token,omitempty"`
	EndpointHost   string     `json:"endpoint_host,omitempty"`
	LanguageID     int        `json:"language_id"`
	SourceCode     string     `json:"source_code,omitempty"`
	Stdin          *string    `json:"stdin,omitempty"`
	ExpectedOutput *string    `json:"expected_output,omitempty"`
	StatusID       *int       `json:"status_id,omitempty"`
	StatusDesc     string     `json:"status_description,omitempty"`
	Stdout         *string    `json:"stdout,omitempty"`
	Stderr         *string    `json:"stderr,omitempty"`
	CompileOutput  *string    `json:"compile_output,omitempty"`
	Message        *string    `json:"message,omitempty"`
	Time           *string    `json:"time,omitempty"`
	Memory         *float64   `json:"memory,omitempty"`
	Error          string     `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}
