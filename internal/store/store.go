package store

import (
	"context"

	"github.com/syntaxstudio/gateway/internal/model"
)

// SubmissionStats holds aggregate execution statistics.
type SubmissionStats struct {
	Total           int            `json:"total"`
	CountByStatus   map[string]int `json:"count_by_status"`
	CountByLanguage map[string]int `json:"count_by_language"`
	AvgTimeS        float64        `json:"avg_time_s"`
}

// Store defines the persistence operations for submissions.
type Store interface {
	CreateSubmission(ctx context.Context, sub *model.Submission) error
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	ListSubmissions(ctx context.Context, limit, offset int) ([]*model.Submission, int, error)
	// MarkSubmitted records the upstream token and the host that issued it,
	// transitioning the submission from queued to submitted. The host pin
	// is what later polling uses to reach the right endpoint.
	MarkSubmitted(ctx context.Context, id, token, host string) error
	UpdateSubmission(ctx context.Context, sub *model.Submission) error
	GetSubmissionStats(ctx context.Context) (*SubmissionStats, error)
	Close() error
}
