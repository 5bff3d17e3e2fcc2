package api

import (
	"context"
	"time"

	"github.com/syntaxstudio/gateway/internal/judge0"
	"github.com/syntaxstudio/gateway/internal/model"
)

// refreshSubmission fetches the current upstream status for a submitted
// execution through the endpoint that issued its token. A terminal result
// is persisted; a non-terminal or failed fetch leaves the stored record
// as-is, since the engine's own polling loop is still the source of truth.
func (s *Server) refreshSubmission(ctx context.Context, sub *model.Submission) *model.Submission {
	if sub.Token == "" {
		return sub
	}

	ep, ok := s.client.Registry().Lookup(sub.EndpointHost)
	if !ok {
		s.logger.Warn("pinned endpoint no longer configured",
			"submission_id", sub.ID,
			"host", sub.EndpointHost,
		)
		return sub
	}

	res, err := s.client.FetchResult(ctx, ep, sub.Token)
	if err != nil {
		s.logger.Warn("refresh fetch failed", "submission_id", sub.ID, "error", err)
		return sub
	}
	if !judge0.IsTerminal(res.Status.ID) {
		return sub
	}

	now := time.Now().UTC()
	statusID := res.Status.ID
	sub.Status = model.StatusCompleted
	sub.StatusID = &statusID
	sub.StatusDesc = res.Status.Description
	sub.Stdout = res.Stdout
	sub.Stderr = res.Stderr
	sub.CompileOutput = res.CompileOutput
	sub.Message = res.Message
	sub.Time = res.Time
	sub.Memory = res.Memory
	sub.FinishedAt = &now

	if err := s.store.UpdateSubmission(ctx, sub); err != nil {
		s.logger.Error("persist refreshed submission", "submission_id", sub.ID, "error", err)
	}

	return sub
}
