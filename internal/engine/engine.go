package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/syntaxstudio/gateway/internal/judge0"
	"github.com/syntaxstudio/gateway/internal/model"
	"github.com/syntaxstudio/gateway/internal/store"
)

// Engine orchestrates asynchronous submission execution.
type Engine struct {
	store  store.Store
	client *judge0.Client
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewEngine creates a new submission engine.
func NewEngine(s store.Store, client *judge0.Client, logger *slog.Logger) *Engine {
	return &Engine{
		store:  s,
		client: client,
		logger: logger,
	}
}

// Submit stores the submission with status "queued" and launches
// asynchronous execution in a goroutine. The goroutine operates on a copy
// of the submission to avoid data races with the caller.
func (e *Engine) Submit(ctx context.Context, sub *model.Submission, req judge0.SubmissionRequest) error {
	if err := e.store.CreateSubmission(ctx, sub); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	subCopy := *sub
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.execute(&subCopy, req)
	}()

	return nil
}

// Wait blocks until all in-flight submission goroutines complete.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// execute runs the submission lifecycle: queued→submitted→completed/failed.
// The goroutine uses a background context; cancellation of the original
// HTTP request must not abandon a submission mid-flight.
func (e *Engine) execute(sub *model.Submission, req judge0.SubmissionRequest) {
	ctx := context.Background()

	token, ep, err := e.client.Submit(ctx, req)
	if err != nil {
		e.finishFailed(sub.ID, fmt.Sprintf("submit upstream: %v", err))
		return
	}

	// Pin the issuing endpoint before polling: tokens are not portable
	// across endpoints, and persisting the host keeps the pin valid even
	// across a gateway restart.
	if err := e.store.MarkSubmitted(ctx, sub.ID, token, ep.Host); err != nil {
		e.logger.Error("failed to record token", "submission_id", sub.ID, "error", err)
		e.finishFailed(sub.ID, fmt.Sprintf("record token: %v", err))
		return
	}

	res, err := e.client.WaitForResult(ctx, ep, token)
	if err != nil {
		e.finishFailed(sub.ID, fmt.Sprintf("wait for result: %v", err))
		return
	}

	e.finishCompleted(sub.ID, res)
}

// finishCompleted writes a terminal upstream result to the store.
func (e *Engine) finishCompleted(id string, res *judge0.ExecutionResult) {
	now := time.Now().UTC()
	statusID := res.Status.ID

	sub := &model.Submission{
		ID:            id,
		Status:        model.StatusCompleted,
		StatusID:      &statusID,
		StatusDesc:    res.Status.Description,
		Stdout:        res.Stdout,
		Stderr:        res.Stderr,
		CompileOutput: res.CompileOutput,
		Message:       res.Message,
		Time:          res.Time,
		Memory:        res.Memory,
		FinishedAt:    &now,
	}

	if err := e.store.UpdateSubmission(context.Background(), sub); err != nil {
		e.logger.Error("failed to update completed submission", "submission_id", id, "error", err)
	}
}

// finishFailed marks a submission as failed with the given error message.
func (e *Engine) finishFailed(id string, errMsg string) {
	now := time.Now().UTC()

	sub := &model.Submission{
		ID:         id,
		Status:     model.StatusFailed,
		Error:      errMsg,
		FinishedAt: &now,
	}

	if err := e.store.UpdateSubmission(context.Background(), sub); err != nil {
		e.logger.Error("failed to update failed submission", "submission_id", id, "error", err)
	}
}
