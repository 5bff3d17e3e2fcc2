package judge0

import (
	"context"
	"errors"
	"testing"
	"time"
)

func acceptedResult() *ExecutionResult {
	return &ExecutionResult{Status: Status{ID: StatusAccepted, Description: "Accepted"}}
}

func queuedResult() *ExecutionResult {
	return &ExecutionResult{Status: Status{ID: StatusInQueue, Description: "In Queue"}}
}

func TestPollReturnsImmediatelyOnTerminal(t *testing.T) {
	calls := 0
	start := time.Now()

	res, err := pollForResult(context.Background(), func(context.Context) (*ExecutionResult, error) {
		calls++
		return acceptedResult(), nil
	}, 30, time.Second, discardLogger())
	if err != nil {
		t.Fatalf("pollForResult: %v", err)
	}

	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	if res.Status.ID != StatusAccepted {
		t.Errorf("status id = %d, want %d", res.Status.ID, StatusAccepted)
	}
	// A terminal first attempt must not sleep through the interval.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("poll took %v, want immediate return without sleeping", elapsed)
	}
}

func TestPollTimesOutAfterMaxAttempts(t *testing.T) {
	calls := 0

	_, err := pollForResult(context.Background(), func(context.Context) (*ExecutionResult, error) {
		calls++
		return queuedResult(), nil
	}, 5, time.Millisecond, discardLogger())

	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("error = %v, want ErrPollTimeout", err)
	}
	if calls != 5 {
		t.Errorf("fetch calls = %d, want exactly maxAttempts", calls)
	}
}

func TestPollRetriesFetchErrors(t *testing.T) {
	calls := 0

	res, err := pollForResult(context.Background(), func(context.Context) (*ExecutionResult, error) {
		calls++
		if calls < 3 {
			return nil, &EndpointError{Host: "a.test", Status: 502, Message: "bad gateway"}
		}
		return acceptedResult(), nil
	}, 5, time.Millisecond, discardLogger())
	if err != nil {
		t.Fatalf("pollForResult: %v", err)
	}

	if calls != 3 {
		t.Errorf("fetch calls = %d, want 3", calls)
	}
	if !IsTerminal(res.Status.ID) {
		t.Errorf("status id = %d, want terminal", res.Status.ID)
	}
}

func TestPollRethrowsFinalAttemptError(t *testing.T) {
	fetchErr := &EndpointError{Host: "a.test", Status: 500, Message: "broken"}

	_, err := pollForResult(context.Background(), func(context.Context) (*ExecutionResult, error) {
		return nil, fetchErr
	}, 3, time.Millisecond, discardLogger())

	var epErr *EndpointError
	if !errors.As(err, &epErr) {
		t.Fatalf("error type = %T, want the final attempt's *EndpointError", err)
	}
	if errors.Is(err, ErrPollTimeout) {
		t.Error("final-attempt fetch error must not be reported as a timeout")
	}
}

func TestPollHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := pollForResult(ctx, func(context.Context) (*ExecutionResult, error) {
			return queuedResult(), nil
		}, 30, time.Hour, discardLogger())
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poll did not stop after context cancellation")
	}
}

func TestPollDefaultsApplied(t *testing.T) {
	// Zero budget and interval fall back to defaults rather than spinning.
	calls := 0
	res, err := pollForResult(context.Background(), func(context.Context) (*ExecutionResult, error) {
		calls++
		return acceptedResult(), nil
	}, 0, 0, discardLogger())
	if err != nil {
		t.Fatalf("pollForResult: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	if res == nil {
		t.Fatal("result is nil")
	}
}
