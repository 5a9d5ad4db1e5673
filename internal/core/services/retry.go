package services

import (
	"context"
	"time"

	apperrors "github.com/lorrc/queue-desk-backend/internal/core/errors"
)

// RetryPolicy bounds how often a transient-conflict operation is reattempted.
// It is deliberately independent of any storage engine's error hierarchy:
// adapters translate their failures to apperrors.ErrTransientConflict and the
// policy only looks at that.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// DefaultRetryPolicy retries 3 times with a linearly increasing backoff
// (100ms, 200ms, ...).
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 100 * time.Millisecond
		},
	}
}

// Do runs fn, reattempting while it fails with a transient conflict. Any
// other error, or context cancellation during backoff, ends the loop
// immediately. The last transient error is returned once attempts are
// exhausted.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !apperrors.IsTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}
