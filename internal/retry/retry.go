// Package retry provides a bounded retry policy reusable across external
// calls: a maximum attempt budget, a backoff between attempts, and a
// predicate deciding which errors are worth retrying. Non-retryable errors
// abort immediately without consuming the remaining budget.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes one bounded-retry strategy.
type Policy struct {
	// MaxAttempts is the total attempt budget, including the first call.
	MaxAttempts int
	// Delay is the fixed wait between attempts.
	Delay time.Duration
	// Retryable reports whether an error may be retried. A nil predicate
	// retries every error.
	Retryable func(error) bool
}

// Do invokes op until it succeeds, a non-retryable error occurs, the
// attempt budget is exhausted, or the context is cancelled. It returns the
// number of attempts actually made alongside the final error.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	wrapped := func() error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	strategy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(maxAttempts-1)),
		ctx,
	)
	err := backoff.Retry(wrapped, strategy)

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	return attempts, err
}
