package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gazette/internal/retry"
	"gazette/internal/services"
)

func transientPolicy(attempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts: attempts,
		Delay:       time.Millisecond,
		Retryable:   services.IsRetryable,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	attempts, err := transientPolicy(3).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return services.Wrap(services.ErrTransient, "delivering", "send", "timeout", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 || calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got attempts=%d calls=%d", attempts, calls)
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	calls := 0
	attempts, err := transientPolicy(3).Do(context.Background(), func(context.Context) error {
		calls++
		return services.Wrap(services.ErrTransient, "delivering", "send", "timeout", nil)
	})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error after exhaustion, got %v", err)
	}
	if attempts != 3 || calls != 3 {
		t.Fatalf("expected budget of 3 attempts, got attempts=%d calls=%d", attempts, calls)
	}
}

func TestDoStopsImmediatelyOnPermanentFailure(t *testing.T) {
	calls := 0
	permanent := services.Wrap(services.ErrPermanent, "delivering", "send", "bad request", nil)
	attempts, err := transientPolicy(3).Do(context.Background(), func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, services.ErrPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 || calls != 1 {
		t.Fatalf("expected a single attempt, got attempts=%d calls=%d", attempts, calls)
	}
}

func TestDoHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := retry.Policy{MaxAttempts: 10, Delay: time.Minute, Retryable: services.IsRetryable}

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := policy.Do(ctx, func(context.Context) error {
		calls++
		return services.Wrap(services.ErrTransient, "delivering", "send", "timeout", nil)
	})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if calls != 1 {
		t.Fatalf("expected one attempt before the cancelled wait, got %d", calls)
	}
}

func TestDoDefaultsToSingleAttempt(t *testing.T) {
	calls := 0
	attempts, err := retry.Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 || calls != 1 {
		t.Fatalf("expected single attempt, got attempts=%d calls=%d", attempts, calls)
	}
}
