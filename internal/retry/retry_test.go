package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func quick() Policy {
	return Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := quick().Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	t.Parallel()

	boom := errors.New("still broken")
	attempts := 0
	err := quick().Do(context.Background(), func() error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the final error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoPermanentShortCircuits(t *testing.T) {
	t.Parallel()

	boom := errors.New("not found")
	attempts := 0
	err := quick().Do(context.Background(), func() error {
		attempts++
		return Permanent(boom)
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("permanent errors must not be retried, got %d attempts", attempts)
	}
}

func TestDoStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Policy{MaxAttempts: 10, InitialInterval: 50 * time.Millisecond, MaxInterval: 50 * time.Millisecond}.
		Do(ctx, func() error {
			attempts++
			cancel()
			return errors.New("transient")
		})
	if err == nil {
		t.Fatalf("expected an error after cancellation")
	}
	if attempts != 1 {
		t.Fatalf("cancelled context must stop retries, got %d attempts", attempts)
	}
}

func TestDoZeroAttemptsStillRunsOnce(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := Policy{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}.
		Do(context.Background(), func() error {
			attempts++
			return nil
		})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}
