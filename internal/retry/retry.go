// Package retry is the single retry policy applied at every network
// boundary: feed fetch, page fetch, and rewrite-service calls.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds attempts and the backoff schedule between them.
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Default is tuned for flaky third-party endpoints: three attempts with a
// short exponential backoff keeps the per-item worst case bounded.
func Default() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Do runs op until it succeeds, attempts are exhausted, or ctx is cancelled.
func (p Policy) Do(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialInterval
	bo.MaxInterval = p.MaxInterval

	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op()
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(attempts))
	return err
}

// Permanent marks err as non-retryable so Do returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
