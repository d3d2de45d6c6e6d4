package scrape

import (
	"context"
	"time"
)

// RetryPolicy bounds re-scrapes of a whole page after a transient
// automation failure.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// NoRetry runs the scrape exactly once.
var NoRetry = RetryPolicy{MaxAttempts: 1}

// WithRetry runs fn up to policy.MaxAttempts times, sleeping the fixed
// backoff between attempts. Only transient errors are retried; any
// other failure returns immediately. The last error is returned when
// attempts run out.
func WithRetry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(policy.Backoff):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
	}
	return err
}
