package collector

import (
	"context"
	"time"
)

// BackoffFunc returns how long to wait after the given failed attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// RetryPolicy bounds how often a fetch is attempted and how long to wait in between.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

// DefaultRetryPolicy makes three attempts five seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: ConstantBackoff(5 * time.Second)}
}

// ConstantBackoff waits d between every attempt.
func ConstantBackoff(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff doubles base after every attempt, capped at ceiling.
func ExponentialBackoff(base, ceiling time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
			if ceiling > 0 && d >= ceiling {
				return ceiling
			}
		}
		if ceiling > 0 && d > ceiling {
			return ceiling
		}
		return d
	}
}

// NoBackoff retries immediately.
func NoBackoff(int) time.Duration { return 0 }

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	var d time.Duration
	if p.Backoff != nil {
		d = p.Backoff(attempt)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
