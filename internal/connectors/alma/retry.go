package alma

import (
	"context"
	"slices"
	"time"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// MaxBackoff caps the delay between two retries.
const MaxBackoff = 120 * time.Second

// RetryPolicy decides whether and when a failed request is retried.
type RetryPolicy struct {
	// Retries is the number of retries after the first request.
	Retries int

	// BackoffFactor scales the exponential delay.
	BackoffFactor time.Duration

	// StatusForcelist lists the HTTP statuses that are retried.
	StatusForcelist []int
}

// NewRetryPolicy builds a policy from HTTP settings.
func NewRetryPolicy(s domain.HTTPSettings) RetryPolicy {
	return RetryPolicy{
		Retries:         max(s.Retries, 0),
		BackoffFactor:   max(s.BackoffFactor, 0),
		StatusForcelist: slices.Clone(s.StatusForcelist),
	}
}

// Backoff returns the delay before the n-th retry (1-based).
// The first retry is immediate; after that the delay is
// factor * 2^(n-1), capped at MaxBackoff.
func (p RetryPolicy) Backoff(n int) time.Duration {
	if n <= 1 || p.BackoffFactor <= 0 {
		return 0
	}
	if n > 32 {
		return MaxBackoff
	}
	d := p.BackoffFactor * time.Duration(1<<(n-1))
	if d <= 0 || d > MaxBackoff {
		return MaxBackoff
	}
	return d
}

// RetryStatus reports whether a response with this status is retried.
func (p RetryPolicy) RetryStatus(status int) bool {
	return slices.Contains(p.StatusForcelist, status)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
