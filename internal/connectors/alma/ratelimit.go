package alma

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles requests with a token bucket.
// A nil RateLimiter never blocks.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter creates a limiter allowing rps requests per second.
// Returns nil when rps is not positive.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Wait blocks until a request may be made.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return ctx.Err()
	}
	return r.bucket.Wait(ctx)
}

// Limit returns the configured requests per second, 0 when unlimited.
func (r *RateLimiter) Limit() float64 {
	if r == nil {
		return 0
	}
	return float64(r.bucket.Limit())
}
