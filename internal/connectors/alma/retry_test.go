package alma

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

func TestRetryPolicy_Backoff(t *testing.T) {
	p := RetryPolicy{BackoffFactor: 300 * time.Millisecond}

	assert.Equal(t, time.Duration(0), p.Backoff(1))
	assert.Equal(t, 600*time.Millisecond, p.Backoff(2))
	assert.Equal(t, 1200*time.Millisecond, p.Backoff(3))
	assert.Equal(t, 2400*time.Millisecond, p.Backoff(4))
	assert.Equal(t, MaxBackoff, p.Backoff(12))
	assert.Equal(t, MaxBackoff, p.Backoff(100))
}

func TestRetryPolicy_ZeroFactor(t *testing.T) {
	p := RetryPolicy{}
	assert.Equal(t, time.Duration(0), p.Backoff(5))
}

func TestRetryPolicy_RetryStatus(t *testing.T) {
	p := NewRetryPolicy(domain.HTTPSettings{StatusForcelist: domain.DefaultStatusForcelist})

	for _, code := range []int{400, 500, 502, 504} {
		assert.True(t, p.RetryStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 401, 404, 503} {
		assert.False(t, p.RetryStatus(code), "status %d", code)
	}
}

func TestNewRetryPolicy_ClampsNegative(t *testing.T) {
	p := NewRetryPolicy(domain.HTTPSettings{Retries: -1, BackoffFactor: -time.Second})
	assert.Equal(t, 0, p.Retries)
	assert.Equal(t, time.Duration(0), p.BackoffFactor)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestRateLimiter(t *testing.T) {
	var nilLimiter *RateLimiter
	assert.NoError(t, nilLimiter.Wait(context.Background()))
	assert.Zero(t, nilLimiter.Limit())
	assert.Nil(t, NewRateLimiter(0))

	l := NewRateLimiter(1000)
	assert.InDelta(t, 1000, l.Limit(), 0.001)
	assert.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
}
