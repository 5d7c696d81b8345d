package alma

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewRateLimiter(0))
	assert.Nil(t, NewRateLimiter(-1))
}

func TestRateLimiter_NilNeverBlocks(t *testing.T) {
	var r *RateLimiter

	assert.NoError(t, r.Wait(context.Background()))
	assert.Zero(t, r.Limit())
}

func TestRateLimiter_NilHonoursCancellation(t *testing.T) {
	var r *RateLimiter
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.Wait(ctx), context.Canceled)
}

func TestRateLimiter_Limit(t *testing.T) {
	r := NewRateLimiter(2.5)

	require.NotNil(t, r)
	assert.InDelta(t, 2.5, r.Limit(), 0.0001)
}

func TestRateLimiter_Throttles(t *testing.T) {
	r := NewRateLimiter(20)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Wait(ctx))
	}

	// The first token is immediate, the next two wait 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	r := NewRateLimiter(0.001)
	ctx := context.Background()
	require.NoError(t, r.Wait(ctx))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()

	assert.Error(t, r.Wait(ctx))
}
