package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimiter_EnforcesLimit(t *testing.T) {
	limiter := NewInMemoryRateLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "login:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewInMemoryRateLimiter(1, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "login:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryRateLimiter_WindowResets(t *testing.T) {
	limiter := NewInMemoryRateLimiter(1, 10*time.Millisecond)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	time.Sleep(20 * time.Millisecond)

	ok, err = limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}
