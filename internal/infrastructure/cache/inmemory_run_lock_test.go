package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRunLock_AcquireAndRelease(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "penalty-accrual", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Acquire(ctx, "penalty-accrual", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Release(ctx, "penalty-accrual"))

	ok, err = lock.Acquire(ctx, "penalty-accrual", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryRunLock_IndependentNames(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "penalty-accrual", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = lock.Acquire(ctx, "notice-dispatch", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryRunLock_ExpiredLeaseIsReacquirable(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "penalty-accrual", time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)

	ok, err = lock.Acquire(ctx, "penalty-accrual", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}
