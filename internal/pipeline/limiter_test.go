package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter_Invalid(t *testing.T) {
	for _, n := range []int{0, -5} {
		_, err := NewLimiter(n)
		require.Error(t, err, "n=%d", n)
	}
}

func TestLimiter_AcquireRelease(t *testing.T) {
	l, err := NewLimiter(2)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, 2, l.InUse())
	assert.Equal(t, 2, l.Cap())

	l.Release()
	assert.Equal(t, 1, l.InUse())
}

func TestLimiter_AcquireBlocksUntilRelease(t *testing.T) {
	l, err := NewLimiter(1)
	require.NoError(t, err)

	require.NoError(t, l.Acquire(context.Background()))

	acquired := make(chan struct{})

	go func() {
		_ = l.Acquire(context.Background())
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire should block while no permit is free")
	case <-time.After(20 * time.Millisecond):
	}

	l.Release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Release did not unblock the waiter")
	}
}

func TestLimiter_AcquireHonorsContext(t *testing.T) {
	l, err := NewLimiter(1)
	require.NoError(t, err)

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = l.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiter_ReleaseWithoutAcquirePanics(t *testing.T) {
	l, err := NewLimiter(1)
	require.NoError(t, err)

	assert.Panics(t, func() { l.Release() })
}
