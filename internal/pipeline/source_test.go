package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCap_NoCapReturnsSameSource(t *testing.T) {
	src := newSliceSource(1, 2)

	assert.True(t, WithCap(src, 0) == Source(src))
	assert.True(t, WithCap(src, -1) == Source(src))
}

func TestWithCap_StopsAtCap(t *testing.T) {
	src := newSliceSource(1, 2, 3, 4, 5)
	capped := WithCap(src, 2)
	ctx := context.Background()

	first, err := capped.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)

	second, err := capped.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)

	_, err = capped.Next(ctx)
	require.ErrorIs(t, err, ErrSourceExhausted)

	// The inner source was never pulled past the cap.
	assert.Equal(t, 2, src.pulled())
}

func TestWithCap_InnerExhaustionWins(t *testing.T) {
	src := newSliceSource(1)
	capped := WithCap(src, 5)
	ctx := context.Background()

	_, err := capped.Next(ctx)
	require.NoError(t, err)

	_, err = capped.Next(ctx)
	require.ErrorIs(t, err, ErrSourceExhausted)
}

func TestWithCap_PropagatesSourceError(t *testing.T) {
	src := newSliceSource()
	src.failAfter = true

	capped := WithCap(src, 3)

	_, err := capped.Next(context.Background())
	require.ErrorIs(t, err, errSourceBroken)
}
