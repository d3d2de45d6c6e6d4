package scrape

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetryTransientFailureThenSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond}, func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("open page: %w", ErrFrameDetached)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond}, func() error {
		calls++
		return ErrFrameDetached
	})

	require.ErrorIs(t, err, ErrFrameDetached)
	assert.Equal(t, 2, calls, "no third attempt after the budget is spent")
}

func TestWithRetryDoesNotRetryPermanentErrors(t *testing.T) {
	permanent := &ExtractionError{Field: "price"}

	calls := 0
	err := WithRetry(context.Background(), RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}, func() error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := WithRetry(ctx, RetryPolicy{MaxAttempts: 3, Backoff: time.Minute}, func() error {
		calls++
		cancel()
		return ErrFrameDetached
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNoRetryRunsOnce(t *testing.T) {
	calls := 0
	_ = WithRetry(context.Background(), NoRetry, func() error {
		calls++
		return ErrFrameDetached
	})

	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrFrameDetached))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", ErrFrameDetached)))
	assert.True(t, IsTransient(&NavigationError{URL: "https://x", Err: ErrFrameDetached}))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsTransient(&ExtractionError{Field: "name"}))
}
