//go:build unit

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"studiobook/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDo(t *testing.T) {
	ctx := context.Background()
	always := func(error) bool { return true }

	t.Run("succeeds without retrying", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, fastPolicy(4), func() error {
			calls++
			return nil
		}, always)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, fastPolicy(4), func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		}, always)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts and returns last error", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, fastPolicy(3), func() error {
			calls++
			return errTransient
		}, always)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error returns immediately", func(t *testing.T) {
		permanent := errors.New("permanent")
		calls := 0
		err := retry.Do(ctx, fastPolicy(4), func() error {
			calls++
			return permanent
		}, func(err error) bool { return errors.Is(err, errTransient) })
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		calls := 0
		err := retry.Do(cancelled, retry.Policy{MaxAttempts: 4, BaseDelay: time.Minute}, func() error {
			calls++
			return errTransient
		}, always)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero max attempts still runs once", func(t *testing.T) {
		calls := 0
		err := retry.Do(ctx, retry.Policy{}, func() error {
			calls++
			return errTransient
		}, always)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
	})
}

func TestBackoff(t *testing.T) {
	p := retry.Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: 400 * time.Millisecond}

	for attempt := 0; attempt < 6; attempt++ {
		wait := p.Backoff(attempt)
		assert.GreaterOrEqual(t, wait, p.BaseDelay)
		// Cap plus 20% jitter headroom.
		assert.LessOrEqual(t, wait, p.MaxDelay+p.MaxDelay/5)
	}

	assert.Less(t, p.Backoff(0), p.Backoff(3), "backoff grows before the cap")
}
