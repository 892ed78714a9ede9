package lock

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLocalLock(t *testing.T) {
	ctx := context.Background()
	t.Run("второй владелец не получает занятый ключ", func(t *testing.T) {
		provider := NewLocal()
		release, ok, err := provider.TryLock(ctx, "sweep", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		_, ok, err = provider.TryLock(ctx, "sweep", time.Minute)
		require.NoError(t, err)
		require.False(t, ok)

		release()
		release2, ok, err := provider.TryLock(ctx, "sweep", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
		release2()
	})
	t.Run("истекшая аренда перехватывается", func(t *testing.T) {
		provider := NewLocal()
		release, ok, err := provider.TryLock(ctx, "sweep", time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)
		time.Sleep(5 * time.Millisecond)

		release2, ok, err := provider.TryLock(ctx, "sweep", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		// старый владелец не снимает чужую аренду
		release()
		_, ok, err = provider.TryLock(ctx, "sweep", time.Minute)
		require.NoError(t, err)
		require.False(t, ok)
		release2()
	})
	t.Run("разные ключи не мешают друг другу", func(t *testing.T) {
		provider := NewLocal()
		_, ok, err := provider.TryLock(ctx, "a", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
		_, ok, err = provider.TryLock(ctx, "b", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestWithLease(t *testing.T) {
	ctx := context.Background()
	provider := NewLocal()

	called := 0
	success, err := WithLease(ctx, provider, "job", time.Minute, func() error {
		called++
		inner, err := WithLease(ctx, provider, "job", time.Minute, func() error {
			called++
			return nil
		})
		require.NoError(t, err)
		require.False(t, inner)
		return nil
	})
	require.NoError(t, err)
	require.True(t, success)
	require.Equal(t, 1, called)

	jobErr := errors.New("job failed")
	success, err = WithLease(ctx, provider, "job", time.Minute, func() error {
		return jobErr
	})
	require.True(t, success)
	require.ErrorIs(t, err, jobErr)
}
