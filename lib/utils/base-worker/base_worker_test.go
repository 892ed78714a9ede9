package baseworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run("задача повторяется с интервалом до отмены контекста", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var runs int32
		done := make(chan struct{})
		go func() {
			NewInstance("test", time.Millisecond, time.Millisecond).Run(ctx, func(ctx context.Context) {
				atomic.AddInt32(&runs, 1)
			})
			close(done)
		}()
		require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, time.Second, time.Millisecond)
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("воркер не остановился")
		}
	})
	t.Run("паника не останавливает воркер", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var runs int32
		go NewInstance("panic", time.Millisecond, time.Millisecond).Run(ctx, func(ctx context.Context) {
			if atomic.AddInt32(&runs, 1) == 1 {
				panic("boom")
			}
		})
		require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, time.Millisecond)
	})
	t.Run("до первой задержки задача не запускается", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var runs int32
		go NewInstance("delay", time.Hour, time.Hour).Run(ctx, func(ctx context.Context) {
			atomic.AddInt32(&runs, 1)
		})
		time.Sleep(10 * time.Millisecond)
		cancel()
		require.Equal(t, int32(0), atomic.LoadInt32(&runs))
	})
}
