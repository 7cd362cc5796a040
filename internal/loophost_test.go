//go:build !wasm

package internal

import (
	"context"
	"testing"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLoop(t *testing.T) *eventloop.Loop {
	t.Helper()

	loop, err := eventloop.New()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	go loop.Run(ctx)

	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
		defer shutdownCancel()
		_ = loop.Shutdown(shutdownCtx)
		cancel()
	})

	return loop
}

func TestLoopHost(t *testing.T) {
	t.Run("runs deferred callbacks on the loop", func(t *testing.T) {
		loop := runLoop(t)
		host := NewLoopHost(loop, zerolog.Nop())

		done := make(chan struct{})
		require.NoError(t, host.Defer(func() { close(done) }))

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("deferred callback never ran")
		}
		assert.Same(t, loop, host.Loop())
	})

	t.Run("a stopped loop refuses drains", func(t *testing.T) {
		loop := runLoop(t)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, loop.Shutdown(ctx))

		var reported []error
		opts := DefaultRuntimeOptions()
		opts.Host = NewLoopHost(loop, zerolog.Nop())
		opts.ErrorHandler = func(err error, _ ErrorContext) { reported = append(reported, err) }
		rt := NewRuntime(opts)

		s := rt.Scheduler()
		s.QueueJob(s.NewJob(func() {}))
		s.QueueJob(s.NewJob(func() {}))

		assert.False(t, s.IsScheduled())
		assert.Equal(t, 2, s.QueueLen())
		require.Len(t, reported, 2)
		assert.ErrorIs(t, reported[1], ErrHostRefused)
	})

	t.Run("drains a runtime from the loop", func(t *testing.T) {
		loop := runLoop(t)
		host := NewLoopHost(loop, zerolog.Nop())

		opts := DefaultRuntimeOptions()
		opts.Host = host
		rt := NewRuntime(opts)

		got := make(chan []any, 1)
		require.NoError(t, loop.Submit(func() {
			rt.Enter(func() {
				s := rt.NewSignal(1)
				rt.Watch(RefSource{Ref: s}, func(newValue, oldValue any, _ func(func())) {
					if newValue == 3 {
						got <- []any{newValue, oldValue}
					}
				}, WatchOptions{Lazy: true})

				s.Write(2)
				s.Write(3)

				// nothing runs until this task returns
				assert.Equal(t, 1, rt.Scheduler().QueueLen())
			})
		}))

		select {
		case values := <-got:
			assert.Equal(t, []any{3, 1}, values)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher never reacted")
		}
	})
}
