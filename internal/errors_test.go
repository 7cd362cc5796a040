package internal

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandling(t *testing.T) {
	t.Run("sync errors propagate as user errors", func(t *testing.T) {
		rt, _ := newTestRuntime()

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			rt.CallWithErrorHandling(nil, ContextWatchGetter, func() { panic("boom") })
		}()

		ue, ok := recovered.(*UserError)
		require.True(t, ok)
		assert.Equal(t, ContextWatchGetter, ue.Context)
		assert.Equal(t, "boom", ue.Value)
		assert.Equal(t, "unhandled error during execution of watcher getter: boom", ue.Error())
	})

	t.Run("sync errors go to owner listeners when there are some", func(t *testing.T) {
		var caught any
		rt, _ := newTestRuntime()

		owner := rt.NewOwner()
		owner.OnError(func(err any) { caught = err })

		assert.NotPanics(t, func() {
			rt.CallWithErrorHandling(owner, ContextWatchCleanup, func() { panic("boom") })
		})

		ue, ok := caught.(*UserError)
		require.True(t, ok)
		assert.Equal(t, ContextWatchCleanup, ue.Context)
	})

	t.Run("async errors go to the runtime handler", func(t *testing.T) {
		var got error
		var gotCtx ErrorContext

		opts := DefaultRuntimeOptions()
		opts.Host = NewManualHost()
		opts.ErrorHandler = func(err error, ctx ErrorContext) {
			got, gotCtx = err, ctx
		}
		rt := NewRuntime(opts)

		cause := errors.New("cause")
		assert.NotPanics(t, func() {
			rt.CallWithAsyncErrorHandling(nil, ContextWatchCallback, func() { panic(cause) })
		})

		assert.Equal(t, ContextWatchCallback, gotCtx)
		assert.ErrorIs(t, got, cause)
	})

	t.Run("async errors are logged without a handler", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		opts := DefaultRuntimeOptions()
		opts.Host = NewManualHost()
		opts.Logger = &logger
		rt := NewRuntime(opts)

		rt.CallWithAsyncErrorHandling(nil, ContextEffectBody, func() { panic("boom") })

		out := buf.String()
		assert.Contains(t, out, `"level":"error"`)
		assert.Contains(t, out, `"context":"effect body"`)
		assert.Contains(t, out, `"runtime":"`+rt.ID()+`"`)
		assert.Contains(t, out, "unhandled reactive error")
	})

	t.Run("a nested user error keeps its first context", func(t *testing.T) {
		rt, _ := newTestRuntime()

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			rt.CallWithErrorHandling(nil, ContextWatchCallback, func() {
				rt.CallWithErrorHandling(nil, ContextWatchGetter, func() { panic(io.EOF) })
			})
		}()

		ue, ok := recovered.(*UserError)
		require.True(t, ok)
		assert.Equal(t, ContextWatchGetter, ue.Context)
		assert.ErrorIs(t, ue, io.EOF)
	})
}

func TestRecursionError(t *testing.T) {
	err := error(&RecursionError{JobID: 7, Limit: 100})

	assert.ErrorIs(t, err, ErrRecursionLimit)
	assert.Contains(t, err.Error(), "maximum recursive updates exceeded")
	assert.Contains(t, err.Error(), "job 7")
}

func TestErrorContextString(t *testing.T) {
	assert.Equal(t, "watcher callback", ContextWatchCallback.String())
	assert.Equal(t, "scheduler job", ContextSchedulerJob.String())
	assert.Equal(t, "ErrorContext(42)", ErrorContext(42).String())
}
