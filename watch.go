package reactor

import (
	"github.com/AnatoleLucet/reactor/internal"
)

type (
	// FlushMode decides when a watcher reacts to a change.
	FlushMode = internal.FlushMode

	// DebuggerEvent describes a dependency being tracked or triggered.
	DebuggerEvent = internal.DebuggerEvent

	// Job is a scheduler ticket. Its identity, not its function, is what
	// queues dedupe on.
	Job = internal.Job
)

const (
	FlushPre  = internal.FlushPre
	FlushPost = internal.FlushPost
	FlushSync = internal.FlushSync
)

func ParseFlushMode(s string) (FlushMode, error) { return internal.ParseFlushMode(s) }

// CleanupHook registers the function to call before the next run of a
// reaction or when its watcher stops. Only the last registration is kept.
type CleanupHook func(cleanup func())

// StopHandle stops a watcher. Calling it more than once is harmless.
type StopHandle func()

// Source is a value a watcher can observe: a *Ref[T] or a Getter[T].
type Source[T any] interface {
	AnySource
	cast(v any) T
}

// AnySource is a Source of any value type, for WatchMany.
type AnySource interface {
	watchSource() internal.Source
}

// Getter is an accessor function watched as a source. Every reactive read
// it performs becomes a dependency.
type Getter[T any] func() T

// From turns fn into a Getter.
func From[T any](fn func() T) Getter[T] {
	return Getter[T](fn)
}

func (g Getter[T]) watchSource() internal.Source {
	return internal.GetterSource{Fn: func() any { return g() }}
}

func (g Getter[T]) cast(v any) T { return as[T](v) }

// WatchOption configures a watcher.
type WatchOption func(*internal.WatchOptions)

// WithLazy skips the first reaction; the source is still read once to
// record its initial value.
func WithLazy() WatchOption {
	return func(o *internal.WatchOptions) { o.Lazy = true }
}

// WithDeep reads everything reachable from the source's value, so nested
// mutations trigger the reaction too.
func WithDeep() WatchOption {
	return func(o *internal.WatchOptions) { o.Deep = true }
}

func WithFlush(mode FlushMode) WatchOption {
	return func(o *internal.WatchOptions) { o.Flush = mode }
}

func WithOnTrack(fn func(DebuggerEvent)) WatchOption {
	return func(o *internal.WatchOptions) { o.OnTrack = fn }
}

func WithOnTrigger(fn func(DebuggerEvent)) WatchOption {
	return func(o *internal.WatchOptions) { o.OnTrigger = fn }
}

func watchOptions(rt *internal.Runtime, opts []WatchOption) internal.WatchOptions {
	o := internal.WatchOptions{Flush: rt.DefaultFlush()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Watch calls cb with the new and previous value of src whenever it changes.
func Watch[T any](src Source[T], cb func(value, oldValue T, onCleanup CleanupHook), opts ...WatchOption) StopHandle {
	rt := internal.GetRuntime()

	w := rt.Watch(src.watchSource(), func(value, oldValue any, onCleanup func(func())) {
		cb(src.cast(value), src.cast(oldValue), onCleanup)
	}, watchOptions(rt, opts))

	return w.Stop
}

// WatchMany watches several sources at once. cb receives their values in
// the order of srcs.
func WatchMany(srcs []AnySource, cb func(values, oldValues []any, onCleanup CleanupHook), opts ...WatchOption) StopHandle {
	rt := internal.GetRuntime()

	list := make(internal.ListSource, len(srcs))
	for i, src := range srcs {
		list[i] = src.watchSource()
	}

	w := rt.Watch(list, func(value, oldValue any, onCleanup func(func())) {
		values, _ := value.([]any)
		oldValues, _ := oldValue.([]any)
		if oldValues == nil {
			oldValues = make([]any, len(srcs))
		}
		cb(values, oldValues, onCleanup)
	}, watchOptions(rt, opts))

	return w.Stop
}

// WatchEffect runs body now and again whenever anything it read changes.
func WatchEffect(body func(onCleanup CleanupHook), opts ...WatchOption) StopHandle {
	rt := internal.GetRuntime()

	w := rt.Watch(internal.EffectSource{Body: func(onCleanup func(func())) {
		body(onCleanup)
	}}, nil, watchOptions(rt, opts))

	return w.Stop
}
