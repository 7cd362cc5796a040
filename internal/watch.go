package internal

import (
	"fmt"
	"strings"
)

// FlushMode decides when a watcher reacts to a change.
type FlushMode int

const (
	// FlushPre queues the reaction on the job queue, or runs it right away
	// while the owner has not been mounted yet.
	FlushPre FlushMode = iota
	// FlushPost queues the reaction on the post-flush stack.
	FlushPost
	// FlushSync reacts inside the write that triggered it.
	FlushSync
)

func (m FlushMode) String() string {
	switch m {
	case FlushPre:
		return "pre"
	case FlushPost:
		return "post"
	case FlushSync:
		return "sync"
	default:
		return fmt.Sprintf("FlushMode(%d)", int(m))
	}
}

func ParseFlushMode(s string) (FlushMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pre":
		return FlushPre, nil
	case "post":
		return FlushPost, nil
	case "sync":
		return FlushSync, nil
	default:
		return FlushPre, fmt.Errorf("unknown flush mode %q", s)
	}
}

// Readable is a reactive reference read directly by a watcher.
type Readable interface {
	Read() any
}

// Source is one of RefSource, GetterSource, ListSource or EffectSource.
type Source interface {
	isSource()
}

type RefSource struct{ Ref Readable }

type GetterSource struct{ Fn func() any }

// ListSource watches several RefSource or GetterSource at once; its value
// is a []any in the same order.
type ListSource []Source

// EffectSource is a body that is both the tracked computation and the
// reaction.
type EffectSource struct{ Body func(onCleanup func(func())) }

func (RefSource) isSource()    {}
func (GetterSource) isSource() {}
func (ListSource) isSource()   {}
func (EffectSource) isSource() {}

// Callback receives the new and previous value of a watched source.
type Callback func(newValue, oldValue any, onCleanup func(func()))

type WatchOptions struct {
	Lazy  bool
	Deep  bool
	Flush FlushMode

	OnTrack   func(DebuggerEvent)
	OnTrigger func(DebuggerEvent)
}

// Watcher pairs a source with a reaction. It owns exactly one effect.
type Watcher struct {
	rt    *Runtime
	owner *Owner

	source Source
	cb     Callback
	opts   WatchOptions

	effect *Effect
	job    *Job

	// at most one pending cleanup
	cleanup  func()
	oldValue any

	// set once a value was recorded; the first reaction always fires
	settled bool
}

// Watch builds a watcher for src and runs its first evaluation through the
// selected flush mode (or directly, when lazy).
func (r *Runtime) Watch(src Source, cb Callback, opts WatchOptions) *Watcher {
	if err := validateSource(src, cb); err != nil {
		panic(err)
	}

	w := &Watcher{
		rt:     r,
		owner:  r.CurrentOwner(),
		source: src,
		cb:     cb,
		opts:   opts,
	}

	getter := w.getter()
	if opts.Deep {
		base := getter
		getter = func() any { return Traverse(base()) }
	}

	if cb != nil {
		w.job = r.scheduler.NewJob(w.apply)
	} else {
		w.job = r.scheduler.NewJob(func() { w.effect.Run() })
	}

	w.effect = r.NewEffect(getter, EffectOptions{
		Lazy: true,
		// so it runs before plain effects when a shared source changes
		Computed:  true,
		OnTrack:   opts.OnTrack,
		OnTrigger: opts.OnTrigger,
		Scheduler: func(*Effect) { w.dispatch() },
	})
	w.effect.OnStop(w.runCleanup)

	// a disposed owner stops the effect before it can react
	if w.owner != nil {
		w.owner.RecordEffect(w.effect)
	}

	if opts.Lazy {
		w.oldValue = w.effect.Run()
		w.settled = true
	} else {
		r.batcher.Batch(w.dispatch)
	}

	return w
}

func validateSource(src Source, cb Callback) error {
	switch s := src.(type) {
	case RefSource:
		if s.Ref == nil {
			return fmt.Errorf("watch: nil reactive reference")
		}
	case GetterSource:
		if s.Fn == nil {
			return fmt.Errorf("watch: nil getter")
		}
	case ListSource:
		for i, item := range s {
			switch item.(type) {
			case RefSource, GetterSource:
				if err := validateSource(item, cb); err != nil {
					return fmt.Errorf("watch: source %d: %w", i, err)
				}
			default:
				return fmt.Errorf("watch: source %d: %T cannot be part of a source list", i, item)
			}
		}
	case EffectSource:
		if s.Body == nil {
			return fmt.Errorf("watch: nil effect body")
		}
		if cb != nil {
			return fmt.Errorf("watch: an effect body takes no callback")
		}
		return nil
	default:
		return fmt.Errorf("watch: unsupported source %T", src)
	}

	if cb == nil {
		return fmt.Errorf("watch: %T requires a callback", src)
	}

	return nil
}

func (w *Watcher) getter() func() any {
	switch s := w.source.(type) {
	case ListSource:
		return func() any {
			values := make([]any, len(s))
			for i, item := range s {
				values[i] = w.read(item)
			}
			return values
		}

	case RefSource, GetterSource:
		return func() any { return w.read(s) }

	case EffectSource:
		return func() any {
			w.runCleanup()
			w.rt.CallWithAsyncErrorHandling(w.owner, ContextEffectBody, func() {
				s.Body(w.onCleanup)
			})
			return nil
		}
	}

	panic(fmt.Sprintf("watch: unsupported source %T", w.source))
}

func (w *Watcher) read(src Source) any {
	switch s := src.(type) {
	case RefSource:
		return s.Ref.Read()
	case GetterSource:
		var v any
		w.rt.CallWithErrorHandling(w.owner, ContextWatchGetter, func() {
			v = s.Fn()
		})
		return v
	}

	panic(fmt.Sprintf("watch: unsupported source %T", src))
}

func (w *Watcher) dispatch() {
	switch w.opts.Flush {
	case FlushSync:
		w.job.Run()

	case FlushPre:
		if w.owner != nil && !w.owner.Mounted() {
			// before mount the first change must not wait on a queue
			w.job.Run()
			return
		}
		w.rt.scheduler.QueueJob(w.job)

	case FlushPost:
		w.rt.scheduler.QueuePostFlush(w.job)
		w.rt.scheduler.schedule()
	}
}

func (w *Watcher) apply() {
	if !w.effect.Active() {
		return
	}

	newValue := w.effect.Run()
	if !w.opts.Deep && w.settled && w.unchanged(newValue) {
		return
	}

	w.runCleanup()

	oldValue := w.oldValue
	w.rt.CallWithAsyncErrorHandling(w.owner, ContextWatchCallback, func() {
		w.cb(newValue, oldValue, w.onCleanup)
	})

	w.oldValue = newValue
	w.settled = true
}

func (w *Watcher) unchanged(newValue any) bool {
	if _, ok := w.source.(ListSource); !ok {
		return isEqual(newValue, w.oldValue)
	}

	next, _ := newValue.([]any)
	prev, ok := w.oldValue.([]any)
	if !ok || len(next) != len(prev) {
		return false
	}

	for i := range next {
		if !isEqual(next[i], prev[i]) {
			return false
		}
	}
	return true
}

func (w *Watcher) onCleanup(fn func()) {
	if fn == nil {
		w.cleanup = nil
		return
	}

	cleanup := func() {
		w.rt.CallWithErrorHandling(w.owner, ContextWatchCleanup, fn)
	}

	// a stopped watcher has no later run or stop to fire it
	if !w.effect.Active() {
		cleanup()
		return
	}

	w.cleanup = cleanup
}

// runCleanup fires the pending cleanup, at most once per registration.
func (w *Watcher) runCleanup() {
	cleanup := w.cleanup
	if cleanup == nil {
		return
	}

	w.cleanup = nil
	cleanup()
}

// Stop disables the watcher's effect, fires any pending cleanup and
// detaches it from its owner. It is idempotent.
func (w *Watcher) Stop() {
	w.effect.Stop()

	if w.owner != nil {
		w.owner.RemoveEffect(w.effect)
	}
}

func (w *Watcher) Active() bool { return w.effect.Active() }

func (w *Watcher) Effect() *Effect { return w.effect }

func (w *Watcher) Job() *Job { return w.job }

func (w *Watcher) OldValue() any { return w.oldValue }
