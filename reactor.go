// Package reactor schedules the side effects of reactive state changes.
//
// Writes to reactive values ([Ref], [List], [Map]) notify the watchers that
// read them. Watchers react synchronously, before the next flush (on the
// job queue) or after it (on the post-flush stack). A flush drains the job
// queue in order, including jobs queued while draining, then the post-flush
// stack last registered first, and repeats until both are empty.
//
// Every goroutine has a current [Runtime]; package level functions use it.
// A runtime is single threaded.
package reactor

import (
	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/reactor/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Runtime owns a scheduler, its host and the dependency tracker.
type Runtime struct {
	rt *internal.Runtime
}

// NewRuntime creates an isolated runtime.
func NewRuntime(opts ...Option) *Runtime {
	o := newOptions(opts)
	return &Runtime{internal.NewRuntime(o.runtimeOptions())}
}

// Current returns the runtime of the calling goroutine, creating a default
// one on first use.
func Current() *Runtime {
	return &Runtime{internal.GetRuntime()}
}

// Run fn with r as the current runtime of this goroutine. Drains scheduled
// by the default host wait until fn returns.
func (r *Runtime) Run(fn func()) { r.rt.Enter(fn) }

// Flush drains the scheduler synchronously.
func (r *Runtime) Flush() error { return r.rt.Scheduler().Flush() }

// Batch runs fn as one unit: drains wait until the outermost batch returns.
func (r *Runtime) Batch(fn func()) { r.rt.NewBatch(fn) }

// NewJob issues a job ticket. Queues dedupe jobs by ticket.
func (r *Runtime) NewJob(fn func()) *Job { return r.rt.Scheduler().NewJob(fn) }

// QueueJob appends job to the job queue unless it is already queued.
func (r *Runtime) QueueJob(job *Job) { r.rt.QueueJob(job) }

// QueuePostFlush appends job to the post-flush stack unless it is already
// there. It rides along with the next flush without scheduling one.
func (r *Runtime) QueuePostFlush(job *Job) { r.rt.QueuePostFlush(job) }

// NextTick returns a channel closed once the next flush completes, after
// fn (if not nil) ran.
func (r *Runtime) NextTick(fn func()) <-chan struct{} { return r.rt.NextTick(fn) }

func (r *Runtime) ID() string { return r.rt.ID() }

func (r *Runtime) Logger() zerolog.Logger { return r.rt.Logger() }

func (r *Runtime) Host() Host { return r.rt.Host() }

// IsFlushing reports whether a flush is running.
func (r *Runtime) IsFlushing() bool { return r.rt.Scheduler().IsFlushing() }

// FlushCount returns the number of completed flushes.
func (r *Runtime) FlushCount() uint64 { return r.rt.Scheduler().Time() }

func NewJob(fn func()) *Job { return Current().NewJob(fn) }

func QueueJob(job *Job) { Current().QueueJob(job) }

func QueuePostFlush(job *Job) { Current().QueuePostFlush(job) }

func NextTick(fn func()) <-chan struct{} { return Current().NextTick(fn) }

func Flush() error { return Current().Flush() }

// Batch groups multiple writes so that the work they schedule drains once.
func Batch(fn func()) { Current().Batch(fn) }

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called when the current owner is disposed.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}
