package internal

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Runtime struct {
	id string

	log     zerolog.Logger
	onError ErrorHandler

	defaultFlush FlushMode

	tracker   *Tracker
	batcher   *Batcher
	host      Host
	scheduler *Scheduler
}

type RuntimeOptions struct {
	// Host defaults to a BatchHost on the runtime's own batcher.
	Host Host

	Logger       *zerolog.Logger
	ErrorHandler ErrorHandler

	Diagnostics    bool
	RecursionLimit int

	DefaultFlush FlushMode
}

func DefaultRuntimeOptions() RuntimeOptions {
	return RuntimeOptions{
		Diagnostics:    true,
		RecursionLimit: DefaultRecursionLimit,
	}
}

func NewRuntime(opts RuntimeOptions) *Runtime {
	r := &Runtime{
		id:           uuid.NewString(),
		onError:      opts.ErrorHandler,
		defaultFlush: opts.DefaultFlush,
		tracker:      NewTracker(),
		batcher:      NewBatcher(),
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	r.log = log.With().Str("runtime", r.id).Logger()

	r.host = opts.Host
	if r.host == nil {
		r.host = NewBatchHost(r.batcher)
	}

	r.scheduler = NewScheduler(r.host, r.log)
	r.scheduler.SetDiagnostics(opts.Diagnostics)
	r.scheduler.SetRecursionLimit(opts.RecursionLimit)
	r.scheduler.OnFatal(func(err error) {
		r.reportError(err, ContextSchedulerJob)
	})

	return r
}

func (r *Runtime) ID() string { return r.id }

func (r *Runtime) Logger() zerolog.Logger { return r.log }

func (r *Runtime) Host() Host { return r.host }

func (r *Runtime) DefaultFlush() FlushMode { return r.defaultFlush }

func (r *Runtime) Scheduler() *Scheduler { return r.scheduler }

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

// OnCleanup registers fn on the current owner, if any.
func (r *Runtime) OnCleanup(fn func()) {
	if owner := r.CurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}

// QueueJob schedules job inside a synchronous unit so the default host
// drains once the caller's unit returns.
func (r *Runtime) QueueJob(job *Job) {
	r.batcher.Batch(func() {
		r.scheduler.QueueJob(job)
	})
}

func (r *Runtime) QueuePostFlush(job *Job) {
	r.scheduler.QueuePostFlush(job)
}

// NextTick wraps fn as asynchronous user code before handing it to the
// scheduler.
func (r *Runtime) NextTick(fn func()) <-chan struct{} {
	var wrapped func()
	if fn != nil {
		owner := r.CurrentOwner()
		wrapped = func() {
			r.CallWithAsyncErrorHandling(owner, ContextSchedulerJob, fn)
		}
	}

	var done <-chan struct{}
	r.batcher.Batch(func() {
		done = r.scheduler.NextTick(wrapped)
	})

	return done
}
