package internal

import (
	"errors"
	"fmt"
)

// ErrorContext labels the kind of user code that failed.
type ErrorContext int

const (
	ContextWatchGetter ErrorContext = iota
	ContextWatchCallback
	ContextWatchCleanup
	ContextEffectBody
	ContextSchedulerJob
)

func (c ErrorContext) String() string {
	switch c {
	case ContextWatchGetter:
		return "watcher getter"
	case ContextWatchCallback:
		return "watcher callback"
	case ContextWatchCleanup:
		return "watcher cleanup function"
	case ContextEffectBody:
		return "effect body"
	case ContextSchedulerJob:
		return "scheduler job"
	default:
		return fmt.Sprintf("ErrorContext(%d)", int(c))
	}
}

// ErrRecursionLimit is matched by every *RecursionError.
var ErrRecursionLimit = errors.New("maximum recursive updates exceeded")

// ErrHostRefused is reported when the host would not take a drain.
var ErrHostRefused = errors.New("host refused to schedule a flush")

// UserError wraps a panic recovered from user supplied code.
type UserError struct {
	Context ErrorContext
	Value   any
}

func (e *UserError) Error() string {
	return fmt.Sprintf("unhandled error during execution of %s: %v", e.Context, e.Value)
}

func (e *UserError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// RecursionError aborts a flush when a single job ran more than Limit times.
type RecursionError struct {
	JobID uint64
	Limit int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf(
		"%s (job %d ran %d times in one flush). "+
			"You may have code that is mutating state inside a reactive computation "+
			"or a watcher that updates its own source.",
		ErrRecursionLimit, e.JobID, e.Limit,
	)
}

func (e *RecursionError) Is(target error) bool {
	return target == ErrRecursionLimit
}

// ErrorHandler receives errors that must not interrupt the scheduler.
type ErrorHandler func(err error, ctx ErrorContext)

func asUserError(r any, ctx ErrorContext) *UserError {
	if ue, ok := r.(*UserError); ok {
		return ue
	}
	return &UserError{Context: ctx, Value: r}
}

// CallWithErrorHandling runs fn as synchronous user code. A panic is handed
// to the owner's catchers when there are any, and re-panicked as a
// *UserError otherwise.
func (r *Runtime) CallWithErrorHandling(owner *Owner, ctx ErrorContext, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			ue := asUserError(rec, ctx)
			if owner != nil && owner.handle(ue) {
				return
			}
			panic(ue)
		}
	}()

	fn()
}

// CallWithAsyncErrorHandling runs fn as asynchronous user code. A panic is
// never propagated: it goes to the owner's catchers or to the runtime's
// error handler.
func (r *Runtime) CallWithAsyncErrorHandling(owner *Owner, ctx ErrorContext, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			ue := asUserError(rec, ctx)
			if owner != nil && owner.handle(ue) {
				return
			}
			r.reportError(ue, ctx)
		}
	}()

	fn()
}

func (r *Runtime) reportError(err error, ctx ErrorContext) {
	if r.onError != nil {
		r.onError(err, ctx)
		return
	}

	r.log.Error().Err(err).Str("context", ctx.String()).Msg("unhandled reactive error")
}
