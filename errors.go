package reactor

import "github.com/AnatoleLucet/reactor/internal"

type (
	// ErrorContext labels the kind of user code that failed.
	ErrorContext = internal.ErrorContext

	// UserError wraps a panic recovered from a getter, callback or cleanup.
	UserError = internal.UserError

	// RecursionError is returned by Flush when one job ran more than the
	// recursion limit within a single flush.
	RecursionError = internal.RecursionError

	// ErrorHandler receives reaction errors that must not stop a flush.
	ErrorHandler = internal.ErrorHandler
)

const (
	ContextWatchGetter   = internal.ContextWatchGetter
	ContextWatchCallback = internal.ContextWatchCallback
	ContextWatchCleanup  = internal.ContextWatchCleanup
	ContextEffectBody    = internal.ContextEffectBody
	ContextSchedulerJob  = internal.ContextSchedulerJob
)

var (
	ErrRecursionLimit = internal.ErrRecursionLimit
	ErrHostRefused    = internal.ErrHostRefused
)
