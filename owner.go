package reactor

import "github.com/AnatoleLucet/reactor/internal"

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates a new reactive owner, child of the current one.
// An owner manages the lifecycle of the watchers created within its context.
func NewOwner() *Owner {
	return &Owner{
		internal.GetRuntime().NewOwner(),
	}
}

// Run a function within the context of this owner.
// Each watcher created within the function belongs to this owner,
// and will be stopped when owner.Dispose() is called.
func (o *Owner) Run(fn func() error) error {
	var err error
	o.owner.Run(func() { err = fn() })
	return err
}

// Dispose this owner and all its children.
func (o *Owner) Dispose() { o.owner.Dispose() }

// Add a cleanup function to be called ONCE when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.owner.OnCleanup(fn) }

// Add a function to be called when a panic occurs within this owner.
// Reaction panics are reported here instead of the runtime error handler.
// If no error listener is registered, the panic will propagate as usual.
func (o *Owner) OnError(fn func(any)) { o.owner.OnError(fn) }

// SetMounted records that the owner finished its first materialization.
// Until then, pre-flush watchers created under it react synchronously.
func (o *Owner) SetMounted(mounted bool) { o.owner.SetMounted(mounted) }

func (o *Owner) Mounted() bool { return o.owner.Mounted() }
