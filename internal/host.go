package internal

// Host runs a callback once the current synchronous unit of work is done.
// An error means the callback was refused and will never run.
type Host interface {
	Defer(fn func()) error
}

// HostFunc adapts a plain function to the Host interface.
type HostFunc func(fn func()) error

func (f HostFunc) Defer(fn func()) error { return f(fn) }

// BatchHost defers callbacks until the outermost batch of its batcher
// returns. Outside of any batch the callback runs right away.
type BatchHost struct {
	batcher *Batcher
	pending []func()
}

func NewBatchHost(b *Batcher) *BatchHost {
	h := &BatchHost{batcher: b}
	b.onComplete = append(b.onComplete, h.run)
	return h
}

func (h *BatchHost) Defer(fn func()) error {
	if !h.batcher.IsBatching() {
		fn()
		return nil
	}

	h.pending = append(h.pending, fn)
	return nil
}

func (h *BatchHost) run() {
	for len(h.pending) > 0 {
		fn := h.pending[0]
		h.pending[0] = nil
		h.pending = h.pending[1:]

		// callbacks may write signals, which opens a new unit
		h.batcher.Batch(fn)
	}
}

// ManualHost queues callbacks until the caller pumps them with Tick or Drain.
type ManualHost struct {
	pending []func()
}

func NewManualHost() *ManualHost {
	return &ManualHost{}
}

func (h *ManualHost) Defer(fn func()) error {
	h.pending = append(h.pending, fn)
	return nil
}

// Pending returns the number of callbacks waiting to run.
func (h *ManualHost) Pending() int {
	return len(h.pending)
}

// Tick runs the oldest pending callback, reporting whether there was one.
func (h *ManualHost) Tick() bool {
	if len(h.pending) == 0 {
		return false
	}

	fn := h.pending[0]
	h.pending[0] = nil
	h.pending = h.pending[1:]
	fn()

	return true
}

// Drain runs callbacks until none are left and returns how many ran.
func (h *ManualHost) Drain() int {
	n := 0
	for h.Tick() {
		n++
	}
	return n
}
