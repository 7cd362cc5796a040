package internal

type Batcher struct {
	// each nested batch increases the depth by 1
	// if depth > 0, deferred work waits until the outermost batch is complete
	depth int

	onComplete []func()
}

func NewBatcher() *Batcher {
	return &Batcher{
		depth: 0,
	}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

func (b *Batcher) Batch(fn func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 {
			for _, complete := range b.onComplete {
				complete()
			}
		}
	}()

	fn()
}

// NewBatch runs fn as one synchronous unit: drains scheduled through the
// default host wait until fn returns.
func (r *Runtime) NewBatch(fn func()) {
	r.batcher.Batch(fn)
}
