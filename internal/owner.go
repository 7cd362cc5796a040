package internal

import (
	"iter"
	"slices"
)

// Owner scopes the lifetime of the effects and watchers created under it.
type Owner struct {
	rt *Runtime

	// cleanup functions to be called when the owner is disposed
	cleanups []func()

	// panic error handlers
	catchers []func(any)

	// effects stopped together with the owner
	effects []*Effect

	// set by the owner subsystem once its first materialization is done
	mounted  bool
	disposed bool

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

func (r *Runtime) NewOwner() *Owner {
	o := &Owner{
		rt:       r,
		cleanups: make([]func(), 0),
	}

	if parent := r.tracker.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return o
}

// Run fn with this owner as the current one. A panic is handed to the
// owner's error listeners, or propagates when there are none.
func (o *Owner) Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if !o.handle(r) {
				panic(r)
			}
		}
	}()

	o.rt.tracker.RunWithOwner(o, fn)
}

func (o *Owner) handle(err any) bool {
	// the nearest owner with listeners handles it
	for cur := o; cur != nil; cur = cur.parent {
		if len(cur.catchers) == 0 {
			continue
		}

		for _, catcher := range cur.catchers {
			catcher(err)
		}
		return true
	}

	return false
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (parent *Owner) removeChild(child *Owner) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else if parent.childrenHead == child {
		parent.childrenHead = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}

	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

func (n *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := n.childrenHead

		for child != nil {
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

// Dispose children first, then stop recorded effects, then run cleanups.
func (n *Owner) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true

	n.DisposeChildren()

	effects := n.effects
	n.effects = nil
	for _, e := range effects {
		e.Stop()
	}

	for i := 0; i < len(n.cleanups); i++ {
		n.cleanups[i]()
	}
	n.cleanups = nil

	if n.parent != nil {
		n.parent.removeChild(n)
	}
}

func (n *Owner) DisposeChildren() {
	for child := range n.Children() {
		child.Dispose()
	}
	n.childrenHead = nil
}

func (n *Owner) OnCleanup(fn func()) {
	n.cleanups = append(n.cleanups, fn)
}

func (n *Owner) OnError(fn func(any)) {
	n.catchers = append(n.catchers, fn)
}

// RecordEffect ties e to the owner's lifetime.
func (n *Owner) RecordEffect(e *Effect) {
	if n.disposed {
		e.Stop()
		return
	}
	n.effects = append(n.effects, e)
}

func (n *Owner) RemoveEffect(e *Effect) {
	if i := slices.Index(n.effects, e); i != -1 {
		n.effects = slices.Delete(n.effects, i, i+1)
	}
}

func (n *Owner) Mounted() bool { return n.mounted }

func (n *Owner) SetMounted(mounted bool) { n.mounted = mounted }

func (n *Owner) Disposed() bool { return n.disposed }
