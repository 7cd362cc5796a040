package internal

import "slices"

type Tracker struct {
	tracking bool

	currentOwner *Owner    // for lifecycle/cleanup tracking
	effectStack  []*Effect // for reactive dependency tracking
}

func NewTracker() *Tracker {
	return &Tracker{
		tracking: true,
	}
}

func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	prev := t.currentOwner
	t.currentOwner = owner
	defer func() { t.currentOwner = prev }()

	fn()
}

func (t *Tracker) RunWithEffect(e *Effect, fn func()) {
	prevTracking := t.tracking
	t.tracking = true
	t.effectStack = append(t.effectStack, e)

	defer func() {
		t.effectStack[len(t.effectStack)-1] = nil
		t.effectStack = t.effectStack[:len(t.effectStack)-1]
		t.tracking = prevTracking
	}()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

// Track registers the active effect as a subscriber of dep.
func (t *Tracker) Track(dep *Dep, target any, op Op, key any) {
	e := t.ActiveEffect()
	if e == nil || !t.tracking {
		return
	}

	if dep.add(e) {
		e.deps = append(e.deps, dep)

		if e.opts.OnTrack != nil {
			e.opts.OnTrack(DebuggerEvent{Effect: e, Target: target, Op: op, Key: key})
		}
	}
}

func (t *Tracker) ActiveEffect() *Effect {
	if len(t.effectStack) == 0 {
		return nil
	}
	return t.effectStack[len(t.effectStack)-1]
}

func (t *Tracker) isRunning(e *Effect) bool {
	return slices.Contains(t.effectStack, e)
}

func (t *Tracker) CurrentOwner() *Owner {
	return t.currentOwner
}

func (t *Tracker) ShouldTrack() bool {
	return t.ActiveEffect() != nil && t.tracking
}
