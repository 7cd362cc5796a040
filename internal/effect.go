package internal

type EffectOptions struct {
	// Lazy skips the first run at creation.
	Lazy bool

	// Computed effects are notified before plain ones on trigger.
	Computed bool

	OnTrack   func(DebuggerEvent)
	OnTrigger func(DebuggerEvent)

	// Scheduler, when set, receives trigger-driven reruns instead of the
	// effect recomputing right away.
	Scheduler func(e *Effect)
}

// Effect reruns a getter and records every reactive read it performs.
type Effect struct {
	rt   *Runtime
	fn   func() any
	opts EffectOptions

	deps []*Dep

	active bool
	value  any

	onStop func()
}

func (r *Runtime) NewEffect(fn func() any, opts EffectOptions) *Effect {
	e := &Effect{
		rt:     r,
		fn:     fn,
		opts:   opts,
		active: true,
	}

	if !opts.Lazy {
		e.Run()
	}

	return e
}

// Run recomputes the getter with fresh dependencies and returns its value.
// A stopped effect never recomputes and returns its last value.
func (e *Effect) Run() any {
	if !e.active || e.rt.tracker.isRunning(e) {
		return e.value
	}

	e.clearDeps()
	e.rt.tracker.RunWithEffect(e, func() {
		e.value = e.fn()
	})

	return e.value
}

func (e *Effect) trigger(target any, op Op, key any) {
	if !e.active {
		return
	}

	// an effect writing what it reads must not retrigger itself
	if e.rt.tracker.ActiveEffect() == e && e.rt.tracker.tracking {
		return
	}

	if e.opts.OnTrigger != nil {
		e.opts.OnTrigger(DebuggerEvent{Effect: e, Target: target, Op: op, Key: key})
	}

	if e.opts.Scheduler != nil {
		e.opts.Scheduler(e)
		return
	}

	e.Run()
}

// Stop permanently disables the effect. It is idempotent.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.active = false

	e.clearDeps()

	if e.onStop != nil {
		e.onStop()
	}
}

func (e *Effect) OnStop(fn func()) {
	e.onStop = fn
}

func (e *Effect) Active() bool {
	return e.active
}

func (e *Effect) Value() any {
	return e.value
}

// DepCount returns the number of reactive read sites the last run recorded.
func (e *Effect) DepCount() int {
	return len(e.deps)
}

func (e *Effect) clearDeps() {
	for _, dep := range e.deps {
		dep.remove(e)
	}
	e.deps = nil
}
