package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRuntime() (*Runtime, *ManualHost) {
	host := NewManualHost()
	opts := DefaultRuntimeOptions()
	opts.Host = host
	return NewRuntime(opts), host
}

func TestEffect(t *testing.T) {
	t.Run("reruns when a tracked signal changes", func(t *testing.T) {
		log := []string{}
		rt, _ := newTestRuntime()

		s := rt.NewSignal(1)
		rt.NewEffect(func() any {
			log = append(log, fmt.Sprint(s.Read()))
			return nil
		}, EffectOptions{})

		s.Write(2)
		s.Write(2)
		s.Write(3)

		assert.Equal(t, []string{"1", "2", "3"}, log)
	})

	t.Run("lazy effects wait for Run", func(t *testing.T) {
		runs := 0
		rt, _ := newTestRuntime()

		s := rt.NewSignal("a")
		e := rt.NewEffect(func() any {
			runs++
			return s.Read()
		}, EffectOptions{Lazy: true})

		assert.Equal(t, 0, runs)
		assert.Equal(t, 0, s.Dep().Len())

		assert.Equal(t, "a", e.Run())
		assert.Equal(t, 1, runs)
		assert.Equal(t, 1, e.DepCount())
	})

	t.Run("a scheduler receives trigger-driven reruns", func(t *testing.T) {
		log := []string{}
		rt, _ := newTestRuntime()

		s := rt.NewSignal(0)
		rt.NewEffect(func() any {
			log = append(log, "run")
			return s.Read()
		}, EffectOptions{
			Scheduler: func(*Effect) { log = append(log, "scheduled") },
		})

		s.Write(1)

		assert.Equal(t, []string{"run", "scheduled"}, log)
	})

	t.Run("computed effects are notified first", func(t *testing.T) {
		log := []string{}
		rt, _ := newTestRuntime()

		s := rt.NewSignal(0)
		rt.NewEffect(func() any {
			log = append(log, "plain")
			return s.Read()
		}, EffectOptions{})
		rt.NewEffect(func() any {
			log = append(log, "computed")
			return s.Read()
		}, EffectOptions{Computed: true})

		log = log[:0]
		s.Write(1)

		assert.Equal(t, []string{"computed", "plain"}, log)
	})

	t.Run("does not retrigger itself", func(t *testing.T) {
		runs := 0
		rt, _ := newTestRuntime()

		s := rt.NewSignal(0)
		rt.NewEffect(func() any {
			runs++
			s.Write(s.Read().(int) + 1)
			return nil
		}, EffectOptions{})

		assert.Equal(t, 1, runs)
		assert.Equal(t, 1, s.Peek())
	})

	t.Run("drops dependencies it no longer reads", func(t *testing.T) {
		log := []string{}
		rt, _ := newTestRuntime()

		useA := rt.NewSignal(true)
		a := rt.NewSignal("a")
		b := rt.NewSignal("b")

		e := rt.NewEffect(func() any {
			if useA.Read().(bool) {
				log = append(log, a.Read().(string))
			} else {
				log = append(log, b.Read().(string))
			}
			return nil
		}, EffectOptions{})

		useA.Write(false)
		a.Write("a2")
		b.Write("b2")

		assert.Equal(t, []string{"a", "b", "b2"}, log)
		assert.Equal(t, 2, e.DepCount())
		assert.Equal(t, 0, a.Dep().Len())
	})

	t.Run("untracked reads are not dependencies", func(t *testing.T) {
		runs := 0
		rt, _ := newTestRuntime()

		s := rt.NewSignal(0)
		rt.NewEffect(func() any {
			runs++
			rt.Untrack(func() { s.Read() })
			return nil
		}, EffectOptions{})

		s.Write(1)

		assert.Equal(t, 1, runs)
	})

	t.Run("stop is idempotent and detaches", func(t *testing.T) {
		runs, stops := 0, 0
		rt, _ := newTestRuntime()

		s := rt.NewSignal(0)
		e := rt.NewEffect(func() any {
			runs++
			return s.Read()
		}, EffectOptions{})
		e.OnStop(func() { stops++ })

		e.Stop()
		e.Stop()
		s.Write(1)

		assert.Equal(t, 1, runs)
		assert.Equal(t, 1, stops)
		assert.False(t, e.Active())
		assert.Equal(t, 0, s.Dep().Len())
		assert.Equal(t, 0, e.Run())
	})

	t.Run("reports track and trigger events", func(t *testing.T) {
		tracked := []Op{}
		triggered := []Op{}
		rt, _ := newTestRuntime()

		s := rt.NewSignal(0)
		l := rt.NewList([]any{1})
		rt.NewEffect(func() any {
			s.Read()
			return l.Len()
		}, EffectOptions{
			OnTrack:   func(ev DebuggerEvent) { tracked = append(tracked, ev.Op) },
			OnTrigger: func(ev DebuggerEvent) { triggered = append(triggered, ev.Op) },
		})

		s.Write(1)
		l.Append(2)

		assert.Equal(t, []Op{OpGet, OpIterate, OpGet, OpIterate, OpGet, OpIterate}, tracked)
		assert.Equal(t, []Op{OpSet, OpAdd}, triggered)
	})
}

func TestIsEqual(t *testing.T) {
	shared := []int{1, 2, 3}
	m := map[string]int{}
	p := &struct{ N int }{}

	type pair struct {
		A int
		B string
	}
	type boxed struct{ V any }

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"different types", 1, int64(1), false},
		{"both nil", nil, nil, true},
		{"nil and zero", nil, 0, false},
		{"equal structs", pair{1, "x"}, pair{1, "x"}, true},
		{"same slice", shared, shared, true},
		{"same backing array, other length", shared[:2], shared, false},
		{"equal but distinct slices", []int{1}, []int{1}, false},
		{"same map", m, m, true},
		{"same pointer", p, p, true},
		{"distinct pointers", p, &struct{ N int }{}, false},
		{"struct holding a slice", boxed{shared}, boxed{shared}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isEqual(tt.a, tt.b))
		})
	}
}
