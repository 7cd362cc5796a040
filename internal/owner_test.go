package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwner(t *testing.T) {
	t.Run("owners created while running become children", func(t *testing.T) {
		rt, _ := newTestRuntime()

		parent := rt.NewOwner()
		var child *Owner
		parent.Run(func() {
			child = rt.NewOwner()
		})

		children := []*Owner{}
		for c := range parent.Children() {
			children = append(children, c)
		}
		assert.Equal(t, []*Owner{child}, children)
		assert.Nil(t, rt.CurrentOwner())
	})

	t.Run("disposes children, then effects, then cleanups", func(t *testing.T) {
		log := []string{}
		rt, _ := newTestRuntime()

		parent := rt.NewOwner()
		parent.Run(func() {
			parent.OnCleanup(func() { log = append(log, "parent cleanup 1") })

			child := rt.NewOwner()
			child.OnCleanup(func() { log = append(log, "child cleanup") })

			e := rt.NewEffect(func() any { return nil }, EffectOptions{})
			e.OnStop(func() { log = append(log, "effect stopped") })
			parent.RecordEffect(e)

			parent.OnCleanup(func() { log = append(log, "parent cleanup 2") })
		})

		parent.Dispose()
		parent.Dispose()

		assert.Equal(t, []string{
			"child cleanup",
			"effect stopped",
			"parent cleanup 1",
			"parent cleanup 2",
		}, log)
		assert.True(t, parent.Disposed())
	})

	t.Run("a disposed child detaches from its parent", func(t *testing.T) {
		rt, _ := newTestRuntime()

		parent := rt.NewOwner()
		var a, b *Owner
		parent.Run(func() {
			a = rt.NewOwner()
			b = rt.NewOwner()
		})

		a.Dispose()

		children := []*Owner{}
		for c := range parent.Children() {
			children = append(children, c)
		}
		assert.Equal(t, []*Owner{b}, children)
	})

	t.Run("recording on a disposed owner stops the effect", func(t *testing.T) {
		rt, _ := newTestRuntime()

		owner := rt.NewOwner()
		owner.Dispose()

		e := rt.NewEffect(func() any { return nil }, EffectOptions{})
		owner.RecordEffect(e)

		assert.False(t, e.Active())
	})

	t.Run("the nearest owner with listeners handles a panic", func(t *testing.T) {
		log := []string{}
		rt, _ := newTestRuntime()

		root := rt.NewOwner()
		root.OnError(func(err any) { log = append(log, "root") })

		root.Run(func() {
			mid := rt.NewOwner()
			mid.OnError(func(err any) { log = append(log, "mid: "+err.(string)) })

			mid.Run(func() {
				leaf := rt.NewOwner()
				leaf.Run(func() { panic("boom") })
			})
		})

		assert.Equal(t, []string{"mid: boom"}, log)
	})

	t.Run("a panic without listeners propagates", func(t *testing.T) {
		rt, _ := newTestRuntime()

		owner := rt.NewOwner()

		assert.PanicsWithValue(t, "boom", func() {
			owner.Run(func() { panic("boom") })
		})
		assert.Nil(t, rt.CurrentOwner())
	})

	t.Run("starts unmounted", func(t *testing.T) {
		rt, _ := newTestRuntime()

		owner := rt.NewOwner()
		assert.False(t, owner.Mounted())

		owner.SetMounted(true)
		assert.True(t, owner.Mounted())
	})
}
