package reactor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRef(t *testing.T) {
	t.Run("reads and writes", func(t *testing.T) {
		count := NewRef(1)
		assert.Equal(t, 1, count.Get())

		count.Set(2)
		assert.Equal(t, 2, count.Peek())

		count.Update(func(v int) int { return v * 10 })
		assert.Equal(t, 20, count.Get())
	})

	t.Run("zero values of interface refs", func(t *testing.T) {
		ref := NewRef[error](nil)
		assert.Nil(t, ref.Get())
	})

	t.Run("peek does not track", func(t *testing.T) {
		log := []string{}

		a := NewRef(1)
		b := NewRef(1)
		WatchEffect(func(CleanupHook) {
			log = append(log, fmt.Sprintf("%d %d", a.Get(), b.Peek()))
		})

		b.Set(2)
		a.Set(2)

		assert.Equal(t, []string{"1 1", "2 2"}, log)
	})

	t.Run("replacing a slice with the same slice is a no-op", func(t *testing.T) {
		calls := 0

		items := []string{"a"}
		ref := NewRef(items)
		Watch(ref, func(_, _ []string, _ CleanupHook) { calls++ }, WithLazy())

		ref.Set(items)
		ref.Set(append(items, "b"))

		assert.Equal(t, 1, calls)
	})
}

func TestList(t *testing.T) {
	t.Run("tracks each index", func(t *testing.T) {
		log := []string{}

		list := NewList("a", "b")
		Watch(From(func() string { return list.Get(0) }), func(v, _ string, _ CleanupHook) {
			log = append(log, v)
		})

		list.Set(1, "c")
		list.Set(0, "z")

		assert.Equal(t, []string{"a", "z"}, log)
		assert.Equal(t, []string{"z", "c"}, list.Values())
	})

	t.Run("tracks its length", func(t *testing.T) {
		log := []string{}

		list := NewList[int]()
		Watch(From(list.Len), func(v, _ int, _ CleanupHook) {
			log = append(log, fmt.Sprintf("len %d", v))
		})

		list.Append(1, 2)
		list.Remove(0)
		list.Set(0, 5)

		assert.Equal(t, []string{"len 0", "len 2", "len 1"}, log)
	})
}

func TestMap(t *testing.T) {
	t.Run("tracks keys and values", func(t *testing.T) {
		log := []string{}

		scores := NewMap[string, int]()
		scores.Set("ada", 1)

		Watch(From(func() string {
			return fmt.Sprint(scores.Keys())
		}), func(v, _ string, _ CleanupHook) {
			log = append(log, "keys "+v)
		})
		Watch(From(func() int {
			v, _ := scores.Get("ada")
			return v
		}), func(v, _ int, _ CleanupHook) {
			log = append(log, fmt.Sprintf("ada %d", v))
		})

		scores.Set("ada", 2)
		scores.Set("grace", 3)
		scores.Delete("ada")

		assert.Equal(t, []string{
			"keys [ada]",
			"ada 1",
			"ada 2",
			"keys [ada grace]",
			"ada 0",
			"keys [grace]",
		}, log)
		assert.True(t, scores.Has("grace"))
		assert.Equal(t, 1, scores.Len())
	})
}
