package reactor

import (
	"github.com/AnatoleLucet/reactor/internal"
)

// Ref is a reactive reference to a single value.
type Ref[T any] struct {
	sig *internal.Signal
}

// NewRef creates a reactive reference on the current runtime.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{
		internal.GetRuntime().NewSignal(initial),
	}
}

// Get the current value, tracking the dependency if within a reactive context.
func (r *Ref[T]) Get() T {
	return as[T](r.sig.Read())
}

// Peek the current value without tracking it.
func (r *Ref[T]) Peek() T {
	return as[T](r.sig.Peek())
}

// Set a new value, triggering the watchers that read it. Setting the same
// value again does nothing.
func (r *Ref[T]) Set(v T) {
	r.sig.Write(v)
}

// Update sets the value returned by fn for the current (untracked) value.
func (r *Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.Peek()))
}

func (r *Ref[T]) Traverse(visit func(any)) {
	r.sig.Traverse(visit)
}

func (r *Ref[T]) watchSource() internal.Source {
	return internal.RefSource{Ref: r.sig}
}

func (r *Ref[T]) cast(v any) T { return as[T](v) }

// List is a reactive slice. Reads of an index depend on that index only;
// reads of the length depend on additions and removals.
type List[T any] struct {
	list *internal.List
}

func NewList[T any](items ...T) *List[T] {
	values := make([]any, len(items))
	for i, item := range items {
		values[i] = item
	}

	return &List[T]{
		internal.GetRuntime().NewList(values),
	}
}

func (l *List[T]) Get(i int) T { return as[T](l.list.Get(i)) }

func (l *List[T]) Set(i int, v T) { l.list.Set(i, v) }

func (l *List[T]) Len() int { return l.list.Len() }

func (l *List[T]) Append(items ...T) {
	values := make([]any, len(items))
	for i, item := range items {
		values[i] = item
	}
	l.list.Append(values...)
}

func (l *List[T]) Remove(i int) { l.list.Remove(i) }

// Values returns a copy of the items, depending on every one of them.
func (l *List[T]) Values() []T {
	values := l.list.Values()
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = as[T](v)
	}
	return out
}

func (l *List[T]) Traverse(visit func(any)) {
	l.list.Traverse(visit)
}

// Map is a reactive map with insertion ordered keys.
type Map[K comparable, V any] struct {
	m *internal.Map
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		internal.GetRuntime().NewMap(),
	}
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.m.Get(key)
	return as[V](v), ok
}

func (m *Map[K, V]) Has(key K) bool { return m.m.Has(key) }

func (m *Map[K, V]) Set(key K, v V) { m.m.Set(key, v) }

func (m *Map[K, V]) Delete(key K) { m.m.Delete(key) }

func (m *Map[K, V]) Len() int { return m.m.Len() }

func (m *Map[K, V]) Keys() []K {
	keys := m.m.Keys()
	out := make([]K, len(keys))
	for i, k := range keys {
		out[i] = k.(K)
	}
	return out
}

func (m *Map[K, V]) Traverse(visit func(any)) {
	m.m.Traverse(visit)
}
