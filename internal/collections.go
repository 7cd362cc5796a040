package internal

import (
	"fmt"
	"slices"
)

// List is a reactive sequence. Each index has its own dependency, and the
// length has one shared by every read that iterates.
type List struct {
	rt *Runtime

	items  []any
	deps   map[int]*Dep
	length *Dep
}

func (r *Runtime) NewList(items []any) *List {
	return &List{
		rt:     r,
		items:  slices.Clone(items),
		deps:   make(map[int]*Dep),
		length: NewDep(),
	}
}

func (l *List) dep(i int) *Dep {
	d, ok := l.deps[i]
	if !ok {
		d = NewDep()
		l.deps[i] = d
	}
	return d
}

func (l *List) Get(i int) any {
	if i < 0 || i >= len(l.items) {
		panic(fmt.Sprintf("reactive list: index %d out of range [0:%d]", i, len(l.items)))
	}

	l.rt.tracker.Track(l.dep(i), l, OpGet, i)
	return l.items[i]
}

func (l *List) Len() int {
	l.rt.tracker.Track(l.length, l, OpIterate, nil)
	return len(l.items)
}

// Values returns a copy of the items, tracking every index.
func (l *List) Values() []any {
	n := l.Len()
	out := make([]any, n)
	for i := range n {
		out[i] = l.Get(i)
	}
	return out
}

func (l *List) Set(i int, v any) {
	if i < 0 || i >= len(l.items) {
		panic(fmt.Sprintf("reactive list: index %d out of range [0:%d]", i, len(l.items)))
	}
	if isEqual(l.items[i], v) {
		return
	}
	l.items[i] = v

	l.rt.batcher.Batch(func() {
		Trigger(l, OpSet, i, l.deps[i])
	})
}

func (l *List) Append(vs ...any) {
	if len(vs) == 0 {
		return
	}
	l.items = append(l.items, vs...)

	l.rt.batcher.Batch(func() {
		Trigger(l, OpAdd, len(l.items)-1, l.length)
	})
}

// Remove deletes the item at i, shifting the following ones down.
func (l *List) Remove(i int) {
	if i < 0 || i >= len(l.items) {
		panic(fmt.Sprintf("reactive list: index %d out of range [0:%d]", i, len(l.items)))
	}

	deps := []*Dep{l.length}
	for j := i; j < len(l.items); j++ {
		deps = append(deps, l.deps[j])
	}
	l.items = slices.Delete(l.items, i, i+1)

	l.rt.batcher.Batch(func() {
		Trigger(l, OpDelete, i, deps...)
	})
}

func (l *List) Traverse(visit func(any)) {
	for i := range l.Len() {
		visit(l.Get(i))
	}
}

// Map is a reactive mapping with insertion ordered keys.
type Map struct {
	rt *Runtime

	keys   []any
	values map[any]any
	deps   map[any]*Dep
	iter   *Dep
}

func (r *Runtime) NewMap() *Map {
	return &Map{
		rt:     r,
		values: make(map[any]any),
		deps:   make(map[any]*Dep),
		iter:   NewDep(),
	}
}

func (m *Map) dep(key any) *Dep {
	d, ok := m.deps[key]
	if !ok {
		d = NewDep()
		m.deps[key] = d
	}
	return d
}

func (m *Map) Get(key any) (any, bool) {
	m.rt.tracker.Track(m.dep(key), m, OpGet, key)
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Has(key any) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Map) Len() int {
	m.rt.tracker.Track(m.iter, m, OpIterate, nil)
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []any {
	m.rt.tracker.Track(m.iter, m, OpIterate, nil)
	return slices.Clone(m.keys)
}

func (m *Map) Set(key, v any) {
	old, exists := m.values[key]
	if exists && isEqual(old, v) {
		return
	}
	m.values[key] = v

	if exists {
		m.rt.batcher.Batch(func() {
			Trigger(m, OpSet, key, m.deps[key])
		})
		return
	}

	m.keys = append(m.keys, key)
	m.rt.batcher.Batch(func() {
		Trigger(m, OpAdd, key, m.deps[key], m.iter)
	})
}

func (m *Map) Delete(key any) {
	if _, exists := m.values[key]; !exists {
		return
	}

	delete(m.values, key)
	if i := slices.Index(m.keys, key); i != -1 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}

	m.rt.batcher.Batch(func() {
		Trigger(m, OpDelete, key, m.deps[key], m.iter)
	})
}

func (m *Map) Traverse(visit func(any)) {
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		visit(v)
	}
}
