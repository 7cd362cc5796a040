package internal

import "reflect"

// Signal is a single reactive cell.
type Signal struct {
	rt  *Runtime
	dep *Dep

	value any
}

func (r *Runtime) NewSignal(initial any) *Signal {
	return &Signal{
		rt:    r,
		dep:   NewDep(),
		value: initial,
	}
}

// Read the current value, tracking the dependency if within a reactive effect.
func (s *Signal) Read() any {
	s.rt.tracker.Track(s.dep, s, OpGet, nil)
	return s.value
}

// Peek reads the current value without tracking.
func (s *Signal) Peek() any {
	return s.value
}

// Write a new value and notify dependents. Writing an identical value is a no-op.
func (s *Signal) Write(v any) {
	if isEqual(s.value, v) {
		return
	}
	s.value = v

	s.rt.batcher.Batch(func() {
		Trigger(s, OpSet, nil, s.dep)
	})
}

// Traverse reads the value and hands it to visit.
func (s *Signal) Traverse(visit func(any)) {
	visit(s.Read())
}

func (s *Signal) Dep() *Dep {
	return s.dep
}

// isEqual reports whether b is the same value as a: == for comparable
// values, pointer identity for reference kinds.
func isEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	if ta.Comparable() {
		va := reflect.ValueOf(a)
		if !hasUncomparable(va) {
			return a == b
		}
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

// hasUncomparable reports whether an interface inside a comparable value
// holds something that would panic under ==.
func hasUncomparable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return false
		}
		return !v.Elem().Type().Comparable() || hasUncomparable(v.Elem())
	case reflect.Struct:
		for i := range v.NumField() {
			if hasUncomparable(v.Field(i)) {
				return true
			}
		}
	case reflect.Array:
		for i := range v.Len() {
			if hasUncomparable(v.Index(i)) {
				return true
			}
		}
	}
	return false
}
