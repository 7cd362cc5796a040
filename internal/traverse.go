package internal

import "reflect"

// Traversable is implemented by reactive containers. Traverse must read
// every element through its tracked accessor and hand it to visit.
type Traversable interface {
	Traverse(visit func(any))
}

type visitKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type traversal struct {
	seen map[visitKey]struct{}
}

// Traverse reads everything reachable from value so that the active effect
// depends on every nested reactive read. Each reference is visited once,
// which keeps cyclic graphs finite.
func Traverse(value any) any {
	t := &traversal{seen: make(map[visitKey]struct{})}
	t.visit(value)

	return value
}

func (t *traversal) visit(value any) {
	if value == nil {
		return
	}
	t.walk(reflect.ValueOf(value))
}

// mark records a reference, reporting false when it was already seen.
func (t *traversal) mark(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
	default:
		return true
	}

	key := visitKey{typ: v.Type(), ptr: v.Pointer()}
	if v.Kind() == reflect.Slice {
		key.len = v.Len()
	}

	if _, ok := t.seen[key]; ok {
		return false
	}
	t.seen[key] = struct{}{}

	return true
}

func (t *traversal) walk(v reflect.Value) {
	if !v.IsValid() {
		return
	}

	if v.CanInterface() && !isNilRef(v) {
		if tr, ok := v.Interface().(Traversable); ok {
			if t.mark(v) {
				tr.Traverse(t.visit)
			}
			return
		}
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() || !t.mark(v) {
			return
		}
		t.walk(v.Elem())

	case reflect.Interface:
		if v.IsNil() {
			return
		}
		t.walk(v.Elem())

	case reflect.Slice:
		if v.IsNil() || !t.mark(v) {
			return
		}
		for i := range v.Len() {
			t.walk(v.Index(i))
		}

	case reflect.Array:
		for i := range v.Len() {
			t.walk(v.Index(i))
		}

	case reflect.Map:
		if v.IsNil() || !t.mark(v) {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			t.walk(iter.Value())
		}

	case reflect.Struct:
		typ := v.Type()
		for i := range v.NumField() {
			if typ.Field(i).IsExported() {
				t.walk(v.Field(i))
			}
		}
	}
}

func isNilRef(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}
