package internal

import (
	"slices"
)

// Op names the kind of access reported to OnTrack/OnTrigger.
type Op string

const (
	OpGet     Op = "get"
	OpIterate Op = "iterate"
	OpSet     Op = "set"
	OpAdd     Op = "add"
	OpDelete  Op = "delete"
)

type DebuggerEvent struct {
	Effect *Effect
	Target any
	Op     Op
	Key    any
}

// Dep is the set of effects subscribed to one reactive read site.
type Dep struct {
	effects []*Effect
}

func NewDep() *Dep {
	return &Dep{}
}

func (d *Dep) add(e *Effect) bool {
	if slices.Contains(d.effects, e) {
		return false
	}

	d.effects = append(d.effects, e)
	return true
}

func (d *Dep) remove(e *Effect) {
	if index := slices.Index(d.effects, e); index != -1 {
		d.effects = slices.Delete(d.effects, index, index+1)
	}
}

func (d *Dep) Len() int {
	return len(d.effects)
}

// Trigger notifies every subscriber of the given deps, computed effects
// first so that derived values are fresh before plain effects rerun.
func Trigger(target any, op Op, key any, deps ...*Dep) {
	var computed, plain []*Effect

	for _, dep := range deps {
		if dep == nil {
			continue
		}

		// clonning to avoid mutation during iteration
		for _, e := range slices.Clone(dep.effects) {
			if e.opts.Computed {
				if !slices.Contains(computed, e) {
					computed = append(computed, e)
				}
			} else if !slices.Contains(plain, e) {
				plain = append(plain, e)
			}
		}
	}

	for _, e := range computed {
		e.trigger(target, op, key)
	}
	for _, e := range plain {
		e.trigger(target, op, key)
	}
}
