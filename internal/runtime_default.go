//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the runtime current on this goroutine, creating a
// default one on first use.
func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime(DefaultRuntimeOptions())
	runtimes.Store(gid, r)
	return r
}

// Enter makes r the current runtime of this goroutine while fn runs, as
// one synchronous unit.
func (r *Runtime) Enter(fn func()) {
	gid := getGID()

	prev, hadPrev := runtimes.Load(gid)
	runtimes.Store(gid, r)
	defer func() {
		if hadPrev {
			runtimes.Store(gid, prev)
		} else {
			runtimes.Delete(gid)
		}
	}()

	r.batcher.Batch(fn)
}

func getGID() int64 {
	return goid.Get()
}
