//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	once.Do(func() {
		if globalRuntime == nil {
			globalRuntime = NewRuntime(DefaultRuntimeOptions())
		}
	})

	return globalRuntime
}

// Enter makes r the current runtime while fn runs, as one synchronous unit.
func (r *Runtime) Enter(fn func()) {
	prev := GetRuntime()
	globalRuntime = r
	defer func() { globalRuntime = prev }()

	r.batcher.Batch(fn)
}
