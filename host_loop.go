//go:build !wasm

package reactor

import (
	"github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/reactor/internal"
)

// LoopHost submits deferred callbacks to an event loop. A runtime using it
// must only be touched from the loop.
type LoopHost = internal.LoopHost

func NewLoopHost(loop *eventloop.Loop, log zerolog.Logger) *LoopHost {
	return internal.NewLoopHost(loop, log)
}
