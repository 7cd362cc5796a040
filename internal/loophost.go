//go:build !wasm

package internal

import (
	"fmt"

	"github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"
)

// LoopHost defers callbacks onto an event loop as separate tasks. Every
// reactive operation of a runtime using it must then run on the loop.
type LoopHost struct {
	loop *eventloop.Loop
	log  zerolog.Logger
}

func NewLoopHost(loop *eventloop.Loop, log zerolog.Logger) *LoopHost {
	return &LoopHost{loop: loop, log: log}
}

func (h *LoopHost) Defer(fn func()) error {
	if err := h.loop.Submit(fn); err != nil {
		h.log.Debug().Err(err).Msg("event loop refused deferred callback")
		return fmt.Errorf("submit to event loop: %w", err)
	}
	return nil
}

func (h *LoopHost) Loop() *eventloop.Loop {
	return h.loop
}
