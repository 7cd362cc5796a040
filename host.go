package reactor

import "github.com/AnatoleLucet/reactor/internal"

// Host runs a callback once the current synchronous unit of work is done.
// A runtime hands it one drain per idle to busy transition.
type Host = internal.Host

// HostFunc adapts a plain function to the Host interface.
type HostFunc = internal.HostFunc

// ManualHost queues deferred callbacks until Tick or Drain is called.
type ManualHost = internal.ManualHost

func NewManualHost() *ManualHost { return internal.NewManualHost() }
