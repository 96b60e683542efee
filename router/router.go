// Package router dispatches decoded frames to per-type handlers, the
// way core.CommandRegistry dispatches decoded Klipper commands to
// registered handlers, generalized from a single command-ID table to
// the mesh's five frame types.
package router

import (
	"fmt"
	"sync"

	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/transport"
)

// Handler processes one frame already known to be addressed to this
// node (dst == local ID or dst == Broadcast).
type Handler func(frame *protocol.Frame, ch transport.Channel)

// Router owns the type->handler table and applies the destination
// filter every frame must pass before a handler ever sees it.
type Router struct {
	localID uint8

	mu       sync.RWMutex
	handlers map[byte]Handler

	droppedWrongDst uint64
	droppedNoRoute  uint64
	routed          uint64
	recovered       uint64
}

// New returns a Router for the given node address.
func New(localID uint8) *Router {
	return &Router{localID: localID, handlers: make(map[byte]Handler)}
}

// Handle registers (or replaces) the handler for a frame type.
func (r *Router) Handle(frameType byte, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[frameType] = h
}

// Route applies the destination filter and dispatches to the
// registered handler for frame.Type, if any. A panicking handler is
// recovered and logged so one bad frame can never kill the reader
// goroutine driving Route.
func (r *Router) Route(frame *protocol.Frame, ch transport.Channel) {
	if frame.Dst != r.localID && frame.Dst != protocol.Broadcast {
		r.mu.Lock()
		r.droppedWrongDst++
		r.mu.Unlock()
		return
	}

	r.mu.RLock()
	h, ok := r.handlers[frame.Type]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		r.droppedNoRoute++
		r.mu.Unlock()
		logging.Frame(frame.Type, frame.Src, frame.Dst).Warn("no handler registered for frame type")
		return
	}

	r.dispatch(h, frame, ch)
}

func (r *Router) dispatch(h Handler, frame *protocol.Frame, ch transport.Channel) {
	defer func() {
		if rec := recover(); rec != nil {
			r.mu.Lock()
			r.recovered++
			r.mu.Unlock()
			logging.Frame(frame.Type, frame.Src, frame.Dst).
				WithField("panic", fmt.Sprint(rec)).
				Error("recovered from panic in frame handler")
		}
	}()

	h(frame, ch)

	r.mu.Lock()
	r.routed++
	r.mu.Unlock()
}

// Stats is a point-in-time snapshot of routing counters, consumed by
// the metrics collector.
type Stats struct {
	Routed          uint64
	DroppedWrongDst uint64
	DroppedNoRoute  uint64
	Recovered       uint64
}

func (r *Router) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Routed:          r.routed,
		DroppedWrongDst: r.droppedWrongDst,
		DroppedNoRoute:  r.droppedNoRoute,
		Recovered:       r.recovered,
	}
}
