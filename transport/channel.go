// Package transport implements the frame channel abstraction the rest
// of the mesh runtime reads and writes through: a bidirectional,
// non-blocking-read pipe over serial, UDP, or an in-process loopback
// used by tests. Wire encoding/decoding (start/terminal bytes, CRC,
// stream resync) happens inside the channel; everything above this
// package deals only in decoded protocol.Frame values.
package transport

import "github.com/tayfurcnr/lynk/protocol"

// Channel is the capability set every concrete transport implements:
// lifecycle plus best-effort send and non-blocking read.
type Channel interface {
	// Start begins any background I/O the channel needs (e.g. a
	// serial reader goroutine). It is safe to call Read before Start
	// returns; no frames will be available yet.
	Start() error

	// Stop ends background I/O and releases the underlying resource.
	Stop() error

	// Send encodes and transmits one frame. Failure is logged by the
	// implementation, not propagated into protocol state - send is
	// best-effort.
	Send(typ byte, src, dst uint8, payload []byte) error

	// Read returns the next available, already-reassembled and
	// CRC-checked frame, or ok=false if none is queued yet. It never
	// blocks.
	Read() (frame *protocol.Frame, ok bool)
}
