package transport

import "github.com/tayfurcnr/lynk/protocol"

// MockChannel is an in-process loopback Channel: every frame handed to
// Send is immediately available from Read on the same instance. It
// exists so node/ack/ftp tests can drive a full send/route/reply cycle
// without a real serial port or socket.
type MockChannel struct {
	inbound *frameQueue
	started bool

	// SendHook, if set, is invoked for every frame passed to Send
	// instead of looping it back - tests use it to wire two
	// MockChannels together (A's SendHook calls B.Deliver) or to
	// inspect outbound traffic.
	SendHook func(frame *protocol.Frame)
}

// NewMockChannel constructs a loopback channel with a generous default
// queue depth; mesh traffic bursts (FTP chunk runs) are small.
func NewMockChannel() *MockChannel {
	return &MockChannel{inbound: newFrameQueue(256)}
}

func (m *MockChannel) Start() error {
	m.started = true
	return nil
}

func (m *MockChannel) Stop() error {
	m.started = false
	return nil
}

// Send builds the frame and loops it back into this channel's own
// read queue unless a SendHook intercepts it first.
func (m *MockChannel) Send(typ byte, src, dst uint8, payload []byte) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	frame := &protocol.Frame{Version: 1, Type: typ, Src: src, Dst: dst, Payload: cp}

	if m.SendHook != nil {
		m.SendHook(frame)
		return nil
	}
	m.inbound.push(frame)
	return nil
}

// Deliver injects a frame as if it had arrived from the wire, letting
// tests wire two MockChannels together.
func (m *MockChannel) Deliver(frame *protocol.Frame) {
	m.inbound.push(frame)
}

func (m *MockChannel) Read() (*protocol.Frame, bool) {
	return m.inbound.pop()
}
