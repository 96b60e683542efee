package transport

import "github.com/tayfurcnr/lynk/protocol"

// frameQueue is the thread-safe, non-blocking inbound queue every
// concrete Channel embeds: a bounded ring of pending items, sized in
// decoded frames rather than bytes since reassembly already happened
// by the time a frame is queued here.
type frameQueue struct {
	ch chan *protocol.Frame
}

func newFrameQueue(capacity int) *frameQueue {
	return &frameQueue{ch: make(chan *protocol.Frame, capacity)}
}

// push enqueues a frame, dropping the oldest queued frame if full
// rather than blocking the feeder (a slow consumer must not wedge the
// reader goroutine).
func (q *frameQueue) push(frame *protocol.Frame) {
	select {
	case q.ch <- frame:
	default:
		select {
		case <-q.ch:
		default:
		}
		select {
		case q.ch <- frame:
		default:
		}
	}
}

// pop returns the next queued frame without blocking.
func (q *frameQueue) pop() (*protocol.Frame, bool) {
	select {
	case frame := <-q.ch:
		return frame, true
	default:
		return nil, false
	}
}
