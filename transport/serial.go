package transport

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/protocol"
)

// SerialChannel is the UART Channel variant: open the port through
// github.com/tarm/serial, then run a reader goroutine that feeds raw
// bytes through a protocol.Framer so callers only ever see complete,
// CRC-checked frames.
type SerialChannel struct {
	port    string
	baud    int
	timeout time.Duration
	codec   *protocol.Codec

	mu     sync.Mutex
	conn   io.ReadWriteCloser
	framer *protocol.Framer

	inbound *frameQueue
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSerialChannel builds a channel bound to the given device; codec
// carries the configured start/terminal/version bytes so the framer
// and the outbound encoder agree on the wire envelope.
func NewSerialChannel(port string, baud int, timeout time.Duration, codec *protocol.Codec) *SerialChannel {
	return &SerialChannel{
		port:    port,
		baud:    baud,
		timeout: timeout,
		codec:   codec,
		inbound: newFrameQueue(256),
	}
}

func (s *SerialChannel) Start() error {
	cfg := &serial.Config{
		Name:        s.port,
		Baud:        s.baud,
		ReadTimeout: s.timeout,
	}
	conn, err := serial.OpenPort(cfg)
	if err != nil {
		return fmt.Errorf("transport: open serial port %s: %w", s.port, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.framer = protocol.NewFramer(s.codec, 0)
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.readLoop()

	return nil
}

func (s *SerialChannel) Stop() error {
	s.mu.Lock()
	conn := s.conn
	done := s.done
	s.mu.Unlock()

	if done != nil {
		close(done)
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			return fmt.Errorf("transport: close serial port: %w", err)
		}
	}
	s.wg.Wait()
	return nil
}

func (s *SerialChannel) Send(typ byte, src, dst uint8, payload []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("transport: serial channel not started")
	}

	frame, err := s.codec.Encode(typ, src, dst, payload)
	if err != nil {
		return fmt.Errorf("transport: encode frame: %w", err)
	}
	if _, err := conn.Write(frame); err != nil {
		logging.Log.WithError(err).Warn("serial write failed")
		return err
	}
	return nil
}

func (s *SerialChannel) Read() (*protocol.Frame, bool) {
	return s.inbound.pop()
}

func (s *SerialChannel) readLoop() {
	defer s.wg.Done()

	buf := make([]byte, 512)
	for {
		select {
		case <-s.done:
			return
		default:
		}

		n, err := s.conn.Read(buf)
		if err != nil {
			if err == io.EOF {
				return
			}
			// Read timeouts surface as errors on some platforms; treat
			// them as empty reads rather than tearing down the loop.
			continue
		}
		if n == 0 {
			continue
		}

		s.mu.Lock()
		s.framer.Push(buf[:n])
		for {
			frame, ok := s.framer.Next()
			if !ok {
				break
			}
			s.inbound.push(frame)
		}
		s.mu.Unlock()
	}
}
