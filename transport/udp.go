package transport

import (
	"fmt"
	"net"
	"sync"

	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/protocol"
)

// UDPChannel is the datagram Channel variant: unicast or multicast,
// selected by whether config.UDP.Multicast is set. Unlike serial, a
// UDP read already returns exactly one datagram, so no Framer is
// needed - each datagram is decoded as a single frame, and a failed
// decode is simply dropped (grounded on the same decode-or-drop
// handling the reference clientudp implementation in the pack uses
// for corrupt segments).
type UDPChannel struct {
	localAddr  string
	remoteAddr string
	multicast  bool
	codec      *protocol.Codec

	mu      sync.Mutex
	conn    *net.UDPConn
	remote  *net.UDPAddr
	inbound *frameQueue
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewUDPChannel builds a channel bound to localIP:localPort, sending
// to remoteIP:remotePort. When multicast is true, localIP is treated
// as a multicast group address and the channel joins it.
func NewUDPChannel(localIP string, localPort int, remoteIP string, remotePort int, multicast bool, codec *protocol.Codec) *UDPChannel {
	return &UDPChannel{
		localAddr:  fmt.Sprintf("%s:%d", localIP, localPort),
		remoteAddr: fmt.Sprintf("%s:%d", remoteIP, remotePort),
		multicast:  multicast,
		codec:      codec,
		inbound:    newFrameQueue(256),
	}
}

func (u *UDPChannel) Start() error {
	laddr, err := net.ResolveUDPAddr("udp", u.localAddr)
	if err != nil {
		return fmt.Errorf("transport: resolve local addr %s: %w", u.localAddr, err)
	}

	var conn *net.UDPConn
	if u.multicast {
		conn, err = net.ListenMulticastUDP("udp", nil, laddr)
	} else {
		conn, err = net.ListenUDP("udp", laddr)
	}
	if err != nil {
		return fmt.Errorf("transport: listen udp %s: %w", u.localAddr, err)
	}

	raddr, err := net.ResolveUDPAddr("udp", u.remoteAddr)
	if err != nil {
		conn.Close()
		return fmt.Errorf("transport: resolve remote addr %s: %w", u.remoteAddr, err)
	}

	u.mu.Lock()
	u.conn = conn
	u.remote = raddr
	u.done = make(chan struct{})
	u.mu.Unlock()

	u.wg.Add(1)
	go u.readLoop()

	return nil
}

func (u *UDPChannel) Stop() error {
	u.mu.Lock()
	conn := u.conn
	done := u.done
	u.mu.Unlock()

	if done != nil {
		close(done)
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			return fmt.Errorf("transport: close udp socket: %w", err)
		}
	}
	u.wg.Wait()
	return nil
}

func (u *UDPChannel) Send(typ byte, src, dst uint8, payload []byte) error {
	u.mu.Lock()
	conn := u.conn
	raddr := u.remote
	u.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("transport: udp channel not started")
	}

	frame, err := u.codec.Encode(typ, src, dst, payload)
	if err != nil {
		return fmt.Errorf("transport: encode frame: %w", err)
	}
	if _, err := conn.WriteToUDP(frame, raddr); err != nil {
		logging.Log.WithError(err).Warn("udp write failed")
		return err
	}
	return nil
}

func (u *UDPChannel) Read() (*protocol.Frame, bool) {
	return u.inbound.pop()
}

func (u *UDPChannel) readLoop() {
	defer u.wg.Done()

	buf := make([]byte, 2048)
	for {
		select {
		case <-u.done:
			return
		default:
		}

		n, _, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-u.done:
				return
			default:
				continue
			}
		}
		if n == 0 {
			continue
		}

		frame, err := u.codec.Decode(buf[:n])
		if err != nil {
			logging.Log.WithError(err).Debug("dropping undecodable udp datagram")
			continue
		}
		u.inbound.push(frame)
	}
}
