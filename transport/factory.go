package transport

import (
	"fmt"
	"time"

	"github.com/tayfurcnr/lynk/config"
	"github.com/tayfurcnr/lynk/protocol"
)

// New builds the Channel selected by cfg.Iface.CommType. It does not
// call Start; the caller controls the channel's lifecycle.
func New(cfg *config.Config, codec *protocol.Codec) (Channel, error) {
	switch cfg.Iface.CommType {
	case config.CommUART:
		timeout := time.Duration(cfg.UART.Timeout) * time.Millisecond
		return NewSerialChannel(cfg.UART.Port, cfg.UART.Baudrate, timeout, codec), nil

	case config.CommUDP:
		return NewUDPChannel(
			cfg.UDP.LocalIP, cfg.UDP.LocalPort,
			cfg.UDP.RemoteIP, cfg.UDP.RemotePort,
			cfg.UDP.Multicast, codec,
		), nil

	case config.CommMockUART:
		return NewMockChannel(), nil

	default:
		return nil, fmt.Errorf("transport: unknown comm_type %q", cfg.Iface.CommType)
	}
}
