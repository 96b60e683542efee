// Package config loads the node's JSON configuration, following a
// LoadConfig + applyDefaults shape adapted from stepper/axis machine
// config to mesh node config.
package config

import (
	"encoding/json"
	"fmt"
)

// Config is the complete node configuration.
type Config struct {
	Vehicle  Vehicle      `json:"vehicle"`
	Protocol Protocol     `json:"protocol"`
	Iface    Interface    `json:"interface"`
	UART     UART         `json:"uart"`
	UDP      UDP          `json:"udp"`
	FileXfer FileTransfer `json:"file_transfer"`
	Logging  Logging      `json:"logging"`
	Metrics  Metrics      `json:"metrics"`
}

type Vehicle struct {
	ID uint8 `json:"id"`
}

type Protocol struct {
	StartByte    uint8 `json:"start_byte"`
	StartByte2   uint8 `json:"start_byte_2"`
	TerminalByte uint8 `json:"terminal_byte"`
	Version      uint8 `json:"version"`
}

// CommType is interface.comm_type.
type CommType string

const (
	CommUART     CommType = "UART"
	CommUDP      CommType = "UDP"
	CommMockUART CommType = "MOCK_UART"
)

type Interface struct {
	CommType CommType `json:"comm_type"`
}

type UART struct {
	Port     string `json:"port"`
	Baudrate int    `json:"baudrate"`
	Timeout  int    `json:"timeout"` // milliseconds
}

type UDP struct {
	LocalIP    string `json:"local_ip"`
	LocalPort  int    `json:"local_port"`
	RemoteIP   string `json:"remote_ip"`
	RemotePort int    `json:"remote_port"`
	Multicast  bool   `json:"multicast"`
}

type FileTransfer struct {
	PacketSize  int    `json:"packet_size"`
	TimeoutMs   int    `json:"timeout_ms"`
	MaxRetries  int    `json:"max_retries"`
	DownloadDir string `json:"download_dir"`
}

type Logging struct {
	Enabled      bool   `json:"enabled"`
	Level        string `json:"level"`
	WriteToFile  bool   `json:"write_to_file"`
	ClearOnStart bool   `json:"clear_on_start"`
}

// Metrics controls the optional Prometheus exposition endpoint.
type Metrics struct {
	Enabled bool   `json:"enabled"`
	Listen  string `json:"listen"`
}

// Load parses JSON configuration data, applies defaults for any
// optional field left unset, and validates the required fields;
// configuration errors are fatal at startup.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Protocol.StartByte == 0 {
		cfg.Protocol.StartByte = 0x7E
	}
	if cfg.Protocol.TerminalByte == 0 {
		cfg.Protocol.TerminalByte = 0x7F
	}
	if cfg.Protocol.Version == 0 {
		cfg.Protocol.Version = 1
	}
	if cfg.Iface.CommType == "" {
		cfg.Iface.CommType = CommMockUART
	}
	if cfg.UART.Baudrate == 0 {
		cfg.UART.Baudrate = 57600
	}
	if cfg.UART.Timeout == 0 {
		cfg.UART.Timeout = 100
	}
	if cfg.FileXfer.PacketSize == 0 {
		cfg.FileXfer.PacketSize = 200
	}
	if cfg.FileXfer.TimeoutMs == 0 {
		cfg.FileXfer.TimeoutMs = 2000
	}
	if cfg.FileXfer.MaxRetries == 0 {
		cfg.FileXfer.MaxRetries = 5
	}
	if cfg.FileXfer.DownloadDir == "" {
		cfg.FileXfer.DownloadDir = "downloads"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9644"
	}
}

// validate checks the configuration keys that are fatal at startup
// when missing. vehicle.id is an explicit u8 field so there's
// no "missing" state distinguishable from 0 - a 0 id is accepted, as
// 0 is a valid node address distinct from the 0xFF broadcast address.
func validate(cfg *Config) error {
	switch cfg.Iface.CommType {
	case CommUART, CommUDP, CommMockUART:
	default:
		return fmt.Errorf("config: unknown interface.comm_type %q", cfg.Iface.CommType)
	}

	if cfg.Iface.CommType == CommUART && cfg.UART.Port == "" {
		return fmt.Errorf("config: uart.port is required for interface.comm_type=UART")
	}

	if cfg.Iface.CommType == CommUDP {
		if cfg.UDP.LocalPort == 0 {
			return fmt.Errorf("config: udp.local_port is required for interface.comm_type=UDP")
		}
	}

	return nil
}
