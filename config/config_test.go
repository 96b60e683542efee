package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load([]byte(`{"vehicle": {"id": 3}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Vehicle.ID != 3 {
		t.Fatalf("got id %d, want 3", cfg.Vehicle.ID)
	}
	if cfg.Protocol.StartByte != 0x7E || cfg.Protocol.TerminalByte != 0x7F || cfg.Protocol.Version != 1 {
		t.Fatalf("unexpected protocol defaults: %+v", cfg.Protocol)
	}
	if cfg.FileXfer.PacketSize != 200 || cfg.FileXfer.MaxRetries != 5 {
		t.Fatalf("unexpected file_transfer defaults: %+v", cfg.FileXfer)
	}
	if cfg.Iface.CommType != CommMockUART {
		t.Fatalf("got comm_type %q, want default MOCK_UART", cfg.Iface.CommType)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, err := Load([]byte(`{`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRejectsUARTWithoutPort(t *testing.T) {
	_, err := Load([]byte(`{"vehicle":{"id":1},"interface":{"comm_type":"UART"}}`))
	if err == nil {
		t.Fatal("expected validation error for missing uart.port")
	}
}

func TestLoadRejectsUnknownCommType(t *testing.T) {
	_, err := Load([]byte(`{"vehicle":{"id":1},"interface":{"comm_type":"CARRIER_PIGEON"}}`))
	if err == nil {
		t.Fatal("expected validation error for unknown comm_type")
	}
}

func TestLoadAcceptsConfiguredUDP(t *testing.T) {
	cfg, err := Load([]byte(`{"vehicle":{"id":1},"interface":{"comm_type":"UDP"},"udp":{"local_port":9000}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UDP.LocalPort != 9000 {
		t.Fatalf("got %d", cfg.UDP.LocalPort)
	}
}
