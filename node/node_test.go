package node

import (
	"context"
	"testing"
	"time"

	"github.com/tayfurcnr/lynk/ack"
	"github.com/tayfurcnr/lynk/command"
	"github.com/tayfurcnr/lynk/config"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/telemetry"
	"github.com/tayfurcnr/lynk/transport"
)

func testConfig(id uint8) *config.Config {
	cfg, err := config.Load([]byte(`{"vehicle":{"id":` + itoa(id) + `}}`))
	if err != nil {
		panic(err)
	}
	return cfg
}

func itoa(v uint8) string {
	if v == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func TestNewWiresEveryFrameType(t *testing.T) {
	cfg := testConfig(1)
	n, err := New(cfg, command.LoggingBridge{}, telemetry.ZeroSource{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n.Router == nil || n.Tracker == nil || n.Cache == nil || n.FTPSender == nil || n.FTPReceiver == nil {
		t.Fatal("expected every component to be wired")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	cfg := testConfig(1)
	n, err := New(cfg, command.LoggingBridge{}, telemetry.ZeroSource{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := n.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := n.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestReaderLoopRoutesAckIntoTracker(t *testing.T) {
	cfg := testConfig(1)
	n, err := New(cfg, command.LoggingBridge{}, telemetry.ZeroSource{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mock, ok := n.Channel.(*transport.MockChannel)
	if !ok {
		t.Fatal("expected a mock channel for MOCK_UART comm_type")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := n.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer n.Stop()

	if err := ack.SendAck(mock, 2, n.LocalID, payload.CmdReboot, true, 0); err != nil {
		t.Fatalf("SendAck: %v", err)
	}

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if outcome, status := n.Tracker.Get(ack.Key("REBOOT"), 2, time.Second); outcome == ack.Ready && status == 0 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("reboot ack was never routed into the tracker")
}

func TestMetricsCollectorIsBuilt(t *testing.T) {
	cfg := testConfig(1)
	n, err := New(cfg, command.LoggingBridge{}, telemetry.ZeroSource{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c := n.MetricsCollector(); c == nil {
		t.Fatal("expected a non-nil collector")
	}
}

func TestReaderLoopRoutesCommandAndRepliesWithAck(t *testing.T) {
	cfg := testConfig(2)
	n, err := New(cfg, command.LoggingBridge{}, telemetry.ZeroSource{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mock, ok := n.Channel.(*transport.MockChannel)
	if !ok {
		t.Fatal("expected a mock channel for MOCK_UART comm_type")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := n.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer n.Stop()

	mock.Deliver(&protocol.Frame{
		Type: protocol.TypeCommand, Src: 9, Dst: n.LocalID,
		Payload: command.BuildReboot(),
	})

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if f, ok := mock.Read(); ok {
			a, err := payload.DecodeAck(f.Payload)
			if err != nil {
				t.Fatalf("DecodeAck: %v", err)
			}
			if !a.IsACK() {
				t.Fatalf("expected an ack, got %+v", a)
			}
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("command frame never produced an ack reply")
}
