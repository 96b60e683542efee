package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/tayfurcnr/lynk/ack"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/router"
	"github.com/tayfurcnr/lynk/transport"
)

func collectAll(t *testing.T, c *Collector) map[string]*dto.Metric {
	t.Helper()
	ch := make(chan prometheus.Metric, 32)
	c.Collect(ch)
	close(ch)

	out := make(map[string]*dto.Metric)
	for m := range ch {
		var dtoM dto.Metric
		if err := m.Write(&dtoM); err != nil {
			t.Fatalf("Write: %v", err)
		}
		out[m.Desc().String()] = &dtoM
	}
	return out
}

func TestCollectReportsRouterAndTrackerCounters(t *testing.T) {
	tracker := ack.New()
	tracker.Register("TAKEOFF", 2, 0)

	r := router.New(1)
	r.Handle(protocol.TypeCommand, func(*protocol.Frame, transport.Channel) {})
	ch := transport.NewMockChannel()
	r.Route(&protocol.Frame{Type: protocol.TypeCommand, Src: 2, Dst: 1}, ch)

	c := New("lynk", prometheus.Labels{"vehicle": "1"}, tracker, r)

	metrics := collectAll(t, c)
	if len(metrics) == 0 {
		t.Fatal("expected at least one metric")
	}

	var foundRouted, foundEntries bool
	for desc, m := range metrics {
		switch {
		case contains(desc, "router_routed_total"):
			foundRouted = true
			if m.GetCounter().GetValue() != 1 {
				t.Fatalf("got router_routed_total=%v, want 1", m.GetCounter().GetValue())
			}
		case contains(desc, "ack_tracker_entries"):
			foundEntries = true
			if m.GetGauge().GetValue() != 1 {
				t.Fatalf("got ack_tracker_entries=%v, want 1", m.GetGauge().GetValue())
			}
		}
	}
	if !foundRouted || !foundEntries {
		t.Fatalf("missing expected metrics: routed=%v entries=%v", foundRouted, foundEntries)
	}
}

func TestCollectOmitsFTPMetricsWhenNoSourceAttached(t *testing.T) {
	c := New("lynk", nil, ack.New(), router.New(1))
	metrics := collectAll(t, c)
	for desc := range metrics {
		if contains(desc, "ftp_") {
			t.Fatalf("did not expect ftp metrics without a sender/receiver source: %s", desc)
		}
	}
}

func TestCollectIncludesFTPMetricsWhenSenderAttached(t *testing.T) {
	c := New("lynk", nil, ack.New(), router.New(1), WithSender(func() SenderStats {
		return SenderStats{ChunksSent: 7, BytesSent: 700}
	}))

	metrics := collectAll(t, c)
	var found bool
	for desc, m := range metrics {
		if contains(desc, "ftp_chunks_sent_total") {
			found = true
			if m.GetCounter().GetValue() != 7 {
				t.Fatalf("got ftp_chunks_sent_total=%v, want 7", m.GetCounter().GetValue())
			}
		}
	}
	if !found {
		t.Fatal("expected ftp_chunks_sent_total to be present")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
