package payload

import "testing"

func TestTelemetryGPSRoundTrip(t *testing.T) {
	in := Telemetry{Kind: KindGPS, GPS: &Vec3{X: 1.5, Y: -2.25, Z: 100}}
	out, err := DecodeTelemetry(EncodeTelemetry(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Kind != KindGPS || *out.GPS != *in.GPS {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestTelemetryHeartbeatRoundTrip(t *testing.T) {
	in := Telemetry{Kind: KindHeartbeat, Heartbeat: &Heartbeat{
		Mode: "AUTO", Health: "OK", Armed: true, GPSFix: true, SatCount: 9,
	}}
	out, err := DecodeTelemetry(EncodeTelemetry(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *out.Heartbeat != *in.Heartbeat {
		t.Fatalf("round trip mismatch: %+v", out.Heartbeat)
	}
}

func TestTelemetryUnknownKind(t *testing.T) {
	_, err := DecodeTelemetry([]byte{0x99, 1, 2, 3})
	if err != ErrUnknownTelemetryKind {
		t.Fatalf("got %v, want ErrUnknownTelemetryKind", err)
	}
}

func TestTelemetryShort(t *testing.T) {
	_, err := DecodeTelemetry([]byte{byte(KindGPS), 1, 2})
	if err != ErrShortTelemetry {
		t.Fatalf("got %v, want ErrShortTelemetry", err)
	}
}
