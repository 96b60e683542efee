// Package payload implements the typed wire codecs for the bodies
// carried inside protocol.Frame payloads: telemetry, commands, FTP
// phases, ACKs, and swarm tasks.
package payload

import (
	"encoding/binary"
	"errors"
	"math"
)

// TelemetryKind is the one-byte tag leading every telemetry payload.
type TelemetryKind byte

const (
	KindGPS       TelemetryKind = 0x01
	KindIMU       TelemetryKind = 0x02
	KindBattery   TelemetryKind = 0x03
	KindHeartbeat TelemetryKind = 0x04
)

// ErrUnknownTelemetryKind is returned by DecodeTelemetry for an
// unrecognised leading tag.
var ErrUnknownTelemetryKind = errors.New("payload: unknown telemetry kind")

// ErrShortTelemetry is returned when the payload is shorter than its
// kind-specific fixed layout requires.
var ErrShortTelemetry = errors.New("payload: telemetry payload too short")

// Telemetry is the decoded result of DecodeTelemetry: exactly one of
// the typed fields below is non-nil, matching Kind.
type Telemetry struct {
	Kind      TelemetryKind
	GPS       *Vec3
	IMU       *Vec3
	Battery   *Vec3
	Heartbeat *Heartbeat
}

// Vec3 is three big-endian float32 fields, the common shape of GPS,
// IMU, and BATTERY telemetry.
type Vec3 struct {
	X, Y, Z float32
}

// Heartbeat carries vehicle mode/health text fields and armed/fix/sat
// status.
type Heartbeat struct {
	Mode     string
	Health   string
	Armed    bool
	GPSFix   bool
	SatCount uint8
}

const heartbeatFieldLen = 32

// EncodeVec3 serializes v as three big-endian float32s.
func EncodeVec3(v Vec3) []byte {
	out := make([]byte, 12)
	binary.BigEndian.PutUint32(out[0:4], math.Float32bits(v.X))
	binary.BigEndian.PutUint32(out[4:8], math.Float32bits(v.Y))
	binary.BigEndian.PutUint32(out[8:12], math.Float32bits(v.Z))
	return out
}

func decodeVec3(b []byte) (Vec3, error) {
	if len(b) < 12 {
		return Vec3{}, ErrShortTelemetry
	}
	return Vec3{
		X: math.Float32frombits(binary.BigEndian.Uint32(b[0:4])),
		Y: math.Float32frombits(binary.BigEndian.Uint32(b[4:8])),
		Z: math.Float32frombits(binary.BigEndian.Uint32(b[8:12])),
	}, nil
}

// EncodeHeartbeat serializes h as two 32-byte zero-padded text fields
// followed by armed, gps_fix, and sat_count.
func EncodeHeartbeat(h Heartbeat) []byte {
	out := make([]byte, heartbeatFieldLen*2+3)
	copy(out[0:heartbeatFieldLen], h.Mode)
	copy(out[heartbeatFieldLen:heartbeatFieldLen*2], h.Health)
	out[heartbeatFieldLen*2] = boolByte(h.Armed)
	out[heartbeatFieldLen*2+1] = boolByte(h.GPSFix)
	out[heartbeatFieldLen*2+2] = h.SatCount
	return out
}

func decodeHeartbeat(b []byte) (Heartbeat, error) {
	if len(b) < heartbeatFieldLen*2+3 {
		return Heartbeat{}, ErrShortTelemetry
	}
	return Heartbeat{
		Mode:     trimZero(b[0:heartbeatFieldLen]),
		Health:   trimZero(b[heartbeatFieldLen : heartbeatFieldLen*2]),
		Armed:    b[heartbeatFieldLen*2] != 0,
		GPSFix:   b[heartbeatFieldLen*2+1] != 0,
		SatCount: b[heartbeatFieldLen*2+2],
	}, nil
}

// EncodeTelemetry serializes t with its leading kind tag.
func EncodeTelemetry(t Telemetry) []byte {
	var body []byte
	switch t.Kind {
	case KindGPS:
		body = EncodeVec3(*t.GPS)
	case KindIMU:
		body = EncodeVec3(*t.IMU)
	case KindBattery:
		body = EncodeVec3(*t.Battery)
	case KindHeartbeat:
		body = EncodeHeartbeat(*t.Heartbeat)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(t.Kind))
	return append(out, body...)
}

// DecodeTelemetry reads the leading kind tag and dispatches to the
// kind-specific fixed-layout decoder.
func DecodeTelemetry(data []byte) (Telemetry, error) {
	if len(data) < 1 {
		return Telemetry{}, ErrShortTelemetry
	}
	kind := TelemetryKind(data[0])
	body := data[1:]

	switch kind {
	case KindGPS:
		v, err := decodeVec3(body)
		if err != nil {
			return Telemetry{}, err
		}
		return Telemetry{Kind: kind, GPS: &v}, nil
	case KindIMU:
		v, err := decodeVec3(body)
		if err != nil {
			return Telemetry{}, err
		}
		return Telemetry{Kind: kind, IMU: &v}, nil
	case KindBattery:
		v, err := decodeVec3(body)
		if err != nil {
			return Telemetry{}, err
		}
		return Telemetry{Kind: kind, Battery: &v}, nil
	case KindHeartbeat:
		h, err := decodeHeartbeat(body)
		if err != nil {
			return Telemetry{}, err
		}
		return Telemetry{Kind: kind, Heartbeat: &h}, nil
	default:
		return Telemetry{}, ErrUnknownTelemetryKind
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func trimZero(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
