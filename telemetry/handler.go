// Package telemetry wires inbound telemetry frames into the node's
// telemetry cache and builds outbound telemetry frames for the
// emitter loop.
package telemetry

import (
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/telemetrycache"
	"github.com/tayfurcnr/lynk/transport"
)

// Handler decodes inbound telemetry frames and records them in a
// Cache. Telemetry carries no ACK/NACK - it is fire-and-forget.
type Handler struct {
	cache *telemetrycache.Cache
}

func New(cache *telemetrycache.Cache) *Handler {
	return &Handler{cache: cache}
}

// Route is a router.Handler.
func (h *Handler) Route(frame *protocol.Frame, ch transport.Channel) {
	t, err := payload.DecodeTelemetry(frame.Payload)
	if err != nil {
		logging.Frame(frame.Type, frame.Src, frame.Dst).WithError(err).Warn("telemetry: malformed payload")
		return
	}
	h.cache.Put(frame.Src, t)
}

// EncodeGPS, EncodeIMU, EncodeBattery, and EncodeHeartbeat build
// ready-to-send telemetry payloads for the node's periodic emitter.

func EncodeGPS(v payload.Vec3) []byte {
	return payload.EncodeTelemetry(payload.Telemetry{Kind: payload.KindGPS, GPS: &v})
}

func EncodeIMU(v payload.Vec3) []byte {
	return payload.EncodeTelemetry(payload.Telemetry{Kind: payload.KindIMU, IMU: &v})
}

func EncodeBattery(v payload.Vec3) []byte {
	return payload.EncodeTelemetry(payload.Telemetry{Kind: payload.KindBattery, Battery: &v})
}

func EncodeHeartbeat(hb payload.Heartbeat) []byte {
	return payload.EncodeTelemetry(payload.Telemetry{Kind: payload.KindHeartbeat, Heartbeat: &hb})
}
