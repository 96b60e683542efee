package telemetry

import (
	"context"
	"time"

	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/transport"
)

// Emitter periodically broadcasts GPS, IMU, BATTERY, and HEARTBEAT
// samples pulled from a Source, at a 1-second default cadence.
type Emitter struct {
	localID  uint8
	source   Source
	interval time.Duration
}

// NewEmitter returns an Emitter broadcasting at interval (the 1 s
// default applies when interval is zero).
func NewEmitter(localID uint8, source Source, interval time.Duration) *Emitter {
	if interval <= 0 {
		interval = time.Second
	}
	return &Emitter{localID: localID, source: source, interval: interval}
}

// Run broadcasts one round of telemetry every tick until ctx is
// cancelled. It's meant to run in its own goroutine alongside the
// node's reader loop.
func (e *Emitter) Run(ctx context.Context, ch transport.Channel) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.broadcastOnce(ch)
		}
	}
}

func (e *Emitter) broadcastOnce(ch transport.Channel) {
	samples := []struct {
		name string
		body []byte
	}{
		{"gps", EncodeGPS(e.source.GPS())},
		{"imu", EncodeIMU(e.source.IMU())},
		{"battery", EncodeBattery(e.source.Battery())},
		{"heartbeat", EncodeHeartbeat(e.source.Heartbeat())},
	}

	for _, s := range samples {
		if err := ch.Send(protocol.TypeTelemetry, e.localID, protocol.Broadcast, s.body); err != nil {
			logging.Log.WithError(err).WithField("sample", s.name).Warn("telemetry: broadcast failed")
		}
	}
}
