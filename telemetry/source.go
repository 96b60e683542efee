package telemetry

import "github.com/tayfurcnr/lynk/payload"

// Source supplies the samples the periodic emitter broadcasts. The
// real sensor/autopilot integration is out of scope for this runtime,
// the same seam as command.Bridge: Source exists so the emitter has a
// stable interface to poll, and tests or a future integration can
// stand in for it.
type Source interface {
	GPS() payload.Vec3
	IMU() payload.Vec3
	Battery() payload.Vec3
	Heartbeat() payload.Heartbeat
}

// ZeroSource is the default Source: it reports a stationary, healthy
// vehicle with zeroed vectors. It's what a node emits until a real
// sensor integration is plugged in.
type ZeroSource struct {
	Mode   string
	Health string
}

func (z ZeroSource) GPS() payload.Vec3     { return payload.Vec3{} }
func (z ZeroSource) IMU() payload.Vec3     { return payload.Vec3{} }
func (z ZeroSource) Battery() payload.Vec3 { return payload.Vec3{} }

func (z ZeroSource) Heartbeat() payload.Heartbeat {
	mode, health := z.Mode, z.Health
	if mode == "" {
		mode = "IDLE"
	}
	if health == "" {
		health = "OK"
	}
	return payload.Heartbeat{Mode: mode, Health: health, Armed: false, GPSFix: false, SatCount: 0}
}
