package command

import (
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/status"
)

// LoggingBridge is the default Bridge: it accepts every command,
// logs it, and reports status.Success. It's what a node runs with
// until a real flight-control integration is plugged in.
type LoggingBridge struct{}

func (LoggingBridge) Reboot() status.Code {
	logging.Log.Info("bridge: reboot requested")
	return status.Success
}

func (LoggingBridge) SetMode(mode uint8) status.Code {
	logging.Log.WithField("mode", mode).Info("bridge: set_mode requested")
	return status.Success
}

func (LoggingBridge) Takeoff(cmd payload.Takeoff) status.Code {
	logging.Log.WithFields(map[string]interface{}{
		"alt": cmd.Alt, "targeted": cmd.Targeted, "lat": cmd.Lat, "lon": cmd.Lon, "alt_target": cmd.AltTgt,
	}).Info("bridge: takeoff requested")
	return status.Success
}

func (LoggingBridge) Landing(cmd payload.Landing) status.Code {
	logging.Log.WithFields(map[string]interface{}{
		"targeted": cmd.Targeted, "lat": cmd.Lat, "lon": cmd.Lon,
	}).Info("bridge: landing requested")
	return status.Success
}

func (LoggingBridge) Gimbal(cmd payload.Gimbal) status.Code {
	logging.Log.WithFields(map[string]interface{}{
		"pitch": cmd.Pitch, "yaw": cmd.Yaw, "roll": cmd.Roll,
	}).Info("bridge: gimbal requested")
	return status.Success
}

func (LoggingBridge) Goto(cmd payload.Goto) status.Code {
	logging.Log.WithFields(map[string]interface{}{
		"x": cmd.X, "y": cmd.Y, "z": cmd.Z,
	}).Info("bridge: goto requested")
	return status.Success
}

func (LoggingBridge) FollowMe(cmd payload.FollowMe) status.Code {
	logging.Log.WithFields(map[string]interface{}{
		"id": cmd.ID, "has_alt": cmd.HasAlt, "alt": cmd.Alt,
	}).Info("bridge: follow_me requested")
	return status.Success
}

func (LoggingBridge) Waypoints(cmd payload.Waypoints) status.Code {
	logging.Log.WithField("count", len(cmd.Points)).Info("bridge: waypoints requested")
	return status.Success
}
