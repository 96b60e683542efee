package command

import "github.com/tayfurcnr/lynk/payload"

// The Build* functions assemble command payloads for a sender (the
// interactive CLI or a peer node) to wrap in a TypeCommand frame via
// protocol.Codec.Encode. They are the send-side mirror of
// payload.DecodeCommand.

func BuildReboot() []byte {
	return payload.EncodeCommand(payload.Reboot{})
}

func BuildSetMode(mode uint8) []byte {
	return payload.EncodeCommand(payload.SetMode{Mode: mode})
}

func BuildTakeoff(alt float32) []byte {
	return payload.EncodeCommand(payload.Takeoff{Alt: alt})
}

func BuildTakeoffTargeted(alt, lat, lon, altTarget float32) []byte {
	return payload.EncodeCommand(payload.Takeoff{
		Targeted: true, Alt: alt, Lat: lat, Lon: lon, AltTgt: altTarget,
	})
}

func BuildLanding() []byte {
	return payload.EncodeCommand(payload.Landing{})
}

func BuildLandingTargeted(lat, lon float32) []byte {
	return payload.EncodeCommand(payload.Landing{Targeted: true, Lat: lat, Lon: lon})
}

func BuildGimbal(pitch, yaw, roll float32) []byte {
	return payload.EncodeCommand(payload.Gimbal{Pitch: pitch, Yaw: yaw, Roll: roll})
}

func BuildGoto(x, y, z float32) []byte {
	return payload.EncodeCommand(payload.Goto{X: x, Y: y, Z: z})
}

func BuildFollowMe(id uint32) []byte {
	return payload.EncodeCommand(payload.FollowMe{ID: id})
}

func BuildFollowMeWithAlt(id uint32, alt float32) []byte {
	return payload.EncodeCommand(payload.FollowMe{ID: id, HasAlt: true, Alt: alt})
}

func BuildWaypoints(points []payload.Vec3) []byte {
	return payload.EncodeCommand(payload.Waypoints{Points: points})
}
