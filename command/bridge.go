// Package command turns decoded command frames into a single ACK or
// NACK reply, the mesh-protocol equivalent of core.CommandRegistry's
// dispatch-and-respond loop: decode, validate, hand off to whatever
// actually flies the vehicle, then answer exactly once.
package command

import (
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/status"
)

// Bridge is the vehicle autopilot interface a node plugs in to
// actually execute a command. The real flight-control bridge is out
// of scope for this runtime; Bridge exists so the command handler has
// a stable seam to call through, and so tests and the reference
// LoggingBridge can stand in for it.
type Bridge interface {
	Reboot() status.Code
	SetMode(mode uint8) status.Code
	Takeoff(cmd payload.Takeoff) status.Code
	Landing(cmd payload.Landing) status.Code
	Gimbal(cmd payload.Gimbal) status.Code
	Goto(cmd payload.Goto) status.Code
	FollowMe(cmd payload.FollowMe) status.Code
	Waypoints(cmd payload.Waypoints) status.Code
}
