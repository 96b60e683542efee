package command

import (
	"github.com/tayfurcnr/lynk/ack"
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/status"
	"github.com/tayfurcnr/lynk/transport"
)

// Handler decodes a command frame's payload, executes it against a
// Bridge, and sends exactly one ACK or NACK frame back to the
// originator - per the one-reply-per-command invariant.
type Handler struct {
	localID uint8
	bridge  Bridge
}

// New returns a command Handler for the given node address, executing
// accepted commands against bridge.
func New(localID uint8, bridge Bridge) *Handler {
	return &Handler{localID: localID, bridge: bridge}
}

// Route is a router.Handler: it satisfies the frame-type dispatch
// table's function signature directly.
func (h *Handler) Route(frame *protocol.Frame, ch transport.Channel) {
	log := logging.Frame(frame.Type, frame.Src, frame.Dst)

	cmd, err := payload.DecodeCommand(frame.Payload)
	if err != nil {
		log.WithError(err).Warn("command: malformed payload")
		h.reply(ch, frame.Src, 0, status.InvalidParams)
		return
	}

	if unk, ok := cmd.(payload.Unknown); ok {
		log.WithField("cmd_id", unk.ID).Warn("command: unsupported command id")
		h.reply(ch, frame.Src, unk.ID, status.Unsupported)
		return
	}

	cmdID := payload.CmdID(cmd)
	code := h.execute(cmd)
	log.WithFields(map[string]interface{}{"command": cmd.Name(), "status": code.String()}).Info("command: executed")
	h.reply(ch, frame.Src, cmdID, code)
}

func (h *Handler) execute(cmd payload.Command) status.Code {
	switch c := cmd.(type) {
	case payload.Reboot:
		return h.bridge.Reboot()
	case payload.SetMode:
		return h.bridge.SetMode(c.Mode)
	case payload.Takeoff:
		return h.bridge.Takeoff(c)
	case payload.Landing:
		return h.bridge.Landing(c)
	case payload.Gimbal:
		return h.bridge.Gimbal(c)
	case payload.Goto:
		return h.bridge.Goto(c)
	case payload.FollowMe:
		return h.bridge.FollowMe(c)
	case payload.Waypoints:
		return h.bridge.Waypoints(c)
	default:
		return status.Exception
	}
}

// reply sends exactly one generic ACK/NACK frame. status.Success
// produces an ACK; anything else produces a NACK carrying the status
// code that explains why.
func (h *Handler) reply(ch transport.Channel, dst uint8, cmdID byte, code status.Code) {
	success := code == status.Success
	if err := ack.SendAck(ch, h.localID, dst, cmdID, success, uint32(code)); err != nil {
		logging.Log.WithError(err).Warn("command: failed to send ack")
	}
}
