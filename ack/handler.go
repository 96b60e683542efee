package ack

import (
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/transport"
)

// Handler parses inbound A-type frames and registers their outcome
// into a Tracker, keyed by a fixed name for FTP START/END, the acked
// chunk sequence for FTP CHUNK, and the command name for a generic
// command ACK/NACK.
type Handler struct {
	tracker *Tracker
}

func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// Route is a router.Handler.
func (h *Handler) Route(frame *protocol.Frame, ch transport.Channel) {
	a, err := payload.DecodeAck(frame.Payload)
	if err != nil {
		logging.Frame(frame.Type, frame.Src, frame.Dst).WithError(err).Warn("ack: malformed payload")
		return
	}

	if payload.IsFTPPhase(a.CmdID) {
		h.routeFTP(frame.Src, a)
		return
	}

	name, ok := payload.CommandNameByID(a.CmdID)
	if !ok {
		logging.Frame(frame.Type, frame.Src, frame.Dst).WithField("cmd_id", a.CmdID).
			Warn("ack: unrecognized command id")
		return
	}

	status := uint32(0)
	if !a.IsACK() {
		status = a.Status
	}
	h.tracker.Register(name, frame.Src, status)
}

func (h *Handler) routeFTP(src uint8, a payload.Ack) {
	status := uint32(0)
	if !a.IsACK() {
		status = a.Status
	}

	switch a.CmdID {
	case payload.AckCmdFTPStart:
		h.tracker.Register(FTPStartKey, src, status)
	case payload.AckCmdFTPEnd:
		h.tracker.Register(FTPEndKey, src, status)
	case payload.AckCmdFTPChunk:
		h.tracker.Register(FTPChunkKey(a.Status), src, status)
	}
}
