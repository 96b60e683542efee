package ack

import (
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/transport"
)

// SendAck emits a generic A-type frame: ACKCode if success, NACKCode
// carrying status otherwise.
func SendAck(ch transport.Channel, localID, dst uint8, cmdID byte, success bool, status uint32) error {
	code := payload.ACKCode
	st := uint32(0)
	if !success {
		code = payload.NACKCode
		st = status
	}
	body := payload.EncodeGenericAck(code, cmdID, st)
	return ch.Send(protocol.TypeAck, localID, dst, body)
}

// SendFTPAck emits an FTP-phase A-type frame. phase must be one of
// payload.AckCmdFTPStart/Chunk/End. seq is the chunk sequence for a
// CHUNK-phase ack and is ignored (sent as 0) for START/END.
func SendFTPAck(ch transport.Channel, localID, dst uint8, phase byte, success bool, seq uint32) error {
	code := payload.ACKCode
	status := seq
	if phase != payload.AckCmdFTPChunk {
		status = 0
	}
	if !success {
		code = payload.NACKCode
		if phase == payload.AckCmdFTPChunk {
			status = seq
		}
	}
	body := payload.EncodeFTPAck(code, phase, status)
	return ch.Send(protocol.TypeAck, localID, dst, body)
}
