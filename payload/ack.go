package payload

import (
	"encoding/binary"
	"errors"
)

// ACK code bytes. NACK has two codes in the wild; this implementation
// emits NACKCode on send and accepts either on receive.
const (
	ACKCode     byte = 0xAA
	NACKCode    byte = 0xFF
	altNACKCode byte = 0x55
)

// FTP phase command IDs, as referenced from an ACK payload's CMD_ID
// field to select the 4-byte status encoding.
const (
	AckCmdFTPStart byte = 0x10
	AckCmdFTPChunk byte = 0x11
	AckCmdFTPEnd   byte = 0x12
)

// ErrShortAck is returned when an ACK payload is shorter than its
// CMD_ID-dependent layout requires.
var ErrShortAck = errors.New("payload: ack payload too short")

// Ack is the decoded result of DecodeAck.
type Ack struct {
	Code   byte // ACKCode or a NACK code
	CmdID  byte
	Status uint32 // 1-byte generic status, or 4-byte FTP status (always widened here)
}

// IsACK reports whether this is a positive acknowledgment.
func (a Ack) IsACK() bool { return a.Code == ACKCode }

// IsFTPPhase reports whether CmdID addresses an FTP phase ACK, which
// carries a 4-byte status field instead of the generic command ACK's
// 1-byte field.
func IsFTPPhase(cmdID byte) bool {
	return cmdID == AckCmdFTPStart || cmdID == AckCmdFTPChunk || cmdID == AckCmdFTPEnd
}

// EncodeGenericAck serializes ACK_CODE | CMD_ID | STATUS(1).
func EncodeGenericAck(ackCode, cmdID byte, status uint32) []byte {
	return []byte{ackCode, cmdID, byte(status)}
}

// EncodeFTPAck serializes ACK_CODE | CMD_ID | STATUS(4, big-endian).
func EncodeFTPAck(ackCode, cmdID byte, status uint32) []byte {
	out := make([]byte, 6)
	out[0] = ackCode
	out[1] = cmdID
	binary.BigEndian.PutUint32(out[2:6], status)
	return out
}

// DecodeAck parses a generic or FTP-phase ACK payload, picking the
// status field width from CmdID per the protocol's fixed CMD_ID
// range.
func DecodeAck(data []byte) (Ack, error) {
	if len(data) < 2 {
		return Ack{}, ErrShortAck
	}
	code := data[0]
	cmdID := data[1]

	if IsFTPPhase(cmdID) {
		if len(data) < 6 {
			return Ack{}, ErrShortAck
		}
		return Ack{Code: code, CmdID: cmdID, Status: binary.BigEndian.Uint32(data[2:6])}, nil
	}

	if len(data) < 3 {
		return Ack{}, ErrShortAck
	}
	return Ack{Code: code, CmdID: cmdID, Status: uint32(data[2])}, nil
}

// IsNACK reports whether code is either accepted NACK code.
func IsNACK(code byte) bool {
	return code == NACKCode || code == altNACKCode
}
