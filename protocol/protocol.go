// Package protocol implements the LYNK mesh wire envelope: a fixed
// ten-byte header and trailer wrapped around a variable-length payload,
// integrity-checked with CRC-16-CCITT-FALSE.
package protocol

// Version is the wire protocol version number 1. Codec does not read
// it: Encode writes, and Decode accepts, the version given to NewCodec.
const Version = 1

// Frame type bytes (the TYPE field of the envelope).
const (
	TypeCommand   = 'C' // command
	TypeTelemetry = 'T' // telemetry
	TypeAck       = 'A' // ack / nack
	TypeSwarm     = 'S' // swarm task
	TypeFile      = 'F' // file transfer phase
)

// Broadcast is the reserved destination address accepted by every node.
const Broadcast = 0xFF

// Envelope layout sizes, big-endian throughout.
const (
	HeaderSize  = 7 // START VERSION TYPE SRC DST PLEN(2)
	TrailerSize = 3 // CRC(2) TERMINAL(1)
	MinFrameLen = HeaderSize + TrailerSize
	MaxPayload  = 0xFFFF
)

// field offsets within the header
const (
	offStart   = 0
	offVersion = 1
	offType    = 2
	offSrc     = 3
	offDst     = 4
	offPlenHi  = 5
	offPlenLo  = 6
)
