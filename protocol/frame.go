package protocol

import "fmt"

// Frame is a decoded LYNK envelope.
type Frame struct {
	Version uint8
	Type    byte
	Src     uint8
	Dst     uint8
	Payload []byte
}

// Codec encodes and decodes frames against a node's configured start,
// terminal and version bytes. The zero Codec is not usable; construct
// one with NewCodec.
type Codec struct {
	StartByte    byte
	TerminalByte byte
	Version      uint8
}

// NewCodec returns a Codec for the given configured envelope bytes.
func NewCodec(startByte, terminalByte byte, version uint8) *Codec {
	return &Codec{StartByte: startByte, TerminalByte: terminalByte, Version: version}
}

// Encode assembles a wire frame. payload must fit in 16 bits; callers
// that need to move more data fragment it at a higher layer (the ftp
// package), as none is defined here.
func (c *Codec) Encode(typ byte, src, dst uint8, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	out := make([]byte, 0, HeaderSize+len(payload)+TrailerSize)
	out = append(out, c.StartByte, c.Version, typ, src, dst,
		byte(len(payload)>>8), byte(len(payload)))
	out = append(out, payload...)

	crc := CRC16(out)
	out = append(out, byte(crc>>8), byte(crc))
	out = append(out, c.TerminalByte)

	return out, nil
}

// Decode validates and parses a wire frame.
func (c *Codec) Decode(data []byte) (*Frame, error) {
	if len(data) < MinFrameLen {
		return nil, ErrTooShort
	}
	if data[offStart] != c.StartByte {
		return nil, ErrBadStart
	}
	if data[len(data)-1] != c.TerminalByte {
		return nil, ErrBadTerminal
	}
	if data[offVersion] != c.Version {
		return nil, ErrVersionMismatch
	}

	plen := int(data[offPlenHi])<<8 | int(data[offPlenLo])
	if len(data) != HeaderSize+plen+TrailerSize {
		return nil, ErrLengthMismatch
	}

	crcPos := HeaderSize + plen
	wantCRC := uint16(data[crcPos])<<8 | uint16(data[crcPos+1])
	gotCRC := CRC16(data[:crcPos])
	if wantCRC != gotCRC {
		return nil, ErrCrcMismatch
	}

	payload := make([]byte, plen)
	copy(payload, data[HeaderSize:crcPos])

	return &Frame{
		Version: data[offVersion],
		Type:    data[offType],
		Src:     data[offSrc],
		Dst:     data[offDst],
		Payload: payload,
	}, nil
}
