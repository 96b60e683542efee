package protocol

// Framer reassembles frames out of an unbounded byte stream, such as a
// serial line, where a single read may return a partial frame, several
// frames, or a few garbage bytes left over from a truncated one.
// Datagram transports (UDP) don't need this: one datagram is one frame.
//
// Framer is not safe for concurrent use; the reader goroutine that
// feeds it with Push is expected to be its only caller.
type Framer struct {
	codec        *Codec
	startByte2   byte
	useStartByte2 bool
	buf          []byte
}

// NewFramer returns a Framer for the given codec. If startByte2 is
// non-zero, the framer additionally requires that byte to immediately
// follow StartByte before it will treat a position as the start of a
// frame (the optional two-byte sync prefix from protocol.start_byte_2).
func NewFramer(codec *Codec, startByte2 byte) *Framer {
	return &Framer{codec: codec, startByte2: startByte2, useStartByte2: startByte2 != 0}
}

// Push appends newly read bytes to the framer's internal buffer.
func (f *Framer) Push(data []byte) {
	f.buf = append(f.buf, data...)
}

// Next extracts the next complete, CRC-valid frame from the buffered
// stream, if one is available. It returns ok=false when more bytes are
// needed. On a CRC failure it discards one byte past the start byte and
// resynchronizes, per the recommended framing strategy.
func (f *Framer) Next() (frame *Frame, ok bool) {
	for {
		start := f.findStart()
		if start < 0 {
			f.buf = nil
			return nil, false
		}
		f.buf = f.buf[start:]

		if len(f.buf) < HeaderSize {
			return nil, false
		}

		plen := int(f.buf[offPlenHi])<<8 | int(f.buf[offPlenLo])
		total := HeaderSize + plen + TrailerSize
		if len(f.buf) < total {
			return nil, false
		}

		candidate := f.buf[:total]
		decoded, err := f.codec.Decode(candidate)
		if err != nil {
			// Resync: drop the start byte itself and keep scanning.
			f.buf = f.buf[1:]
			continue
		}

		f.buf = f.buf[total:]
		return decoded, true
	}
}

// findStart returns the index of the next plausible frame start in the
// buffer, honoring the optional two-byte sync prefix, or -1 if none is
// present yet.
func (f *Framer) findStart() int {
	for i := 0; i < len(f.buf); i++ {
		if f.buf[i] != f.codec.StartByte {
			continue
		}
		if !f.useStartByte2 {
			return i
		}
		if i+1 < len(f.buf) {
			if f.buf[i+1] == f.startByte2 {
				return i
			}
			continue
		}
		// Not enough bytes yet to confirm the second sync byte: keep
		// this position so Next waits for more data.
		return i
	}
	return -1
}
