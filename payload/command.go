package payload

import (
	"encoding/binary"
	"math"
)

// Command ID bytes, the leading byte of a command payload.
const (
	CmdReboot   byte = 0x01
	CmdSetMode  byte = 0x02
	CmdTakeoff  byte = 0x03
	CmdLanding  byte = 0x04
	CmdGimbal   byte = 0x05
	CmdGoto     byte = 0x06
	CmdFollowMe byte = 0x07
	CmdWaypoints byte = 0x09
)

// Command is the tagged variant every known command ID decodes into.
// Exactly one concrete type below is produced for a given ID; Unknown
// carries any ID this node doesn't recognise.
type Command interface {
	Name() string
}

type Reboot struct{}

func (Reboot) Name() string { return "REBOOT" }

type SetMode struct{ Mode uint8 }

func (SetMode) Name() string { return "SET_MODE" }

// Takeoff has two valid wire shapes: a 4-byte "simple" altitude-only
// form, and a 16-byte "targeted" form with lat/lon/target altitude.
type Takeoff struct {
	Alt      float32
	Targeted bool
	Lat      float32
	Lon      float32
	AltTgt   float32
}

func (Takeoff) Name() string { return "TAKEOFF" }

// Landing has a 0-byte "here" form and an 8-byte targeted lat/lon form.
type Landing struct {
	Targeted bool
	Lat      float32
	Lon      float32
}

func (Landing) Name() string { return "LANDING" }

type Gimbal struct{ Pitch, Yaw, Roll float32 }

func (Gimbal) Name() string { return "GIMBAL" }

type Goto struct{ X, Y, Z float32 }

func (Goto) Name() string { return "GOTO" }

// FollowMe has a 4-byte id-only form and a 8-byte id+altitude form.
type FollowMe struct {
	ID     uint32
	HasAlt bool
	Alt    float32
}

func (FollowMe) Name() string { return "FOLLOW_ME" }

type Waypoints struct{ Points []Vec3 }

func (Waypoints) Name() string { return "WAYPOINTS" }

// Unknown is produced for any command ID this node has no definition
// for; the handler NACKs it with status.Unsupported.
type Unknown struct{ ID byte }

func (Unknown) Name() string { return "UNKNOWN" }

// ErrInvalidParams is returned by DecodeCommand when a recognised
// command ID's payload doesn't match any of its allowed byte counts.
var ErrInvalidParams = invalidParamsError{}

type invalidParamsError struct{}

func (invalidParamsError) Error() string { return "payload: invalid command parameters" }

// DecodeCommand parses a command payload (CMD_ID + PARAMS) into its
// typed Command variant. Unknown IDs produce an Unknown value and no
// error - the caller is expected to test for it and NACK with
// status.Unsupported, per the command handler's contract. A
// recognised ID with a parameter length matching none of its allowed
// shapes returns ErrInvalidParams.
func DecodeCommand(data []byte) (Command, error) {
	if len(data) < 1 {
		return nil, ErrInvalidParams
	}
	id := data[0]
	params := data[1:]

	switch id {
	case CmdReboot:
		if len(params) != 0 {
			return nil, ErrInvalidParams
		}
		return Reboot{}, nil

	case CmdSetMode:
		if len(params) != 1 {
			return nil, ErrInvalidParams
		}
		return SetMode{Mode: params[0]}, nil

	case CmdTakeoff:
		switch len(params) {
		case 4:
			return Takeoff{Alt: readF32(params, 0)}, nil
		case 16:
			return Takeoff{
				Targeted: true,
				Alt:      readF32(params, 0),
				Lat:      readF32(params, 4),
				Lon:      readF32(params, 8),
				AltTgt:   readF32(params, 12),
			}, nil
		default:
			return nil, ErrInvalidParams
		}

	case CmdLanding:
		switch len(params) {
		case 0:
			return Landing{}, nil
		case 8:
			return Landing{Targeted: true, Lat: readF32(params, 0), Lon: readF32(params, 4)}, nil
		default:
			return nil, ErrInvalidParams
		}

	case CmdGimbal:
		if len(params) != 12 {
			return nil, ErrInvalidParams
		}
		return Gimbal{Pitch: readF32(params, 0), Yaw: readF32(params, 4), Roll: readF32(params, 8)}, nil

	case CmdGoto:
		if len(params) != 12 {
			return nil, ErrInvalidParams
		}
		return Goto{X: readF32(params, 0), Y: readF32(params, 4), Z: readF32(params, 8)}, nil

	case CmdFollowMe:
		switch len(params) {
		case 4:
			return FollowMe{ID: binary.BigEndian.Uint32(params)}, nil
		case 8:
			return FollowMe{ID: binary.BigEndian.Uint32(params[0:4]), HasAlt: true, Alt: readF32(params, 4)}, nil
		default:
			return nil, ErrInvalidParams
		}

	case CmdWaypoints:
		if len(params)%12 != 0 {
			return nil, ErrInvalidParams
		}
		n := len(params) / 12
		points := make([]Vec3, n)
		for i := 0; i < n; i++ {
			points[i] = Vec3{
				X: readF32(params, i*12),
				Y: readF32(params, i*12+4),
				Z: readF32(params, i*12+8),
			}
		}
		return Waypoints{Points: points}, nil

	default:
		return Unknown{ID: id}, nil
	}
}

// EncodeCommand serializes cmd back into a CMD_ID+PARAMS payload, for
// the command builders in the command package.
func EncodeCommand(cmd Command) []byte {
	switch c := cmd.(type) {
	case Reboot:
		return []byte{CmdReboot}
	case SetMode:
		return []byte{CmdSetMode, c.Mode}
	case Takeoff:
		if !c.Targeted {
			return append([]byte{CmdTakeoff}, f32Bytes(c.Alt)...)
		}
		out := []byte{CmdTakeoff}
		out = append(out, f32Bytes(c.Alt)...)
		out = append(out, f32Bytes(c.Lat)...)
		out = append(out, f32Bytes(c.Lon)...)
		out = append(out, f32Bytes(c.AltTgt)...)
		return out
	case Landing:
		if !c.Targeted {
			return []byte{CmdLanding}
		}
		out := []byte{CmdLanding}
		out = append(out, f32Bytes(c.Lat)...)
		out = append(out, f32Bytes(c.Lon)...)
		return out
	case Gimbal:
		out := []byte{CmdGimbal}
		out = append(out, f32Bytes(c.Pitch)...)
		out = append(out, f32Bytes(c.Yaw)...)
		out = append(out, f32Bytes(c.Roll)...)
		return out
	case Goto:
		out := []byte{CmdGoto}
		out = append(out, f32Bytes(c.X)...)
		out = append(out, f32Bytes(c.Y)...)
		out = append(out, f32Bytes(c.Z)...)
		return out
	case FollowMe:
		out := make([]byte, 5, 9)
		out[0] = CmdFollowMe
		binary.BigEndian.PutUint32(out[1:5], c.ID)
		if c.HasAlt {
			out = append(out, f32Bytes(c.Alt)...)
		}
		return out
	case Waypoints:
		out := []byte{CmdWaypoints}
		for _, p := range c.Points {
			out = append(out, f32Bytes(p.X)...)
			out = append(out, f32Bytes(p.Y)...)
			out = append(out, f32Bytes(p.Z)...)
		}
		return out
	case Unknown:
		return []byte{c.ID}
	default:
		return nil
	}
}

// CmdID returns the wire CMD_ID byte for a decoded Command, the value
// the command handler echoes back in its ACK/NACK reply.
func CmdID(cmd Command) byte {
	switch c := cmd.(type) {
	case Reboot:
		return CmdReboot
	case SetMode:
		return CmdSetMode
	case Takeoff:
		return CmdTakeoff
	case Landing:
		return CmdLanding
	case Gimbal:
		return CmdGimbal
	case Goto:
		return CmdGoto
	case FollowMe:
		return CmdFollowMe
	case Waypoints:
		return CmdWaypoints
	case Unknown:
		return c.ID
	default:
		return 0
	}
}

// CommandNameByID returns the tracker-key name for a known command
// CMD_ID, used by the ACK handler to key a reply without having
// decoded the original command payload itself.
func CommandNameByID(id byte) (string, bool) {
	switch id {
	case CmdReboot:
		return Reboot{}.Name(), true
	case CmdSetMode:
		return SetMode{}.Name(), true
	case CmdTakeoff:
		return Takeoff{}.Name(), true
	case CmdLanding:
		return Landing{}.Name(), true
	case CmdGimbal:
		return Gimbal{}.Name(), true
	case CmdGoto:
		return Goto{}.Name(), true
	case CmdFollowMe:
		return FollowMe{}.Name(), true
	case CmdWaypoints:
		return Waypoints{}.Name(), true
	default:
		return "", false
	}
}

func readF32(b []byte, off int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b[off : off+4]))
}

func f32Bytes(v float32) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, math.Float32bits(v))
	return out
}
