package payload

import (
	"math"
	"testing"
)

func TestDecodeTakeoffSimple(t *testing.T) {
	cmd, err := DecodeCommand(append([]byte{CmdTakeoff}, f32Bytes(30.0)...))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	to, ok := cmd.(Takeoff)
	if !ok || to.Targeted || to.Alt != 30.0 {
		t.Fatalf("unexpected decode: %+v", cmd)
	}
}

func TestDecodeTakeoffInvalidLength(t *testing.T) {
	_, err := DecodeCommand(append([]byte{CmdTakeoff}, make([]byte, 7)...))
	if err != ErrInvalidParams {
		t.Fatalf("got %v, want ErrInvalidParams", err)
	}
}

func TestDecodeTakeoffTargeted(t *testing.T) {
	params := []byte{CmdTakeoff}
	params = append(params, f32Bytes(30)...)
	params = append(params, f32Bytes(1)...)
	params = append(params, f32Bytes(2)...)
	params = append(params, f32Bytes(40)...)

	cmd, err := DecodeCommand(params)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	to := cmd.(Takeoff)
	if !to.Targeted || to.Alt != 30 || to.Lat != 1 || to.Lon != 2 || to.AltTgt != 40 {
		t.Fatalf("unexpected decode: %+v", to)
	}
}

func TestDecodeLandingShapes(t *testing.T) {
	cmd, err := DecodeCommand([]byte{CmdLanding})
	if err != nil || cmd.(Landing).Targeted {
		t.Fatalf("expected untargeted landing, got %v err=%v", cmd, err)
	}

	params := append([]byte{CmdLanding}, f32Bytes(1)...)
	params = append(params, f32Bytes(2)...)
	cmd, err = DecodeCommand(params)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	l := cmd.(Landing)
	if !l.Targeted || l.Lat != 1 || l.Lon != 2 {
		t.Fatalf("unexpected decode: %+v", l)
	}
}

func TestDecodeUnknownCommandID(t *testing.T) {
	cmd, err := DecodeCommand([]byte{0xEE})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	u, ok := cmd.(Unknown)
	if !ok || u.ID != 0xEE {
		t.Fatalf("expected Unknown{0xEE}, got %+v", cmd)
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	if _, err := DecodeCommand(nil); err != ErrInvalidParams {
		t.Fatalf("got %v, want ErrInvalidParams", err)
	}
}

func TestEncodeDecodeWaypoints(t *testing.T) {
	wp := Waypoints{Points: []Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}}
	cmd, err := DecodeCommand(EncodeCommand(wp))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := cmd.(Waypoints)
	if len(got.Points) != 2 || got.Points[1].Z != 6 {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestFollowMeShapes(t *testing.T) {
	cmd, err := DecodeCommand(EncodeCommand(FollowMe{ID: 7}))
	if err != nil || cmd.(FollowMe).HasAlt {
		t.Fatalf("unexpected: %+v err=%v", cmd, err)
	}

	cmd, err = DecodeCommand(EncodeCommand(FollowMe{ID: 7, HasAlt: true, Alt: 12.5}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fm := cmd.(FollowMe)
	if !fm.HasAlt || fm.Alt != 12.5 || fm.ID != 7 {
		t.Fatalf("unexpected: %+v", fm)
	}
}

func TestReadF32MatchesEncode(t *testing.T) {
	want := float32(math.Pi)
	if got := readF32(f32Bytes(want), 0); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
