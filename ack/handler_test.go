package ack

import (
	"testing"
	"time"

	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
)

func TestRouteRegistersGenericCommandAck(t *testing.T) {
	tr := New()
	h := NewHandler(tr)

	body := payload.EncodeGenericAck(payload.ACKCode, payload.CmdTakeoff, 0)
	h.Route(&protocol.Frame{Type: protocol.TypeAck, Src: 3, Dst: 1, Payload: body}, nil)

	outcome, status := tr.Get("TAKEOFF", 3, time.Second)
	if outcome != Ready || status != 0 {
		t.Fatalf("got outcome=%v status=%d", outcome, status)
	}
}

func TestRouteRegistersGenericCommandNackWithStatus(t *testing.T) {
	tr := New()
	h := NewHandler(tr)

	body := payload.EncodeGenericAck(payload.NACKCode, payload.CmdLanding, uint32(2))
	h.Route(&protocol.Frame{Type: protocol.TypeAck, Src: 3, Dst: 1, Payload: body}, nil)

	outcome, status := tr.Get("LANDING", 3, time.Second)
	if outcome != Ready || status != 2 {
		t.Fatalf("got outcome=%v status=%d", outcome, status)
	}
}

func TestRouteRegistersFTPStartAndEnd(t *testing.T) {
	tr := New()
	h := NewHandler(tr)

	h.Route(&protocol.Frame{Type: protocol.TypeAck, Src: 5, Dst: 1,
		Payload: payload.EncodeFTPAck(payload.ACKCode, payload.AckCmdFTPStart, 0)}, nil)
	h.Route(&protocol.Frame{Type: protocol.TypeAck, Src: 5, Dst: 1,
		Payload: payload.EncodeFTPAck(payload.ACKCode, payload.AckCmdFTPEnd, 0)}, nil)

	if o, _ := tr.Get(FTPStartKey, 5, time.Second); o != Ready {
		t.Fatalf("expected FTP_START ready, got %v", o)
	}
	if o, _ := tr.Get(FTPEndKey, 5, time.Second); o != Ready {
		t.Fatalf("expected FTP_END ready, got %v", o)
	}
}

func TestRouteRegistersFTPChunkBySeq(t *testing.T) {
	tr := New()
	h := NewHandler(tr)

	h.Route(&protocol.Frame{Type: protocol.TypeAck, Src: 5, Dst: 1,
		Payload: payload.EncodeFTPAck(payload.ACKCode, payload.AckCmdFTPChunk, 7)}, nil)

	if o, _ := tr.Get(FTPChunkKey(7), 5, time.Second); o != Ready {
		t.Fatalf("expected FTP_CHUNK_7 ready, got %v", o)
	}
	if o, _ := tr.Get(FTPChunkKey(8), 5, time.Second); o != Pending {
		t.Fatalf("expected FTP_CHUNK_8 still pending, got %v", o)
	}
}

func TestRouteIgnoresUnrecognizedCommandID(t *testing.T) {
	tr := New()
	h := NewHandler(tr)
	h.Route(&protocol.Frame{Type: protocol.TypeAck, Src: 5, Dst: 1,
		Payload: payload.EncodeGenericAck(payload.ACKCode, 0xEE, 0)}, nil)
	if tr.Len() != 0 {
		t.Fatalf("expected nothing registered, got %d entries", tr.Len())
	}
}
