package ftp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tayfurcnr/lynk/config"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/transport"
)

func newTestReceiver(t *testing.T) (*Receiver, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "downloads")
	return NewReceiver(2, config.FileTransfer{DownloadDir: dir}), dir
}

func fileFrame(src, dst uint8, body []byte) *protocol.Frame {
	return &protocol.Frame{Type: protocol.TypeFile, Src: src, Dst: dst, Payload: body}
}

func TestReceiverStartAcksAndOpensState(t *testing.T) {
	r, _ := newTestReceiver(t)
	ch := transport.NewMockChannel()
	ch.Start()

	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseStart, payload.EncodeFTPStart("a.bin"))), ch)

	reply, ok := ch.Read()
	if !ok {
		t.Fatal("expected a start ack")
	}
	a, _ := payload.DecodeAck(reply.Payload)
	if !a.IsACK() || a.CmdID != payload.AckCmdFTPStart {
		t.Fatalf("unexpected ack: %+v", a)
	}
}

func TestReceiverEndWithMissingChunksNacksEachMissingSeq(t *testing.T) {
	r, _ := newTestReceiver(t)
	ch := transport.NewMockChannel()
	ch.Start()

	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseStart, payload.EncodeFTPStart("a.bin"))), ch)
	ch.Read() // drain start ack

	for _, seq := range []uint32{0, 1, 2} {
		r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseChunk, payload.EncodeFTPChunk(seq, []byte{byte(seq)}))), ch)
		ch.Read() // drain chunk ack
	}

	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseEnd, payload.EncodeFTPEnd(5))), ch)

	seen := map[uint32]bool{}
	for {
		reply, ok := ch.Read()
		if !ok {
			break
		}
		a, err := payload.DecodeAck(reply.Payload)
		if err != nil {
			t.Fatalf("DecodeAck: %v", err)
		}
		if a.IsACK() {
			t.Fatalf("expected only nacks for missing chunks, got ack: %+v", a)
		}
		seen[a.Status] = true
	}

	if !seen[3] || !seen[4] || len(seen) != 2 {
		t.Fatalf("expected nacks for seq 3 and 4 exactly, got %v", seen)
	}
}

func TestReceiverFlushesOnCompleteTransfer(t *testing.T) {
	r, dir := newTestReceiver(t)
	ch := transport.NewMockChannel()
	ch.Start()

	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseStart, payload.EncodeFTPStart("out.bin"))), ch)
	ch.Read()

	want := []byte("hello world!")
	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseChunk, payload.EncodeFTPChunk(0, want))), ch)
	ch.Read()

	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseEnd, payload.EncodeFTPEnd(1))), ch)
	reply, ok := ch.Read()
	if !ok {
		t.Fatal("expected an end ack")
	}
	a, _ := payload.DecodeAck(reply.Payload)
	if !a.IsACK() {
		t.Fatalf("expected end ack, got %+v", a)
	}

	got, err := os.ReadFile(filepath.Join(dir, "out.bin"))
	if err != nil {
		t.Fatalf("read flushed file: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReceiverStaleEndIsAckedAndIgnored(t *testing.T) {
	r, _ := newTestReceiver(t)
	ch := transport.NewMockChannel()
	ch.Start()

	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseEnd, payload.EncodeFTPEnd(3))), ch)

	reply, ok := ch.Read()
	if !ok {
		t.Fatal("expected an end ack for the stale end")
	}
	a, _ := payload.DecodeAck(reply.Payload)
	if !a.IsACK() || a.CmdID != payload.AckCmdFTPEnd {
		t.Fatalf("unexpected ack: %+v", a)
	}
}

func TestReceiverDuplicateStartIsIgnored(t *testing.T) {
	r, _ := newTestReceiver(t)
	ch := transport.NewMockChannel()
	ch.Start()

	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseStart, payload.EncodeFTPStart("a.bin"))), ch)
	ch.Read()
	r.Route(fileFrame(1, 2, payload.EncodeFTPPhase(payload.PhaseStart, payload.EncodeFTPStart("a.bin"))), ch)

	if _, ok := ch.Read(); ok {
		t.Fatal("expected no second start ack for a duplicate start")
	}
}
