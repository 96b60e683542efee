package ftp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tayfurcnr/lynk/ack"
	"github.com/tayfurcnr/lynk/config"
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/transport"
)

// transferKey identifies one in-flight receive by the (src, dst) pair
// it was opened on.
type transferKey struct {
	src, dst uint8
}

// transfer is one receiver-side transfer's buffered state: the chunk
// map is mutated only from the router's dispatch goroutine, so no
// per-transfer lock is needed - only the Receiver's map of transfers
// is guarded, since Start/End/Chunk handling always runs on the same
// reader goroutine.
type transfer struct {
	name   string
	chunks map[uint32][]byte
	total  uint32 // 0 until END arrives
}

// Receiver buffers out-of-order chunks per (src, dst) and flushes to
// disk once every chunk up to the declared total has arrived.
type Receiver struct {
	localID     uint8
	downloadDir string

	mu        sync.Mutex
	transfers map[transferKey]*transfer

	chunksReceived    uint64
	bytesReceived     uint64
	transfersFlushed  uint64
	missingChunkNacks uint64
}

func NewReceiver(localID uint8, cfg config.FileTransfer) *Receiver {
	return &Receiver{
		localID:     localID,
		downloadDir: cfg.DownloadDir,
		transfers:   make(map[transferKey]*transfer),
	}
}

// ReceiverStats is a point-in-time snapshot of receiver counters,
// consumed by the metrics collector.
type ReceiverStats struct {
	ChunksReceived    uint64
	BytesReceived     uint64
	TransfersFlushed  uint64
	MissingChunkNacks uint64
}

func (r *Receiver) Stats() ReceiverStats {
	return ReceiverStats{
		ChunksReceived:    atomic.LoadUint64(&r.chunksReceived),
		BytesReceived:     atomic.LoadUint64(&r.bytesReceived),
		TransfersFlushed:  atomic.LoadUint64(&r.transfersFlushed),
		MissingChunkNacks: atomic.LoadUint64(&r.missingChunkNacks),
	}
}

// Route is a router.Handler for F-type frames.
func (r *Receiver) Route(frame *protocol.Frame, ch transport.Channel) {
	phase, err := payload.DecodeFTPPhase(frame.Payload)
	if err != nil {
		logging.Frame(frame.Type, frame.Src, frame.Dst).WithError(err).Warn("ftp: malformed phase payload")
		return
	}

	k := transferKey{src: frame.Src, dst: frame.Dst}
	switch phase.Phase {
	case payload.PhaseStart:
		r.onStart(ch, k, *phase.Start)
	case payload.PhaseChunk:
		r.onChunk(ch, k, *phase.Chunk)
	case payload.PhaseEnd:
		r.onEnd(ch, k, *phase.End)
	}
}

func (r *Receiver) onStart(ch transport.Channel, k transferKey, start payload.FTPStart) {
	r.mu.Lock()
	_, exists := r.transfers[k]
	if !exists {
		r.transfers[k] = &transfer{name: start.Name, chunks: make(map[uint32][]byte)}
	}
	r.mu.Unlock()

	if exists {
		logging.Log.WithField("src", k.src).Warn("ftp: duplicate START, ignoring")
		return
	}

	if err := ack.SendFTPAck(ch, r.localID, k.src, payload.AckCmdFTPStart, true, 0); err != nil {
		logging.Log.WithError(err).Warn("ftp: failed to send start ack")
	}
}

func (r *Receiver) onChunk(ch transport.Channel, k transferKey, chunk payload.FTPChunk) {
	r.mu.Lock()
	xfer, ok := r.transfers[k]
	if ok {
		xfer.chunks[chunk.Seq] = chunk.Data
	}
	r.mu.Unlock()

	if !ok {
		logging.Log.WithField("src", k.src).WithField("seq", chunk.Seq).
			Warn("ftp: chunk with no open transfer, dropping")
		return
	}

	atomic.AddUint64(&r.chunksReceived, 1)
	atomic.AddUint64(&r.bytesReceived, uint64(len(chunk.Data)))

	if err := ack.SendFTPAck(ch, r.localID, k.src, payload.AckCmdFTPChunk, true, chunk.Seq); err != nil {
		logging.Log.WithError(err).Warn("ftp: failed to send chunk ack")
	}
}

func (r *Receiver) onEnd(ch transport.Channel, k transferKey, end payload.FTPEnd) {
	r.mu.Lock()
	xfer, ok := r.transfers[k]
	r.mu.Unlock()

	if !ok {
		// Stale or duplicate END: ack and ignore.
		if err := ack.SendFTPAck(ch, r.localID, k.src, payload.AckCmdFTPEnd, true, 0); err != nil {
			logging.Log.WithError(err).Warn("ftp: failed to send end ack for stale transfer")
		}
		return
	}

	r.mu.Lock()
	xfer.total = end.Total
	var missing []uint32
	for seq := uint32(0); seq < end.Total; seq++ {
		if _, have := xfer.chunks[seq]; !have {
			missing = append(missing, seq)
		}
	}
	r.mu.Unlock()

	if len(missing) > 0 {
		for _, seq := range missing {
			atomic.AddUint64(&r.missingChunkNacks, 1)
			if err := ack.SendFTPAck(ch, r.localID, k.src, payload.AckCmdFTPChunk, false, seq); err != nil {
				logging.Log.WithError(err).Warn("ftp: failed to send missing-chunk nack")
			}
		}
		return
	}

	if err := r.flush(k, xfer); err != nil {
		logging.Log.WithError(err).Error("ftp: failed to flush completed transfer")
		return
	}
	atomic.AddUint64(&r.transfersFlushed, 1)

	r.mu.Lock()
	delete(r.transfers, k)
	r.mu.Unlock()

	if err := ack.SendFTPAck(ch, r.localID, k.src, payload.AckCmdFTPEnd, true, 0); err != nil {
		logging.Log.WithError(err).Warn("ftp: failed to send end ack")
	}
}

// flush writes a completed transfer's chunks to downloadDir in strict
// ascending sequence order.
func (r *Receiver) flush(k transferKey, xfer *transfer) error {
	if err := os.MkdirAll(r.downloadDir, 0o755); err != nil {
		return fmt.Errorf("ftp: create download dir: %w", err)
	}

	safeName := filepath.Base(strings.TrimSpace(xfer.name))
	if safeName == "" || safeName == "." || safeName == string(filepath.Separator) {
		safeName = fmt.Sprintf("transfer-%d-%d", k.src, k.dst)
	}
	outPath := filepath.Join(r.downloadDir, safeName)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("ftp: create %s: %w", outPath, err)
	}
	defer f.Close()

	for seq := uint32(0); seq < xfer.total; seq++ {
		if _, err := f.Write(xfer.chunks[seq]); err != nil {
			return fmt.Errorf("ftp: write chunk %d: %w", seq, err)
		}
	}

	logging.Log.WithField("path", outPath).WithField("bytes_chunks", len(xfer.chunks)).Info("ftp: transfer flushed to disk")
	return nil
}
