// Package ftp implements the reliable chunked file-transfer engine: a
// stop-and-wait sender and a buffering, out-of-order-tolerant
// receiver, both driven through F-type frames and the shared ACK
// tracker.
package ftp

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/tayfurcnr/lynk/ack"
	"github.com/tayfurcnr/lynk/config"
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/transport"
)

// State is the sender's stop-and-wait state machine position: IDLE ->
// SENDING_START -> SENDING_CHUNKS -> SENDING_END -> DONE / FAILED.
type State int

const (
	StateIdle State = iota
	StateSendingStart
	StateSendingChunks
	StateSendingEnd
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSendingStart:
		return "SENDING_START"
	case StateSendingChunks:
		return "SENDING_CHUNKS"
	case StateSendingEnd:
		return "SENDING_END"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "IDLE"
	}
}

// Sender drives one file transfer at a time against a single
// destination, per the configured packet size / timeout / retry
// budget.
type Sender struct {
	localID uint8
	cfg     config.FileTransfer
	tracker *ack.Tracker

	chunksSent  uint64
	bytesSent   uint64
	retries     uint64
	transfersOK uint64
	transfersKO uint64
}

func NewSender(localID uint8, cfg config.FileTransfer, tracker *ack.Tracker) *Sender {
	return &Sender{localID: localID, cfg: cfg, tracker: tracker}
}

// SenderStats is a point-in-time snapshot of sender counters, consumed
// by the metrics collector.
type SenderStats struct {
	ChunksSent  uint64
	BytesSent   uint64
	Retries     uint64
	TransfersOK uint64
	TransfersKO uint64
}

func (s *Sender) Stats() SenderStats {
	return SenderStats{
		ChunksSent:  atomic.LoadUint64(&s.chunksSent),
		BytesSent:   atomic.LoadUint64(&s.bytesSent),
		Retries:     atomic.LoadUint64(&s.retries),
		TransfersOK: atomic.LoadUint64(&s.transfersOK),
		TransfersKO: atomic.LoadUint64(&s.transfersKO),
	}
}

// Result summarizes a completed or failed transfer for the caller
// (CLI or automated mission logic).
type Result struct {
	State       State
	ChunksSent  int
	TotalChunks int
}

// SendFile uploads localPath to dst over ch, chunked at cfg.PacketSize
// bytes per chunk.
func (s *Sender) SendFile(ch transport.Channel, dst uint8, localPath string) (Result, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return Result{State: StateFailed}, fmt.Errorf("ftp: read %s: %w", localPath, err)
	}

	name := filepath.Base(localPath)
	total := chunkCount(len(data), s.cfg.PacketSize)
	timeout := time.Duration(s.cfg.TimeoutMs) * time.Millisecond
	log := logging.Log.WithFields(logrus.Fields{
		"xfer": xid.New().String(), "name": name, "dst": dst, "bytes": len(data), "chunks": total,
	})
	log.Info("ftp: starting upload")

	if !s.sendStart(ch, dst, name, timeout, log) {
		log.Warn("ftp: proceeding without confirmed START ack")
	}

	sent, ok := s.sendChunks(ch, dst, data, total, timeout, log)
	if !ok {
		log.WithField("chunks_sent", sent).Error("ftp: chunk phase failed, aborting transfer")
		atomic.AddUint64(&s.transfersKO, 1)
		return Result{State: StateFailed, ChunksSent: sent, TotalChunks: total},
			fmt.Errorf("ftp: chunk transfer failed after exhausting retries")
	}

	if !s.sendEnd(ch, dst, data, total, timeout, log) {
		log.Error("ftp: end phase failed")
		atomic.AddUint64(&s.transfersKO, 1)
		return Result{State: StateFailed, ChunksSent: sent, TotalChunks: total},
			fmt.Errorf("ftp: end phase failed after exhausting retries")
	}

	atomic.AddUint64(&s.transfersOK, 1)
	log.Info("ftp: upload complete")
	return Result{State: StateDone, ChunksSent: sent, TotalChunks: total}, nil
}

func (s *Sender) sendStart(ch transport.Channel, dst uint8, name string, timeout time.Duration, log *logrus.Entry) bool {
	body := payload.EncodeFTPPhase(payload.PhaseStart, payload.EncodeFTPStart(name))

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		s.tracker.Clear(ack.FTPStartKey, dst)
		if err := ch.Send(protocol.TypeFile, s.localID, dst, body); err != nil {
			log.WithError(err).Warn("ftp: start send failed")
		}
		outcome, status := s.tracker.Wait(ack.FTPStartKey, dst, timeout)
		if outcome == ack.Ready && status == 0 {
			return true
		}
		log.WithField("attempt", attempt).Debug("ftp: start not acked, retrying")
	}
	return false
}

func (s *Sender) sendChunks(ch transport.Channel, dst uint8, data []byte, total int, timeout time.Duration, log *logrus.Entry) (int, bool) {
	for i := 0; i < total; i++ {
		if !s.sendOneChunk(ch, dst, uint32(i), chunkBytes(data, i, s.cfg.PacketSize), timeout, log) {
			return i, false
		}
	}
	return total, true
}

func (s *Sender) sendOneChunk(ch transport.Channel, dst uint8, seq uint32, data []byte, timeout time.Duration, log *logrus.Entry) bool {
	key := ack.FTPChunkKey(seq)
	body := payload.EncodeFTPPhase(payload.PhaseChunk, payload.EncodeFTPChunk(seq, data))

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		s.tracker.Clear(key, dst)
		if err := ch.Send(protocol.TypeFile, s.localID, dst, body); err != nil {
			log.WithError(err).Warn("ftp: chunk send failed")
		}
		if attempt > 0 {
			atomic.AddUint64(&s.retries, 1)
		}
		outcome, status := s.tracker.Wait(key, dst, timeout)
		if outcome == ack.Ready && status == 0 {
			atomic.AddUint64(&s.chunksSent, 1)
			atomic.AddUint64(&s.bytesSent, uint64(len(data)))
			return true
		}
		log.WithField("seq", seq).WithField("attempt", attempt).Debug("ftp: chunk not acked, retrying")
	}
	return false
}

// sendEnd sends END and waits for the END ack. If the receiver instead
// flags specific chunks missing (a CHUNK-NACK arriving after END was
// sent), those chunks are retransmitted from data and END is resent,
// up to the configured retry budget.
func (s *Sender) sendEnd(ch transport.Channel, dst uint8, data []byte, total int, timeout time.Duration, log *logrus.Entry) bool {
	body := payload.EncodeFTPPhase(payload.PhaseEnd, payload.EncodeFTPEnd(uint32(total)))

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		s.tracker.Clear(ack.FTPEndKey, dst)
		if err := ch.Send(protocol.TypeFile, s.localID, dst, body); err != nil {
			log.WithError(err).Warn("ftp: end send failed")
		}
		outcome, status := s.tracker.Wait(ack.FTPEndKey, dst, timeout)
		if outcome == ack.Ready && status == 0 {
			return true
		}

		if s.retransmitMissingChunks(ch, dst, data, total, timeout, log) {
			continue
		}
		log.WithField("attempt", attempt).Debug("ftp: end not acked, retrying")
	}
	return false
}

func (s *Sender) retransmitMissingChunks(ch transport.Channel, dst uint8, data []byte, total int, timeout time.Duration, log *logrus.Entry) bool {
	resent := false
	for seq := uint32(0); seq < uint32(total); seq++ {
		outcome, status := s.tracker.Get(ack.FTPChunkKey(seq), dst, timeout)
		if outcome != ack.Ready || status == 0 {
			continue
		}
		log.WithField("seq", seq).Warn("ftp: receiver flagged chunk missing at end, resending")
		if s.sendOneChunk(ch, dst, seq, chunkBytes(data, int(seq), s.cfg.PacketSize), timeout, log) {
			resent = true
		}
	}
	return resent
}

func chunkCount(size, packetSize int) int {
	if packetSize <= 0 {
		return 0
	}
	return (size + packetSize - 1) / packetSize
}

func chunkBytes(data []byte, i, packetSize int) []byte {
	start := i * packetSize
	end := start + packetSize
	if end > len(data) {
		end = len(data)
	}
	return data[start:end]
}
