// Package node wires transport, router, ack tracker, command/telemetry
// /swarm/file handlers, and the periodic telemetry emitter into three
// concurrent activities: a transport reader, a telemetry emitter, and
// whatever synchronous caller (FTP transfer or interactive command)
// the CLI drives on top.
package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tayfurcnr/lynk/ack"
	"github.com/tayfurcnr/lynk/command"
	"github.com/tayfurcnr/lynk/config"
	"github.com/tayfurcnr/lynk/ftp"
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/metrics"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/router"
	"github.com/tayfurcnr/lynk/swarm"
	"github.com/tayfurcnr/lynk/telemetry"
	"github.com/tayfurcnr/lynk/telemetrycache"
	"github.com/tayfurcnr/lynk/transport"
)

// Node is one running mesh endpoint: a transport channel, a frame
// router wired with a handler per frame type, an ack tracker shared
// between the inbound ack handler and any outbound synchronous caller,
// an FTP sender/receiver pair, and a periodic telemetry emitter.
type Node struct {
	LocalID uint8

	Channel    transport.Channel
	Router     *router.Router
	Tracker    *ack.Tracker
	Cache      *telemetrycache.Cache
	FTPSender  *ftp.Sender
	FTPReceiver *ftp.Receiver
	Emitter    *telemetry.Emitter

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New assembles a Node from cfg: it builds the transport channel, the
// codec it encodes/decodes through, and every handler the router
// dispatches to, then registers them.
func New(cfg *config.Config, bridge command.Bridge, source telemetry.Source) (*Node, error) {
	codec := protocol.NewCodec(cfg.Protocol.StartByte, cfg.Protocol.TerminalByte, cfg.Protocol.Version)

	ch, err := transport.New(cfg, codec)
	if err != nil {
		return nil, fmt.Errorf("node: build transport: %w", err)
	}

	localID := cfg.Vehicle.ID
	r := router.New(localID)
	tracker := ack.New()
	cache := telemetrycache.New()

	cmdHandler := command.New(localID, bridge)
	telHandler := telemetry.New(cache)
	ackHandler := ack.NewHandler(tracker)
	swarmHandler := swarm.New(cache)
	ftpReceiver := ftp.NewReceiver(localID, cfg.FileXfer)
	ftpSender := ftp.NewSender(localID, cfg.FileXfer, tracker)

	r.Handle(protocol.TypeCommand, cmdHandler.Route)
	r.Handle(protocol.TypeTelemetry, telHandler.Route)
	r.Handle(protocol.TypeAck, ackHandler.Route)
	r.Handle(protocol.TypeSwarm, swarmHandler.Route)
	r.Handle(protocol.TypeFile, ftpReceiver.Route)

	interval := time.Second
	emitter := telemetry.NewEmitter(localID, source, interval)

	return &Node{
		LocalID:     localID,
		Channel:     ch,
		Router:      r,
		Tracker:     tracker,
		Cache:       cache,
		FTPSender:   ftpSender,
		FTPReceiver: ftpReceiver,
		Emitter:     emitter,
	}, nil
}

// Start begins the transport's own I/O, then spawns the reader and
// telemetry-emitter goroutines. It returns once both are running;
// callers stop the node with Stop.
func (n *Node) Start(ctx context.Context) error {
	if err := n.Channel.Start(); err != nil {
		return fmt.Errorf("node: start transport: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel

	n.wg.Add(2)
	go func() {
		defer n.wg.Done()
		n.readLoop(runCtx)
	}()
	go func() {
		defer n.wg.Done()
		n.Emitter.Run(runCtx, n.Channel)
	}()

	logging.Log.WithField("node_id", n.LocalID).Info("node: started")
	return nil
}

// Stop cancels the reader and emitter goroutines, waits for them to
// exit, and closes the transport.
func (n *Node) Stop() error {
	if n.cancel != nil {
		n.cancel()
	}
	n.wg.Wait()
	return n.Channel.Stop()
}

// MetricsCollector returns a prometheus.Collector exposing this node's
// ack tracker, router, and FTP sender/receiver counters, labeled with
// the node's address.
func (n *Node) MetricsCollector() *metrics.Collector {
	return metrics.New("lynk", prometheus.Labels{"node_id": fmt.Sprint(n.LocalID)}, n.Tracker, n.Router,
		metrics.WithSender(func() metrics.SenderStats {
			s := n.FTPSender.Stats()
			return metrics.SenderStats{
				ChunksSent: s.ChunksSent, BytesSent: s.BytesSent, Retries: s.Retries,
				TransfersOK: s.TransfersOK, TransfersKO: s.TransfersKO,
			}
		}),
		metrics.WithReceiver(func() metrics.ReceiverStats {
			r := n.FTPReceiver.Stats()
			return metrics.ReceiverStats{
				ChunksReceived: r.ChunksReceived, BytesReceived: r.BytesReceived,
				TransfersFlushed: r.TransfersFlushed, MissingChunkNacks: r.MissingChunkNacks,
			}
		}),
	)
}

// readLoop is the reader goroutine: it continuously drains decoded
// frames off the channel and routes them, polling with a short sleep
// when nothing is queued since Channel.Read never blocks.
func (n *Node) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, ok := n.Channel.Read()
		if !ok {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		n.Router.Route(frame, n.Channel)
	}
}
