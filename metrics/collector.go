// Package metrics exposes the mesh node's internal counters as a
// single prometheus.Collector, following the Describe/Collect shape
// of TCPInfoCollector: a fixed set of descriptors built once at
// construction time, and values pulled live from the running
// components at scrape time rather than pushed as they change.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tayfurcnr/lynk/ack"
	"github.com/tayfurcnr/lynk/router"
)

// SenderStats and ReceiverStats mirror ftp.SenderStats / ftp.ReceiverStats
// without importing the ftp package directly, so a node that only sends
// or only receives files can supply just the stats it has rather than
// dragging in the whole engine as a collector dependency.
type SenderStats struct {
	ChunksSent  uint64
	BytesSent   uint64
	Retries     uint64
	TransfersOK uint64
	TransfersKO uint64
}

type ReceiverStats struct {
	ChunksReceived    uint64
	BytesReceived     uint64
	TransfersFlushed  uint64
	MissingChunkNacks uint64
}

type descSet struct {
	trackerEntries *prometheus.Desc

	routerRouted          *prometheus.Desc
	routerDroppedWrongDst *prometheus.Desc
	routerDroppedNoRoute  *prometheus.Desc
	routerRecovered       *prometheus.Desc

	ftpChunksSent    *prometheus.Desc
	ftpBytesSent     *prometheus.Desc
	ftpRetries       *prometheus.Desc
	ftpTransfersOK   *prometheus.Desc
	ftpTransfersKO   *prometheus.Desc
	ftpChunksRecv    *prometheus.Desc
	ftpBytesRecv     *prometheus.Desc
	ftpFlushed       *prometheus.Desc
	ftpMissingNacks  *prometheus.Desc
}

func buildDescs(prefix string, constLabels prometheus.Labels) descSet {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prefix+"_"+name, help, nil, constLabels)
	}
	return descSet{
		trackerEntries: desc("ack_tracker_entries", "Number of (name, dst) entries currently tracked in the ack tracker."),

		routerRouted:          desc("router_routed_total", "Frames successfully dispatched to a registered handler."),
		routerDroppedWrongDst: desc("router_dropped_wrong_dst_total", "Frames dropped because dst matched neither local id nor broadcast."),
		routerDroppedNoRoute:  desc("router_dropped_no_route_total", "Frames dropped because no handler is registered for the frame type."),
		routerRecovered:       desc("router_recovered_panics_total", "Panics recovered from frame handlers."),

		ftpChunksSent:   desc("ftp_chunks_sent_total", "File-transfer chunks successfully acked by the sender."),
		ftpBytesSent:    desc("ftp_bytes_sent_total", "File-transfer payload bytes successfully acked by the sender."),
		ftpRetries:      desc("ftp_send_retries_total", "File-transfer chunk send attempts beyond the first; START and END resends are not counted."),
		ftpTransfersOK:  desc("ftp_transfers_completed_total", "File transfers that reached DONE."),
		ftpTransfersKO:  desc("ftp_transfers_failed_total", "File transfers that reached FAILED."),
		ftpChunksRecv:   desc("ftp_chunks_received_total", "File-transfer chunks accepted by the receiver."),
		ftpBytesRecv:    desc("ftp_bytes_received_total", "File-transfer payload bytes accepted by the receiver."),
		ftpFlushed:      desc("ftp_transfers_flushed_total", "File transfers flushed to disk by the receiver."),
		ftpMissingNacks: desc("ftp_missing_chunk_nacks_total", "CHUNK nacks sent by the receiver for chunks missing at END."),
	}
}

// Collector adapts the ack tracker, router, and (optionally) an FTP
// sender and/or receiver into a single prometheus.Collector. Either
// ftp source may be nil on a node that only plays one FTP role.
type Collector struct {
	tracker  *ack.Tracker
	router   *router.Router
	sender   func() SenderStats
	receiver func() ReceiverStats
	descs    descSet
}

// Option configures an optional metrics source on a Collector.
type Option func(*Collector)

// WithSender attaches an FTP sender stats source, typically ftpSender.Stats
// wrapped to match the SenderStats shape declared in this package.
func WithSender(stats func() SenderStats) Option {
	return func(c *Collector) { c.sender = stats }
}

// WithReceiver attaches an FTP receiver stats source.
func WithReceiver(stats func() ReceiverStats) Option {
	return func(c *Collector) { c.receiver = stats }
}

// New returns a Collector reading live counters from tracker and r,
// under metric names prefixed with prefix and tagged with constLabels
// (typically the node's vehicle id), mirroring NewTCPInfoCollector's
// (prefix, labels, ...) constructor shape.
func New(prefix string, constLabels prometheus.Labels, tracker *ack.Tracker, r *router.Router, opts ...Option) *Collector {
	c := &Collector{
		tracker: tracker,
		router:  r,
		descs:   buildDescs(prefix, constLabels),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collector) Describe(out chan<- *prometheus.Desc) {
	d := c.descs
	out <- d.trackerEntries
	out <- d.routerRouted
	out <- d.routerDroppedWrongDst
	out <- d.routerDroppedNoRoute
	out <- d.routerRecovered
	out <- d.ftpChunksSent
	out <- d.ftpBytesSent
	out <- d.ftpRetries
	out <- d.ftpTransfersOK
	out <- d.ftpTransfersKO
	out <- d.ftpChunksRecv
	out <- d.ftpBytesRecv
	out <- d.ftpFlushed
	out <- d.ftpMissingNacks
}

func (c *Collector) Collect(out chan<- prometheus.Metric) {
	d := c.descs

	out <- prometheus.MustNewConstMetric(d.trackerEntries, prometheus.GaugeValue, float64(c.tracker.Len()))

	rs := c.router.Stats()
	out <- prometheus.MustNewConstMetric(d.routerRouted, prometheus.CounterValue, float64(rs.Routed))
	out <- prometheus.MustNewConstMetric(d.routerDroppedWrongDst, prometheus.CounterValue, float64(rs.DroppedWrongDst))
	out <- prometheus.MustNewConstMetric(d.routerDroppedNoRoute, prometheus.CounterValue, float64(rs.DroppedNoRoute))
	out <- prometheus.MustNewConstMetric(d.routerRecovered, prometheus.CounterValue, float64(rs.Recovered))

	if c.sender != nil {
		ss := c.sender()
		out <- prometheus.MustNewConstMetric(d.ftpChunksSent, prometheus.CounterValue, float64(ss.ChunksSent))
		out <- prometheus.MustNewConstMetric(d.ftpBytesSent, prometheus.CounterValue, float64(ss.BytesSent))
		out <- prometheus.MustNewConstMetric(d.ftpRetries, prometheus.CounterValue, float64(ss.Retries))
		out <- prometheus.MustNewConstMetric(d.ftpTransfersOK, prometheus.CounterValue, float64(ss.TransfersOK))
		out <- prometheus.MustNewConstMetric(d.ftpTransfersKO, prometheus.CounterValue, float64(ss.TransfersKO))
	}

	if c.receiver != nil {
		rcv := c.receiver()
		out <- prometheus.MustNewConstMetric(d.ftpChunksRecv, prometheus.CounterValue, float64(rcv.ChunksReceived))
		out <- prometheus.MustNewConstMetric(d.ftpBytesRecv, prometheus.CounterValue, float64(rcv.BytesReceived))
		out <- prometheus.MustNewConstMetric(d.ftpFlushed, prometheus.CounterValue, float64(rcv.TransfersFlushed))
		out <- prometheus.MustNewConstMetric(d.ftpMissingNacks, prometheus.CounterValue, float64(rcv.MissingChunkNacks))
	}
}
