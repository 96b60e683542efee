// Package swarm implements the S-type swarm task frame handler: task
// broadcasts are logged and cached for later inspection, but no
// multi-hop routing or task execution is in scope.
package swarm

import (
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/telemetrycache"
	"github.com/tayfurcnr/lynk/transport"
)

// Handler decodes inbound swarm task frames and records the latest
// one per source in cache. Like telemetry, swarm frames carry no
// ACK/NACK.
type Handler struct {
	cache *telemetrycache.Cache
}

func New(cache *telemetrycache.Cache) *Handler {
	return &Handler{cache: cache}
}

// Route is a router.Handler.
func (h *Handler) Route(frame *protocol.Frame, ch transport.Channel) {
	task, err := payload.DecodeSwarmTask(frame.Payload)
	if err != nil {
		logging.Frame(frame.Type, frame.Src, frame.Dst).WithError(err).Warn("swarm: malformed task payload")
		return
	}

	logging.Frame(frame.Type, frame.Src, frame.Dst).
		WithField("task_id", task.TaskID).
		WithField("leader_id", task.LeaderID).
		Info("swarm: task received")

	h.cache.PutSwarm(frame.Src, task)
}
