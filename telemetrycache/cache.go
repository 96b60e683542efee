// Package telemetrycache holds the most recent telemetry sample this
// node has observed from each peer, keyed by (src, kind). It stands in
// for the real mission-side telemetry store, which is out of scope for
// this runtime; the telemetry and swarm frame handlers write into it,
// and callers read it through Get, GetSwarm and Snapshot.
package telemetrycache

import (
	"sync"
	"time"

	"github.com/tayfurcnr/lynk/payload"
)

// Record pairs a decoded telemetry sample with the time it was
// observed, for staleness checks by callers.
type Record struct {
	Telemetry payload.Telemetry
	Src       uint8
	At        time.Time
}

type key struct {
	src  uint8
	kind payload.TelemetryKind
}

// kindSwarm is a synthetic TelemetryKind value reserved for swarm
// tasks. Nothing is stored under it: PutSwarm keeps the last-seen task
// per src in the Cache's separate swarm map, so swarm tasks share this
// Cache without entering the (src, kind) telemetry entries.
const kindSwarm payload.TelemetryKind = 0xFE

// SwarmRecord is the last swarm task observed from a given src.
type SwarmRecord struct {
	Task payload.SwarmTask
	Src  uint8
	At   time.Time
}

// Cache is a thread-safe keyed map of the latest Record per
// (src, kind).
type Cache struct {
	mu      sync.RWMutex
	entries map[key]Record
	swarm   map[uint8]SwarmRecord
}

func New() *Cache {
	return &Cache{entries: make(map[key]Record), swarm: make(map[uint8]SwarmRecord)}
}

// PutSwarm records t as the latest swarm task observed from src.
func (c *Cache) PutSwarm(src uint8, t payload.SwarmTask) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swarm[src] = SwarmRecord{Task: t, Src: src, At: time.Now()}
}

// GetSwarm returns the latest swarm task from src, if any.
func (c *Cache) GetSwarm(src uint8) (SwarmRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.swarm[src]
	return r, ok
}

// Put records t as the latest sample from src.
func (c *Cache) Put(src uint8, t payload.Telemetry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key{src, t.Kind}] = Record{Telemetry: t, Src: src, At: time.Now()}
}

// Get returns the latest sample of kind from src, if any.
func (c *Cache) Get(src uint8, kind payload.TelemetryKind) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key{src, kind}]
	return r, ok
}

// Snapshot returns a copy of every tracked telemetry record; swarm
// records are not included.
func (c *Cache) Snapshot() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, 0, len(c.entries))
	for _, r := range c.entries {
		out = append(out, r)
	}
	return out
}

// Len reports how many (src, kind) pairs are currently tracked.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
