// File: thread/registry.go
// Author: momentics <momentics@gmail.com>
//
// Slot-table registry of live library threads: serial identity, a goroutine
// index for current-thread lookup, live/peak accounting, and an optional
// creation limit. Recycled slot indexes queue FIFO, so the most recently
// freed slot is the last one handed out again.

package thread

import (
	"sync"
	"syscall"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-threads/api"
)

// RegistryStats is a point-in-time view of thread accounting.
type RegistryStats struct {
	Live    int    // running library threads
	Peak    int    // highest Live observed
	Created uint64 // successful creations since process start
	Limit   int    // creation limit, 0 when unbounded
}

// ThreadInfo describes one live library thread for debug probes.
type ThreadInfo struct {
	Serial    uint64
	Goroutine uint64
	Native    uint64
}

type registry struct {
	mu      sync.RWMutex
	table   []*record
	free    *queue.Queue // spare slot indexes
	byGID   map[uint64]*record
	live    int
	peak    int
	created uint64
	limit   int
}

var reg = newRegistry()

func newRegistry() *registry {
	return &registry{
		free:  queue.New(),
		byGID: make(map[uint64]*record),
	}
}

// reserve claims capacity and a slot index for a record about to start. The
// record is not visible to lookups until publish, once its identity fields
// are in place.
func (r *registry) reserve(rec *record) api.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && r.live >= r.limit {
		return api.Status{Code: api.CodeNoMem, Errno: syscall.EAGAIN, Op: "thread_create"}
	}
	if r.free.Length() > 0 {
		rec.slot = r.free.Remove().(int)
	} else {
		rec.slot = len(r.table)
		r.table = append(r.table, nil)
	}
	r.live++
	r.created++
	rec.serial = r.created
	if r.live > r.peak {
		r.peak = r.live
	}
	return api.OK()
}

// publish makes a begun record visible to snapshots and goroutine lookup.
func (r *registry) publish(rec *record) {
	r.mu.Lock()
	r.table[rec.slot] = rec
	r.byGID[rec.gid] = rec
	r.mu.Unlock()
}

// cancel returns a reservation whose thread never began.
func (r *registry) cancel(rec *record) {
	r.mu.Lock()
	r.free.Add(rec.slot)
	rec.slot = -1
	r.live--
	r.mu.Unlock()
}

// retire removes a finishing record. It runs before the backend publishes
// termination, so by the time a joiner resumes the freed capacity is already
// available to Create.
func (r *registry) retire(rec *record) {
	r.mu.Lock()
	r.table[rec.slot] = nil
	r.free.Add(rec.slot)
	rec.slot = -1
	r.live--
	delete(r.byGID, rec.gid)
	r.mu.Unlock()
}

// byGoroutine resolves a library thread from the goroutine running it.
func (r *registry) byGoroutine(gid uint64) *record {
	r.mu.RLock()
	rec := r.byGID[gid]
	r.mu.RUnlock()
	return rec
}

func (r *registry) stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RegistryStats{Live: r.live, Peak: r.peak, Created: r.created, Limit: r.limit}
}

func (r *registry) setLimit(n int) {
	if n < 0 {
		n = 0
	}
	r.mu.Lock()
	r.limit = n
	r.mu.Unlock()
}

// snapshot lists live threads. Only published records appear.
func (r *registry) snapshot() []ThreadInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ThreadInfo, 0, r.live)
	for _, rec := range r.table {
		if rec == nil {
			continue
		}
		out = append(out, ThreadInfo{
			Serial:    rec.serial,
			Goroutine: rec.gid,
			Native:    rec.native.ID(),
		})
	}
	return out
}
