// File: thread/adapter.go
// Author: momentics <momentics@gmail.com>
//
// Adapter record between the uniform entry signature and the goroutine
// trampoline. The record owns the user entry and argument for exactly the
// thread's execution; begin-time bindings are released once, by the deferred
// finish, on both the normal-return and Exit-unwind paths.

package thread

import (
	"sync/atomic"

	"github.com/momentics/hioload-threads/backend"
	"github.com/momentics/hioload-threads/control"
	"github.com/momentics/hioload-threads/internal/goid"
)

type record struct {
	serial uint64 // creation number, 1-based; 0 on adopted handles
	slot   int    // registry slot, -1 once retired or for adopted handles
	gid    uint64 // goroutine running the thread
	native backend.Thread
	entry  Entry
	arg    any
	code   int64 // exit code, read and written atomically
}

// main is the trampoline every created thread runs. It begins the native
// thread, publishes the record, reports the begin outcome to Create, and
// only then enters the user entry.
func (r *record) main(started chan<- beginResult) {
	native, err := backend.Get().Begin()
	if err != nil {
		started <- beginResult{err: err}
		return
	}
	r.native = native
	r.gid = goid.Current()
	reg.publish(r)
	started <- beginResult{}

	defer r.finish()
	code := r.entry(r.arg)
	atomic.StoreInt64(&r.code, int64(code))
}

// finish releases everything begin bound, exactly once. Retiring the
// registry entry first keeps an ordering joiners rely on: when a join
// returns, the finished thread's capacity is already reusable.
func (r *record) finish() {
	reg.retire(r)
	r.entry = nil
	r.arg = nil
	if err := r.native.End(); err != nil {
		control.Emit("thread_end", map[string]any{
			"serial": r.serial,
			"err":    err.Error(),
		})
	}
}

type beginResult struct {
	err error
}
