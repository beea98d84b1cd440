// File: thread/thread.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable thread lifecycle surface over the build-selected backend.

package thread

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"syscall"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/backend"
	"github.com/momentics/hioload-threads/control"
	"github.com/momentics/hioload-threads/internal/goid"
)

// Entry is the uniform thread entry signature: one untyped argument in, a
// signed exit code out.
type Entry func(arg any) int

// Thread is a handle to one thread. Handles are small copyable values; the
// zero Thread is invalid. Two handles for the same thread need not be
// identical, so comparison goes through Equal.
type Thread struct {
	rec *record
}

// Valid reports whether the handle references a thread.
func (t Thread) Valid() bool { return t.rec != nil }

// Serial returns the library creation number, 0 for adopted or zero handles.
func (t Thread) Serial() uint64 {
	if t.rec == nil {
		return 0
	}
	return t.rec.serial
}

// String renders the handle for logs.
func (t Thread) String() string {
	switch {
	case t.rec == nil:
		return "thread(invalid)"
	case t.rec.native == nil:
		return fmt.Sprintf("thread(goroutine %d)", t.rec.gid)
	default:
		return fmt.Sprintf("thread(#%d native %d)", t.rec.serial, t.rec.native.ID())
	}
}

// Create starts a thread running entry(arg). The handle is populated only
// when the status is success. Create returns after the thread has begun, so
// a successful creation is immediately joinable. A nil entry is rejected
// with EINVAL; a full registry reports no-memory with EAGAIN.
func Create(entry Entry, arg any) (Thread, api.Status) {
	if entry == nil {
		return Thread{}, api.Fail("thread_create", syscall.EINVAL)
	}
	rec := &record{entry: entry, arg: arg, slot: -1}
	if st := reg.reserve(rec); !st.Ok() {
		return Thread{}, st
	}
	started := make(chan beginResult, 1)
	go rec.main(started)
	if res := <-started; res.err != nil {
		reg.cancel(rec)
		return Thread{}, api.Translate("thread_begin", res.err)
	}
	return Thread{rec: rec}, api.OK()
}

// Current returns a handle to the calling thread; it always succeeds. On a
// goroutine the library did not create it returns an adopted handle, which
// carries identity for Equal but is not joinable or detachable.
func Current() Thread {
	gid := goid.Current()
	if rec := reg.byGoroutine(gid); rec != nil {
		return Thread{rec: rec}
	}
	return Thread{rec: &record{slot: -1, gid: gid}}
}

// Equal reports whether two handles denote the same thread. Library-born
// handles compare through the backend; a native lookup failure is traced
// and treated as non-equal. Everything else compares by goroutine identity.
func Equal(a, b Thread) bool {
	ra, rb := a.rec, b.rec
	if ra == nil || rb == nil {
		return ra == rb
	}
	if ra == rb {
		return true
	}
	if ra.native != nil && rb.native != nil {
		eq, err := ra.native.EqualTo(rb.native)
		if err != nil {
			control.Emit("thread_equal", map[string]any{"err": err.Error()})
			return false
		}
		return eq
	}
	return ra.gid == rb.gid
}

// Join blocks until the thread terminates, then writes its exit code to out
// when out is non-nil. Joining twice, joining a detached thread, and joining
// yourself are unchecked preconditions. Adopted and zero handles are
// rejected with EINVAL.
func Join(t Thread, out *int) api.Status {
	rec := t.rec
	if rec == nil || rec.native == nil {
		return api.Fail("thread_join", syscall.EINVAL)
	}
	if st := api.Translate("thread_join", rec.native.Join()); !st.Ok() {
		return st
	}
	if out != nil {
		*out = int(atomic.LoadInt64(&rec.code))
	}
	return api.OK()
}

// Detach releases the library's obligation to join; the thread continues
// independently and its native references drop once it finishes. Detaching
// twice or detaching after join is an unchecked precondition.
func Detach(t Thread) api.Status {
	rec := t.rec
	if rec == nil || rec.native == nil {
		return api.Fail("thread_detach", syscall.EINVAL)
	}
	return api.Translate("thread_detach", rec.native.Detach())
}

// Exit terminates the calling thread, making code available to a joiner,
// and never returns. The trampoline's deferred finish still runs, so
// termination is published and bindings are released exactly once. On a
// goroutine the library did not create, Exit unwinds the goroutine with no
// code channel.
func Exit(code int) {
	if rec := reg.byGoroutine(goid.Current()); rec != nil {
		atomic.StoreInt64(&rec.code, int64(code))
	}
	runtime.Goexit()
}

// Yield hints the native scheduler to run other ready threads. The contract
// has no status channel; a native failure goes to the tracer.
func Yield() {
	if err := backend.Get().Yield(); err != nil {
		control.Emit("thread_yield", map[string]any{"err": err.Error()})
	}
}

// SetLimit bounds concurrently live library threads; 0 removes the bound.
// Create reports no-memory once the bound is reached.
func SetLimit(n int) { reg.setLimit(n) }

// Stats returns current thread accounting.
func Stats() RegistryStats { return reg.stats() }

// Snapshot lists live library threads for debug probes.
func Snapshot() []ThreadInfo { return reg.snapshot() }
