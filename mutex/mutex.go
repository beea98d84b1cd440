// File: mutex/mutex.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutex manager: kind validation, recursion bookkeeping, and resource
// accounting above the native primitive.

package mutex

import (
	"sync/atomic"
	"syscall"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/backend"
	"github.com/momentics/hioload-threads/control"
	"github.com/momentics/hioload-threads/internal/goid"
)

// liveCount tracks mutexes created and not yet destroyed, for leak checks.
var liveCount int64

// Mutex is one mutual-exclusion object with a kind fixed at creation.
type Mutex struct {
	kind   api.Kind
	native backend.Mutex

	// owner is the goroutine holding a recursive mutex, 0 when unowned.
	// depth counts nested acquisitions and is touched only under ownership.
	owner uint64
	depth int32
}

// New creates a mutex of the given kind. KindTimed is rejected with ENOTSUP
// rather than degrading to plain; undefined bits are rejected with EINVAL.
// The handle is valid only when the status is success.
func New(kind api.Kind) (*Mutex, api.Status) {
	if !kind.Defined() {
		return nil, api.Fail("mutex_init", syscall.EINVAL)
	}
	if kind.Has(api.KindTimed) {
		return nil, api.Fail("mutex_init", syscall.ENOTSUP)
	}
	native, err := backend.Get().NewMutex()
	if err != nil {
		return nil, api.Translate("mutex_init", err)
	}
	atomic.AddInt64(&liveCount, 1)
	return &Mutex{kind: kind, native: native}, api.OK()
}

// Kind returns the creation kind.
func (m *Mutex) Kind() api.Kind { return m.kind }

// Lock blocks until the calling thread owns the mutex. On a recursive mutex
// the owner nests without touching the backend. Locking a plain mutex the
// caller already holds is an unchecked precondition.
func (m *Mutex) Lock() api.Status {
	if m == nil || m.native == nil {
		return api.Fail("mutex_lock", syscall.EINVAL)
	}
	if !m.kind.Has(api.KindRecursive) {
		return api.Translate("mutex_lock", m.native.Lock())
	}
	me := goid.Current()
	if atomic.LoadUint64(&m.owner) == me {
		m.depth++
		return api.OK()
	}
	if st := api.Translate("mutex_lock", m.native.Lock()); !st.Ok() {
		return st
	}
	atomic.StoreUint64(&m.owner, me)
	m.depth = 1
	return api.OK()
}

// TryLock acquires the mutex only if that needs no waiting: a mutex held
// elsewhere reports busy immediately. The owner of a recursive mutex nests
// successfully.
func (m *Mutex) TryLock() api.Status {
	if m == nil || m.native == nil {
		return api.Fail("mutex_trylock", syscall.EINVAL)
	}
	if !m.kind.Has(api.KindRecursive) {
		return api.Translate("mutex_trylock", m.native.TryLock())
	}
	me := goid.Current()
	if atomic.LoadUint64(&m.owner) == me {
		m.depth++
		return api.OK()
	}
	if st := api.Translate("mutex_trylock", m.native.TryLock()); !st.Ok() {
		return st
	}
	atomic.StoreUint64(&m.owner, me)
	m.depth = 1
	return api.OK()
}

// Unlock releases one level of ownership. On a recursive mutex only the
// owner may unlock (EPERM otherwise), and the final level clears ownership
// before the native release so the next acquirer never observes a stale
// owner. Unlocking a plain mutex the caller does not hold is an unchecked
// precondition; backends that detect it for free report it.
func (m *Mutex) Unlock() api.Status {
	if m == nil || m.native == nil {
		return api.Fail("mutex_unlock", syscall.EINVAL)
	}
	if !m.kind.Has(api.KindRecursive) {
		return api.Translate("mutex_unlock", m.native.Unlock())
	}
	if atomic.LoadUint64(&m.owner) != goid.Current() {
		return api.Fail("mutex_unlock", syscall.EPERM)
	}
	if m.depth > 1 {
		m.depth--
		return api.OK()
	}
	m.depth = 0
	atomic.StoreUint64(&m.owner, 0)
	return api.Translate("mutex_unlock", m.native.Unlock())
}

// Destroy releases the native primitive. The contract returns nothing, so
// native failures (including a still-held mutex where the backend can see
// that) go to the control tracer. Further use of the handle is rejected
// with EINVAL.
func (m *Mutex) Destroy() {
	if m == nil || m.native == nil {
		return
	}
	if err := m.native.Destroy(); err != nil {
		control.Emit("mutex_destroy", map[string]any{
			"kind": m.kind.String(),
			"err":  err.Error(),
		})
	}
	m.native = nil
	atomic.AddInt64(&liveCount, -1)
}

// Live reports mutexes created and not yet destroyed.
func Live() int64 { return atomic.LoadInt64(&liveCount) }
