//go:build linux
// +build linux

// File: backend/backend_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// POSIX-style provider built on Linux primitives: gettid(2) for identity,
// sched_yield(2) for yielding, and futex(2) words for both thread completion
// and mutual exclusion. The mutex is the classic three-state futex lock
// (free, locked, contended); the contended state keeps wake syscalls off the
// uncontended path.

package backend

import (
	"math"
	"runtime"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-threads/api"
)

// Private futex operations. Process-local words never need the cross-process
// hash buckets, so both operations carry FUTEX_PRIVATE_FLAG.
const (
	futexPrivateFlag = 128
	futexOpWait      = 0 | futexPrivateFlag
	futexOpWake      = 1 | futexPrivateFlag
)

type posixProvider struct{}

func newProvider() Provider { return posixProvider{} }

// Name implements Provider.
func (posixProvider) Name() string { return "posix" }

// ThreadID returns the kernel task id of the calling OS thread.
func (posixProvider) ThreadID() uint64 { return uint64(unix.Gettid()) }

// Yield asks the kernel to reschedule the calling thread.
func (posixProvider) Yield() error {
	if _, _, errno := unix.Syscall(unix.SYS_SCHED_YIELD, 0, 0, 0); errno != 0 {
		return &api.NativeError{Op: "sched_yield", Cond: api.CondFail, Errno: errno}
	}
	return nil
}

// Begin pins the calling goroutine to its OS thread and captures identity.
// The pin is never undone: the goroutine and the kernel thread share a
// lifetime, so goroutine exit terminates the thread.
func (posixProvider) Begin() (Thread, error) {
	runtime.LockOSThread()
	return &posixThread{tid: uint32(unix.Gettid())}, nil
}

// NewMutex creates a free futex mutex.
func (posixProvider) NewMutex() (Mutex, error) {
	return &futexMutex{}, nil
}

// posixThread carries the kernel task id and the completion word joiners
// futex-wait on. The word moves 0 -> 1 exactly once.
type posixThread struct {
	tid  uint32
	done uint32
}

// ID implements Thread.
func (t *posixThread) ID() uint64 { return uint64(t.tid) }

// End publishes termination and wakes every joiner.
func (t *posixThread) End() error {
	atomic.StoreUint32(&t.done, 1)
	if errno := futexWake(&t.done, math.MaxInt32); errno != 0 {
		return &api.NativeError{Op: "futex_wake", Cond: api.CondFail, Errno: errno}
	}
	return nil
}

// Join waits for the completion word. EINTR and EAGAIN restart the wait:
// EAGAIN means the word already changed under us, and the loop condition
// settles it.
func (t *posixThread) Join() error {
	for atomic.LoadUint32(&t.done) == 0 {
		errno := futexWait(&t.done, 0)
		if errno != 0 && errno != unix.EINTR && errno != unix.EAGAIN {
			return &api.NativeError{Op: "futex_wait", Cond: api.CondFail, Errno: errno}
		}
	}
	return nil
}

// Detach has no native work: nothing is held besides the completion word,
// which the garbage collector reclaims with the record.
func (t *posixThread) Detach() error { return nil }

// EqualTo compares kernel task ids.
func (t *posixThread) EqualTo(other Thread) (bool, error) {
	o, ok := other.(*posixThread)
	if !ok {
		return false, api.ErrForeignHandle
	}
	return t.tid == o.tid, nil
}

// Lock states of the futex mutex.
const (
	mutexFree      = 0
	mutexLocked    = 1
	mutexContended = 2
)

type futexMutex struct {
	state uint32
}

// Lock acquires the mutex, sleeping in the kernel under contention. Once any
// waiter exists the state stays contended until a fully quiet unlock, which
// is the standard trade of one possibly spurious wake for a minimal state
// machine.
func (m *futexMutex) Lock() error {
	if atomic.CompareAndSwapUint32(&m.state, mutexFree, mutexLocked) {
		return nil
	}
	for atomic.SwapUint32(&m.state, mutexContended) != mutexFree {
		errno := futexWait(&m.state, mutexContended)
		if errno != 0 && errno != unix.EINTR && errno != unix.EAGAIN {
			return &api.NativeError{Op: "futex_wait", Cond: api.CondFail, Errno: errno}
		}
	}
	return nil
}

// TryLock is one compare-and-swap; a held mutex reports would-block without
// entering the kernel.
func (m *futexMutex) TryLock() error {
	if atomic.CompareAndSwapUint32(&m.state, mutexFree, mutexLocked) {
		return nil
	}
	return &api.NativeError{Op: "trylock", Cond: api.CondWouldBlock, Errno: unix.EBUSY}
}

// Unlock releases the mutex and wakes one waiter if the state was contended.
// Releasing a free mutex is an ownership violation by the caller; it is
// reported rather than erased.
func (m *futexMutex) Unlock() error {
	switch atomic.SwapUint32(&m.state, mutexFree) {
	case mutexContended:
		if errno := futexWake(&m.state, 1); errno != 0 {
			return &api.NativeError{Op: "futex_wake", Cond: api.CondFail, Errno: errno}
		}
	case mutexFree:
		return &api.NativeError{Op: "unlock", Cond: api.CondFail, Errno: unix.EPERM}
	}
	return nil
}

// Destroy verifies the mutex is free. There is no kernel object to release;
// a non-free state means some thread holds or waits on it.
func (m *futexMutex) Destroy() error {
	if atomic.LoadUint32(&m.state) != mutexFree {
		return &api.NativeError{Op: "destroy", Cond: api.CondFail, Errno: unix.EBUSY}
	}
	return nil
}

func futexWait(addr *uint32, val uint32) syscall.Errno {
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)), futexOpWait, uintptr(val), 0, 0, 0)
	return errno
}

func futexWake(addr *uint32, count int) syscall.Errno {
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)), futexOpWake, uintptr(count), 0, 0, 0)
	return errno
}
