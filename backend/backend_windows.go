//go:build windows
// +build windows

// File: backend/backend_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows-style provider built on kernel objects: a duplicated real thread
// HANDLE for identity comparisons, a manual-reset event for completion, and
// a kernel mutex object for mutual exclusion. Ownership of a Windows mutex
// is bound to the OS thread that acquired it while goroutines migrate
// between OS threads, so the goroutine is pinned for exactly the span of
// ownership.

package backend

import (
	"runtime"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/momentics/hioload-threads/api"
)

var (
	kernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procGetThreadId    = kernel32.NewProc("GetThreadId")
	procSwitchToThread = kernel32.NewProc("SwitchToThread")
)

// Pseudo-handle for the calling thread, the constant GetCurrentThread
// returns. Valid only on the thread itself, hence the duplication in Begin.
var pseudoCurrentThread = windows.Handle(^uintptr(1))

// ERROR_OUTOFMEMORY.
const errorOutOfMemory = syscall.Errno(14)

type winProvider struct{}

func newProvider() Provider { return winProvider{} }

// Name implements Provider.
func (winProvider) Name() string { return "win32" }

// ThreadID returns the kernel thread id of the calling OS thread.
func (winProvider) ThreadID() uint64 { return uint64(windows.GetCurrentThreadId()) }

// Yield offers the remainder of the time slice to another ready thread.
// SwitchToThread reports whether a switch happened; running on is not a
// failure, so the result is dropped.
func (winProvider) Yield() error {
	procSwitchToThread.Call()
	return nil
}

// Begin pins the calling goroutine to its OS thread for the goroutine's
// lifetime, duplicates a real handle for the thread, and creates the
// completion event joiners wait on.
func (winProvider) Begin() (Thread, error) {
	runtime.LockOSThread()
	done, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, nativeFailure("CreateEventW", err)
	}
	proc := windows.CurrentProcess()
	var h windows.Handle
	err = windows.DuplicateHandle(proc, pseudoCurrentThread, proc, &h, 0, false, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		windows.CloseHandle(done)
		runtime.UnlockOSThread()
		return nil, nativeFailure("DuplicateHandle", err)
	}
	return &winThread{
		id:     windows.GetCurrentThreadId(),
		handle: h,
		done:   done,
		refs:   2, // thread side + handle side
	}, nil
}

// NewMutex creates an anonymous kernel mutex, initially unowned.
func (winProvider) NewMutex() (Mutex, error) {
	h, err := windows.CreateMutex(nil, false, nil)
	if err != nil {
		return nil, nativeFailure("CreateMutexW", err)
	}
	return &winMutex{handle: h}, nil
}

// winThread holds the duplicated thread handle and the completion event.
// Both close when the last of the two references (the thread itself, and
// the join/detach side) drops.
type winThread struct {
	id     uint32
	handle windows.Handle
	done   windows.Handle
	refs   int32
}

func (t *winThread) release() error {
	if atomic.AddInt32(&t.refs, -1) != 0 {
		return nil
	}
	errHandle := windows.CloseHandle(t.handle)
	errDone := windows.CloseHandle(t.done)
	if errHandle != nil {
		return nativeFailure("CloseHandle", errHandle)
	}
	if errDone != nil {
		return nativeFailure("CloseHandle", errDone)
	}
	return nil
}

// ID implements Thread.
func (t *winThread) ID() uint64 { return uint64(t.id) }

// End signals the completion event and drops the thread-side reference.
func (t *winThread) End() error {
	err := windows.SetEvent(t.done)
	rerr := t.release()
	if err != nil {
		return nativeFailure("SetEvent", err)
	}
	return rerr
}

// Join waits on the completion event, then drops the caller-side reference.
// The reference count keeps the event valid for the whole wait even if the
// thread finishes first.
func (t *winThread) Join() error {
	ret, err := windows.WaitForSingleObject(t.done, windows.INFINITE)
	if ret != windows.WAIT_OBJECT_0 {
		return waitFailure("WaitForSingleObject", ret, err)
	}
	return t.release()
}

// Detach drops the caller-side reference without waiting; the kernel objects
// close once the thread itself finishes.
func (t *winThread) Detach() error {
	return t.release()
}

// EqualTo resolves both handles to kernel thread ids and compares them. A
// resolution failure (for instance on a released handle) surfaces as an
// error and the caller treats the handles as distinct.
func (t *winThread) EqualTo(other Thread) (bool, error) {
	o, ok := other.(*winThread)
	if !ok {
		return false, api.ErrForeignHandle
	}
	ta, err := resolveThreadID(t.handle)
	if err != nil {
		return false, err
	}
	tb, err := resolveThreadID(o.handle)
	if err != nil {
		return false, err
	}
	return ta == tb, nil
}

// resolveThreadID maps a thread HANDLE to its kernel thread id. GetThreadId
// returns 0 on failure with the detail in the last error.
func resolveThreadID(h windows.Handle) (uint32, error) {
	ret, _, callErr := procGetThreadId.Call(uintptr(h))
	if ret == 0 {
		return 0, nativeFailure("GetThreadId", callErr)
	}
	return uint32(ret), nil
}

// winMutex wraps one kernel mutex object.
type winMutex struct {
	handle windows.Handle
}

// Lock acquires the mutex with an unbounded wait. The goroutine is pinned
// before the wait so the acquiring OS thread, which the kernel records as
// owner, stays under the goroutine until Unlock.
func (m *winMutex) Lock() error {
	runtime.LockOSThread()
	ret, err := windows.WaitForSingleObject(m.handle, windows.INFINITE)
	if ret != windows.WAIT_OBJECT_0 {
		runtime.UnlockOSThread()
		return waitFailure("WaitForSingleObject", ret, err)
	}
	return nil
}

// TryLock probes with a zero timeout: WAIT_TIMEOUT means the mutex is held
// and maps to the would-block condition. The probe never waits.
func (m *winMutex) TryLock() error {
	runtime.LockOSThread()
	ret, err := windows.WaitForSingleObject(m.handle, 0)
	if ret != windows.WAIT_OBJECT_0 {
		runtime.UnlockOSThread()
		return waitFailure("WaitForSingleObject", ret, err)
	}
	return nil
}

// Unlock releases the mutex on the owning thread, then unpins.
func (m *winMutex) Unlock() error {
	if err := windows.ReleaseMutex(m.handle); err != nil {
		return nativeFailure("ReleaseMutex", err)
	}
	runtime.UnlockOSThread()
	return nil
}

// Destroy closes the kernel object.
func (m *winMutex) Destroy() error {
	if err := windows.CloseHandle(m.handle); err != nil {
		return nativeFailure("CloseHandle", err)
	}
	return nil
}

// nativeFailure classifies a Win32 error value. Exhaustion codes map to the
// no-memory condition; everything else is a plain failure.
func nativeFailure(op string, err error) *api.NativeError {
	errno, ok := err.(syscall.Errno)
	if !ok {
		return &api.NativeError{Op: op, Cond: api.CondFail}
	}
	cond := api.CondFail
	if errno == windows.ERROR_NOT_ENOUGH_MEMORY || errno == errorOutOfMemory {
		cond = api.CondNoMemory
	}
	return &api.NativeError{Op: op, Cond: cond, Errno: errno}
}

// waitFailure classifies a non-signaled WaitForSingleObject result. The wait
// code itself is the native diagnostic for timeouts and abandonment;
// WAIT_FAILED carries a last-error value instead.
func waitFailure(op string, ret uint32, err error) *api.NativeError {
	if ret == uint32(windows.WAIT_TIMEOUT) {
		return &api.NativeError{Op: op, Cond: api.CondWouldBlock, Errno: syscall.Errno(ret)}
	}
	if ret == windows.WAIT_FAILED && err != nil {
		return nativeFailure(op, err)
	}
	return &api.NativeError{Op: op, Cond: api.CondFail, Errno: syscall.Errno(ret)}
}
