// File: backend/backend.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral contract of the native primitive provider. Exactly one
// implementation is linked into a build; the managers above depend only on
// these interfaces.

package backend

import "sync"

// Provider is the primitive set of the build target. Begin and NewMutex hand
// out per-object state; ThreadID and Yield act on the calling thread.
type Provider interface {
	// Name reports which primitive set drives this provider.
	Name() string

	// ThreadID returns the native identifier of the calling OS thread.
	ThreadID() uint64

	// Yield hints the native scheduler to run other ready threads.
	Yield() error

	// Begin binds the calling goroutine to its OS thread for the lifetime of
	// the goroutine and returns the native state of the new thread: identity
	// plus the completion primitive joiners will wait on. It runs on the new
	// unit before its entry function.
	Begin() (Thread, error)

	// NewMutex creates one native mutual-exclusion primitive, initially free.
	NewMutex() (Mutex, error)
}

// Thread is the native state of one library-created thread.
type Thread interface {
	// ID returns the native thread identifier captured at Begin.
	ID() uint64

	// End publishes termination to joiners and drops the thread-side native
	// reference. Called exactly once, on the thread itself, after its entry
	// function has returned or unwound.
	End() error

	// Join blocks the caller until End has been observed, then drops the
	// caller-side native reference.
	Join() error

	// Detach drops the caller-side native reference without waiting.
	Detach() error

	// EqualTo reports whether the other handle resolves to the same native
	// thread.
	EqualTo(other Thread) (bool, error)
}

// Mutex is one native mutual-exclusion primitive. Lock and TryLock failures
// arrive as classified native errors; TryLock reports a held mutex as a
// would-block condition and never waits.
type Mutex interface {
	Lock() error
	TryLock() error
	Unlock() error
	Destroy() error
}

var (
	once sync.Once
	prov Provider
)

// Get returns the process-wide provider for the build target.
func Get() Provider {
	once.Do(func() {
		prov = newProvider()
	})
	return prov
}
