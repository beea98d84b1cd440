package backend_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/backend"
)

func TestPosixProviderIdentity(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	prov := backend.Get()
	assert.Equal(t, "posix", prov.Name())
	id := prov.ThreadID()
	require.NotZero(t, id)
	assert.Equal(t, id, prov.ThreadID())
	assert.NoError(t, prov.Yield())
}

func TestFutexMutexExclusion(t *testing.T) {
	m, err := backend.Get().NewMutex()
	require.NoError(t, err)

	const workers = 16
	const iters = 500
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				if !assert.NoError(t, m.Lock()) {
					return
				}
				counter++
				if !assert.NoError(t, m.Unlock()) {
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("contention run timed out")
	}

	assert.Equal(t, workers*iters, counter)
	require.NoError(t, m.Destroy())
}

func TestFutexTryLockNonBlocking(t *testing.T) {
	m, err := backend.Get().NewMutex()
	require.NoError(t, err)
	require.NoError(t, m.Lock())

	start := time.Now()
	err = m.TryLock()
	elapsed := time.Since(start)

	var ne *api.NativeError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, api.CondWouldBlock, ne.Cond)
	assert.Equal(t, unix.EBUSY, ne.Errno)
	assert.Less(t, elapsed, time.Second, "trylock on a held mutex must not wait")

	require.NoError(t, m.Unlock())
	require.NoError(t, m.TryLock())
	require.NoError(t, m.Unlock())
	require.NoError(t, m.Destroy())
}

func TestFutexUnlockOfFreeMutex(t *testing.T) {
	m, err := backend.Get().NewMutex()
	require.NoError(t, err)

	var ne *api.NativeError
	require.ErrorAs(t, m.Unlock(), &ne)
	assert.Equal(t, unix.EPERM, ne.Errno)
}

func TestFutexDestroyWhileHeld(t *testing.T) {
	m, err := backend.Get().NewMutex()
	require.NoError(t, err)
	require.NoError(t, m.Lock())

	var ne *api.NativeError
	require.ErrorAs(t, m.Destroy(), &ne)
	assert.Equal(t, unix.EBUSY, ne.Errno)

	require.NoError(t, m.Unlock())
	require.NoError(t, m.Destroy())
}

// beginThread starts a unit that begins a native thread, hands it out, and
// ends it when release closes.
func beginThread(t *testing.T, release <-chan struct{}) backend.Thread {
	t.Helper()
	ready := make(chan backend.Thread, 1)
	go func() {
		th, err := backend.Get().Begin()
		if !assert.NoError(t, err) {
			ready <- nil
			return
		}
		ready <- th
		<-release
		assert.NoError(t, th.End())
	}()
	th := <-ready
	require.NotNil(t, th)
	return th
}

func TestPosixThreadJoinObservesEnd(t *testing.T) {
	release := make(chan struct{})
	th := beginThread(t, release)
	assert.NotZero(t, th.ID())

	joined := make(chan error, 1)
	go func() { joined <- th.Join() }()

	select {
	case err := <-joined:
		t.Fatalf("join returned before the thread ended: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-joined:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("join did not observe completion")
	}
}

func TestPosixThreadEquality(t *testing.T) {
	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	defer close(releaseA)
	defer close(releaseB)

	a := beginThread(t, releaseA)
	b := beginThread(t, releaseB)

	eq, err := a.EqualTo(a)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = a.EqualTo(b)
	require.NoError(t, err)
	assert.False(t, eq)
}
