package thread_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/thread"
)

// createOrSkip starts a thread or skips the test on platforms without a
// native backend.
func createOrSkip(t *testing.T, entry thread.Entry, arg any) thread.Thread {
	t.Helper()
	h, st := thread.Create(entry, arg)
	if st.Code == api.CodeError && st.Errno == syscall.ENOSYS {
		t.Skip("no native backend on this platform")
	}
	require.True(t, st.Ok(), "thread.Create: %s", st)
	require.True(t, h.Valid())
	return h
}

func TestCreateNilEntry(t *testing.T) {
	h, st := thread.Create(nil, "ignored")
	assert.False(t, h.Valid())
	assert.Equal(t, api.CodeError, st.Code)
	assert.Equal(t, syscall.EINVAL, st.Errno)
}

func TestJoinDeliversReturnCode(t *testing.T) {
	h := createOrSkip(t, func(arg any) int {
		return arg.(int) * 2
	}, 21)

	var code int
	st := thread.Join(h, &code)
	require.True(t, st.Ok(), "join: %s", st)
	assert.Equal(t, 42, code)
	assert.NotZero(t, h.Serial())
}

func TestJoinWithoutOutPointer(t *testing.T) {
	h := createOrSkip(t, func(any) int { return 7 }, nil)
	require.True(t, thread.Join(h, nil).Ok())
}

func TestExitDeliversCodeAndStopsEntry(t *testing.T) {
	ran := make(chan struct{})
	overran := false
	h := createOrSkip(t, func(any) int {
		close(ran)
		thread.Exit(7)
		overran = true // unreachable
		return 9
	}, nil)

	<-ran
	var code int
	require.True(t, thread.Join(h, &code).Ok())
	assert.Equal(t, 7, code)
	assert.False(t, overran, "entry must not continue past Exit")
}

func TestJoinRejectsAdoptedAndZeroHandles(t *testing.T) {
	var code int
	st := thread.Join(thread.Thread{}, &code)
	assert.Equal(t, api.CodeError, st.Code)
	assert.Equal(t, syscall.EINVAL, st.Errno)

	st = thread.Join(thread.Current(), &code)
	assert.Equal(t, api.CodeError, st.Code)
	assert.Equal(t, syscall.EINVAL, st.Errno)

	st = thread.Detach(thread.Thread{})
	assert.Equal(t, api.CodeError, st.Code)
	st = thread.Detach(thread.Current())
	assert.Equal(t, api.CodeError, st.Code)
}

func TestDetachedThreadRunsToCompletion(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	h := createOrSkip(t, func(any) int {
		<-release
		close(finished)
		return 0
	}, nil)

	require.True(t, thread.Detach(h).Ok())
	close(release)

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("detached thread never finished")
	}
}

func TestEqualSameThread(t *testing.T) {
	me := thread.Current()
	assert.True(t, thread.Equal(me, me))
	assert.True(t, thread.Equal(me, thread.Current()),
		"two Current handles for one thread must compare equal")
}

func TestEqualInsideCreatedThread(t *testing.T) {
	handle := make(chan thread.Thread, 1)
	verdict := make(chan bool, 1)
	h := createOrSkip(t, func(any) int {
		verdict <- thread.Equal(thread.Current(), <-handle)
		return 0
	}, nil)
	handle <- h

	assert.True(t, <-verdict, "Current inside a thread must equal its creation handle")
	require.True(t, thread.Join(h, nil).Ok())
}

func TestEqualDistinctThreads(t *testing.T) {
	release := make(chan struct{})
	park := func(any) int {
		<-release
		return 0
	}
	a := createOrSkip(t, park, nil)
	b := createOrSkip(t, park, nil)

	assert.False(t, thread.Equal(a, b))
	assert.False(t, thread.Equal(a, thread.Current()),
		"a library thread and the test goroutine are distinct")

	close(release)
	require.True(t, thread.Join(a, nil).Ok())
	require.True(t, thread.Join(b, nil).Ok())
}

func TestYieldSmoke(t *testing.T) {
	for i := 0; i < 64; i++ {
		thread.Yield()
	}
}

func TestHandleString(t *testing.T) {
	assert.Equal(t, "thread(invalid)", thread.Thread{}.String())
	assert.Contains(t, thread.Current().String(), "goroutine")

	h := createOrSkip(t, func(any) int { return 0 }, nil)
	assert.Contains(t, h.String(), "native")
	require.True(t, thread.Join(h, nil).Ok())
}
