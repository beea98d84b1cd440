//go:build linux
// +build linux

package mutex_test

import (
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/control"
	"github.com/momentics/hioload-threads/mutex"
)

type opTracer struct {
	mu  sync.Mutex
	ops []string
}

func (tr *opTracer) Event(op string, fields map[string]any) {
	tr.mu.Lock()
	tr.ops = append(tr.ops, op)
	tr.mu.Unlock()
}

func (tr *opTracer) seen(op string) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for _, o := range tr.ops {
		if o == op {
			return true
		}
	}
	return false
}

func TestPlainUnlockWhenFree(t *testing.T) {
	m := newMutex(t, api.KindPlain)
	defer m.Destroy()

	st := m.Unlock()
	assert.Equal(t, api.CodeError, st.Code)
	assert.Equal(t, syscall.EPERM, st.Errno)
}

func TestDestroyWhileHeldIsTraced(t *testing.T) {
	tr := &opTracer{}
	control.SetTracer(tr)
	defer control.SetTracer(nil)

	baseline := mutex.Live()
	m := newMutex(t, api.KindPlain)
	require.True(t, m.Lock().Ok())

	m.Destroy()

	assert.True(t, tr.seen("mutex_destroy"), "held-mutex teardown must leave a trace event")
	assert.Equal(t, baseline, mutex.Live(), "handle is retired even when the native release fails")
	assert.Equal(t, api.CodeError, m.Lock().Code, "destroyed handle stays dead")
}
