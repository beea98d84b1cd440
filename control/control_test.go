package control_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/control"
)

type captureTracer struct {
	mu     sync.Mutex
	events []string
	fields []map[string]any
}

var _ api.Tracer = (*captureTracer)(nil)

func (c *captureTracer) Event(op string, fields map[string]any) {
	c.mu.Lock()
	c.events = append(c.events, op)
	c.fields = append(c.fields, fields)
	c.mu.Unlock()
}

func TestTracerSlot(t *testing.T) {
	defer control.SetTracer(nil)

	require.NotNil(t, control.CurrentTracer())

	ct := &captureTracer{}
	control.SetTracer(ct)
	control.Emit("probe_op", map[string]any{"k": 1})

	require.Len(t, ct.events, 1)
	assert.Equal(t, "probe_op", ct.events[0])
	assert.Equal(t, 1, ct.fields[0]["k"])

	control.SetTracer(nil)
	control.Emit("dropped", nil)
	assert.Len(t, ct.events, 1)
}

func TestMetricsRegistry(t *testing.T) {
	mr := control.NewMetricsRegistry()
	assert.Empty(t, mr.GetSnapshot())
	assert.True(t, mr.Updated().IsZero())

	mr.Set("backend", "posix")
	assert.Equal(t, int64(3), mr.Add("ops", 3))
	assert.Equal(t, int64(5), mr.Add("ops", 2))

	snap := mr.GetSnapshot()
	assert.Equal(t, "posix", snap["backend"])
	assert.Equal(t, int64(5), snap["ops"])
	assert.False(t, mr.Updated().IsZero())

	// A non-counter value restarts the counter.
	mr.Set("ops", "text")
	assert.Equal(t, int64(1), mr.Add("ops", 1))
}

func TestDebugProbes(t *testing.T) {
	dp := control.NewDebugProbes()
	dp.RegisterProbe("threads.live", func() any { return 7 })
	dp.RegisterProbe("backend.name", func() any { return "posix" })

	assert.Equal(t, []string{"backend.name", "threads.live"}, dp.Names())

	state := dp.DumpState()
	assert.Equal(t, 7, state["threads.live"])
	assert.Equal(t, "posix", state["backend.name"])
}

func TestPlatformProbes(t *testing.T) {
	dp := control.NewDebugProbes()
	control.RegisterPlatformProbes(dp)

	state := dp.DumpState()
	cpus, ok := state["platform.cpus"].(int)
	require.True(t, ok, "platform.cpus probe missing")
	assert.Greater(t, cpus, 0)
}

func TestConfigStoreReload(t *testing.T) {
	cs := control.NewConfigStore()

	applied := 0
	var limit int
	cs.OnReload(func() {
		applied++
		if v, ok := cs.Get("threads.limit"); ok {
			limit = v.(int)
		}
	})

	cs.SetConfig(map[string]any{"threads.limit": 32, "scenario": "soak"})
	assert.Equal(t, 1, applied, "listener must run synchronously")
	assert.Equal(t, 32, limit)

	cs.SetConfig(map[string]any{"threads.limit": 8})
	assert.Equal(t, 2, applied)
	assert.Equal(t, 8, limit)

	snap := cs.GetSnapshot()
	assert.Equal(t, 8, snap["threads.limit"])
	assert.Equal(t, "soak", snap["scenario"])
}

func TestHotReloadHooksSync(t *testing.T) {
	var order []int
	control.RegisterReloadHook(func() { order = append(order, 1) })
	control.RegisterReloadHook(func() { order = append(order, 2) })

	control.TriggerHotReloadSync()
	assert.Equal(t, []int{1, 2}, order)
}
