// File: control/tracer.go
// Author: momentics <momentics@gmail.com>
//
// Process-wide tracer slot. Void-contract operations (mutex destroy, yield)
// and non-fatal native lookups report here; the default tracer discards.

package control

import (
	"sync"

	"github.com/momentics/hioload-threads/api"
)

var (
	tracerMu sync.RWMutex
	tracer   api.Tracer = api.NopTracer{}
)

// SetTracer installs the diagnostic tracer. Nil restores the discarding
// default.
func SetTracer(tr api.Tracer) {
	if tr == nil {
		tr = api.NopTracer{}
	}
	tracerMu.Lock()
	tracer = tr
	tracerMu.Unlock()
}

// CurrentTracer returns the installed tracer.
func CurrentTracer() api.Tracer {
	tracerMu.RLock()
	defer tracerMu.RUnlock()
	return tracer
}

// Emit forwards one diagnostic event to the installed tracer.
func Emit(op string, fields map[string]any) {
	CurrentTracer().Event(op, fields)
}
