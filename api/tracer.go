// File: api/tracer.go
// Author: momentics <momentics@gmail.com>
//
// Structured diagnostic event contract.
//
// Operations whose public contract carries no failure channel (mutex destroy,
// yield) and non-fatal native lookups report detail through a Tracer instead
// of shared mutable error state.

package api

// Tracer receives diagnostic events from void-contract operations.
type Tracer interface {
	// Event records one named diagnostic with structured fields.
	Event(op string, fields map[string]any)
}

// NopTracer discards every event. It is the default tracer.
type NopTracer struct{}

// Event implements Tracer.
func (NopTracer) Event(string, map[string]any) {}
