// File: adapters/logrus_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package adapters provides glue code between the api contracts and
// external infrastructure. The logrus adapter turns tracer events into
// structured log entries so native-layer failures surface in a process
// log without the core packages importing a logging library.

package adapters

import (
	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-threads/api"
)

// LogrusTracer implements api.Tracer on a logrus logger. Every event
// becomes one warning-level entry with the operation under the "op" field
// and the event fields attached verbatim.
type LogrusTracer struct {
	logger *logrus.Logger
}

// NewLogrusTracer wraps logger as a tracer. A nil logger falls back to the
// logrus standard logger.
func NewLogrusTracer(logger *logrus.Logger) *LogrusTracer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusTracer{logger: logger}
}

// Event logs one native-layer event.
func (t *LogrusTracer) Event(op string, fields map[string]any) {
	entry := t.logger.WithField("op", op)
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	entry.Warn("native layer event")
}

var _ api.Tracer = (*LogrusTracer)(nil)
