// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime control plane of hioload-threads: the process-wide diagnostic
// tracer slot, runtime metrics, configuration snapshots with reload
// propagation, and debug probe registration.
//
// The core thread and mutex paths never log; operations whose public
// contract has no failure channel report native diagnostics through the
// tracer installed here. Everything in this package is concurrency-safe.
package control
