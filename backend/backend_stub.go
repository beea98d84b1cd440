//go:build !linux && !windows
// +build !linux,!windows

// File: backend/backend_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub provider for unsupported platforms. Every primitive operation fails
// with ENOSYS so callers observe platform absence through the ordinary
// result taxonomy instead of a build break.

package backend

import (
	"syscall"

	"github.com/momentics/hioload-threads/api"
)

type stubProvider struct{}

func newProvider() Provider { return stubProvider{} }

// Name implements Provider.
func (stubProvider) Name() string { return "unsupported" }

// ThreadID implements Provider.
func (stubProvider) ThreadID() uint64 { return 0 }

// Yield implements Provider.
func (stubProvider) Yield() error { return unsupported("yield") }

// Begin implements Provider.
func (stubProvider) Begin() (Thread, error) { return nil, unsupported("thread_begin") }

// NewMutex implements Provider.
func (stubProvider) NewMutex() (Mutex, error) { return nil, unsupported("mutex_init") }

func unsupported(op string) error {
	return &api.NativeError{Op: op, Cond: api.CondFail, Errno: syscall.ENOSYS}
}
