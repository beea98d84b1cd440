// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations
// live in separate files (affinity_linux.go, affinity_windows.go, etc.)
// guarded by build tags.

package affinity

import (
	"runtime"
	"syscall"

	"github.com/momentics/hioload-threads/api"
)

// SetAffinity pins the calling OS thread to a given logical CPU. Call it
// from inside a thread entry so the pin lands on that thread. On
// unsupported platforms returns an error.
func SetAffinity(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return &api.NativeError{Op: "set_affinity", Cond: api.CondFail, Errno: syscall.EINVAL}
	}
	return setAffinityPlatform(cpuID)
}
