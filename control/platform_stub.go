//go:build !linux && !windows
// +build !linux,!windows

// File: control/platform_stub.go
// Author: momentics <momentics@gmail.com>
//
// Platform probes for build targets without a native backend.

package control

import "runtime"

// RegisterPlatformProbes sets the generic probe set.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
