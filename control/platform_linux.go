//go:build linux
// +build linux

// File: control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probes.

package control

import (
	"bytes"
	"os"
	"runtime"
	"strconv"
)

// RegisterPlatformProbes sets Linux-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.os_threads", func() any {
		return osThreadCount()
	})
}

// osThreadCount reads the live thread count of the process from
// /proc/self/status. Returns -1 when the field cannot be read.
func osThreadCount() int {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return -1
	}
	const field = "Threads:"
	idx := bytes.Index(data, []byte(field))
	if idx < 0 {
		return -1
	}
	rest := data[idx+len(field):]
	if end := bytes.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(rest)))
	if err != nil {
		return -1
	}
	return n
}
