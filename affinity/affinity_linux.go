//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux implementation over sched_setaffinity, applied to the calling
// thread (pid 0).

package affinity

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-threads/api"
)

func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		errno, _ := err.(syscall.Errno)
		return &api.NativeError{Op: "sched_setaffinity", Cond: api.CondFail, Errno: errno}
	}
	return nil
}
