//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows implementation over SetThreadAffinityMask on the current-thread
// pseudo handle.

package affinity

import (
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/momentics/hioload-threads/api"
)

var (
	affKernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = affKernel32.NewProc("SetThreadAffinityMask")
)

func setAffinityPlatform(cpuID int) error {
	mask := uintptr(1) << uint(cpuID)
	ret, _, err := procSetThreadAffinityMask.Call(^uintptr(1), mask)
	if ret == 0 {
		errno, _ := err.(syscall.Errno)
		return &api.NativeError{Op: "SetThreadAffinityMask", Cond: api.CondFail, Errno: errno}
	}
	return nil
}
