//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without CPU affinity support.

package affinity

import "github.com/momentics/hioload-threads/api"

func setAffinityPlatform(cpuID int) error {
	return api.ErrUnsupportedPlatform
}
