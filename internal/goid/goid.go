// File: internal/goid/goid.go
// Author: momentics <momentics@gmail.com>
//
// Goroutine identity probe.
//
// The runtime does not expose goroutine IDs, so Current parses the header
// line of runtime.Stack output ("goroutine 123 [running]:"). The parse is
// allocation-free past the fixed stack buffer and works on every
// architecture and Go release the module supports.

package goid

import "runtime"

const header = "goroutine "

// Current returns the ID of the calling goroutine, or 0 if the stack
// header cannot be parsed.
func Current() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the numeric ID following the "goroutine " header.
func parse(buf []byte) uint64 {
	if len(buf) < len(header) || string(buf[:len(header)]) != header {
		return 0
	}
	var id uint64
	for _, c := range buf[len(header):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
