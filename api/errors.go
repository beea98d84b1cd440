// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common sentinel errors shared across hioload-threads packages.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrUnsupportedPlatform = fmt.Errorf("platform not supported")
	ErrForeignHandle       = fmt.Errorf("handle belongs to a different backend")
)
