// File: api/result.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Uniform result taxonomy and native-failure translation.

package api

import (
	"errors"
	"fmt"
	"syscall"
)

// Code is the closed result taxonomy shared by every thread and mutex
// operation on every platform.
type Code int

const (
	// CodeSuccess reports a completed operation.
	CodeSuccess Code = iota
	// CodeNoMem reports resource exhaustion during creation.
	CodeNoMem
	// CodeTimedOut reports an expired bounded wait. No operation issues
	// bounded waits in this version, so the value is never produced.
	CodeTimedOut
	// CodeBusy reports a non-blocking acquisition that found the resource held.
	CodeBusy
	// CodeError reports any other native failure, including invalid arguments.
	CodeError
)

// String returns the canonical lower-case name of the code.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeNoMem:
		return "no-memory"
	case CodeTimedOut:
		return "timed-out"
	case CodeBusy:
		return "busy"
	case CodeError:
		return "error"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Condition classifies a native failure independently of the platform that
// produced it. Backends own the knowledge of which native values mean what;
// Translate only applies the central condition mapping.
type Condition int

const (
	// CondFail marks a native failure with no dedicated mapping.
	CondFail Condition = iota
	// CondNoMemory marks native resource exhaustion.
	CondNoMemory
	// CondWouldBlock marks a resource found held by a non-blocking probe.
	CondWouldBlock
	// CondTimedOut marks an expired bounded native wait.
	CondTimedOut
)

// NativeError carries one classified native failure out of a backend.
type NativeError struct {
	Op    string        // native operation, e.g. "futex_wait" or "CreateMutexW"
	Cond  Condition     // backend classification of the failure
	Errno syscall.Errno // raw native value: errno on POSIX, error/wait code on Windows
}

// Error implements the error interface.
func (e *NativeError) Error() string {
	return fmt.Sprintf("%s: %s (native %d)", e.Op, e.Errno.Error(), uintptr(e.Errno))
}

// Status is the per-call outcome of one operation: the uniform code plus the
// native diagnostic detail that produced it. Diagnostics ride in the value
// itself, so concurrent failing calls never race on shared error state. The
// zero Status is success.
type Status struct {
	Code  Code
	Errno syscall.Errno // zero when Code is CodeSuccess
	Op    string        // native or validating operation, empty on success
}

// Ok reports whether the operation succeeded.
func (s Status) Ok() bool { return s.Code == CodeSuccess }

// String renders the status for logs and test failures.
func (s Status) String() string {
	if s.Ok() {
		return "success"
	}
	return fmt.Sprintf("%s [%s, native %d]", s.Code, s.Op, uintptr(s.Errno))
}

// Err returns nil for a successful status and an error view otherwise.
func (s Status) Err() error {
	if s.Ok() {
		return nil
	}
	return fmt.Errorf("%s: %s (native %d)", s.Op, s.Code, uintptr(s.Errno))
}

// OK is the success status.
func OK() Status { return Status{Code: CodeSuccess} }

// Fail builds an error-class status for argument validation in the managers.
// Backend failures arrive through Translate instead.
func Fail(op string, errno syscall.Errno) Status {
	return Status{Code: CodeError, Errno: errno, Op: op}
}

// Translate maps a backend outcome into the uniform taxonomy. A nil error is
// success. Classified failures map by condition: would-block to busy, expired
// wait to timed-out, exhaustion to no-memory, everything else to error. The
// native value travels in Status.Errno untouched, so platform detail stays
// inspectable without widening the taxonomy.
func Translate(op string, err error) Status {
	if err == nil {
		return OK()
	}
	var ne *NativeError
	if !errors.As(err, &ne) {
		return Status{Code: CodeError, Op: op}
	}
	st := Status{Errno: ne.Errno, Op: ne.Op}
	if st.Op == "" {
		st.Op = op
	}
	switch ne.Cond {
	case CondNoMemory:
		st.Code = CodeNoMem
	case CondWouldBlock:
		st.Code = CodeBusy
	case CondTimedOut:
		st.Code = CodeTimedOut
	default:
		st.Code = CodeError
	}
	return st
}
