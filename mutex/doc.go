// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package mutex implements plain and recursive mutual exclusion over the
// build-selected native backend. The native primitive is always a plain
// lock; recursion bookkeeping (owner identity plus depth) lives above it,
// so nested acquisitions by the owner never re-enter the kernel.
//
// Lock, TryLock, and Unlock report through api.Status; TryLock never
// blocks. Destroy returns nothing and routes native failures to the control
// tracer. Locking a plain mutex twice from its holder, unlocking a mutex
// the caller does not hold, and destroying a held mutex are documented
// caller preconditions, detected only where detection costs nothing.
package mutex
