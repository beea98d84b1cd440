// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package thread implements the portable thread lifecycle operations:
// create, current, equal, join, detach, exit, and yield over the
// build-selected native backend. Every created thread is a goroutine locked
// to its own OS thread for its whole life, so native identities, waits, and
// thread-bound ownership keep their kernel semantics.
//
// Fallible operations report through api.Status. Double join, join after
// detach, double detach, and self join are documented caller preconditions
// the library does not check.
package thread
