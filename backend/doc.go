// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package backend provides the native concurrency primitive provider
// abstraction and its platform implementations: futex/gettid primitives on
// Linux, kernel object primitives (thread HANDLEs, events, mutex objects) on
// Windows, and a failing stub elsewhere. All platform divergence of the
// library, including native error classification, lives in this package.
package backend
