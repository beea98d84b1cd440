// File: control/hotreload.go
// Author: momentics <momentics@gmail.com>
//
// Global hot-reload hooks, independent of any ConfigStore instance.

package control

import "sync"

var (
	reloadMu    sync.RWMutex
	reloadHooks []func()
)

// RegisterReloadHook adds a component reload listener.
func RegisterReloadHook(fn func()) {
	reloadMu.Lock()
	reloadHooks = append(reloadHooks, fn)
	reloadMu.Unlock()
}

// TriggerHotReload dispatches all reload hooks asynchronously.
func TriggerHotReload() {
	reloadMu.RLock()
	hooks := make([]func(), len(reloadHooks))
	copy(hooks, reloadHooks)
	reloadMu.RUnlock()
	for _, fn := range hooks {
		go fn()
	}
}

// TriggerHotReloadSync invokes all reload hooks synchronously, for
// deterministic application and tests.
func TriggerHotReloadSync() {
	reloadMu.RLock()
	hooks := make([]func(), len(reloadHooks))
	copy(hooks, reloadHooks)
	reloadMu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}
