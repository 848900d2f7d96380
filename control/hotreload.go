// control/hotreload.go
// Manages global hot-reload hooks for config changes.
// TriggerHotReloadSync gives deterministic notification for tests.

package control

import (
	"slices"
	"sync"
)

var (
	hooksMu     sync.RWMutex
	reloadHooks []func(*Config)
)

// RegisterReloadHook adds a component reload listener.
func RegisterReloadHook(fn func(*Config)) {
	hooksMu.Lock()
	reloadHooks = append(reloadHooks, fn)
	hooksMu.Unlock()
}

// ResetReloadHooks removes all listeners.
func ResetReloadHooks() {
	hooksMu.Lock()
	reloadHooks = nil
	hooksMu.Unlock()
}

func snapshotHooks() []func(*Config) {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return slices.Clone(reloadHooks)
}

// TriggerHotReload dispatches all reload hooks asynchronously.
func TriggerHotReload(cfg *Config) {
	for _, fn := range snapshotHooks() {
		go fn(cfg)
	}
}

// TriggerHotReloadSync invokes all reload hooks in registration order.
func TriggerHotReloadSync(cfg *Config) {
	for _, fn := range snapshotHooks() {
		fn(cfg)
	}
}
