// File: default.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Process-wide default scheduler and package-level wrappers, for embedders
// that treat the scheduler as a singleton service.

package hostsched

import (
	"sync"

	"github.com/emuforge/hostsched/api"
)

var (
	defaultMu    sync.Mutex
	defaultSched *Scheduler
)

// Default returns the process-wide scheduler, creating it with default
// options on first use.
func Default() *Scheduler {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSched == nil {
		defaultSched = New()
	}
	return defaultSched
}

// SetDefault replaces the process-wide scheduler. A nil value resets it so
// the next Default call constructs a fresh one.
func SetDefault(s *Scheduler) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSched = s
}

// Initialize initializes the default scheduler.
func Initialize() error {
	return Default().Initialize()
}

// Shutdown shuts the default scheduler down.
func Shutdown() {
	Default().Shutdown()
}

// Enable toggles steering on the default scheduler.
func Enable(on bool) error {
	return Default().Enable(on)
}

// SetTurboMode switches the default scheduler's mode.
func SetTurboMode(mode api.TurboMode) error {
	return Default().SetTurboMode(mode)
}

// SetAffinityMultiplier sets the default scheduler's expansion factor.
func SetAffinityMultiplier(m float64) {
	Default().SetAffinityMultiplier(m)
}

// RegisterThread registers the calling thread with the default scheduler.
func RegisterThread(name string) Registration {
	return Default().RegisterThread(name)
}

// RegisterThreadRole registers the calling thread under an explicit role.
func RegisterThreadRole(name string, role api.Role) Registration {
	return Default().RegisterThreadRole(name, role)
}

// RegisterEmulatedThread registers the calling thread for an emulated guest
// thread request.
func RegisterEmulatedThread(name string, emuPriority int, emuAffinity uint32) Registration {
	return Default().RegisterEmulatedThread(name, emuPriority, emuAffinity)
}

// UltraActive reports whether the default scheduler widens emulated
// affinity requests.
func UltraActive() bool {
	return Default().UltraActive()
}
