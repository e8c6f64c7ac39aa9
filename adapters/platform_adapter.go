// File: adapters/platform_adapter.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
// Description:
//   Adapter implementing the api.Platform interface, delegating to
//   internal platform primitives for affinity and priority control.
//
// Package adapters provides glue code between the core API contracts
// and the internal implementation.

package adapters

import (
	"github.com/emuforge/hostsched/api"
	"github.com/emuforge/hostsched/internal/platform"
)

// PlatformAdapter implements api.Platform on top of the OS-specific
// primitives in internal/platform. It is stateless; all calls act on the
// calling thread or the current process.
type PlatformAdapter struct{}

// NewPlatformAdapter returns the production platform backend.
func NewPlatformAdapter() api.Platform {
	return &PlatformAdapter{}
}

// ThreadID reports the OS thread identifier of the caller.
func (a *PlatformAdapter) ThreadID() int {
	return platform.ThreadID()
}

// ApplyAffinity restricts the calling thread to the given cores.
func (a *PlatformAdapter) ApplyAffinity(cores []int) error {
	return platform.ApplyAffinity(cores)
}

// ApplyPriority adjusts the scheduling priority of the calling thread.
func (a *PlatformAdapter) ApplyPriority(p api.Priority) error {
	return platform.ApplyPriority(p)
}

// ElevateProcess raises the process scheduling class for the given mode.
func (a *PlatformAdapter) ElevateProcess(mode api.TurboMode) error {
	return platform.ElevateProcess(mode)
}

// RestoreProcess returns the process scheduling class to the OS default.
func (a *PlatformAdapter) RestoreProcess() error {
	return platform.RestoreProcess()
}
