// File: internal/platform/platform.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Platform-neutral entry points for thread and process scheduling control.
// Platform-specific implementations live in separate files (thread_linux.go,
// thread_windows.go, etc.) guarded by build tags.

package platform

import (
	"fmt"

	"github.com/emuforge/hostsched/api"
)

// ThreadID returns the OS identifier of the calling thread. Callers must hold
// runtime.LockOSThread for the result to stay meaningful.
func ThreadID() int {
	return platformThreadID()
}

// ApplyAffinity restricts the calling thread to the given logical cores.
// The set must be non-empty and contain no negative identifiers.
func ApplyAffinity(cores []int) error {
	if len(cores) == 0 {
		return fmt.Errorf("empty core set: %w", api.ErrInvalidArgument)
	}
	for _, id := range cores {
		if id < 0 {
			return fmt.Errorf("core %d: %w", id, api.ErrInvalidArgument)
		}
	}
	return platformApplyAffinity(cores)
}

// ApplyPriority adjusts the scheduling priority of the calling thread.
// Realtime requests the platform cannot honor report api.ErrPriorityDenied,
// possibly after applying the closest permitted level.
func ApplyPriority(p api.Priority) error {
	return platformApplyPriority(p)
}

// ElevateProcess raises the process scheduling class for the given mode.
func ElevateProcess(mode api.TurboMode) error {
	return platformElevateProcess(mode)
}

// RestoreProcess returns the process scheduling class to the OS default.
func RestoreProcess() error {
	return platformRestoreProcess()
}
