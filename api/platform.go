// File: api/platform.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Narrow port to the host OS scheduler.

package api

// Platform applies scheduling directives to the calling thread or the
// current process. Implementations must be safe for concurrent use; the
// thread-scoped calls affect only the OS thread they run on, so callers pin
// themselves with runtime.LockOSThread first.
type Platform interface {
	// ThreadID returns the OS identity of the calling thread.
	ThreadID() int

	// ApplyAffinity restricts the calling thread to the given core ids.
	ApplyAffinity(cores []int) error

	// ApplyPriority translates the descriptor to a native priority for the
	// calling thread. A denied elevation falls back to the normal level and
	// reports ErrPriorityDenied.
	ApplyPriority(p Priority) error

	// ElevateProcess applies process-wide adjustments for the mode, such as
	// the scheduling class or the OS timer resolution.
	ElevateProcess(mode TurboMode) error

	// RestoreProcess undoes ElevateProcess. Safe to call when nothing was
	// applied.
	RestoreProcess() error
}
