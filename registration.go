// File: registration.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package hostsched

import (
	"time"

	"github.com/emuforge/hostsched/api"
)

// Registration is the outcome of one registration call. Every field reflects
// the single consistent snapshot the call was evaluated against; failures are
// reported here instead of as errors so worker threads never branch on them.
type Registration struct {
	// Name is the descriptive thread name as passed in.
	Name string
	// Role the thread was classified (or explicitly assigned) as.
	Role api.Role
	// Mode in effect when the registration was evaluated.
	Mode api.TurboMode
	// Cores the thread was steered to. Nil when nothing was applied.
	Cores []int
	// Priority that was requested for the thread.
	Priority api.Priority
	// ThreadID is the OS thread identity, zero when steering was off.
	ThreadID int
	// AffinityApplied reports whether the OS accepted the core set.
	AffinityApplied bool
	// PriorityApplied reports whether the OS accepted the priority.
	PriorityApplied bool
	// Degraded is set when the priority request fell back to a lower level,
	// typically a realtime request without the needed privilege.
	Degraded bool
	// Skipped is set when nothing was done: steering disabled, or the thread
	// already carries this role under this mode.
	Skipped bool
	// At is the evaluation time.
	At time.Time
}
