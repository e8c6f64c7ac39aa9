// File: api/metrics.go
// Author: emuforge <dev@emuforge.io>
//
// Observability contract for scheduler events.

package api

// MetricsCollector receives scheduler events. Implementations must be safe
// for concurrent use and must never block the registration path.
type MetricsCollector interface {
	// ThreadRegistered fires once per applied registration.
	ThreadRegistered(role Role, mode TurboMode)
	// AffinityApplied fires after a successful affinity call; width is the
	// size of the applied core set.
	AffinityApplied(role Role, width int)
	// AffinityFailed fires when the affinity syscall is refused.
	AffinityFailed(role Role)
	// PriorityDegraded fires when an elevated or realtime request fell back
	// to the normal level.
	PriorityDegraded(role Role)
	// ModeChanged fires on every effective turbo mode transition.
	ModeChanged(mode TurboMode)
	// EnabledChanged fires when the scheduler is enabled or disabled.
	EnabledChanged(enabled bool)
	// TopologyDetected fires once after detection with the group sizes.
	TopologyDetected(performance, efficiency int)
}
