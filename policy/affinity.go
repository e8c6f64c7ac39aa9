// File: policy/affinity.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Core-set selection for (role, mode, topology).

package policy

import "github.com/emuforge/hostsched/api"

// DefaultCollapseThreshold is the total core count at or below which
// partitioning stops paying off and every role receives the full core set.
const DefaultCollapseThreshold = 4

// SelectCores returns the target core set for a role under the given mode,
// using DefaultCollapseThreshold. The result is never empty and is always a
// fresh slice.
func SelectCores(role api.Role, mode api.TurboMode, topo api.CoreTopology) []int {
	return SelectCoresThreshold(role, mode, topo, DefaultCollapseThreshold)
}

// SelectCoresThreshold is SelectCores with a caller-chosen collapse
// threshold.
//
// The matrix, refined by mode:
//   - MainRender: the ultra group under TurboUltra, the priority group under
//     TurboAggressive and TurboBalanced, otherwise the performance group.
//   - Audio: the priority group regardless of mode; audio glitches are
//     perceptible, so audio always gets the best cores available.
//   - Input, Network: the performance group.
//   - Background, Unknown: the efficiency group.
//
// Empty groups fall back to the performance group, and as a last resort the
// full core set, so the selection can never strand a thread with no cores.
func SelectCoresThreshold(role api.Role, mode api.TurboMode, topo api.CoreTopology, collapse int) []int {
	if topo.TotalCores <= collapse {
		return topo.AllCores()
	}
	var cores []int
	switch role {
	case api.RoleMainRender:
		switch mode {
		case api.TurboUltra:
			cores = topo.Ultra
		case api.TurboAggressive, api.TurboBalanced:
			cores = topo.Priority
		default:
			cores = topo.Performance
		}
	case api.RoleAudio:
		cores = topo.Priority
	case api.RoleInput, api.RoleNetwork:
		cores = topo.Performance
	default:
		cores = topo.Efficiency
	}
	if len(cores) == 0 {
		cores = topo.Performance
	}
	if len(cores) == 0 {
		return topo.AllCores()
	}
	return append([]int(nil), cores...)
}
