// File: policy/emulated.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Expansion of emulated-hardware affinity requests onto host cores.

package policy

import "github.com/emuforge/hostsched/api"

// ExpandEmulatedAffinity widens a narrow emulated-hardware affinity request
// into host ultra cores. requested is the number of logical units the
// emulated side asked for; multiplier scales it. The result is the best
// min(floor(requested*multiplier), |Ultra|) ultra cores, never fewer than
// one. A topology without an ultra group falls back to the performance
// group.
func ExpandEmulatedAffinity(requested int, multiplier float64, topo api.CoreTopology) []int {
	if requested < 1 {
		requested = 1
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	want := int(float64(requested) * multiplier)
	if want < 1 {
		want = 1
	}
	pool := topo.Ultra
	if len(pool) == 0 {
		pool = topo.Performance
	}
	if len(pool) == 0 {
		return topo.AllCores()
	}
	if want > len(pool) {
		want = len(pool)
	}
	return append([]int(nil), pool[:want]...)
}
