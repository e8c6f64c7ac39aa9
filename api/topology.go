// File: api/topology.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Core topology model shared by detection, policy, and the facade.

package api

import "fmt"

// CoreTopology is the host's partition of logical cores into scheduling
// groups. Immutable after detection.
//
// Performance and Efficiency are disjoint and together cover every core id in
// [0, TotalCores). Priority and Ultra are ordered prefixes of Performance
// consumed by the higher policy tiers; Priority holds the handful of cores
// reserved for latency-critical threads, Ultra the wider set used when the
// ultra tier widens emulated affinity requests.
type CoreTopology struct {
	TotalCores  int
	Performance []int
	Efficiency  []int
	Priority    []int
	Ultra       []int
}

// AllCores returns every core id in ascending order.
func (t CoreTopology) AllCores() []int {
	out := make([]int, t.TotalCores)
	for i := range out {
		out[i] = i
	}
	return out
}

// Clone returns a deep copy so callers cannot alias the detected groups.
func (t CoreTopology) Clone() CoreTopology {
	c := t
	c.Performance = append([]int(nil), t.Performance...)
	c.Efficiency = append([]int(nil), t.Efficiency...)
	c.Priority = append([]int(nil), t.Priority...)
	c.Ultra = append([]int(nil), t.Ultra...)
	return c
}

// Validate checks the partition invariants: ids in range, Performance and
// Efficiency disjoint and exhaustive, Priority and Ultra drawn from
// Performance.
func (t CoreTopology) Validate() error {
	if t.TotalCores < 1 {
		return fmt.Errorf("%w: total cores %d", ErrInvalidTopology, t.TotalCores)
	}
	if len(t.Performance) == 0 {
		return fmt.Errorf("%w: no performance cores", ErrInvalidTopology)
	}
	if len(t.Performance)+len(t.Efficiency) != t.TotalCores {
		return fmt.Errorf("%w: %d performance + %d efficiency != %d total",
			ErrInvalidTopology, len(t.Performance), len(t.Efficiency), t.TotalCores)
	}
	seen := make([]bool, t.TotalCores)
	perf := make([]bool, t.TotalCores)
	for _, groups := range []struct {
		ids    []int
		isPerf bool
	}{
		{t.Performance, true},
		{t.Efficiency, false},
	} {
		for _, id := range groups.ids {
			if id < 0 || id >= t.TotalCores {
				return fmt.Errorf("%w: core id %d out of range", ErrInvalidTopology, id)
			}
			if seen[id] {
				return fmt.Errorf("%w: core id %d appears twice", ErrInvalidTopology, id)
			}
			seen[id] = true
			perf[id] = groups.isPerf
		}
	}
	for _, sub := range [][]int{t.Priority, t.Ultra} {
		for _, id := range sub {
			if id < 0 || id >= t.TotalCores || !perf[id] {
				return fmt.Errorf("%w: subset core id %d is not a performance core", ErrInvalidTopology, id)
			}
		}
	}
	return nil
}
