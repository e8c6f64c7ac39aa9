// File: topology/probe_stub.go
//go:build !linux && !windows
// +build !linux,!windows

//
// Fallback probe for platforms without a heterogeneity source.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package topology

// probeHybrid reports inconclusive on platforms with no topology source,
// leaving the band partition in charge.
func probeHybrid(total int) (perf, eff []int, err error) {
	return nil, nil, nil
}
