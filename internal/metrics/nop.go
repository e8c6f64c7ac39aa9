// File: internal/metrics/nop.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Package metrics provides collectors for scheduler events.

package metrics

import "github.com/emuforge/hostsched/api"

// NopMetrics discards every event. Useful for tests or when metrics are
// collected elsewhere.
type NopMetrics struct{}

var _ api.MetricsCollector = (*NopMetrics)(nil)

// NewNop returns a collector that performs no operations.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (n *NopMetrics) ThreadRegistered(api.Role, api.TurboMode) {}
func (n *NopMetrics) AffinityApplied(api.Role, int)            {}
func (n *NopMetrics) AffinityFailed(api.Role)                  {}
func (n *NopMetrics) PriorityDegraded(api.Role)                {}
func (n *NopMetrics) ModeChanged(api.TurboMode)                {}
func (n *NopMetrics) EnabledChanged(bool)                      {}
func (n *NopMetrics) TopologyDetected(int, int)                {}
