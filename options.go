// File: options.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Functional options for Scheduler construction.

package hostsched

import (
	"github.com/emuforge/hostsched/api"
	"github.com/emuforge/hostsched/topology"
)

// Option customizes scheduler initialization.
type Option func(*Scheduler)

// WithConfig replaces the default configuration. A nil config is ignored.
func WithConfig(cfg *Config) Option {
	return func(s *Scheduler) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l api.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. The default discards everything.
func WithMetrics(m api.MetricsCollector) Option {
	return func(s *Scheduler) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithPlatform replaces the OS backend, typically with fake.Platform in tests.
func WithPlatform(p api.Platform) Option {
	return func(s *Scheduler) {
		if p != nil {
			s.platform = p
		}
	}
}

// WithDetector replaces the topology detector built from Config.Topology.
func WithDetector(d *topology.Detector) Option {
	return func(s *Scheduler) {
		if d != nil {
			s.detect = d.Detect
		}
	}
}

// WithTopology fixes the topology, skipping detection entirely. The value is
// cloned on use so callers keep ownership of the slices.
func WithTopology(topo api.CoreTopology) Option {
	return func(s *Scheduler) {
		s.detect = func() (api.CoreTopology, error) {
			return topo.Clone(), nil
		}
	}
}
