// File: topology/topology.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Host core topology detection: an OS heterogeneity probe with a
// deterministic band-table fallback, run once per process and memoized.

package topology

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/emuforge/hostsched/api"
)

// probeFunc asks the OS for a performance/efficiency split of the first
// total logical cores. Returning empty slices with a nil error means the
// host looks homogeneous (not an error); a non-nil error means the probe
// itself is unavailable or broken and detection is degraded.
type probeFunc func(total int) (perf, eff []int, err error)

// Detector resolves the host CoreTopology once and caches the result.
// Construct with NewDetector; the zero value is not usable.
type Detector struct {
	cfg   Config
	total int
	probe probeFunc

	once sync.Once
	topo api.CoreTopology
	err  error
}

// NewDetector returns a detector for the current host.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg, probe: probeHybrid}
}

// Detect returns the memoized host topology. A non-nil error reports
// degraded detection (probe unavailable or inconclusive data) and always
// accompanies a valid fallback topology.
func (d *Detector) Detect() (api.CoreTopology, error) {
	d.once.Do(func() {
		total := d.total
		if total <= 0 {
			total = runtime.NumCPU()
		}
		probe := d.probe
		if probe == nil {
			probe = probeHybrid
		}
		d.topo, d.err = detect(total, d.cfg, probe)
	})
	return d.topo.Clone(), d.err
}

// detect runs one probe attempt and falls back to the band table. Split
// from Detect so tests can drive arbitrary core counts and probes.
func detect(total int, cfg Config, probe probeFunc) (api.CoreTopology, error) {
	if total < 1 {
		total = 1
	}
	perf, eff, perr := probe(total)
	if perr == nil && len(perf) > 0 && len(eff) > 0 {
		topo := finish(total, perf, eff, cfg)
		verr := topo.Validate()
		if verr == nil {
			return topo, nil
		}
		perr = fmt.Errorf("probe partition rejected: %w", verr)
	}
	topo := Partition(total, cfg)
	if topo.Validate() != nil {
		// A config override produced nonsense; rebuild from the defaults.
		topo = Partition(total, Config{})
	}
	if perr != nil {
		return topo, fmt.Errorf("topology detection degraded: %w", perr)
	}
	return topo, nil
}
