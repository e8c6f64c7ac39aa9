// File: topology/bands.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Core-count band table producing the fallback partition when the OS gives
// no usable heterogeneity signal.

package topology

import (
	"math"

	"github.com/emuforge/hostsched/api"
)

// Band sizes the performance group for a range of total core counts. The
// band with the highest MinTotal not exceeding the host's total applies.
// Exactly one sizing field is consulted: Fixed when positive, otherwise
// Reserve (performance = total - Reserve) when positive, otherwise Ratio of
// the total, rounded up.
type Band struct {
	MinTotal int     `yaml:"min_total"`
	Fixed    int     `yaml:"fixed,omitempty"`
	Reserve  int     `yaml:"reserve,omitempty"`
	Ratio    float64 `yaml:"ratio,omitempty"`
}

// Config tunes the fallback partition. Zero values take the defaults.
type Config struct {
	// Bands replaces the whole built-in band table when non-empty.
	Bands []Band `yaml:"bands,omitempty"`
	// PriorityCores caps the priority prefix of the performance group.
	PriorityCores int `yaml:"priority_cores,omitempty"`
}

// DefaultPriorityCores is the priority prefix cap when the config does not
// override it.
const DefaultPriorityCores = 6

// DefaultBands returns the built-in band table: small hosts run everything
// on performance cores, mid-sized hosts keep a third or a fixed reserve of
// efficiency cores, and 24 cores and up settle on the canonical 16P/8E
// layout.
func DefaultBands() []Band {
	return []Band{
		{MinTotal: 24, Fixed: 16},
		{MinTotal: 16, Reserve: 4},
		{MinTotal: 12, Ratio: 2.0 / 3.0},
		{MinTotal: 0, Ratio: 1.0},
	}
}

// Partition builds the topology for a host of total logical cores from the
// band table alone, ignoring any OS heterogeneity signal. Performance cores
// take the low ids.
func Partition(total int, cfg Config) api.CoreTopology {
	if total < 1 {
		total = 1
	}
	n := performanceCount(total, cfg.bands())
	perf := make([]int, 0, n)
	eff := make([]int, 0, total-n)
	for id := 0; id < total; id++ {
		if id < n {
			perf = append(perf, id)
		} else {
			eff = append(eff, id)
		}
	}
	return finish(total, perf, eff, cfg)
}

func (c Config) bands() []Band {
	if len(c.Bands) > 0 {
		return c.Bands
	}
	return DefaultBands()
}

// performanceCount picks the applicable band and sizes the performance
// group, clamped to [1, total].
func performanceCount(total int, bands []Band) int {
	best := Band{MinTotal: -1, Ratio: 1}
	for _, b := range bands {
		if total >= b.MinTotal && b.MinTotal > best.MinTotal {
			best = b
		}
	}
	var n int
	switch {
	case best.Fixed > 0:
		n = best.Fixed
	case best.Reserve > 0:
		n = total - best.Reserve
	case best.Ratio > 0:
		n = int(math.Ceil(best.Ratio * float64(total)))
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	return n
}

// finish computes the Priority and Ultra prefixes for an already split
// performance/efficiency partition.
func finish(total int, perf, eff []int, cfg Config) api.CoreTopology {
	prioN := cfg.PriorityCores
	if prioN <= 0 {
		prioN = DefaultPriorityCores
	}
	if prioN > len(perf) {
		prioN = len(perf)
	}
	ultraN := ultraCount(total, len(perf), prioN)
	return api.CoreTopology{
		TotalCores:  total,
		Performance: append([]int(nil), perf...),
		Efficiency:  append([]int(nil), eff...),
		Priority:    append([]int(nil), perf[:prioN]...),
		Ultra:       append([]int(nil), perf[:ultraN]...),
	}
}

// ultraCount grows the ultra prefix with the machine size: half the
// performance group on small hosts up to the whole group on very large
// ones, never below the priority prefix.
func ultraCount(total, perf, prio int) int {
	var n int
	switch {
	case total >= 32:
		n = perf
	case total >= 24:
		n = perf * 3 / 4
	case total >= 16:
		n = perf * 2 / 3
	default:
		n = perf / 2
	}
	if n < prio {
		n = prio
	}
	if n < 1 {
		n = 1
	}
	if n > perf {
		n = perf
	}
	return n
}
