// File: config.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Facade configuration: defaults, yaml loading, and clamping. Invalid values
// are normalized rather than rejected.

package hostsched

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emuforge/hostsched/api"
	"github.com/emuforge/hostsched/policy"
	"github.com/emuforge/hostsched/topology"
)

const (
	defaultUltraMultiplier = 3.0
	defaultMultiplierMin   = 0.5
	defaultMultiplierMax   = 4.0
	defaultJournalSize     = 64
)

// Config holds facade parameters immutable per scheduler instance. Zero or
// out-of-range fields fall back to their defaults during Normalize.
type Config struct {
	// UltraMultiplier is the affinity multiplier the scheduler escalates to
	// when entering ultra mode, unless the operator set one explicitly.
	UltraMultiplier float64 `yaml:"ultra_multiplier"`
	// MultiplierMin and MultiplierMax bound SetAffinityMultiplier inputs.
	MultiplierMin float64 `yaml:"multiplier_min"`
	MultiplierMax float64 `yaml:"multiplier_max"`
	// CollapseThreshold is the total core count at or below which every role
	// is given the full core set. Values below 1 fall back to the default.
	CollapseThreshold int `yaml:"collapse_threshold"`
	// JournalSize bounds the recent-registration journal.
	JournalSize int `yaml:"journal_size"`
	// Topology overrides the partition band table.
	Topology topology.Config `yaml:"topology"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		UltraMultiplier:   defaultUltraMultiplier,
		MultiplierMin:     defaultMultiplierMin,
		MultiplierMax:     defaultMultiplierMax,
		CollapseThreshold: policy.DefaultCollapseThreshold,
		JournalSize:       defaultJournalSize,
	}
}

// Normalize clamps every field into its valid range, substituting defaults
// for values that cannot be repaired. Safe to call repeatedly.
func (c *Config) Normalize() {
	if math.IsNaN(c.MultiplierMin) || c.MultiplierMin <= 0 {
		c.MultiplierMin = defaultMultiplierMin
	}
	if math.IsNaN(c.MultiplierMax) || c.MultiplierMax < c.MultiplierMin {
		c.MultiplierMax = defaultMultiplierMax
		if c.MultiplierMax < c.MultiplierMin {
			c.MultiplierMax = c.MultiplierMin
		}
	}
	if math.IsNaN(c.UltraMultiplier) || c.UltraMultiplier <= 0 {
		c.UltraMultiplier = defaultUltraMultiplier
	}
	c.UltraMultiplier = clampFloat(c.UltraMultiplier, c.MultiplierMin, c.MultiplierMax)
	if c.CollapseThreshold < 1 {
		c.CollapseThreshold = policy.DefaultCollapseThreshold
	}
	if c.JournalSize < 1 {
		c.JournalSize = defaultJournalSize
	}
}

// LoadConfig reads a yaml file over the defaults and normalizes the result.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, api.NewError(api.ErrCodeConfig, "read config").
			WithContext("path", path).WithCause(err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, api.NewError(api.ErrCodeConfig, "parse config").
			WithContext("path", path).WithCause(err)
	}
	cfg.Normalize()
	return cfg, nil
}

// clampFloat pins v into [lo, hi]; NaN pins to lo.
func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
