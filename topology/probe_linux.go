// File: topology/probe_linux.go
//go:build linux
// +build linux

//
// Linux heterogeneity probe over sysfs.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package topology

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Probe roots, swapped by tests.
var (
	sysDevicesRoot = "/sys/devices"
	sysCPURoot     = "/sys/devices/system/cpu"
)

// probeHybrid reads the kernel's hybrid-core interfaces. Intel hybrid
// exposes explicit core/atom cpu lists; other heterogeneous parts are
// inferred from differing maximum frequencies.
func probeHybrid(total int) (perf, eff []int, err error) {
	if perf, eff, ok := readHybridLists(); ok {
		return perf, eff, nil
	}
	return probeByMaxFreq(total)
}

// readHybridLists consumes /sys/devices/cpu_core/cpus and
// /sys/devices/cpu_atom/cpus, present only on hybrid x86 kernels.
func readHybridLists() (perf, eff []int, ok bool) {
	coreRaw, cerr := os.ReadFile(filepath.Join(sysDevicesRoot, "cpu_core", "cpus"))
	atomRaw, aerr := os.ReadFile(filepath.Join(sysDevicesRoot, "cpu_atom", "cpus"))
	if cerr != nil || aerr != nil {
		return nil, nil, false
	}
	perf, cerr = parseCPUList(strings.TrimSpace(string(coreRaw)))
	eff, aerr = parseCPUList(strings.TrimSpace(string(atomRaw)))
	if cerr != nil || aerr != nil || len(perf) == 0 || len(eff) == 0 {
		return nil, nil, false
	}
	return perf, eff, true
}

// probeByMaxFreq splits cores by cpuinfo_max_freq: cores at the highest
// frequency are performance cores, the rest efficiency. A uniform spread or
// a host without cpufreq is inconclusive, not degraded.
func probeByMaxFreq(total int) (perf, eff []int, err error) {
	khz := make([]int, total)
	maxKhz := 0
	for id := 0; id < total; id++ {
		path := filepath.Join(sysCPURoot, fmt.Sprintf("cpu%d", id), "cpufreq", "cpuinfo_max_freq")
		raw, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, nil, nil
		}
		v, perr := strconv.Atoi(strings.TrimSpace(string(raw)))
		if perr != nil || v <= 0 {
			return nil, nil, fmt.Errorf("cpu%d: unreadable cpuinfo_max_freq %q", id, strings.TrimSpace(string(raw)))
		}
		khz[id] = v
		if v > maxKhz {
			maxKhz = v
		}
	}
	for id, v := range khz {
		if v == maxKhz {
			perf = append(perf, id)
		} else {
			eff = append(eff, id)
		}
	}
	if len(eff) == 0 {
		return nil, nil, nil
	}
	return perf, eff, nil
}

// parseCPUList parses the kernel cpu list syntax, e.g. "0-15" or
// "0-3,8-11".
func parseCPUList(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty cpu list")
	}
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		lo, hi, ranged := strings.Cut(tok, "-")
		if !ranged {
			id, err := strconv.Atoi(lo)
			if err != nil || id < 0 {
				return nil, fmt.Errorf("bad cpu id %q", tok)
			}
			out = append(out, id)
			continue
		}
		first, ferr := strconv.Atoi(lo)
		last, lerr := strconv.Atoi(hi)
		if ferr != nil || lerr != nil || first < 0 || last < first {
			return nil, fmt.Errorf("bad cpu range %q", tok)
		}
		for id := first; id <= last; id++ {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out, nil
}
