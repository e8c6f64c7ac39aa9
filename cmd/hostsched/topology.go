// File: cmd/hostsched/topology.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// topology subcommand: detect and print the host core partition.

package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"

	"github.com/emuforge/hostsched/topology"
)

// topologyView is the JSON shape emitted by `hostsched topology --json`.
type topologyView struct {
	OS          string `json:"os"`
	TotalCores  int    `json:"totalCores"`
	Performance []int  `json:"performanceCores"`
	Efficiency  []int  `json:"efficiencyCores"`
	Priority    []int  `json:"priorityCores"`
	Ultra       []int  `json:"ultraCores"`
	Degraded    bool   `json:"degradedDetection"`
}

func newTopologyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Detect and print the host core partition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopology(asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the partition as JSON")
	return cmd
}

func runTopology(asJSON bool) error {
	cfg, err := loadSchedulerConfig()
	if err != nil {
		return err
	}

	topo, derr := topology.NewDetector(cfg.Topology).Detect()

	view := topologyView{
		OS:          runtime.GOOS,
		TotalCores:  topo.TotalCores,
		Performance: topo.Performance,
		Efficiency:  topo.Efficiency,
		Priority:    topo.Priority,
		Ultra:       topo.Ultra,
		Degraded:    derr != nil,
	}

	if asJSON {
		out, merr := sonnet.MarshalIndent(view, "", "  ")
		if merr != nil {
			return merr
		}
		fmt.Println(string(out))
		return nil
	}

	printInfo(fmt.Sprintf("host: %s, %d logical cores", view.OS, view.TotalCores))
	printGroup("performance", view.Performance)
	printGroup("efficiency ", view.Efficiency)
	printGroup("priority   ", view.Priority)
	printGroup("ultra      ", view.Ultra)
	if derr != nil {
		printWarning(fmt.Sprintf("hybrid detection degraded, using count heuristic: %v", derr))
	}
	return nil
}

func printGroup(label string, cores []int) {
	fmt.Printf("  %s %s  (%d)\n", color.HiWhiteString(label), formatCores(cores), len(cores))
}

// formatCores compresses a sorted id list into a range string, e.g.
// [0 1 2 3 6 7] becomes "0-3,6-7".
func formatCores(cores []int) string {
	if len(cores) == 0 {
		return "-"
	}
	var out string
	start, prev := cores[0], cores[0]
	flush := func() {
		if out != "" {
			out += ","
		}
		if start == prev {
			out += fmt.Sprintf("%d", start)
		} else {
			out += fmt.Sprintf("%d-%d", start, prev)
		}
	}
	for _, c := range cores[1:] {
		if c == prev+1 {
			prev = c
			continue
		}
		flush()
		start, prev = c, c
	}
	flush()
	return out
}
