// File: cmd/hostsched/root.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Root command, global flags and shared output helpers.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emuforge/hostsched"
	"github.com/emuforge/hostsched/api"
)

var (
	cfgPath   string
	verbosity string
)

// rootCmd is the base command; subcommands do the actual work.
var rootCmd = &cobra.Command{
	Use:   "hostsched",
	Short: "Inspect and drive host thread scheduling",
	Long: `hostsched partitions the host CPU into performance and efficiency
cores and steers worker threads onto them with per-role affinity and
priority. The topology command prints the detected partition; the run
command starts a scheduler with demo workers so the effect of each
turbo mode can be observed live.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI.
func Execute() error {
	initializeRootCommand()
	return rootCmd.Execute()
}

// initializeRootCommand wires flags and subcommands explicitly so tests can
// rebuild the tree without init() ordering surprises.
func initializeRootCommand() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "scheduler config file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newTopologyCmd())
	rootCmd.AddCommand(newRunCmd())
}

// operatorConfig is the YAML shape accepted by --config: the turbo mode and
// multiplier to apply at startup plus the scheduler tuning block.
type operatorConfig struct {
	Mode       api.TurboMode     `yaml:"mode"`
	Multiplier float64           `yaml:"multiplier"`
	Scheduler  *hostsched.Config `yaml:"scheduler"`
}

// loadOperatorConfig reads the --config file, or returns defaults when the
// flag is unset.
func loadOperatorConfig() (*operatorConfig, error) {
	op := &operatorConfig{Mode: api.TurboBalanced}
	if cfgPath == "" {
		return op, nil
	}
	raw, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
	}
	if err := yaml.Unmarshal(raw, op); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
	}
	return op, nil
}

func (o *operatorConfig) schedulerConfig() *hostsched.Config {
	if o.Scheduler != nil {
		return o.Scheduler
	}
	return hostsched.DefaultConfig()
}

// loadSchedulerConfig returns just the scheduler tuning from the operator
// file, for commands that do not drive a live scheduler.
func loadSchedulerConfig() (*hostsched.Config, error) {
	op, err := loadOperatorConfig()
	if err != nil {
		return nil, err
	}
	return op.schedulerConfig(), nil
}

func logLevel() slog.Level {
	switch strings.ToLower(verbosity) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Output helpers

func printSuccess(message string) {
	fmt.Printf("%s %s\n", color.GreenString("[hostsched]"), message)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("[hostsched]"), message)
}

func printInfo(message string) {
	fmt.Printf("%s %s\n", color.CyanString("[hostsched]"), message)
}

func printWarning(message string) {
	fmt.Printf("%s %s\n", color.YellowString("[hostsched]"), message)
}
