// File: cmd/hostsched/run.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// run subcommand: start a scheduler, spawn demo workers pinned to OS
// threads, and show how each turbo mode steers them.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emuforge/hostsched"
	"github.com/emuforge/hostsched/api"
	"github.com/emuforge/hostsched/internal/logging"
)

// reloadDebounce coalesces editor write bursts into one config reload.
const reloadDebounce = 500 * time.Millisecond

// demoWorkers are named so the classifier spreads them across every role.
var demoWorkers = []string{
	"GxmDisplayQueue",
	"AudioOutMixer",
	"CtrlInputPoll",
	"NetStreamFetch",
	"HousekeepScan",
}

// demoGuests exercise the emulated registration path: a guest mask plus a
// guest priority, with game_main relying on the urgent-priority upgrade
// rather than its name.
var demoGuests = []struct {
	name     string
	priority int
	mask     uint32
}{
	{"game_main", 70, 0x3},
	{"SceFiosWorker", 160, 0x1},
}

type runOptions struct {
	modeName      string
	multiplier    float64
	multiplierSet bool
	workers       int
	duration      time.Duration
	watch         bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scheduler with demo workers",
		Long: `run starts a scheduler, enables it in the requested turbo mode and
spawns a set of demo workers, each locked to its own OS thread. Every
worker registers under a role-typed name and reports the affinity and
priority it received. On mode changes the workers re-register and the
new placement is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.multiplierSet = cmd.Flags().Changed("multiplier")
			return runRun(opts)
		},
	}
	cmd.Flags().StringVar(&opts.modeName, "mode", "", "turbo mode (disabled, balanced, aggressive, ultra)")
	cmd.Flags().Float64Var(&opts.multiplier, "multiplier", 0, "emulated affinity multiplier for ultra mode")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "extra pool workers to spawn")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload mode and multiplier when the config file changes")
	return cmd
}

func runRun(opts runOptions) error {
	if opts.watch && cfgPath == "" {
		return errors.New("--watch requires --config")
	}

	op, err := loadOperatorConfig()
	if err != nil {
		return err
	}
	mode := op.Mode
	if opts.modeName != "" {
		mode, err = api.ParseTurboMode(opts.modeName)
		if err != nil {
			return err
		}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()})
	sched := hostsched.New(
		hostsched.WithConfig(op.schedulerConfig()),
		hostsched.WithLogger(logging.NewSlog(slog.New(handler))),
	)
	if err := sched.Initialize(); err != nil {
		return err
	}
	defer sched.Shutdown()

	topo := sched.Topology()
	printInfo(fmt.Sprintf("topology: %d cores, performance %s, efficiency %s",
		topo.TotalCores, formatCores(topo.Performance), formatCores(topo.Efficiency)))
	if sched.DetectionDegraded() {
		printWarning("hybrid core detection degraded, using count heuristic")
	}

	if err := sched.SetTurboMode(mode); err != nil {
		return err
	}
	switch {
	case opts.multiplierSet:
		sched.SetAffinityMultiplier(opts.multiplier)
	case op.Multiplier > 0:
		sched.SetAffinityMultiplier(op.Multiplier)
	}
	if err := sched.Enable(true); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("enabled, mode %s, multiplier %.2f", sched.TurboMode(), sched.AffinityMultiplier()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range demoWorkers {
		g.Go(workerLoop(gctx, name, func() hostsched.Registration {
			return sched.RegisterThread(name)
		}))
	}
	for _, guest := range demoGuests {
		g.Go(workerLoop(gctx, guest.name, func() hostsched.Registration {
			return sched.RegisterEmulatedThread(guest.name, guest.priority, guest.mask)
		}))
	}
	for i := 0; i < opts.workers; i++ {
		name := fmt.Sprintf("pool_worker_%d", i)
		g.Go(workerLoop(gctx, name, func() hostsched.Registration {
			return sched.RegisterThread(name)
		}))
	}
	if opts.watch {
		g.Go(func() error {
			return watchConfig(gctx, cfgPath, sched)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	printInfo("shutting down")
	printStats(sched.Stats())
	return nil
}

// workerLoop locks the goroutine to an OS thread, registers it and then
// re-registers on a slow tick. Repeat registrations are skipped unless the
// mode changed, so placement lines appear only when something moved.
func workerLoop(ctx context.Context, name string, register func() hostsched.Registration) func() error {
	return func() error {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		reportRegistration(name, register())
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if reg := register(); !reg.Skipped {
					reportRegistration(name, reg)
				}
			}
		}
	}
}

func reportRegistration(name string, r hostsched.Registration) {
	if r.Skipped {
		printInfo(fmt.Sprintf("%-16s registration skipped", name))
		return
	}
	line := fmt.Sprintf("%-16s %s tid=%-7d mode=%-10s cores=%-12s prio=%s",
		name, color.HiWhiteString("%-12s", r.Role.String()), r.ThreadID, r.Mode, formatCores(r.Cores), r.Priority)
	switch {
	case r.Degraded:
		printWarning(line + "  (priority degraded)")
	case !r.AffinityApplied:
		printWarning(line + "  (affinity failed)")
	default:
		printSuccess(line)
	}
}

// watchConfig re-reads the operator file when it changes and applies the new
// mode and multiplier. The parent directory is watched because editors
// replace files on save, which swaps the inode the path points at.
func watchConfig(ctx context.Context, path string, sched *hostsched.Scheduler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(path)
	printInfo(fmt.Sprintf("watching %s for mode changes", path))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			pending = time.After(reloadDebounce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning(fmt.Sprintf("config watcher: %v", werr))
		case <-pending:
			pending = nil
			applyReload(sched)
		}
	}
}

func applyReload(sched *hostsched.Scheduler) {
	op, err := loadOperatorConfig()
	if err != nil {
		printWarning(fmt.Sprintf("config reload rejected: %v", err))
		return
	}
	if op.Mode != sched.TurboMode() {
		if err := sched.SetTurboMode(op.Mode); err != nil {
			printWarning(fmt.Sprintf("mode change rejected: %v", err))
		} else {
			printInfo(fmt.Sprintf("mode changed to %s", op.Mode))
		}
	}
	if op.Multiplier > 0 && op.Multiplier != sched.AffinityMultiplier() {
		sched.SetAffinityMultiplier(op.Multiplier)
		printInfo(fmt.Sprintf("affinity multiplier set to %.2f", sched.AffinityMultiplier()))
	}
}

func printStats(stats map[string]any) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-22s %v\n", k, stats[k])
	}
}
