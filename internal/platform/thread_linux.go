// File: internal/platform/thread_linux.go
//go:build linux
// +build linux

//
// Linux thread control: sched_setaffinity, sched_setattr and per-thread nice.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/emuforge/hostsched/api"
)

// SCHED_OTHER, sched(7). Not exported by x/sys.
const schedOther = 0

// Nice step per elevation level. Level 1 maps to -5, level 2 to -10.
const niceStep = -5

func platformThreadID() int {
	return unix.Gettid()
}

// platformApplyAffinity pins the calling thread. Core identifiers beyond the
// CPUSet capacity (1024) are ignored by the kernel wrapper, so an all-ignored
// set is reported before the syscall.
func platformApplyAffinity(cores []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, id := range cores {
		set.Set(id)
	}
	if set.Count() == 0 {
		return fmt.Errorf("no representable cores in set: %w", api.ErrInvalidArgument)
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("sched_setaffinity: %w", err)
	}
	return nil
}

func platformApplyPriority(p api.Priority) error {
	tid := unix.Gettid()
	switch p.Class {
	case api.PriorityRealtime:
		attr := unix.SchedAttr{
			Policy:   unix.SCHED_FIFO,
			Priority: uint32(p.Level),
		}
		if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
			if permissionDenied(err) {
				return fmt.Errorf("SCHED_FIFO priority %d: %w", p.Level, api.ErrPriorityDenied)
			}
			return fmt.Errorf("sched_setattr: %w", err)
		}
		return nil
	case api.PriorityElevated:
		nice := niceStep * p.Level
		if nice < -20 {
			nice = -20
		}
		if err := unix.Setpriority(unix.PRIO_PROCESS, tid, nice); err != nil {
			if permissionDenied(err) {
				return fmt.Errorf("nice %d: %w", nice, api.ErrPriorityDenied)
			}
			return fmt.Errorf("setpriority: %w", err)
		}
		return nil
	default:
		attr := unix.SchedAttr{Policy: schedOther}
		if err := unix.SchedSetAttr(0, &attr, 0); err != nil && !permissionDenied(err) {
			return fmt.Errorf("sched_setattr: %w", err)
		}
		if err := unix.Setpriority(unix.PRIO_PROCESS, tid, 0); err != nil && !permissionDenied(err) {
			return fmt.Errorf("setpriority: %w", err)
		}
		return nil
	}
}

func permissionDenied(err error) bool {
	return err == unix.EPERM || err == unix.EACCES
}
