// File: internal/platform/process_linux.go
//go:build linux
// +build linux

//
// Linux process-level elevation via nice.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/emuforge/hostsched/api"
)

const (
	processNiceBoost    = -10
	processNiceBalanced = -5
)

// platformElevateProcess lowers the nice value of the calling thread. Linux
// nice is a per-thread attribute, so worker threads receive their own values
// at registration time and this call biases the coordinating thread only.
func platformElevateProcess(mode api.TurboMode) error {
	var nice int
	switch mode {
	case api.TurboUltra, api.TurboAggressive:
		nice = processNiceBoost
	case api.TurboBalanced:
		nice = processNiceBalanced
	default:
		return platformRestoreProcess()
	}
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, nice); err != nil {
		if permissionDenied(err) {
			return fmt.Errorf("process nice %d: %w", nice, api.ErrPriorityDenied)
		}
		return fmt.Errorf("setpriority: %w", err)
	}
	return nil
}

// platformRestoreProcess resets nice to the default. Raising nice back toward
// zero is permitted without privileges.
func platformRestoreProcess() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, 0); err != nil {
		return fmt.Errorf("setpriority: %w", err)
	}
	return nil
}
