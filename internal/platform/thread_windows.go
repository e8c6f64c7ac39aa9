// File: internal/platform/thread_windows.go
//go:build windows
// +build windows

//
// Windows thread control: affinity mask and thread priority.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/emuforge/hostsched/api"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	procSetThreadPriority     = kernel32.NewProc("SetThreadPriority")
)

// Thread priority levels, winbase.h.
const (
	threadPriorityNormal       = 0
	threadPriorityAboveNormal  = 1
	threadPriorityHighest      = 2
	threadPriorityTimeCritical = 15
)

func platformThreadID() int {
	return int(windows.GetCurrentThreadId())
}

// platformApplyAffinity pins the calling thread through SetThreadAffinityMask.
// The mask covers the first processor group, so core identifiers at 64 and
// above cannot be represented and are dropped.
func platformApplyAffinity(cores []int) error {
	var mask uintptr
	for _, id := range cores {
		if id >= 64 {
			continue
		}
		mask |= uintptr(1) << uint(id)
	}
	if mask == 0 {
		return fmt.Errorf("no representable cores in set: %w", api.ErrInvalidArgument)
	}
	ret, _, callErr := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if ret == 0 {
		return fmt.Errorf("SetThreadAffinityMask: %v", callErr)
	}
	return nil
}

// platformApplyPriority maps the neutral priority onto thread priority levels.
// A rejected TIME_CRITICAL request falls back to HIGHEST and reports
// api.ErrPriorityDenied so the caller can record the degradation.
func platformApplyPriority(p api.Priority) error {
	var level int
	switch p.Class {
	case api.PriorityRealtime:
		level = threadPriorityTimeCritical
	case api.PriorityElevated:
		level = threadPriorityAboveNormal
		if p.Level >= 2 {
			level = threadPriorityHighest
		}
	default:
		level = threadPriorityNormal
	}
	if err := setThreadPriority(level); err != nil {
		if level == threadPriorityTimeCritical {
			if ferr := setThreadPriority(threadPriorityHighest); ferr == nil {
				return fmt.Errorf("TIME_CRITICAL rejected, running at HIGHEST: %w", api.ErrPriorityDenied)
			}
		}
		return err
	}
	return nil
}

func setThreadPriority(level int) error {
	ret, _, callErr := procSetThreadPriority.Call(uintptr(windows.CurrentThread()), uintptr(level))
	if ret == 0 {
		return fmt.Errorf("SetThreadPriority(%d): %v", level, callErr)
	}
	return nil
}
