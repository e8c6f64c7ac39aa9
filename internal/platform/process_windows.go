// File: internal/platform/process_windows.go
//go:build windows
// +build windows

//
// Windows process-level elevation: priority class and multimedia timer period.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package platform

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/emuforge/hostsched/api"
)

var (
	winmm               = windows.NewLazySystemDLL("winmm.dll")
	procTimeBeginPeriod = winmm.NewProc("timeBeginPeriod")
	procTimeEndPeriod   = winmm.NewProc("timeEndPeriod")
)

// Timer resolution per mode, milliseconds.
const (
	timerPeriodBoost    = 1
	timerPeriodBalanced = 2
)

var (
	timerMu     sync.Mutex
	timerPeriod uint32
)

func platformElevateProcess(mode api.TurboMode) error {
	var class uint32
	var period uint32
	switch mode {
	case api.TurboUltra, api.TurboAggressive:
		class = windows.HIGH_PRIORITY_CLASS
		period = timerPeriodBoost
	case api.TurboBalanced:
		class = windows.ABOVE_NORMAL_PRIORITY_CLASS
		period = timerPeriodBalanced
	default:
		return platformRestoreProcess()
	}
	if err := windows.SetPriorityClass(windows.CurrentProcess(), class); err != nil {
		return fmt.Errorf("SetPriorityClass(0x%x): %w", class, err)
	}
	if err := setTimerPeriod(period); err != nil {
		return err
	}
	return nil
}

func platformRestoreProcess() error {
	classErr := windows.SetPriorityClass(windows.CurrentProcess(), windows.NORMAL_PRIORITY_CLASS)
	timerErr := setTimerPeriod(0)
	if classErr != nil {
		return fmt.Errorf("SetPriorityClass(NORMAL): %w", classErr)
	}
	return timerErr
}

// setTimerPeriod moves the multimedia timer request to the given period,
// releasing any previous request first. Zero releases without a new request.
// timeBeginPeriod calls must be paired with timeEndPeriod, so the current
// period is tracked under timerMu.
func setTimerPeriod(ms uint32) error {
	timerMu.Lock()
	defer timerMu.Unlock()
	if timerPeriod == ms {
		return nil
	}
	if timerPeriod != 0 {
		procTimeEndPeriod.Call(uintptr(timerPeriod))
		timerPeriod = 0
	}
	if ms == 0 {
		return nil
	}
	// TIMERR_NOERROR is zero.
	ret, _, _ := procTimeBeginPeriod.Call(uintptr(ms))
	if ret != 0 {
		return fmt.Errorf("timeBeginPeriod(%d): code %d", ms, ret)
	}
	timerPeriod = ms
	return nil
}
