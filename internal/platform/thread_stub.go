// File: internal/platform/thread_stub.go
//go:build !linux && !windows
// +build !linux,!windows

//
// Stubs for platforms without thread scheduling control.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package platform

import "github.com/emuforge/hostsched/api"

func platformThreadID() int {
	return 0
}

func platformApplyAffinity(cores []int) error {
	return api.ErrNotSupported
}

func platformApplyPriority(p api.Priority) error {
	return api.ErrNotSupported
}
