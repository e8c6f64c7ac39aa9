// File: internal/platform/process_stub.go
//go:build !linux && !windows
// +build !linux,!windows

//
// Stubs for platforms without process scheduling control.
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package platform

import "github.com/emuforge/hostsched/api"

func platformElevateProcess(mode api.TurboMode) error {
	return api.ErrNotSupported
}

func platformRestoreProcess() error {
	return nil
}
