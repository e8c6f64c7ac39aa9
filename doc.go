// File: doc.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

// Package hostsched steers worker threads of an emulator-style process across
// heterogeneous CPU cores. Threads register themselves once by descriptive
// name; the scheduler classifies each name into a functional role, then
// applies a CPU affinity mask and a scheduling priority to the calling OS
// thread according to the operator-selected turbo mode and the detected
// performance/efficiency core topology.
//
// Typical use:
//
//	sched := hostsched.New()
//	if err := sched.Initialize(); err != nil { ... }
//	sched.SetTurboMode(api.TurboAggressive)
//	sched.Enable(true)
//
//	// on each worker thread, after runtime.LockOSThread:
//	sched.RegisterThread("AudioMixer")
//
// Every failure degrades: a thread that cannot be steered keeps its OS
// default scheduling and the outcome is recorded in the returned
// Registration. Nothing in this package panics or aborts the process.
package hostsched
