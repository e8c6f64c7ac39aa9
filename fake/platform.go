// Package fake
// Author: emuforge <dev@emuforge.io>
//
// Recording fake of api.Platform for testing scheduler behavior without
// touching OS scheduling state.

package fake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/emuforge/hostsched/api"
)

// ErrInjected is the base failure returned by a fake configured to fail.
var ErrInjected = errors.New("injected platform failure")

// Platform records every call it receives and can be told to fail or deny
// individual operations. The zero value is usable; NewPlatform seeds a
// non-zero thread identifier so records look realistic.
type Platform struct {
	mu            sync.Mutex
	tid           int
	failAffinity  bool
	failElevate   bool
	denyPriority  bool
	tidCalls      int
	affinityCalls [][]int
	priorityCalls []api.Priority
	elevateCalls  []api.TurboMode
	restoreCalls  int
}

// NewPlatform returns a fake reporting thread id 1001.
func NewPlatform() *Platform {
	return &Platform{tid: 1001}
}

// SetTID changes the thread id reported by subsequent ThreadID calls,
// letting a single test goroutine pose as several OS threads.
func (p *Platform) SetTID(tid int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tid = tid
}

// FailAffinity makes ApplyAffinity fail when on is true.
func (p *Platform) FailAffinity(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failAffinity = on
}

// DenyPriority makes ApplyPriority reject elevated and realtime classes with
// api.ErrPriorityDenied, mimicking an unprivileged host.
func (p *Platform) DenyPriority(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.denyPriority = on
}

// FailElevate makes ElevateProcess fail when on is true.
func (p *Platform) FailElevate(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failElevate = on
}

// ThreadID implements api.Platform.
func (p *Platform) ThreadID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tidCalls++
	return p.tid
}

// ApplyAffinity implements api.Platform.
func (p *Platform) ApplyAffinity(cores []int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.affinityCalls = append(p.affinityCalls, append([]int(nil), cores...))
	if p.failAffinity {
		return fmt.Errorf("affinity: %w", ErrInjected)
	}
	return nil
}

// ApplyPriority implements api.Platform.
func (p *Platform) ApplyPriority(prio api.Priority) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.priorityCalls = append(p.priorityCalls, prio)
	if p.denyPriority && prio.Class != api.PriorityNormal {
		return fmt.Errorf("%s: %w", prio, api.ErrPriorityDenied)
	}
	return nil
}

// ElevateProcess implements api.Platform.
func (p *Platform) ElevateProcess(mode api.TurboMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elevateCalls = append(p.elevateCalls, mode)
	if p.failElevate {
		return fmt.Errorf("elevate: %w", ErrInjected)
	}
	return nil
}

// RestoreProcess implements api.Platform.
func (p *Platform) RestoreProcess() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restoreCalls++
	return nil
}

// TIDCalls reports how many times ThreadID was asked for.
func (p *Platform) TIDCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tidCalls
}

// AffinityCalls returns a copy of every recorded affinity request.
func (p *Platform) AffinityCalls() [][]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]int, len(p.affinityCalls))
	for i, c := range p.affinityCalls {
		out[i] = append([]int(nil), c...)
	}
	return out
}

// PriorityCalls returns a copy of every recorded priority request.
func (p *Platform) PriorityCalls() []api.Priority {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.Priority(nil), p.priorityCalls...)
}

// ElevateCalls returns a copy of every recorded process elevation request.
func (p *Platform) ElevateCalls() []api.TurboMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.TurboMode(nil), p.elevateCalls...)
}

// RestoreCalls reports how many times RestoreProcess ran.
func (p *Platform) RestoreCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.restoreCalls
}

// Calls reports the total number of mutating platform calls received,
// excluding ThreadID lookups.
func (p *Platform) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.affinityCalls) + len(p.priorityCalls) + len(p.elevateCalls) + p.restoreCalls
}

// Reset clears all recorded calls and injected failures, keeping the tid.
func (p *Platform) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failAffinity = false
	p.failElevate = false
	p.denyPriority = false
	p.tidCalls = 0
	p.affinityCalls = nil
	p.priorityCalls = nil
	p.elevateCalls = nil
	p.restoreCalls = 0
}
