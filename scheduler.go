// File: scheduler.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Scheduler facade: owns the state machine (uninitialized, disabled,
// enabled), the detected topology, the turbo mode and affinity multiplier,
// and drives the classify / select / apply pipeline for registering threads.
// Every platform failure degrades and is reported through the Registration
// record, never as an error to the registering thread.

package hostsched

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/emuforge/hostsched/adapters"
	"github.com/emuforge/hostsched/api"
	"github.com/emuforge/hostsched/internal/logging"
	"github.com/emuforge/hostsched/internal/metrics"
	"github.com/emuforge/hostsched/policy"
	"github.com/emuforge/hostsched/topology"
)

const roleCount = int(api.RoleBackground) + 1

// Guest thread priorities run 64..191 for user threads, lower values more
// urgent. Requests in the urgent quarter of that band get performance-core
// handling even when the thread name does not classify.
const emulatedUrgentPriority = 96

// threadRecord marks a thread as steered, keyed by OS thread id. A repeat
// registration with the same role under the same mode is a no-op; a mode
// change invalidates the marker so the next registration re-applies.
type threadRecord struct {
	name string
	role api.Role
	mode api.TurboMode
}

type schedulerCounters struct {
	registrations [roleCount]atomic.Int64
	skipped       atomic.Int64
	affinityOK    atomic.Int64
	affinityFail  atomic.Int64
	priorityFall  atomic.Int64
	modeChanges   atomic.Int64
}

// Scheduler steers worker threads of the current process. Construct with New;
// the zero value is not usable. All methods are safe for concurrent use.
type Scheduler struct {
	cfg      *Config
	logger   api.Logger
	metrics  api.MetricsCollector
	platform api.Platform
	detect   func() (api.CoreTopology, error)

	mu             sync.RWMutex
	state          api.State
	mode           api.TurboMode
	multiplier     float64
	multiplierSet  bool
	topo           api.CoreTopology
	degraded       bool
	procElevated   bool
	gpuWorkerCores int

	threads  *xsync.MapOf[int, threadRecord]
	journal  *journal
	counters schedulerCounters
}

// New constructs a scheduler in the uninitialized state. Without options it
// uses the default config, the production platform backend, a nop logger and
// nop metrics.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:     logging.NewNop(),
		metrics:    metrics.NewNop(),
		platform:   adapters.NewPlatformAdapter(),
		mode:       api.TurboDisabled,
		multiplier: 1.0,
	}
	s.cfg = DefaultConfig()
	for _, opt := range opts {
		opt(s)
	}
	cfg := *s.cfg
	cfg.Normalize()
	s.cfg = &cfg
	if s.detect == nil {
		s.detect = topology.NewDetector(cfg.Topology).Detect
	}
	s.threads = xsync.NewMapOf[int, threadRecord]()
	s.journal = newJournal(cfg.JournalSize)
	return s
}

// Initialize detects the host topology and moves the scheduler to the
// disabled state. Idempotent; repeat calls keep the cached topology.
// Detection trouble degrades to the deterministic band partition and is
// never an error.
func (s *Scheduler) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != api.StateUninitialized {
		return nil
	}
	topo, err := s.detect()
	if err != nil {
		s.degraded = true
		s.logger.Warn("topology detection degraded", "error", err)
	}
	s.topo = topo
	s.state = api.StateDisabled
	s.metrics.TopologyDetected(len(topo.Performance), len(topo.Efficiency))
	s.logger.Info("topology resolved",
		"total", topo.TotalCores,
		"performance", len(topo.Performance),
		"efficiency", len(topo.Efficiency),
		"priority", len(topo.Priority),
		"ultra", len(topo.Ultra),
		"degraded", s.degraded)
	return nil
}

// Enable turns thread steering on or off. Disabling never undoes directives
// already applied to threads, but releases the process-level elevation.
func (s *Scheduler) Enable(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == api.StateUninitialized {
		return api.ErrNotInitialized
	}
	if on == (s.state == api.StateEnabled) {
		return nil
	}
	if on {
		s.state = api.StateEnabled
	} else {
		s.state = api.StateDisabled
	}
	s.metrics.EnabledChanged(on)
	s.applyProcessLevelLocked()
	s.logger.Info("steering toggled", "enabled", on, "mode", s.mode.String())
	return nil
}

// SetTurboMode switches the steering aggressiveness. Process-level
// adjustments for the new mode apply immediately; per-thread directives
// follow as threads re-register. Entering ultra escalates the affinity
// multiplier from its identity default unless the operator ever set one.
func (s *Scheduler) SetTurboMode(mode api.TurboMode) error {
	if mode < api.TurboDisabled || mode > api.TurboUltra {
		return fmt.Errorf("%w: turbo mode %d", api.ErrInvalidArgument, int(mode))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == api.StateUninitialized {
		return api.ErrNotInitialized
	}
	if mode == s.mode {
		return nil
	}
	prev := s.mode
	s.mode = mode
	if mode == api.TurboUltra && !s.multiplierSet && s.multiplier == 1.0 {
		s.multiplier = s.cfg.UltraMultiplier
		s.logger.Debug("affinity multiplier escalated", "multiplier", s.multiplier)
	}
	s.counters.modeChanges.Add(1)
	s.metrics.ModeChanged(mode)
	s.applyProcessLevelLocked()
	s.logger.Info("turbo mode changed", "from", prev.String(), "to", mode.String())
	return nil
}

// SetAffinityMultiplier sets the ultra-mode expansion factor, clamped into
// the configured bounds. Never errors; valid in any state. The value is
// marked operator-set and survives future mode transitions.
func (s *Scheduler) SetAffinityMultiplier(m float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clamped := clampFloat(m, s.cfg.MultiplierMin, s.cfg.MultiplierMax)
	s.multiplier = clamped
	s.multiplierSet = true
	s.logger.Debug("affinity multiplier set", "requested", m, "effective", clamped)
}

// Shutdown releases the process-level elevation, clears the per-thread
// markers and the journal, and returns to the uninitialized state.
// Idempotent. Counters survive for process-lifetime stats.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == api.StateUninitialized {
		return
	}
	s.releaseProcessLevelLocked()
	s.state = api.StateUninitialized
	s.mode = api.TurboDisabled
	s.multiplier = 1.0
	s.multiplierSet = false
	s.degraded = false
	s.gpuWorkerCores = 0
	s.topo = api.CoreTopology{}
	s.threads.Clear()
	s.journal.clear()
	s.logger.Info("scheduler shut down")
}

// RegisterThread classifies the calling thread by name and steers it. Must
// run on the thread being registered, after runtime.LockOSThread. While
// steering is off this performs no platform calls at all.
func (s *Scheduler) RegisterThread(name string) Registration {
	return s.register(registerRequest{name: name})
}

// RegisterThreadRole steers the calling thread under a caller-chosen role,
// bypassing name classification.
func (s *Scheduler) RegisterThreadRole(name string, role api.Role) Registration {
	if role < api.RoleUnknown || role > api.RoleBackground {
		role = api.RoleUnknown
	}
	return s.register(registerRequest{name: name, role: role, hasRole: true})
}

// RegisterEmulatedThread steers the calling thread on behalf of an emulated
// guest thread. The width of the guest affinity request (its set bit count)
// expands through the affinity multiplier while ultra mode is active;
// otherwise the thread goes through the normal role pipeline. An urgent
// guest priority upgrades an unclassified name to render handling.
func (s *Scheduler) RegisterEmulatedThread(name string, emuPriority int, emuAffinity uint32) Registration {
	role := policy.Classify(name)
	if (role == api.RoleBackground || role == api.RoleUnknown) &&
		emuPriority >= 0 && emuPriority <= emulatedUrgentPriority {
		role = api.RoleMainRender
	}
	return s.register(registerRequest{
		name:     name,
		role:     role,
		hasRole:  true,
		emulated: true,
		emuUnits: bits.OnesCount32(emuAffinity),
	})
}

type registerRequest struct {
	name     string
	role     api.Role
	hasRole  bool
	emulated bool
	emuUnits int
}

// register runs the pipeline against one consistent snapshot of the state.
// The lock is never held across platform calls.
func (s *Scheduler) register(req registerRequest) Registration {
	role := req.role
	if !req.hasRole {
		role = policy.Classify(req.name)
	}

	s.mu.RLock()
	state := s.state
	mode := s.mode
	mult := s.multiplier
	topo := s.topo
	s.mu.RUnlock()
	collapse := s.cfg.CollapseThreshold

	reg := Registration{Name: req.name, Role: role, Mode: mode, At: time.Now()}
	if state != api.StateEnabled {
		reg.Skipped = true
		return reg
	}

	tid := s.platform.ThreadID()
	reg.ThreadID = tid
	if rec, ok := s.threads.Load(tid); ok && rec.role == role && rec.mode == mode {
		reg.Skipped = true
		s.counters.skipped.Add(1)
		return reg
	}

	if req.emulated && mode == api.TurboUltra {
		reg.Cores = policy.ExpandEmulatedAffinity(req.emuUnits, mult, topo)
	} else {
		reg.Cores = policy.SelectCoresThreshold(role, mode, topo, collapse)
	}
	if err := s.platform.ApplyAffinity(reg.Cores); err != nil {
		s.counters.affinityFail.Add(1)
		s.metrics.AffinityFailed(role)
		s.logger.Warn("affinity apply failed",
			"name", req.name, "role", role.String(), "tid", tid, "error", err)
	} else {
		reg.AffinityApplied = true
		s.counters.affinityOK.Add(1)
		s.metrics.AffinityApplied(role, len(reg.Cores))
	}

	reg.Priority = policy.SelectPriority(role, mode)
	if err := s.platform.ApplyPriority(reg.Priority); err != nil {
		reg.Degraded = true
		s.counters.priorityFall.Add(1)
		s.metrics.PriorityDegraded(role)
		if errors.Is(err, api.ErrPriorityDenied) {
			s.logger.Debug("priority degraded",
				"name", req.name, "role", role.String(), "requested", reg.Priority.String(), "error", err)
		} else {
			s.logger.Warn("priority apply failed",
				"name", req.name, "role", role.String(), "requested", reg.Priority.String(), "error", err)
		}
	} else {
		reg.PriorityApplied = true
	}

	// Mark even after failures: retrying on the next registration would just
	// repeat the refused syscall.
	s.threads.Store(tid, threadRecord{name: req.name, role: role, mode: mode})
	s.counters.registrations[role].Add(1)
	s.metrics.ThreadRegistered(role, mode)
	s.journal.add(reg)
	s.logger.Info("thread registered",
		"name", req.name, "role", role.String(), "mode", mode.String(),
		"tid", tid, "cores", len(reg.Cores), "priority", reg.Priority.String())
	return reg
}

// SetGPUWorkerCores records how many performance cores the GPU submission
// workers intend to occupy, clamped to [0, performance count]. A hint for
// diagnostics; policy tables are unaffected.
func (s *Scheduler) SetGPUWorkerCores(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == api.StateUninitialized {
		return api.ErrNotInitialized
	}
	if n < 0 {
		n = 0
	}
	if limit := len(s.topo.Performance); n > limit {
		n = limit
	}
	s.gpuWorkerCores = n
	return nil
}

// GPUWorkerCores reports the recorded GPU worker core hint.
func (s *Scheduler) GPUWorkerCores() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gpuWorkerCores
}

// Topology returns a copy of the detected topology. Zero before Initialize.
func (s *Scheduler) Topology() api.CoreTopology {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topo.Clone()
}

// State reports the lifecycle state.
func (s *Scheduler) State() api.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsEnabled reports whether thread steering is active.
func (s *Scheduler) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == api.StateEnabled
}

// TurboMode reports the current mode.
func (s *Scheduler) TurboMode() api.TurboMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// AffinityMultiplier reports the current expansion factor.
func (s *Scheduler) AffinityMultiplier() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.multiplier
}

// UltraActive reports whether steering is enabled in ultra mode, the only
// condition under which emulated affinity requests widen.
func (s *Scheduler) UltraActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == api.StateEnabled && s.mode == api.TurboUltra
}

// DetectionDegraded reports whether topology detection fell back to the
// band partition.
func (s *Scheduler) DetectionDegraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// RecentRegistrations returns the journaled registration outcomes, oldest
// first, newest last.
func (s *Scheduler) RecentRegistrations() []Registration {
	return s.journal.snapshot()
}

// Stats returns a point-in-time snapshot of state and counters.
func (s *Scheduler) Stats() map[string]any {
	s.mu.RLock()
	state := s.state
	mode := s.mode
	mult := s.multiplier
	degraded := s.degraded
	gpu := s.gpuWorkerCores
	perf := len(s.topo.Performance)
	eff := len(s.topo.Efficiency)
	s.mu.RUnlock()

	byRole := make(map[string]int64, roleCount)
	for i := 0; i < roleCount; i++ {
		if n := s.counters.registrations[i].Load(); n > 0 {
			byRole[api.Role(i).String()] = n
		}
	}
	return map[string]any{
		"state":                 state.String(),
		"enabled":               state == api.StateEnabled,
		"mode":                  mode.String(),
		"affinity_multiplier":   mult,
		"detection_degraded":    degraded,
		"gpu_worker_cores":      gpu,
		"performance_cores":     perf,
		"efficiency_cores":      eff,
		"threads_tracked":       s.threads.Size(),
		"registrations":         byRole,
		"registrations_skipped": s.counters.skipped.Load(),
		"affinity_applied":      s.counters.affinityOK.Load(),
		"affinity_failures":     s.counters.affinityFail.Load(),
		"priority_fallbacks":    s.counters.priorityFall.Load(),
		"mode_changes":          s.counters.modeChanges.Load(),
	}
}

// applyProcessLevelLocked reconciles the process-level elevation with the
// current (state, mode) pair: elevation is held only while steering is
// enabled under a non-disabled mode. Any previous elevation is released
// before the new one applies. Callers hold s.mu.
func (s *Scheduler) applyProcessLevelLocked() {
	if s.state != api.StateEnabled || s.mode == api.TurboDisabled {
		s.releaseProcessLevelLocked()
		return
	}
	s.releaseProcessLevelLocked()
	if err := s.platform.ElevateProcess(s.mode); err != nil {
		s.logger.Warn("process elevation failed", "mode", s.mode.String(), "error", err)
		return
	}
	s.procElevated = true
}

func (s *Scheduler) releaseProcessLevelLocked() {
	if !s.procElevated {
		return
	}
	if err := s.platform.RestoreProcess(); err != nil {
		s.logger.Warn("process restore failed", "error", err)
	}
	s.procElevated = false
}
