// File: scheduler_test.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0

package hostsched

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emuforge/hostsched/api"
	"github.com/emuforge/hostsched/fake"
	"github.com/emuforge/hostsched/policy"
)

func coreRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for id := lo; id < hi; id++ {
		out = append(out, id)
	}
	return out
}

// testTopology is the canonical 24-core host: 16 performance cores with a
// priority prefix of 6 and an ultra prefix of 12, plus 8 efficiency cores.
func testTopology() api.CoreTopology {
	return api.CoreTopology{
		TotalCores:  24,
		Performance: coreRange(0, 16),
		Efficiency:  coreRange(16, 24),
		Priority:    coreRange(0, 6),
		Ultra:       coreRange(0, 12),
	}
}

func newTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *fake.Platform) {
	t.Helper()
	p := fake.NewPlatform()
	base := []Option{WithPlatform(p), WithTopology(testTopology())}
	return New(append(base, opts...)...), p
}

// enabledScheduler returns a scheduler that is initialized, enabled and in
// the given mode, with the construction-phase platform calls discarded.
func enabledScheduler(t *testing.T, mode api.TurboMode, opts ...Option) (*Scheduler, *fake.Platform) {
	t.Helper()
	s, p := newTestScheduler(t, opts...)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.SetTurboMode(mode))
	require.NoError(t, s.Enable(true))
	p.Reset()
	return s, p
}

func TestNewStartsUninitialized(t *testing.T) {
	t.Parallel()

	s, p := newTestScheduler(t)
	require.Equal(t, api.StateUninitialized, s.State())
	require.Equal(t, api.TurboDisabled, s.TurboMode())
	require.Equal(t, 1.0, s.AffinityMultiplier())
	require.False(t, s.IsEnabled())
	require.False(t, s.UltraActive())
	require.Zero(t, s.Topology().TotalCores)
	require.Zero(t, p.Calls())
}

func TestOperationsRequireInitialize(t *testing.T) {
	t.Parallel()

	s, p := newTestScheduler(t)
	require.ErrorIs(t, s.Enable(true), api.ErrNotInitialized)
	require.ErrorIs(t, s.SetTurboMode(api.TurboBalanced), api.ErrNotInitialized)
	require.ErrorIs(t, s.SetGPUWorkerCores(2), api.ErrNotInitialized)

	reg := s.RegisterThread("AudioOut")
	require.True(t, reg.Skipped)
	require.Zero(t, reg.ThreadID)
	require.Zero(t, p.Calls())
	require.Zero(t, p.TIDCalls())
}

func TestSetTurboModeRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	// Range checking comes before the lifecycle gate.
	require.ErrorIs(t, s.SetTurboMode(api.TurboMode(-1)), api.ErrInvalidArgument)
	require.ErrorIs(t, s.SetTurboMode(api.TurboMode(9)), api.ErrInvalidArgument)
}

func TestInitializeResolvesTopology(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	require.NoError(t, s.Initialize())
	require.Equal(t, api.StateDisabled, s.State())
	require.Equal(t, testTopology(), s.Topology())
	require.False(t, s.DetectionDegraded())

	// Idempotent: the second call keeps the cached topology.
	require.NoError(t, s.Initialize())
	require.Equal(t, api.StateDisabled, s.State())
	require.Equal(t, testTopology(), s.Topology())
}

func TestInitializeSurfacesDegradedDetection(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	s.detect = func() (api.CoreTopology, error) {
		return testTopology(), errors.New("probe broke")
	}
	require.NoError(t, s.Initialize())
	require.True(t, s.DetectionDegraded())
	require.Equal(t, testTopology(), s.Topology())
	require.Equal(t, api.StateDisabled, s.State())
}

// While steering is off, registration must not touch the platform at all,
// not even for the thread id.
func TestRegisterWhileDisabledMakesNoPlatformCalls(t *testing.T) {
	t.Parallel()

	s, p := newTestScheduler(t)
	require.NoError(t, s.Initialize())

	reg := s.RegisterThread("AudioOutMixer")
	require.True(t, reg.Skipped)
	require.Equal(t, api.RoleAudio, reg.Role)
	require.Zero(t, reg.ThreadID)
	require.Zero(t, p.Calls())
	require.Zero(t, p.TIDCalls())
	require.Empty(t, s.RecentRegistrations())
}

func TestRegisterClassifiesAndSteers(t *testing.T) {
	t.Parallel()

	s, p := enabledScheduler(t, api.TurboBalanced)

	reg := s.RegisterThread("AudioOutMixer")
	require.False(t, reg.Skipped)
	require.Equal(t, api.RoleAudio, reg.Role)
	require.Equal(t, api.TurboBalanced, reg.Mode)
	require.Equal(t, 1001, reg.ThreadID)
	require.Equal(t, coreRange(0, 6), reg.Cores)
	require.True(t, reg.AffinityApplied)
	require.True(t, reg.PriorityApplied)
	require.False(t, reg.Degraded)
	require.Equal(t, api.Priority{Class: api.PriorityRealtime, Level: 40}, reg.Priority)
	require.False(t, reg.At.IsZero())

	require.Equal(t, [][]int{coreRange(0, 6)}, p.AffinityCalls())
	require.Equal(t, []api.Priority{{Class: api.PriorityRealtime, Level: 40}}, p.PriorityCalls())

	journal := s.RecentRegistrations()
	require.Len(t, journal, 1)
	require.Equal(t, "AudioOutMixer", journal[0].Name)
}

func TestRegisterUnknownNameRunsOnEfficiencyCores(t *testing.T) {
	t.Parallel()

	s, _ := enabledScheduler(t, api.TurboAggressive)

	reg := s.RegisterThread("")
	require.Equal(t, api.RoleUnknown, reg.Role)
	require.Equal(t, coreRange(16, 24), reg.Cores)
	require.Equal(t, api.Priority{Class: api.PriorityNormal}, reg.Priority)

	back := s.RegisterThread("worker_3")
	require.Equal(t, api.RoleBackground, back.Role)
	require.Equal(t, coreRange(16, 24), back.Cores)
}

func TestRegisterIdempotentUntilModeChanges(t *testing.T) {
	t.Parallel()

	s, p := enabledScheduler(t, api.TurboBalanced)

	first := s.RegisterThread("RenderMain")
	require.False(t, first.Skipped)
	require.Equal(t, coreRange(0, 6), first.Cores)

	second := s.RegisterThread("RenderMain")
	require.True(t, second.Skipped)
	require.Len(t, p.AffinityCalls(), 1, "repeat registration must not reapply")

	require.NoError(t, s.SetTurboMode(api.TurboUltra))
	third := s.RegisterThread("RenderMain")
	require.False(t, third.Skipped)
	require.Equal(t, coreRange(0, 12), third.Cores)
	require.Len(t, p.AffinityCalls(), 2)

	stats := s.Stats()
	require.Equal(t, int64(1), stats["registrations_skipped"])
}

func TestRegisterTracksThreadsByID(t *testing.T) {
	t.Parallel()

	s, p := enabledScheduler(t, api.TurboBalanced)

	p.SetTID(2001)
	require.False(t, s.RegisterThread("AudioOut").Skipped)
	p.SetTID(2002)
	require.False(t, s.RegisterThread("NetFetch").Skipped)

	stats := s.Stats()
	require.Equal(t, 2, stats["threads_tracked"])
	require.Len(t, s.RecentRegistrations(), 2)
}

func TestRegisterThreadRoleBypassesClassification(t *testing.T) {
	t.Parallel()

	s, _ := enabledScheduler(t, api.TurboBalanced)

	reg := s.RegisterThreadRole("AudioSounding", api.RoleBackground)
	require.Equal(t, api.RoleBackground, reg.Role)
	require.Equal(t, coreRange(16, 24), reg.Cores)

	// Out-of-range roles demote to unknown rather than exploding.
	bad := s.RegisterThreadRole("helper", api.Role(99))
	require.Equal(t, api.RoleUnknown, bad.Role)
}

func TestRegisterEmulatedUrgentPriorityUpgrade(t *testing.T) {
	t.Parallel()

	s, _ := enabledScheduler(t, api.TurboBalanced)

	// Unclassified name with an urgent guest priority gets render handling.
	urgent := s.RegisterEmulatedThread("game_main", 70, 0x3)
	require.Equal(t, api.RoleMainRender, urgent.Role)
	require.Equal(t, coreRange(0, 6), urgent.Cores)

	// A lazy guest priority keeps the background classification.
	lazy := s.RegisterEmulatedThread("job_runner", 160, 0x3)
	require.Equal(t, api.RoleBackground, lazy.Role)
	require.Equal(t, coreRange(16, 24), lazy.Cores)

	// A classifying name wins regardless of the guest priority.
	named := s.RegisterEmulatedThread("AudioChannel", 180, 0x1)
	require.Equal(t, api.RoleAudio, named.Role)
}

func TestRegisterEmulatedExpandsOnlyInUltra(t *testing.T) {
	t.Parallel()

	s, _ := enabledScheduler(t, api.TurboUltra)
	require.Equal(t, 3.0, s.AffinityMultiplier(), "entering ultra escalates the multiplier")

	reg := s.RegisterEmulatedThread("game_main", 70, 0xF)
	require.Equal(t, coreRange(0, 12), reg.Cores, "4 guest units times 3.0, capped by the ultra group")
	require.Equal(t, api.Priority{Class: api.PriorityRealtime, Level: 40}, reg.Priority)

	// Outside ultra the guest mask is ignored and the role pipeline applies.
	balanced, _ := enabledScheduler(t, api.TurboBalanced)
	reg = balanced.RegisterEmulatedThread("game_main", 70, 0xF)
	require.Equal(t, coreRange(0, 6), reg.Cores)
}

func TestAffinityMultiplierEscalationAndPersistence(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t, WithConfig(&Config{UltraMultiplier: 2.5}))
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Enable(true))

	require.NoError(t, s.SetTurboMode(api.TurboUltra))
	require.Equal(t, 2.5, s.AffinityMultiplier())

	// Leaving ultra keeps the escalated value, and re-entering does not
	// escalate a second time.
	require.NoError(t, s.SetTurboMode(api.TurboBalanced))
	require.Equal(t, 2.5, s.AffinityMultiplier())
	require.NoError(t, s.SetTurboMode(api.TurboUltra))
	require.Equal(t, 2.5, s.AffinityMultiplier())
}

func TestAffinityMultiplierOperatorValueWins(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Enable(true))

	s.SetAffinityMultiplier(2.0)
	require.NoError(t, s.SetTurboMode(api.TurboUltra))
	require.Equal(t, 2.0, s.AffinityMultiplier())
}

// An operator who explicitly wants the identity multiplier keeps it even
// through ultra transitions.
func TestAffinityMultiplierExplicitIdentityPreserved(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	require.NoError(t, s.Initialize())
	s.SetAffinityMultiplier(1.0)
	require.NoError(t, s.SetTurboMode(api.TurboUltra))
	require.Equal(t, 1.0, s.AffinityMultiplier())
}

func TestAffinityMultiplierClampsToBounds(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	s.SetAffinityMultiplier(99)
	require.Equal(t, 4.0, s.AffinityMultiplier())
	s.SetAffinityMultiplier(0.01)
	require.Equal(t, 0.5, s.AffinityMultiplier())
	s.SetAffinityMultiplier(math.NaN())
	require.Equal(t, 0.5, s.AffinityMultiplier())
	s.SetAffinityMultiplier(2.0)
	require.Equal(t, 2.0, s.AffinityMultiplier())
}

func TestAffinityFailureIsRecordedNotRetried(t *testing.T) {
	t.Parallel()

	s, p := enabledScheduler(t, api.TurboBalanced)
	p.FailAffinity(true)

	reg := s.RegisterThread("AudioOut")
	require.False(t, reg.Skipped)
	require.False(t, reg.AffinityApplied)
	require.True(t, reg.PriorityApplied)

	// The thread is marked anyway; re-registering does not repeat the
	// refused call.
	again := s.RegisterThread("AudioOut")
	require.True(t, again.Skipped)
	require.Len(t, p.AffinityCalls(), 1)

	stats := s.Stats()
	require.Equal(t, int64(1), stats["affinity_failures"])
	require.Equal(t, int64(0), stats["affinity_applied"])
}

func TestPriorityDenialDegradesQuietly(t *testing.T) {
	t.Parallel()

	s, p := enabledScheduler(t, api.TurboAggressive)
	p.DenyPriority(true)

	reg := s.RegisterThread("AudioOut")
	require.True(t, reg.AffinityApplied)
	require.False(t, reg.PriorityApplied)
	require.True(t, reg.Degraded)

	// Normal-class roles are unaffected by the denial.
	back := s.RegisterThreadRole("keeper", api.RoleBackground)
	require.True(t, back.PriorityApplied)
	require.False(t, back.Degraded)

	stats := s.Stats()
	require.Equal(t, int64(1), stats["priority_fallbacks"])
}

func TestProcessElevationFollowsStateAndMode(t *testing.T) {
	t.Parallel()

	s, p := newTestScheduler(t)
	require.NoError(t, s.Initialize())

	// Enabling under the disabled mode requests nothing.
	require.NoError(t, s.Enable(true))
	require.Empty(t, p.ElevateCalls())
	require.Zero(t, p.RestoreCalls())

	require.NoError(t, s.SetTurboMode(api.TurboAggressive))
	require.Equal(t, []api.TurboMode{api.TurboAggressive}, p.ElevateCalls())
	require.Zero(t, p.RestoreCalls())

	// A mode change releases the old elevation before the new one.
	require.NoError(t, s.SetTurboMode(api.TurboBalanced))
	require.Equal(t, []api.TurboMode{api.TurboAggressive, api.TurboBalanced}, p.ElevateCalls())
	require.Equal(t, 1, p.RestoreCalls())

	require.NoError(t, s.Enable(false))
	require.Equal(t, 2, p.RestoreCalls())

	require.NoError(t, s.Enable(true))
	require.Equal(t, []api.TurboMode{api.TurboAggressive, api.TurboBalanced, api.TurboBalanced}, p.ElevateCalls())
	require.Equal(t, 2, p.RestoreCalls())

	require.NoError(t, s.SetTurboMode(api.TurboDisabled))
	require.Len(t, p.ElevateCalls(), 3)
	require.Equal(t, 3, p.RestoreCalls())
}

func TestProcessElevationNoOpsStayQuiet(t *testing.T) {
	t.Parallel()

	s, p := newTestScheduler(t)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.SetTurboMode(api.TurboBalanced))
	require.NoError(t, s.Enable(true))
	elevations := len(p.ElevateCalls())

	// Re-enabling and re-setting the same mode change nothing.
	require.NoError(t, s.Enable(true))
	require.NoError(t, s.SetTurboMode(api.TurboBalanced))
	require.Len(t, p.ElevateCalls(), elevations)

	stats := s.Stats()
	require.Equal(t, int64(1), stats["mode_changes"])
}

func TestProcessElevationFailureLeavesNothingToRestore(t *testing.T) {
	t.Parallel()

	s, p := newTestScheduler(t)
	require.NoError(t, s.Initialize())
	p.FailElevate(true)

	require.NoError(t, s.Enable(true))
	require.NoError(t, s.SetTurboMode(api.TurboUltra))
	require.Equal(t, []api.TurboMode{api.TurboUltra}, p.ElevateCalls())

	require.NoError(t, s.Enable(false))
	require.Zero(t, p.RestoreCalls())
}

func TestSetGPUWorkerCoresClamps(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	require.NoError(t, s.Initialize())

	require.NoError(t, s.SetGPUWorkerCores(4))
	require.Equal(t, 4, s.GPUWorkerCores())
	require.NoError(t, s.SetGPUWorkerCores(99))
	require.Equal(t, 16, s.GPUWorkerCores())
	require.NoError(t, s.SetGPUWorkerCores(-3))
	require.Zero(t, s.GPUWorkerCores())
}

func TestUltraActive(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.SetTurboMode(api.TurboUltra))
	require.False(t, s.UltraActive(), "mode alone is not enough")
	require.NoError(t, s.Enable(true))
	require.True(t, s.UltraActive())
	require.NoError(t, s.Enable(false))
	require.False(t, s.UltraActive())
}

func TestShutdownResetsStateKeepsCounters(t *testing.T) {
	t.Parallel()

	s, p := enabledScheduler(t, api.TurboUltra)
	require.False(t, s.RegisterThread("AudioOut").Skipped)

	s.Shutdown()
	require.Equal(t, api.StateUninitialized, s.State())
	require.Equal(t, api.TurboDisabled, s.TurboMode())
	require.Equal(t, 1.0, s.AffinityMultiplier())
	require.Zero(t, s.Topology().TotalCores)
	require.Zero(t, s.GPUWorkerCores())
	require.Empty(t, s.RecentRegistrations())
	require.Equal(t, 1, p.RestoreCalls(), "elevation released on shutdown")

	stats := s.Stats()
	require.Equal(t, 0, stats["threads_tracked"])
	require.Equal(t, map[string]int64{"audio": 1}, stats["registrations"])

	// Idempotent, and the scheduler can go around again.
	s.Shutdown()
	require.NoError(t, s.Initialize())
	require.Equal(t, api.StateDisabled, s.State())
	require.Equal(t, testTopology(), s.Topology())
}

func TestStatsSnapshot(t *testing.T) {
	t.Parallel()

	s, p := enabledScheduler(t, api.TurboAggressive)
	require.False(t, s.RegisterThread("AudioOut").Skipped)
	p.SetTID(1002)
	require.False(t, s.RegisterThread("worker_1").Skipped)
	require.NoError(t, s.SetGPUWorkerCores(4))

	stats := s.Stats()
	require.Equal(t, "enabled", stats["state"])
	require.Equal(t, true, stats["enabled"])
	require.Equal(t, "aggressive", stats["mode"])
	require.Equal(t, 1.0, stats["affinity_multiplier"])
	require.Equal(t, false, stats["detection_degraded"])
	require.Equal(t, 4, stats["gpu_worker_cores"])
	require.Equal(t, 16, stats["performance_cores"])
	require.Equal(t, 8, stats["efficiency_cores"])
	require.Equal(t, 2, stats["threads_tracked"])
	require.Equal(t, map[string]int64{"audio": 1, "background": 1}, stats["registrations"])
	require.Equal(t, int64(2), stats["affinity_applied"])
	require.Equal(t, int64(0), stats["affinity_failures"])
}

// Concurrent mode flips must never produce a torn registration: the mode,
// core set and priority in every journal entry belong together.
func TestConcurrentModeChangesKeepRegistrationsConsistent(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Enable(true))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		modes := []api.TurboMode{
			api.TurboBalanced, api.TurboAggressive, api.TurboUltra, api.TurboDisabled,
		}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_ = s.SetTurboMode(modes[i%len(modes)])
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			_ = s.Stats()
			_ = s.UltraActive()
			_ = s.RecentRegistrations()
		}
	}()

	for i := 0; i < 500; i++ {
		_ = s.RegisterThread("RenderMain")
	}
	close(stop)
	wg.Wait()

	topo := testTopology()
	entries := s.RecentRegistrations()
	require.NotEmpty(t, entries)
	for _, reg := range entries {
		wantCores := policy.SelectCoresThreshold(api.RoleMainRender, reg.Mode, topo, policy.DefaultCollapseThreshold)
		require.Equal(t, wantCores, reg.Cores, "mode %s", reg.Mode)
		require.Equal(t, policy.SelectPriority(api.RoleMainRender, reg.Mode), reg.Priority, "mode %s", reg.Mode)
	}
}

func TestJournalHonorsConfiguredCapacity(t *testing.T) {
	t.Parallel()

	s, p := enabledScheduler(t, api.TurboBalanced, WithConfig(&Config{JournalSize: 4}))
	for tid := 3000; tid < 3010; tid++ {
		p.SetTID(tid)
		require.False(t, s.RegisterThread("NetFetch").Skipped)
	}
	entries := s.RecentRegistrations()
	require.Len(t, entries, 4)
	require.Equal(t, 3009, entries[3].ThreadID)
}

// The default scheduler is a swappable process-wide singleton behind
// package-level wrappers. Not parallel: it mutates global state.
func TestDefaultSchedulerWrappers(t *testing.T) {
	p := fake.NewPlatform()
	s := New(WithPlatform(p), WithTopology(testTopology()))
	SetDefault(s)
	defer SetDefault(nil)

	require.Same(t, s, Default())
	require.NoError(t, Initialize())
	require.NoError(t, SetTurboMode(api.TurboUltra))
	require.NoError(t, Enable(true))
	require.True(t, UltraActive())

	reg := RegisterThread("AudioOut")
	require.True(t, reg.AffinityApplied)

	SetAffinityMultiplier(2.0)
	guest := RegisterEmulatedThread("game_main", 70, 0x3)
	require.Equal(t, coreRange(0, 4), guest.Cores)

	role := RegisterThreadRole("spare", api.RoleNetwork)
	require.Equal(t, api.RoleNetwork, role.Role)

	Shutdown()
	require.Equal(t, api.StateUninitialized, Default().State())
}
