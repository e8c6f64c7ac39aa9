// File: internal/metrics/prometheus.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Prometheus-backed collector for scheduler events.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/emuforge/hostsched/api"
)

// PrometheusCollector implements api.MetricsCollector backed by Prometheus.
// Collectors are created and registered lazily on first use so that an unused
// collector leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	threadsRegistered *prometheus.CounterVec
	affinityApplied   *prometheus.CounterVec
	affinityWidth     *prometheus.GaugeVec
	affinityFailures  *prometheus.CounterVec
	priorityDegraded  *prometheus.CounterVec
	modeChanges       prometheus.Counter
	turboMode         prometheus.Gauge
	enabled           prometheus.Gauge
	perfCores         prometheus.Gauge
	effCores          prometheus.Gauge
}

var _ api.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil registerer uses
// prometheus.DefaultRegisterer; an empty namespace defaults to "hostsched".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "hostsched"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.threadsRegistered = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "threads_registered_total",
			Help:      "Total thread registrations by role and turbo mode.",
		}, []string{"role", "mode"})

		p.affinityApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "affinity_applied_total",
			Help:      "Successful affinity applications by role.",
		}, []string{"role"})

		p.affinityWidth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "affinity_set_width",
			Help:      "Size of the most recently applied core set by role.",
		}, []string{"role"})

		p.affinityFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "affinity_failures_total",
			Help:      "Affinity applications refused by the OS, by role.",
		}, []string{"role"})

		p.priorityDegraded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "priority_degradations_total",
			Help:      "Priority requests that fell back to a lower level, by role.",
		}, []string{"role"})

		p.modeChanges = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "mode_changes_total",
			Help:      "Total effective turbo mode transitions.",
		})

		p.turboMode = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "turbo_mode",
			Help:      "Current turbo mode (0=disabled 1=balanced 2=aggressive 3=ultra).",
		})

		p.enabled = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "enabled",
			Help:      "Whether steering is enabled (1) or disabled (0).",
		})

		p.perfCores = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "performance_cores",
			Help:      "Detected performance core count.",
		})

		p.effCores = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "efficiency_cores",
			Help:      "Detected efficiency core count.",
		})

		p.reg.MustRegister(p.threadsRegistered)
		p.reg.MustRegister(p.affinityApplied)
		p.reg.MustRegister(p.affinityWidth)
		p.reg.MustRegister(p.affinityFailures)
		p.reg.MustRegister(p.priorityDegraded)
		p.reg.MustRegister(p.modeChanges)
		p.reg.MustRegister(p.turboMode)
		p.reg.MustRegister(p.enabled)
		p.reg.MustRegister(p.perfCores)
		p.reg.MustRegister(p.effCores)
	})
}

// ThreadRegistered counts an applied registration.
func (p *PrometheusCollector) ThreadRegistered(role api.Role, mode api.TurboMode) {
	p.ensureRegistered()
	p.threadsRegistered.WithLabelValues(role.String(), mode.String()).Inc()
}

// AffinityApplied counts a successful affinity call and records its width.
func (p *PrometheusCollector) AffinityApplied(role api.Role, width int) {
	p.ensureRegistered()
	p.affinityApplied.WithLabelValues(role.String()).Inc()
	p.affinityWidth.WithLabelValues(role.String()).Set(float64(width))
}

// AffinityFailed counts a refused affinity call.
func (p *PrometheusCollector) AffinityFailed(role api.Role) {
	p.ensureRegistered()
	p.affinityFailures.WithLabelValues(role.String()).Inc()
}

// PriorityDegraded counts a priority fallback.
func (p *PrometheusCollector) PriorityDegraded(role api.Role) {
	p.ensureRegistered()
	p.priorityDegraded.WithLabelValues(role.String()).Inc()
}

// ModeChanged records the new mode and counts the transition.
func (p *PrometheusCollector) ModeChanged(mode api.TurboMode) {
	p.ensureRegistered()
	p.modeChanges.Inc()
	p.turboMode.Set(float64(mode))
}

// EnabledChanged records the steering toggle.
func (p *PrometheusCollector) EnabledChanged(enabled bool) {
	p.ensureRegistered()
	if enabled {
		p.enabled.Set(1)
	} else {
		p.enabled.Set(0)
	}
}

// TopologyDetected records the detected group sizes.
func (p *PrometheusCollector) TopologyDetected(performance, efficiency int) {
	p.ensureRegistered()
	p.perfCores.Set(float64(performance))
	p.effCores.Set(float64(efficiency))
}
