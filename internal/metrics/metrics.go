// Package metrics exposes Prometheus instrumentation for problem builds.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BuildMetrics counts the model primitives created during a problem build.
// A nil *BuildMetrics is valid and records nothing.
type BuildMetrics struct {
	variables   prometheus.Counter
	constraints prometheus.Counter
	sos2Sets    prometheus.Counter
	containers  prometheus.Gauge
}

// New registers build metrics on the given registerer.
func New(namespace string, reg prometheus.Registerer) *BuildMetrics {
	m := &BuildMetrics{
		variables: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_variables_created_total",
			Help:      "Number of decision variables created across problem builds.",
		}),
		constraints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_constraints_created_total",
			Help:      "Number of constraints created across problem builds.",
		}),
		sos2Sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_sos2_sets_total",
			Help:      "Number of SOS2 constraint sets registered across problem builds.",
		}),
		containers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_containers_registered",
			Help:      "Number of value containers currently registered.",
		}),
	}
	reg.MustRegister(m.variables, m.constraints, m.sos2Sets, m.containers)
	return m
}

// VariableCreated records a single decision variable creation.
func (m *BuildMetrics) VariableCreated() {
	if m == nil {
		return
	}
	m.variables.Inc()
}

// VariablesCreated records n decision variable creations.
func (m *BuildMetrics) VariablesCreated(n int) {
	if m == nil {
		return
	}
	m.variables.Add(float64(n))
}

// ConstraintCreated records a single constraint creation.
func (m *BuildMetrics) ConstraintCreated() {
	if m == nil {
		return
	}
	m.constraints.Inc()
}

// SOS2Created records a single SOS2 set registration.
func (m *BuildMetrics) SOS2Created() {
	if m == nil {
		return
	}
	m.sos2Sets.Inc()
}

// ContainerRegistered records a container registration or replacement delta.
func (m *BuildMetrics) ContainerRegistered(delta int) {
	if m == nil {
		return
	}
	m.containers.Add(float64(delta))
}
