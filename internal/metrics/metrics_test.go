package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("volta_test", reg)

	m.VariableCreated()
	m.VariablesCreated(3)
	m.ConstraintCreated()
	m.SOS2Created()
	m.ContainerRegistered(2)
	m.ContainerRegistered(-1)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.variables))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.constraints))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sos2Sets))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.containers))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *BuildMetrics
	m.VariableCreated()
	m.VariablesCreated(5)
	m.ConstraintCreated()
	m.SOS2Created()
	m.ContainerRegistered(1)
}
