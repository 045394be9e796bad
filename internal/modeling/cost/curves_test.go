package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/VOLTA/internal/errors"
	"github.com/copyleftdev/VOLTA/internal/modeling/keys"
)

func TestUnitScales(t *testing.T) {
	const systemBase, deviceBase = 100.0, 50.0

	tests := []struct {
		name      string
		units     UnitSystem
		linear    float64
		quadratic float64
		power     float64
	}{
		{name: "natural units", units: NaturalUnits, linear: 100.0, quadratic: 10000.0, power: 0.01},
		{name: "system base", units: SystemBase, linear: 1.0, quadratic: 1.0, power: 1.0},
		{name: "device base", units: DeviceBase, linear: 2.0, quadratic: 4.0, power: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.linear, tt.units.linearScale(systemBase, deviceBase), 1e-12)
			assert.InDelta(t, tt.quadratic, tt.units.quadraticScale(systemBase, deviceBase), 1e-12)
			assert.InDelta(t, tt.power, tt.units.powerScale(systemBase, deviceBase), 1e-12)
		})
	}
}

func TestIncrementalToPoints(t *testing.T) {
	curve := PiecewiseIncrementalCurve{
		InitialInput:  0,
		InitialOutput: 0,
		XCoords:       []float64{0, 2, 4},
		Slopes:        []float64{10, 20},
	}

	points, err := incrementalToPoints(curve)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, Point{X: 0, Y: 0}, points[0])
	assert.Equal(t, Point{X: 2, Y: 20}, points[1])
	assert.Equal(t, Point{X: 4, Y: 60}, points[2])

	// A nonzero anchor shifts every output.
	curve.InitialOutput = 5
	points, err = incrementalToPoints(curve)
	require.NoError(t, err)
	assert.Equal(t, 5.0, points[0].Y)
	assert.Equal(t, 65.0, points[2].Y)
}

func TestIncrementalToPointsShapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		curve PiecewiseIncrementalCurve
	}{
		{
			name:  "no x coordinates",
			curve: PiecewiseIncrementalCurve{},
		},
		{
			name: "slope count mismatch",
			curve: PiecewiseIncrementalCurve{
				XCoords: []float64{0, 1, 2},
				Slopes:  []float64{10},
			},
		},
		{
			name: "anchor off the first breakpoint",
			curve: PiecewiseIncrementalCurve{
				InitialInput: 1,
				XCoords:      []float64{0, 2},
				Slopes:       []float64{10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := incrementalToPoints(tt.curve)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindDataShape))
		})
	}
}

func TestIsConvex(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		tol    float64
		want   bool
	}{
		{
			name:   "increasing slopes",
			points: []Point{{0, 0}, {1, 10}, {2, 30}},
			tol:    1e-9,
			want:   true,
		},
		{
			name:   "equal slopes",
			points: []Point{{0, 0}, {1, 10}, {2, 20}},
			tol:    1e-9,
			want:   true,
		},
		{
			name:   "decreasing slopes",
			points: []Point{{0, 0}, {1, 40}, {2, 50}},
			tol:    1e-9,
			want:   false,
		},
		{
			name:   "decrease inside tolerance",
			points: []Point{{0, 0}, {1, 10}, {2, 20 - 1e-12}},
			tol:    1e-9,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConvex(tt.points, tt.tol))
		})
	}
}

func TestValidatePoints(t *testing.T) {
	require.NoError(t, validatePoints([]Point{{0, 0}, {1, 5}}, "test"))

	err := validatePoints([]Point{{0, 0}}, "test")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDataShape))

	err = validatePoints([]Point{{0, 0}, {1, 5}, {1, 7}}, "test")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDataShape))
}

func TestNormalizePointsScalesOnlyX(t *testing.T) {
	points := []Point{{X: 0, Y: 0}, {X: 50, Y: 120}, {X: 100, Y: 300}}
	out := normalizePoints(points, NaturalUnits, 100.0, 50.0)

	assert.Equal(t, 0.5, out[1].X)
	assert.Equal(t, 1.0, out[2].X)
	assert.Equal(t, 120.0, out[1].Y)
	assert.Equal(t, 300.0, out[2].Y)

	// The input slice stays untouched.
	assert.Equal(t, 50.0, points[1].X)
}

func TestFuelPrice(t *testing.T) {
	scalar := ScalarPrice(4.2)
	assert.False(t, scalar.TimeVarying())
	assert.Equal(t, 4.2, scalar.Value())
	assert.Nil(t, scalar.Ref())

	param := ParameterPrice(keys.FuelPriceParameter, "ThermalGenerator")
	assert.True(t, param.TimeVarying())
	require.NotNil(t, param.Ref())
	assert.Equal(t, keys.FuelPriceParameter, param.Ref().Element)
}

func TestAllZeroCost(t *testing.T) {
	assert.True(t, allZeroCost([]Point{{0, 0}, {5, 0}, {9, 0}}))
	assert.False(t, allZeroCost([]Point{{0, 0}, {5, 0.001}}))
}
