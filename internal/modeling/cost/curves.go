// Package cost implements objective-function assembly: cost curve
// representations, the reusable cost-term and piecewise-linear helpers, and
// the per-curve-shape strategies that normalize units and resolution before
// routing terms into the invariant or variant objective.
package cost

import (
	"github.com/copyleftdev/VOLTA/internal/modeling/keys"
)

// UnitSystem tags the basis a curve's coefficients are expressed in.
type UnitSystem int

const (
	// NaturalUnits is physical device units (MW, $/MWh).
	NaturalUnits UnitSystem = iota
	// SystemBase is system-wide per-unit.
	SystemBase
	// DeviceBase is device-local per-unit.
	DeviceBase
)

// String returns a short name for the unit system.
func (u UnitSystem) String() string {
	switch u {
	case NaturalUnits:
		return "natural_units"
	case SystemBase:
		return "system_base"
	case DeviceBase:
		return "device_base"
	default:
		return "unknown"
	}
}

// linearScale returns the factor converting a linear coefficient in this unit
// system onto the system per-unit basis.
func (u UnitSystem) linearScale(systemBase, deviceBase float64) float64 {
	switch u {
	case NaturalUnits:
		return systemBase
	case DeviceBase:
		return systemBase / deviceBase
	default:
		return 1.0
	}
}

// quadraticScale is linearScale squared, for coefficients on squared power.
func (u UnitSystem) quadraticScale(systemBase, deviceBase float64) float64 {
	s := u.linearScale(systemBase, deviceBase)
	return s * s
}

// powerScale returns the factor converting a power quantity (an x coordinate)
// in this unit system onto the system per-unit basis.
func (u UnitSystem) powerScale(systemBase, deviceBase float64) float64 {
	switch u {
	case NaturalUnits:
		return 1.0 / systemBase
	case DeviceBase:
		return deviceBase / systemBase
	default:
		return 1.0
	}
}

// Point is one (input, output) sample of a piecewise-linear curve: power level
// against total cost or consumption at that level.
type Point struct {
	X float64
	Y float64
}

// ValueCurve is the closed set of cost curve shapes. Implementations are the
// four curve structs in this package.
type ValueCurve interface {
	curveShape() string
}

// LinearCurve is cost = Proportional*p + Constant, both rates per hour.
type LinearCurve struct {
	Proportional float64
	Constant     float64
}

func (LinearCurve) curveShape() string { return "linear" }

// QuadraticCurve is cost = Quadratic*p^2 + Proportional*p + Constant.
type QuadraticCurve struct {
	Quadratic    float64
	Proportional float64
	Constant     float64
}

func (QuadraticCurve) curveShape() string { return "quadratic" }

// PiecewisePointCurve is a list of (power, total cost) samples with linear
// interpolation between consecutive points. Y values are point costs, not
// hourly rates.
type PiecewisePointCurve struct {
	Points []Point
}

func (PiecewisePointCurve) curveShape() string { return "piecewise_point" }

// PiecewiseIncrementalCurve is the slope-segment form: an initial (input,
// output) anchor, the x breakpoints and the incremental slope of each segment.
type PiecewiseIncrementalCurve struct {
	InitialInput  float64
	InitialOutput float64
	XCoords       []float64
	Slopes        []float64
}

func (PiecewiseIncrementalCurve) curveShape() string { return "piecewise_incremental" }

// CostCurve pairs a value curve with the unit basis its coefficients carry.
type CostCurve struct {
	Value ValueCurve
	Units UnitSystem
}

// ParameterRef names a parameter container holding externally updated rates.
type ParameterRef struct {
	Element   *keys.ElementType
	Component keys.ComponentType
}

// FuelPrice is either a fixed scalar price or a reference to a time-varying
// fuel price parameter.
type FuelPrice struct {
	value float64
	ref   *ParameterRef
}

// ScalarPrice returns a fixed fuel price.
func ScalarPrice(v float64) FuelPrice {
	return FuelPrice{value: v}
}

// ParameterPrice returns a time-varying fuel price backed by a parameter
// container.
func ParameterPrice(element *keys.ElementType, component keys.ComponentType) FuelPrice {
	return FuelPrice{ref: &ParameterRef{Element: element, Component: component}}
}

// TimeVarying reports whether the price is parameter-backed.
func (p FuelPrice) TimeVarying() bool { return p.ref != nil }

// Value returns the scalar price; meaningful only when not time-varying.
func (p FuelPrice) Value() float64 { return p.value }

// Ref returns the parameter reference for time-varying prices.
func (p FuelPrice) Ref() *ParameterRef { return p.ref }

// FuelCurve wraps a consumption curve (fuel per hour, or fuel per power level
// for piecewise point form) with the fuel price converting consumption into
// cost.
type FuelCurve struct {
	Consumption ValueCurve
	Units       UnitSystem
	Price       FuelPrice
}
