package cost

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/VOLTA/internal/errors"
	"github.com/copyleftdev/VOLTA/internal/modeling"
	"github.com/copyleftdev/VOLTA/internal/modeling/containers"
	"github.com/copyleftdev/VOLTA/internal/modeling/keys"
	"github.com/copyleftdev/VOLTA/internal/modeling/mp"
)

// OnStatus is the right-hand side of a piecewise normalization constraint:
// fixed 1.0 for always-committed devices, a binary decision variable when
// commitment is co-optimized, or a parameter value when commitment is fixed
// externally.
type OnStatus struct {
	variable mp.Variable
	hasVar   bool
	value    float64
}

// AlwaysOn returns the fixed status 1.0.
func AlwaysOn() OnStatus {
	return OnStatus{value: 1.0}
}

// StatusVariable ties the status to a commitment decision variable.
func StatusVariable(v mp.Variable) OnStatus {
	return OnStatus{variable: v, hasVar: true}
}

// StatusValue fixes the status to an externally supplied value.
func StatusValue(x float64) OnStatus {
	return OnStatus{value: x}
}

func (s OnStatus) expr() *mp.LinearExpr {
	if s.hasVar {
		return mp.Term(s.variable, 1.0)
	}
	return mp.Const(s.value)
}

// AddPiecewiseDeltaVariables creates nPoints convex-combination weight
// variables bounded [0, upper] for one (component, time step) cell, storing
// them under segment indices 0..nPoints-1 in the sparse container registered
// (or created) for the element tag. Pass math.Inf(1) for an unbounded upper.
func AddPiecewiseDeltaVariables(oc *modeling.OptimizationContainer, element *keys.ElementType, component keys.ComponentType, name string, t, nPoints int, upper float64) ([]mp.Variable, error) {
	const op = "cost.AddPiecewiseDeltaVariables"

	if nPoints <= 0 {
		return nil, errors.Newf(errors.KindDataShape, "need at least one breakpoint, got %d", nPoints).WithOperation(op)
	}

	store, err := oc.EnsureSparseVariableContainer(element, component)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	deltas := make([]mp.Variable, nPoints)
	for i := 0; i < nPoints; i++ {
		hint := fmt.Sprintf("%s_%s_{%s, %d, %d}", element.Name(), component, name, i, t)
		v, err := oc.Model().AddVariable(hint, mp.VarOptions{Lower: 0, Upper: upper})
		if err != nil {
			return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		oc.Metrics().VariableCreated()
		store.Set(containers.Key{Name: name, Segment: i, Time: t}, v)
		deltas[i] = v
	}
	return deltas, nil
}

// AddPiecewiseLinkingConstraint asserts power == sum(delta_i * breakpoint_i),
// registering the constraint in the sparse container for the element tag.
func AddPiecewiseLinkingConstraint(oc *modeling.OptimizationContainer, element *keys.ElementType, component keys.ComponentType, name string, t int, power mp.Variable, deltas []mp.Variable, breakpoints []float64) (mp.Constraint, error) {
	const op = "cost.AddPiecewiseLinkingConstraint"

	if len(deltas) != len(breakpoints) {
		return mp.Constraint{}, errors.Newf(errors.KindDataShape, "%d delta variables against %d breakpoints", len(deltas), len(breakpoints)).WithOperation(op)
	}

	rhs := mp.NewLinearExpr()
	for i, d := range deltas {
		rhs.AddTerm(d, breakpoints[i])
	}

	c, err := oc.Model().AddConstraint(mp.Eq, mp.Term(power, 1.0), rhs)
	if err != nil {
		return mp.Constraint{}, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	oc.Metrics().ConstraintCreated()

	store, err := oc.EnsureSparseConstraintContainer(element, component)
	if err != nil {
		return mp.Constraint{}, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	store.Set(containers.Key{Name: name, Time: t}, c)
	return c, nil
}

// AddPiecewiseSumConstraint asserts sum(delta_i) == status, registering the
// constraint in the sparse container for the element tag.
func AddPiecewiseSumConstraint(oc *modeling.OptimizationContainer, element *keys.ElementType, component keys.ComponentType, name string, t int, deltas []mp.Variable, status OnStatus) (mp.Constraint, error) {
	const op = "cost.AddPiecewiseSumConstraint"

	if len(deltas) == 0 {
		return mp.Constraint{}, errors.New(errors.KindDataShape, "no delta variables to normalize").WithOperation(op)
	}

	lhs := mp.NewLinearExpr()
	for _, d := range deltas {
		lhs.AddTerm(d, 1.0)
	}

	c, err := oc.Model().AddConstraint(mp.Eq, lhs, status.expr())
	if err != nil {
		return mp.Constraint{}, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	oc.Metrics().ConstraintCreated()

	store, err := oc.EnsureSparseConstraintContainer(element, component)
	if err != nil {
		return mp.Constraint{}, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	store.Set(containers.Key{Name: name, Time: t}, c)
	return c, nil
}

// AddPiecewiseSOS2 registers a special-ordered-set-2 constraint over the
// ordered delta variables. Required when the underlying curve is non-convex;
// without it the convex-combination formulation could select a non-contiguous
// breakpoint pair and under-state cost.
func AddPiecewiseSOS2(oc *modeling.OptimizationContainer, deltas []mp.Variable) error {
	const op = "cost.AddPiecewiseSOS2"

	if err := oc.Model().AddSOS2(deltas); err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	oc.Metrics().SOS2Created()
	return nil
}

// PiecewiseCostExpression builds sum(delta_i * y_i * multiplier).
func PiecewiseCostExpression(deltas []mp.Variable, yValues []float64, multiplier float64) (*mp.LinearExpr, error) {
	const op = "cost.PiecewiseCostExpression"

	if len(deltas) != len(yValues) {
		return nil, errors.Newf(errors.KindDataShape, "%d delta variables against %d cost values", len(deltas), len(yValues)).WithOperation(op)
	}

	e := mp.NewLinearExpr()
	for i, d := range deltas {
		e.AddTerm(d, yValues[i]*multiplier)
	}
	return e, nil
}

// isConvex reports whether the segment slopes between consecutive points are
// non-decreasing within the tolerance. Equal slopes count as convex.
func isConvex(points []Point, tol float64) bool {
	prev := math.Inf(-1)
	for i := 1; i < len(points); i++ {
		slope := (points[i].Y - points[i-1].Y) / (points[i].X - points[i-1].X)
		if slope < prev-tol {
			return false
		}
		prev = slope
	}
	return true
}

// allZeroCost reports whether every y value of the curve is zero.
func allZeroCost(points []Point) bool {
	for _, p := range points {
		if p.Y != 0 {
			return false
		}
	}
	return true
}

// validatePoints enforces at least two points with strictly increasing x.
func validatePoints(points []Point, op string) error {
	if len(points) < 2 {
		return errors.Newf(errors.KindDataShape, "piecewise curve needs at least 2 points, got %d", len(points)).WithOperation(op)
	}
	for i := 1; i < len(points); i++ {
		if points[i].X <= points[i-1].X {
			return errors.Newf(errors.KindDataShape, "piecewise x coordinates must be strictly increasing, got %v after %v", points[i].X, points[i-1].X).WithOperation(op)
		}
	}
	return nil
}

// incrementalToPoints converts a slope-segment curve to the equivalent point
// form by cumulative integration of the slopes from the initial anchor. All
// downstream piecewise logic runs on the point form.
func incrementalToPoints(c PiecewiseIncrementalCurve) ([]Point, error) {
	const op = "cost.incrementalToPoints"

	if len(c.XCoords) == 0 {
		return nil, errors.New(errors.KindDataShape, "incremental curve has no x coordinates").WithOperation(op)
	}
	if len(c.Slopes) != len(c.XCoords)-1 {
		return nil, errors.Newf(errors.KindDataShape, "%d slopes against %d x coordinates, want one per segment", len(c.Slopes), len(c.XCoords)).WithOperation(op)
	}
	if c.XCoords[0] != c.InitialInput {
		return nil, errors.Newf(errors.KindDataShape, "first x coordinate %v must equal the initial input %v", c.XCoords[0], c.InitialInput).WithOperation(op)
	}

	// Segment areas slope_i * dx_i, accumulated onto the initial output.
	increments := make([]float64, len(c.Slopes))
	for i := range c.Slopes {
		increments[i] = c.Slopes[i] * (c.XCoords[i+1] - c.XCoords[i])
	}
	floats.CumSum(increments, increments)

	points := make([]Point, len(c.XCoords))
	points[0] = Point{X: c.XCoords[0], Y: c.InitialOutput}
	for i := 1; i < len(points); i++ {
		points[i] = Point{X: c.XCoords[i], Y: c.InitialOutput + increments[i-1]}
	}
	return points, nil
}

// normalizePoints rescales x coordinates onto the system per-unit basis. Y
// values are point costs and carry no power units.
func normalizePoints(points []Point, units UnitSystem, systemBase, deviceBase float64) []Point {
	scale := units.powerScale(systemBase, deviceBase)
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X * scale, Y: p.Y}
	}
	return out
}
