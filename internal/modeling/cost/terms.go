package cost

import (
	"github.com/copyleftdev/VOLTA/internal/errors"
	"github.com/copyleftdev/VOLTA/internal/modeling"
	"github.com/copyleftdev/VOLTA/internal/modeling/keys"
	"github.com/copyleftdev/VOLTA/internal/modeling/mp"
)

// Quantity is the thing a cost rate multiplies: either a decision variable
// (yielding a linear term) or a fixed scalar (yielding a constant). The
// cost-term helpers are agnostic to which.
type Quantity struct {
	variable mp.Variable
	hasVar   bool
	value    float64
}

// VarQuantity wraps a decision variable.
func VarQuantity(v mp.Variable) Quantity {
	return Quantity{variable: v, hasVar: true}
}

// FixedQuantity wraps a plain number.
func FixedQuantity(x float64) Quantity {
	return Quantity{value: x}
}

// Times returns the expression quantity*rate.
func (q Quantity) Times(rate float64) *mp.LinearExpr {
	if q.hasVar {
		return mp.Term(q.variable, rate)
	}
	return mp.Const(q.value * rate)
}

// addCostTerm computes cost = quantity*rate, mirrors it into the expression
// container cell (name, t) when that container exists, and routes it to the
// chosen objective half. The cost expression is returned so callers can
// aggregate further.
func addCostTerm(oc *modeling.OptimizationContainer, q Quantity, rate float64, expression *keys.ElementType, component keys.ComponentType, name string, t int, variant bool) (*mp.LinearExpr, error) {
	costExpr := q.Times(rate)

	if expression != nil && oc.HasContainerKey(expression, component) {
		if err := oc.AddToExpression(expression, component, name, t, costExpr); err != nil {
			return nil, err
		}
	}

	if variant {
		oc.Objective().AddVariant(costExpr)
	} else {
		oc.Objective().AddInvariant(costExpr)
	}
	return costExpr, nil
}

// AddCostTermInvariant adds quantity*rate to the invariant objective,
// mirroring it into the (expression, component) container if one is
// registered. The expression tag may be nil to skip mirroring.
func AddCostTermInvariant(oc *modeling.OptimizationContainer, q Quantity, rate float64, expression *keys.ElementType, component keys.ComponentType, name string, t int) (*mp.LinearExpr, error) {
	return addCostTerm(oc, q, rate, expression, component, name, t, false)
}

// AddCostTermVariant is AddCostTermInvariant routed to the variant objective.
func AddCostTermVariant(oc *modeling.OptimizationContainer, q Quantity, rate float64, expression *keys.ElementType, component keys.ComponentType, name string, t int) (*mp.LinearExpr, error) {
	return addCostTerm(oc, q, rate, expression, component, name, t, true)
}

// AddParameterizedCostTermVariant resolves the rate from the referenced
// parameter container as value*multiplier at (name, t), then adds
// quantity*rate to the variant objective. The extra rateScale folds in the
// unit/resolution/sign conversions the caller computed.
func AddParameterizedCostTermVariant(oc *modeling.OptimizationContainer, q Quantity, ref ParameterRef, rateScale float64, expression *keys.ElementType, component keys.ComponentType, name string, t int) (*mp.LinearExpr, error) {
	const op = "cost.AddParameterizedCostTermVariant"

	if ref.Element == nil {
		return nil, errors.New(errors.KindConfig, "parameter reference must name an element type").WithOperation(op)
	}
	store, err := modeling.Parameters(oc, ref.Element, ref.Component)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	rate, err := store.Resolve(name, t)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}
	return addCostTerm(oc, q, rate*rateScale, expression, component, name, t, true)
}
