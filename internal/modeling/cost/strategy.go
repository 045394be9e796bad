package cost

import (
	"go.uber.org/zap"

	"github.com/copyleftdev/VOLTA/internal/errors"
	"github.com/copyleftdev/VOLTA/internal/modeling"
	"github.com/copyleftdev/VOLTA/internal/modeling/keys"
	"github.com/copyleftdev/VOLTA/internal/modeling/mp"
)

// AssemblyConfig is the per-(device type, formulation) capability surface the
// host supplies to the cost strategies: which containers to read and mirror
// into, how to sign-scale the objective contribution, and how commitment
// status enters piecewise normalization.
type AssemblyConfig struct {
	// Component is the component type all containers are keyed under.
	Component keys.ComponentType
	// Variable tags the power variable container the cost applies to.
	Variable *keys.ElementType
	// Expression tags the cost expression container to mirror terms into;
	// nil (or an unregistered container) skips mirroring.
	Expression *keys.ElementType
	// FuelExpression tags the raw fuel consumption expression container.
	FuelExpression *keys.ElementType
	// Multiplier sign-scales every objective contribution; zero means 1.
	// Load curtailment formulations flip it to -1.
	Multiplier float64
	// TimeVariant routes device-module cost terms through the parameterized
	// variant path instead of the invariant one.
	TimeVariant bool
	// Parameter names the rate parameter container for time-variant terms.
	Parameter ParameterRef
	// Status supplies the piecewise normalization right-hand side per cell;
	// nil means always committed.
	Status func(name string, t int) OnStatus
}

func (c AssemblyConfig) multiplier() float64 {
	if c.Multiplier == 0 {
		return 1.0
	}
	return c.Multiplier
}

func (c AssemblyConfig) status(name string, t int) OnStatus {
	if c.Status == nil {
		return AlwaysOn()
	}
	return c.Status(name, t)
}

// AddCostCurve assembles the objective contribution of one device's cost
// curve: normalize units, convert hourly rates by the step resolution, then
// route per-time-step terms through the strategy matching the curve shape.
func AddCostCurve(oc *modeling.OptimizationContainer, device modeling.ComponentLike, curve CostCurve, cfg AssemblyConfig) error {
	const op = "cost.AddCostCurve"

	switch v := curve.Value.(type) {
	case LinearCurve:
		return addLinearCost(oc, device, v, curve.Units, cfg)
	case QuadraticCurve:
		return addQuadraticCost(oc, device, v, curve.Units, cfg)
	case PiecewisePointCurve:
		return addPiecewiseCost(oc, device, v.Points, curve.Units, cfg, nil)
	case PiecewiseIncrementalCurve:
		points, err := incrementalToPoints(v)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		return addPiecewiseCost(oc, device, points, curve.Units, cfg, nil)
	default:
		return errors.Newf(errors.KindConfig, "unsupported cost curve shape %T", curve.Value).WithOperation(op)
	}
}

// AddFuelCurve assembles a fuel-based cost: the consumption curve contributes
// consumption*price to the objective, and the raw consumption is mirrored into
// the fuel consumption expression container for reporting. A scalar price
// yields invariant terms; a parameter-backed price yields variant terms
// rebuilt on every parameter update.
func AddFuelCurve(oc *modeling.OptimizationContainer, device modeling.ComponentLike, fuel FuelCurve, cfg AssemblyConfig) error {
	const op = "cost.AddFuelCurve"

	switch v := fuel.Consumption.(type) {
	case LinearCurve:
		return addLinearFuelCost(oc, device, v, fuel, cfg)
	case QuadraticCurve:
		if fuel.Price.TimeVarying() {
			return errors.New(errors.KindConfig, "time-varying fuel price requires a linear or piecewise consumption curve").WithOperation(op)
		}
		scaled := QuadraticCurve{
			Quadratic:    v.Quadratic * fuel.Price.Value(),
			Proportional: v.Proportional * fuel.Price.Value(),
			Constant:     v.Constant * fuel.Price.Value(),
		}
		return addQuadraticCost(oc, device, scaled, fuel.Units, cfg)
	case PiecewisePointCurve:
		return addPiecewiseCost(oc, device, v.Points, fuel.Units, cfg, &fuel.Price)
	case PiecewiseIncrementalCurve:
		points, err := incrementalToPoints(v)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		return addPiecewiseCost(oc, device, points, fuel.Units, cfg, &fuel.Price)
	default:
		return errors.Newf(errors.KindConfig, "unsupported consumption curve shape %T", fuel.Consumption).WithOperation(op)
	}
}

// addLinearCost applies rate = proportional*unitScale*dt*multiplier to the
// device's power variable at every time step, invariant. The constant term is
// an hourly fixed cost, converted by dt only.
func addLinearCost(oc *modeling.OptimizationContainer, device modeling.ComponentLike, curve LinearCurve, units UnitSystem, cfg AssemblyConfig) error {
	const op = "cost.addLinearCost"

	vars, err := modeling.DenseVariables(oc, cfg.Variable, cfg.Component)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	mult := cfg.multiplier()
	rate := curve.Proportional * units.linearScale(oc.BasePower(), device.BasePower()) * oc.Dt() * mult
	fixed := curve.Constant * oc.Dt() * mult
	name := device.Name()

	for _, t := range oc.TimeSteps() {
		v, err := vars.Get(name, t)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		if _, err := AddCostTermInvariant(oc, VarQuantity(v), rate, cfg.Expression, cfg.Component, name, t); err != nil {
			return err
		}
		if fixed != 0 {
			if _, err := AddCostTermInvariant(oc, FixedQuantity(1.0), fixed, cfg.Expression, cfg.Component, name, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// addQuadraticCost is addLinearCost plus a quadratic term on the squared power
// variable. An exactly zero quadratic coefficient degrades to the linear case;
// that is an expected data pattern, not an error.
func addQuadraticCost(oc *modeling.OptimizationContainer, device modeling.ComponentLike, curve QuadraticCurve, units UnitSystem, cfg AssemblyConfig) error {
	const op = "cost.addQuadraticCost"

	qcoeff := curve.Quadratic * units.quadraticScale(oc.BasePower(), device.BasePower()) * oc.Dt() * cfg.multiplier()
	if qcoeff == 0 {
		return addLinearCost(oc, device, LinearCurve{Proportional: curve.Proportional, Constant: curve.Constant}, units, cfg)
	}

	if err := addLinearCost(oc, device, LinearCurve{Proportional: curve.Proportional, Constant: curve.Constant}, units, cfg); err != nil {
		return err
	}

	vars, err := modeling.DenseVariables(oc, cfg.Variable, cfg.Component)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	name := device.Name()
	mirror := cfg.Expression != nil && oc.HasContainerKey(cfg.Expression, cfg.Component)
	for _, t := range oc.TimeSteps() {
		v, err := vars.Get(name, t)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}
		oc.Objective().AddInvariantQuadTerm(v, v, qcoeff)
		if mirror {
			if err := oc.AddQuadTermToExpression(cfg.Expression, cfg.Component, name, t, v, v, qcoeff); err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
		}
	}
	return nil
}

// addLinearFuelCost multiplies a linear consumption rate by the fuel price.
// The raw consumption term is mirrored into the fuel expression container.
func addLinearFuelCost(oc *modeling.OptimizationContainer, device modeling.ComponentLike, curve LinearCurve, fuel FuelCurve, cfg AssemblyConfig) error {
	const op = "cost.addLinearFuelCost"

	vars, err := modeling.DenseVariables(oc, cfg.Variable, cfg.Component)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	mult := cfg.multiplier()
	consumptionRate := curve.Proportional * fuel.Units.linearScale(oc.BasePower(), device.BasePower()) * oc.Dt()
	fixedConsumption := curve.Constant * oc.Dt()
	name := device.Name()
	mirrorFuel := cfg.FuelExpression != nil && oc.HasContainerKey(cfg.FuelExpression, cfg.Component)

	for _, t := range oc.TimeSteps() {
		v, err := vars.Get(name, t)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}

		consumption := mp.Term(v, consumptionRate)
		consumption.AddConstant(fixedConsumption)
		if mirrorFuel {
			if err := oc.AddToExpression(cfg.FuelExpression, cfg.Component, name, t, consumption); err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
		}

		if fuel.Price.TimeVarying() {
			scale := consumptionRate * mult
			if _, err := AddParameterizedCostTermVariant(oc, VarQuantity(v), *fuel.Price.Ref(), scale, cfg.Expression, cfg.Component, name, t); err != nil {
				return err
			}
			if fixedConsumption != 0 {
				if _, err := AddParameterizedCostTermVariant(oc, FixedQuantity(1.0), *fuel.Price.Ref(), fixedConsumption*mult, cfg.Expression, cfg.Component, name, t); err != nil {
					return err
				}
			}
			continue
		}

		cost := consumption.Clone().Scale(fuel.Price.Value() * mult)
		if cfg.Expression != nil && oc.HasContainerKey(cfg.Expression, cfg.Component) {
			if err := oc.AddToExpression(cfg.Expression, cfg.Component, name, t, cost); err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
		}
		oc.Objective().AddInvariant(cost)
	}
	return nil
}

// addPiecewiseCost runs the single canonical piecewise-linear path. A nil
// price means a plain cost curve (y values are dollars); a price turns the
// y values into consumption mirrored pre-price and charged at the price.
func addPiecewiseCost(oc *modeling.OptimizationContainer, device modeling.ComponentLike, raw []Point, units UnitSystem, cfg AssemblyConfig, price *FuelPrice) error {
	const op = "cost.addPiecewiseCost"

	// All-zero curves are a designed total no-op: no variables, no
	// constraints, no cost. Checked before any scaffolding is materialized.
	if len(raw) > 0 && allZeroCost(raw) {
		oc.Logger().Debug("Skipping all-zero piecewise curve",
			zap.String("device", device.Name()),
		)
		return nil
	}

	if err := validatePoints(raw, op); err != nil {
		return err
	}

	points := normalizePoints(raw, units, oc.BasePower(), device.BasePower())
	convex := isConvex(points, oc.Settings().Build.SlopeTolerance)
	if !convex {
		oc.Logger().Warn("Non-convex piecewise curve requires SOS2 constraints",
			zap.String("device", device.Name()),
			zap.Int("points", len(points)),
		)
	}

	vars, err := modeling.DenseVariables(oc, cfg.Variable, cfg.Component)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	breakX := make([]float64, len(points))
	breakY := make([]float64, len(points))
	for i, p := range points {
		breakX[i] = p.X
		breakY[i] = p.Y
	}

	name := device.Name()
	mult := cfg.multiplier()
	mirrorFuel := price != nil && cfg.FuelExpression != nil && oc.HasContainerKey(cfg.FuelExpression, cfg.Component)

	for _, t := range oc.TimeSteps() {
		power, err := vars.Get(name, t)
		if err != nil {
			return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
		}

		deltas, err := AddPiecewiseDeltaVariables(oc, keys.PiecewiseDeltaVariable, cfg.Component, name, t, len(points), 1.0)
		if err != nil {
			return err
		}
		if _, err := AddPiecewiseLinkingConstraint(oc, keys.PiecewiseLinkConstraint, cfg.Component, name, t, power, deltas, breakX); err != nil {
			return err
		}
		if _, err := AddPiecewiseSumConstraint(oc, keys.PiecewiseSumConstraint, cfg.Component, name, t, deltas, cfg.status(name, t)); err != nil {
			return err
		}
		if !convex {
			if err := AddPiecewiseSOS2(oc, deltas); err != nil {
				return err
			}
		}

		if price == nil {
			costExpr, err := PiecewiseCostExpression(deltas, breakY, mult)
			if err != nil {
				return err
			}
			if cfg.Expression != nil && oc.HasContainerKey(cfg.Expression, cfg.Component) {
				if err := oc.AddToExpression(cfg.Expression, cfg.Component, name, t, costExpr); err != nil {
					return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
				}
			}
			oc.Objective().AddInvariant(costExpr)
			continue
		}

		consumption, err := PiecewiseCostExpression(deltas, breakY, 1.0)
		if err != nil {
			return err
		}
		if mirrorFuel {
			if err := oc.AddToExpression(cfg.FuelExpression, cfg.Component, name, t, consumption); err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
		}

		var priceValue float64
		if price.TimeVarying() {
			store, err := modeling.Parameters(oc, price.Ref().Element, price.Ref().Component)
			if err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
			priceValue, err = store.Resolve(name, t)
			if err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
		} else {
			priceValue = price.Value()
		}

		cost := consumption.Clone().Scale(priceValue * mult)
		if cfg.Expression != nil && oc.HasContainerKey(cfg.Expression, cfg.Component) {
			if err := oc.AddToExpression(cfg.Expression, cfg.Component, name, t, cost); err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
		}
		if price.TimeVarying() {
			oc.Objective().AddVariant(cost)
		} else {
			oc.Objective().AddInvariant(cost)
		}
	}
	return nil
}
