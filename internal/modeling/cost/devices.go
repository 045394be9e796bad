package cost

import (
	"github.com/copyleftdev/VOLTA/internal/errors"
	"github.com/copyleftdev/VOLTA/internal/modeling"
	"github.com/copyleftdev/VOLTA/internal/modeling/keys"
)

// RateFunc supplies the per-device cost rate consumed by the device modules.
type RateFunc func(device modeling.ComponentLike) float64

// AddProportionalCost loops devices and time steps, charging rate*power per
// period. Rates are natural-unit $/MWh and are converted onto the system base
// and the step resolution. The time-variance flag of the config decides the
// objective half: invariant with the literal rate, or variant resolved against
// the rate parameter container on every rebuild.
func AddProportionalCost(oc *modeling.OptimizationContainer, devices []modeling.ComponentLike, rate RateFunc, cfg AssemblyConfig) error {
	const op = "cost.AddProportionalCost"

	vars, err := modeling.DenseVariables(oc, cfg.Variable, cfg.Component)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	mult := cfg.multiplier()
	for _, device := range devices {
		name := device.Name()
		scale := NaturalUnits.linearScale(oc.BasePower(), device.BasePower()) * oc.Dt() * mult
		for _, t := range oc.TimeSteps() {
			v, err := vars.Get(name, t)
			if err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
			if cfg.TimeVariant {
				if _, err := AddParameterizedCostTermVariant(oc, VarQuantity(v), cfg.Parameter, scale, cfg.Expression, cfg.Component, name, t); err != nil {
					return err
				}
				continue
			}
			if _, err := AddCostTermInvariant(oc, VarQuantity(v), rate(device)*scale, cfg.Expression, cfg.Component, name, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// addEventCost charges a per-event dollar cost on an indicator variable
// container. Event costs carry no power units and no resolution scaling.
func addEventCost(oc *modeling.OptimizationContainer, devices []modeling.ComponentLike, indicator *keys.ElementType, rate RateFunc, cfg AssemblyConfig, op string) error {
	vars, err := modeling.DenseVariables(oc, indicator, cfg.Component)
	if err != nil {
		return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
	}

	mult := cfg.multiplier()
	for _, device := range devices {
		name := device.Name()
		for _, t := range oc.TimeSteps() {
			v, err := vars.Get(name, t)
			if err != nil {
				return errors.Wrap(err, errors.KindUnknown, "").WithOperation(op)
			}
			if cfg.TimeVariant {
				if _, err := AddParameterizedCostTermVariant(oc, VarQuantity(v), cfg.Parameter, mult, cfg.Expression, cfg.Component, name, t); err != nil {
					return err
				}
				continue
			}
			if _, err := AddCostTermInvariant(oc, VarQuantity(v), rate(device)*mult, cfg.Expression, cfg.Component, name, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddStartupCost charges a per-start dollar cost on the start indicator
// variables.
func AddStartupCost(oc *modeling.OptimizationContainer, devices []modeling.ComponentLike, rate RateFunc, cfg AssemblyConfig) error {
	return addEventCost(oc, devices, keys.StartVariable, rate, cfg, "cost.AddStartupCost")
}

// AddShutdownCost charges a per-stop dollar cost on the stop indicator
// variables.
func AddShutdownCost(oc *modeling.OptimizationContainer, devices []modeling.ComponentLike, rate RateFunc, cfg AssemblyConfig) error {
	return addEventCost(oc, devices, keys.StopVariable, rate, cfg, "cost.AddShutdownCost")
}
