package keys

// Standard element types. These cover the variable, constraint, expression and
// parameter identities the cost assembly machinery uses; hosts register
// additional tags with Register for their own formulations.
var (
	// ActivePowerVariable is the per-device active power output decision.
	ActivePowerVariable = mustRegister("ActivePowerVariable", VariableKind, false)
	// OnStatusVariable is the per-device binary commitment decision.
	OnStatusVariable = mustRegister("OnStatusVariable", VariableKind, false)
	// StartVariable is the per-device start-up indicator decision.
	StartVariable = mustRegister("StartVariable", VariableKind, false)
	// StopVariable is the per-device shut-down indicator decision.
	StopVariable = mustRegister("StopVariable", VariableKind, false)
	// PiecewiseDeltaVariable holds the convex-combination weights of a
	// piecewise-linear cost formulation, one per breakpoint.
	PiecewiseDeltaVariable = mustRegister("PiecewiseDeltaVariable", VariableKind, false)

	// PiecewiseLinkConstraint ties a power variable to its breakpoint weights.
	PiecewiseLinkConstraint = mustRegister("PiecewiseLinkConstraint", ConstraintKind, false)
	// PiecewiseSumConstraint forces the breakpoint weights to sum to the
	// device's commitment status.
	PiecewiseSumConstraint = mustRegister("PiecewiseSumConstraint", ConstraintKind, false)

	// ProductionCostExpression accumulates per-device production cost. It may
	// carry quadratic terms.
	ProductionCostExpression = mustRegister("ProductionCostExpression", ExpressionKind, true)
	// FuelConsumptionExpression accumulates raw fuel consumption before fuel
	// pricing, for downstream reporting.
	FuelConsumptionExpression = mustRegister("FuelConsumptionExpression", ExpressionKind, false)
	// ActivePowerBalanceExpression accumulates nodal power injections.
	ActivePowerBalanceExpression = mustRegister("ActivePowerBalanceExpression", ExpressionKind, false)

	// CostParameter holds externally updated cost rates for time-variant terms.
	CostParameter = mustRegister("CostParameter", ParameterKind, false)
	// FuelPriceParameter holds externally updated fuel prices.
	FuelPriceParameter = mustRegister("FuelPriceParameter", ParameterKind, false)
	// OnStatusParameter holds externally fixed commitment status values.
	OnStatusParameter = mustRegister("OnStatusParameter", ParameterKind, false)

	// PowerOutputAuxVariable mirrors solved power output for reporting.
	PowerOutputAuxVariable = mustRegister("PowerOutputAuxVariable", AuxVariableKind, false)
)
