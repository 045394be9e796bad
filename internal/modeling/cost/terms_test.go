package cost

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/VOLTA/internal/errors"
	"github.com/copyleftdev/VOLTA/internal/modeling"
	"github.com/copyleftdev/VOLTA/internal/modeling/keys"
	"github.com/copyleftdev/VOLTA/internal/modeling/mp"
)

func TestQuantityTimes(t *testing.T) {
	model := mp.NewRecorder()
	v, err := model.AddVariable("x", mp.Unbounded())
	require.NoError(t, err)

	e := VarQuantity(v).Times(3.0)
	assert.Equal(t, 3.0, e.Coefficient(v))
	assert.Equal(t, 0.0, e.Constant())

	e = FixedQuantity(2.0).Times(3.0)
	assert.Equal(t, 0, e.NumTerms())
	assert.Equal(t, 6.0, e.Constant())
}

func TestCostTermRouting(t *testing.T) {
	oc, _ := newAssemblyHarness(t, time.Hour, 1, "gen1")
	v := powerVar(t, oc, "gen1", 1)

	_, err := AddCostTermInvariant(oc, VarQuantity(v), 4.0, nil, generator, "gen1", 1)
	require.NoError(t, err)
	_, err = AddCostTermVariant(oc, VarQuantity(v), 9.0, nil, generator, "gen1", 1)
	require.NoError(t, err)

	assert.Equal(t, 4.0, oc.Objective().Invariant().Coefficient(v))
	assert.Equal(t, 9.0, oc.Objective().Variant().Coefficient(v))
}

func TestCostTermMirrorsWhenContainerExists(t *testing.T) {
	oc, _ := newAssemblyHarness(t, time.Hour, 1, "gen1")
	v := powerVar(t, oc, "gen1", 1)

	// Mirroring is optional: an unregistered expression container is skipped
	// silently.
	_, err := AddCostTermInvariant(oc, VarQuantity(v), 4.0, keys.ProductionCostExpression, generator, "gen1", 1)
	require.NoError(t, err)

	require.NoError(t, oc.AddExpressionContainer(keys.ProductionCostExpression, generator, []string{"gen1"}))
	_, err = AddCostTermInvariant(oc, VarQuantity(v), 5.0, keys.ProductionCostExpression, generator, "gen1", 1)
	require.NoError(t, err)

	exprs, err := modeling.QuadExpressions(oc, keys.ProductionCostExpression, generator)
	require.NoError(t, err)
	cell, err := exprs.Get("gen1", 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cell.Coefficient(v))
	assert.Equal(t, 9.0, oc.Objective().Invariant().Coefficient(v))
}

func TestParameterizedCostTerm(t *testing.T) {
	oc, _ := newAssemblyHarness(t, time.Hour, 1, "gen1")
	v := powerVar(t, oc, "gen1", 1)

	store, err := oc.AddParameterContainer(keys.CostParameter, generator, []string{"gen1"})
	require.NoError(t, err)
	require.NoError(t, store.Values().Set("gen1", 1, 10.0))
	require.NoError(t, store.Multipliers().Set("gen1", 1, 0.5))

	ref := ParameterRef{Element: keys.CostParameter, Component: generator}
	_, err = AddParameterizedCostTermVariant(oc, VarQuantity(v), ref, 2.0, nil, generator, "gen1", 1)
	require.NoError(t, err)

	// value * multiplier * rateScale = 10 * 0.5 * 2.
	assert.Equal(t, 10.0, oc.Objective().Variant().Coefficient(v))
	assert.Equal(t, 0.0, oc.Objective().Invariant().Coefficient(v))

	// A nil element reference is a configuration error.
	_, err = AddParameterizedCostTermVariant(oc, VarQuantity(v), ParameterRef{}, 1.0, nil, generator, "gen1", 1)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	// A reference to a container that was never added fails the lookup.
	missing := ParameterRef{Element: keys.FuelPriceParameter, Component: generator}
	_, err = AddParameterizedCostTermVariant(oc, VarQuantity(v), missing, 1.0, nil, generator, "gen1", 1)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindKeyNotFound))
}
