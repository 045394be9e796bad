package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/VOLTA/internal/errors"
)

func TestKeyEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		key     ContainerKey
		encoded string
	}{
		{
			name:    "unqualified variable key",
			key:     NewKey(ActivePowerVariable, "ThermalGenerator"),
			encoded: "ActivePowerVariable__ThermalGenerator",
		},
		{
			name:    "qualified constraint key",
			key:     NewKeyWithMeta(PiecewiseLinkConstraint, "ThermalGenerator", "ub"),
			encoded: "PiecewiseLinkConstraint__ThermalGenerator__ub",
		},
		{
			name:    "expression key",
			key:     NewKey(ProductionCostExpression, "RenewableGenerator"),
			encoded: "ProductionCostExpression__RenewableGenerator",
		},
		{
			name:    "parameter key",
			key:     NewKeyWithMeta(FuelPriceParameter, "ThermalGenerator", "gas"),
			encoded: "FuelPriceParameter__ThermalGenerator__gas",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.encoded, tt.key.Encode())

			decoded, err := Decode(tt.key.Encode())
			require.NoError(t, err)
			assert.Equal(t, tt.key, decoded)
		})
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		kind    errors.Kind
	}{
		{
			name:    "unregistered element type",
			encoded: "NoSuchVariable__ThermalGenerator",
			kind:    errors.KindUnknownKeyType,
		},
		{
			name:    "missing component",
			encoded: "ActivePowerVariable",
			kind:    errors.KindConfig,
		},
		{
			name:    "too many fields",
			encoded: "ActivePowerVariable__A__B__C",
			kind:    errors.KindConfig,
		},
		{
			name:    "empty element",
			encoded: "__ThermalGenerator",
			kind:    errors.KindConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.encoded)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tt.kind), "expected kind %v, got %v", tt.kind, errors.KindOf(err))
		})
	}
}

func TestRegister(t *testing.T) {
	el, err := Register("HostDefinedVariable", VariableKind)
	require.NoError(t, err)
	assert.Equal(t, "HostDefinedVariable", el.Name())
	assert.Equal(t, VariableKind, el.Kind())
	assert.False(t, el.Quadratic())

	// Registered tags decode.
	key := NewKey(el, "StorageUnit")
	decoded, err := Decode(key.Encode())
	require.NoError(t, err)
	assert.Equal(t, key, decoded)

	// Duplicate names are rejected.
	_, err = Register("HostDefinedVariable", VariableKind)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDuplicateKey))

	// Names carrying the separator would break the encoding.
	_, err = Register("Bad__Name", VariableKind)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}

func TestQuadraticTag(t *testing.T) {
	assert.True(t, ProductionCostExpression.Quadratic())
	assert.False(t, FuelConsumptionExpression.Quadratic())
	assert.Equal(t, ExpressionKind, ProductionCostExpression.Kind())
}

func TestRegisteredNamesSorted(t *testing.T) {
	names := RegisteredNames()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
	assert.Contains(t, names, "ActivePowerVariable")
}
