package mp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/VOLTA/internal/errors"
)

func TestLinearExprArithmetic(t *testing.T) {
	m := NewRecorder()
	x, err := m.AddVariable("x", Bounded(0, 10))
	require.NoError(t, err)
	y, err := m.AddVariable("y", Unbounded())
	require.NoError(t, err)

	e := NewLinearExpr()
	e.AddTerm(x, 2.0)
	e.AddTerm(y, -1.0)
	e.AddConstant(5.0)
	e.AddTerm(x, 3.0) // coefficients accumulate

	assert.Equal(t, 5.0, e.Coefficient(x))
	assert.Equal(t, -1.0, e.Coefficient(y))
	assert.Equal(t, 5.0, e.Constant())
	assert.Equal(t, 2, e.NumTerms())

	other := Term(y, 4.0).AddConstant(1.0)
	e.AddExpr(other)
	assert.Equal(t, 3.0, e.Coefficient(y))
	assert.Equal(t, 6.0, e.Constant())

	e.Scale(2.0)
	assert.Equal(t, 10.0, e.Coefficient(x))
	assert.Equal(t, 6.0, e.Coefficient(y))
	assert.Equal(t, 12.0, e.Constant())

	clone := e.Clone()
	clone.AddTerm(x, 1.0)
	assert.Equal(t, 10.0, e.Coefficient(x), "clone must not alias the original")

	vars := e.Variables()
	require.Len(t, vars, 2)
	assert.Equal(t, x, vars[0])
	assert.Equal(t, y, vars[1])
}

func TestLinearExprEvaluate(t *testing.T) {
	m := NewRecorder()
	x, _ := m.AddVariable("x", Unbounded())
	y, _ := m.AddVariable("y", Unbounded())

	e := Term(x, 2.0).AddTerm(y, 3.0).AddConstant(1.0)

	val, err := e.Evaluate(map[Variable]float64{x: 4.0, y: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 12.0, val)

	_, err = e.Evaluate(map[Variable]float64{x: 4.0})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindKeyNotFound))
}

func TestQuadExpr(t *testing.T) {
	m := NewRecorder()
	x, _ := m.AddVariable("x", Unbounded())
	y, _ := m.AddVariable("y", Unbounded())

	e := NewQuadExpr()
	assert.False(t, e.HasQuadTerms())

	e.AddQuadTerm(x, y, 2.0)
	e.AddQuadTerm(y, x, 3.0) // same product either way round
	e.AddTerm(x, 1.5)
	e.AddConstant(4.0)

	assert.True(t, e.HasQuadTerms())
	assert.Equal(t, 5.0, e.QuadCoefficient(x, y))
	assert.Equal(t, 5.0, e.QuadCoefficient(y, x))
	assert.Equal(t, 1.5, e.Coefficient(x))
	assert.Equal(t, 4.0, e.Constant())
	assert.Equal(t, 1, e.NumQuadTerms())

	// A zero-coefficient product does not count as a quadratic term.
	z := NewQuadExpr()
	z.AddQuadTerm(x, x, 0.0)
	assert.False(t, z.HasQuadTerms())
}

func TestAccumulator(t *testing.T) {
	m := NewRecorder()
	x, _ := m.AddVariable("x", Unbounded())

	addend := Term(x, 2.5)
	targets := []Accumulator{NewLinearExpr(), NewQuadExpr()}
	for _, target := range targets {
		target.Accumulate(addend)
	}

	assert.Equal(t, 2.5, targets[0].(*LinearExpr).Coefficient(x))
	assert.Equal(t, 2.5, targets[1].(*QuadExpr).Coefficient(x))
}

func TestRecorderVariables(t *testing.T) {
	m := NewRecorder()

	start := 3.5
	v, err := m.AddVariable("p_gen1_1", VarOptions{Lower: 0, Upper: 1, Start: &start})
	require.NoError(t, err)
	assert.True(t, v.Valid())
	assert.Equal(t, "p_gen1_1", v.Name())

	b, err := m.AddVariable("u_gen1_1", VarOptions{Binary: true, Upper: 1})
	require.NoError(t, err)
	assert.NotEqual(t, v.ID(), b.ID())

	recorded := m.Variables()
	require.Len(t, recorded, 2)
	assert.Equal(t, 1.0, recorded[0].Options.Upper)
	require.NotNil(t, recorded[0].Options.Start)
	assert.Equal(t, 3.5, *recorded[0].Options.Start)
	assert.True(t, recorded[1].Options.Binary)

	_, err = m.AddVariable("bad", Bounded(5, 1))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	// Infinite bounds are legal.
	_, err = m.AddVariable("free", VarOptions{Lower: math.Inf(-1), Upper: math.Inf(1)})
	require.NoError(t, err)
}

func TestRecorderConstraints(t *testing.T) {
	m := NewRecorder()
	x, _ := m.AddVariable("x", Unbounded())

	lhs := Term(x, 1.0)
	c, err := m.AddConstraint(LessEq, lhs, Const(10.0))
	require.NoError(t, err)
	assert.True(t, c.Valid())

	// The recorder keeps copies; later mutation of lhs must not leak in.
	lhs.AddTerm(x, 5.0)
	recorded := m.Constraints()
	require.Len(t, recorded, 1)
	assert.Equal(t, LessEq, recorded[0].Relation)
	assert.Equal(t, 1.0, recorded[0].LHS.Coefficient(x))
	assert.Equal(t, 10.0, recorded[0].RHS.Constant())

	_, err = m.AddConstraint(Eq, nil, Const(0))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}

func TestRecorderSOS2(t *testing.T) {
	m := NewRecorder()
	a, _ := m.AddVariable("a", Bounded(0, 1))
	b, _ := m.AddVariable("b", Bounded(0, 1))
	c, _ := m.AddVariable("c", Bounded(0, 1))

	require.NoError(t, m.AddSOS2([]Variable{a, b, c}))
	require.Len(t, m.SOS2Sets(), 1)
	assert.Equal(t, []Variable{a, b, c}, m.SOS2Sets()[0])

	err := m.AddSOS2([]Variable{a})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDataShape))
}
