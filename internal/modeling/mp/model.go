package mp

import (
	"math"

	"github.com/copyleftdev/VOLTA/internal/errors"
)

// Relation is the comparison sense of a constraint.
type Relation int

const (
	// Eq is lhs == rhs.
	Eq Relation = iota
	// LessEq is lhs <= rhs.
	LessEq
	// GreaterEq is lhs >= rhs.
	GreaterEq
)

// String returns the relation's operator.
func (r Relation) String() string {
	switch r {
	case Eq:
		return "=="
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "?"
	}
}

// VarOptions carries the per-variable creation settings.
type VarOptions struct {
	// Lower and Upper bound the variable. Use math.Inf for unbounded sides.
	Lower, Upper float64
	// Binary restricts the variable to {0, 1}.
	Binary bool
	// Start, when non-nil, supplies a warm-start value.
	Start *float64
}

// Unbounded returns options with infinite bounds.
func Unbounded() VarOptions {
	return VarOptions{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Bounded returns options with the given finite bounds.
func Bounded(lower, upper float64) VarOptions {
	return VarOptions{Lower: lower, Upper: upper}
}

// Constraint is an opaque handle to a constraint registered with a Model.
type Constraint struct {
	id int
}

// ID returns the model-assigned identifier, positive for valid constraints.
func (c Constraint) ID() int { return c.id }

// Valid reports whether the handle refers to a registered constraint.
func (c Constraint) Valid() bool { return c.id > 0 }

// Model is the external mathematical-programming engine contract. The modeling
// core only creates primitives through it; solving and solution retrieval are
// the host's business.
type Model interface {
	// AddVariable creates a scalar decision variable.
	AddVariable(name string, opts VarOptions) (Variable, error)

	// AddConstraint registers lhs <rel> rhs.
	AddConstraint(rel Relation, lhs, rhs *LinearExpr) (Constraint, error)

	// AddSOS2 registers a special-ordered-set-2 constraint over the ordered
	// variable list: at most two may be nonzero, and only adjacent ones.
	AddSOS2(vars []Variable) error
}

// RecordedConstraint is one constraint kept by a Recorder.
type RecordedConstraint struct {
	Relation Relation
	LHS, RHS *LinearExpr
}

// RecordedVariable is one variable kept by a Recorder.
type RecordedVariable struct {
	Variable Variable
	Options  VarOptions
}

// Recorder is an in-memory Model. It hands out handles and records everything
// created through it, which is enough for problem builds that are serialized or
// inspected before a real backend is attached, and for tests.
type Recorder struct {
	variables   []RecordedVariable
	constraints []RecordedConstraint
	sos2Sets    [][]Variable
}

// NewRecorder returns an empty recording model.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// AddVariable implements Model.
func (m *Recorder) AddVariable(name string, opts VarOptions) (Variable, error) {
	const op = "Recorder.AddVariable"

	if opts.Lower > opts.Upper {
		return Variable{}, errors.Newf(errors.KindConfig, "lower bound %v above upper bound %v for %q", opts.Lower, opts.Upper, name).WithOperation(op)
	}
	v := Variable{id: len(m.variables) + 1, name: name}
	m.variables = append(m.variables, RecordedVariable{Variable: v, Options: opts})
	return v, nil
}

// AddConstraint implements Model.
func (m *Recorder) AddConstraint(rel Relation, lhs, rhs *LinearExpr) (Constraint, error) {
	const op = "Recorder.AddConstraint"

	if lhs == nil || rhs == nil {
		return Constraint{}, errors.New(errors.KindConfig, "constraint sides must not be nil").WithOperation(op)
	}
	c := Constraint{id: len(m.constraints) + 1}
	m.constraints = append(m.constraints, RecordedConstraint{Relation: rel, LHS: lhs.Clone(), RHS: rhs.Clone()})
	return c, nil
}

// AddSOS2 implements Model.
func (m *Recorder) AddSOS2(vars []Variable) error {
	const op = "Recorder.AddSOS2"

	if len(vars) < 2 {
		return errors.Newf(errors.KindDataShape, "SOS2 needs at least 2 variables, got %d", len(vars)).WithOperation(op)
	}
	set := append([]Variable(nil), vars...)
	m.sos2Sets = append(m.sos2Sets, set)
	return nil
}

// Variables returns the recorded variables in creation order.
func (m *Recorder) Variables() []RecordedVariable { return m.variables }

// Constraints returns the recorded constraints in creation order.
func (m *Recorder) Constraints() []RecordedConstraint { return m.constraints }

// SOS2Sets returns the recorded SOS2 sets in creation order.
func (m *Recorder) SOS2Sets() [][]Variable { return m.sos2Sets }

// NumVariables returns the number of variables created.
func (m *Recorder) NumVariables() int { return len(m.variables) }

// NumConstraints returns the number of constraints registered.
func (m *Recorder) NumConstraints() int { return len(m.constraints) }
