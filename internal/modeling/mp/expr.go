// Package mp defines the mathematical-programming collaborator contract the
// modeling core builds against: decision variable handles, affine and quadratic
// expressions with inspectable coefficients, and the Model interface an actual
// solver backend implements.
package mp

import (
	"sort"

	"github.com/copyleftdev/VOLTA/internal/errors"
)

// Variable is an opaque handle to a scalar decision variable created by a
// Model. The zero value is not a valid variable.
type Variable struct {
	id   int
	name string
}

// ID returns the model-assigned identifier, positive for valid variables.
func (v Variable) ID() int { return v.id }

// Name returns the name hint the variable was created with.
func (v Variable) Name() string { return v.name }

// Valid reports whether the handle refers to a created variable.
func (v Variable) Valid() bool { return v.id > 0 }

// LinearExpr is an affine expression: a constant plus a weighted sum of
// variables. The zero value is unusable; use NewLinearExpr.
type LinearExpr struct {
	constant float64
	terms    map[Variable]float64
}

// NewLinearExpr returns an empty affine expression.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{terms: make(map[Variable]float64)}
}

// Term returns the single-term expression coeff*v.
func Term(v Variable, coeff float64) *LinearExpr {
	e := NewLinearExpr()
	e.AddTerm(v, coeff)
	return e
}

// Const returns the constant expression c.
func Const(c float64) *LinearExpr {
	e := NewLinearExpr()
	e.constant = c
	return e
}

// AddTerm adds coeff*v to the expression.
func (e *LinearExpr) AddTerm(v Variable, coeff float64) *LinearExpr {
	e.terms[v] += coeff
	return e
}

// AddConstant adds c to the expression's constant.
func (e *LinearExpr) AddConstant(c float64) *LinearExpr {
	e.constant += c
	return e
}

// AddExpr adds the other expression into this one.
func (e *LinearExpr) AddExpr(other *LinearExpr) *LinearExpr {
	if other == nil {
		return e
	}
	e.constant += other.constant
	for v, c := range other.terms {
		e.terms[v] += c
	}
	return e
}

// Scale multiplies every coefficient and the constant by f.
func (e *LinearExpr) Scale(f float64) *LinearExpr {
	e.constant *= f
	for v := range e.terms {
		e.terms[v] *= f
	}
	return e
}

// Coefficient returns the coefficient on v, zero if absent.
func (e *LinearExpr) Coefficient(v Variable) float64 {
	return e.terms[v]
}

// Constant returns the constant part.
func (e *LinearExpr) Constant() float64 {
	return e.constant
}

// NumTerms returns the number of variables with recorded coefficients.
func (e *LinearExpr) NumTerms() int {
	return len(e.terms)
}

// Variables returns the expression's variables ordered by id.
func (e *LinearExpr) Variables() []Variable {
	out := make([]Variable, 0, len(e.terms))
	for v := range e.terms {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Clone returns a deep copy.
func (e *LinearExpr) Clone() *LinearExpr {
	c := &LinearExpr{constant: e.constant, terms: make(map[Variable]float64, len(e.terms))}
	for v, coeff := range e.terms {
		c.terms[v] = coeff
	}
	return c
}

// Evaluate computes the expression value under the given variable assignment.
// Variables missing from the assignment fail with a key-not-found error.
func (e *LinearExpr) Evaluate(assignment map[Variable]float64) (float64, error) {
	const op = "LinearExpr.Evaluate"

	total := e.constant
	for v, coeff := range e.terms {
		x, ok := assignment[v]
		if !ok {
			return 0, errors.Newf(errors.KindKeyNotFound, "no assignment for variable %q", v.name).WithOperation(op)
		}
		total += coeff * x
	}
	return total, nil
}

// VarPair is an ordered pair of variables keying one quadratic term. The pair
// is normalized so (a,b) and (b,a) address the same term.
type VarPair struct {
	A, B Variable
}

func orderedPair(a, b Variable) VarPair {
	if b.id < a.id {
		a, b = b, a
	}
	return VarPair{A: a, B: b}
}

// QuadExpr is a quadratic expression: an affine part plus a weighted sum of
// variable products.
type QuadExpr struct {
	linear *LinearExpr
	quad   map[VarPair]float64
}

// NewQuadExpr returns an empty quadratic expression.
func NewQuadExpr() *QuadExpr {
	return &QuadExpr{linear: NewLinearExpr(), quad: make(map[VarPair]float64)}
}

// AddTerm adds coeff*v to the affine part.
func (e *QuadExpr) AddTerm(v Variable, coeff float64) *QuadExpr {
	e.linear.AddTerm(v, coeff)
	return e
}

// AddConstant adds c to the affine part.
func (e *QuadExpr) AddConstant(c float64) *QuadExpr {
	e.linear.AddConstant(c)
	return e
}

// AddExpr adds an affine expression into the affine part.
func (e *QuadExpr) AddExpr(other *LinearExpr) *QuadExpr {
	e.linear.AddExpr(other)
	return e
}

// AddQuadExpr adds another quadratic expression into this one.
func (e *QuadExpr) AddQuadExpr(other *QuadExpr) *QuadExpr {
	if other == nil {
		return e
	}
	e.linear.AddExpr(other.linear)
	for p, c := range other.quad {
		e.quad[p] += c
	}
	return e
}

// AddQuadTerm adds coeff*a*b to the quadratic part.
func (e *QuadExpr) AddQuadTerm(a, b Variable, coeff float64) *QuadExpr {
	e.quad[orderedPair(a, b)] += coeff
	return e
}

// Coefficient returns the affine coefficient on v.
func (e *QuadExpr) Coefficient(v Variable) float64 {
	return e.linear.Coefficient(v)
}

// QuadCoefficient returns the coefficient on the a*b product.
func (e *QuadExpr) QuadCoefficient(a, b Variable) float64 {
	return e.quad[orderedPair(a, b)]
}

// Constant returns the affine constant.
func (e *QuadExpr) Constant() float64 {
	return e.linear.Constant()
}

// Linear returns the live affine part.
func (e *QuadExpr) Linear() *LinearExpr {
	return e.linear
}

// HasQuadTerms reports whether any nonzero quadratic coefficient is recorded.
func (e *QuadExpr) HasQuadTerms() bool {
	for _, c := range e.quad {
		if c != 0 {
			return true
		}
	}
	return false
}

// NumQuadTerms returns the number of recorded variable products.
func (e *QuadExpr) NumQuadTerms() int {
	return len(e.quad)
}

// Accumulator is the shared write surface of LinearExpr and QuadExpr: both
// accept affine addends. Expression container cells are accessed through it so
// cost terms flow into either flavor uniformly.
type Accumulator interface {
	Accumulate(e *LinearExpr)
}

// Accumulate implements Accumulator.
func (e *LinearExpr) Accumulate(other *LinearExpr) { e.AddExpr(other) }

// Accumulate implements Accumulator.
func (e *QuadExpr) Accumulate(other *LinearExpr) { e.AddExpr(other) }
