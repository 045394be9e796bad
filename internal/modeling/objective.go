package modeling

import (
	"github.com/copyleftdev/VOLTA/internal/modeling/mp"
)

// ObjectiveFunction splits the scalar objective into an invariant part, built
// once per problem, and a variant part rebuilt whenever externally updated
// parameters change. The total objective is always invariant + variant; a
// logical term belongs to exactly one of the two.
type ObjectiveFunction struct {
	invariant *mp.QuadExpr
	variant   *mp.LinearExpr
}

// NewObjectiveFunction returns an empty accumulator.
func NewObjectiveFunction() *ObjectiveFunction {
	return &ObjectiveFunction{
		invariant: mp.NewQuadExpr(),
		variant:   mp.NewLinearExpr(),
	}
}

// AddInvariant adds an affine addend to the invariant part.
func (o *ObjectiveFunction) AddInvariant(e *mp.LinearExpr) {
	o.invariant.AddExpr(e)
}

// AddInvariantConstant adds a constant to the invariant part.
func (o *ObjectiveFunction) AddInvariantConstant(c float64) {
	o.invariant.AddConstant(c)
}

// AddInvariantQuadTerm adds coeff*a*b to the invariant part.
func (o *ObjectiveFunction) AddInvariantQuadTerm(a, b mp.Variable, coeff float64) {
	o.invariant.AddQuadTerm(a, b, coeff)
}

// AddVariant adds an affine addend to the variant part.
func (o *ObjectiveFunction) AddVariant(e *mp.LinearExpr) {
	o.variant.AddExpr(e)
}

// AddVariantConstant adds a constant to the variant part.
func (o *ObjectiveFunction) AddVariantConstant(c float64) {
	o.variant.AddConstant(c)
}

// Invariant returns the live invariant expression. Callers may inspect
// coefficients but must mutate only through the accumulator API.
func (o *ObjectiveFunction) Invariant() *mp.QuadExpr {
	return o.invariant
}

// Variant returns the live variant expression under the same contract.
func (o *ObjectiveFunction) Variant() *mp.LinearExpr {
	return o.variant
}

// ResetVariant discards the variant part so a repeated-solve workflow can
// rebuild it after a parameter update. The invariant part is never reset.
func (o *ObjectiveFunction) ResetVariant() {
	o.variant = mp.NewLinearExpr()
}
