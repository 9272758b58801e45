// Package deriv provides the differentiation capability consumed by the
// propagation engine: evaluate an expression at a point and take a partial
// derivative at that point. Two interchangeable implementations exist, an
// exact one backed by symbolic differentiation and an approximate one backed
// by central finite differences. The engine's behavior must not depend on
// which one is injected.
package deriv

import (
	"github.com/consensys/errprop/expr"
)

// Engine computes values and partial derivatives of expressions at a point.
// Implementations must be deterministic for fixed inputs and must not require
// values for variables that are not free in the expression.
type Engine interface {
	Evaluate(e expr.Expression, at expr.Point) (float64, error)
	Partial(e expr.Expression, at expr.Point, wrt string) (float64, error)
}

// Symbolic returns an Engine that differentiates exactly through the
// expression tree.
func Symbolic() Engine { return symbolic{} }

type symbolic struct{}

func (symbolic) Evaluate(e expr.Expression, at expr.Point) (float64, error) {
	return e.Eval(at)
}

func (symbolic) Partial(e expr.Expression, at expr.Point, wrt string) (float64, error) {
	return e.Diff(wrt).Eval(at)
}
