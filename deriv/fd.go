package deriv

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/consensys/errprop/expr"
)

type fdConfig struct {
	step float64
}

// FDOption alters the finite-difference engine configuration.
type FDOption func(*fdConfig) error

// WithStep sets the finite-difference step size. The default lets gonum pick
// the machine-precision-optimal step for the central formula.
func WithStep(h float64) FDOption {
	return func(c *fdConfig) error {
		if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return fmt.Errorf("invalid finite-difference step %v", h)
		}
		c.step = h
		return nil
	}
}

// FiniteDifference returns an Engine that approximates partial derivatives
// with the central difference formula from gonum's diff/fd package.
func FiniteDifference(opts ...FDOption) (Engine, error) {
	var cfg fdConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return finiteDifference{cfg: cfg}, nil
}

type finiteDifference struct {
	cfg fdConfig
}

func (finiteDifference) Evaluate(e expr.Expression, at expr.Point) (float64, error) {
	return e.Eval(at)
}

func (f finiteDifference) Partial(e expr.Expression, at expr.Point, wrt string) (float64, error) {
	x0, ok := at[wrt]
	if !ok {
		return 0, fmt.Errorf("%q: %w", wrt, expr.ErrMissingVariable)
	}

	// shifted evaluations share one scratch point; fd.Derivative calls the
	// closure sequentially
	scratch := make(expr.Point, len(at))
	for k, v := range at {
		scratch[k] = v
	}
	var evalErr error
	fn := func(x float64) float64 {
		scratch[wrt] = x
		v, err := e.Eval(scratch)
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.NaN()
		}
		return v
	}

	d := fd.Derivative(fn, x0, &fd.Settings{Formula: fd.Central, Step: f.cfg.step})
	if evalErr != nil {
		return 0, evalErr
	}
	if math.IsNaN(d) {
		return 0, fmt.Errorf("finite difference of %q with respect to %q at %v: %w",
			e.String(), wrt, x0, expr.ErrDomain)
	}
	return d, nil
}
