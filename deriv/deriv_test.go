package deriv_test

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/consensys/errprop/deriv"
	"github.com/consensys/errprop/expr"
)

func engines(t *testing.T) map[string]deriv.Engine {
	t.Helper()
	numeric, err := deriv.FiniteDifference()
	require.NoError(t, err)
	return map[string]deriv.Engine{
		"symbolic": deriv.Symbolic(),
		"numeric":  numeric,
	}
}

func TestEnginePartial(t *testing.T) {
	cases := []struct {
		src  string
		wrt  string
		at   expr.Point
		want float64
	}{
		{"pi * r**2", "r", expr.Point{"r": 5}, 2 * math.Pi * 5},
		{"A*h", "A", expr.Point{"A": 78.539816, "h": 12}, 12},
		{"0.5*(A1+A2)*h", "h", expr.Point{"A1": 3, "A2": 5, "h": 12}, 4},
		{"sin(x)", "x", expr.Point{"x": 0.7}, math.Cos(0.7)},
		{"exp(x)/x", "x", expr.Point{"x": 2}, math.E * math.E / 4},
	}

	for name, engine := range engines(t) {
		t.Run(name, func(t *testing.T) {
			for _, tc := range cases {
				t.Run(tc.src+"/"+tc.wrt, func(t *testing.T) {
					assert := require.New(t)
					e, err := expr.Parse(tc.src)
					assert.NoError(err)

					v, err := engine.Evaluate(e, tc.at)
					assert.NoError(err)
					ref, err := e.Eval(tc.at)
					assert.NoError(err)
					assert.Equal(ref, v)

					got, err := engine.Partial(e, tc.at, tc.wrt)
					assert.NoError(err)
					assert.InDelta(tc.want, got, 1e-5)
				})
			}
		})
	}
}

func TestEnginesAgree(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	numeric, err := deriv.FiniteDifference()
	require.NoError(t, err)
	symbolic := deriv.Symbolic()

	e, err := expr.Parse("a*x**3 + b*x**2 + c*x")
	require.NoError(t, err)

	properties.Property("symbolic and finite-difference partials agree", prop.ForAll(
		func(a, b, c, x float64) bool {
			at := expr.Point{"a": a, "b": b, "c": c, "x": x}
			ds, err := symbolic.Partial(e, at, "x")
			if err != nil {
				return false
			}
			dn, err := numeric.Partial(e, at, "x")
			if err != nil {
				return false
			}
			return math.Abs(ds-dn) <= 1e-4*math.Max(1, math.Abs(ds))
		},
		gen.Float64Range(-10, 10),
		gen.Float64Range(-10, 10),
		gen.Float64Range(-10, 10),
		gen.Float64Range(-5, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFiniteDifferenceStep(t *testing.T) {
	assert := require.New(t)

	_, err := deriv.FiniteDifference(deriv.WithStep(0))
	assert.Error(err)
	_, err = deriv.FiniteDifference(deriv.WithStep(-1e-6))
	assert.Error(err)

	engine, err := deriv.FiniteDifference(deriv.WithStep(1e-6))
	assert.NoError(err)

	e, err := expr.Parse("x**2")
	assert.NoError(err)
	d, err := engine.Partial(e, expr.Point{"x": 3}, "x")
	assert.NoError(err)
	assert.InDelta(6, d, 1e-4)
}

func TestPartialMissingVariable(t *testing.T) {
	assert := require.New(t)

	e, err := expr.Parse("x*y")
	assert.NoError(err)

	numeric, err := deriv.FiniteDifference()
	assert.NoError(err)
	_, err = numeric.Partial(e, expr.Point{"x": 1}, "y")
	assert.ErrorIs(err, expr.ErrMissingVariable)

	// the symbolic derivative with respect to x is y, which the point lacks
	_, err = deriv.Symbolic().Partial(e, expr.Point{"x": 1}, "x")
	assert.ErrorIs(err, expr.ErrMissingVariable)
}
