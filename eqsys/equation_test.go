package eqsys_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/errprop/eqsys"
	"github.com/consensys/errprop/expr"
)

func TestParseEquation(t *testing.T) {
	assert := require.New(t)

	eq, err := eqsys.ParseEquation("A = pi * r**2")
	assert.NoError(err)
	assert.Equal("A", eq.Output)
	assert.Equal([]string{"r"}, eq.Inputs)

	v, err := eq.Expr.Eval(expr.Point{"r": 5})
	assert.NoError(err)
	assert.InDelta(78.539816, v, 1e-6)

	assert.Equal("A = pi*r**2", eq.String())
}

func TestParseEquationWhitespace(t *testing.T) {
	assert := require.New(t)

	eq, err := eqsys.ParseEquation("  V=0.5*(A1+A2)*h ")
	assert.NoError(err)
	assert.Equal("V", eq.Output)
	assert.Equal([]string{"A1", "A2", "h"}, eq.Inputs)
}

func TestParseEquationErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"missing equals", "A + B", eqsys.ErrMalformedEquation},
		{"two equals", "A = B = C", eqsys.ErrMalformedEquation},
		{"left side not identifier", "2x = y", eqsys.ErrMalformedEquation},
		{"left side expression", "A + 1 = y", eqsys.ErrMalformedEquation},
		{"empty left side", "= y", eqsys.ErrMalformedEquation},
		{"bad expression", "A = 2 +", eqsys.ErrMalformedEquation},
		{"unknown function", "A = foo(x)", eqsys.ErrMalformedEquation},
		{"self reference", "x = x + 1", eqsys.ErrMalformedEquation},
		{"restricted output", "pi = 2*r", eqsys.ErrRestrictedName},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eqsys.ParseEquation(tc.text)
			require.ErrorIs(t, err, tc.want)
		})
	}
}
