package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEval(t *testing.T) {
	cases := []struct {
		src  string
		at   Point
		want float64
	}{
		{"pi * r**2", Point{"r": 5}, math.Pi * 25},
		{"4 * pi * r**3 / 3", Point{"r": 2}, 4 * math.Pi * 8 / 3},
		{"0.5*(A1+A2)*h", Point{"A1": 3, "A2": 5, "h": 12}, 48},
		{"-x**2", Point{"x": 3}, -9},
		{"2**-3", nil, 0.125},
		{"2**3**2", nil, 512},
		{"a - b - c", Point{"a": 10, "b": 3, "c": 2}, 5},
		{"6/3/2", nil, 1},
		{"1 + 2*3**2", nil, 19},
		{"x^2 + 1", Point{"x": 4}, 17},
		{"sin(pi/2)", nil, 1},
		{"sqrt(x)", Point{"x": 9}, 3},
		{"ln(e)", nil, 1},
		{"log10(100)", nil, 2},
		{"abs(0 - 3.5)", nil, 3.5},
		{"e**2", nil, math.E * math.E},
		{"1.5e2 * x", Point{"x": 2}, 300},
		{"+x", Point{"x": 7}, 7},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			assert := require.New(t)
			e, err := Parse(tc.src)
			assert.NoError(err)
			got, err := e.Eval(tc.at)
			assert.NoError(err)
			assert.InDelta(tc.want, got, 1e-12)

			// rendering must re-parse to the same value
			again, err := Parse(e.String())
			assert.NoError(err, "round-trip of %q", e.String())
			v, err := again.Eval(tc.at)
			assert.NoError(err)
			assert.InDelta(got, v, 1e-12)
		})
	}
}

func TestParseVariables(t *testing.T) {
	assert := require.New(t)

	e, err := Parse("0.5*(A2 + A1)*h + pi")
	assert.NoError(err)
	assert.Equal([]string{"A1", "A2", "h"}, e.Variables())

	e, err = Parse("pi * e")
	assert.NoError(err)
	assert.Nil(e.Variables())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		want error
	}{
		{"A = 5", ErrSyntax},
		{"2 +", ErrSyntax},
		{"(a", ErrSyntax},
		{"a b", ErrSyntax},
		{"sin(x", ErrSyntax},
		{"", ErrSyntax},
		{"foo(2)", ErrUnknownFunction},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			_, err := Parse(tc.src)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	assert := require.New(t)

	e, err := Parse("x / y")
	assert.NoError(err)
	_, err = e.Eval(Point{"x": 1})
	assert.ErrorIs(err, ErrMissingVariable)

	_, err = e.Eval(Point{"x": 1, "y": 0})
	assert.ErrorIs(err, ErrDomain)

	e, err = Parse("sqrt(z)")
	assert.NoError(err)
	_, err = e.Eval(Point{"z": -4})
	assert.ErrorIs(err, ErrDomain)

	e, err = Parse("ln(z)")
	assert.NoError(err)
	_, err = e.Eval(Point{"z": 0})
	assert.ErrorIs(err, ErrDomain)
}

func TestRename(t *testing.T) {
	assert := require.New(t)

	e, err := Parse("pi * r**2 + x")
	assert.NoError(err)

	r := Rename(e, map[string]string{"r": "radius"})
	assert.Equal([]string{"radius", "x"}, r.Variables())

	v1, err := e.Eval(Point{"r": 5, "x": 1})
	assert.NoError(err)
	v2, err := r.Eval(Point{"radius": 5, "x": 1})
	assert.NoError(err)
	assert.Equal(v1, v2)

	// the original tree is left untouched
	assert.Equal([]string{"r", "x"}, e.Variables())
}

func TestRestrictedNames(t *testing.T) {
	assert := require.New(t)
	assert.True(IsRestrictedName("pi"))
	assert.True(IsRestrictedName("e"))
	assert.False(IsRestrictedName("radius"))
}
