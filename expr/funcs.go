package expr

import "math"

// function bundles a numeric implementation with the symbolic derivative of
// the function with respect to its argument. The derivative builder receives
// the argument subtree; the chain-rule factor is applied by call.Diff.
type function struct {
	eval  func(float64) float64
	deriv func(u Expression) Expression
}

var functions = map[string]function{
	"sin": {math.Sin, func(u Expression) Expression { return call{fn: "cos", arg: u} }},
	"cos": {math.Cos, func(u Expression) Expression { return newNeg(call{fn: "sin", arg: u}) }},
	"tan": {math.Tan, func(u Expression) Expression {
		c := call{fn: "cos", arg: u}
		return newDiv(constant{val: 1}, newMul(c, c))
	}},
	"asin": {math.Asin, func(u Expression) Expression {
		return newDiv(constant{val: 1}, sqrtOneMinusSquare(u))
	}},
	"acos": {math.Acos, func(u Expression) Expression {
		return newNeg(newDiv(constant{val: 1}, sqrtOneMinusSquare(u)))
	}},
	"atan": {math.Atan, func(u Expression) Expression {
		return newDiv(constant{val: 1}, newAdd(constant{val: 1}, newMul(u, u)))
	}},
	"sinh": {math.Sinh, func(u Expression) Expression { return call{fn: "cosh", arg: u} }},
	"cosh": {math.Cosh, func(u Expression) Expression { return call{fn: "sinh", arg: u} }},
	"tanh": {math.Tanh, func(u Expression) Expression {
		t := call{fn: "tanh", arg: u}
		return newSub(constant{val: 1}, newMul(t, t))
	}},
	"sqrt": {math.Sqrt, func(u Expression) Expression {
		return newDiv(constant{val: 1}, newMul(constant{val: 2}, call{fn: "sqrt", arg: u}))
	}},
	"exp": {math.Exp, func(u Expression) Expression { return call{fn: "exp", arg: u} }},
	"ln":  {math.Log, func(u Expression) Expression { return newDiv(constant{val: 1}, u) }},
	"log": {math.Log, func(u Expression) Expression { return newDiv(constant{val: 1}, u) }},
	"log10": {math.Log10, func(u Expression) Expression {
		return newDiv(constant{val: 1}, newMul(u, constant{val: math.Ln10}))
	}},
	"abs": {math.Abs, func(u Expression) Expression {
		// u/|u|, undefined at u == 0 where Eval reports ErrDomain.
		return newDiv(u, call{fn: "abs", arg: u})
	}},
}

func sqrtOneMinusSquare(u Expression) Expression {
	return call{fn: "sqrt", arg: newSub(constant{val: 1}, newMul(u, u))}
}

// namedConstants are recognized by the parser and rejected as variable names
// by the equation layer.
var namedConstants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// IsRestrictedName reports whether name collides with a named constant and
// therefore cannot be used as a variable name.
func IsRestrictedName(name string) bool {
	_, ok := namedConstants[name]
	return ok
}
