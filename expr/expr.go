// Package expr implements the small expression algebra used to describe
// equation right-hand sides: parsing from text, evaluation at a point,
// free-variable inspection and symbolic differentiation.
//
// The grammar is the usual arithmetic one (`+ - * / **`, parentheses,
// single-argument functions) with `pi` and `e` as named constants. Expressions
// are immutable; all methods are safe for concurrent use on the same tree.
package expr

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Point maps variable names to the values an expression is evaluated at.
type Point map[string]float64

var (
	// ErrSyntax is returned when expression text cannot be parsed.
	ErrSyntax = errors.New("invalid expression syntax")
	// ErrUnknownFunction is returned when a call names a function that is not defined.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrMissingVariable is returned by Eval when the point does not cover a free variable.
	ErrMissingVariable = errors.New("variable has no value at evaluation point")
	// ErrDomain is returned by Eval when an operation leaves its numeric domain.
	ErrDomain = errors.New("outside function domain")
)

// Expression is an immutable arithmetic expression over named variables.
type Expression interface {
	// Eval computes the expression value at the given point. Every free
	// variable must be present in the point.
	Eval(at Point) (float64, error)

	// Diff returns the symbolic partial derivative with respect to name.
	// The result only references variables the receiver references.
	Diff(name string) Expression

	// Variables returns the free variables of the expression, sorted and
	// deduplicated.
	Variables() []string

	// String renders the expression in parseable form.
	String() string

	prec() int
	freeVars(set map[string]struct{})
}

// Constant returns an expression holding a fixed value.
func Constant(v float64) Expression { return constant{val: v} }

// Variable returns an expression referencing the named variable.
func Variable(name string) Expression { return variable{name: name} }

type constant struct {
	val float64
	// sym is set for the named constants pi and e so they render by name.
	sym string
}

type variable struct{ name string }

type negate struct{ x Expression }

// binary holds the operators + - * / and pow. Pow is stored as '^' and
// rendered as "**".
type binary struct {
	op   byte
	l, r Expression
}

type call struct {
	fn  string
	arg Expression
}

const (
	precAdd = iota + 1
	precMul
	precNeg
	precPow
	precAtom
)

func (c constant) Eval(Point) (float64, error) { return c.val, nil }
func (c constant) Variables() []string         { return nil }
func (c constant) freeVars(map[string]struct{}) {}
func (c constant) prec() int                   { return precAtom }

func (c constant) String() string {
	if c.sym != "" {
		return c.sym
	}
	if c.val < 0 {
		// negative folded constants render like a negation so they re-parse
		// with the same precedence.
		return "-" + strconv.FormatFloat(-c.val, 'g', -1, 64)
	}
	return strconv.FormatFloat(c.val, 'g', -1, 64)
}

func (v variable) Eval(at Point) (float64, error) {
	val, ok := at[v.name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", v.name, ErrMissingVariable)
	}
	return val, nil
}

func (v variable) Variables() []string { return []string{v.name} }

func (v variable) freeVars(set map[string]struct{}) { set[v.name] = struct{}{} }

func (v variable) prec() int { return precAtom }

func (v variable) String() string { return v.name }

func (n negate) Eval(at Point) (float64, error) {
	x, err := n.x.Eval(at)
	if err != nil {
		return 0, err
	}
	return -x, nil
}

func (n negate) Variables() []string { return vars(n) }

func (n negate) freeVars(set map[string]struct{}) { n.x.freeVars(set) }

func (n negate) prec() int { return precNeg }

func (n negate) String() string { return "-" + parenthesize(n.x, precNeg) }

func (b binary) Eval(at Point) (float64, error) {
	l, err := b.l.Eval(at)
	if err != nil {
		return 0, err
	}
	r, err := b.r.Eval(at)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, fmt.Errorf("division by zero in %q: %w", b.String(), ErrDomain)
		}
		return l / r, nil
	case '^':
		v := math.Pow(l, r)
		if math.IsNaN(v) && !math.IsNaN(l) && !math.IsNaN(r) {
			return 0, fmt.Errorf("%g**%g: %w", l, r, ErrDomain)
		}
		return v, nil
	}
	panic("unreachable operator " + string(b.op))
}

func (b binary) Variables() []string { return vars(b) }

func (b binary) freeVars(set map[string]struct{}) {
	b.l.freeVars(set)
	b.r.freeVars(set)
}

func (b binary) prec() int {
	switch b.op {
	case '+', '-':
		return precAdd
	case '*', '/':
		return precMul
	default:
		return precPow
	}
}

func (b binary) String() string {
	lp, rp := b.prec(), b.prec()
	var op string
	switch b.op {
	case '+':
		op = " + "
	case '-':
		op = " - "
		rp++
	case '*':
		op = "*"
	case '/':
		op = "/"
		rp++
	case '^':
		op = "**"
		lp++
	}
	return parenthesize(b.l, lp) + op + parenthesize(b.r, rp)
}

func (c call) Eval(at Point) (float64, error) {
	x, err := c.arg.Eval(at)
	if err != nil {
		return 0, err
	}
	fn, ok := functions[c.fn]
	if !ok {
		return 0, fmt.Errorf("%q: %w", c.fn, ErrUnknownFunction)
	}
	v := fn.eval(x)
	if math.IsNaN(v) && !math.IsNaN(x) {
		return 0, fmt.Errorf("%s(%g): %w", c.fn, x, ErrDomain)
	}
	if math.IsInf(v, 0) && !math.IsInf(x, 0) {
		return 0, fmt.Errorf("%s(%g): %w", c.fn, x, ErrDomain)
	}
	return v, nil
}

func (c call) Variables() []string { return vars(c) }

func (c call) freeVars(set map[string]struct{}) { c.arg.freeVars(set) }

func (c call) prec() int { return precAtom }

func (c call) String() string { return c.fn + "(" + c.arg.String() + ")" }

func vars(e Expression) []string {
	set := make(map[string]struct{})
	e.freeVars(set)
	if len(set) == 0 {
		return nil
	}
	r := make([]string, 0, len(set))
	for name := range set {
		r = append(r, name)
	}
	sort.Strings(r)
	return r
}

func parenthesize(e Expression, min int) string {
	if e.prec() < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Rename returns a copy of e with variables substituted according to names.
// Variables absent from the map are kept as is.
func Rename(e Expression, names map[string]string) Expression {
	if len(names) == 0 {
		return e
	}
	switch t := e.(type) {
	case constant:
		return t
	case variable:
		if to, ok := names[t.name]; ok {
			return variable{name: to}
		}
		return t
	case negate:
		return negate{x: Rename(t.x, names)}
	case binary:
		return binary{op: t.op, l: Rename(t.l, names), r: Rename(t.r, names)}
	case call:
		return call{fn: t.fn, arg: Rename(t.arg, names)}
	}
	panic("unreachable expression node")
}
