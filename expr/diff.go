package expr

import "math"

// Differentiation builds derivative trees through the folding constructors
// below so that the common zero and identity terms collapse immediately.
// Without the folding, chained derivatives of products grow large enough to
// slow down repeated evaluation.

func (c constant) Diff(string) Expression { return constant{val: 0} }

func (v variable) Diff(name string) Expression {
	if v.name == name {
		return constant{val: 1}
	}
	return constant{val: 0}
}

func (n negate) Diff(name string) Expression { return newNeg(n.x.Diff(name)) }

func (b binary) Diff(name string) Expression {
	switch b.op {
	case '+':
		return newAdd(b.l.Diff(name), b.r.Diff(name))
	case '-':
		return newSub(b.l.Diff(name), b.r.Diff(name))
	case '*':
		return newAdd(newMul(b.l.Diff(name), b.r), newMul(b.l, b.r.Diff(name)))
	case '/':
		num := newSub(newMul(b.l.Diff(name), b.r), newMul(b.l, b.r.Diff(name)))
		return newDiv(num, newMul(b.r, b.r))
	case '^':
		return b.diffPow(name)
	}
	panic("unreachable operator " + string(b.op))
}

// diffPow handles f**g. With a constant exponent c the power rule
// c*f**(c-1)*f' applies; otherwise the general form
// f**g * (g'*ln(f) + g*f'/f) is produced.
func (b binary) diffPow(name string) Expression {
	if c, ok := b.r.(constant); ok {
		df := b.l.Diff(name)
		factor := newMul(constant{val: c.val}, newPow(b.l, constant{val: c.val - 1}))
		return newMul(factor, df)
	}
	df, dg := b.l.Diff(name), b.r.Diff(name)
	inner := newAdd(
		newMul(dg, call{fn: "ln", arg: b.l}),
		newMul(b.r, newDiv(df, b.l)),
	)
	return newMul(b, inner)
}

func (c call) Diff(name string) Expression {
	fn, ok := functions[c.fn]
	if !ok {
		// Unknown names cannot come from Parse; a hand-built tree keeps the
		// error for Eval to report.
		return call{fn: c.fn, arg: c.arg}
	}
	return newMul(fn.deriv(c.arg), c.arg.Diff(name))
}

func isZero(e Expression) bool {
	c, ok := e.(constant)
	return ok && c.val == 0
}

func isOne(e Expression) bool {
	c, ok := e.(constant)
	return ok && c.val == 1
}

func newAdd(l, r Expression) Expression {
	if isZero(l) {
		return r
	}
	if isZero(r) {
		return l
	}
	if lc, ok := l.(constant); ok {
		if rc, ok := r.(constant); ok {
			return constant{val: lc.val + rc.val}
		}
	}
	return binary{op: '+', l: l, r: r}
}

func newSub(l, r Expression) Expression {
	if isZero(r) {
		return l
	}
	if isZero(l) {
		return newNeg(r)
	}
	if lc, ok := l.(constant); ok {
		if rc, ok := r.(constant); ok {
			return constant{val: lc.val - rc.val}
		}
	}
	return binary{op: '-', l: l, r: r}
}

func newMul(l, r Expression) Expression {
	if isZero(l) || isZero(r) {
		return constant{val: 0}
	}
	if isOne(l) {
		return r
	}
	if isOne(r) {
		return l
	}
	if lc, ok := l.(constant); ok {
		if rc, ok := r.(constant); ok {
			return constant{val: lc.val * rc.val}
		}
	}
	return binary{op: '*', l: l, r: r}
}

func newDiv(l, r Expression) Expression {
	if isZero(l) && !isZero(r) {
		return constant{val: 0}
	}
	if isOne(r) {
		return l
	}
	if lc, ok := l.(constant); ok {
		if rc, ok := r.(constant); ok && rc.val != 0 {
			return constant{val: lc.val / rc.val}
		}
	}
	return binary{op: '/', l: l, r: r}
}

func newNeg(x Expression) Expression {
	switch t := x.(type) {
	case constant:
		return constant{val: -t.val}
	case negate:
		return t.x
	}
	return negate{x: x}
}

func newPow(l, r Expression) Expression {
	if isZero(r) {
		return constant{val: 1}
	}
	if isOne(r) {
		return l
	}
	if lc, ok := l.(constant); ok {
		if rc, ok := r.(constant); ok {
			if v := math.Pow(lc.val, rc.val); !math.IsNaN(v) {
				return constant{val: v}
			}
		}
	}
	return binary{op: '^', l: l, r: r}
}
