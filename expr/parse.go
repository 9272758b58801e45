package expr

import (
	"fmt"
	"strconv"
)

// Parse turns expression text into an Expression. The grammar follows the
// conventional arithmetic one: `+ -` below `* /` below unary minus below the
// right-associative power operator (`**`, with `^` accepted as an alias), so
// that -x**2 parses as -(x**2) and 2**-3 is valid. Function calls take a
// single parenthesized argument; `pi` and `e` are constants, not variables.
func Parse(src string) (Expression, error) {
	p := &parser{src: src}
	if err := p.next(); err != nil {
		return nil, err
	}
	e, err := p.parseBinary(precAdd)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.syntaxErr("unexpected %q", p.tok.text)
	}
	return e, nil
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	src string
	off int
	tok token
}

func (p *parser) syntaxErr(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%q at offset %d: %s: %w", p.src, p.tok.pos, msg, ErrSyntax)
}

func (p *parser) next() error {
	for p.off < len(p.src) && (p.src[p.off] == ' ' || p.src[p.off] == '\t') {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return nil
	}
	c := p.src[p.off]
	switch {
	case isDigit(c) || (c == '.' && p.off+1 < len(p.src) && isDigit(p.src[p.off+1])):
		p.scanNumber()
		p.tok = token{kind: tokNumber, text: p.src[start:p.off], pos: start}
		return nil
	case isIdentStart(c):
		for p.off < len(p.src) && isIdentPart(p.src[p.off]) {
			p.off++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.off], pos: start}
		return nil
	case c == '*':
		p.off++
		if p.off < len(p.src) && p.src[p.off] == '*' {
			p.off++
			p.tok = token{kind: tokOp, text: "**", pos: start}
			return nil
		}
		p.tok = token{kind: tokOp, text: "*", pos: start}
		return nil
	case c == '+' || c == '-' || c == '/' || c == '^' || c == '(' || c == ')':
		p.off++
		p.tok = token{kind: tokOp, text: p.src[start:p.off], pos: start}
		return nil
	}
	p.tok = token{kind: tokOp, text: string(c), pos: start}
	return p.syntaxErr("invalid character")
}

func (p *parser) scanNumber() {
	for p.off < len(p.src) && isDigit(p.src[p.off]) {
		p.off++
	}
	if p.off < len(p.src) && p.src[p.off] == '.' {
		p.off++
		for p.off < len(p.src) && isDigit(p.src[p.off]) {
			p.off++
		}
	}
	if p.off < len(p.src) && (p.src[p.off] == 'e' || p.src[p.off] == 'E') {
		mark := p.off
		p.off++
		if p.off < len(p.src) && (p.src[p.off] == '+' || p.src[p.off] == '-') {
			p.off++
		}
		if p.off >= len(p.src) || !isDigit(p.src[p.off]) {
			// no digits after the exponent marker; rewind so the e starts
			// the next token
			p.off = mark
			return
		}
		for p.off < len(p.src) && isDigit(p.src[p.off]) {
			p.off++
		}
	}
}

var binaryPrec = map[string]int{"+": precAdd, "-": precAdd, "*": precMul, "/": precMul}

func (p *parser) parseBinary(min int) (Expression, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp {
		prec, ok := binaryPrec[p.tok.text]
		if !ok || prec < min {
			break
		}
		op := p.tok.text[0]
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = binary{op: op, l: lhs, r: rhs}
	}
	return lhs, nil
}

func (p *parser) parseUnary() (Expression, error) {
	if p.tok.kind == tokOp {
		switch p.tok.text {
		case "-":
			if err := p.next(); err != nil {
				return nil, err
			}
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return negate{x: x}, nil
		case "+":
			if err := p.next(); err != nil {
				return nil, err
			}
			return p.parseUnary()
		}
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expression, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp && (p.tok.text == "**" || p.tok.text == "^") {
		if err := p.next(); err != nil {
			return nil, err
		}
		// the exponent re-enters at unary level, giving right associativity
		// and allowing 2**-3.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binary{op: '^', l: base, r: exp}, nil
	}
	return base, nil
}

func (p *parser) parseAtom() (Expression, error) {
	switch p.tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return nil, p.syntaxErr("invalid number %q", p.tok.text)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		return constant{val: v}, nil

	case tokIdent:
		name := p.tok.text
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokOp && p.tok.text == "(" {
			if _, ok := functions[name]; !ok {
				return nil, fmt.Errorf("%q: %w", name, ErrUnknownFunction)
			}
			if err := p.next(); err != nil {
				return nil, err
			}
			arg, err := p.parseBinary(precAdd)
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokOp || p.tok.text != ")" {
				return nil, p.syntaxErr("missing closing parenthesis in call to %q", name)
			}
			if err := p.next(); err != nil {
				return nil, err
			}
			return call{fn: name, arg: arg}, nil
		}
		if v, ok := namedConstants[name]; ok {
			return constant{val: v, sym: name}, nil
		}
		return variable{name: name}, nil

	case tokOp:
		if p.tok.text == "(" {
			if err := p.next(); err != nil {
				return nil, err
			}
			e, err := p.parseBinary(precAdd)
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokOp || p.tok.text != ")" {
				return nil, p.syntaxErr("missing closing parenthesis")
			}
			if err := p.next(); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	if p.tok.kind == tokEOF {
		return nil, p.syntaxErr("unexpected end of expression")
	}
	return nil, p.syntaxErr("unexpected %q", p.tok.text)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
