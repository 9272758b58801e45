package eqsys

import (
	"fmt"
	"strings"

	"github.com/consensys/errprop/expr"
)

// Equation defines a single output variable explicitly in terms of its
// inputs: "output = expression". Implicit or simultaneous forms are not
// supported.
type Equation struct {
	// Output is the variable the equation defines.
	Output string
	// Expr is the defining expression.
	Expr expr.Expression
	// Inputs are the free variables of Expr, sorted. Output never appears
	// among them.
	Inputs []string
}

// ParseEquation parses equation text. The text must contain exactly one "="
// with a single identifier on the left side; the right side is expression
// text. An output referencing itself is rejected.
func ParseEquation(text string) (Equation, error) {
	switch strings.Count(text, "=") {
	case 1:
	case 0:
		return Equation{}, fmt.Errorf("%q: missing \"=\": %w", text, ErrMalformedEquation)
	default:
		return Equation{}, fmt.Errorf("%q: more than one \"=\": %w", text, ErrMalformedEquation)
	}

	i := strings.IndexByte(text, '=')
	output := strings.TrimSpace(text[:i])
	if !isIdentifier(output) {
		return Equation{}, fmt.Errorf("%q: left side %q is not a variable name: %w", text, output, ErrMalformedEquation)
	}
	if expr.IsRestrictedName(output) {
		return Equation{}, fmt.Errorf("%q: output %q: %w", text, output, ErrRestrictedName)
	}

	e, err := expr.Parse(text[i+1:])
	if err != nil {
		return Equation{}, fmt.Errorf("%q: %v: %w", text, err, ErrMalformedEquation)
	}

	inputs := e.Variables()
	for _, name := range inputs {
		if name == output {
			return Equation{}, fmt.Errorf("%q: output %q appears in its own expression: %w", text, output, ErrMalformedEquation)
		}
	}

	return Equation{Output: output, Expr: e, Inputs: inputs}, nil
}

// rename applies a variable-name substitution to the whole equation.
func (q Equation) rename(names map[string]string) Equation {
	if len(names) == 0 {
		return q
	}
	out := q.Output
	if to, ok := names[out]; ok {
		out = to
	}
	e := expr.Rename(q.Expr, names)
	return Equation{Output: out, Expr: e, Inputs: e.Variables()}
}

func (q Equation) String() string {
	return q.Output + " = " + q.Expr.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
