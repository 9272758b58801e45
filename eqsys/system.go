package eqsys

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/consensys/errprop/expr"
)

type systemConfig struct {
	names map[string]string
}

// SystemOption alters system construction. See the With* functions.
type SystemOption func(*systemConfig) error

// WithNames substitutes variable names in every equation before validation,
// in both outputs and expressions. Useful when equation files use generic
// symbols that a caller wants bound to domain names.
func WithNames(names map[string]string) SystemOption {
	return func(cfg *systemConfig) error {
		for from, to := range names {
			if !isIdentifier(to) {
				return fmt.Errorf("cannot rename %q to %q: not a variable name", from, to)
			}
			if expr.IsRestrictedName(to) {
				return fmt.Errorf("cannot rename %q to %q: %w", from, to, ErrRestrictedName)
			}
		}
		cfg.names = names
		return nil
	}
}

// System is a validated set of equations over a variable store, ready to be
// solved. Construction performs every structural check eagerly; a System in
// hand implies the graph is well formed (each output defined once, every
// referenced variable declared, every variable able to obtain a value).
// What construction deliberately does not check is resolvability: cycles and
// unreachable tolerances are the solver's fixed point to report.
type System struct {
	equations []Equation
	store     *Store
	byOutput  map[string]int
}

// NewSystem parses the given equation texts against the store and validates
// the structure of the resulting graph.
func NewSystem(equations []string, store *Store, opts ...SystemOption) (*System, error) {
	var cfg systemConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	sys := &System{
		equations: make([]Equation, 0, len(equations)),
		store:     store,
		byOutput:  make(map[string]int, len(equations)),
	}

	for _, text := range equations {
		eq, err := ParseEquation(text)
		if err != nil {
			return nil, err
		}
		eq = eq.rename(cfg.names)
		for _, in := range eq.Inputs {
			if in == eq.Output {
				return nil, fmt.Errorf("%q: output %q appears in its own expression: %w", eq.String(), eq.Output, ErrMalformedEquation)
			}
		}
		if prev, ok := sys.byOutput[eq.Output]; ok {
			return nil, fmt.Errorf("%q and %q: %w", sys.equations[prev].String(), eq.String(), ErrDuplicateOutput)
		}
		sys.byOutput[eq.Output] = len(sys.equations)
		sys.equations = append(sys.equations, eq)
	}

	if err := sys.checkStore(); err != nil {
		return nil, err
	}
	return sys, nil
}

// checkStore verifies that the store covers the equation graph: every output
// and input is declared, and every declared variable either has a value or a
// defining equation to compute one.
func (sys *System) checkStore() error {
	for _, eq := range sys.equations {
		if _, err := sys.store.Get(eq.Output); err != nil {
			return fmt.Errorf("equation %q: %w", eq.String(), err)
		}
		for _, in := range eq.Inputs {
			if _, err := sys.store.Get(in); err != nil {
				return fmt.Errorf("equation %q: %w", eq.String(), err)
			}
		}
	}
	for _, name := range sys.store.order {
		v := sys.store.vars[name]
		if v.hasValue {
			continue
		}
		if _, ok := sys.byOutput[name]; !ok {
			return fmt.Errorf("%q: %w", name, ErrMissingValue)
		}
	}
	return nil
}

// Clone returns a copy of the system over a deep copy of its store, so the
// copy can be solved without touching the original. Equations are immutable
// after construction and are shared.
func (sys *System) Clone() *System {
	return &System{
		equations: sys.equations,
		store:     sys.store.Clone(),
		byOutput:  sys.byOutput,
	}
}

// Equations returns the equations in declaration order.
func (sys *System) Equations() []Equation {
	r := make([]Equation, len(sys.equations))
	copy(r, sys.equations)
	return r
}

// Len returns the number of equations.
func (sys *System) Len() int { return len(sys.equations) }

// Store returns the system's variable store.
func (sys *System) Store() *Store { return sys.store }

// DefinedBy returns the index of the equation defining name, if any.
func (sys *System) DefinedBy(name string) (int, bool) {
	i, ok := sys.byOutput[name]
	return i, ok
}

// Levels groups equation indices by dependency depth: level 0 holds the
// equations whose inputs are all boundary variables, level k the equations
// whose deepest input is defined at level k-1. Equations caught in a
// dependency cycle are absent from the result. Diagnostics only; the solver
// does not consult levels.
func (sys *System) Levels() [][]int {
	assigned := bitset.New(uint(len(sys.equations)))
	depth := make([]int, len(sys.equations))
	var levels [][]int

	for {
		progress := false
		for i, eq := range sys.equations {
			if assigned.Test(uint(i)) {
				continue
			}
			level, ok := 0, true
			for _, in := range eq.Inputs {
				j, defined := sys.byOutput[in]
				if !defined {
					continue
				}
				if !assigned.Test(uint(j)) {
					ok = false
					break
				}
				if depth[j]+1 > level {
					level = depth[j] + 1
				}
			}
			if !ok {
				continue
			}
			assigned.Set(uint(i))
			depth[i] = level
			for len(levels) <= level {
				levels = append(levels, nil)
			}
			levels[level] = append(levels[level], i)
			progress = true
		}
		if !progress {
			return levels
		}
	}
}
