// Package solver implements the propagation engine: a pass-based fixed point
// that walks the equations of a system, resolves every equation whose input
// tolerances are known, and derives the output tolerance from the worst-case
// linear bound
//
//	tol(output) = sum over inputs x of |d expr / d x| * tol(x)
//
// Passes repeat until every equation is resolved or a pass
// makes no progress, which is reported with the list of stuck variables. The
// pass order guarantees that an equation is only evaluated once all of its
// inputs' tolerances are known, so uncertainty accumulates correctly along
// dependency chains without an explicit topological sort.
package solver

import (
	"fmt"
	"math"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/consensys/errprop/eqsys"
	"github.com/consensys/errprop/internal/debug"
	"github.com/consensys/errprop/solution"
)

// Solve derives a tolerance for every variable reachable from the
// caller-supplied boundary tolerances and freezes the result. The system's
// store is mutated in place: derived tolerances and forward-evaluated values
// are recorded on it. A system must not be solved concurrently with itself;
// independent systems may be solved in parallel.
func Solve(sys *eqsys.System, opts ...Option) (*solution.Solution, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	r := newRunner(sys, cfg)
	if err := r.run(); err != nil {
		return nil, err
	}
	return solution.New(sys.Store()), nil
}

type runner struct {
	sys   *eqsys.System
	cfg   Config
	store *eqsys.Store
	eqs   []eqsys.Equation

	varIdx  map[string]uint
	names   []string
	solved  *bitset.BitSet
	pending []int

	// resolvedPerPass records how many equations each pass resolved.
	resolvedPerPass []int
}

func newRunner(sys *eqsys.System, cfg Config) *runner {
	store := sys.Store()
	names := store.Names()
	r := &runner{
		sys:    sys,
		cfg:    cfg,
		store:  store,
		eqs:    sys.Equations(),
		varIdx: make(map[string]uint, len(names)),
		names:  names,
		solved: bitset.New(uint(len(names))),
	}
	for i, name := range names {
		r.varIdx[name] = uint(i)
	}
	return r
}

func (r *runner) run() error {
	start := time.Now()
	log := r.cfg.Logger

	if err := r.seed(); err != nil {
		return err
	}

	for i, eq := range r.eqs {
		if r.solved.Test(r.varIdx[eq.Output]) {
			// the caller supplied the output's tolerance; nothing to derive
			log.Debug().Str("variable", eq.Output).Msg("tolerance supplied, equation skipped")
			continue
		}
		r.pending = append(r.pending, i)
	}

	for len(r.pending) > 0 {
		before := r.solved.Count()
		n, err := r.pass()
		if err != nil {
			return err
		}
		debug.Assert(r.solved.Count() >= before, "solved set must grow monotonically")
		if n == 0 {
			break
		}
		r.resolvedPerPass = append(r.resolvedPerPass, n)
	}

	// variables may remain unsolved either because a pass made no progress or
	// because nothing defines them in the first place
	if stuck := r.stuckVariables(); len(stuck) > 0 {
		log.Warn().Strs("variables", stuck).Msg("fixed point reached with unresolved variables")
		return &UnresolvedVariablesError{Variables: stuck}
	}

	log.Debug().
		Int("equations", len(r.eqs)).
		Int("passes", len(r.resolvedPerPass)).
		Dur("took", time.Since(start)).
		Msg("system resolved")
	return nil
}

// seed marks every caller-known tolerance as solved and folds configured
// constant errors into the boundary tolerances.
func (r *runner) seed() error {
	for name := range r.cfg.ConstError {
		if _, err := r.store.Get(name); err != nil {
			return err
		}
	}
	for i, name := range r.names {
		v, err := r.store.Get(name)
		if err != nil {
			return err
		}
		tol, known := v.Tolerance().Value()
		if !known {
			continue
		}
		if extra, ok := r.cfg.ConstError[name]; ok && extra != 0 {
			if err := r.store.SetTolerance(name, tol+extra, v.Derived()); err != nil {
				return err
			}
		}
		r.solved.Set(uint(i))
	}
	return nil
}

// pass walks the pending equations once, in declaration order, resolving
// those whose inputs are all solved. It returns the number it resolved.
func (r *runner) pass() (int, error) {
	resolved := 0
	next := r.pending[:0]
	for _, ei := range r.pending {
		if !r.ready(r.eqs[ei]) {
			next = append(next, ei)
			continue
		}
		if err := r.resolve(r.eqs[ei]); err != nil {
			return 0, err
		}
		resolved++
	}
	r.pending = next
	return resolved, nil
}

func (r *runner) ready(eq eqsys.Equation) bool {
	for _, in := range eq.Inputs {
		if !r.solved.Test(r.varIdx[in]) {
			return false
		}
	}
	return true
}

// resolve evaluates one ready equation: it fixes the output value if the
// caller did not, then derives the output tolerance from the input
// tolerances and the partial derivatives at the current point.
func (r *runner) resolve(eq eqsys.Equation) error {
	point := r.store.Values()

	value, err := r.cfg.Engine.Evaluate(eq.Expr, point)
	if err != nil {
		return fmt.Errorf("equation %q: %w", eq.String(), err)
	}

	out, err := r.store.Get(eq.Output)
	if err != nil {
		return err
	}
	if supplied, ok := out.Value(); ok {
		// the caller's value is authoritative; the evaluation only exists to
		// support differentiation and, optionally, consistency checking
		if r.cfg.CheckValues && math.Abs(supplied-value) > r.cfg.CheckTol {
			return fmt.Errorf("equation %q: |%v - %v| > %v: %w",
				eq.String(), supplied, value, r.cfg.CheckTol, ErrValueCheck)
		}
	} else if err := r.store.SetValue(eq.Output, value); err != nil {
		return err
	}

	tol := 0.0
	for _, in := range eq.Inputs {
		p, err := r.cfg.Engine.Partial(eq.Expr, point, in)
		if err != nil {
			return fmt.Errorf("equation %q, variable %q: %w", eq.String(), in, err)
		}
		iv, err := r.store.Get(in)
		if err != nil {
			return err
		}
		_, hasValue := iv.Value()
		debug.Assert(hasValue, "ready equation input must have a value")
		itol, known := iv.Tolerance().Value()
		debug.Assert(known, "ready equation input must have a known tolerance")
		tol += math.Abs(p) * itol
	}
	if extra, ok := r.cfg.ConstError[eq.Output]; ok {
		tol += extra
	}

	if err := r.store.SetTolerance(eq.Output, tol, true); err != nil {
		return err
	}
	r.solved.Set(r.varIdx[eq.Output])
	r.cfg.Logger.Debug().
		Str("variable", eq.Output).
		Float64("tolerance", tol).
		Msg("tolerance derived")
	return nil
}

// stuckVariables lists, in declaration order, every variable still lacking a
// tolerance.
func (r *runner) stuckVariables() []string {
	var stuck []string
	for i, name := range r.names {
		if !r.solved.Test(uint(i)) {
			stuck = append(stuck, name)
		}
	}
	return stuck
}
