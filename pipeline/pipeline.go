// Package pipeline runs several equation systems in series, feeding derived
// tolerances from one stage into the boundary tolerances of the next. A
// typical use is a survey or measurement chain where one instrument's output
// uncertainty becomes the input uncertainty of the next computation.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/consensys/errprop/eqsys"
	"github.com/consensys/errprop/solution"
	"github.com/consensys/errprop/solver"
)

// Link connects two consecutive stages: it maps a variable name of the
// earlier stage to the variable of the later stage that inherits its
// tolerance. Values do not flow through links; every stage declares its own.
type Link map[string]string

// Pipeline is an ordered list of systems joined by links. Between n stages
// there are exactly n-1 links.
type Pipeline struct {
	stages []*eqsys.System
	links  []Link
}

// New returns a pipeline over the given stages, to be joined with Chain.
func New(stages ...*eqsys.System) *Pipeline {
	return &Pipeline{stages: stages}
}

// Chain appends the link between the next pair of consecutive stages and
// returns the pipeline.
func (p *Pipeline) Chain(link Link) *Pipeline {
	p.links = append(p.links, link)
	return p
}

// Solve resolves the stages in order and returns one solution per stage.
// Before each stage after the first, the linked tolerances of the previous
// stage's solution are installed into the stage's store as caller-known
// tolerances. Stage stores are cloned first, so a pipeline can be solved any
// number of times. The options apply to every stage.
func (p *Pipeline) Solve(opts ...solver.Option) ([]*solution.Solution, error) {
	if len(p.stages) == 0 {
		return nil, errors.New("pipeline has no stages")
	}
	if len(p.links) != len(p.stages)-1 {
		return nil, fmt.Errorf("pipeline has %d stages and %d links, want %d links",
			len(p.stages), len(p.links), len(p.stages)-1)
	}

	solutions := make([]*solution.Solution, 0, len(p.stages))
	for i, stage := range p.stages {
		sys := stage.Clone()
		if i > 0 {
			if err := installLinks(sys.Store(), p.links[i-1], solutions[i-1]); err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
		}
		sol, err := solver.Solve(sys, opts...)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		solutions = append(solutions, sol)
	}
	return solutions, nil
}

// installLinks copies the tolerance of each link source out of the previous
// solution onto the link target in the next stage's store. The target must be
// a value-carrying variable of the next stage.
func installLinks(store *eqsys.Store, link Link, prev *solution.Solution) error {
	for from, to := range link {
		rec, ok := prev.Lookup(from)
		if !ok {
			return fmt.Errorf("link source %q: %w", from, eqsys.ErrUnknownVariable)
		}
		v, err := store.Get(to)
		if err != nil {
			return fmt.Errorf("link target: %w", err)
		}
		if _, hasValue := v.Value(); !hasValue {
			return fmt.Errorf("link target %q has no value: %w", to, eqsys.ErrMissingValue)
		}
		if err := store.SetTolerance(to, rec.Tolerance, false); err != nil {
			return err
		}
	}
	return nil
}
