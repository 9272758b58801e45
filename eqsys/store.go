package eqsys

import (
	"fmt"
	"math"

	"github.com/consensys/errprop/expr"
)

// Variable is a named quantity tracked by a Store: a value, a tolerance and
// the provenance of that tolerance.
type Variable struct {
	Name string

	value    float64
	hasValue bool
	tol      Tolerance
	derived  bool
}

// Value returns the variable's value and whether one has been set.
func (v Variable) Value() (float64, bool) { return v.value, v.hasValue }

// Tolerance returns the variable's tolerance.
func (v Variable) Tolerance() Tolerance { return v.tol }

// Derived reports whether the tolerance was computed by the engine rather
// than supplied by the caller.
func (v Variable) Derived() bool { return v.derived }

// Store holds every variable of a system. Declaration order is preserved and
// is the stable order of all reports built from the store. A Store belongs to
// a single solve at a time; it is not safe for concurrent mutation.
type Store struct {
	vars  map[string]*Variable
	order []string
}

// NewStore returns an empty variable store.
func NewStore() *Store {
	return &Store{vars: make(map[string]*Variable)}
}

// Declare adds a variable with a value and its tolerance. A caller-supplied
// value is authoritative: the engine never overwrites it, it only derives the
// tolerance when that is unknown.
func (s *Store) Declare(name string, value float64, tol Tolerance) error {
	if err := s.checkName(name); err != nil {
		return err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%q: value must be finite, got %v", name, value)
	}
	if t, known := tol.Value(); known && (math.IsNaN(t) || math.IsInf(t, 0)) {
		return fmt.Errorf("%q: tolerance must be finite, got %v", name, t)
	}
	s.add(&Variable{Name: name, value: value, hasValue: true, tol: tol})
	return nil
}

// DeclareOutput adds a variable carrying neither value nor tolerance; both
// are expected to be derived through the variable's defining equation. The
// forbidden state "known tolerance without a value" cannot be declared.
func (s *Store) DeclareOutput(name string) error {
	if err := s.checkName(name); err != nil {
		return err
	}
	s.add(&Variable{Name: name})
	return nil
}

func (s *Store) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("variable name must not be empty")
	}
	if expr.IsRestrictedName(name) {
		return fmt.Errorf("%q: %w", name, ErrRestrictedName)
	}
	if _, ok := s.vars[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrRedeclared)
	}
	return nil
}

func (s *Store) add(v *Variable) {
	s.vars[v.Name] = v
	s.order = append(s.order, v.Name)
}

// Get returns a copy of the named variable.
func (s *Store) Get(name string) (Variable, error) {
	v, ok := s.vars[name]
	if !ok {
		return Variable{}, fmt.Errorf("%q: %w", name, ErrUnknownVariable)
	}
	return *v, nil
}

// SetTolerance records a tolerance for the named variable. derived marks it
// as engine-computed for provenance reporting.
func (s *Store) SetTolerance(name string, value float64, derived bool) error {
	v, ok := s.vars[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownVariable)
	}
	v.tol = Known(value)
	v.derived = derived
	return nil
}

// SetValue records a forward-evaluated value for a variable declared without
// one. A caller-supplied value cannot be replaced.
func (s *Store) SetValue(name string, value float64) error {
	v, ok := s.vars[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownVariable)
	}
	if v.hasValue {
		return fmt.Errorf("%q: value is already set", name)
	}
	v.value = value
	v.hasValue = true
	return nil
}

// HasTolerance reports whether the named variable exists and has a known
// tolerance.
func (s *Store) HasTolerance(name string) bool {
	v, ok := s.vars[name]
	return ok && v.tol.IsKnown()
}

// Values returns the evaluation point: every variable that currently has a
// value. The map is a copy.
func (s *Store) Values() expr.Point {
	p := make(expr.Point, len(s.vars))
	for name, v := range s.vars {
		if v.hasValue {
			p[name] = v.value
		}
	}
	return p
}

// Names returns the variable names in declaration order.
func (s *Store) Names() []string {
	r := make([]string, len(s.order))
	copy(r, s.order)
	return r
}

// Len returns the number of declared variables.
func (s *Store) Len() int { return len(s.order) }

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{
		vars:  make(map[string]*Variable, len(s.vars)),
		order: make([]string, len(s.order)),
	}
	copy(c.order, s.order)
	for name, v := range s.vars {
		cv := *v
		c.vars[name] = &cv
	}
	return c
}
