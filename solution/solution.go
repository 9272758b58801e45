// Package solution exposes the frozen result of a solve: one record per
// variable with its value, tolerance, percent error and provenance, in
// declaration order. A Solution is read-only; rendering helpers produce a
// table or CSV but nothing here can mutate the underlying store.
package solution

import (
	"errors"
	"math"

	"github.com/consensys/errprop/eqsys"
)

// ErrDivisionUndefined is returned by PercentError for a zero value. Reports
// carry the undefined entry as NaN instead of failing the whole solve.
var ErrDivisionUndefined = errors.New("percent error is undefined for a zero value")

// PercentError returns the relative uncertainty 100*|tol/value|.
func PercentError(tol, value float64) (float64, error) {
	if value == 0 {
		return math.NaN(), ErrDivisionUndefined
	}
	return 100 * math.Abs(tol/value), nil
}

// Record is the reported state of one variable. NaN marks an undetermined
// value, an unknown tolerance or an undefined percent error.
type Record struct {
	Name         string
	Value        float64
	Tolerance    float64
	PercentError float64
	// Derived is true when the tolerance was computed by the engine rather
	// than supplied with the input.
	Derived bool
}

// Solution is a read-only snapshot of a variable store.
type Solution struct {
	records []Record
	index   map[string]int
}

// New freezes the store into a Solution. Records appear in the store's
// declaration order, which is the stable order of every report.
func New(store *eqsys.Store) *Solution {
	names := store.Names()
	s := &Solution{
		records: make([]Record, 0, len(names)),
		index:   make(map[string]int, len(names)),
	}
	for _, name := range names {
		v, err := store.Get(name)
		if err != nil {
			// names came from the store itself
			panic(err)
		}
		rec := Record{
			Name:         name,
			Value:        math.NaN(),
			Tolerance:    math.NaN(),
			PercentError: math.NaN(),
			Derived:      v.Derived(),
		}
		if value, ok := v.Value(); ok {
			rec.Value = value
		}
		if tol, ok := v.Tolerance().Value(); ok {
			rec.Tolerance = tol
			if value, ok := v.Value(); ok {
				if pct, err := PercentError(tol, value); err == nil {
					rec.PercentError = pct
				}
			}
		}
		s.index[name] = len(s.records)
		s.records = append(s.records, rec)
	}
	return s
}

// Records returns a copy of all records in declaration order.
func (s *Solution) Records() []Record {
	r := make([]Record, len(s.records))
	copy(r, s.records)
	return r
}

// Lookup returns the record for the named variable.
func (s *Solution) Lookup(name string) (Record, bool) {
	i, ok := s.index[name]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Len returns the number of records.
func (s *Solution) Len() int { return len(s.records) }
