/*
Copyright © 2021 ConsenSys Software Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package test provides helpers to test equation systems end to end.
package test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/errprop/deriv"
	"github.com/consensys/errprop/eqsys"
	"github.com/consensys/errprop/solution"
	"github.com/consensys/errprop/solver"
)

// Assert is a helper to test equation systems.
type Assert struct {
	t *testing.T
	*require.Assertions
}

// NewAssert returns an Assert helper embedding a testify/require object for
// convenience.
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t, Assertions: require.New(t)}
}

// Run runs the test function fn as a subtest. The subtest is parametrized by
// the description strings descs.
func (assert *Assert) Run(fn func(assert *Assert), descs ...string) {
	desc := strings.Join(descs, "/")
	assert.t.Run(desc, func(t *testing.T) {
		fn(&Assert{t, require.New(t)})
	})
}

// Log logs using the test instance logger.
func (assert *Assert) Log(v ...interface{}) {
	assert.t.Log(v...)
}

// CheckSystem solves the system with the symbolic engine and with the finite
// difference engine and fails the test unless both succeed and agree on every
// record. It solves clones, leaving sys untouched, and returns the symbolic
// solution.
func (assert *Assert) CheckSystem(sys *eqsys.System, opts ...solver.Option) *solution.Solution {
	// copy the options
	newOpts := make([]solver.Option, len(opts), len(opts)+1)
	copy(newOpts, opts)

	symbolic, err := solver.Solve(sys.Clone(), append(newOpts, solver.WithEngine(deriv.Symbolic()))...)
	assert.NoError(err, "symbolic solve")

	fd, err := deriv.FiniteDifference()
	assert.NoError(err)
	numeric, err := solver.Solve(sys.Clone(), append(newOpts, solver.WithEngine(fd))...)
	assert.NoError(err, "finite difference solve")

	assert.Equal(symbolic.Len(), numeric.Len())
	for _, want := range symbolic.Records() {
		got, ok := numeric.Lookup(want.Name)
		assert.True(ok, "variable %s missing from the finite difference solution", want.Name)
		assert.approx(want.Value, got.Value, "value", want.Name)
		assert.approx(want.Tolerance, got.Tolerance, "tolerance", want.Name)
		assert.approx(want.PercentError, got.PercentError, "percent error", want.Name)
		assert.Equal(want.Derived, got.Derived, "provenance of %s", want.Name)
	}
	return symbolic
}

// SolverFailed solves a clone of the system and fails the test unless the
// solve errors with target.
func (assert *Assert) SolverFailed(sys *eqsys.System, target error, opts ...solver.Option) {
	_, err := solver.Solve(sys.Clone(), opts...)
	assert.ErrorIs(err, target)
}

// CheckSnapshot serializes the system, reads it back and fails the test
// unless the copy carries the same equations and variable state.
func (assert *Assert) CheckSnapshot(sys *eqsys.System) {
	var buf bytes.Buffer
	written, err := sys.WriteTo(&buf)
	assert.NoError(err)
	assert.Equal(int64(buf.Len()), written, "bytes written don't match")

	again, err := eqsys.ReadSystemFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(err)

	assert.Equal(sys.Len(), again.Len())
	for i, eq := range sys.Equations() {
		assert.Equal(eq.String(), again.Equations()[i].String())
	}

	store, copied := sys.Store(), again.Store()
	assert.Equal(store.Names(), copied.Names())
	for _, name := range store.Names() {
		v, err := store.Get(name)
		assert.NoError(err)
		w, err := copied.Get(name)
		assert.NoError(err)
		assert.Equal(v, w, "variable %s", name)
	}
}

// Record returns the named record of the solution, failing the test if there
// is none.
func (assert *Assert) Record(sol *solution.Solution, name string) solution.Record {
	rec, ok := sol.Lookup(name)
	assert.True(ok, "no record for variable %s", name)
	return rec
}

// approx compares floats with a relative tolerance wide enough for the
// finite difference engine. NaN matches NaN.
func (assert *Assert) approx(want, got float64, what, name string) {
	if math.IsNaN(want) {
		assert.True(math.IsNaN(got), "%s of %s: want NaN, got %v", what, name, got)
		return
	}
	assert.InDelta(want, got, 1e-6*math.Max(1, math.Abs(want)), "%s of %s", what, name)
}
