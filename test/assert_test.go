package test_test

import (
	"testing"

	"github.com/consensys/errprop/eqsys"
	"github.com/consensys/errprop/solver"
	"github.com/consensys/errprop/test"
)

func cylinder(assert *test.Assert) *eqsys.System {
	store := eqsys.NewStore()
	assert.NoError(store.Declare("r", 5, eqsys.Known(0.05)))
	assert.NoError(store.Declare("h", 12, eqsys.Known(0.05)))
	assert.NoError(store.DeclareOutput("A"))
	assert.NoError(store.DeclareOutput("V"))
	sys, err := eqsys.NewSystem([]string{"A = pi * r**2", "V = A * h"}, store)
	assert.NoError(err)
	return sys
}

func TestCheckSystem(t *testing.T) {
	assert := test.NewAssert(t)
	sys := cylinder(assert)

	sol := assert.CheckSystem(sys)
	assert.InDelta(1.570796, assert.Record(sol, "A").Tolerance, 1e-5)
	assert.InDelta(22.776547, assert.Record(sol, "V").Tolerance, 1e-4)

	// the checked system itself stays untouched
	assert.False(sys.Store().HasTolerance("A"))
}

func TestSolverFailed(t *testing.T) {
	assert := test.NewAssert(t)

	store := eqsys.NewStore()
	assert.NoError(store.Declare("r", 5, eqsys.Unknown()))
	assert.NoError(store.DeclareOutput("A"))
	sys, err := eqsys.NewSystem([]string{"A = pi * r**2"}, store)
	assert.NoError(err)

	assert.SolverFailed(sys, solver.ErrUnresolved)
}

func TestCheckSnapshot(t *testing.T) {
	assert := test.NewAssert(t)
	assert.Run(func(assert *test.Assert) {
		assert.CheckSnapshot(cylinder(assert))
	}, "fresh")

	assert.Run(func(assert *test.Assert) {
		sys := cylinder(assert)
		_, err := solver.Solve(sys)
		assert.NoError(err)
		assert.CheckSnapshot(sys)
	}, "solved")
}
