package eqsys_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/errprop/eqsys"
)

func TestStoreDeclare(t *testing.T) {
	assert := require.New(t)
	store := eqsys.NewStore()

	assert.NoError(store.Declare("r", 5, eqsys.Known(0.05)))
	assert.NoError(store.Declare("h", 12, eqsys.Unknown()))
	assert.NoError(store.DeclareOutput("V"))

	r, err := store.Get("r")
	assert.NoError(err)
	v, ok := r.Value()
	assert.True(ok)
	assert.Equal(5.0, v)
	tol, known := r.Tolerance().Value()
	assert.True(known)
	assert.Equal(0.05, tol)
	assert.False(r.Derived())

	h, err := store.Get("h")
	assert.NoError(err)
	assert.False(h.Tolerance().IsKnown())

	out, err := store.Get("V")
	assert.NoError(err)
	_, ok = out.Value()
	assert.False(ok)
	assert.False(out.Tolerance().IsKnown())

	assert.Equal([]string{"r", "h", "V"}, store.Names())
	assert.Equal(3, store.Len())
}

func TestStoreDeclareErrors(t *testing.T) {
	assert := require.New(t)
	store := eqsys.NewStore()

	assert.NoError(store.Declare("r", 5, eqsys.Unknown()))
	assert.ErrorIs(store.Declare("r", 6, eqsys.Unknown()), eqsys.ErrRedeclared)
	assert.ErrorIs(store.DeclareOutput("r"), eqsys.ErrRedeclared)

	assert.ErrorIs(store.Declare("pi", 3.14, eqsys.Unknown()), eqsys.ErrRestrictedName)
	assert.ErrorIs(store.DeclareOutput("e"), eqsys.ErrRestrictedName)

	assert.Error(store.Declare("", 1, eqsys.Unknown()))
	assert.Error(store.Declare("x", math.NaN(), eqsys.Unknown()))
	assert.Error(store.Declare("x", math.Inf(1), eqsys.Unknown()))
	assert.Error(store.Declare("x", 1, eqsys.Known(math.NaN())))
}

func TestStoreGetUnknown(t *testing.T) {
	store := eqsys.NewStore()
	_, err := store.Get("ghost")
	require.ErrorIs(t, err, eqsys.ErrUnknownVariable)
	require.False(t, store.HasTolerance("ghost"))
}

func TestStoreSetTolerance(t *testing.T) {
	assert := require.New(t)
	store := eqsys.NewStore()

	assert.NoError(store.Declare("A", 78.5, eqsys.Unknown()))
	assert.False(store.HasTolerance("A"))

	assert.NoError(store.SetTolerance("A", 1.57, true))
	assert.True(store.HasTolerance("A"))

	a, err := store.Get("A")
	assert.NoError(err)
	tol, known := a.Tolerance().Value()
	assert.True(known)
	assert.Equal(1.57, tol)
	assert.True(a.Derived())

	assert.ErrorIs(store.SetTolerance("ghost", 1, false), eqsys.ErrUnknownVariable)
}

func TestStoreZeroToleranceIsKnown(t *testing.T) {
	assert := require.New(t)
	store := eqsys.NewStore()

	assert.NoError(store.Declare("c", 299792458, eqsys.Known(0)))
	assert.True(store.HasTolerance("c"))

	c, err := store.Get("c")
	assert.NoError(err)
	tol, known := c.Tolerance().Value()
	assert.True(known)
	assert.Zero(tol)
}

func TestToleranceMagnitude(t *testing.T) {
	tol, known := eqsys.Known(-0.05).Value()
	require.True(t, known)
	require.Equal(t, 0.05, tol)
}

func TestStoreSetValue(t *testing.T) {
	assert := require.New(t)
	store := eqsys.NewStore()

	assert.NoError(store.DeclareOutput("V"))
	assert.NoError(store.SetValue("V", 942.48))

	v, err := store.Get("V")
	assert.NoError(err)
	val, ok := v.Value()
	assert.True(ok)
	assert.Equal(942.48, val)

	assert.Error(store.SetValue("V", 1))

	assert.NoError(store.Declare("h", 12, eqsys.Unknown()))
	assert.Error(store.SetValue("h", 13))

	assert.ErrorIs(store.SetValue("ghost", 1), eqsys.ErrUnknownVariable)
}

func TestStoreValues(t *testing.T) {
	assert := require.New(t)
	store := eqsys.NewStore()

	assert.NoError(store.Declare("r", 5, eqsys.Known(0.05)))
	assert.NoError(store.DeclareOutput("A"))

	point := store.Values()
	assert.Equal(1, len(point))
	assert.Equal(5.0, point["r"])

	// the point is a copy
	point["r"] = 99
	again := store.Values()
	assert.Equal(5.0, again["r"])
}

func TestStoreClone(t *testing.T) {
	assert := require.New(t)
	store := eqsys.NewStore()

	assert.NoError(store.Declare("r", 5, eqsys.Known(0.05)))
	assert.NoError(store.DeclareOutput("A"))

	clone := store.Clone()
	assert.NoError(clone.SetTolerance("A", 1.57, true))
	assert.NoError(clone.SetValue("A", 78.54))

	assert.True(clone.HasTolerance("A"))
	assert.False(store.HasTolerance("A"))

	a, err := store.Get("A")
	assert.NoError(err)
	_, ok := a.Value()
	assert.False(ok)
}
