package solution_test

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/consensys/errprop/eqsys"
	"github.com/consensys/errprop/solution"
)

func solvedStore(t *testing.T) *eqsys.Store {
	t.Helper()
	assert := require.New(t)

	store := eqsys.NewStore()
	assert.NoError(store.Declare("r", 5, eqsys.Known(0.05)))
	assert.NoError(store.Declare("h", 12, eqsys.Known(0.05)))
	assert.NoError(store.DeclareOutput("A"))
	assert.NoError(store.SetValue("A", 78.53981633974483))
	assert.NoError(store.SetTolerance("A", 1.5707963267948966, true))
	return store
}

func TestNew(t *testing.T) {
	assert := require.New(t)

	sol := solution.New(solvedStore(t))
	assert.Equal(3, sol.Len())

	want := []solution.Record{
		{Name: "r", Value: 5, Tolerance: 0.05, PercentError: 1, Derived: false},
		{Name: "h", Value: 12, Tolerance: 0.05, PercentError: 100 * 0.05 / 12, Derived: false},
		{Name: "A", Value: 78.53981633974483, Tolerance: 1.5707963267948966, PercentError: 2, Derived: true},
	}
	if diff := cmp.Diff(want, sol.Records(), cmpopts.EquateApprox(0, 1e-12), cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	rec, ok := sol.Lookup("A")
	assert.True(ok)
	assert.True(rec.Derived)

	_, ok = sol.Lookup("ghost")
	assert.False(ok)
}

func TestNewPartial(t *testing.T) {
	assert := require.New(t)

	store := eqsys.NewStore()
	assert.NoError(store.Declare("x", 3, eqsys.Unknown()))
	assert.NoError(store.DeclareOutput("y"))

	sol := solution.New(store)

	x, ok := sol.Lookup("x")
	assert.True(ok)
	assert.Equal(3.0, x.Value)
	assert.True(math.IsNaN(x.Tolerance))
	assert.True(math.IsNaN(x.PercentError))

	y, ok := sol.Lookup("y")
	assert.True(ok)
	assert.True(math.IsNaN(y.Value))
	assert.True(math.IsNaN(y.Tolerance))
}

func TestPercentError(t *testing.T) {
	assert := require.New(t)

	pct, err := solution.PercentError(0.05, 5)
	assert.NoError(err)
	assert.Equal(1.0, pct)

	// magnitude, not sign
	pct, err = solution.PercentError(0.05, -5)
	assert.NoError(err)
	assert.Equal(1.0, pct)

	pct, err = solution.PercentError(0.05, 0)
	assert.ErrorIs(err, solution.ErrDivisionUndefined)
	assert.True(math.IsNaN(pct))
}

func TestZeroValuePercentErrorIsNaN(t *testing.T) {
	assert := require.New(t)

	store := eqsys.NewStore()
	assert.NoError(store.Declare("offset", 0, eqsys.Known(0.1)))

	rec, ok := solution.New(store).Lookup("offset")
	assert.True(ok)
	assert.Equal(0.0, rec.Value)
	assert.Equal(0.1, rec.Tolerance)
	assert.True(math.IsNaN(rec.PercentError))
}

func TestString(t *testing.T) {
	assert := require.New(t)

	out := solution.New(solvedStore(t)).String()
	// tablewriter title-cases headers: pct_error renders as PCT ERROR
	for _, want := range []string{"VAR", "VALUE", "TOLERANCE", "PCT ERROR", "DERIVED", " r ", " h ", " A ", "true", "false"} {
		assert.Contains(out, want)
	}
	// stable order: r before h before A
	assert.Less(strings.Index(out, " r "), strings.Index(out, " h "))
	assert.Less(strings.Index(out, " h "), strings.Index(out, " A "))
}

func TestWriteCSV(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	assert.NoError(solution.New(solvedStore(t)).WriteCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(err)
	assert.Equal(4, len(rows))
	assert.Equal([]string{"var", "value", "tolerance", "pct_error", "derived"}, rows[0])
	assert.Equal("r", rows[1][0])
	assert.Equal("0.05", rows[1][2])
	assert.Equal("A", rows[3][0])
	assert.Equal("true", rows[3][4])

	// round-trips exactly
	assert.Equal("78.53981633974483", rows[3][1])
}
