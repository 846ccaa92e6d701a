package units

import (
	"errors"
	"testing"

	"github.com/specialistvlad/qspgo/internal/modelerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		src       string
		dim       Dim
		expectErr bool
	}{
		{src: "1/min", dim: Dim{Time: -1}},
		{src: "nM", dim: Dim{Amount: 1, Volume: -1}},
		{src: "mg/L", dim: Dim{Mass: 1, Volume: -1}},
		{src: "1/(nM*min)", dim: Dim{Time: -1, Amount: -1, Volume: 1}},
		{src: "L/(mol*h)", dim: Dim{Time: -1, Amount: -1, Volume: 1}},
		{src: "h^-1", dim: Dim{Time: -1}},
		{src: "nM**-1 * min**-1", dim: Dim{Time: -1, Amount: -1, Volume: 1}},
		{src: "1", dim: Dimensionless},
		{src: "dimensionless", dim: Dimensionless},
		{src: "µM", dim: Dim{Amount: 1, Volume: -1}},
		{src: "", expectErr: true},
		{src: "furlong", expectErr: true},
		{src: "1/(min", expectErr: true},
		{src: "min^x", expectErr: true},
		{src: "min min", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			u, err := Parse(tc.src)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.dim, u.Dim)
		})
	}
}

func TestParse_Scale(t *testing.T) {
	u, err := Parse("1/min")
	require.NoError(t, err)
	assert.InDelta(t, 1.0/60, u.Scale, 1e-12)

	u, err = Parse("min^2")
	require.NoError(t, err)
	assert.InDelta(t, 3600, u.Scale, 1e-9)
}

func TestChecker_RateConstant(t *testing.T) {
	testCases := []struct {
		name   string
		unit   string
		order  int
		issues int
	}{
		{name: "first order", unit: "1/min", order: 1},
		{name: "second order", unit: "1/(nM*min)", order: 2},
		{name: "second order counts", unit: "1/(molecules*min)", order: 2},
		{name: "zero order", unit: "nM/min", order: 0},
		{name: "not per time", unit: "nM", order: 1, issues: 1},
		{name: "wrong order", unit: "1/min", order: 2, issues: 1},
		{name: "unparsable", unit: "bogus", order: 1, issues: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewChecker()
			c.RateConstant("bind", "kf", tc.unit, tc.order)
			assert.Len(t, c.Issues(), tc.issues)
		})
	}
}

func TestChecker_SizeAndInitials(t *testing.T) {
	c := NewChecker()
	c.Size("cyto", "V", "L")
	c.Size("membrane", "area", "1")
	c.InitialValue("A()", "A0", "nM")
	c.InitialValue("A()", "A1", "mg")
	c.InitialValue("A()", "A2", "1")
	require.NoError(t, c.Err())

	c.Size("cyto", "V2", "mg")
	c.InitialValue("A()", "A3", "1/min")
	err := c.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, modelerr.ErrUnit))

	var unitErr *modelerr.UnitError
	require.ErrorAs(t, err, &unitErr)
	assert.Len(t, unitErr.Issues, 2)
}

func TestChecker_SimulationUnits(t *testing.T) {
	c := NewChecker()
	c.SimulationUnits("mg/L", "h", "L")
	require.NoError(t, c.Err())

	c.SimulationUnits("h", "L", "nM")
	assert.Len(t, c.Issues(), 3)
}

func TestDimString(t *testing.T) {
	assert.Equal(t, "dimensionless", Dimensionless.String())
	assert.Equal(t, "time^-1*amount^-1*volume", Dim{Time: -1, Amount: -1, Volume: 1}.String())
	assert.Contains(t, Known(), "nM")
}
