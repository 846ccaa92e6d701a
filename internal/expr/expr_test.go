package expr_test

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/qspgo/internal/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Atoms(t *testing.T) {
	testCases := []struct {
		name  string
		src   string
		atoms []string
	}{
		{name: "product", src: "kf * A_total", atoms: []string{"A_total", "kf"}},
		{name: "duplicates collapse", src: "k1 + k1 * k2", atoms: []string{"k1", "k2"}},
		{name: "function args", src: "exp(-kel * t) + max(a, b)", atoms: []string{"a", "b", "kel", "t"}},
		{name: "attribute traversal uses root", src: "obs.value * 2", atoms: []string{"obs"}},
		{name: "constant", src: "2 * 3", atoms: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := expr.Parse(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.atoms, e.Atoms())
			assert.Equal(t, tc.src, e.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := expr.Parse("k1 * * k2")
	require.Error(t, err)
	assert.Panics(t, func() { expr.MustParse("(") })
}

func TestFunctionsAndReferences(t *testing.T) {
	e := expr.MustParse("max(a.b, exp(c[0]))")
	assert.Equal(t, []string{"exp", "max"}, e.Functions())
	assert.Equal(t, []string{"a.b", "c[0]"}, e.References())
	assert.Equal(t, []string{"a", "c"}, e.Atoms())
}

func TestCheck(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		errMsg string
	}{
		{name: "plain names", src: "kf * A0 / V"},
		{name: "known functions", src: "max(k1, exp(-k2)) + sqrt(V)"},
		{name: "unknown function", src: "upper(k1)", errMsg: `unknown function "upper"`},
		{name: "nested unknown function", src: "k1 * (2 + sin(k2))", errMsg: `unknown function "sin"`},
		{name: "attribute traversal", src: "k1 * A.total", errMsg: "A.total is not a plain name"},
		{name: "index traversal", src: "k[0] + 1", errMsg: "k[0] is not a plain name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := expr.MustParse(tc.src).Check()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestFromHCL(t *testing.T) {
	src := []byte("  k1 * V  ")
	parsed, diags := hclsyntax.ParseExpression(src, "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors())

	e := expr.FromHCL(parsed, src)
	assert.Equal(t, "k1 * V", e.String())
	assert.Equal(t, []string{"V", "k1"}, e.Atoms())
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		vars      map[string]float64
		expected  float64
		expectErr bool
	}{
		{name: "arithmetic", src: "k1 * 2 + k2", vars: map[string]float64{"k1": 1.5, "k2": 1}, expected: 4},
		{name: "division", src: "dose / V", vars: map[string]float64{"dose": 10, "V": 4}, expected: 2.5},
		{name: "exp", src: "exp(0) * k", vars: map[string]float64{"k": 3}, expected: 3},
		{name: "sqrt and pow", src: "sqrt(pow(x, 2))", vars: map[string]float64{"x": 7}, expected: 7},
		{name: "error - missing binding", src: "k1 * k3", vars: map[string]float64{"k1": 1}, expectErr: true},
		{name: "error - not a number", src: "\"abc\"", vars: nil, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := expr.MustParse(tc.src).Evaluate(tc.vars)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}
