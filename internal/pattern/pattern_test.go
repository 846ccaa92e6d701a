package pattern

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		expectErr bool
		expected  *RuleExpression
	}{
		{
			name: "reversible binding",
			src:  "A(b) + B(a) <-> A(b!1).B(a!1)",
			expected: Reversible(
				Reaction(Complex(Mon("A", Free("b"))), Complex(Mon("B", Free("a")))),
				Reaction(Complex(Mon("A", Bound("b", 1)), Mon("B", Bound("a", 1)))),
			),
		},
		{
			name: "irreversible with states",
			src:  "A(s~u) >> A(s~p)",
			expected: Irreversible(
				Reaction(Complex(Mon("A", State("s", "u")))),
				Reaction(Complex(Mon("A", State("s", "p")))),
			),
		},
		{
			name: "degradation",
			src:  "A() -> None",
			expected: Irreversible(
				Reaction(Complex(Mon("A"))),
				ReactionPattern{},
			),
		},
		{
			name: "synthesis with compartment",
			src:  "0 -> A()@cyto",
			expected: Irreversible(
				ReactionPattern{},
				Reaction(ComplexPattern{Monomers: []MonomerPattern{{Monomer: "A", Compartment: "cyto"}}}),
			),
		},
		{
			name: "wildcard bonds and complex compartment",
			src:  "@ec:L(r!+) <> L(r!?)",
			expected: Reversible(
				Reaction(ComplexPattern{Compartment: "ec", Monomers: []MonomerPattern{Mon("L", Site{Name: "r", Bond: Bond{Kind: BondAny}})}}),
				Reaction(Complex(Mon("L", Site{Name: "r", Bond: Bond{Kind: BondWild}}))),
			),
		},
		{name: "error - missing arrow", src: "A() B()", expectErr: true},
		{name: "error - both empty", src: "None -> 0", expectErr: true},
		{name: "error - bad bond", src: "A(b!x) -> A()", expectErr: true},
		{name: "error - duplicate site", src: "A(b,b) -> A()", expectErr: true},
		{name: "error - unclosed", src: "A(b -> A()", expectErr: true},
		{name: "error - trailing", src: "A() -> B() C", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRule(tc.src)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("ParseRule(%q) mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

func TestRule_StringRoundTrip(t *testing.T) {
	for _, src := range []string{
		"A(b) + B(a) <-> A(b!1).B(a!1)",
		"A(s~u) -> A(s~p)",
		"A() -> None",
		"@ec:L(r!+) -> L(r!?)@cyto",
	} {
		t.Run(src, func(t *testing.T) {
			r := MustParseRule(src)
			again, err := ParseRule(r.String())
			require.NoError(t, err)
			assert.Equal(t, r, again)
		})
	}
}

func TestMonomerNames(t *testing.T) {
	r := MustParseRule("A(b) + B(a) + A(c) -> A(b!1).B(a!1) + C()")
	assert.Equal(t, []string{"A", "B"}, r.Reactants.MonomerNames())
	assert.Equal(t, []string{"A", "B", "C"}, r.Products.MonomerNames())
}

func TestCheckBonds(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected []BondIssue
	}{
		{name: "consistent", src: "A(b!1).B(a!1)", expected: nil},
		{
			name: "dangling",
			src:  "A(b!1).B(a)",
			expected: []BondIssue{
				{Kind: DanglingBond, Bond: 1, Complex: "A(b!1).B(a)", Endpoints: []string{"A.b"}},
			},
		},
		{
			name: "bond across complexes is dangling on both",
			src:  "A(b!1) + B(a!1)",
			expected: []BondIssue{
				{Kind: DanglingBond, Bond: 1, Complex: "A(b!1)", Endpoints: []string{"A.b"}},
				{Kind: DanglingBond, Bond: 1, Complex: "B(a!1)", Endpoints: []string{"B.a"}},
			},
		},
		{
			name: "reused",
			src:  "A(b!1).B(a!1).C(x!1)",
			expected: []BondIssue{
				{Kind: ReusedBond, Bond: 1, Complex: "A(b!1).B(a!1).C(x!1)", Endpoints: []string{"A.b", "B.a", "C.x"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseReaction(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, CheckBonds(r))
		})
	}
}

func TestIsConcrete(t *testing.T) {
	assert.True(t, MustParseComplex("A(b!1,s~u).B(a!1)").IsConcrete())
	assert.False(t, MustParseComplex("A(b!+)").IsConcrete())
	assert.False(t, MustParseComplex("A(b!1)").IsConcrete())
}

func TestAutoName(t *testing.T) {
	testCases := []struct {
		src      string
		expected string
	}{
		{"A()", "obs_A"},
		{"A(b!1,s~p).B(a!1)@cyto", "obs_A_b1_sp_B_a1_cyto"},
		{"@ec:L(r!+)", "obs_L_rbound_ec"},
		{"R(l!?)", "obs_R_lany"},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			assert.Equal(t, tc.expected, AutoName(MustParseComplex(tc.src)))
		})
	}
}
