package ftag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		class     string
		function  string
		expectErr bool
	}{
		{name: "simple", input: "protein::kinase", class: "protein", function: "kinase"},
		{name: "empty parts", input: "::", class: "", function: ""},
		{name: "symbols in function", input: "ion::ca2+", class: "ion", function: "ca2+"},
		{name: "error - no separator", input: "protein", expectErr: true},
		{name: "error - two separators", input: "a::b::c", expectErr: true},
		{name: "error - single colon", input: "a:b", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			class, function, err := Parse(tc.input)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.class, class)
			assert.Equal(t, tc.function, function)
		})
	}
}

func TestProperty_EncodeParseRoundTrip(t *testing.T) {
	part := rapid.StringMatching(`[a-z0-9_+:\-]{0,12}`)
	rapid.Check(t, func(rt *rapid.T) {
		class := part.Draw(rt, "class")
		function := part.Draw(rt, "function")

		encoded, err := Encode(class, function)
		if err != nil {
			require.True(rt, ambiguousPart(class) || ambiguousPart(function), "rejected %q, %q", class, function)
			return
		}
		gotClass, gotFunction, err := Parse(encoded)
		require.NoError(rt, err)
		require.Equal(rt, class, gotClass)
		require.Equal(rt, function, gotFunction)
	})
}

func ambiguousPart(s string) bool {
	return strings.Contains(s, Sep) || strings.HasPrefix(s, ":") || strings.HasSuffix(s, ":")
}

func TestEncode_RejectsAmbiguousParts(t *testing.T) {
	for _, parts := range [][2]string{{"a:", "b"}, {"a", ":b"}, {"a::x", "b"}, {":a", "b"}, {"a", "b:"}} {
		_, err := Encode(parts[0], parts[1])
		require.Error(t, err, "%q, %q", parts[0], parts[1])
		_, err = New(parts[0], parts[1])
		require.Error(t, err)
	}

	encoded, err := Encode("a:x", "b")
	require.NoError(t, err)
	class, function, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, "a:x", class)
	assert.Equal(t, "b", function)
}

func TestTagFromMember(t *testing.T) {
	tag, err := FromMember(ProteinKinase)
	require.NoError(t, err)
	assert.Equal(t, Tag{Class: "protein", Function: "kinase"}, tag)
	assert.Equal(t, "protein::kinase", tag.String())
	assert.True(t, tag.Matches(ProteinKinase))
	assert.False(t, tag.Matches(DrugInhibitor))
	kinase, err := New("protein", "kinase")
	require.NoError(t, err)
	assert.True(t, tag.Equal(kinase))
	assert.False(t, tag.Equal(Tag{Class: "drug", Function: "kinase"}))
}

func TestLookup(t *testing.T) {
	m, ok := Lookup("protein", "kinase")
	require.True(t, ok)
	assert.Equal(t, ProteinKinase, m)
	assert.Equal(t, "PROTEIN.KINASE", m.String())

	m, ok = Lookup("DRUG", "mab")
	require.True(t, ok)
	assert.Equal(t, "drug::monoclonal_antibody", m.Value())

	_, ok = Lookup("protein", "nope")
	assert.False(t, ok)
	_, ok = Lookup("virus", "capsid")
	assert.False(t, ok)

	assert.True(t, IsFamily("ion"))
	assert.Contains(t, Families(), "NANOPARTICLE")
	assert.Len(t, Ion.Members(), 4)
}
