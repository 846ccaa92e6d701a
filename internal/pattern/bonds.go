package pattern

import (
	"fmt"
	"sort"
	"strings"
)

// BondIssueKind classifies a bond inconsistency.
type BondIssueKind string

const (
	// DanglingBond is a numbered bond with a single endpoint in its complex.
	DanglingBond BondIssueKind = "dangling"
	// ReusedBond is a numbered bond with more than two endpoints.
	ReusedBond BondIssueKind = "reused"
)

// BondIssue describes one numbered bond that does not resolve to exactly one
// partner within its complex pattern.
type BondIssue struct {
	Kind      BondIssueKind
	Bond      int
	Complex   string
	Endpoints []string
}

func (i BondIssue) String() string {
	return fmt.Sprintf("%s bond %d in %s (endpoints: %s)", i.Kind, i.Bond, i.Complex, strings.Join(i.Endpoints, ", "))
}

// CheckBonds verifies every numbered bond inside each complex pattern of r has
// exactly two endpoints. Issues are ordered by complex, then bond number.
func CheckBonds(r ReactionPattern) []BondIssue {
	var issues []BondIssue
	for _, c := range r.Complexes {
		issues = append(issues, checkComplexBonds(c)...)
	}
	return issues
}

func checkComplexBonds(c ComplexPattern) []BondIssue {
	endpoints := make(map[int][]string)
	for _, m := range c.Monomers {
		for _, s := range m.Sites {
			if s.Bond.Kind != BondNumbered {
				continue
			}
			endpoints[s.Bond.Num] = append(endpoints[s.Bond.Num], m.Monomer+"."+s.Name)
		}
	}

	nums := make([]int, 0, len(endpoints))
	for n := range endpoints {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	var issues []BondIssue
	for _, n := range nums {
		eps := endpoints[n]
		switch {
		case len(eps) == 1:
			issues = append(issues, BondIssue{Kind: DanglingBond, Bond: n, Complex: c.String(), Endpoints: eps})
		case len(eps) > 2:
			issues = append(issues, BondIssue{Kind: ReusedBond, Bond: n, Complex: c.String(), Endpoints: eps})
		}
	}
	return issues
}

// IsConcrete reports whether the complex pattern pins every listed site to a
// definite bond: no "!+" or "!?" conditions.
func (c ComplexPattern) IsConcrete() bool {
	for _, m := range c.Monomers {
		for _, s := range m.Sites {
			if s.Bond.Kind == BondAny || s.Bond.Kind == BondWild {
				return false
			}
		}
	}
	return len(checkComplexBonds(c)) == 0
}

// AutoName derives an observable name from a complex pattern. Each building
// block contributes its name followed by one segment per site (site name,
// state, bond number); the compartment is appended last.
//
//	A(b!1,s~p).B(a!1)@cyto  ->  obs_A_b1_sp_B_a1_cyto
func AutoName(c ComplexPattern) string {
	parts := []string{"obs"}
	compartment := c.Compartment
	for _, m := range c.Monomers {
		parts = append(parts, m.Monomer)
		for _, s := range m.Sites {
			seg := s.Name + s.State
			switch s.Bond.Kind {
			case BondNumbered:
				seg += fmt.Sprint(s.Bond.Num)
			case BondAny:
				seg += "bound"
			case BondWild:
				seg += "any"
			}
			parts = append(parts, seg)
		}
		if m.Compartment != "" && compartment == "" {
			compartment = m.Compartment
		}
	}
	if compartment != "" {
		parts = append(parts, compartment)
	}
	return strings.Join(parts, "_")
}
