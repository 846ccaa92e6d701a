// Package pattern models the structural patterns used by transformation
// rules, initial conditions, and observables.
//
// A pattern names building blocks together with conditions on their sites:
// an optional discrete state and an optional bond. The textual form follows
// the usual rule-based modelling notation:
//
//	A(b!1,s~p).B(a!1)@cyto     complex of A and B bound through bond 1
//	A(b) + B(a) <-> A(b!1).B(a!1)
//
// A site listed without "!" must be unbound; a site that is not listed is
// unconstrained. "!+" means bound to anything, "!?" means bound or not.
package pattern

import (
	"fmt"
	"strings"
)

// BondKind is the kind of bond condition placed on a site.
type BondKind int

const (
	// BondNone requires the site to be free.
	BondNone BondKind = iota
	// BondNumbered links the site to the partner site carrying the same number.
	BondNumbered
	// BondAny requires the site to be bound to something.
	BondAny
	// BondWild accepts the site bound or unbound.
	BondWild
)

// Bond is a bond condition.
type Bond struct {
	Kind BondKind
	Num  int
}

// String renders the bond suffix, e.g. "!1". A free bond renders empty.
func (b Bond) String() string {
	switch b.Kind {
	case BondNumbered:
		return fmt.Sprintf("!%d", b.Num)
	case BondAny:
		return "!+"
	case BondWild:
		return "!?"
	default:
		return ""
	}
}

// Site is a condition on one site of a building block.
type Site struct {
	Name  string
	State string
	Bond  Bond
}

// String renders the site, e.g. "b~p!1".
func (s Site) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	if s.State != "" {
		sb.WriteString("~")
		sb.WriteString(s.State)
	}
	sb.WriteString(s.Bond.String())
	return sb.String()
}

// MonomerPattern selects one building block with conditions on its sites.
type MonomerPattern struct {
	Monomer     string
	Sites       []Site
	Compartment string
}

// Site returns the condition for the named site, if present.
func (m MonomerPattern) Site(name string) (Site, bool) {
	for _, s := range m.Sites {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}

func (m MonomerPattern) String() string {
	parts := make([]string, len(m.Sites))
	for i, s := range m.Sites {
		parts[i] = s.String()
	}
	out := m.Monomer + "(" + strings.Join(parts, ",") + ")"
	if m.Compartment != "" {
		out += "@" + m.Compartment
	}
	return out
}

// ComplexPattern is a set of monomer patterns joined into one complex.
type ComplexPattern struct {
	Monomers    []MonomerPattern
	Compartment string
}

// MonomerNames returns the building blocks referenced, unique, in order.
func (c ComplexPattern) MonomerNames() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range c.Monomers {
		if _, ok := seen[m.Monomer]; ok {
			continue
		}
		seen[m.Monomer] = struct{}{}
		out = append(out, m.Monomer)
	}
	return out
}

func (c ComplexPattern) String() string {
	parts := make([]string, len(c.Monomers))
	for i, m := range c.Monomers {
		parts[i] = m.String()
	}
	out := strings.Join(parts, ".")
	if c.Compartment != "" {
		out = "@" + c.Compartment + ":" + out
	}
	return out
}

// ReactionPattern is one side of a rule: a sum of complex patterns. An empty
// reaction pattern denotes synthesis or degradation.
type ReactionPattern struct {
	Complexes []ComplexPattern
}

// MonomerNames returns the building blocks referenced on this side.
func (r ReactionPattern) MonomerNames() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range r.Complexes {
		for _, name := range c.MonomerNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// IsEmpty reports whether the side has no complexes.
func (r ReactionPattern) IsEmpty() bool {
	return len(r.Complexes) == 0
}

func (r ReactionPattern) String() string {
	if r.IsEmpty() {
		return "None"
	}
	parts := make([]string, len(r.Complexes))
	for i, c := range r.Complexes {
		parts[i] = c.String()
	}
	return strings.Join(parts, " + ")
}

// RuleExpression is the structural pattern of a transformation rule.
type RuleExpression struct {
	Reactants  ReactionPattern
	Products   ReactionPattern
	Reversible bool
}

func (r *RuleExpression) String() string {
	arrow := "->"
	if r.Reversible {
		arrow = "<->"
	}
	return r.Reactants.String() + " " + arrow + " " + r.Products.String()
}

// Mon builds a monomer pattern.
func Mon(monomer string, sites ...Site) MonomerPattern {
	return MonomerPattern{Monomer: monomer, Sites: sites}
}

// Free builds a site condition requiring the site to be unbound.
func Free(name string) Site {
	return Site{Name: name}
}

// Bound builds a site condition linking the site through bond number n.
func Bound(name string, n int) Site {
	return Site{Name: name, Bond: Bond{Kind: BondNumbered, Num: n}}
}

// State builds a free site condition with a required state.
func State(name, state string) Site {
	return Site{Name: name, State: state}
}

// Complex joins monomer patterns into a complex pattern.
func Complex(monomers ...MonomerPattern) ComplexPattern {
	return ComplexPattern{Monomers: monomers}
}

// Reaction sums complex patterns into a reaction pattern.
func Reaction(complexes ...ComplexPattern) ReactionPattern {
	return ReactionPattern{Complexes: complexes}
}

// Irreversible builds a one-way rule expression.
func Irreversible(reactants, products ReactionPattern) *RuleExpression {
	return &RuleExpression{Reactants: reactants, Products: products}
}

// Reversible builds a two-way rule expression.
func Reversible(reactants, products ReactionPattern) *RuleExpression {
	return &RuleExpression{Reactants: reactants, Products: products, Reversible: true}
}
