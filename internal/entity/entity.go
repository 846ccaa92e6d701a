// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package entity defines the named model components held by the registry.
//
// # Kinds
//
//   - Quantity: a numeric parameter with a unit (e.g. a rate constant).
//   - Container: a compartment whose size references a Quantity or Formula.
//   - BuildingBlock: a monomer with sites, allowed site states, and an
//     optional functional tag.
//   - Formula: a named symbolic expression over other entities.
//   - TransformationRule: a structural pattern with forward and optional
//     reverse rates.
//   - Observable: a named pattern whose amount is tracked.
//
// Entities are created only through the declaration contexts (or the
// constructors here, which those contexts call) and are treated as immutable
// once registered.
package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/qspgo/internal/expr"
	"github.com/specialistvlad/qspgo/internal/ftag"
	"github.com/specialistvlad/qspgo/internal/pattern"
)

// Kind identifies the entity variant.
type Kind string

const (
	KindQuantity           Kind = "quantity"
	KindContainer          Kind = "container"
	KindBuildingBlock      Kind = "building block"
	KindFormula            Kind = "formula"
	KindTransformationRule Kind = "rule"
	KindObservable         Kind = "observable"
)

// Entity is implemented by every registered component.
type Entity interface {
	Name() string
	Kind() Kind
}

// Rate is an entity usable as a rate, size, or initial value: a Quantity or
// a Formula.
type Rate interface {
	Entity
	isRate()
}

// Quantity is a numeric value with a unit.
type Quantity struct {
	name  string
	Value float64
	Unit  string
}

// NewQuantity creates a Quantity.
func NewQuantity(name string, value float64, unit string) *Quantity {
	return &Quantity{name: name, Value: value, Unit: unit}
}

func (q *Quantity) Name() string { return q.name }
func (q *Quantity) Kind() Kind   { return KindQuantity }
func (q *Quantity) isRate()      {}

func (q *Quantity) String() string {
	return fmt.Sprintf("Quantity(%s, %g, %q)", q.name, q.Value, q.Unit)
}

// Formula is a named symbolic expression.
type Formula struct {
	name string
	Expr *expr.Expression
}

// NewFormula creates a Formula.
func NewFormula(name string, e *expr.Expression) *Formula {
	return &Formula{name: name, Expr: e}
}

func (f *Formula) Name() string { return f.name }
func (f *Formula) Kind() Kind   { return KindFormula }
func (f *Formula) isRate()      {}

func (f *Formula) String() string {
	return fmt.Sprintf("Formula(%s, %s)", f.name, f.Expr)
}

// Container is a compartment sized by a Quantity or Formula.
type Container struct {
	name string
	Size Rate
}

// NewContainer creates a Container.
func NewContainer(name string, size Rate) *Container {
	return &Container{name: name, Size: size}
}

func (c *Container) Name() string { return c.name }
func (c *Container) Kind() Kind   { return KindContainer }

func (c *Container) String() string {
	return fmt.Sprintf("Container(%s, size=%s)", c.name, c.Size.Name())
}

// BuildingBlock is a monomer: ordered sites, allowed states per site, and an
// optional functional tag.
type BuildingBlock struct {
	name       string
	Sites      []string
	SiteStates map[string][]string
	Tag        *ftag.Tag
}

// NewBuildingBlock creates a BuildingBlock, checking that sites are distinct
// and that every state key is a declared site.
func NewBuildingBlock(name string, sites []string, states map[string][]string) (*BuildingBlock, error) {
	seen := make(map[string]struct{}, len(sites))
	for _, s := range sites {
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("duplicate site %q", s)
		}
		seen[s] = struct{}{}
	}
	for site, allowed := range states {
		if _, ok := seen[site]; !ok {
			return nil, fmt.Errorf("state list given for undeclared site %q", site)
		}
		if len(allowed) == 0 {
			return nil, fmt.Errorf("site %q has an empty state list", site)
		}
	}
	return &BuildingBlock{name: name, Sites: sites, SiteStates: states}, nil
}

func (b *BuildingBlock) Name() string { return b.name }
func (b *BuildingBlock) Kind() Kind   { return KindBuildingBlock }

// WithTag sets the functional tag and returns the block.
func (b *BuildingBlock) WithTag(t ftag.Tag) *BuildingBlock {
	b.Tag = &t
	return b
}

// HasSite reports whether the site is declared.
func (b *BuildingBlock) HasSite(site string) bool {
	for _, s := range b.Sites {
		if s == site {
			return true
		}
	}
	return false
}

// AllowsState reports whether state is allowed on site.
func (b *BuildingBlock) AllowsState(site, state string) bool {
	for _, s := range b.SiteStates[site] {
		if s == state {
			return true
		}
	}
	return false
}

func (b *BuildingBlock) String() string {
	keys := make([]string, 0, len(b.SiteStates))
	for k := range b.SiteStates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	states := make([]string, len(keys))
	for i, k := range keys {
		states[i] = k + ": [" + strings.Join(b.SiteStates[k], " ") + "]"
	}
	out := fmt.Sprintf("BuildingBlock(%s, sites=[%s], states={%s})", b.name, strings.Join(b.Sites, " "), strings.Join(states, ", "))
	if b.Tag != nil {
		out += " @ " + b.Tag.String()
	}
	return out
}

// TransformationRule is a rule pattern with its rates.
type TransformationRule struct {
	name    string
	Pattern *pattern.RuleExpression
	Forward Rate
	Reverse Rate
}

// NewTransformationRule creates a rule. A non-nil reverse rate makes it
// reversible.
func NewTransformationRule(name string, p *pattern.RuleExpression, forward, reverse Rate) *TransformationRule {
	return &TransformationRule{name: name, Pattern: p, Forward: forward, Reverse: reverse}
}

func (r *TransformationRule) Name() string { return r.name }
func (r *TransformationRule) Kind() Kind   { return KindTransformationRule }

// IsReversible reports whether the rule has a reverse rate.
func (r *TransformationRule) IsReversible() bool {
	return r.Reverse != nil
}

func (r *TransformationRule) String() string {
	out := fmt.Sprintf("Rule(%s, %s, %s", r.name, r.Pattern, r.Forward.Name())
	if r.Reverse != nil {
		out += ", " + r.Reverse.Name()
	}
	return out + ")"
}

// Observable tracks the amount matching a pattern.
type Observable struct {
	name    string
	Pattern pattern.ComplexPattern
}

// NewObservable creates an Observable.
func NewObservable(name string, p pattern.ComplexPattern) *Observable {
	return &Observable{name: name, Pattern: p}
}

func (o *Observable) Name() string { return o.name }
func (o *Observable) Kind() Kind   { return KindObservable }

func (o *Observable) String() string {
	return fmt.Sprintf("Observable(%s, %s)", o.name, o.Pattern)
}

// Initial is an initial condition: a concrete pattern and its starting value.
// Initials are not named and are stored apart from entities.
type Initial struct {
	Pattern pattern.ComplexPattern
	Value   Rate
}

func (i *Initial) String() string {
	return fmt.Sprintf("Initial(%s, %s)", i.Pattern, i.Value.Name())
}
