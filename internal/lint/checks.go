package lint

import (
	"errors"
	"math"

	"github.com/specialistvlad/qspgo/internal/entity"
	"github.com/specialistvlad/qspgo/internal/modelerr"
	"github.com/specialistvlad/qspgo/internal/pattern"
)

// ruleSides returns the patterns a rule consumes: the reactants, and the
// products too when the rule runs both ways.
func ruleSides(r *entity.TransformationRule) []pattern.ReactionPattern {
	sides := []pattern.ReactionPattern{r.Pattern.Reactants}
	if r.IsReversible() {
		sides = append(sides, r.Pattern.Products)
	}
	return sides
}

func (c *Checker) checkUnusedBuildingBlocks() {
	used := make(map[string]bool)
	for _, r := range c.reg.Rules() {
		for _, side := range ruleSides(r) {
			for _, name := range side.MonomerNames() {
				used[name] = true
			}
		}
	}
	for _, b := range c.reg.BuildingBlocks() {
		if !used[b.Name()] {
			c.report(CheckUnusedBuildingBlocks, b.Name(), "Unused building block (not included in any rule): %s", b.Name())
		}
	}
}

func (c *Checker) checkUnusedQuantities() {
	used := make(map[string]bool)
	markRate := func(rate entity.Rate) {
		if q, ok := rate.(*entity.Quantity); ok {
			used[q.Name()] = true
		}
	}
	for _, r := range c.reg.Rules() {
		markRate(r.Forward)
		if r.IsReversible() {
			markRate(r.Reverse)
		}
	}
	for _, in := range c.reg.Initials() {
		markRate(in.Value)
	}
	for _, f := range c.reg.Formulas() {
		for _, atom := range f.Expr.Atoms() {
			used[atom] = true
		}
	}
	for _, q := range c.reg.Quantities() {
		if !used[q.Name()] {
			c.report(CheckUnusedQuantities, q.Name(), "Unused quantity: %s", q.Name())
		}
	}
}

func (c *Checker) checkZeroQuantities() {
	for _, q := range c.reg.Quantities() {
		if math.Abs(q.Value) <= ZeroTolerance {
			c.report(CheckZeroQuantities, q.Name(), "Zero-valued quantity: %s", q.Name())
		}
	}
}

func (c *Checker) checkMissingInitials() {
	covered := make(map[string]bool)
	for _, in := range c.reg.Initials() {
		for _, name := range in.Pattern.MonomerNames() {
			covered[name] = true
		}
	}
	for _, b := range c.reg.BuildingBlocks() {
		if !covered[b.Name()] {
			c.report(CheckMissingInitials, b.Name(), "Building block missing initial condition: %s", b.Name())
		}
	}
}

func (c *Checker) checkBonds() {
	for _, r := range c.reg.Rules() {
		for _, side := range ruleSides(r) {
			for _, issue := range pattern.CheckBonds(side) {
				c.report(CheckBonds, r.Name(), "Rule %s: %s", r.Name(), issue)
			}
		}
	}
}

func (c *Checker) checkUnits() {
	err := c.reg.CheckUnits()
	if err == nil {
		return
	}
	var unitErr *modelerr.UnitError
	if errors.As(err, &unitErr) {
		for _, issue := range unitErr.Issues {
			c.report(CheckUnits, c.reg.Name(), "Unit inconsistency: %s", issue)
		}
		return
	}
	c.report(CheckUnits, c.reg.Name(), "Unit check failed: %v", err)
}

func (c *Checker) checkUnboundSites() {
	bound := make(map[string]bool)
	for _, r := range c.reg.Rules() {
		for _, side := range []pattern.ReactionPattern{r.Pattern.Reactants, r.Pattern.Products} {
			for _, cp := range side.Complexes {
				for _, m := range cp.Monomers {
					for _, s := range m.Sites {
						if s.Bond.Kind == pattern.BondNumbered || s.Bond.Kind == pattern.BondAny {
							bound[m.Monomer+"."+s.Name] = true
						}
					}
				}
			}
		}
	}
	for _, b := range c.reg.BuildingBlocks() {
		for _, site := range b.Sites {
			key := b.Name() + "." + site
			if !bound[key] {
				c.report(CheckUnboundSites, key, "Unbound site (never participates in a bond): %s", key)
			}
		}
	}
}

func (c *Checker) checkOverdefinedRules() {
	seen := make(map[string]string)
	for _, r := range c.reg.Rules() {
		key := r.Pattern.String()
		if first, ok := seen[key]; ok {
			c.report(CheckOverdefinedRules, r.Name(), "Overdefined reaction %q in rules %s and %s", key, first, r.Name())
			continue
		}
		seen[key] = r.Name()
	}
}

func (c *Checker) checkUnreferencedFormulas() {
	used := make(map[string]bool)
	mark := func(rate entity.Rate) {
		if rate != nil {
			used[rate.Name()] = true
		}
	}
	for _, r := range c.reg.Rules() {
		mark(r.Forward)
		mark(r.Reverse)
	}
	for _, in := range c.reg.Initials() {
		mark(in.Value)
	}
	for _, cont := range c.reg.Containers() {
		mark(cont.Size)
	}
	for _, f := range c.reg.Formulas() {
		for _, atom := range f.Expr.Atoms() {
			if atom != f.Name() {
				used[atom] = true
			}
		}
	}
	for _, f := range c.reg.Formulas() {
		if !used[f.Name()] {
			c.report(CheckUnreferencedFormulas, f.Name(), "Unreferenced formula: %s", f.Name())
		}
	}
}
