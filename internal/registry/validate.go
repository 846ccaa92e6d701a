package registry

import (
	"github.com/specialistvlad/qspgo/internal/entity"
	"github.com/specialistvlad/qspgo/internal/units"
)

// CheckUnitsDefault is the built-in unit checker. It verifies that:
//   - the simulation units are a concentration, a time, and a volume;
//   - every quantity unit parses;
//   - quantity rates of rules are per-time and match the side's order;
//   - quantity container sizes are volumes (or dimensionless);
//   - quantity initial values are amounts or concentrations.
//
// Formulas carry no unit and are skipped.
func CheckUnitsDefault(r *Registry) error {
	c := units.NewChecker()
	c.SimulationUnits(r.units.Concentration, r.units.Time, r.units.Volume)

	valid := make(map[string]bool)
	for _, q := range r.Quantities() {
		_, ok := c.Quantity(q.Name(), q.Unit)
		valid[q.Name()] = ok
	}
	checked := func(rate entity.Rate) (*entity.Quantity, bool) {
		q, ok := rate.(*entity.Quantity)
		if !ok || !valid[q.Name()] {
			return nil, false
		}
		return q, true
	}

	for _, rule := range r.Rules() {
		if q, ok := checked(rule.Forward); ok {
			c.RateConstant(rule.Name(), q.Name(), q.Unit, len(rule.Pattern.Reactants.Complexes))
		}
		if rule.IsReversible() {
			if q, ok := checked(rule.Reverse); ok {
				c.RateConstant(rule.Name(), q.Name(), q.Unit, len(rule.Pattern.Products.Complexes))
			}
		}
	}
	for _, cont := range r.Containers() {
		if q, ok := checked(cont.Size); ok {
			c.Size(cont.Name(), q.Name(), q.Unit)
		}
	}
	for _, in := range r.initials {
		if q, ok := checked(in.Value); ok {
			c.InitialValue(in.Pattern.String(), q.Name(), q.Unit)
		}
	}
	return c.Err()
}
