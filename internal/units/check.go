package units

import (
	"fmt"

	"github.com/specialistvlad/qspgo/internal/modelerr"
)

// Checker accumulates dimensional issues for one consistency pass.
type Checker struct {
	issues []string
}

// NewChecker creates an empty checker.
func NewChecker() *Checker {
	return &Checker{}
}

func (c *Checker) addf(format string, args ...any) {
	c.issues = append(c.issues, fmt.Sprintf(format, args...))
}

// Issues returns the issues recorded so far.
func (c *Checker) Issues() []string {
	return c.issues
}

// Err returns a *modelerr.UnitError describing all issues, or nil.
func (c *Checker) Err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &modelerr.UnitError{Issues: c.issues}
}

// Quantity parses the unit of a quantity, recording an issue when it is not
// a valid unit expression.
func (c *Checker) Quantity(name, unit string) (Dim, bool) {
	u, err := Parse(unit)
	if err != nil {
		c.addf("quantity '%s': %v", name, err)
		return Dim{}, false
	}
	return u.Dim, true
}

// RateConstant checks a mass-action rate constant whose rule side has order
// reactant complexes. The rate must be per time, and concentration exponents
// must match the order: conc^(1-order). Counts-based rates (no volume term)
// are accepted as well.
func (c *Checker) RateConstant(rule, name, unit string, order int) {
	d, ok := c.Quantity(name, unit)
	if !ok {
		return
	}
	if d.Time != -1 {
		c.addf("rule '%s': rate '%s' has unit %q (%s), expected a per-time unit", rule, name, unit, d)
		return
	}
	substance := d.Amount + d.Mass
	if substance != 1-order {
		c.addf("rule '%s': rate '%s' has unit %q (%s), inconsistent with %d reactant(s)", rule, name, unit, d, order)
		return
	}
	if d.Volume != order-1 && d.Volume != 0 {
		c.addf("rule '%s': rate '%s' has unit %q (%s), inconsistent volume term for %d reactant(s)", rule, name, unit, d, order)
	}
}

// Size checks a container size quantity: a volume or dimensionless.
func (c *Checker) Size(container, name, unit string) {
	d, ok := c.Quantity(name, unit)
	if !ok {
		return
	}
	if d != volumeDim && !d.IsDimensionless() {
		c.addf("container '%s': size '%s' has unit %q (%s), expected a volume", container, name, unit, d)
	}
}

// InitialValue checks an initial-condition quantity: an amount, a mass, a
// concentration, or dimensionless.
func (c *Checker) InitialValue(pattern, name, unit string) {
	d, ok := c.Quantity(name, unit)
	if !ok {
		return
	}
	if !isSubstance(d) {
		c.addf("initial %s: value '%s' has unit %q (%s), expected an amount or concentration", pattern, name, unit, d)
	}
}

// SimulationUnits checks the model-wide default units.
func (c *Checker) SimulationUnits(concentration, time, volume string) {
	if u, err := Parse(concentration); err != nil {
		c.addf("simulation concentration unit: %v", err)
	} else if !isSubstance(u.Dim) || u.Dim.Volume != -1 {
		c.addf("simulation concentration unit %q (%s) is not a concentration", concentration, u.Dim)
	}
	if u, err := Parse(time); err != nil {
		c.addf("simulation time unit: %v", err)
	} else if u.Dim != timeDim {
		c.addf("simulation time unit %q (%s) is not a time", time, u.Dim)
	}
	if u, err := Parse(volume); err != nil {
		c.addf("simulation volume unit: %v", err)
	} else if u.Dim != volumeDim {
		c.addf("simulation volume unit %q (%s) is not a volume", volume, u.Dim)
	}
}

func isSubstance(d Dim) bool {
	if d.Time != 0 {
		return false
	}
	if d.Amount != 0 && d.Mass != 0 {
		return false
	}
	substance := d.Amount + d.Mass
	switch {
	case substance == 0:
		return d.Volume == 0
	case substance == 1:
		return d.Volume == 0 || d.Volume == -1
	default:
		return false
	}
}
