package declare

import (
	"fmt"

	"github.com/specialistvlad/qspgo/internal/entity"
	"github.com/specialistvlad/qspgo/internal/expr"
	"github.com/specialistvlad/qspgo/internal/ftag"
	"github.com/specialistvlad/qspgo/internal/modelerr"
	"github.com/specialistvlad/qspgo/internal/pattern"
	"github.com/specialistvlad/qspgo/internal/registry"
)

// QuantityKind accepts an expression (registered as a Formula) or a
// (number, unit) tuple. An expression paired with a unit is still a Formula;
// the unit is dropped.
type QuantityKind struct{}

func (QuantityKind) Kind() entity.Kind { return entity.KindQuantity }

func (k QuantityKind) Validate(name string, raw any) (Args, error) {
	if e, ok := leadingExpr(raw); ok {
		return symbolic(k.Kind(), name, e)
	}
	t, ok := raw.(Tuple)
	if !ok || len(t) != 2 {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "must be a symbolic expression or a (value, unit) tuple")
	}
	value, ok := toFloat(t[0])
	if !ok {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "value must be an integer or a real number, got %T", t[0])
	}
	unit, ok := t[1].(string)
	if !ok {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "unit must be a string, got %T", t[1])
	}
	return Numeric{Value: value, Unit: unit}, nil
}

func (k QuantityKind) Construct(name string, args Args) (entity.Entity, error) {
	switch a := args.(type) {
	case Numeric:
		return entity.NewQuantity(name, a.Value, a.Unit), nil
	case Symbolic:
		return entity.NewFormula(name, a.Expr), nil
	default:
		return nil, unexpectedArgs(k.Kind(), name, args)
	}
}

// ContainerKind accepts a 1-tuple holding a registered Quantity or Formula.
type ContainerKind struct {
	Registry *registry.Registry
}

func (ContainerKind) Kind() entity.Kind { return entity.KindContainer }

func (k ContainerKind) Validate(name string, raw any) (Args, error) {
	if t, ok := raw.(Tuple); ok && len(t) != 1 {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "must be a 1-tuple (size,), got %d elements", len(t))
	}
	size, err := registeredRate(k.Registry, unwrapSingle(raw))
	if err != nil {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "size %v", err)
	}
	return ContainerArgs{Size: size}, nil
}

func (k ContainerKind) Construct(name string, args Args) (entity.Entity, error) {
	a, ok := args.(ContainerArgs)
	if !ok {
		return nil, unexpectedArgs(k.Kind(), name, args)
	}
	return entity.NewContainer(name, a.Size), nil
}

// BuildingBlockKind accepts (sites, states) or (sites, states, tag).
type BuildingBlockKind struct{}

func (BuildingBlockKind) Kind() entity.Kind { return entity.KindBuildingBlock }

func (k BuildingBlockKind) Validate(name string, raw any) (Args, error) {
	t, err := ValidateTuple(k.Kind(), name, raw)
	if err != nil {
		return nil, err
	}
	if len(t) != 2 && len(t) != 3 {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "must be a 2-or-3 tuple (sites, states, [tag]), got %d elements", len(t))
	}

	var args BlockArgs
	switch sites := t[0].(type) {
	case nil:
	case []string:
		args.Sites = sites
	case []any:
		for _, s := range sites {
			label, ok := s.(string)
			if !ok {
				return nil, modelerr.NewValidationError(string(k.Kind()), name, "sites must be a sequence of labels, got %T element", s)
			}
			args.Sites = append(args.Sites, label)
		}
	default:
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "sites must be a sequence of labels, got %T", t[0])
	}

	switch states := t[1].(type) {
	case nil:
	case map[string][]string:
		args.States = states
	default:
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "states must map site labels to state lists, got %T", t[1])
	}

	if len(t) == 3 && t[2] != nil {
		m, ok := t[2].(ftag.Member)
		if !ok {
			return nil, modelerr.NewValidationError(string(k.Kind()), name, "tag must be a functional tag member, got %T", t[2])
		}
		args.Tag = &m
	}
	return args, nil
}

func (k BuildingBlockKind) Construct(name string, args Args) (entity.Entity, error) {
	a, ok := args.(BlockArgs)
	if !ok {
		return nil, unexpectedArgs(k.Kind(), name, args)
	}
	block, err := entity.NewBuildingBlock(name, a.Sites, a.States)
	if err != nil {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "%v", err)
	}
	if a.Tag != nil {
		tag, err := ftag.FromMember(*a.Tag)
		if err != nil {
			return nil, modelerr.NewValidationError(string(k.Kind()), name, "%v", err)
		}
		block.WithTag(tag)
	}
	return block, nil
}

// FormulaKind accepts a 1-tuple holding an expression.
type FormulaKind struct{}

func (FormulaKind) Kind() entity.Kind { return entity.KindFormula }

func (k FormulaKind) Validate(name string, raw any) (Args, error) {
	if t, ok := raw.(Tuple); ok && len(t) != 1 {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "must be a 1-tuple (expression,), got %d elements", len(t))
	}
	e, ok := unwrapSingle(raw).(*expr.Expression)
	if !ok || e == nil {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "must be a symbolic expression")
	}
	return symbolic(k.Kind(), name, e)
}

func (k FormulaKind) Construct(name string, args Args) (entity.Entity, error) {
	a, ok := args.(Symbolic)
	if !ok {
		return nil, unexpectedArgs(k.Kind(), name, args)
	}
	return entity.NewFormula(name, a.Expr), nil
}

// RuleKind accepts (pattern, forward) or (pattern, forward, reverse).
type RuleKind struct {
	Registry *registry.Registry
}

func (RuleKind) Kind() entity.Kind { return entity.KindTransformationRule }

func (k RuleKind) Validate(name string, raw any) (Args, error) {
	t, err := ValidateTuple(k.Kind(), name, raw)
	if err != nil {
		return nil, err
	}
	if len(t) != 2 && len(t) != 3 {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "must be a 2-or-3 tuple (pattern, forward, [reverse]), got %d elements", len(t))
	}
	p, ok := t[0].(*pattern.RuleExpression)
	if !ok || p == nil {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "pattern must be a rule expression, got %T", t[0])
	}
	args := RuleArgs{Pattern: p}
	if args.Forward, err = registeredRate(k.Registry, t[1]); err != nil {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "forward rate %v", err)
	}
	if len(t) == 3 && t[2] != nil {
		if args.Reverse, err = registeredRate(k.Registry, t[2]); err != nil {
			return nil, modelerr.NewValidationError(string(k.Kind()), name, "reverse rate %v", err)
		}
	}
	return args, nil
}

func (k RuleKind) Construct(name string, args Args) (entity.Entity, error) {
	a, ok := args.(RuleArgs)
	if !ok {
		return nil, unexpectedArgs(k.Kind(), name, args)
	}
	if a.Pattern.Reversible && a.Reverse == nil {
		return nil, modelerr.NewValidationError(string(k.Kind()), name, "reversible rule %s needs a reverse rate", a.Pattern)
	}
	for _, side := range []pattern.ReactionPattern{a.Pattern.Reactants, a.Pattern.Products} {
		for _, cp := range side.Complexes {
			if err := checkComplex(k.Registry, cp); err != nil {
				return nil, modelerr.NewValidationError(string(k.Kind()), name, "%v", err)
			}
		}
	}
	p := *a.Pattern
	p.Reversible = a.Reverse != nil
	return entity.NewTransformationRule(name, &p, a.Forward, a.Reverse), nil
}

// checkComplex verifies that a pattern only names registered building blocks,
// their declared sites and allowed states, and registered containers.
func checkComplex(reg *registry.Registry, cp pattern.ComplexPattern) error {
	if err := checkContainer(reg, cp.Compartment); err != nil {
		return err
	}
	for _, m := range cp.Monomers {
		block, ok := reg.BuildingBlock(m.Monomer)
		if !ok {
			return fmt.Errorf("unknown building block %q in %s", m.Monomer, cp)
		}
		for _, s := range m.Sites {
			if !block.HasSite(s.Name) {
				return fmt.Errorf("building block %q has no site %q", m.Monomer, s.Name)
			}
			if s.State != "" && !block.AllowsState(s.Name, s.State) {
				return fmt.Errorf("site %q of %q does not allow state %q", s.Name, m.Monomer, s.State)
			}
		}
		if err := checkContainer(reg, m.Compartment); err != nil {
			return err
		}
	}
	return nil
}

func checkContainer(reg *registry.Registry, name string) error {
	if name == "" {
		return nil
	}
	e, ok := reg.Get(name)
	if !ok || e.Kind() != entity.KindContainer {
		return fmt.Errorf("unknown container %q", name)
	}
	return nil
}
