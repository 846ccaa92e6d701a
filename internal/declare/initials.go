package declare

import (
	"github.com/specialistvlad/qspgo/internal/entity"
	"github.com/specialistvlad/qspgo/internal/modelerr"
	"github.com/specialistvlad/qspgo/internal/pattern"
	"github.com/specialistvlad/qspgo/internal/registry"
)

// MakeInitial registers the starting amount of a species. The pattern must
// be concrete: every site of every building block is listed with a definite
// bond, and sites with state lists carry a state. value must be a registered
// Quantity or Formula.
func MakeInitial(reg *registry.Registry, cp pattern.ComplexPattern, value entity.Rate) (*entity.Initial, error) {
	if reg == nil {
		return nil, &modelerr.ConfigurationError{Message: "no active model found, create a registry before declaring initial conditions"}
	}
	const kind = "initial"
	name := cp.String()

	rate, err := registeredRate(reg, value)
	if err != nil {
		return nil, modelerr.NewValidationError(kind, name, "value %v", err)
	}
	if len(cp.Monomers) == 0 {
		return nil, modelerr.NewValidationError(kind, name, "pattern is empty")
	}
	if err := checkComplex(reg, cp); err != nil {
		return nil, modelerr.NewValidationError(kind, name, "%v", err)
	}
	if !cp.IsConcrete() {
		return nil, modelerr.NewValidationError(kind, name, "pattern must be concrete")
	}
	for _, m := range cp.Monomers {
		block, _ := reg.BuildingBlock(m.Monomer)
		for _, site := range block.Sites {
			s, ok := m.Site(site)
			if !ok {
				return nil, modelerr.NewValidationError(kind, name, "site %q of %q must be listed", site, m.Monomer)
			}
			if len(block.SiteStates[site]) > 0 && s.State == "" {
				return nil, modelerr.NewValidationError(kind, name, "site %q of %q needs a state", site, m.Monomer)
			}
		}
	}

	in := &entity.Initial{Pattern: cp, Value: rate}
	if err := reg.AddInitial(in); err != nil {
		return nil, err
	}
	return in, nil
}

// MakeObservable registers an observable for cp. An empty name is derived
// from the pattern.
func MakeObservable(reg *registry.Registry, cp pattern.ComplexPattern, name string) (*entity.Observable, error) {
	if reg == nil {
		return nil, &modelerr.ConfigurationError{Message: "no active model found, create a registry before declaring observables"}
	}
	if name == "" {
		name = pattern.AutoName(cp)
	}
	if len(cp.Monomers) == 0 {
		return nil, modelerr.NewValidationError(string(entity.KindObservable), name, "pattern is empty")
	}
	if err := checkComplex(reg, cp); err != nil {
		return nil, modelerr.NewValidationError(string(entity.KindObservable), name, "%v", err)
	}
	obs := entity.NewObservable(name, cp)
	if err := reg.Add(obs); err != nil {
		return nil, err
	}
	return obs, nil
}
