package registry

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/specialistvlad/qspgo/internal/entity"
	"github.com/specialistvlad/qspgo/internal/modelerr"
)

// SimulationUnits are the model-wide default units.
type SimulationUnits struct {
	Concentration string `yaml:"concentration"`
	Time          string `yaml:"time"`
	Volume        string `yaml:"volume"`
}

// DefaultSimulationUnits is used when a registry is created without units.
var DefaultSimulationUnits = SimulationUnits{Concentration: "mg/L", Time: "h", Volume: "L"}

// UnitChecker checks the dimensional consistency of a registry.
type UnitChecker func(r *Registry) error

// Option configures a Registry.
type Option func(*Registry)

// WithSimulationUnits overrides the default simulation units.
func WithSimulationUnits(u SimulationUnits) Option {
	return func(r *Registry) { r.units = u }
}

// WithUnitChecker replaces the unit checker used by CheckUnits.
func WithUnitChecker(c UnitChecker) Option {
	return func(r *Registry) { r.unitChecker = c }
}

// WithLogger sets the logger used for registration events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// Registry holds all entities and initial conditions of one model.
type Registry struct {
	id       string
	name     string
	units    SimulationUnits
	entities map[string]entity.Entity
	order    []entity.Entity
	initials []*entity.Initial

	unitChecker UnitChecker
	logger      *slog.Logger
}

// New creates and initializes an empty Registry.
func New(name string, opts ...Option) *Registry {
	r := &Registry{
		id:          uuid.New().String(),
		name:        name,
		units:       DefaultSimulationUnits,
		entities:    make(map[string]entity.Entity),
		unitChecker: CheckUnitsDefault,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the session identifier of the registry.
func (r *Registry) ID() string { return r.id }

// Name returns the model name.
func (r *Registry) Name() string { return r.name }

// SimulationUnits returns the model-wide default units.
func (r *Registry) SimulationUnits() SimulationUnits { return r.units }

// Add registers an entity. It fails with a DuplicateNameError when the name is
// already taken by an entity of any kind.
func (r *Registry) Add(e entity.Entity) error {
	if _, exists := r.entities[e.Name()]; exists {
		return modelerr.NewDuplicateNameError(string(e.Kind()), e.Name())
	}
	r.entities[e.Name()] = e
	r.order = append(r.order, e)
	r.logger.Debug("Registered entity.", "model", r.name, "kind", e.Kind(), "name", e.Name())
	return nil
}

// Has reports whether a name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entities[name]
	return ok
}

// Get returns the entity registered under name.
func (r *Registry) Get(name string) (entity.Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns every entity in registration order.
func (r *Registry) All() []entity.Entity {
	out := make([]entity.Entity, len(r.order))
	copy(out, r.order)
	return out
}

// OfKind returns the entities of one kind in registration order.
func (r *Registry) OfKind(kind entity.Kind) []entity.Entity {
	var out []entity.Entity
	for _, e := range r.order {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

func ofType[T entity.Entity](r *Registry) []T {
	var out []T
	for _, e := range r.order {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Quantities returns the registered quantities.
func (r *Registry) Quantities() []*entity.Quantity { return ofType[*entity.Quantity](r) }

// Formulas returns the registered formulas.
func (r *Registry) Formulas() []*entity.Formula { return ofType[*entity.Formula](r) }

// Containers returns the registered containers.
func (r *Registry) Containers() []*entity.Container { return ofType[*entity.Container](r) }

// BuildingBlocks returns the registered building blocks.
func (r *Registry) BuildingBlocks() []*entity.BuildingBlock { return ofType[*entity.BuildingBlock](r) }

// Rules returns the registered transformation rules.
func (r *Registry) Rules() []*entity.TransformationRule {
	return ofType[*entity.TransformationRule](r)
}

// Observables returns the registered observables.
func (r *Registry) Observables() []*entity.Observable { return ofType[*entity.Observable](r) }

// BuildingBlock looks up a building block by name.
func (r *Registry) BuildingBlock(name string) (*entity.BuildingBlock, bool) {
	b, ok := r.entities[name].(*entity.BuildingBlock)
	return b, ok
}

// AddInitial records an initial condition. A second initial for the same
// pattern is rejected.
func (r *Registry) AddInitial(in *entity.Initial) error {
	key := in.Pattern.String()
	for _, existing := range r.initials {
		if existing.Pattern.String() == key {
			return modelerr.NewDuplicateNameError("initial", key)
		}
	}
	r.initials = append(r.initials, in)
	r.logger.Debug("Registered initial condition.", "model", r.name, "pattern", key, "value", in.Value.Name())
	return nil
}

// Initials returns the initial conditions in registration order.
func (r *Registry) Initials() []*entity.Initial {
	out := make([]*entity.Initial, len(r.initials))
	copy(out, r.initials)
	return out
}

// CheckUnits runs the configured unit checker. Failures are
// *modelerr.UnitError values.
func (r *Registry) CheckUnits() error {
	if r.unitChecker == nil {
		return nil
	}
	return r.unitChecker(r)
}
