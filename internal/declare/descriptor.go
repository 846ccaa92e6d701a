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

// Args is the normalized result of validating a raw binding. Each kind
// produces its own variant and its Construct only accepts that variant.
type Args interface {
	isArgs()
}

// Numeric is a Quantity given as (value, unit).
type Numeric struct {
	Value float64
	Unit  string
}

// Symbolic is a Quantity or Formula given as an expression.
type Symbolic struct {
	Expr *expr.Expression
}

// ContainerArgs is a validated Container declaration.
type ContainerArgs struct {
	Size entity.Rate
}

// BlockArgs is a validated BuildingBlock declaration.
type BlockArgs struct {
	Sites  []string
	States map[string][]string
	Tag    *ftag.Member
}

// RuleArgs is a validated TransformationRule declaration.
type RuleArgs struct {
	Pattern *pattern.RuleExpression
	Forward entity.Rate
	Reverse entity.Rate
}

func (Numeric) isArgs()       {}
func (Symbolic) isArgs()      {}
func (ContainerArgs) isArgs() {}
func (BlockArgs) isArgs()     {}
func (RuleArgs) isArgs()      {}

// Descriptor describes how one entity kind turns a raw binding into a
// registered entity.
type Descriptor interface {
	Kind() entity.Kind
	// Validate checks the raw value's shape and normalizes it.
	Validate(name string, raw any) (Args, error)
	// Construct builds the entity from validated args.
	Construct(name string, args Args) (entity.Entity, error)
}

// ValidateTuple is the default shape check: raw must be a Tuple.
func ValidateTuple(kind entity.Kind, name string, raw any) (Tuple, error) {
	t, ok := raw.(Tuple)
	if !ok {
		return nil, modelerr.NewValidationError(string(kind), name, "must be a tuple, got %T", raw)
	}
	return t, nil
}

func unexpectedArgs(kind entity.Kind, name string, args Args) error {
	return modelerr.NewValidationError(string(kind), name, "cannot construct from %T", args)
}

// toFloat accepts Go's integer and floating point kinds. Booleans are
// rejected.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// unwrapSingle returns the sole element of a 1-tuple, or raw itself.
func unwrapSingle(raw any) any {
	if t, ok := raw.(Tuple); ok && len(t) == 1 {
		return t[0]
	}
	return raw
}

// leadingExpr returns the expression held by raw when raw is a bare
// expression, (expr,) or (expr, unit).
func leadingExpr(raw any) (*expr.Expression, bool) {
	if t, ok := raw.(Tuple); ok && len(t) == 2 {
		raw = t[0]
	}
	e, ok := unwrapSingle(raw).(*expr.Expression)
	return e, ok && e != nil
}

// symbolic checks e before it becomes a Formula.
func symbolic(kind entity.Kind, name string, e *expr.Expression) (Args, error) {
	if err := e.Check(); err != nil {
		return nil, modelerr.NewValidationError(string(kind), name, "%v", err)
	}
	return Symbolic{Expr: e}, nil
}

// registeredRate resolves v to a Quantity or Formula that is registered
// under its own name.
func registeredRate(reg *registry.Registry, v any) (entity.Rate, error) {
	var rate entity.Rate
	switch r := v.(type) {
	case *entity.Quantity:
		if r != nil {
			rate = r
		}
	case *entity.Formula:
		if r != nil {
			rate = r
		}
	}
	if rate == nil {
		return nil, fmt.Errorf("must reference a quantity or formula entity, got %T", v)
	}
	got, ok := reg.Get(rate.Name())
	if !ok || got != entity.Entity(rate) {
		return nil, fmt.Errorf("%s %q is not registered in the model", rate.Kind(), rate.Name())
	}
	return rate, nil
}
