package registry

import (
	"fmt"

	"github.com/specialistvlad/qspgo/internal/entity"
)

// Value returns the numeric value of a Quantity or Formula. Formulas are
// evaluated recursively against the registry; cycles are an error.
func (r *Registry) Value(name string) (float64, error) {
	return r.value(name, map[string]bool{})
}

func (r *Registry) value(name string, visiting map[string]bool) (float64, error) {
	e, ok := r.entities[name]
	if !ok {
		return 0, fmt.Errorf("unknown entity %q", name)
	}
	switch v := e.(type) {
	case *entity.Quantity:
		return v.Value, nil
	case *entity.Formula:
		if visiting[name] {
			return 0, fmt.Errorf("formula %q refers to itself", name)
		}
		visiting[name] = true
		defer delete(visiting, name)

		vars := make(map[string]float64)
		for _, atom := range v.Expr.Atoms() {
			val, err := r.value(atom, visiting)
			if err != nil {
				return 0, fmt.Errorf("formula %q: %w", name, err)
			}
			vars[atom] = val
		}
		return v.Expr.Evaluate(vars)
	default:
		return 0, fmt.Errorf("%s %q has no numeric value", e.Kind(), name)
	}
}
