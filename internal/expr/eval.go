package expr

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Functions available inside formulas.
var functions = map[string]function.Function{
	"abs":   stdlib.AbsoluteFunc,
	"min":   stdlib.MinFunc,
	"max":   stdlib.MaxFunc,
	"pow":   stdlib.PowFunc,
	"log":   stdlib.LogFunc,
	"floor": stdlib.FloorFunc,
	"ceil":  stdlib.CeilFunc,
	"exp":   unaryFloatFunc(math.Exp),
	"sqrt":  unaryFloatFunc(math.Sqrt),
}

func unaryFloatFunc(fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "num", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			var f float64
			if err := gocty.FromCtyValue(args[0], &f); err != nil {
				return cty.UnknownVal(cty.Number), err
			}
			return cty.NumberFloatVal(fn(f)), nil
		},
	})
}

// Check reports calls to functions that formulas cannot use and references
// that are not plain names, such as `a.b` or `c[0]`.
func (e *Expression) Check() error {
	for _, fn := range e.Functions() {
		if _, ok := functions[fn]; !ok {
			return fmt.Errorf("expression %q: unknown function %q", e.src, fn)
		}
	}
	atoms := make(map[string]bool)
	for _, a := range e.Atoms() {
		atoms[a] = true
	}
	for _, ref := range e.References() {
		if !atoms[ref] {
			return fmt.Errorf("expression %q: %s is not a plain name", e.src, ref)
		}
	}
	return nil
}

// Evaluate computes the numeric value of the expression. Every atom must have
// a binding in vars.
func (e *Expression) Evaluate(vars map[string]float64) (float64, error) {
	for _, atom := range e.Atoms() {
		if _, ok := vars[atom]; !ok {
			return 0, fmt.Errorf("expression %q: no value for %q", e.src, atom)
		}
	}

	variables := make(map[string]cty.Value, len(vars))
	for name, v := range vars {
		variables[name] = cty.NumberFloatVal(v)
	}
	evalCtx := &hcl.EvalContext{
		Variables: variables,
		Functions: functions,
	}

	val, diags := e.expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, fmt.Errorf("expression %q: %w", e.src, diags)
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("expression %q does not evaluate to a number: %w", e.src, err)
	}
	if !num.IsKnown() || num.IsNull() {
		return 0, fmt.Errorf("expression %q evaluated to an unknown value", e.src)
	}

	var out float64
	if err := gocty.FromCtyValue(num, &out); err != nil {
		return 0, fmt.Errorf("expression %q: %w", e.src, err)
	}
	return out, nil
}
