package hclload

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/qspgo/internal/declare"
	"github.com/specialistvlad/qspgo/internal/expr"
	"github.com/specialistvlad/qspgo/internal/ftag"
	"github.com/specialistvlad/qspgo/internal/pattern"
	"github.com/specialistvlad/qspgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// converter turns attribute expressions into the raw values declaration
// contexts accept.
type converter struct {
	reg *registry.Registry
	src []byte
}

// binding converts a top-level attribute value. When symbolic is set, any
// expression that is not a tuple or a literal becomes an *expr.Expression,
// including a bare reference.
func (c *converter) binding(e hcl.Expression, symbolic bool) (any, hcl.Diagnostics) {
	e = unwrapParens(e)
	switch t := e.(type) {
	case *hclsyntax.TupleConsExpr:
		out := make(declare.Tuple, len(t.Exprs))
		for i, item := range t.Exprs {
			v, diags := c.value(item)
			if diags.HasErrors() {
				return nil, diags
			}
			out[i] = v
		}
		return out, nil
	case *hclsyntax.LiteralValueExpr, *hclsyntax.TemplateExpr:
		return c.value(e)
	case *hclsyntax.UnaryOpExpr:
		if len(t.Variables()) == 0 {
			return c.literal(e)
		}
	}
	if symbolic {
		return expr.FromHCL(e, c.src), nil
	}
	return c.value(e)
}

// value converts an expression nested inside a tuple.
func (c *converter) value(e hcl.Expression) (any, hcl.Diagnostics) {
	e = unwrapParens(e)
	switch t := e.(type) {
	case *hclsyntax.TupleConsExpr:
		out := make([]any, len(t.Exprs))
		for i, item := range t.Exprs {
			v, diags := c.value(item)
			if diags.HasErrors() {
				return nil, diags
			}
			out[i] = v
		}
		return out, nil
	case *hclsyntax.ObjectConsExpr:
		return c.states(t)
	case *hclsyntax.ScopeTraversalExpr:
		return c.reference(t)
	case *hclsyntax.FunctionCallExpr:
		if t.Name == "pattern" {
			return c.rulePattern(t)
		}
	case *hclsyntax.LiteralValueExpr, *hclsyntax.TemplateExpr:
		return c.literal(e)
	case *hclsyntax.UnaryOpExpr:
		// negative numbers
		if len(t.Variables()) == 0 {
			return c.literal(e)
		}
	}
	return expr.FromHCL(e, c.src), nil
}

// reference resolves a bare name to a registered entity and a two-part
// name such as protein.kinase to a functional tag member.
func (c *converter) reference(t *hclsyntax.ScopeTraversalExpr) (any, hcl.Diagnostics) {
	root := t.Traversal.RootName()
	switch len(t.Traversal) {
	case 1:
		if e, ok := c.reg.Get(root); ok {
			return e, nil
		}
		return nil, diagnostic("Unknown reference", fmt.Sprintf("%q is not declared in the model.", root), t.SrcRange)
	case 2:
		attr, ok := t.Traversal[1].(hcl.TraverseAttr)
		if ok && ftag.IsFamily(root) {
			m, found := ftag.Lookup(root, attr.Name)
			if !found {
				return nil, diagnostic("Unknown functional tag", fmt.Sprintf("%s has no member %q.", root, attr.Name), t.SrcRange)
			}
			return m, nil
		}
	}
	return expr.FromHCL(t, c.src), nil
}

func (c *converter) rulePattern(call *hclsyntax.FunctionCallExpr) (any, hcl.Diagnostics) {
	rng := call.Range()
	if len(call.Args) != 1 {
		return nil, diagnostic("Invalid pattern call", "pattern() takes exactly one string argument.", rng)
	}
	v, diags := call.Args[0].Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	var src string
	if err := gocty.FromCtyValue(v, &src); err != nil {
		return nil, diagnostic("Invalid pattern call", "pattern() argument must be a string.", rng)
	}
	rule, err := pattern.ParseRule(src)
	if err != nil {
		return nil, diagnostic("Invalid rule pattern", err.Error(), rng)
	}
	return rule, nil
}

var statesType = cty.Map(cty.List(cty.String))

// states decodes { site = ["u", "p"] } into a site state map.
func (c *converter) states(t *hclsyntax.ObjectConsExpr) (any, hcl.Diagnostics) {
	out := map[string][]string{}
	if len(t.Items) == 0 {
		return out, nil
	}
	v, diags := t.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	converted, err := convert.Convert(v, statesType)
	if err != nil {
		return nil, diagnostic("Invalid site states", "Site states must map site names to lists of state names: "+err.Error(), t.SrcRange)
	}
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, diagnostic("Invalid site states", err.Error(), t.SrcRange)
	}
	return out, nil
}

// literal decodes numbers, strings, bools and null.
func (c *converter) literal(e hcl.Expression) (any, hcl.Diagnostics) {
	v, diags := e.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	var err error
	switch ty := v.Type(); {
	case ty.Equals(cty.Number):
		var f float64
		if err = gocty.FromCtyValue(v, &f); err == nil {
			return f, nil
		}
	case ty.Equals(cty.String):
		var s string
		if err = gocty.FromCtyValue(v, &s); err == nil {
			return s, nil
		}
	case ty.Equals(cty.Bool):
		var b bool
		if err = gocty.FromCtyValue(v, &b); err == nil {
			return b, nil
		}
	default:
		err = fmt.Errorf("unsupported literal of type %s", ty.FriendlyName())
	}
	return nil, diagnostic("Invalid value", err.Error(), e.Range())
}

func unwrapParens(e hcl.Expression) hcl.Expression {
	for {
		p, ok := e.(*hclsyntax.ParenthesesExpr)
		if !ok {
			return e
		}
		e = p.Expression
	}
}

func diagnostic(summary, detail string, rng hcl.Range) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}}
}
