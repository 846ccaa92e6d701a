// Package expr provides the symbolic expression value used by formulas.
//
// An Expression wraps an HCL native-syntax expression such as `kf * A_total / V`.
// The core treats it as opaque apart from two operations: listing the names it
// references (its atoms) and evaluating it against numeric bindings.
package expr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Expression is an immutable symbolic expression.
type Expression struct {
	src  string
	expr hcl.Expression
}

// Parse parses an expression from its source text.
func Parse(src string) (*Expression, error) {
	e, diags := hclsyntax.ParseExpression([]byte(src), "expression", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid expression %q: %w", src, diags)
	}
	return &Expression{src: strings.TrimSpace(src), expr: e}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level declarations.
func MustParse(src string) *Expression {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// FromHCL wraps an already parsed HCL expression. src is the expression's
// source text, used for display.
func FromHCL(e hcl.Expression, src []byte) *Expression {
	text := strings.TrimSpace(string(e.Range().SliceBytes(src)))
	return &Expression{src: text, expr: e}
}

// String returns the expression's source text.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	return e.src
}

// HCL returns the underlying HCL expression.
func (e *Expression) HCL() hcl.Expression {
	return e.expr
}

// Atoms returns the sorted, unique root names referenced by the expression.
// For `kf * A.total` it returns [A kf].
func (e *Expression) Atoms() []string {
	if e == nil || e.expr == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, traversal := range e.expr.Variables() {
		seen[traversal.RootName()] = struct{}{}
	}
	atoms := make([]string, 0, len(seen))
	for name := range seen {
		atoms = append(atoms, name)
	}
	sort.Strings(atoms)
	return atoms
}

// References returns canonical strings for every traversal, e.g. "var.foo[0]".
func (e *Expression) References() []string {
	if e == nil || e.expr == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, traversal := range e.expr.Variables() {
		seen[traversalKey(traversal)] = struct{}{}
	}
	refs := make([]string, 0, len(seen))
	for k := range seen {
		refs = append(refs, k)
	}
	sort.Strings(refs)
	return refs
}

// Functions returns the sorted, unique function names called in the expression.
func (e *Expression) Functions() []string {
	if e == nil {
		return nil
	}
	syntaxExpr, ok := e.expr.(hclsyntax.Expression)
	if !ok {
		return nil
	}
	found := make(map[string]struct{})
	walkForFunctions(syntaxExpr, found)
	out := make([]string, 0, len(found))
	for f := range found {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// traversalKey generates a stable string representation for a traversal.
func traversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// walkForFunctions recursively walks the syntax tree collecting function calls.
func walkForFunctions(e hclsyntax.Expression, functions map[string]struct{}) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[n.Name] = struct{}{}
		for _, arg := range n.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(n.LHS, functions)
		walkForFunctions(n.RHS, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(n.Val, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(n.Condition, functions)
		walkForFunctions(n.TrueResult, functions)
		walkForFunctions(n.FalseResult, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(n.Expression, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range n.Exprs {
			walkForFunctions(item, functions)
		}
	case *hclsyntax.IndexExpr:
		walkForFunctions(n.Collection, functions)
		walkForFunctions(n.Key, functions)
	}
}
