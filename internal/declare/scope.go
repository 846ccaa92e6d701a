package declare

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Tuple is the raw, positional shape most kinds expect a binding to carry,
// e.g. Tuple{1.0, "1/min"} for a numeric Quantity.
type Tuple []any

// Binding is a single (name, raw value) pair.
type Binding struct {
	Name  string
	Value any
}

// Bind is shorthand for a Binding literal.
func Bind(name string, value any) Binding {
	return Binding{Name: name, Value: value}
}

// Scope is an ordered table of bindings. A declaration context snapshots a
// scope on entry and treats every name that appears afterwards as a new
// declaration.
type Scope struct {
	parent *Scope
	names  []string
	values map[string]any
}

// NewScope creates an empty top-level scope.
func NewScope(bindings ...Binding) *Scope {
	s := &Scope{values: make(map[string]any)}
	s.SetAll(bindings...)
	return s
}

// Nested creates an empty scope whose parent is s.
func (s *Scope) Nested() *Scope {
	n := NewScope()
	n.parent = s
	return n
}

// Parent returns the enclosing scope, or nil for a top-level scope.
func (s *Scope) Parent() *Scope { return s.parent }

// IsTopLevel reports whether s has no enclosing scope.
func (s *Scope) IsTopLevel() bool { return s.parent == nil }

// Set binds name to value. Rebinding an existing name keeps its position.
func (s *Scope) Set(name string, value any) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

// SetAll binds every pair in order.
func (s *Scope) SetAll(bindings ...Binding) {
	for _, b := range bindings {
		s.Set(b.Name, b.Value)
	}
}

// Get returns the value bound to name.
func (s *Scope) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Delete removes name from the scope. Missing names are ignored.
func (s *Scope) Delete(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == name })
}

// Names returns the bound names in insertion order.
func (s *Scope) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of bindings.
func (s *Scope) Len() int { return len(s.names) }

// snapshot returns a deep copy of the bindings.
func (s *Scope) snapshot() map[string]any {
	out := make(map[string]any, len(s.values))
	for name, v := range s.values {
		out[name] = deepCopy(v)
	}
	return out
}

// deepCopy copies the container shapes a binding can hold. Entities,
// expressions and patterns are immutable once built and are shared.
func deepCopy(v any) any {
	switch t := v.(type) {
	case Tuple:
		out := make(Tuple, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	case map[string][]string:
		out := make(map[string][]string, len(t))
		for k, states := range t {
			out[k] = slices.Clone(states)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}

// formatArgs renders a raw value the way verbose notices show it.
func formatArgs(v any) string {
	switch t := v.(type) {
	case Tuple:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatValue(e)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "(" + formatValue(v) + ")"
	}
}

type named interface{ Name() string }

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", t)
	case map[string][]string:
		keys := slices.Sorted(maps.Keys(t))
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %v", k, t[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case fmt.Stringer:
		return t.String()
	case named:
		return t.Name()
	default:
		return fmt.Sprint(v)
	}
}
