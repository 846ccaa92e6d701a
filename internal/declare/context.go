// Package declare turns plain name=value bindings into registered model
// entities.
//
// A Context is opened over a Scope, the caller binds new names in that scope,
// and on Exit every name that was not present on entry is validated,
// constructed by the kind's Descriptor, and added to the registry:
//
//	scope := declare.NewScope()
//	err := declare.Quantities(ctx, reg).Do(scope, func() {
//		scope.Set("k1", declare.Tuple{1.0, "1/min"})
//		scope.Set("V", declare.Tuple{1.0, "L"})
//	})
//
// Manual mode replaces the scope diff with explicit Declare calls that are
// applied in call order on Exit.
package declare

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/specialistvlad/qspgo/internal/ctxlog"
	"github.com/specialistvlad/qspgo/internal/entity"
	"github.com/specialistvlad/qspgo/internal/modelerr"
	"github.com/specialistvlad/qspgo/internal/registry"
)

// AfterExitFunc runs once a context has registered every declaration.
type AfterExitFunc func(reg *registry.Registry) error

// Option configures a Context.
type Option func(*Context)

// WithManual switches the context to explicit Declare calls.
func WithManual() Option {
	return func(c *Context) { c.manual = true }
}

// WithVerbose writes a notice to w for every registered entity.
func WithVerbose(w io.Writer) Option {
	return func(c *Context) { c.out = w }
}

// WithParentScope makes Enter capture the parent of the scope it is given.
// It is meant for contexts opened by a helper on behalf of its caller.
func WithParentScope() Option {
	return func(c *Context) { c.parentScope = true }
}

// WithAfterExit adds a hook that runs after a successful Exit.
func WithAfterExit(fn AfterExitFunc) Option {
	return func(c *Context) { c.afterExit = append(c.afterExit, fn) }
}

type queued struct {
	name string
	raw  any
}

// Context captures declarations of a single kind.
type Context struct {
	reg    *registry.Registry
	desc   Descriptor
	logger *slog.Logger

	manual      bool
	out         io.Writer
	parentScope bool
	afterExit   []AfterExitFunc

	entered  bool
	scope    *Scope
	snapshot map[string]any
	queue    []queued
}

// New creates a Context that registers entities described by desc into reg.
func New(ctx context.Context, reg *registry.Registry, desc Descriptor, opts ...Option) *Context {
	c := &Context{
		reg:    reg,
		desc:   desc,
		logger: ctxlog.FromContext(ctx).With("kind", string(desc.Kind())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind returns the kind of entity this context declares.
func (c *Context) Kind() entity.Kind { return c.desc.Kind() }

// Enter opens the context. In automatic mode scope must be a top-level scope
// (or, with WithParentScope, have a parent); its bindings are snapshotted.
// In manual mode scope may be nil.
func (c *Context) Enter(scope *Scope) error {
	if c.reg == nil {
		return &modelerr.ConfigurationError{Message: "no active model found, create a registry before declaring entities"}
	}
	if c.entered {
		return c.usage("context is already entered")
	}
	c.queue = nil
	c.scope, c.snapshot = nil, nil

	if !c.manual {
		if scope == nil {
			return c.usage("automatic mode needs a scope to capture")
		}
		if c.parentScope {
			if scope.Parent() == nil {
				return c.usage("helper-opened context has no parent scope to capture")
			}
			scope = scope.Parent()
		} else if !scope.IsTopLevel() {
			return c.usage("must be used at top-level scope, use manual mode inside nested scopes")
		}
		c.scope = scope
		c.snapshot = scope.snapshot()
	}
	c.entered = true
	return nil
}

// Declare queues a declaration. It is only available in manual mode. A single
// Tuple argument is taken as the raw value itself; otherwise the arguments
// form the tuple.
func (c *Context) Declare(name string, args ...any) error {
	if !c.manual {
		return c.usage("Declare is only available in manual mode")
	}
	if !c.entered {
		return c.usage("Declare called outside Enter/Exit")
	}
	var raw any = Tuple(args)
	if len(args) == 1 {
		if t, ok := args[0].(Tuple); ok {
			raw = t
		}
	}
	c.queue = append(c.queue, queued{name: name, raw: raw})
	return nil
}

// Exit registers every declaration captured since Enter and then runs the
// after-exit hooks. The first failure is returned immediately; entities
// registered before it stay registered.
func (c *Context) Exit() error {
	if !c.entered {
		return c.usage("Exit called without Enter")
	}
	c.entered = false

	pending := c.queue
	if !c.manual {
		pending = c.captured()
	}
	c.queue, c.snapshot = nil, nil

	for _, q := range pending {
		if c.scope != nil {
			c.scope.Delete(q.name)
		}
		if err := c.add(q.name, q.raw); err != nil {
			return err
		}
	}
	c.scope = nil

	for _, fn := range c.afterExit {
		if err := fn(c.reg); err != nil {
			return err
		}
	}
	return nil
}

// captured diffs the scope against the snapshot, in scope order.
func (c *Context) captured() []queued {
	var out []queued
	for _, name := range c.scope.Names() {
		if _, existed := c.snapshot[name]; existed {
			continue
		}
		raw, _ := c.scope.Get(name)
		out = append(out, queued{name: name, raw: raw})
	}
	return out
}

func (c *Context) add(name string, raw any) error {
	args, err := c.desc.Validate(name, raw)
	if err != nil {
		return err
	}
	if c.reg.Has(name) {
		return modelerr.NewDuplicateNameError(string(c.desc.Kind()), name)
	}
	e, err := c.desc.Construct(name, args)
	if err != nil {
		return err
	}
	if err := c.reg.Add(e); err != nil {
		return err
	}

	c.logger.Debug("Declared entity.", "name", name, "type", string(e.Kind()))
	if c.out != nil {
		fmt.Fprintf(c.out, "[%s] Added: %s with args: %s\n", c.desc.Kind(), name, formatArgs(raw))
	}
	return nil
}

func (c *Context) usage(msg string) error {
	return &modelerr.UsageError{Context: string(c.desc.Kind()) + " context", Message: msg}
}

// Do enters scope, runs body, and exits. If body binds nothing new, Do
// registers nothing.
func (c *Context) Do(scope *Scope, body func()) error {
	if err := c.Enter(scope); err != nil {
		return err
	}
	body()
	return c.Exit()
}

// Capture declares the given bindings in a fresh top-level scope, in order.
func (c *Context) Capture(bindings ...Binding) error {
	scope := NewScope()
	return c.Do(scope, func() { scope.SetAll(bindings...) })
}

// Quantities returns a context for Quantity declarations. After it exits the
// registry's unit check runs.
func Quantities(ctx context.Context, reg *registry.Registry, opts ...Option) *Context {
	opts = append(slices.Clone(opts), WithAfterExit(func(r *registry.Registry) error {
		return r.CheckUnits()
	}))
	return New(ctx, reg, QuantityKind{}, opts...)
}

// Containers returns a context for Container declarations.
func Containers(ctx context.Context, reg *registry.Registry, opts ...Option) *Context {
	return New(ctx, reg, ContainerKind{Registry: reg}, opts...)
}

// BuildingBlocks returns a context for BuildingBlock declarations.
func BuildingBlocks(ctx context.Context, reg *registry.Registry, opts ...Option) *Context {
	return New(ctx, reg, BuildingBlockKind{}, opts...)
}

// Formulas returns a context for Formula declarations.
func Formulas(ctx context.Context, reg *registry.Registry, opts ...Option) *Context {
	return New(ctx, reg, FormulaKind{}, opts...)
}

// Rules returns a context for TransformationRule declarations.
func Rules(ctx context.Context, reg *registry.Registry, opts ...Option) *Context {
	return New(ctx, reg, RuleKind{Registry: reg}, opts...)
}
