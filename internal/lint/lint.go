// Package lint runs consistency checks over a finished model registry.
//
// Findings are warnings: they are logged, passed to the warning sink, and
// kept for inspection, but never returned as errors.
package lint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/qspgo/internal/ctxlog"
	"github.com/specialistvlad/qspgo/internal/registry"
)

// Check names.
const (
	CheckUnusedBuildingBlocks = "unused_building_blocks"
	CheckUnusedQuantities     = "unused_quantities"
	CheckZeroQuantities       = "zero_quantities"
	CheckMissingInitials      = "missing_initial_conditions"
	CheckBonds                = "dangling_reused_bonds"
	CheckUnits                = "units"

	CheckUnboundSites         = "unbound_sites"
	CheckOverdefinedRules     = "overdefined_rules"
	CheckUnreferencedFormulas = "unreferenced_formulas"
)

// ZeroTolerance is the absolute tolerance used to decide a value is zero.
const ZeroTolerance = 1e-8

// Finding is a single issue reported by a check.
type Finding struct {
	Check   string
	Subject string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Check, f.Message)
}

// WarnFunc receives each finding as it is reported.
type WarnFunc func(Finding)

// Option configures a Checker.
type Option func(*Checker)

// WithWarnFunc sets the warning sink.
func WithWarnFunc(fn WarnFunc) Option {
	return func(c *Checker) { c.warn = fn }
}

// WithExtraChecks enables the checks that are off by default: unbound
// sites, overdefined rules and unreferenced formulas.
func WithExtraChecks() Option {
	return func(c *Checker) { c.extra = true }
}

type check struct {
	name string
	run  func(*Checker)
}

// Checker holds the findings of one run over a registry.
type Checker struct {
	reg      *registry.Registry
	logger   *slog.Logger
	warn     WarnFunc
	extra    bool
	findings []Finding
}

// New runs every enabled check against reg and returns the result.
func New(ctx context.Context, reg *registry.Registry, opts ...Option) *Checker {
	c := &Checker{
		reg:    reg,
		logger: ctxlog.FromContext(ctx).With("model", reg.Name()),
	}
	for _, opt := range opts {
		opt(c)
	}

	checks := []check{
		{CheckUnusedBuildingBlocks, (*Checker).checkUnusedBuildingBlocks},
		{CheckUnusedQuantities, (*Checker).checkUnusedQuantities},
		{CheckZeroQuantities, (*Checker).checkZeroQuantities},
		{CheckMissingInitials, (*Checker).checkMissingInitials},
		{CheckBonds, (*Checker).checkBonds},
		{CheckUnits, (*Checker).checkUnits},
	}
	if c.extra {
		checks = append(checks,
			check{CheckUnboundSites, (*Checker).checkUnboundSites},
			check{CheckOverdefinedRules, (*Checker).checkOverdefinedRules},
			check{CheckUnreferencedFormulas, (*Checker).checkUnreferencedFormulas},
		)
	}

	c.logger.Info("Running model checks.", "checks", len(checks))
	for _, ch := range checks {
		ch.run(c)
	}
	c.logger.Info("Model checks finished.", "findings", len(c.findings))
	return c
}

// Findings returns every finding in check order.
func (c *Checker) Findings() []Finding {
	out := make([]Finding, len(c.findings))
	copy(out, c.findings)
	return out
}

// ByCheck returns the findings reported by one check.
func (c *Checker) ByCheck(name string) []Finding {
	var out []Finding
	for _, f := range c.findings {
		if f.Check == name {
			out = append(out, f)
		}
	}
	return out
}

// OK reports whether no check found anything.
func (c *Checker) OK() bool { return len(c.findings) == 0 }

func (c *Checker) report(check, subject, format string, args ...any) {
	f := Finding{Check: check, Subject: subject, Message: fmt.Sprintf(format, args...)}
	c.findings = append(c.findings, f)
	c.logger.Warn(f.Message, "check", check, "subject", subject)
	if c.warn != nil {
		c.warn(f)
	}
}
