package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/qspgo/internal/ctxlog"
	"github.com/specialistvlad/qspgo/internal/declare"
	"github.com/specialistvlad/qspgo/internal/hclload"
	"github.com/specialistvlad/qspgo/internal/lint"
	"github.com/specialistvlad/qspgo/internal/registry"
)

// Report is the outcome of a successful run.
type Report struct {
	Registry *registry.Registry
	Findings []lint.Finding
}

// Run loads the model files, declares every entity and runs the model checks.
// Findings are printed but are not errors; a failed declaration is.
func (a *App) Run(ctx context.Context) (*Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	doc, err := hclload.Parse(ctx, a.config.ModelPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	if a.config.Units != nil {
		doc.Units = *a.config.Units
	}

	reg := doc.NewRegistry(ctx)
	ctx = ctxlog.With(ctx, "model_id", reg.ID())

	var declOpts []declare.Option
	if a.config.Verbose {
		declOpts = append(declOpts, declare.WithVerbose(a.outW))
	}
	if err := doc.Declare(ctx, reg, declOpts...); err != nil {
		return nil, fmt.Errorf("failed to declare model: %w", err)
	}

	lintOpts := []lint.Option{
		lint.WithWarnFunc(func(f lint.Finding) {
			fmt.Fprintf(a.outW, "warning: %s\n", f)
		}),
	}
	if a.config.ExtraChecks {
		lintOpts = append(lintOpts, lint.WithExtraChecks())
	}
	checker := lint.New(ctx, reg, lintOpts...)

	findings := checker.Findings()
	fmt.Fprintf(a.outW, "model %s: %d entities, %d initial conditions, %d findings\n",
		reg.Name(), reg.Len(), len(reg.Initials()), len(findings))

	a.logger.Debug("App.Run method finished.")
	return &Report{Registry: reg, Findings: findings}, nil
}
