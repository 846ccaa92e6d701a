// Package hclload reads model declarations from .hcl files.
//
// A model may be split across many files and directories. Every block kind
// becomes one declaration scope per block, and kinds are declared in
// dependency order across all files: parameters, compartments, monomers,
// expressions, rules, then initial conditions and observables.
//
//	model "egfr" {
//	  units {
//	    concentration = "nM"
//	    time          = "min"
//	    volume        = "L"
//	  }
//	}
//
//	parameters {
//	  kf = [1.0, "1/(nM*min)"]
//	  V  = [1.0, "L"]
//	}
//
//	compartments { cyto = [V] }
//	monomers     { A = [["b"], {}, protein.kinase] }
//	rules        { deg = [pattern("A(b) -> None"), kf] }
//
//	initial {
//	  pattern = "A(b)"
//	  value   = A0
//	}
package hclload

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/qspgo/internal/ctxlog"
	"github.com/specialistvlad/qspgo/internal/declare"
	"github.com/specialistvlad/qspgo/internal/entity"
	"github.com/specialistvlad/qspgo/internal/fsutil"
	"github.com/specialistvlad/qspgo/internal/pattern"
	"github.com/specialistvlad/qspgo/internal/registry"
)

// DefaultModelName is used when no file declares a model block.
const DefaultModelName = "model"

type scopeBlock struct {
	file string
	src  []byte
	body hcl.Body
}

type initialDecl struct {
	file  string
	src   []byte
	block *initialBlock
}

type observableDecl struct {
	file  string
	block *observableBlock
}

// Document is the parsed, not yet declared, content of a set of files.
type Document struct {
	Name  string
	Units registry.SimulationUnits
	Files []string

	parameters   []scopeBlock
	compartments []scopeBlock
	monomers     []scopeBlock
	expressions  []scopeBlock
	rules        []scopeBlock
	initials     []initialDecl
	observables  []observableDecl
}

// Parse finds and parses all .hcl files under the given paths.
func Parse(ctx context.Context, paths ...string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading model declarations.", "paths", paths)

	files, err := fsutil.FindAll(".hcl", paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to find model files: %w", err)
	}

	doc := &Document{Name: DefaultModelName, Units: registry.DefaultSimulationUnits, Files: files}
	if len(files) == 0 {
		logger.Warn("No .hcl model files found, returning empty document.", "paths", paths)
		return doc, nil
	}

	parser := hclparse.NewParser()
	modelFile := ""
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, m := range root.Models {
			if modelFile != "" {
				return nil, fmt.Errorf("model block in %s: model already declared in %s", file, modelFile)
			}
			modelFile = file
			doc.Name = m.Name
			if m.Units != nil {
				setIfPresent(&doc.Units.Concentration, m.Units.Concentration)
				setIfPresent(&doc.Units.Time, m.Units.Time)
				setIfPresent(&doc.Units.Volume, m.Units.Volume)
			}
		}

		scopes := func(dst *[]scopeBlock, blocks []*bindingsBlock) {
			for _, b := range blocks {
				*dst = append(*dst, scopeBlock{file: file, src: hclFile.Bytes, body: b.Body})
			}
		}
		scopes(&doc.parameters, root.Parameters)
		scopes(&doc.compartments, root.Compartments)
		scopes(&doc.monomers, root.Monomers)
		scopes(&doc.expressions, root.Expressions)
		scopes(&doc.rules, root.Rules)
		for _, b := range root.Initials {
			doc.initials = append(doc.initials, initialDecl{file: file, src: hclFile.Bytes, block: b})
		}
		for _, b := range root.Observables {
			doc.observables = append(doc.observables, observableDecl{file: file, block: b})
		}
	}

	logger.Debug("Model files parsed.", "files", len(files), "model", doc.Name)
	return doc, nil
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// NewRegistry creates an empty registry named and configured after the
// document.
func (d *Document) NewRegistry(ctx context.Context, opts ...registry.Option) *registry.Registry {
	base := []registry.Option{
		registry.WithSimulationUnits(d.Units),
		registry.WithLogger(ctxlog.FromContext(ctx)),
	}
	return registry.New(d.Name, append(base, opts...)...)
}

type kindScopes struct {
	blocks   []scopeBlock
	open     func(context.Context, *registry.Registry, ...declare.Option) *declare.Context
	symbolic bool
}

// Declare registers the document's declarations into reg. It stops at the
// first failure; declarations made before it stay registered.
func (d *Document) Declare(ctx context.Context, reg *registry.Registry, opts ...declare.Option) error {
	logger := ctxlog.FromContext(ctx)

	kinds := []kindScopes{
		{blocks: d.parameters, open: declare.Quantities, symbolic: true},
		{blocks: d.compartments, open: declare.Containers},
		{blocks: d.monomers, open: declare.BuildingBlocks},
		{blocks: d.expressions, open: declare.Formulas, symbolic: true},
		{blocks: d.rules, open: declare.Rules},
	}
	for _, k := range kinds {
		for _, sb := range k.blocks {
			bindings, diags := bindingsOf(reg, sb, k.symbolic)
			if diags.HasErrors() {
				return fmt.Errorf("invalid declaration in %s: %w", sb.file, diags)
			}
			dc := k.open(ctx, reg, opts...)
			if err := dc.Capture(bindings...); err != nil {
				return fmt.Errorf("%s declarations in %s: %w", dc.Kind(), sb.file, err)
			}
			logger.Debug("Declared scope.", "kind", string(dc.Kind()), "file", sb.file, "count", len(bindings))
		}
	}

	for _, in := range d.initials {
		if err := declareInitial(reg, in); err != nil {
			return fmt.Errorf("initial condition in %s: %w", in.file, err)
		}
	}
	for _, ob := range d.observables {
		name := ""
		if ob.block.Name != nil {
			name = *ob.block.Name
		}
		cp, err := pattern.ParseComplex(ob.block.Pattern)
		if err != nil {
			return fmt.Errorf("observable in %s: %w", ob.file, err)
		}
		if _, err := declare.MakeObservable(reg, cp, name); err != nil {
			return fmt.Errorf("observable in %s: %w", ob.file, err)
		}
	}

	logger.Info("Model declared.", "model", reg.Name(), "entities", reg.Len(), "initials", len(reg.Initials()))
	return nil
}

// bindingsOf converts a block's attributes, in source order.
func bindingsOf(reg *registry.Registry, sb scopeBlock, symbolic bool) ([]declare.Binding, hcl.Diagnostics) {
	attrs, diags := sb.body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].NameRange.Start.Byte < ordered[j].NameRange.Start.Byte
	})

	conv := &converter{reg: reg, src: sb.src}
	bindings := make([]declare.Binding, 0, len(ordered))
	for _, a := range ordered {
		v, diags := conv.binding(a.Expr, symbolic)
		if diags.HasErrors() {
			return nil, diags
		}
		bindings = append(bindings, declare.Bind(a.Name, v))
	}
	return bindings, nil
}

func declareInitial(reg *registry.Registry, in initialDecl) error {
	cp, err := pattern.ParseComplex(in.block.Pattern)
	if err != nil {
		return err
	}
	conv := &converter{reg: reg, src: in.src}
	v, diags := conv.value(in.block.Value)
	if diags.HasErrors() {
		return diags
	}
	rate, ok := v.(entity.Rate)
	if !ok {
		return fmt.Errorf("value of %s must reference a quantity or formula", cp)
	}
	_, err = declare.MakeInitial(reg, cp, rate)
	return err
}

// Load parses the files under paths, creates a registry for them and
// declares everything into it.
func Load(ctx context.Context, paths []string, opts ...declare.Option) (*registry.Registry, error) {
	doc, err := Parse(ctx, paths...)
	if err != nil {
		return nil, err
	}
	reg := doc.NewRegistry(ctx)
	if err := doc.Declare(ctx, reg, opts...); err != nil {
		return reg, err
	}
	return reg, nil
}
