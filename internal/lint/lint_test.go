package lint_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/qspgo/internal/ctxlog"
	"github.com/specialistvlad/qspgo/internal/declare"
	"github.com/specialistvlad/qspgo/internal/entity"
	"github.com/specialistvlad/qspgo/internal/expr"
	"github.com/specialistvlad/qspgo/internal/lint"
	"github.com/specialistvlad/qspgo/internal/modelerr"
	"github.com/specialistvlad/qspgo/internal/pattern"
	"github.com/specialistvlad/qspgo/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get[T entity.Entity](t *testing.T, reg *registry.Registry, name string) T {
	t.Helper()
	e, ok := reg.Get(name)
	require.True(t, ok, "%s not registered", name)
	v, ok := e.(T)
	require.True(t, ok, "%s has kind %s", name, e.Kind())
	return v
}

func subjects(findings []lint.Finding) []string {
	var out []string
	for _, f := range findings {
		out = append(out, f.Subject)
	}
	return out
}

// scenarioB declares A and B, a rule using both, and an initial condition
// for A only.
func scenarioB(t *testing.T) *registry.Registry {
	t.Helper()
	ctx := context.Background()
	reg := registry.New("scenario_b")

	require.NoError(t, declare.Quantities(ctx, reg).Capture(
		declare.Bind("kf", declare.Tuple{1.0, "1/(nM*min)"}),
		declare.Bind("A0", declare.Tuple{5.0, "nM"}),
	))
	require.NoError(t, declare.BuildingBlocks(ctx, reg).Capture(
		declare.Bind("A", declare.Tuple{[]string{"site_b"}, map[string][]string{"site_b": {"u", "p"}}}),
		declare.Bind("B", declare.Tuple{[]string{}, map[string][]string{}}),
	))
	require.NoError(t, declare.Rules(ctx, reg).Capture(
		declare.Bind("phos", declare.Tuple{pattern.MustParseRule("A(site_b~u) + B() -> A(site_b~p) + B()"), get[*entity.Quantity](t, reg, "kf")}),
	))
	_, err := declare.MakeInitial(reg, pattern.MustParseComplex("A(site_b~u)"), get[*entity.Quantity](t, reg, "A0"))
	require.NoError(t, err)
	return reg
}

func TestLint_ScenarioB_MissingInitial(t *testing.T) {
	reg := scenarioB(t)

	var warned []lint.Finding
	c := lint.New(context.Background(), reg, lint.WithWarnFunc(func(f lint.Finding) { warned = append(warned, f) }))

	missing := c.ByCheck(lint.CheckMissingInitials)
	require.Len(t, missing, 1)
	assert.Equal(t, "B", missing[0].Subject)
	assert.Contains(t, missing[0].Message, "B")

	assert.Empty(t, c.ByCheck(lint.CheckUnusedBuildingBlocks))
	assert.Empty(t, c.ByCheck(lint.CheckUnusedQuantities))
	assert.Empty(t, c.ByCheck(lint.CheckUnits))
	assert.Equal(t, c.Findings(), warned, "every finding reaches the warning sink")
}

func TestLint_ScenarioC_UnusedZeroQuantity(t *testing.T) {
	reg := registry.New("scenario_c")
	require.NoError(t, declare.Quantities(context.Background(), reg).Capture(
		declare.Bind("k0", declare.Tuple{0.0, "1/min"}),
	))

	c := lint.New(context.Background(), reg)
	assert.Equal(t, []string{"k0"}, subjects(c.ByCheck(lint.CheckUnusedQuantities)))
	assert.Equal(t, []string{"k0"}, subjects(c.ByCheck(lint.CheckZeroQuantities)))
	assert.False(t, c.OK())
}

func TestLint_FindingsAreLoggedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	reg := registry.New("logged")
	require.NoError(t, reg.Add(entity.NewQuantity("k0", 0, "1/min")))
	lint.New(ctx, reg)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "check=zero_quantities")
	assert.Contains(t, out, "subject=k0")
	assert.NotContains(t, out, "level=INFO")
}

func TestLint_UsageSources(t *testing.T) {
	reg := registry.New("usage", registry.WithUnitChecker(func(*registry.Registry) error { return nil }))
	kf := entity.NewQuantity("kf", 1, "1/min")
	kr := entity.NewQuantity("kr", 1e-9, "1/min")
	scale := entity.NewQuantity("scale", 2, "1")
	idle := entity.NewQuantity("idle", 3, "1")
	a0 := entity.NewQuantity("A0", 1, "nM")
	for _, e := range []entity.Entity{kf, kr, scale, idle, a0, entity.NewFormula("keff", expr.MustParse("kf * scale"))} {
		require.NoError(t, reg.Add(e))
	}
	a, err := entity.NewBuildingBlock("A", []string{"s"}, map[string][]string{"s": {"u", "p"}})
	require.NoError(t, err)
	c, err := entity.NewBuildingBlock("C", nil, nil)
	require.NoError(t, err)
	p, err := entity.NewBuildingBlock("P", nil, nil)
	require.NoError(t, err)
	for _, e := range []entity.Entity{a, c, p} {
		require.NoError(t, reg.Add(e))
	}
	require.NoError(t, reg.Add(entity.NewTransformationRule("flip", pattern.MustParseRule("A(s~u) <-> A(s~p)"), kf, kr)))
	require.NoError(t, reg.Add(entity.NewTransformationRule("make", pattern.MustParseRule("None -> P()"), kf, nil)))
	require.NoError(t, reg.AddInitial(&entity.Initial{Pattern: pattern.MustParseComplex("A(s~u)"), Value: a0}))

	checker := lint.New(context.Background(), reg)

	assert.Equal(t, []string{"idle"}, subjects(checker.ByCheck(lint.CheckUnusedQuantities)))
	assert.Equal(t, []string{"kr"}, subjects(checker.ByCheck(lint.CheckZeroQuantities)), "1e-9 is within tolerance")
	assert.Equal(t, []string{"C", "P"}, subjects(checker.ByCheck(lint.CheckUnusedBuildingBlocks)),
		"products of irreversible rules do not count as use")
	assert.Equal(t, []string{"C", "P"}, subjects(checker.ByCheck(lint.CheckMissingInitials)))
}

func TestLint_Bonds(t *testing.T) {
	reg := registry.New("bonds", registry.WithUnitChecker(func(*registry.Registry) error { return nil }))
	k := entity.NewQuantity("k", 1, "1/min")
	require.NoError(t, reg.Add(k))
	require.NoError(t, reg.Add(entity.NewTransformationRule("dangling", pattern.MustParseRule("A(b!1) -> A(b)"), k, nil)))
	require.NoError(t, reg.Add(entity.NewTransformationRule("reused", pattern.MustParseRule("A(b) <-> A(b!1).B(a!1).C(x!1)"), k, k)))
	require.NoError(t, reg.Add(entity.NewTransformationRule("irreversible_products", pattern.MustParseRule("A(b) -> A(b!3)"), k, nil)))
	require.NoError(t, reg.Add(entity.NewTransformationRule("clean", pattern.MustParseRule("A(b) + B(a) <-> A(b!1).B(a!1)"), k, k)))

	findings := lint.New(context.Background(), reg).ByCheck(lint.CheckBonds)
	want := []lint.Finding{
		{Check: lint.CheckBonds, Subject: "dangling", Message: "Rule dangling: dangling bond 1 in A(b!1) (endpoints: A.b)"},
		{Check: lint.CheckBonds, Subject: "reused", Message: "Rule reused: reused bond 1 in A(b!1).B(a!1).C(x!1) (endpoints: A.b, B.a, C.x)"},
	}
	if diff := cmp.Diff(want, findings); diff != "" {
		t.Errorf("bond findings mismatch (-want +got):\n%s", diff)
	}
}

func TestLint_Units(t *testing.T) {
	reg := registry.New("units", registry.WithUnitChecker(func(*registry.Registry) error {
		return &modelerr.UnitError{Issues: []string{"first", "second"}}
	}))

	findings := lint.New(context.Background(), reg).ByCheck(lint.CheckUnits)
	require.Len(t, findings, 2)
	assert.Equal(t, "Unit inconsistency: first", findings[0].Message)
	assert.Equal(t, "Unit inconsistency: second", findings[1].Message)
}

func TestLint_ExtraChecks(t *testing.T) {
	reg := registry.New("extra", registry.WithUnitChecker(func(*registry.Registry) error { return nil }))
	k := entity.NewQuantity("k", 1, "1/min")
	require.NoError(t, reg.Add(k))
	require.NoError(t, reg.Add(entity.NewFormula("used", expr.MustParse("k * 2"))))
	require.NoError(t, reg.Add(entity.NewFormula("orphan", expr.MustParse("k + 1"))))
	a, err := entity.NewBuildingBlock("A", []string{"b", "s"}, nil)
	require.NoError(t, err)
	require.NoError(t, reg.Add(a))
	used, _ := reg.Get("used")
	require.NoError(t, reg.Add(entity.NewTransformationRule("dimer", pattern.MustParseRule("A(b) + A(b) -> A(b!1).A(b!1)"), used.(entity.Rate), nil)))
	require.NoError(t, reg.Add(entity.NewTransformationRule("dimer_again", pattern.MustParseRule("A(b) + A(b) -> A(b!1).A(b!1)"), k, nil)))

	assert.Empty(t, lint.New(context.Background(), reg).ByCheck(lint.CheckUnboundSites), "extra checks are off by default")

	c := lint.New(context.Background(), reg, lint.WithExtraChecks())
	assert.Equal(t, []string{"A.s"}, subjects(c.ByCheck(lint.CheckUnboundSites)))
	assert.Equal(t, []string{"dimer_again"}, subjects(c.ByCheck(lint.CheckOverdefinedRules)))
	assert.Equal(t, []string{"orphan"}, subjects(c.ByCheck(lint.CheckUnreferencedFormulas)))
}
