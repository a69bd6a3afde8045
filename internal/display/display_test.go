package display

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"scrollstory/internal/chart"
	"scrollstory/internal/config"
	"scrollstory/internal/dataset"
	"scrollstory/internal/logging"
	"scrollstory/internal/region"
	"scrollstory/internal/scene"
)

// probe is a chart that counts lifecycle calls.
type probe struct {
	chart.Lifecycle
	env         chart.Env
	activates   int
	deactivates int
	initErr     error
}

func (p *probe) Init() error {
	if p.initErr != nil {
		return p.initErr
	}
	g := p.Mount(p.env.Surface.Root, 0, 0)
	g.Append(scene.KindRect).Classed("probe", true)
	return nil
}

func (p *probe) Activate() {
	p.activates++
	p.Lifecycle.Activate()
}

func (p *probe) Deactivate() {
	p.deactivates++
	p.Lifecycle.Deactivate()
}

type harness struct {
	display  *Display
	regions  *region.Registry
	probes   []*probe
	fetched  []string
	initErrs map[int]error
	focus    []int
}

func newHarness(t *testing.T, regionIDs ...string) *harness {
	t.Helper()
	h := &harness{initErrs: make(map[int]error)}
	boxes := make(map[string]region.Box)
	for _, id := range regionIDs {
		boxes[id] = region.Box{Width: 300, Height: 200}
	}
	h.regions = region.NewRegistry(region.NewStaticLayout(boxes, 800), scene.Margin{Top: 10, Right: 10, Bottom: 10, Left: 10})

	fetch := dataset.FetcherFunc(func(ctx context.Context, location string) ([]byte, error) {
		h.fetched = append(h.fetched, location)
		if location == "broken.csv" {
			return nil, errors.New("404 not found")
		}
		return []byte("a,b\n1,2\n"), nil
	})
	loader := dataset.NewLoader(fetch, dataset.WithConcurrency(1))

	charts := chart.NewRegistry()
	factory := func(env chart.Env) (chart.Adapter, error) {
		p := &probe{env: env, initErr: h.initErrs[len(h.probes)]}
		h.probes = append(h.probes, p)
		return p, nil
	}
	charts.Register(chart.KindHeatmap, factory)
	charts.Register(chart.KindStackedBars, factory)

	h.display = New(h.regions, loader, charts, WithStepFocus(func(s int) { h.focus = append(h.focus, s) }))
	return h
}

func cfg(regionID string, step int, location string) config.ChartConfig {
	return config.ChartConfig{
		Region: regionID,
		Step:   step,
		Kind:   "heatmap",
		Source: dataset.Source{Format: dataset.FormatTabular, Location: location},
	}
}

func TestScenario_TwoRegionsTwoSteps(t *testing.T) {
	h := newHarness(t, "A", "B")
	require.NoError(t, h.display.Build(context.Background(), []config.ChartConfig{
		cfg("A", 0, "a.csv"),
		cfg("B", 1, "b.csv"),
	}))
	a, b := h.probes[0], h.probes[1]

	// Build applies the initial step.
	assert.Equal(t, chart.Activated, a.State())
	assert.Equal(t, chart.Deactivated, b.State())

	h.display.OnStepChange(0)
	assert.False(t, h.regions.Hidden("A"))
	assert.True(t, h.regions.Hidden("B"))
	assert.Equal(t, chart.Activated, a.State())
	assert.Equal(t, chart.Deactivated, b.State())

	h.display.OnStepChange(1)
	assert.True(t, h.regions.Hidden("A"))
	assert.False(t, h.regions.Hidden("B"))
	assert.Equal(t, chart.Deactivated, a.State())
	assert.Equal(t, chart.Activated, b.State())

	h.display.OnStepChange(2)
	assert.True(t, h.regions.Hidden("A"))
	assert.True(t, h.regions.Hidden("B"))
	assert.Equal(t, chart.Deactivated, a.State())
	assert.Equal(t, chart.Deactivated, b.State())

	assert.Equal(t, []int{0, 0, 1, 2}, h.focus)
}

func TestOnStepChange_IsTotal(t *testing.T) {
	h := newHarness(t, "A", "B", "C")
	require.NoError(t, h.display.Build(context.Background(), []config.ChartConfig{
		cfg("A", 0, "1.csv"),
		cfg("A", 1, "2.csv"),
		cfg("B", 1, "3.csv"),
		cfg("C", 3, "4.csv"),
	}))

	signals := []int{1, 1, 3, 0, 7, 2, 1}
	for _, s := range signals {
		h.display.OnStepChange(s)
		for _, p := range h.display.Plots() {
			want := chart.Deactivated
			if p.Step() == s {
				want = chart.Activated
			}
			assert.Equal(t, want, p.Chart().State(), "step %d plot %d", s, p.Index())
		}
	}
	h.display.OnResize()

	// Build plus every signal plus the resize: one call each, never both.
	calls := 1 + len(signals) + 1
	for i, p := range h.probes {
		assert.Equal(t, calls, p.activates+p.deactivates, "probe %d", i)
	}
}

func TestRegionBoundary_SingleBindingSwitches(t *testing.T) {
	h := newHarness(t, "A")
	require.NoError(t, h.display.Build(context.Background(), []config.ChartConfig{cfg("A", 4, "x.csv")}))

	h.display.OnStepChange(3)
	assert.True(t, h.regions.Hidden("A"))
	h.display.OnStepChange(4)
	assert.False(t, h.regions.Hidden("A"))
	states := h.display.Regions()
	require.Len(t, states, 1)
	assert.Len(t, states[0].Plots, 1)
	h.display.OnStepChange(5)
	assert.True(t, h.regions.Hidden("A"))
}

func TestBuild_LoadFailureLeavesNothing(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetBase(zap.New(core), nil)
	t.Cleanup(func() { logging.SetBase(nil, nil) })

	h := newHarness(t, "A", "B")
	err := h.display.Build(context.Background(), []config.ChartConfig{
		cfg("A", 0, "ok1.csv"),
		cfg("B", 1, "broken.csv"),
		cfg("A", 2, "ok2.csv"),
	})

	var lf *dataset.LoadFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, 1, lf.Index)
	assert.Equal(t, "broken.csv", lf.Source.Location)
	assert.Empty(t, h.display.Plots())
	assert.Empty(t, h.probes, "no adapter is constructed")
	assert.False(t, h.display.Built())
	assert.Equal(t, err, h.display.Err())

	root, ok := h.regions.Root("A")
	require.True(t, ok)
	assert.Empty(t, root.Children())

	// The engine stays inert.
	h.display.OnStepChange(0)
	h.display.OnResize()
	assert.Empty(t, h.focus)

	errorsLogged := logs.FilterLevelExact(zapcore.ErrorLevel).Len()
	assert.Equal(t, 1, errorsLogged, "failure is logged once")
}

func TestBuild_RegionNotFound(t *testing.T) {
	h := newHarness(t, "A")
	err := h.display.Build(context.Background(), []config.ChartConfig{
		cfg("A", 0, "a.csv"),
		cfg("missing", 1, "b.csv"),
	})
	var nf *region.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
	assert.Empty(t, h.fetched, "nothing is fetched")
	assert.Empty(t, h.display.Plots())
}

func TestBuild_UnknownKind(t *testing.T) {
	h := newHarness(t, "A")
	c := cfg("A", 0, "a.csv")
	c.Kind = "pie"
	err := h.display.Build(context.Background(), []config.ChartConfig{c})

	var ce *chart.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, ce.Chart)
	assert.Equal(t, "kind", ce.Field)
	assert.Empty(t, h.regions.IDs(), "nothing is materialized")

	// A kind in the closed set without a constructor is also rejected.
	c.Kind = "beeswarm"
	err = h.display.Build(context.Background(), []config.ChartConfig{c})
	require.ErrorAs(t, err, &ce)
}

func TestBuild_InitFailureUnmounts(t *testing.T) {
	h := newHarness(t, "A")
	h.initErrs[1] = errors.New("bad data")
	err := h.display.Build(context.Background(), []config.ChartConfig{
		cfg("A", 0, "a.csv"),
		cfg("A", 1, "b.csv"),
	})
	assert.ErrorContains(t, err, "chart 1 (heatmap): bad data")
	root, _ := h.regions.Root("A")
	assert.Empty(t, root.SelectAll("probe"), "the first chart's marks are removed too")
	assert.Empty(t, h.display.Plots())
}

func TestBuild_Twice(t *testing.T) {
	h := newHarness(t, "A")
	require.NoError(t, h.display.Build(context.Background(), []config.ChartConfig{cfg("A", 0, "a.csv")}))
	assert.ErrorIs(t, h.display.Build(context.Background(), nil), ErrAlreadyBuilt)
}

func TestPlotBindings(t *testing.T) {
	h := newHarness(t, "A", "B")
	require.NoError(t, h.display.Build(context.Background(), []config.ChartConfig{
		cfg("A", 0, "a.csv"),
		cfg("B", 1, "b.csv"),
	}))
	plots := h.display.Plots()
	require.Len(t, plots, 2)
	assert.NotEqual(t, plots[0].ID(), plots[1].ID())
	assert.Equal(t, chart.KindHeatmap, plots[1].Kind())
	assert.Equal(t, "B", plots[1].Region())

	got, ok := h.display.Adapter(plots[1].ID())
	require.True(t, ok)
	assert.Same(t, h.probes[1], got)

	// The env exposes the live step, not a copy.
	h.display.OnStepChange(6)
	assert.Equal(t, 6, h.probes[0].env.Step())
}

func TestVisibility_Pure(t *testing.T) {
	plots := []*PlotBinding{
		{region: "B", step: 1},
		{region: "A", step: 0},
		{region: "Z", step: 0},
	}
	states := Visibility(0, plots, []string{"A", "B"})
	require.Len(t, states, 3)
	assert.Equal(t, "A", states[0].ID)
	assert.False(t, states[0].Hidden)
	assert.True(t, states[1].Hidden)
	assert.Equal(t, "Z", states[2].ID)
	assert.False(t, states[2].Hidden)

	assert.Equal(t, states, Visibility(0, plots, []string{"A", "B"}))
	assert.Equal(t, 1.0, StepOpacity(2, 2))
	assert.Equal(t, 0.3, StepOpacity(1, 2))
}
