package racingbars

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrollstory/internal/anim"
	"scrollstory/internal/chart"
	"scrollstory/internal/dataset"
	"scrollstory/internal/scene"
)

const speeches = `name,year,word_count,party
Washington,1790,1100,Independent
Adams,1797,2300,Federalist
Polk,1845,21000,Democratic
Lincoln,1861,7000,Republican
Grant,1861,5000,Republican
Carter,1978,33000,Democratic
Reagan,1981,3500,Republican
`

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	chart *Chart
	clock *anim.ManualClock
	sched *anim.Scheduler
	root  *scene.Node
}

func newFixture(t *testing.T, csv string, opts chart.Options) *fixture {
	t.Helper()
	table, err := dataset.ParseTable([]byte(csv))
	require.NoError(t, err)
	clock := anim.NewManualClock(epoch)
	sched := anim.NewScheduler(clock)
	root := scene.NewGroup()
	env := chart.Env{
		Surface: &scene.Surface{
			Region: "vis-focus-secondary",
			Width:  540, Height: 470,
			Margin: scene.Margin{Top: 10, Right: 10, Bottom: 10, Left: 10},
			Root:   root,
		},
		Data:      &dataset.Dataset{Table: table},
		Options:   opts,
		Scheduler: sched,
	}
	a, err := New(env)
	require.NoError(t, err)
	c := a.(*Chart)
	require.NoError(t, c.Init())
	return &fixture{chart: c, clock: clock, sched: sched, root: root}
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.sched.Tick()
}

func widths(bars []*scene.Node) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Width
	}
	return out
}

func TestInit_SortsByYearStable(t *testing.T) {
	f := newFixture(t, speeches, nil)

	var names []string
	for _, fr := range f.chart.Frames() {
		names = append(names, fr.Name)
	}
	want := []string{"Washington", "Adams", "Polk", "Lincoln", "Grant", "Carter", "Reagan"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("frame order (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Reagan", "Carter", "Grant", "Lincoln", "Polk", "Adams", "Washington"}, f.chart.Options())
	assert.Equal(t, chart.Deactivated, f.chart.State())
	assert.Equal(t, axisIdleColor, f.chart.AxisColor())
	assert.Equal(t, PhaseIdle, f.chart.Phase())
	assert.Empty(t, f.chart.Bars())
	assert.Len(t, f.root.SelectAll("legend-key"), 3)
}

func TestInit_RejectsNegativeValues(t *testing.T) {
	table, err := dataset.ParseTable([]byte("name,year,word_count,party\nX,1900,-5,Other\n"))
	require.NoError(t, err)
	a, err := New(chart.Env{
		Surface: &scene.Surface{Width: 300, Height: 300, Root: scene.NewGroup()},
		Data:    &dataset.Dataset{Table: table},
	})
	require.NoError(t, err)
	assert.ErrorContains(t, a.Init(), "must be a finite value >= 0")
	assert.Equal(t, chart.Uninitialized, a.State())
}

func TestAnimate_RequiresActive(t *testing.T) {
	f := newFixture(t, speeches, nil)
	assert.ErrorIs(t, f.chart.Animate(), chart.ErrNotActive)
}

func TestTargets_ClampToThreshold(t *testing.T) {
	f := newFixture(t, speeches, nil)
	c := f.chart
	stages := c.Stages()
	require.Len(t, stages, 10)

	for k, st := range stages {
		targets := c.Targets(k)
		for i, fr := range c.Frames() {
			assert.Equal(t, c.Scale().Map(math.Min(fr.Value, st.Threshold)), targets[i], "stage %d frame %s", k, fr.Name)
		}
	}
	terminal := c.Targets(len(stages) - 1)
	for i, fr := range c.Frames() {
		assert.Equal(t, c.Scale().Map(fr.Value), terminal[i])
	}
	// Polk (21000) is held at the 18000 width until the last stage.
	assert.Equal(t, c.Scale().Map(18000), c.Targets(8)[2])
}

func TestAnimate_StagesThenRecolor(t *testing.T) {
	f := newFixture(t, speeches, nil)
	c := f.chart
	c.Activate()
	c.SetHighlight("Lincoln")
	require.NoError(t, c.Animate())

	bars := c.Bars()
	require.Len(t, bars, 7)
	assert.Equal(t, "pink", bars[3].Fill)
	assert.Equal(t, "grey", bars[0].Fill)
	assert.Equal(t, PhaseGrowing, c.Phase())
	assert.Equal(t, 0, c.Stage())

	for k := range c.Stages() {
		f.advance(time.Second)
		assert.Equal(t, c.Targets(k), widths(bars), "widths after stage %d", k)
	}
	assert.Equal(t, PhaseRecoloring, c.Phase())
	assert.Equal(t, "pink", bars[3].Fill, "recolor waits for its delay")

	f.advance(2400 * time.Millisecond)
	assert.Equal(t, PhaseDone, c.Phase())
	assert.Equal(t, "#FFD28F", bars[0].Fill)
	assert.Equal(t, "#83A2FF", bars[2].Fill)
	assert.Equal(t, "#FF8B8B", bars[3].Fill)
	assert.Equal(t, "black", c.AxisColor())

	lines := c.ReferenceLines()
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 25.0, l.StrokeWidth)
		assert.Equal(t, "5,5", l.Dash)
		assert.Equal(t, l.X, l.X2)
	}
	overall, means := c.Means()
	assert.InDelta(t, 72900.0/7, overall, 1e-9)
	assert.InDelta(t, 15500.0/3, means["Republican"], 1e-9)
	assert.InDelta(t, 27000.0, means["Democratic"], 1e-9)
	assert.True(t, lines[1].HasClass("reference-republican"))
	assert.Equal(t, "#FF8B8B", lines[1].Stroke)
	assert.False(t, c.Running())
	assert.Zero(t, f.sched.Pending())
}

type markState struct {
	Bars  []barState
	Lines []float64
	Axis  string
}

type barState struct {
	Y, Width float64
	Fill     string
}

func snapshot(c *Chart) markState {
	var s markState
	for _, b := range c.Bars() {
		s.Bars = append(s.Bars, barState{Y: b.Y, Width: b.Width, Fill: b.Fill})
	}
	for _, l := range c.ReferenceLines() {
		s.Lines = append(s.Lines, l.X)
	}
	s.Axis = c.AxisColor()
	return s
}

func TestResetThenAnimate_IsIdempotent(t *testing.T) {
	f := newFixture(t, speeches, nil)
	c := f.chart
	c.Activate()
	require.NoError(t, c.Animate())
	c.FastForward()
	want := snapshot(c)
	require.Len(t, want.Bars, 7)

	for i := 0; i < 3; i++ {
		c.Reset()
		assert.Empty(t, c.Bars())
		assert.Empty(t, c.ReferenceLines())
		assert.Equal(t, axisIdleColor, c.AxisColor())
		assert.Equal(t, PhaseIdle, c.Phase())

		require.NoError(t, c.Animate())
		c.FastForward()
		if diff := cmp.Diff(want, snapshot(c)); diff != "" {
			t.Fatalf("restart %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestAnimate_ReentryPolicies(t *testing.T) {
	t.Run("rebuild", func(t *testing.T) {
		f := newFixture(t, speeches, nil)
		f.chart.Activate()
		require.NoError(t, f.chart.Animate())
		f.advance(3 * time.Second)
		require.NoError(t, f.chart.Animate())
		assert.Len(t, f.chart.Bars(), 7, "no duplicated bars")
		assert.Len(t, f.chart.ReferenceLines(), 3)
		assert.Equal(t, 0, f.chart.Stage())
	})
	t.Run("reject", func(t *testing.T) {
		f := newFixture(t, speeches, chart.Options{"reentry": "reject"})
		f.chart.Activate()
		require.NoError(t, f.chart.Animate())
		assert.ErrorIs(t, f.chart.Animate(), ErrAnimationReentry)
		assert.Len(t, f.chart.Bars(), 7)

		f.chart.Reset()
		assert.NoError(t, f.chart.Animate())
	})
}

func TestDeactivate_Policies(t *testing.T) {
	tests := []struct {
		policy      string
		wantPhase   Phase
		wantRunning bool
	}{
		{"fast-forward", PhaseDone, false},
		{"abort", PhaseAborted, false},
		{"continue", PhaseGrowing, true},
	}
	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			f := newFixture(t, speeches, chart.Options{"on_deactivate": tt.policy})
			c := f.chart
			c.Activate()
			require.NoError(t, c.Animate())
			f.advance(2500 * time.Millisecond)
			mid := widths(c.Bars())

			c.Deactivate()
			assert.Equal(t, chart.Deactivated, c.State())
			assert.Equal(t, tt.wantPhase, c.Phase())
			assert.Equal(t, tt.wantRunning, c.Running())

			switch tt.wantPhase {
			case PhaseDone:
				assert.Equal(t, c.Targets(len(c.Stages())-1), widths(c.Bars()))
			case PhaseAborted:
				assert.Equal(t, mid, widths(c.Bars()))
				f.advance(time.Minute)
				assert.Equal(t, mid, widths(c.Bars()), "aborted race stays put")
			}
		})
	}
}

func TestTooltip_FollowsPointer(t *testing.T) {
	f := newFixture(t, speeches, nil)
	c := f.chart
	c.Activate()
	require.NoError(t, c.Animate())
	c.FastForward()

	bar := c.Bars()[0]
	router := scene.NewPointerRouter(f.root)
	px, py := margin.Left+5, margin.Top+bar.Y+1
	router.Move(px, py)
	require.Same(t, bar, router.Hovered())

	tip := c.Tooltip()
	var lines []string
	for _, n := range tip.Children() {
		lines = append(lines, n.Text)
	}
	assert.Equal(t, []string{
		"President: Washington",
		"Average Speech Length: 1100 words",
		"Party: Independent",
	}, lines)
	assert.Equal(t, 15.0, tip.TranslateX)
	assert.InDelta(t, bar.Y+1-10, tip.TranslateY, 1e-9)

	f.advance(200 * time.Millisecond)
	assert.Equal(t, 1.0, tip.Opacity)

	router.Move(px+1, py)
	assert.InDelta(t, bar.Y+1-28, tip.TranslateY, 1e-9)

	router.Move(-50, -50)
	f.advance(500 * time.Millisecond)
	assert.Equal(t, 0.0, tip.Opacity)
}

func TestBuildStages(t *testing.T) {
	stages, err := BuildStages([]float64{10, 20}, time.Second)
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.True(t, math.IsInf(stages[2].Threshold, 1))

	stages, err = BuildStages([]float64{10, math.Inf(1)}, time.Second)
	require.NoError(t, err)
	assert.Len(t, stages, 2)

	_, err = BuildStages([]float64{10, 10}, time.Second)
	assert.ErrorContains(t, err, "strictly increasing")
	_, err = BuildStages([]float64{10}, 0)
	assert.Error(t, err)
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings(chart.Options{
		"thresholds":           []interface{}{100, 200},
		"stage_duration":       "250ms",
		"domain_max":           "auto",
		"reference_categories": []interface{}{"A", "B"},
		"colors":               map[string]interface{}{"A": "#111111"},
	})
	require.NoError(t, err)
	assert.Len(t, s.Stages, 3)
	assert.Equal(t, 250*time.Millisecond, s.Stages[0].Duration)
	assert.Zero(t, s.DomainMax)
	assert.Equal(t, "#111111", s.ColorFor("A"))
	assert.Equal(t, s.OtherColor, s.ColorFor("Z"))

	_, err = ParseSettings(chart.Options{"reentry": "sometimes"})
	assert.Error(t, err)
	_, err = ParseSettings(chart.Options{"reference_categories": []interface{}{"A"}})
	assert.Error(t, err)
}
