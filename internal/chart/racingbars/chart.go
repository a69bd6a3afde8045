// Package racingbars draws one horizontal bar per racer and grows every bar
// through a fixed number of clamped stages before recoloring by category.
//
// The race is an explicit state machine (Idle, Growing, Recoloring, Done)
// advanced by the shared anim.Scheduler, so it can be fast-forwarded or
// aborted when the chart is hidden.
package racingbars

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"scrollstory/internal/anim"
	"scrollstory/internal/chart"
	"scrollstory/internal/chart/scale"
	"scrollstory/internal/logging"
	"scrollstory/internal/scene"
)

// ErrAnimationReentry is returned by Animate under ReentryReject when a
// previous run has not been reset.
var ErrAnimationReentry = errors.New("race already animated; reset first")

// Chart margins inside the region surface.
var margin = scene.Margin{Top: 10, Right: 20, Bottom: 60, Left: 120}

const (
	axisIdleColor = "#EFEFEF"
	axisDoneColor = "black"
	barIdleFill   = "grey"
	barPickedFill = "pink"
	overallStroke = "black"
	lineDash      = "5,5"
	legendSize    = 20.0
)

// Chart is the racing-bars adapter.
type Chart struct {
	chart.Lifecycle

	env      chart.Env
	settings Settings
	log      *logging.Logger

	frames []Frame // sorted by year
	x      scale.Linear
	y      *scale.Band
	width  float64
	height float64

	xAxis   *scene.Node
	lines   *scene.Node
	bars    *scene.Node
	tooltip *tooltip

	highlight string
	race      race
}

// New is the chart.Factory for racing bars.
func New(env chart.Env) (chart.Adapter, error) {
	s, err := ParseSettings(env.Options)
	if err != nil {
		return nil, err
	}
	if env.Scheduler == nil {
		env.Scheduler = anim.NewScheduler(nil)
	}
	return &Chart{
		env:       env,
		settings:  s,
		log:       logging.Get(logging.CategoryRace),
		highlight: s.Highlight,
	}, nil
}

// Init reads and sorts the racers, builds scales, axes and the legend.
func (c *Chart) Init() error {
	if c.State() != chart.Uninitialized {
		return errors.New("racing bars: already initialized")
	}
	t, err := c.env.Table(chart.KindRacingBars)
	if err != nil {
		return err
	}
	frames, err := ReadFrames(t, c.settings)
	if err != nil {
		return fmt.Errorf("racing bars: %w", err)
	}
	c.frames = SortByYear(frames)
	if c.settings.ReferenceCategories == nil {
		c.settings.ReferenceCategories = TopCategories(c.frames, 2)
	}

	s := c.env.Surface
	c.width = math.Max(0, s.OuterWidth()-margin.Left-margin.Right)
	c.height = math.Max(0, s.LocalHeight()-margin.Top-margin.Bottom)

	domainMax := c.settings.DomainMax
	if domainMax == 0 {
		for _, f := range c.frames {
			domainMax = math.Max(domainMax, f.Value)
		}
	}
	c.x = scale.NewLinear(0, domainMax, 0, c.width)
	names := make([]string, len(c.frames))
	for i, f := range c.frames {
		names[i] = f.Name
	}
	c.y = scale.NewBand(names, c.height, 0, 0.1)

	g := c.Mount(s.Root, margin.Left, margin.Top)
	c.drawYAxis(g.Append(scene.KindGroup).Classed("y-axis", true).Classed("axis", true))
	c.xAxis = g.Append(scene.KindGroup).Classed("x-axis", true).Classed("axis", true)
	c.xAxis.TranslateY = c.height
	c.drawXAxis()
	c.setAxisColor(axisIdleColor)
	c.drawLegend(g.Append(scene.KindGroup).Classed("legend", true))
	c.lines = g.Append(scene.KindGroup).Classed("reference-lines", true)
	c.bars = g.Append(scene.KindGroup).Classed("race-bars", true)
	c.tooltip = newTooltip(g, c.env.Scheduler)

	c.race.reset()
	c.log.Debug("init: %d racers, %d stages, width=%.0f height=%.0f", len(c.frames), len(c.settings.Stages), c.width, c.height)
	return nil
}

func (c *Chart) drawYAxis(g *scene.Node) {
	for _, f := range c.frames {
		y, _ := c.y.Map(f.Name)
		label := g.Append(scene.KindText).Classed("tick", true)
		label.X, label.Y = -6, y+c.y.Bandwidth()/2
		label.Anchor = "end"
		label.Text = f.Name
	}
}

func (c *Chart) drawXAxis() {
	domain := c.xAxis.Append(scene.KindLine).Classed("domain", true)
	domain.X2 = c.width
	domain.StrokeWidth = 1
	for _, v := range c.x.Ticks(5) {
		tick := c.xAxis.Append(scene.KindText).Classed("tick", true)
		tick.X, tick.Y = c.x.Map(v), 18
		tick.Anchor = "middle"
		tick.Text = strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func (c *Chart) setAxisColor(color string) {
	c.xAxis.Stroke = color
	for _, n := range c.xAxis.Children() {
		switch n.Kind {
		case scene.KindLine:
			n.Stroke = color
		case scene.KindText:
			n.Fill = color
		}
	}
}

// AxisColor returns the current x-axis color.
func (c *Chart) AxisColor() string {
	if c.xAxis == nil {
		return ""
	}
	return c.xAxis.Stroke
}

func (c *Chart) drawLegend(g *scene.Node) {
	for i, key := range c.settings.Legend {
		color := c.settings.ColorFor(key)
		swatch := g.Append(scene.KindRect).Classed("legend-key", true)
		swatch.X, swatch.Y = c.width-100, 10+float64(i)*(legendSize+5)
		swatch.Width, swatch.Height = legendSize, legendSize
		swatch.Fill = color

		label := g.Append(scene.KindText).Classed("legend-label", true)
		label.X = c.width - 100 + legendSize*1.2
		label.Y = swatch.Y + legendSize/2
		label.Fill = color
		label.Text = key
	}
}

// Deactivate hides the chart and applies the deactivate policy to a running
// race.
func (c *Chart) Deactivate() {
	c.Lifecycle.Deactivate()
	if c.State() == chart.Uninitialized {
		return
	}
	c.tooltip.hide()
	if !c.Running() {
		return
	}
	switch c.settings.OnDeactivate {
	case DeactivateFastForward:
		c.log.Debug("deactivated mid-race: fast-forwarding")
		c.FastForward()
	case DeactivateAbort:
		c.log.Debug("deactivated mid-race: aborting")
		c.Abort()
	}
}

// Options lists racer names for the highlight selector, latest first.
func (c *Chart) Options() []string {
	out := make([]string, len(c.frames))
	for i, f := range c.frames {
		out[len(c.frames)-1-i] = f.Name
	}
	return out
}

// Highlight returns the selected racer.
func (c *Chart) Highlight() string { return c.highlight }

// SetHighlight selects a racer. Bars already drawn pick it up until they are
// recolored by category.
func (c *Chart) SetHighlight(name string) {
	c.highlight = name
	if c.race.phase != PhaseGrowing {
		return
	}
	for _, b := range c.bars.Children() {
		b.Fill = c.idleFill(b.Datum.(*Frame))
	}
}

func (c *Chart) idleFill(f *Frame) string {
	if f.Name == c.highlight && c.highlight != "" {
		return barPickedFill
	}
	return barIdleFill
}

// Frames returns the racers in drawing order.
func (c *Chart) Frames() []Frame {
	return append([]Frame(nil), c.frames...)
}

// Scale returns the x scale.
func (c *Chart) Scale() scale.Linear { return c.x }

// Bars returns the bar marks, in frame order.
func (c *Chart) Bars() []*scene.Node {
	if c.bars == nil {
		return nil
	}
	return c.bars.Children()
}

// ReferenceLines returns the mean lines drawn by the current run.
func (c *Chart) ReferenceLines() []*scene.Node {
	if c.lines == nil {
		return nil
	}
	return c.lines.Children()
}

// Tooltip exposes the tooltip group for hosts and tests.
func (c *Chart) Tooltip() *scene.Node {
	if c.tooltip == nil {
		return nil
	}
	return c.tooltip.group
}
