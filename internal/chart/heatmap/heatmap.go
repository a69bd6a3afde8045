// Package heatmap draws a labelled similarity matrix with a sequential
// green-blue color ramp.
package heatmap

import (
	"errors"
	"fmt"
	"math"
	"time"

	"scrollstory/internal/anim"
	"scrollstory/internal/chart"
	"scrollstory/internal/chart/scale"
	"scrollstory/internal/logging"
	"scrollstory/internal/scene"
)

var margin = scene.Margin{Top: 10, Right: 10, Bottom: 60, Left: 90}

// Chart is the heatmap adapter.
type Chart struct {
	chart.Lifecycle

	env  chart.Env
	log  *logging.Logger
	rows []string
	cols []string
	vals [][]float64

	color   *scale.Sequential
	tooltip *scene.Node
	fade    *anim.Task
}

// New is the chart.Factory for heatmaps.
func New(env chart.Env) (chart.Adapter, error) {
	if env.Scheduler == nil {
		env.Scheduler = anim.NewScheduler(nil)
	}
	return &Chart{env: env, log: logging.Get(logging.CategoryChart).With("kind", string(chart.KindHeatmap))}, nil
}

// Init reads the matrix: the first column labels rows, every other column
// is a value column.
func (c *Chart) Init() error {
	if c.State() != chart.Uninitialized {
		return errors.New("heatmap: already initialized")
	}
	t, err := c.env.Table(chart.KindHeatmap)
	if err != nil {
		return err
	}
	if len(t.Columns) < 2 {
		return fmt.Errorf("heatmap: want a label column and at least one value column, got %d columns", len(t.Columns))
	}
	c.cols = t.Columns[1:]
	var all []float64
	for r := 0; r < t.Len(); r++ {
		c.rows = append(c.rows, t.String(r, t.Columns[0]))
		row := make([]float64, len(c.cols))
		for j, col := range c.cols {
			if row[j], err = t.Float(r, col); err != nil {
				return fmt.Errorf("heatmap: %w", err)
			}
		}
		c.vals = append(c.vals, row)
		all = append(all, row...)
	}
	lo, hi := scale.Extent(all)
	c.color = scale.NewSequential(lo, hi, scale.GnBu)

	s := c.env.Surface
	width := math.Max(0, s.OuterWidth()-margin.Left-margin.Right)
	height := math.Max(0, s.LocalHeight()-margin.Top-margin.Bottom)
	g := c.Mount(s.Root, margin.Left, margin.Top)

	x := scale.NewBand(c.cols, 0, width, 0)
	y := scale.NewBand(c.rows, 0, height, 0)
	cells := g.Append(scene.KindGroup).Classed("cells", true)
	for i, label := range c.rows {
		cy, _ := y.Map(label)
		for j, col := range c.cols {
			cx, _ := x.Map(col)
			cell := cells.Append(scene.KindRect).Classed("cell", true)
			cell.X, cell.Y = cx, cy
			cell.Width, cell.Height = x.Bandwidth(), y.Bandwidth()
			cell.Fill = c.color.Map(c.vals[i][j])
			cell.Datum = c.vals[i][j]
			cell.On(scene.PointerEnter, c.showTooltip(fmt.Sprintf("%s vs %s", col, label)))
			cell.On(scene.PointerLeave, c.hideTooltip)
		}
	}

	xAxis := g.Append(scene.KindGroup).Classed("x-axis", true).Classed("axis", true)
	xAxis.TranslateY = height
	for _, col := range c.cols {
		cx, _ := x.Map(col)
		tick := xAxis.Append(scene.KindText).Classed("tick", true)
		tick.X, tick.Y = cx+x.Bandwidth()/2, 16
		tick.Anchor = "end"
		tick.Text = col
	}
	yAxis := g.Append(scene.KindGroup).Classed("y-axis", true).Classed("axis", true)
	for _, label := range c.rows {
		cy, _ := y.Map(label)
		tick := yAxis.Append(scene.KindText).Classed("tick", true)
		tick.X, tick.Y = -6, cy+y.Bandwidth()/2
		tick.Anchor = "end"
		tick.Text = label
	}

	c.tooltip = g.Append(scene.KindText).Classed("tooltip", true)
	c.tooltip.Opacity = 0
	c.log.Debug("init: %dx%d matrix, range [%v, %v]", len(c.rows), len(c.cols), lo, hi)
	return nil
}

// Color returns the fill for a value.
func (c *Chart) Color(v float64) string { return c.color.Map(v) }

// Tooltip returns the tooltip mark.
func (c *Chart) Tooltip() *scene.Node { return c.tooltip }

func (c *Chart) showTooltip(text string) func(scene.PointerEvent) {
	return func(ev scene.PointerEvent) {
		ox, oy := c.Group().Origin()
		c.tooltip.Text = text
		c.tooltip.X, c.tooltip.Y = ev.X-ox+5, ev.Y-oy-28
		c.fadeTo(0.9, 200*time.Millisecond)
	}
}

func (c *Chart) hideTooltip(scene.PointerEvent) {
	c.fadeTo(0, 200*time.Millisecond)
}

func (c *Chart) fadeTo(target float64, d time.Duration) {
	if c.fade != nil {
		c.fade.Cancel()
	}
	from := c.tooltip.Opacity
	c.fade = c.env.Scheduler.Schedule(anim.Transition{
		Duration: d,
		Step:     func(t float64) { c.tooltip.Opacity = anim.Lerp(from, target, t) },
	})
}

// Deactivate hides the chart and its tooltip.
func (c *Chart) Deactivate() {
	c.Lifecycle.Deactivate()
	if c.tooltip == nil {
		return
	}
	if c.fade != nil {
		c.fade.Cancel()
	}
	c.tooltip.Opacity = 0
}
