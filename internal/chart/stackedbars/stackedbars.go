// Package stackedbars draws one vertical bar per category with the value
// columns stacked on top of each other.
package stackedbars

import (
	"errors"
	"fmt"
	"math"

	"scrollstory/internal/chart"
	"scrollstory/internal/chart/scale"
	"scrollstory/internal/logging"
	"scrollstory/internal/scene"
)

var margin = scene.Margin{Top: 10, Right: 110, Bottom: 40, Left: 50}

// Segment is one stacked piece of a bar.
type Segment struct {
	Category string
	Key      string
	Y0, Y1   float64
}

// Chart is the stacked-bars adapter.
type Chart struct {
	chart.Lifecycle

	env      chart.Env
	log      *logging.Logger
	category string
	keys     []string
	stacks   map[string][]Segment
	order    []string
}

// New is the chart.Factory for stacked bars. Options: category_field
// (default: first column) and keys (default: every numeric column).
func New(env chart.Env) (chart.Adapter, error) {
	return &Chart{
		env:      env,
		log:      logging.Get(logging.CategoryChart).With("kind", string(chart.KindStackedBars)),
		category: env.Options.String("category_field", ""),
		keys:     env.Options.Strings("keys"),
	}, nil
}

// Init aggregates rows per category, stacks the keys and draws the bars.
func (c *Chart) Init() error {
	if c.State() != chart.Uninitialized {
		return errors.New("stacked bars: already initialized")
	}
	t, err := c.env.Table(chart.KindStackedBars)
	if err != nil {
		return err
	}
	if len(t.Columns) == 0 {
		return errors.New("stacked bars: empty table")
	}
	if c.category == "" {
		c.category = t.Columns[0]
	}
	if !t.Has(c.category) {
		return fmt.Errorf("stacked bars: missing column %q", c.category)
	}
	if c.keys == nil {
		for _, col := range t.NumericColumns() {
			if col != c.category {
				c.keys = append(c.keys, col)
			}
		}
	}
	if len(c.keys) == 0 {
		return errors.New("stacked bars: no value columns")
	}

	totals := make(map[string]map[string]float64)
	for r := 0; r < t.Len(); r++ {
		cat := t.String(r, c.category)
		if _, ok := totals[cat]; !ok {
			totals[cat] = make(map[string]float64)
			c.order = append(c.order, cat)
		}
		for _, k := range c.keys {
			v, err := t.Float(r, k)
			if err != nil {
				return fmt.Errorf("stacked bars: %w", err)
			}
			totals[cat][k] += v
		}
	}

	c.stacks = make(map[string][]Segment, len(c.order))
	var max float64
	for _, cat := range c.order {
		var y float64
		for _, k := range c.keys {
			v := totals[cat][k]
			c.stacks[cat] = append(c.stacks[cat], Segment{Category: cat, Key: k, Y0: y, Y1: y + v})
			y += v
		}
		max = math.Max(max, y)
	}

	s := c.env.Surface
	width := math.Max(0, s.OuterWidth()-margin.Left-margin.Right)
	height := math.Max(0, s.LocalHeight()-margin.Top-margin.Bottom)
	g := c.Mount(s.Root, margin.Left, margin.Top)

	x := scale.NewBand(c.order, 0, width, 0.1)
	y := scale.NewLinear(0, max, height, 0)
	color := scale.NewOrdinal(c.keys, scale.Category10)

	series := g.Append(scene.KindGroup).Classed("series", true)
	for _, cat := range c.order {
		bx, _ := x.Map(cat)
		for _, seg := range c.stacks[cat] {
			r := series.Append(scene.KindRect).Classed("segment", true)
			r.X, r.Width = bx, x.Bandwidth()
			r.Y = y.Map(seg.Y1)
			r.Height = y.Map(seg.Y0) - y.Map(seg.Y1)
			r.Fill = color.Map(seg.Key)
			r.Datum = seg
		}
	}

	xAxis := g.Append(scene.KindGroup).Classed("x-axis", true).Classed("axis", true)
	xAxis.TranslateY = height
	for _, cat := range c.order {
		bx, _ := x.Map(cat)
		tick := xAxis.Append(scene.KindText).Classed("tick", true)
		tick.X, tick.Y = bx+x.Bandwidth()/2, 16
		tick.Anchor = "middle"
		tick.Text = cat
	}
	yAxis := g.Append(scene.KindGroup).Classed("y-axis", true).Classed("axis", true)
	for _, v := range y.Ticks(5) {
		tick := yAxis.Append(scene.KindText).Classed("tick", true)
		tick.X, tick.Y = -6, y.Map(v)
		tick.Anchor = "end"
		tick.Text = fmt.Sprintf("%g", v)
	}

	legend := g.Append(scene.KindGroup).Classed("legend", true)
	for i, k := range c.keys {
		key := legend.Append(scene.KindRect).Classed("legend-key", true)
		key.X, key.Y = width+10, float64(i)*20
		key.Width, key.Height = 12, 12
		key.Fill = color.Map(k)
		label := legend.Append(scene.KindText).Classed("legend-label", true)
		label.X, label.Y = width+26, float64(i)*20+10
		label.Text = k
	}
	c.log.Debug("init: %d categories x %d keys, max stack %v", len(c.order), len(c.keys), max)
	return nil
}

// Stack returns the segments of one category, bottom first.
func (c *Chart) Stack(category string) []Segment {
	return append([]Segment(nil), c.stacks[category]...)
}

// Categories returns the bar categories in first-seen order.
func (c *Chart) Categories() []string {
	return append([]string(nil), c.order...)
}
