// Package beeswarm places one dot per item of a tree document along an x
// axis, one row per group, nudging dots vertically so they never overlap.
package beeswarm

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"scrollstory/internal/chart"
	"scrollstory/internal/chart/scale"
	"scrollstory/internal/logging"
	"scrollstory/internal/scene"
)

var margin = scene.Margin{Top: 10, Right: 20, Bottom: 30, Left: 100}

// Item is one dot.
type Item struct {
	Label string
	Group string
	X     float64
}

// Chart is the beeswarm adapter.
type Chart struct {
	chart.Lifecycle

	env    chart.Env
	log    *logging.Logger
	paths  struct{ items, x, group, label string }
	radius float64
	items  []Item
	dots   []*scene.Node
	label  *scene.Node
}

// New is the chart.Factory for beeswarms. Options are gjson paths: items
// (the array, default the document root), x, group and label (relative to
// each item), plus radius.
func New(env chart.Env) (chart.Adapter, error) {
	r, err := env.Options.Float("radius", 4)
	if err != nil {
		return nil, err
	}
	if r <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %v", r)
	}
	c := &Chart{env: env, radius: r, log: logging.Get(logging.CategoryChart).With("kind", string(chart.KindBeeswarm))}
	c.paths.items = env.Options.String("items", "@this")
	c.paths.x = env.Options.String("x", "x")
	c.paths.group = env.Options.String("group", "group")
	c.paths.label = env.Options.String("label", "label")
	return c, nil
}

// Init extracts the items and lays out the swarm.
func (c *Chart) Init() error {
	if c.State() != chart.Uninitialized {
		return errors.New("beeswarm: already initialized")
	}
	tree, err := c.env.Tree(chart.KindBeeswarm)
	if err != nil {
		return err
	}
	arr := tree.Get(c.paths.items)
	if !arr.IsArray() {
		return fmt.Errorf("beeswarm: %q is not an array", c.paths.items)
	}
	for i, it := range arr.Array() {
		x := it.Get(c.paths.x)
		if !x.Exists() {
			return fmt.Errorf("beeswarm: item %d has no %q", i, c.paths.x)
		}
		c.items = append(c.items, Item{
			Label: it.Get(c.paths.label).String(),
			Group: it.Get(c.paths.group).String(),
			X:     x.Float(),
		})
	}

	var groups []string
	seen := make(map[string]bool)
	xs := make([]float64, len(c.items))
	for i, it := range c.items {
		xs[i] = it.X
		if !seen[it.Group] {
			seen[it.Group] = true
			groups = append(groups, it.Group)
		}
	}

	s := c.env.Surface
	width := math.Max(0, s.OuterWidth()-margin.Left-margin.Right)
	height := math.Max(0, s.LocalHeight()-margin.Top-margin.Bottom)
	g := c.Mount(s.Root, margin.Left, margin.Top)

	lo, hi := scale.Extent(xs)
	x := scale.NewLinear(lo, hi, 0, width)
	y := scale.NewBand(groups, 0, height, 0)
	color := scale.NewOrdinal(groups, scale.Category10)

	byGroup := make(map[string][]int)
	for i, it := range c.items {
		byGroup[it.Group] = append(byGroup[it.Group], i)
	}
	dotsLayer := g.Append(scene.KindGroup).Classed("dots", true)
	c.dots = make([]*scene.Node, len(c.items))
	for _, grp := range groups {
		idx := byGroup[grp]
		px := make([]float64, len(idx))
		for j, i := range idx {
			px[j] = x.Map(c.items[i].X)
		}
		offsets := Dodge(px, c.radius)
		row, _ := y.Map(grp)
		mid := row + y.Bandwidth()/2
		for j, i := range idx {
			d := dotsLayer.Append(scene.KindRect).Classed("dot", true)
			d.X, d.Y = px[j]-c.radius, mid+offsets[j]-c.radius
			d.Width, d.Height = 2*c.radius, 2*c.radius
			d.Fill = color.Map(grp)
			d.Datum = c.items[i]
			d.On(scene.PointerEnter, c.showLabel)
			d.On(scene.PointerLeave, c.hideLabel)
			c.dots[i] = d
		}

		label := g.Append(scene.KindText).Classed("group-label", true)
		label.X, label.Y = -6, mid
		label.Anchor = "end"
		label.Text = grp
	}
	c.label = g.Append(scene.KindText).Classed("tooltip", true).Classed(scene.ClassHidden, true)
	c.log.Debug("init: %d items in %d groups", len(c.items), len(groups))
	return nil
}

func (c *Chart) showLabel(ev scene.PointerEvent) {
	it := ev.Target.Datum.(Item)
	c.label.Text = it.Label
	c.label.X, c.label.Y = ev.Target.X+2*c.radius+4, ev.Target.Y
	c.label.Classed(scene.ClassHidden, false)
}

func (c *Chart) hideLabel(scene.PointerEvent) {
	c.label.Classed(scene.ClassHidden, true)
}

// Items returns the extracted items in document order.
func (c *Chart) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Dots returns the dot marks in document order.
func (c *Chart) Dots() []*scene.Node {
	return append([]*scene.Node(nil), c.dots...)
}

// Dodge returns a vertical offset per x position so that no two dots of
// radius r overlap. Dots are placed left to right; each takes the smallest
// offset (0, +2r, -2r, +4r, ...) that is free. The result is deterministic.
func Dodge(xs []float64, r float64) []float64 {
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return xs[order[a]] < xs[order[b]] })

	d := 2 * r
	offsets := make([]float64, len(xs))
	var placed []int
	for _, i := range order {
		for k := 0; ; k++ {
			off := float64((k+1)/2) * d
			if k%2 == 0 {
				off = -off
			}
			if k == 0 {
				off = 0
			}
			if free(xs, offsets, placed, xs[i], off, d) {
				offsets[i] = off
				break
			}
		}
		placed = append(placed, i)
	}
	return offsets
}

func free(xs, offsets []float64, placed []int, x, y, d float64) bool {
	for _, j := range placed {
		if math.Abs(xs[j]-x) < d && math.Abs(offsets[j]-y) < d {
			return false
		}
	}
	return true
}
