// Package scroller turns a scroll offset over stacked sections into a step
// index, the way a scrollytelling page decides which section is active.
package scroller

import "sort"

// Detector tracks section boundaries and the active section.
type Detector struct {
	// TriggerFraction places the trigger line at this fraction of the
	// viewport height, measured from the top.
	TriggerFraction float64

	// OnChange receives the new index whenever it changes.
	OnChange func(step int)
	// OnResize is called after Resize.
	OnResize func()

	tops     []float64
	heights  []float64
	viewport float64
	offset   float64
	active   int
}

// New returns a detector over sections of the given heights.
func New(heights []float64, viewport float64) *Detector {
	d := &Detector{TriggerFraction: 1.0 / 3, active: -1}
	d.layout(heights, viewport)
	return d
}

func (d *Detector) layout(heights []float64, viewport float64) {
	d.heights = append([]float64(nil), heights...)
	d.tops = make([]float64, len(heights))
	var y float64
	for i, h := range heights {
		d.tops[i] = y
		if h > 0 {
			y += h
		}
	}
	d.viewport = viewport
}

// Active returns the active section, -1 before the first Scroll.
func (d *Detector) Active() int { return d.active }

// Offset returns the last scroll offset.
func (d *Detector) Offset() float64 { return d.offset }

// Len returns the number of sections.
func (d *Detector) Len() int { return len(d.tops) }

// Top returns the offset at which section i starts.
func (d *Detector) Top(i int) float64 {
	if i < 0 || i >= len(d.tops) {
		return 0
	}
	return d.tops[i]
}

// Total is the height of all sections.
func (d *Detector) Total() float64 {
	if len(d.tops) == 0 {
		return 0
	}
	last := len(d.tops) - 1
	return d.tops[last] + d.heights[last]
}

// IndexAt returns the section under the trigger line at offset.
func (d *Detector) IndexAt(offset float64) int {
	if len(d.tops) == 0 {
		return 0
	}
	line := offset + d.viewport*d.TriggerFraction
	i := sort.Search(len(d.tops), func(i int) bool { return d.tops[i] > line }) - 1
	if i < 0 {
		i = 0
	}
	return i
}

// Scroll records a new offset and fires OnChange if the section changed.
func (d *Detector) Scroll(offset float64) {
	d.offset = offset
	if i := d.IndexAt(offset); i != d.active {
		d.active = i
		if d.OnChange != nil {
			d.OnChange(i)
		}
	}
}

// Resize replaces the section heights and viewport, fires OnResize, then
// re-evaluates the active section at the current offset.
func (d *Detector) Resize(heights []float64, viewport float64) {
	d.layout(heights, viewport)
	if d.OnResize != nil {
		d.OnResize()
	}
	d.Scroll(d.offset)
}
