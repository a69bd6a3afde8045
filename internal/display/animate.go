package display

import (
	"errors"

	"scrollstory/internal/chart"
)

// ActiveAnimators returns the animators of the plots shown at the current
// step.
func (d *Display) ActiveAnimators() []chart.Animator {
	var out []chart.Animator
	for _, p := range d.plots {
		if p.step != d.step {
			continue
		}
		if a, ok := p.chart.(chart.Animator); ok {
			out = append(out, a)
		}
	}
	return out
}

// Animate triggers every active animator.
func (d *Display) Animate() error {
	var errs []error
	for _, a := range d.ActiveAnimators() {
		if err := a.Animate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset resets every active animator.
func (d *Display) Reset() {
	for _, a := range d.ActiveAnimators() {
		a.Reset()
	}
}

// FastForward completes every running animation of every plot.
func (d *Display) FastForward() {
	for _, p := range d.plots {
		if i, ok := p.chart.(chart.Interruptible); ok && i.Running() {
			i.FastForward()
		}
	}
}

// Running reports whether any plot is mid-animation.
func (d *Display) Running() bool {
	for _, p := range d.plots {
		if i, ok := p.chart.(chart.Interruptible); ok && i.Running() {
			return true
		}
	}
	return false
}

// Highlighters returns the active charts with a selectable highlight.
func (d *Display) Highlighters() []chart.Highlighter {
	var out []chart.Highlighter
	for _, p := range d.plots {
		if p.step != d.step {
			continue
		}
		if h, ok := p.chart.(chart.Highlighter); ok {
			out = append(out, h)
		}
	}
	return out
}
