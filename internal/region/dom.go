package region

import "fmt"

// ElementMeasurer reads element sizes from a live document.
type ElementMeasurer interface {
	// MeasureElement returns the offset size of the element with the given
	// id; found is false when no such element exists.
	MeasureElement(id string) (width, height float64, found bool, err error)
	// InnerHeight is the window's inner height.
	InnerHeight() (float64, error)
}

// DOMLayout measures regions from a rendered page.
type DOMLayout struct {
	m ElementMeasurer
}

// NewDOMLayout wraps a measurer.
func NewDOMLayout(m ElementMeasurer) *DOMLayout {
	return &DOMLayout{m: m}
}

// Measure queries the live container; nothing is cached.
func (l *DOMLayout) Measure(id string) (Box, error) {
	w, h, found, err := l.m.MeasureElement(id)
	if err != nil {
		return Box{}, fmt.Errorf("measure #%s: %w", id, err)
	}
	if !found {
		return Box{}, ErrContainerMissing
	}
	return Box{Width: w, Height: h}, nil
}

// ViewportHeight returns the window inner height, or 0 if it cannot be read.
func (l *DOMLayout) ViewportHeight() float64 {
	h, err := l.m.InnerHeight()
	if err != nil {
		return 0
	}
	return h
}
