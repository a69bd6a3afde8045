package region

import "sync"

// StaticLayout serves configured container sizes. Hosts that own the layout
// (the terminal UI, tests) update it with Set before signalling a resize.
type StaticLayout struct {
	mu       sync.RWMutex
	boxes    map[string]Box
	viewport float64
}

// NewStaticLayout returns a layout with the given boxes.
func NewStaticLayout(boxes map[string]Box, viewportHeight float64) *StaticLayout {
	l := &StaticLayout{boxes: make(map[string]Box, len(boxes)), viewport: viewportHeight}
	for id, b := range boxes {
		l.boxes[id] = b
	}
	return l
}

// Measure returns the configured box or ErrContainerMissing.
func (l *StaticLayout) Measure(id string) (Box, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.boxes[id]
	if !ok {
		return Box{}, ErrContainerMissing
	}
	return b, nil
}

// ViewportHeight returns the configured viewport height.
func (l *StaticLayout) ViewportHeight() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.viewport
}

// Set replaces one container size.
func (l *StaticLayout) Set(id string, b Box) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.boxes[id] = b
}

// Delete removes a container.
func (l *StaticLayout) Delete(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.boxes, id)
}

// SetViewportHeight updates the viewport.
func (l *StaticLayout) SetViewportHeight(h float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.viewport = h
}
