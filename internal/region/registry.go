// Package region maps symbolic region names to rendering surfaces.
//
// Sizes are measured from the live layout on every Materialize so a resize
// never leaves a chart with stale dimensions; the mount node of each region
// is created once and reused.
package region

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"scrollstory/internal/logging"
	"scrollstory/internal/scene"
)

// ErrContainerMissing is returned by layout providers when the container for
// a region id does not exist.
var ErrContainerMissing = errors.New("container not found")

// NotFoundError reports a region id with no corresponding container.
type NotFoundError struct {
	ID  string
	Err error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrContainerMissing) {
		return fmt.Sprintf("region %q not found: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("region %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Box is a measured container in device-independent pixels.
type Box struct {
	Width  float64
	Height float64
}

// LayoutProvider measures containers.
type LayoutProvider interface {
	Measure(id string) (Box, error)
	ViewportHeight() float64
}

type entry struct {
	root   *scene.Node
	router *scene.PointerRouter
	margin scene.Margin
	hidden bool
}

// Registry owns one mount node per region.
type Registry struct {
	layout        LayoutProvider
	defaultMargin scene.Margin
	margins       map[string]scene.Margin
	entries       map[string]*entry
	log           *logging.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithMargin overrides the margin of one region.
func WithMargin(id string, m scene.Margin) Option {
	return func(r *Registry) { r.margins[id] = m }
}

// NewRegistry returns a registry measuring through layout and insetting each
// container by margin.
func NewRegistry(layout LayoutProvider, margin scene.Margin, opts ...Option) *Registry {
	r := &Registry{
		layout:        layout,
		defaultMargin: margin,
		margins:       make(map[string]scene.Margin),
		entries:       make(map[string]*entry),
		log:           logging.Get(logging.CategoryRegion),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Materialize measures the container for id and returns a surface mounted at
// the region's root. Dimensions are never negative.
func (r *Registry) Materialize(id string) (*scene.Surface, error) {
	box, err := r.layout.Measure(id)
	if err != nil {
		return nil, &NotFoundError{ID: id, Err: err}
	}

	e, ok := r.entries[id]
	if !ok {
		margin, custom := r.margins[id]
		if !custom {
			margin = r.defaultMargin
		}
		root := scene.NewGroup()
		root.ID = id
		e = &entry{root: root, router: scene.NewPointerRouter(root), margin: margin}
		r.entries[id] = e
		r.log.Debug("mounted region %s", id)
	}

	s := &scene.Surface{
		Region:         id,
		Width:          math.Max(0, box.Width-e.margin.Left-e.margin.Right),
		Height:         math.Max(0, box.Height-e.margin.Top-e.margin.Bottom),
		Margin:         e.margin,
		ViewportHeight: r.layout.ViewportHeight(),
		Root:           e.root,
	}
	return s, nil
}

// SetHidden toggles the region's hidden class. Unknown ids are ignored.
func (r *Registry) SetHidden(id string, hidden bool) {
	e, ok := r.entries[id]
	if !ok || e.hidden == hidden {
		return
	}
	e.hidden = hidden
	e.root.Classed(scene.ClassHidden, hidden)
	r.log.Debug("region %s hidden=%v", id, hidden)
}

// Hidden reports the region's visibility; unknown regions count as hidden.
func (r *Registry) Hidden(id string) bool {
	e, ok := r.entries[id]
	return !ok || e.hidden
}

// IDs returns the materialized region ids, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Root returns the mount node of a materialized region.
func (r *Registry) Root(id string) (*scene.Node, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.root, true
}

// Pointer forwards a pointer position in region coordinates.
func (r *Registry) Pointer(id string, x, y float64) {
	if e, ok := r.entries[id]; ok {
		e.router.Move(x, y)
	}
}

// PointerExit tells the region the pointer left it.
func (r *Registry) PointerExit(id string) {
	if e, ok := r.entries[id]; ok {
		e.router.Exit()
	}
}

// Unmount removes everything drawn into the region, keeping the mount node.
func (r *Registry) Unmount(id string) {
	e, ok := r.entries[id]
	if !ok {
		return
	}
	for _, c := range e.root.Children() {
		c.Remove()
	}
	e.router.Exit()
}
