// Package scene is the in-memory mark tree charts draw into.
// Hosts turn it into SVG (snapshots) or terminal cells (the play UI).
package scene

import "math"

// Kind is the type of a mark.
type Kind string

const (
	KindGroup Kind = "group"
	KindRect  Kind = "rect"
	KindLine  Kind = "line"
	KindText  Kind = "text"
)

// Classes that hide a subtree.
const (
	ClassDeactivated = "deactivated"
	ClassHidden      = "hidden"
)

// Node is one mark. Groups carry a translation; rects use X/Y/Width/Height;
// lines use X/Y to X2/Y2; text is anchored at X/Y.
type Node struct {
	Kind Kind
	ID   string

	X, Y          float64
	Width, Height float64
	X2, Y2        float64

	TranslateX, TranslateY float64

	Fill        string
	Stroke      string
	StrokeWidth float64
	Dash        string
	Opacity     float64

	Text   string
	Anchor string

	// Datum is the record bound to the mark, if any.
	Datum any

	classes  map[string]bool
	parent   *Node
	children []*Node
	handlers map[PointerKind]func(PointerEvent)
}

// NewGroup returns a detached root group.
func NewGroup() *Node {
	return &Node{Kind: KindGroup, Opacity: 1}
}

// Append creates a child of the given kind at the end of n's children.
func (n *Node) Append(kind Kind) *Node {
	child := &Node{Kind: kind, Opacity: 1, parent: n}
	n.children = append(n.children, child)
	return child
}

// Classed adds or removes a class. It returns n for chaining.
func (n *Node) Classed(name string, on bool) *Node {
	if on {
		if n.classes == nil {
			n.classes = make(map[string]bool)
		}
		n.classes[name] = true
		return n
	}
	delete(n.classes, name)
	return n
}

// HasClass reports whether the class is set.
func (n *Node) HasClass(name string) bool {
	return n.classes[name]
}

// Classes returns the class names in no particular order.
func (n *Node) Classes() []string {
	out := make([]string, 0, len(n.classes))
	for c := range n.classes {
		out = append(out, c)
	}
	return out
}

// Parent returns the parent node, nil for roots and removed nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the direct children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// RemoveAll removes every descendant carrying class and returns how many
// were removed.
func (n *Node) RemoveAll(class string) int {
	nodes := n.SelectAll(class)
	for _, m := range nodes {
		m.Remove()
	}
	return len(nodes)
}

// SelectAll returns descendants carrying class in document order.
func (n *Node) SelectAll(class string) []*Node {
	var out []*Node
	n.walk(func(m *Node) {
		if m != n && m.HasClass(class) {
			out = append(out, m)
		}
	})
	return out
}

// Select returns the first descendant carrying class, or nil.
func (n *Node) Select(class string) *Node {
	if all := n.SelectAll(class); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Count returns the number of descendants of the given kind.
func (n *Node) Count(kind Kind) int {
	total := 0
	n.walk(func(m *Node) {
		if m != n && m.Kind == kind {
			total++
		}
	})
	return total
}

// Visible is false when n or any ancestor is deactivated or hidden.
func (n *Node) Visible() bool {
	for m := n; m != nil; m = m.parent {
		if m.HasClass(ClassDeactivated) || m.HasClass(ClassHidden) {
			return false
		}
	}
	return true
}

// Origin returns the absolute translation applied to n's own coordinates.
func (n *Node) Origin() (float64, float64) {
	var x, y float64
	for m := n.parent; m != nil; m = m.parent {
		x += m.TranslateX
		y += m.TranslateY
	}
	if n.Kind == KindGroup {
		x += n.TranslateX
		y += n.TranslateY
	}
	return x, y
}

// On registers a pointer handler, replacing any previous one for kind.
func (n *Node) On(kind PointerKind, fn func(PointerEvent)) *Node {
	if n.handlers == nil {
		n.handlers = make(map[PointerKind]func(PointerEvent))
	}
	n.handlers[kind] = fn
	return n
}

func (n *Node) interactive() bool {
	return len(n.handlers) > 0
}

func (n *Node) fire(ev PointerEvent) {
	if fn, ok := n.handlers[ev.Kind]; ok {
		ev.Target = n
		fn(ev)
	}
}

// contains reports whether absolute point (x, y) lies on the mark.
func (n *Node) contains(x, y float64) bool {
	ox, oy := n.Origin()
	switch n.Kind {
	case KindRect:
		return x >= ox+n.X && x <= ox+n.X+n.Width && y >= oy+n.Y && y <= oy+n.Y+n.Height
	case KindLine:
		return distToSegment(x-ox, y-oy, n.X, n.Y, n.X2, n.Y2) <= math.Max(3, n.StrokeWidth/2)
	}
	return false
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

func distToSegment(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	if dx == 0 && dy == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}
