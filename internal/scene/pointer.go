package scene

// PointerKind enumerates the pointer events a mark can handle.
type PointerKind int

const (
	PointerEnter PointerKind = iota
	PointerMove
	PointerLeave
)

func (k PointerKind) String() string {
	switch k {
	case PointerEnter:
		return "enter"
	case PointerMove:
		return "move"
	case PointerLeave:
		return "leave"
	}
	return "unknown"
}

// PointerEvent carries absolute surface coordinates.
type PointerEvent struct {
	Kind   PointerKind
	X, Y   float64
	Target *Node
}

// PointerRouter turns raw pointer positions into enter/move/leave events on
// the topmost visible interactive mark under the pointer.
type PointerRouter struct {
	root    *Node
	hovered *Node
}

// NewPointerRouter routes events for the tree under root.
func NewPointerRouter(root *Node) *PointerRouter {
	return &PointerRouter{root: root}
}

// Hovered returns the mark currently under the pointer, if any.
func (r *PointerRouter) Hovered() *Node {
	return r.hovered
}

// Move reports the pointer at absolute (x, y).
func (r *PointerRouter) Move(x, y float64) {
	target := r.HitTest(x, y)
	if r.hovered != nil && r.hovered != target {
		r.hovered.fire(PointerEvent{Kind: PointerLeave, X: x, Y: y})
		r.hovered = nil
	}
	if target == nil {
		return
	}
	if r.hovered == target {
		target.fire(PointerEvent{Kind: PointerMove, X: x, Y: y})
		return
	}
	r.hovered = target
	target.fire(PointerEvent{Kind: PointerEnter, X: x, Y: y})
}

// Exit reports that the pointer left the surface.
func (r *PointerRouter) Exit() {
	if r.hovered != nil {
		r.hovered.fire(PointerEvent{Kind: PointerLeave})
		r.hovered = nil
	}
}

// HitTest returns the topmost visible interactive mark at (x, y).
func (r *PointerRouter) HitTest(x, y float64) *Node {
	var hit *Node
	r.root.walk(func(n *Node) {
		if n.interactive() && n.parent != nil && n.Visible() && n.contains(x, y) {
			hit = n
		}
	})
	return hit
}
