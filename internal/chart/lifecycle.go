package chart

import "scrollstory/internal/scene"

// Lifecycle implements the Adapter state machine over a chart group.
// Charts embed it and call Mount from Init.
type Lifecycle struct {
	state State
	group *scene.Node
}

// Mount appends the chart group to parent, translated by the chart's inner
// margin, and enters the Deactivated state.
func (l *Lifecycle) Mount(parent *scene.Node, tx, ty float64) *scene.Node {
	g := parent.Append(scene.KindGroup).Classed(scene.ClassDeactivated, true)
	g.TranslateX, g.TranslateY = tx, ty
	l.group = g
	l.state = Deactivated
	return g
}

// Group returns the chart group, nil before Mount.
func (l *Lifecycle) Group() *scene.Node { return l.group }

// State returns the lifecycle state.
func (l *Lifecycle) State() State { return l.state }

// Activate shows the group.
func (l *Lifecycle) Activate() {
	if l.state == Uninitialized {
		return
	}
	l.group.Classed(scene.ClassDeactivated, false)
	l.state = Activated
}

// Deactivate hides the group.
func (l *Lifecycle) Deactivate() {
	if l.state == Uninitialized {
		return
	}
	l.group.Classed(scene.ClassDeactivated, true)
	l.state = Deactivated
}

// RequireActive returns ErrNotActive unless activated.
func (l *Lifecycle) RequireActive() error {
	switch l.state {
	case Uninitialized:
		return ErrNotInitialized
	case Deactivated:
		return ErrNotActive
	}
	return nil
}

// Unmount detaches the group and returns to Uninitialized.
func (l *Lifecycle) Unmount() {
	if l.group != nil {
		l.group.Remove()
		l.group = nil
	}
	l.state = Uninitialized
}
