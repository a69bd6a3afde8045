// Package chart defines the lifecycle contract every chart implements and
// the closed set of chart kinds a story may declare.
//
// A chart is constructed by its Factory from an Env, initialized once, and
// then toggled between Activated and Deactivated by the display. Charts that
// animate also implement Animator; charts whose animation can be stopped or
// skipped implement Interruptible.
package chart

import "errors"

// State is an adapter's lifecycle position.
type State int

const (
	Uninitialized State = iota
	Deactivated
	Activated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Deactivated:
		return "deactivated"
	case Activated:
		return "activated"
	}
	return "unknown"
}

// ErrNotActive is returned by operations that require an activated chart.
var ErrNotActive = errors.New("chart is not active")

// ErrNotInitialized is returned when Init has not completed.
var ErrNotInitialized = errors.New("chart is not initialized")

// Adapter is the uniform chart lifecycle.
type Adapter interface {
	// Init builds scales, axes and static marks, leaving the chart
	// deactivated. It is called exactly once.
	Init() error
	// Activate shows the chart group. Idempotent.
	Activate()
	// Deactivate hides the chart group without discarding state. Idempotent.
	Deactivate()
	State() State
}

// Animator is implemented by charts with a triggered animated sequence.
type Animator interface {
	Adapter
	// Animate starts the sequence; only valid while activated.
	Animate() error
	// Reset removes every mark Animate created.
	Reset()
}

// Interruptible is implemented by animators whose running sequence can be
// skipped to its end or stopped where it is.
type Interruptible interface {
	FastForward()
	Abort()
	Running() bool
}

// Highlighter is implemented by charts with an externally selected entity.
type Highlighter interface {
	Options() []string
	SetHighlight(name string)
	Highlight() string
}
