// Package ui provides the terminal building blocks of the play command:
// resize debouncing, styling, layout, the narrative column and the mark
// rasterizer.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultResizeDuration is the recommended debounce duration for resize events
const DefaultResizeDuration = 300 * time.Millisecond

// ResizeSettledMsg is delivered when a debounced resize may be applied.
type ResizeSettledMsg struct {
	seq int
}

// ResizeDebouncer coalesces bursts of window resizes. Every Resize returns a
// command that fires after the quiet period; only the newest one settles.
// It lives on the program's event loop and needs no locking.
type ResizeDebouncer struct {
	duration      time.Duration
	seq           int
	lastWidth     int
	lastHeight    int
	pendingWidth  int
	pendingHeight int
}

// NewResizeDebouncer creates a debouncer; zero duration settles on the next
// message.
func NewResizeDebouncer(duration time.Duration) *ResizeDebouncer {
	return &ResizeDebouncer{duration: duration}
}

// Resize records the newest size and schedules its settle message.
func (rd *ResizeDebouncer) Resize(width, height int) tea.Cmd {
	rd.pendingWidth = width
	rd.pendingHeight = height
	rd.seq++
	seq := rd.seq
	if rd.duration <= 0 {
		return func() tea.Msg { return ResizeSettledMsg{seq: seq} }
	}
	return tea.Tick(rd.duration, func(time.Time) tea.Msg {
		return ResizeSettledMsg{seq: seq}
	})
}

// Settle returns the size to apply, or ok=false when msg was superseded.
func (rd *ResizeDebouncer) Settle(msg ResizeSettledMsg) (width, height int, ok bool) {
	if msg.seq != rd.seq {
		return 0, 0, false
	}
	rd.lastWidth, rd.lastHeight = rd.pendingWidth, rd.pendingHeight
	return rd.lastWidth, rd.lastHeight, true
}

// GetLastSize returns the last settled size
func (rd *ResizeDebouncer) GetLastSize() (width, height int) {
	return rd.lastWidth, rd.lastHeight
}

// Cancel drops any pending resize.
func (rd *ResizeDebouncer) Cancel() {
	rd.seq++
}
