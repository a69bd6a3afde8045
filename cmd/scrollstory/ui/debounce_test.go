package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeDebouncer_OnlyNewestSettles(t *testing.T) {
	rd := NewResizeDebouncer(DefaultResizeDuration)

	first := rd.Resize(80, 24)
	second := rd.Resize(120, 40)
	require.NotNil(t, first)
	require.NotNil(t, second)

	_, _, ok := rd.Settle(ResizeSettledMsg{seq: 1})
	assert.False(t, ok, "superseded resize must not settle")

	w, h, ok := rd.Settle(ResizeSettledMsg{seq: 2})
	require.True(t, ok)
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)

	lw, lh := rd.GetLastSize()
	assert.Equal(t, 120, lw)
	assert.Equal(t, 40, lh)
}

func TestResizeDebouncer_ZeroDurationSettlesImmediately(t *testing.T) {
	rd := NewResizeDebouncer(0)

	msg := rd.Resize(100, 30)()
	settled, ok := msg.(ResizeSettledMsg)
	require.True(t, ok)

	w, h, ok := rd.Settle(settled)
	require.True(t, ok)
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)
}

func TestResizeDebouncer_Cancel(t *testing.T) {
	rd := NewResizeDebouncer(0)

	msg := rd.Resize(100, 30)().(ResizeSettledMsg)
	rd.Cancel()

	_, _, ok := rd.Settle(msg)
	assert.False(t, ok)
	w, h := rd.GetLastSize()
	assert.Zero(t, w)
	assert.Zero(t, h)
}
