package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear_MapInvert(t *testing.T) {
	s := NewLinear(0, 20000, 0, 400)
	assert.Equal(t, 0.0, s.Map(0))
	assert.Equal(t, 40.0, s.Map(2000))
	assert.Equal(t, 440.0, s.Map(22000), "extrapolates past the domain")
	assert.Equal(t, 2000.0, s.Invert(40))

	flat := NewLinear(5, 5, 0, 10)
	assert.Equal(t, 5.0, flat.Map(123))
}

func TestLinear_Ticks(t *testing.T) {
	s := NewLinear(0, 20000, 0, 400)
	assert.Equal(t, []float64{0, 5000, 10000, 15000, 20000}, s.Ticks(4))
	assert.Equal(t, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, NewLinear(0, 1, 0, 1).Ticks(5))
}

func TestBand_ReversedRange(t *testing.T) {
	// padding 0.1 over 3 bands in [0,310]: step 100, bandwidth 90, start 10.
	b := NewBand([]string{"a", "b", "c"}, 310, 0, 0.1)
	assert.InDelta(t, 100, b.Step(), 1e-9)
	assert.InDelta(t, 90, b.Bandwidth(), 1e-9)

	first, ok := b.Map("a")
	require.True(t, ok)
	last, _ := b.Map("c")
	assert.InDelta(t, 210, first, 1e-9, "first domain value sits at the bottom")
	assert.InDelta(t, 10, last, 1e-9)

	_, ok = b.Map("zzz")
	assert.False(t, ok)
}

func TestBand_Forward(t *testing.T) {
	b := NewBand([]string{"x", "y"}, 0, 210, 0.1)
	x, _ := b.Map("x")
	y, _ := b.Map("y")
	assert.Less(t, x, y)
	assert.InDelta(t, b.Step(), y-x, 1e-9)
}

func TestMeanAndExtent(t *testing.T) {
	m, ok := Mean([]float64{1, 2, 3, 6})
	require.True(t, ok)
	assert.Equal(t, 3.0, m)
	_, ok = Mean(nil)
	assert.False(t, ok)

	lo, hi := Extent([]float64{3, -1, 8})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 8.0, hi)
}

func TestInterpolateColor(t *testing.T) {
	assert.Equal(t, "grey", InterpolateColor("grey", "#ff8b8b", 0))
	assert.Equal(t, "#ff8b8b", InterpolateColor("grey", "#ff8b8b", 1))
	assert.Equal(t, "#808080", InterpolateColor("black", "white", 0.5019607843137255))
	assert.Equal(t, "nope", InterpolateColor("nope", "black", 0.2))
}

func TestSequential_Endpoints(t *testing.T) {
	s := NewSequential(0, 1, GnBu)
	assert.Equal(t, "#f7fcf0", s.Map(0))
	assert.Equal(t, "#084081", s.Map(1))
	assert.Equal(t, "#084081", s.Map(7), "clamped above")
	assert.Equal(t, "#7bccc4", s.Map(0.5))
}

func TestOrdinal_ImplicitDomain(t *testing.T) {
	o := NewOrdinal([]string{"Republican", "Democratic"}, []string{"r", "d", "o"})
	assert.Equal(t, "d", o.Map("Democratic"))
	assert.Equal(t, "o", o.Map("Whig"))
	assert.Equal(t, "r", o.Map("Federalist"), "range cycles")
	assert.Equal(t, []string{"Republican", "Democratic", "Whig", "Federalist"}, o.Domain())
}
