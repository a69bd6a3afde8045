package beeswarm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrollstory/internal/chart"
	"scrollstory/internal/dataset"
	"scrollstory/internal/scene"
)

const themes = `{"speeches": [
  {"title": "Inaugural 1961", "theme": "foreign", "score": 0.61},
  {"title": "Inaugural 1965", "theme": "domestic", "score": 0.40},
  {"title": "Inaugural 1969", "theme": "foreign", "score": 0.62},
  {"title": "Inaugural 1973", "theme": "foreign", "score": 0.63},
  {"title": "Inaugural 1977", "theme": "domestic", "score": 0.90}
]}`

func TestDodge(t *testing.T) {
	assert.Equal(t, []float64{0, 8, -8, 0}, Dodge([]float64{10, 11, 12, 100}, 4))
	assert.Empty(t, Dodge(nil, 4))
}

func TestDodge_NoOverlap(t *testing.T) {
	xs := []float64{5, 5, 5, 6, 7, 30, 31, 5.5, 12, 13}
	off := Dodge(xs, 3)
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			apart := math.Abs(xs[i]-xs[j]) >= 6 || math.Abs(off[i]-off[j]) >= 6
			assert.True(t, apart, "dots %d and %d overlap", i, j)
		}
	}
	assert.Equal(t, off, Dodge(xs, 3), "deterministic")
}

func TestBeeswarm_Init(t *testing.T) {
	tree, err := dataset.ParseTree([]byte(themes), "themes.json")
	require.NoError(t, err)
	root := scene.NewGroup()
	a, err := New(chart.Env{
		Surface: &scene.Surface{Width: 420, Height: 200, Root: root},
		Data:    &dataset.Dataset{Tree: tree},
		Options: chart.Options{"items": "speeches", "x": "score", "group": "theme", "label": "title"},
	})
	require.NoError(t, err)
	require.NoError(t, a.Init())
	c := a.(*Chart)

	items := c.Items()
	require.Len(t, items, 5)
	assert.Equal(t, Item{Label: "Inaugural 1965", Group: "domestic", X: 0.40}, items[1])

	dots := c.Dots()
	assert.Equal(t, 0.0, dots[1].X+4, "minimum x sits at the left edge")
	assert.NotEqual(t, dots[0].Y, dots[2].Y, "close neighbours are dodged")
	assert.Len(t, root.SelectAll("group-label"), 2)

	c.Activate()
	router := scene.NewPointerRouter(root)
	ox, oy := c.Group().Origin()
	router.Move(ox+dots[4].X+1, oy+dots[4].Y+1)
	tip := root.Select("tooltip")
	assert.Equal(t, "Inaugural 1977", tip.Text)
	assert.True(t, tip.Visible())
}

func TestBeeswarm_Errors(t *testing.T) {
	tree, err := dataset.ParseTree([]byte(`{"a": 1}`), "x.json")
	require.NoError(t, err)
	a, err := New(chart.Env{
		Surface: &scene.Surface{Width: 100, Height: 100, Root: scene.NewGroup()},
		Data:    &dataset.Dataset{Tree: tree},
		Options: chart.Options{"items": "a"},
	})
	require.NoError(t, err)
	assert.ErrorContains(t, a.Init(), "not an array")

	_, err = New(chart.Env{Options: chart.Options{"radius": -1}})
	assert.Error(t, err)
}
