package stackedbars

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrollstory/internal/chart"
	"scrollstory/internal/dataset"
	"scrollstory/internal/scene"
)

const policy = `party,economy,defense,health
Democratic,10,4,6
Republican,8,9,2
Democratic,5,1,4
`

func build(t *testing.T, opts chart.Options) (*Chart, *scene.Node) {
	t.Helper()
	table, err := dataset.ParseTable([]byte(policy))
	require.NoError(t, err)
	root := scene.NewGroup()
	a, err := New(chart.Env{
		Surface: &scene.Surface{Width: 500, Height: 300, Root: root},
		Data:    &dataset.Dataset{Table: table},
		Options: opts,
	})
	require.NoError(t, err)
	require.NoError(t, a.Init())
	return a.(*Chart), root
}

func TestStackedBars_AggregatesAndStacks(t *testing.T) {
	c, root := build(t, nil)

	assert.Equal(t, []string{"Democratic", "Republican"}, c.Categories())
	want := []Segment{
		{Category: "Democratic", Key: "economy", Y0: 0, Y1: 15},
		{Category: "Democratic", Key: "defense", Y0: 15, Y1: 20},
		{Category: "Democratic", Key: "health", Y0: 20, Y1: 30},
	}
	if diff := cmp.Diff(want, c.Stack("Democratic")); diff != "" {
		t.Errorf("stack (-want +got):\n%s", diff)
	}
	assert.Len(t, root.SelectAll("segment"), 6)
	assert.Len(t, root.SelectAll("legend-key"), 3)
}

func TestStackedBars_KeysOption(t *testing.T) {
	c, root := build(t, chart.Options{"keys": []interface{}{"health"}})
	assert.Len(t, root.SelectAll("segment"), 2)
	assert.Equal(t, 10.0, c.Stack("Democratic")[0].Y1)
}

func TestStackedBars_TallestBarFillsHeight(t *testing.T) {
	c, root := build(t, nil)
	c.Activate()
	top := 1e9
	for _, s := range root.SelectAll("segment") {
		if s.Y < top {
			top = s.Y
		}
	}
	assert.InDelta(t, 0, top, 1e-9)
}
