package heatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrollstory/internal/anim"
	"scrollstory/internal/chart"
	"scrollstory/internal/dataset"
	"scrollstory/internal/scene"
)

const similarity = `year,1990,2000,2010
1990,1,0.5,0.2
2000,0.5,1,0.6
2010,0.2,0.6,1
`

func TestHeatmap_Cells(t *testing.T) {
	table, err := dataset.ParseTable([]byte(similarity))
	require.NoError(t, err)
	clock := anim.NewManualClock(time.Unix(0, 0))
	sched := anim.NewScheduler(clock)
	root := scene.NewGroup()

	a, err := New(chart.Env{
		Surface:   &scene.Surface{Width: 400, Height: 300, Root: root},
		Data:      &dataset.Dataset{Table: table},
		Scheduler: sched,
	})
	require.NoError(t, err)
	require.NoError(t, a.Init())
	c := a.(*Chart)

	cells := root.SelectAll("cell")
	require.Len(t, cells, 9)
	assert.Equal(t, "#084081", cells[0].Fill, "max value gets the darkest stop")
	assert.Equal(t, "#f7fcf0", cells[2].Fill, "min value gets the lightest stop")
	assert.Equal(t, cells[1].Fill, cells[3].Fill, "symmetric matrix, symmetric colors")
	assert.False(t, cells[0].Visible())

	c.Activate()
	router := scene.NewPointerRouter(root)
	ox, oy := c.Group().Origin()
	router.Move(ox+cells[5].X+1, oy+cells[5].Y+1)
	assert.Equal(t, "2010 vs 2000", c.Tooltip().Text)
	clock.Advance(200 * time.Millisecond)
	sched.Tick()
	assert.InDelta(t, 0.9, c.Tooltip().Opacity, 1e-9)

	c.Deactivate()
	assert.Zero(t, c.Tooltip().Opacity)
	assert.False(t, cells[5].Visible())
}

func TestHeatmap_NeedsValueColumns(t *testing.T) {
	table, err := dataset.ParseTable([]byte("year\n1990\n"))
	require.NoError(t, err)
	a, err := New(chart.Env{
		Surface: &scene.Surface{Width: 100, Height: 100, Root: scene.NewGroup()},
		Data:    &dataset.Dataset{Table: table},
	})
	require.NoError(t, err)
	assert.Error(t, a.Init())
}
