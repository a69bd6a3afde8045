// Package catalog wires every chart kind to its constructor.
package catalog

import (
	"scrollstory/internal/chart"
	"scrollstory/internal/chart/beeswarm"
	"scrollstory/internal/chart/heatmap"
	"scrollstory/internal/chart/racingbars"
	"scrollstory/internal/chart/stackedbars"
)

// Default returns a registry with every built-in kind.
func Default() *chart.Registry {
	r := chart.NewRegistry()
	r.Register(chart.KindRacingBars, racingbars.New)
	r.Register(chart.KindHeatmap, heatmap.New)
	r.Register(chart.KindStackedBars, stackedbars.New)
	r.Register(chart.KindBeeswarm, beeswarm.New)
	return r
}
