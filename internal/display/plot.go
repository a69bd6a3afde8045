package display

import (
	"sort"

	"scrollstory/internal/chart"
)

// PlotBinding ties one chart to its region and step. It is created by Build
// and never changes afterwards.
type PlotBinding struct {
	id     string
	index  int
	kind   chart.Kind
	region string
	step   int
	chart  chart.Adapter
}

// ID is a unique identifier for the binding.
func (p *PlotBinding) ID() string { return p.id }

// Index is the chart's position in the story's chart list.
func (p *PlotBinding) Index() int { return p.index }

// Kind is the chart kind.
func (p *PlotBinding) Kind() chart.Kind { return p.kind }

// Region is the region the chart is mounted in.
func (p *PlotBinding) Region() string { return p.region }

// Step is the step at which the chart is shown.
func (p *PlotBinding) Step() int { return p.step }

// Chart is the adapter.
func (p *PlotBinding) Chart() chart.Adapter { return p.chart }

// RegionState is the derived visibility of one region for a step.
type RegionState struct {
	ID     string
	Hidden bool
	// Plots are the bindings shown in the region at this step.
	Plots []*PlotBinding
}

// Visibility computes region states from scratch. A region is hidden iff no
// binding in it matches step. Regions are returned in regionIDs order, with
// regions that only appear in plots appended in sorted order.
func Visibility(step int, plots []*PlotBinding, regionIDs []string) []RegionState {
	known := make(map[string]int, len(regionIDs))
	out := make([]RegionState, 0, len(regionIDs))
	for _, id := range regionIDs {
		if _, dup := known[id]; dup {
			continue
		}
		known[id] = len(out)
		out = append(out, RegionState{ID: id, Hidden: true})
	}
	var extra []string
	for _, p := range plots {
		if _, ok := known[p.region]; !ok {
			known[p.region] = -1
			extra = append(extra, p.region)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		known[id] = len(out)
		out = append(out, RegionState{ID: id, Hidden: true})
	}

	for _, p := range plots {
		if p.step != step {
			continue
		}
		rs := &out[known[p.region]]
		rs.Plots = append(rs.Plots, p)
		rs.Hidden = false
	}
	return out
}

// StepOpacity is the narrative text opacity for section i at step.
func StepOpacity(i, step int) float64 {
	if i == step {
		return 1
	}
	return 0.3
}
