// Package display is the orchestrator: it builds every chart of a story into
// its region and, on each step or resize signal, recomputes which charts and
// regions are visible.
//
// All methods run on the host's single event loop; nothing here is safe for
// concurrent use.
package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"scrollstory/internal/anim"
	"scrollstory/internal/chart"
	"scrollstory/internal/config"
	"scrollstory/internal/dataset"
	"scrollstory/internal/logging"
	"scrollstory/internal/region"
	"scrollstory/internal/scene"
)

// ErrAlreadyBuilt is returned by a second Build.
var ErrAlreadyBuilt = errors.New("display already built")

// Loader fetches datasets in source order.
type Loader interface {
	Load(ctx context.Context, sources []dataset.Source) ([]*dataset.Dataset, error)
}

// Display owns the step index, the plot bindings and the activation
// protocol.
type Display struct {
	regions *region.Registry
	loader  Loader
	charts  *chart.Registry
	sched   *anim.Scheduler
	focus   func(step int)
	log     *logging.Logger

	step      int
	built     bool
	plots     []*PlotBinding
	regionIDs []string
	surfaces  map[string]*scene.Surface
	buildErr  error
}

// Option configures a Display.
type Option func(*Display)

// WithScheduler sets the scheduler shared by every chart.
func WithScheduler(s *anim.Scheduler) Option {
	return func(d *Display) { d.sched = s }
}

// WithStepFocus registers a hook called with the step after every
// recomputation, for narrative text emphasis.
func WithStepFocus(fn func(step int)) Option {
	return func(d *Display) { d.focus = fn }
}

// WithInitialStep sets the step applied when Build completes.
func WithInitialStep(step int) Option {
	return func(d *Display) { d.step = step }
}

// New returns an unbuilt display.
func New(regions *region.Registry, loader Loader, charts *chart.Registry, opts ...Option) *Display {
	d := &Display{
		regions:  regions,
		loader:   loader,
		charts:   charts,
		log:      logging.Get(logging.CategoryDisplay),
		surfaces: make(map[string]*scene.Surface),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sched == nil {
		d.sched = anim.NewScheduler(nil)
	}
	return d
}

// Build validates configs, materializes their regions, loads every dataset
// and constructs one initialized chart per config. On any failure nothing is
// kept: partial marks are removed, no plots exist, and the error is logged
// once and returned.
func (d *Display) Build(ctx context.Context, configs []config.ChartConfig) error {
	if d.built {
		return ErrAlreadyBuilt
	}

	type resolved struct {
		kind    chart.Kind
		factory chart.Factory
	}
	kinds := make([]resolved, len(configs))
	for i, c := range configs {
		k, f, err := d.charts.Resolve(c.Kind)
		if err != nil {
			return d.fail(&chart.ConfigurationError{Chart: i, Field: "kind", Err: err})
		}
		if c.Step < 0 {
			return d.fail(&chart.ConfigurationError{Chart: i, Field: "step", Reason: fmt.Sprintf("step %d is negative", c.Step)})
		}
		kinds[i] = resolved{kind: k, factory: f}
	}

	var ids []string
	surfaces := make(map[string]*scene.Surface)
	for _, c := range configs {
		if _, ok := surfaces[c.Region]; ok {
			continue
		}
		s, err := d.regions.Materialize(c.Region)
		if err != nil {
			d.unmount(ids)
			return d.fail(err)
		}
		surfaces[c.Region] = s
		ids = append(ids, c.Region)
	}

	sources := make([]dataset.Source, len(configs))
	for i, c := range configs {
		sources[i] = c.Source
	}
	data, err := d.loader.Load(ctx, sources)
	if err != nil {
		d.unmount(ids)
		return d.fail(err)
	}

	plots := make([]*PlotBinding, 0, len(configs))
	for i, c := range configs {
		env := chart.Env{
			Surface:     surfaces[c.Region],
			Data:        data[i],
			Options:     c.Options,
			Scheduler:   d.sched,
			CurrentStep: d.Step,
			Log:         logging.Get(logging.CategoryChart).With("chart", i, "region", c.Region),
		}
		a, err := kinds[i].factory(env)
		if err != nil {
			d.unmount(ids)
			return d.fail(&chart.ConfigurationError{Chart: i, Field: "options", Err: err})
		}
		if err := a.Init(); err != nil {
			d.unmount(ids)
			return d.fail(fmt.Errorf("chart %d (%s): %w", i, kinds[i].kind, err))
		}
		plots = append(plots, &PlotBinding{
			id:     uuid.NewString(),
			index:  i,
			kind:   kinds[i].kind,
			region: c.Region,
			step:   c.Step,
			chart:  a,
		})
	}

	d.plots = plots
	d.regionIDs = ids
	d.surfaces = surfaces
	d.built = true
	d.log.Info("built %d plots across %d regions", len(plots), len(ids))
	d.update()
	return nil
}

func (d *Display) fail(err error) error {
	d.buildErr = err
	d.log.Error("build failed: %v", err)
	return err
}

func (d *Display) unmount(ids []string) {
	for _, id := range ids {
		d.regions.Unmount(id)
	}
}

// Err returns the error of a failed Build, nil otherwise.
func (d *Display) Err() error { return d.buildErr }

// Built reports whether Build succeeded.
func (d *Display) Built() bool { return d.built }

// OnStepChange records step and recomputes visibility.
func (d *Display) OnStepChange(step int) {
	if step != d.step {
		d.log.Debug("step %d -> %d", d.step, step)
	}
	d.step = step
	d.update()
}

// OnResize re-measures every region and recomputes visibility.
func (d *Display) OnResize() {
	if !d.built {
		return
	}
	for _, id := range d.regionIDs {
		s, err := d.regions.Materialize(id)
		if err != nil {
			d.log.Warn("resize: %v", err)
			continue
		}
		d.surfaces[id] = s
	}
	d.update()
}

// update applies Visibility: every plot gets exactly one of Activate or
// Deactivate, and every region's hidden flag is set.
func (d *Display) update() {
	if !d.built {
		return
	}
	for _, rs := range Visibility(d.step, d.plots, d.regionIDs) {
		d.regions.SetHidden(rs.ID, rs.Hidden)
	}
	for _, p := range d.plots {
		if p.step == d.step {
			p.chart.Activate()
		} else {
			p.chart.Deactivate()
		}
	}
	if d.focus != nil {
		d.focus(d.step)
	}
}

// Step returns the current step.
func (d *Display) Step() int { return d.step }

// Plots returns the bindings in config order.
func (d *Display) Plots() []*PlotBinding {
	return append([]*PlotBinding(nil), d.plots...)
}

// Regions returns the region states for the current step.
func (d *Display) Regions() []RegionState {
	return Visibility(d.step, d.plots, d.regionIDs)
}

// Surface returns the latest materialized surface of a region.
func (d *Display) Surface(id string) (*scene.Surface, bool) {
	s, ok := d.surfaces[id]
	return s, ok
}

// Adapter returns the chart of the binding with the given id.
func (d *Display) Adapter(plotID string) (chart.Adapter, bool) {
	for _, p := range d.plots {
		if p.id == plotID {
			return p.chart, true
		}
	}
	return nil, false
}

// Scheduler returns the shared animation scheduler.
func (d *Display) Scheduler() *anim.Scheduler { return d.sched }

// Tick advances every running animation to the scheduler's clock.
func (d *Display) Tick() { d.sched.Tick() }
