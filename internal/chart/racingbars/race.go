package racingbars

import (
	"math"
	"strings"
	"time"

	"scrollstory/internal/anim"
	"scrollstory/internal/chart/scale"
	"scrollstory/internal/scene"
)

// Phase is the race state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGrowing
	PhaseRecoloring
	PhaseDone
	// PhaseAborted means the run was stopped where it stood.
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGrowing:
		return "growing"
	case PhaseRecoloring:
		return "recoloring"
	case PhaseDone:
		return "done"
	case PhaseAborted:
		return "aborted"
	}
	return "unknown"
}

type race struct {
	phase Phase
	stage int
	tasks []*anim.Task
}

func (r *race) reset() {
	for _, t := range r.tasks {
		t.Cancel()
	}
	*r = race{phase: PhaseIdle, stage: -1}
}

func (r *race) track(t *anim.Task) {
	live := r.tasks[:0]
	for _, x := range r.tasks {
		if x.Active() {
			live = append(live, x)
		}
	}
	r.tasks = append(live, t)
}

func (r *race) next() *anim.Task {
	var best *anim.Task
	for _, t := range r.tasks {
		if t.Active() && (best == nil || t.End().Before(best.End())) {
			best = t
		}
	}
	return best
}

// Phase returns the race state.
func (c *Chart) Phase() Phase { return c.race.phase }

// Stage returns the growth stage being animated, or -1 outside Growing and
// before the first run.
func (c *Chart) Stage() int { return c.race.stage }

// Stages returns the configured stages, terminal stage included.
func (c *Chart) Stages() []Stage {
	return append([]Stage(nil), c.settings.Stages...)
}

// Targets returns the bar widths at the end of stage k, in frame order:
// x(min(v, t_k)).
func (c *Chart) Targets(k int) []float64 {
	if k < 0 || k >= len(c.settings.Stages) {
		return nil
	}
	limit := c.settings.Stages[k].Threshold
	out := make([]float64, len(c.frames))
	for i, f := range c.frames {
		out[i] = c.x.Map(math.Min(f.Value, limit))
	}
	return out
}

// Means returns the overall mean and the means of the reference categories,
// keyed by category, from the loaded racers.
func (c *Chart) Means() (overall float64, byCategory map[string]float64) {
	all := make([]float64, len(c.frames))
	per := make(map[string][]float64)
	for i, f := range c.frames {
		all[i] = f.Value
		per[f.Category] = append(per[f.Category], f.Value)
	}
	overall, _ = scale.Mean(all)
	byCategory = make(map[string]float64)
	for _, cat := range c.settings.ReferenceCategories {
		if m, ok := scale.Mean(per[cat]); ok {
			byCategory[cat] = m
		}
	}
	return overall, byCategory
}

// Animate starts the race. The chart must be active.
func (c *Chart) Animate() error {
	if err := c.RequireActive(); err != nil {
		return err
	}
	if c.race.phase != PhaseIdle {
		if c.settings.Reentry == ReentryReject {
			return ErrAnimationReentry
		}
		c.log.Debug("animate while %s: rebuilding", c.race.phase)
		c.Reset()
	}

	begin := c.env.Scheduler.Now()
	growth := c.settings.growth()

	c.drawBars()
	c.drawReferenceLines(begin.Add(growth + c.settings.LineDelay))
	c.race.track(c.env.Scheduler.Schedule(anim.Transition{
		Begin:    begin,
		Delay:    growth,
		Duration: c.settings.AxisDuration,
		Step: func(t float64) {
			c.setAxisColor(scale.InterpolateColor(axisIdleColor, axisDoneColor, t))
		},
	}))

	c.log.Debug("race start: %d bars", len(c.frames))
	c.runStage(0, begin)
	return nil
}

func (c *Chart) drawBars() {
	for i := range c.frames {
		f := &c.frames[i]
		y, _ := c.y.Map(f.Name)
		bar := c.bars.Append(scene.KindRect).Classed("race-bar", true)
		bar.Y, bar.Height = y, c.y.Bandwidth()
		bar.X, bar.Width = 0, c.x.Map(0)
		bar.Fill = c.idleFill(f)
		bar.Datum = f
		bar.On(scene.PointerEnter, c.tooltip.enter(c.tooltipText(f)))
		bar.On(scene.PointerMove, c.tooltip.move)
		bar.On(scene.PointerLeave, c.tooltip.leave)
	}
}

func (c *Chart) drawReferenceLines(at time.Time) {
	overall, byCategory := c.Means()
	c.referenceLine("reference-overall", overall, overallStroke, at)
	for _, cat := range c.settings.ReferenceCategories {
		m, ok := byCategory[cat]
		if !ok {
			continue
		}
		c.referenceLine("reference-"+slug(cat), m, c.settings.ColorFor(cat), at)
	}
}

// referenceLine draws an unstroked line at x(v) that gains its stroke at at.
func (c *Chart) referenceLine(class string, v float64, color string, at time.Time) {
	line := c.lines.Append(scene.KindLine).Classed("reference-line", true).Classed(class, true)
	line.X, line.X2 = c.x.Map(v), c.x.Map(v)
	line.Y, line.Y2 = 0, c.height
	line.Datum = v
	width := c.settings.LineWidth
	c.race.track(c.env.Scheduler.Schedule(anim.Transition{
		Begin:    at,
		Duration: c.settings.LineDuration,
		Step: func(t float64) {
			line.Stroke = color
			line.Dash = lineDash
			line.StrokeWidth = width * t
		},
	}))
}

// runStage animates every bar from its current width to Targets(k).
func (c *Chart) runStage(k int, begin time.Time) {
	c.race.phase = PhaseGrowing
	c.race.stage = k
	bars := c.bars.Children()
	from := make([]float64, len(bars))
	for i, b := range bars {
		from[i] = b.Width
	}
	to := c.Targets(k)
	c.log.Debug("stage %d: threshold %v", k, c.settings.Stages[k].Threshold)
	c.race.track(c.env.Scheduler.Schedule(anim.Transition{
		Begin:    begin,
		Duration: c.settings.Stages[k].Duration,
		Ease:     anim.Linear,
		Step: func(t float64) {
			for i, b := range bars {
				if t >= 1 {
					b.Width = to[i]
					continue
				}
				b.Width = anim.Lerp(from[i], to[i], t)
			}
		},
		Done: func(end time.Time) {
			if k+1 < len(c.settings.Stages) {
				c.runStage(k+1, end)
				return
			}
			c.recolor(end)
		},
	}))
}

func (c *Chart) recolor(begin time.Time) {
	c.race.phase = PhaseRecoloring
	c.race.stage = -1
	bars := c.bars.Children()
	from := make([]string, len(bars))
	to := make([]string, len(bars))
	for i, b := range bars {
		from[i] = b.Fill
		to[i] = c.settings.ColorFor(b.Datum.(*Frame).Category)
	}
	c.race.track(c.env.Scheduler.Schedule(anim.Transition{
		Begin:    begin,
		Delay:    c.settings.RecolorDelay,
		Duration: c.settings.RecolorDuration,
		Step: func(t float64) {
			for i, b := range bars {
				b.Fill = scale.InterpolateColor(from[i], to[i], t)
			}
		},
		Done: func(time.Time) {
			c.race.phase = PhaseDone
			c.log.Debug("race done")
		},
	}))
}

// Running reports whether any race transition is still pending.
func (c *Chart) Running() bool {
	return c.race.next() != nil
}

// FastForward completes the race immediately, in scheduled order.
func (c *Chart) FastForward() {
	for t := c.race.next(); t != nil; t = c.race.next() {
		t.Finish()
	}
}

// Abort stops the race where it stands. Marks keep their current geometry.
func (c *Chart) Abort() {
	if !c.Running() {
		return
	}
	for _, t := range c.race.tasks {
		t.Cancel()
	}
	c.race.tasks = nil
	c.race.phase = PhaseAborted
	c.race.stage = -1
}

// Reset removes every bar and reference line, restores the idle axis color
// and returns the race to Idle. Safe to call any number of times.
func (c *Chart) Reset() {
	if c.bars == nil {
		return
	}
	c.race.reset()
	for _, n := range c.bars.Children() {
		n.Remove()
	}
	for _, n := range c.lines.Children() {
		n.Remove()
	}
	c.tooltip.hide()
	c.setAxisColor(axisIdleColor)
}

func slug(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}
