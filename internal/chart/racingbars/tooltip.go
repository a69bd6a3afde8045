package racingbars

import (
	"strconv"
	"time"

	"scrollstory/internal/anim"
	"scrollstory/internal/scene"
)

const (
	tooltipFadeIn  = 200 * time.Millisecond
	tooltipFadeOut = 500 * time.Millisecond
	tooltipLine    = 14.0
)

// tooltip is a floating label that follows the pointer over a bar.
type tooltip struct {
	group *scene.Node
	sched *anim.Scheduler
	fade  *anim.Task
}

func newTooltip(parent *scene.Node, sched *anim.Scheduler) *tooltip {
	g := parent.Append(scene.KindGroup).Classed("tooltip", true)
	g.Opacity = 0
	return &tooltip{group: g, sched: sched}
}

func (c *Chart) tooltipText(f *Frame) []string {
	s := c.settings
	value := strconv.FormatFloat(f.Value, 'f', -1, 64)
	return []string{
		s.TooltipName + ": " + f.Name,
		s.TooltipValue + ": " + value + " " + s.TooltipUnit,
		s.TooltipCategory + ": " + f.Category,
	}
}

func (t *tooltip) enter(lines []string) func(scene.PointerEvent) {
	return func(ev scene.PointerEvent) {
		for _, n := range t.group.Children() {
			n.Remove()
		}
		for i, l := range lines {
			text := t.group.Append(scene.KindText)
			text.Y = float64(i) * tooltipLine
			text.Text = l
		}
		t.place(ev, -10)
		t.fadeTo(1, tooltipFadeIn)
	}
}

func (t *tooltip) move(ev scene.PointerEvent) {
	t.place(ev, -28)
}

func (t *tooltip) leave(scene.PointerEvent) {
	t.fadeTo(0, tooltipFadeOut)
}

// place positions the tooltip at the pointer offset by (10, dy).
func (t *tooltip) place(ev scene.PointerEvent, dy float64) {
	ox, oy := t.group.Parent().Origin()
	t.group.TranslateX = ev.X - ox + 10
	t.group.TranslateY = ev.Y - oy + dy
}

func (t *tooltip) fadeTo(target float64, d time.Duration) {
	if t.fade != nil {
		t.fade.Cancel()
	}
	from := t.group.Opacity
	t.fade = t.sched.Schedule(anim.Transition{
		Duration: d,
		Step:     func(p float64) { t.group.Opacity = anim.Lerp(from, target, p) },
	})
}

func (t *tooltip) hide() {
	if t.fade != nil {
		t.fade.Cancel()
		t.fade = nil
	}
	t.group.Opacity = 0
	for _, n := range t.group.Children() {
		n.Remove()
	}
}
