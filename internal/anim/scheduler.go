// Package anim drives timed transitions from an explicit frame tick.
//
// Nothing here runs on its own goroutine: the host calls Tick once per frame
// and every Step/Done callback runs inside that call. Tasks can be cancelled
// or finished early, which is what lets charts stop or fast-forward an
// animated sequence when they are deactivated.
package anim

import (
	"math"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock starts at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(float64) float64

// Linear is the identity ease.
func Linear(t float64) float64 { return t }

// CubicInOut is the default d3 transition ease.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// Transition describes one timed interpolation.
type Transition struct {
	// Begin is the reference start; zero means the scheduler's current time.
	Begin    time.Time
	Delay    time.Duration
	Duration time.Duration
	// Ease defaults to CubicInOut.
	Ease Ease
	// Step receives eased progress in [0,1]; it is always called with 1
	// before Done.
	Step func(t float64)
	// Done receives the exact scheduled end time.
	Done func(end time.Time)
}

// Task is a scheduled transition.
type Task struct {
	tr        Transition
	start     time.Time
	end       time.Time
	finished  bool
	cancelled bool
	sched     *Scheduler
}

// End returns the scheduled completion time.
func (t *Task) End() time.Time { return t.end }

// Active reports whether the task is still pending or running.
func (t *Task) Active() bool { return !t.finished && !t.cancelled }

// Cancel drops the task without calling Step or Done again.
func (t *Task) Cancel() {
	if !t.Active() {
		return
	}
	t.cancelled = true
	t.sched.remove(t)
}

// Finish completes the task immediately: Step(1) then Done.
func (t *Task) Finish() {
	if !t.Active() {
		return
	}
	t.complete()
}

func (t *Task) complete() {
	t.finished = true
	t.sched.remove(t)
	if t.tr.Step != nil {
		t.tr.Step(1)
	}
	if t.tr.Done != nil {
		t.tr.Done(t.end)
	}
}

// Scheduler owns the set of live tasks.
type Scheduler struct {
	clock Clock
	tasks []*Task
}

// NewScheduler returns a scheduler reading time from clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Now returns the scheduler clock's time.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// Schedule registers tr and returns its task. Nothing runs until Tick.
func (s *Scheduler) Schedule(tr Transition) *Task {
	if tr.Ease == nil {
		tr.Ease = CubicInOut
	}
	begin := tr.Begin
	if begin.IsZero() {
		begin = s.clock.Now()
	}
	start := begin.Add(tr.Delay)
	t := &Task{tr: tr, start: start, end: start.Add(tr.Duration), sched: s}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns the number of live tasks.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Tick advances every live task to the current time. Tasks scheduled by Done
// callbacks are advanced in the same tick when they are already due.
func (s *Scheduler) Tick() {
	now := s.clock.Now()
	for {
		progressed := false
		for _, t := range s.snapshot() {
			if !t.Active() || now.Before(t.start) {
				continue
			}
			if !now.Before(t.end) {
				t.complete()
				progressed = true
				continue
			}
			if t.tr.Step != nil {
				p := float64(now.Sub(t.start)) / float64(t.tr.Duration)
				t.tr.Step(t.tr.Ease(clamp01(p)))
			}
		}
		if !progressed {
			return
		}
	}
}

// FastForward completes every task, including tasks scheduled while
// completing, in scheduled end order.
func (s *Scheduler) FastForward() {
	for len(s.tasks) > 0 {
		next := s.tasks[0]
		for _, t := range s.tasks[1:] {
			if t.end.Before(next.end) {
				next = t
			}
		}
		next.complete()
	}
}

// Abort cancels every task.
func (s *Scheduler) Abort() {
	for _, t := range s.snapshot() {
		t.Cancel()
	}
}

func (s *Scheduler) snapshot() []*Task {
	out := make([]*Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Scheduler) remove(t *Task) {
	for i, x := range s.tasks {
		if x == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
