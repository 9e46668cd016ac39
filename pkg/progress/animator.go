// Package progress implements the navigation progress indicator: a thin bar
// that eases toward a ceiling while a page load is in flight and snaps to
// full width when the new route arrives.
package progress

import (
	"math"
	"time"

	"github.com/toolbench/toolbench/pkg/reactive"
	"github.com/toolbench/toolbench/pkg/scheduler"
)

// Phase is the animator's lifecycle state
type Phase int

const (
	Idle Phase = iota
	Animating
	Completing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	case Completing:
		return "completing"
	}
	return "unknown"
}

// State is what the indicator renders
type State struct {
	Phase   Phase
	Percent float64
}

// Active reports whether the bar is visible
func (s State) Active() bool {
	return s.Phase != Idle
}

// Config tunes the animation curve
type Config struct {
	// Ceiling is the percentage the bar approaches but never reaches
	// before completion
	Ceiling float64
	// TimeConstant is the time to reach about 63% of the ceiling
	TimeConstant time.Duration
	// Hold is how long the full bar stays visible after completion
	Hold time.Duration
}

// DefaultConfig returns the standard curve
func DefaultConfig() Config {
	return Config{
		Ceiling:      90,
		TimeConstant: 2 * time.Second,
		Hold:         400 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Ceiling <= 0 || c.Ceiling > 100 {
		c.Ceiling = d.Ceiling
	}
	if c.TimeConstant <= 0 {
		c.TimeConstant = d.TimeConstant
	}
	if c.Hold <= 0 {
		c.Hold = d.Hold
	}
	return c
}

// Ease returns ceiling*(1-exp(-elapsed/tau)), clamped to [0, ceiling]
func Ease(elapsed time.Duration, ceiling float64, tau time.Duration) float64 {
	if elapsed <= 0 || tau <= 0 {
		return 0
	}
	p := ceiling * (1 - math.Exp(-float64(elapsed)/float64(tau)))
	return math.Min(ceiling, p)
}

// Animator drives the progress state. At most one animation is in flight;
// Start always supersedes it. All methods must be called on the
// scheduler's goroutine.
type Animator struct {
	sched scheduler.Scheduler
	cfg   Config
	state *reactive.State[State]

	started time.Time
	frame   *scheduler.Task
	hold    *scheduler.Task
	closed  bool
}

// NewAnimator creates an idle animator
func NewAnimator(sched scheduler.Scheduler, cfg Config) *Animator {
	return &Animator{
		sched: sched,
		cfg:   cfg.withDefaults(),
		state: reactive.NewState(State{}),
	}
}

// State returns the observable progress state
func (a *Animator) State() reactive.Signal[State] {
	return a.state
}

// Config returns the effective configuration
func (a *Animator) Config() Config {
	return a.cfg
}

// Start begins a new animation from zero, cancelling any animation or hold
// in progress
func (a *Animator) Start() {
	if a.closed {
		return
	}
	a.cancel()

	a.started = a.sched.Now()
	a.state.Set(State{Phase: Animating, Percent: 0})
	a.frame = a.sched.RequestFrame(a.step)
}

func (a *Animator) step(now time.Time) {
	a.frame = nil
	cur := a.state.Get()
	if cur.Phase != Animating {
		return
	}

	p := Ease(now.Sub(a.started), a.cfg.Ceiling, a.cfg.TimeConstant)
	if p < cur.Percent {
		p = cur.Percent
	}
	a.state.Set(State{Phase: Animating, Percent: p})

	if p < a.cfg.Ceiling {
		a.frame = a.sched.RequestFrame(a.step)
	}
}

// Complete jumps to 100% and hides the bar after the hold period. It does
// nothing while idle, and does not extend a hold already running.
func (a *Animator) Complete() {
	if a.closed || a.state.Get().Phase != Animating {
		return
	}

	a.frame.Cancel()
	a.frame = nil
	a.state.Set(State{Phase: Completing, Percent: 100})

	a.hold = a.sched.After(a.cfg.Hold, func() {
		a.hold = nil
		a.state.Set(State{Phase: Idle, Percent: 0})
	})
}

// Close cancels every pending frame and timer and resets to idle. The
// animator cannot be restarted afterwards.
func (a *Animator) Close() {
	if a.closed {
		return
	}
	a.cancel()
	a.closed = true
	a.state.Set(State{})
}

func (a *Animator) cancel() {
	a.frame.Cancel()
	a.hold.Cancel()
	a.frame = nil
	a.hold = nil
}
