package progress

import (
	"fmt"
	"net/url"

	"github.com/toolbench/toolbench/pkg/reactive"
	"github.com/toolbench/toolbench/pkg/scheduler"
	"github.com/toolbench/toolbench/pkg/styling"
	"github.com/toolbench/toolbench/pkg/vdom"
)

var sheet = styling.Register(styling.New("nav-progress", `
.nav-progress { position: fixed; top: 0; left: 0; right: 0; height: 3px; z-index: 100; pointer-events: none; }
.nav-progress-bar { height: 100%; background: var(--accent); box-shadow: 0 0 8px var(--accent); transition: width 120ms linear; }
.nav-progress-done { opacity: 0; transition: opacity 300ms ease 100ms; }
`))

// Indicator is the global navigation progress bar. It starts on tracked
// link clicks and completes when the route path changes.
type Indicator struct {
	anim *Animator
	off  func()
}

// NewIndicator mounts an indicator that watches route for path changes
func NewIndicator(sched scheduler.Scheduler, route reactive.Signal[string], cfg Config) *Indicator {
	ind := &Indicator{anim: NewAnimator(sched, cfg)}
	if route != nil {
		ind.off = route.Subscribe(func(string) {
			ind.anim.Complete()
		})
	}
	return ind
}

// Animator returns the underlying animator
func (i *Indicator) Animator() *Animator {
	return i.anim
}

// HandleClick starts the animation when the click is a tracked navigation
func (i *Indicator) HandleClick(click LinkClick, current *url.URL) bool {
	if !ShouldTrack(click, current) {
		return false
	}
	i.anim.Start()
	return true
}

// OnChange calls fn on every state change
func (i *Indicator) OnChange(fn func()) (unsubscribe func()) {
	return i.anim.State().Subscribe(func(State) { fn() })
}

// Unmount stops watching the route and cancels all pending work
func (i *Indicator) Unmount() {
	if i.off != nil {
		i.off()
		i.off = nil
	}
	i.anim.Close()
}

// Render returns the bar, or nil while idle
func (i *Indicator) Render() *vdom.VNode {
	s := i.anim.State().Get()
	if !s.Active() {
		return nil
	}

	done := ""
	if s.Phase == Completing {
		done = "nav-progress-done"
	}
	return vdom.Div(vdom.Props{
		"class":         vdom.Classes("nav-progress", done),
		"role":          "progressbar",
		"aria-valuemin": "0",
		"aria-valuemax": "100",
		"aria-valuenow": fmt.Sprintf("%.0f", s.Percent),
	},
		vdom.Div(vdom.Props{
			"class": "nav-progress-bar",
			"style": fmt.Sprintf("width: %.2f%%", s.Percent),
		}),
	)
}
