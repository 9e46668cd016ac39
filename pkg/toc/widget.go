package toc

import (
	"github.com/toolbench/toolbench/pkg/reactive"
	"github.com/toolbench/toolbench/pkg/styling"
	"github.com/toolbench/toolbench/pkg/vdom"
)

var sheet = styling.Register(styling.New("toc", `
.toc { font-size: 0.875rem; }
.toc-toggle { display: none; width: 100%; text-align: left; font-weight: 600; background: none; border: 0; padding: 0.5rem 0; cursor: pointer; }
.toc-title { font-weight: 600; margin-bottom: 0.5rem; }
.toc-list { list-style: none; margin: 0; padding: 0; }
.toc-item { margin: 0.25rem 0; }
.toc-item a { color: var(--muted); text-decoration: none; border-left: 2px solid transparent; padding-left: 0.5rem; display: block; }
.toc-level-3 { padding-left: 1rem; }
.toc-item.toc-active a { color: var(--accent); border-left-color: var(--accent); }
@media (max-width: 1023px) {
  .toc { position: fixed; right: 1rem; bottom: 1rem; z-index: 40; background: var(--surface); border: 1px solid var(--border); border-radius: 0.5rem; padding: 0 1rem; max-width: 20rem; }
  .toc-toggle { display: block; }
  .toc-title { display: none; }
  .toc:not(.toc-open) .toc-list { display: none; }
  .toc-open .toc-list { max-height: 60vh; overflow-y: auto; padding-bottom: 0.75rem; }
}
`))

// Options configures a Widget
type Options struct {
	Title        string
	Observers    ObserverFactory
	Viewport     Viewport
	RootMargin   RootMargin
	HeaderOffset float64
}

// DefaultOptions returns the widget defaults with no host attached
func DefaultOptions() Options {
	return Options{
		Title:        "On this page",
		RootMargin:   DefaultRootMargin,
		HeaderOffset: DefaultHeaderOffset,
	}
}

// Widget is the table of contents for one post. It is not safe for
// concurrent use; hosts drive it from their scheduler goroutine.
type Widget struct {
	title    string
	headings *reactive.State[int]
	list     []Heading
	tracker  *Tracker
	nav      *Navigator
	open     *reactive.State[bool]
}

// NewWidget creates an empty widget
func NewWidget(opts Options) *Widget {
	if opts.Title == "" {
		opts.Title = "On this page"
	}
	w := &Widget{
		title:    opts.Title,
		headings: reactive.NewState(0),
		tracker:  NewTracker(opts.Observers, opts.RootMargin),
		nav:      NewNavigator(opts.Viewport, opts.HeaderOffset),
		open:     reactive.NewState(false),
	}
	w.nav.OnNarrow(w.Close)
	return w
}

// SetContent extracts headings from content and rebuilds the tracker
func (w *Widget) SetContent(content string) []Heading {
	list := Collect(Extract(content))
	w.list = list
	w.tracker.SetHeadings(list)
	if len(list) == 0 {
		w.open.Set(false)
	}
	w.headings.Update(func(n int) int { return n + 1 })
	return list
}

// Headings returns the current headings
func (w *Widget) Headings() []Heading {
	return w.list
}

// Tracker returns the widget's scroll-position tracker
func (w *Widget) Tracker() *Tracker {
	return w.tracker
}

// Active returns the active heading id
func (w *Widget) Active() reactive.Signal[string] {
	return w.tracker.Active()
}

// Open reports whether the narrow-viewport panel is expanded
func (w *Widget) Open() reactive.Signal[bool] {
	return w.open
}

// Handle forwards intersection entries to the tracker
func (w *Widget) Handle(entries []Entry) {
	w.tracker.Handle(entries)
}

// Select scrolls to the heading; missing headings are ignored
func (w *Widget) Select(id string) bool {
	return w.nav.Navigate(id)
}

// Toggle flips the panel
func (w *Widget) Toggle() {
	w.open.Update(func(open bool) bool { return !open })
}

// Close collapses the panel
func (w *Widget) Close() {
	w.open.Set(false)
}

// OnChange calls fn whenever the rendered output may have changed
func (w *Widget) OnChange(fn func()) (unsubscribe func()) {
	offs := []func(){
		w.headings.Subscribe(func(int) { fn() }),
		w.tracker.Active().Subscribe(func(string) { fn() }),
		w.open.Subscribe(func(bool) { fn() }),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// Unmount disposes the tracker's observer
func (w *Widget) Unmount() {
	w.tracker.Close()
}

// Render returns the navigable list, or nil when there are no headings
func (w *Widget) Render() *vdom.VNode {
	if len(w.list) == 0 {
		return nil
	}

	active := w.tracker.Active().Get()
	open := w.open.Get()

	items := make([]*vdom.VNode, 0, len(w.list))
	for _, h := range w.list {
		var current any
		if h.ID == active {
			current = "location"
		}
		items = append(items, vdom.Li(vdom.Props{
			"key":   h.ID,
			"class": vdom.Classes("toc-item", levelClass(h.Level), activeClass(h.ID == active)),
		},
			vdom.A(vdom.Props{
				"href":         "#" + h.ID,
				"data-toc-id":  h.ID,
				"aria-current": current,
			}, vdom.Text(h.Text)),
		))
	}

	return vdom.Nav(vdom.Props{
		"class":       vdom.Classes("toc", openClass(open)),
		"aria-label":  "Table of contents",
		"data-widget": "toc",
	},
		vdom.Button(vdom.Props{
			"class":         "toc-toggle",
			"type":          "button",
			"aria-expanded": boolString(open),
			"data-action":   "toc-toggle",
		}, vdom.Text(w.title)),
		vdom.Div(vdom.Props{"class": "toc-title"}, vdom.Text(w.title)),
		vdom.Ul(vdom.Props{"class": "toc-list"}, items...),
	)
}

func levelClass(level int) string {
	if level == 3 {
		return "toc-level-3"
	}
	return "toc-level-2"
}

func activeClass(active bool) string {
	if active {
		return "toc-active"
	}
	return ""
}

func openClass(open bool) string {
	if open {
		return "toc-open"
	}
	return ""
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
