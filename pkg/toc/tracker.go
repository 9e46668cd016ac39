package toc

import (
	"fmt"
	"slices"

	"github.com/toolbench/toolbench/pkg/reactive"
)

// Entry is one intersection change reported by the host
type Entry struct {
	ID           string  `json:"id"`
	Intersecting bool    `json:"intersecting"`
	Top          float64 `json:"top"`
}

// Observer watches a set of elements for viewport intersection
type Observer interface {
	Observe(ids []string)
	Disconnect()
}

// ObserverFactory builds an observer that reports entries to callback.
// Hosts skip ids that have no element and never report them.
type ObserverFactory func(margin RootMargin, callback func([]Entry)) Observer

// RootMargin shrinks the observation area. A small negative top and a large
// negative bottom leave a band near the top of the viewport, so the heading
// of the section being read is the one that intersects.
type RootMargin struct {
	TopPx         float64 `json:"topPx"`
	BottomPercent float64 `json:"bottomPercent"`
}

// DefaultRootMargin is "-80px 0px -80% 0px"
var DefaultRootMargin = RootMargin{TopPx: -80, BottomPercent: -80}

// String formats the margin as a CSS rootMargin value
func (m RootMargin) String() string {
	return fmt.Sprintf("%gpx 0px %g%% 0px", m.TopPx, m.BottomPercent)
}

// Band returns the observed vertical band of a viewport of the given height
func (m RootMargin) Band(viewportHeight float64) (top, bottom float64) {
	return -m.TopPx, viewportHeight * (1 + m.BottomPercent/100)
}

// Intersects reports whether an element spanning [elemTop, elemBottom],
// relative to the viewport, overlaps the observed band
func (m RootMargin) Intersects(elemTop, elemBottom, viewportHeight float64) bool {
	top, bottom := m.Band(viewportHeight)
	return elemBottom >= top && elemTop <= bottom
}

// Tracker maintains the active heading from intersection reports
type Tracker struct {
	factory ObserverFactory
	margin  RootMargin

	active   *reactive.State[string]
	observer Observer
	ids      []string
	known    map[string]bool
	gen      int
}

// NewTracker creates a tracker. A nil factory yields a tracker that only
// changes through Handle.
func NewTracker(factory ObserverFactory, margin RootMargin) *Tracker {
	return &Tracker{
		factory: factory,
		margin:  margin,
		active:  reactive.NewState(""),
		known:   make(map[string]bool),
	}
}

// Active returns the active heading id; empty until a heading intersects
func (t *Tracker) Active() reactive.Signal[string] {
	return t.active
}

// Margin returns the root margin observers are built with
func (t *Tracker) Margin() RootMargin {
	return t.margin
}

// IDs returns the observed heading ids
func (t *Tracker) IDs() []string {
	return slices.Clone(t.ids)
}

// SetHeadings replaces the observation set. The previous observer is
// disconnected first; an identical set keeps the current observer.
func (t *Tracker) SetHeadings(headings []Heading) {
	ids := make([]string, len(headings))
	for i, h := range headings {
		ids[i] = h.ID
	}
	if slices.Equal(ids, t.ids) {
		return
	}

	t.disconnect()
	t.ids = ids
	t.known = make(map[string]bool, len(ids))
	for _, id := range ids {
		t.known[id] = true
	}
	if !t.known[t.active.Get()] {
		t.active.Set("")
	}

	if t.factory == nil || len(ids) == 0 {
		return
	}

	gen := t.gen
	t.observer = t.factory(t.margin, func(entries []Entry) {
		// Reports from a replaced observer are dropped
		if gen != t.gen {
			return
		}
		t.Handle(entries)
	})
	if t.observer != nil {
		t.observer.Observe(slices.Clone(ids))
	}
}

// Handle applies intersection entries in delivery order. Each intersecting
// entry becomes the active heading, so when several intersect in one report
// the last one wins. Unknown ids are ignored.
func (t *Tracker) Handle(entries []Entry) {
	for _, e := range entries {
		if e.Intersecting && t.known[e.ID] {
			t.active.Set(e.ID)
		}
	}
}

// Close disconnects the observer and clears the active heading
func (t *Tracker) Close() {
	t.disconnect()
	t.ids = nil
	t.known = make(map[string]bool)
	t.active.Set("")
}

func (t *Tracker) disconnect() {
	t.gen++
	if t.observer != nil {
		t.observer.Disconnect()
		t.observer = nil
	}
}
