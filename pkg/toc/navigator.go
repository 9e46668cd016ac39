package toc

// DefaultHeaderOffset is the height of the sticky header, in pixels
const DefaultHeaderOffset = 80

// Viewport is the scrollable surface a host exposes to the navigator
type Viewport interface {
	// ElementTop returns the element's top relative to the viewport
	ElementTop(id string) (float64, bool)
	ScrollY() float64
	// ScrollTo starts a smooth scroll to the absolute offset y
	ScrollTo(y float64)
	// Narrow reports whether the list is presented as an overlay panel
	Narrow() bool
}

// Navigator scrolls the viewport to headings
type Navigator struct {
	viewport     Viewport
	headerOffset float64
	onNarrow     func()
}

// NewNavigator creates a navigator; a nil viewport makes every navigation
// a no-op
func NewNavigator(viewport Viewport, headerOffset float64) *Navigator {
	return &Navigator{viewport: viewport, headerOffset: headerOffset}
}

// OnNarrow sets the function called after navigating on a narrow viewport
func (n *Navigator) OnNarrow(fn func()) {
	n.onNarrow = fn
}

// Target returns the scroll offset that puts the element just below the
// sticky header
func (n *Navigator) Target(elementTop, scrollY float64) float64 {
	return elementTop + scrollY - n.headerOffset
}

// Navigate scrolls to the heading with the given id. It returns false
// without side effects when the element does not exist.
func (n *Navigator) Navigate(id string) bool {
	if n.viewport == nil {
		return false
	}
	top, ok := n.viewport.ElementTop(id)
	if !ok {
		return false
	}

	n.viewport.ScrollTo(n.Target(top, n.viewport.ScrollY()))
	if n.viewport.Narrow() && n.onNarrow != nil {
		n.onNarrow()
	}
	return true
}
