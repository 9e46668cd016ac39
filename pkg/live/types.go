package live

import (
	"github.com/toolbench/toolbench/pkg/progress"
	"github.com/toolbench/toolbench/pkg/toc"
	"github.com/toolbench/toolbench/pkg/vdom"
)

// MessageType names a protocol message. Every frame is a JSON text
// message with a "type" field.
type MessageType string

// Client to server
const (
	MsgHello     MessageType = "hello"
	MsgClick     MessageType = "click"
	MsgRoute     MessageType = "route"
	MsgIntersect MessageType = "intersect"
	MsgSelect    MessageType = "select"
	MsgToggle    MessageType = "toggle"
)

// Server to client
const (
	MsgPatch    MessageType = "patch"
	MsgObserve  MessageType = "observe"
	MsgScroll   MessageType = "scroll"
	MsgNavigate MessageType = "navigate"
)

// NavigateHeader marks page fetches made by the bridge during in-place
// navigation. Those requests reuse the existing session.
const NavigateHeader = "X-Live-Navigate"

// Mount points the bridge renders widgets into
const (
	MountProgress = "progress"
	MountTOC      = "toc"
)

// Layout is the client's geometry at the time of a select
type Layout struct {
	ScrollY float64 `json:"scrollY"`
	Narrow  bool    `json:"narrow"`
	// Tops holds element tops relative to the viewport; absent ids have
	// no element
	Tops map[string]float64 `json:"tops,omitempty"`
}

// ClientMessage is a frame sent by the browser bridge
type ClientMessage struct {
	Type MessageType `json:"type"`

	// hello
	URL    string `json:"url,omitempty"`
	Narrow bool   `json:"narrow,omitempty"`

	// click
	Click *progress.LinkClick `json:"click,omitempty"`

	// route
	Path string `json:"path,omitempty"`

	// intersect
	Entries []toc.Entry `json:"entries,omitempty"`

	// select
	ID     string  `json:"id,omitempty"`
	Layout *Layout `json:"layout,omitempty"`
}

// WirePatch is a vdom patch with replacement nodes rendered to HTML
type WirePatch struct {
	vdom.Patch
	HTML string `json:"html,omitempty"`
}

// ServerMessage is a frame sent to the browser bridge
type ServerMessage struct {
	Type MessageType `json:"type"`

	// patch
	Mount   string      `json:"mount,omitempty"`
	Patches []WirePatch `json:"patches,omitempty"`

	// observe; an empty id list disconnects the observer
	IDs        []string `json:"ids,omitempty"`
	RootMargin string   `json:"rootMargin,omitempty"`

	// scroll
	Y float64 `json:"y,omitempty"`

	// navigate
	Href string `json:"href,omitempty"`
}
