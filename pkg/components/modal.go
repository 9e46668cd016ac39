package components

import (
	"github.com/toolbench/toolbench/pkg/vdom"
)

// OverlayProps defines the properties for the Overlay component
type OverlayProps struct {
	ID      string
	Title   string
	Content *vdom.VNode
	Class   string
}

// Overlay renders a hidden full-screen panel, used for the mobile
// navigation. The site script reveals it on nav-open and hides it on
// nav-close, Escape or a click on the backdrop.
func Overlay(props OverlayProps) *vdom.VNode {
	closeBtn := Button(ButtonProps{
		Variant: ButtonGhost,
		Action:  "nav-close",
		Label:   "Close menu",
		Icon:    vdom.Span(vdom.Props{"aria-hidden": "true"}, vdom.Text("×")),
		Class:   "overlay-close",
	})

	var title *vdom.VNode
	if props.Title != "" {
		title = vdom.H2(vdom.Props{"class": "overlay-title"}, vdom.Text(props.Title))
	}

	panel := vdom.Div(vdom.Props{
		"class":      "overlay-panel",
		"role":       "dialog",
		"aria-modal": "true",
		"aria-label": props.Title,
	},
		vdom.Div(vdom.Props{"class": "overlay-header"}, title, closeBtn),
		props.Content,
	)

	return vdom.Div(vdom.Props{
		"id":           props.ID,
		"class":        vdom.Classes("overlay", props.Class),
		"hidden":       true,
		"data-overlay": "true",
		"data-action":  "nav-close",
	}, panel)
}
