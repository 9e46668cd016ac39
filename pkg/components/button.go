package components

import (
	"github.com/toolbench/toolbench/pkg/vdom"
)

// ButtonVariant defines the visual style of the button
type ButtonVariant string

const (
	ButtonPrimary ButtonVariant = "primary"
	ButtonGhost   ButtonVariant = "ghost"
)

// ButtonProps defines the properties for the Button component
type ButtonProps struct {
	Text    string
	Variant ButtonVariant
	Icon    *vdom.VNode
	// Action is picked up by the site script's click delegation
	Action string
	// Label is the accessible name when the button has no text
	Label    string
	Controls string
	Expanded *bool
	Class    string
	ID       string
}

// Button creates a reusable button component
func Button(props ButtonProps) *vdom.VNode {
	if props.Variant == "" {
		props.Variant = ButtonPrimary
	}

	attrs := vdom.Props{
		"type":  "button",
		"class": vdom.Classes("btn", "btn-"+string(props.Variant), props.Class),
	}
	if props.ID != "" {
		attrs["id"] = props.ID
	}
	if props.Action != "" {
		attrs["data-action"] = props.Action
	}
	if props.Label != "" {
		attrs["aria-label"] = props.Label
	}
	if props.Controls != "" {
		attrs["aria-controls"] = props.Controls
	}
	if props.Expanded != nil {
		attrs["aria-expanded"] = boolString(*props.Expanded)
	}

	var text *vdom.VNode
	if props.Text != "" {
		text = vdom.Span(nil, vdom.Text(props.Text))
	}
	return vdom.Button(attrs, props.Icon, text)
}

// ThemeToggle switches between the light and dark colour schemes
func ThemeToggle() *vdom.VNode {
	return Button(ButtonProps{
		Variant: ButtonGhost,
		Action:  "theme-toggle",
		Label:   "Toggle colour theme",
		Icon:    vdom.Span(vdom.Props{"class": "theme-icon", "aria-hidden": "true"}),
		Class:   "theme-toggle",
	})
}

// MenuButton opens the mobile navigation overlay with the given id
func MenuButton(target string) *vdom.VNode {
	closed := false
	return Button(ButtonProps{
		Text:     "Menu",
		Variant:  ButtonGhost,
		Action:   "nav-open",
		Controls: target,
		Expanded: &closed,
		Class:    "menu-button",
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
