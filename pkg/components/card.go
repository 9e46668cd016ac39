package components

import (
	"github.com/toolbench/toolbench/pkg/vdom"
)

// CardProps defines the properties for the Card component
type CardProps struct {
	Title   string
	Href    string
	Eyebrow string
	Summary string
	Meta    *vdom.VNode
	Class   string
	// Key keeps cards stable across re-renders of a list
	Key string
}

// Card renders a linked summary of a tool or post
func Card(props CardProps) *vdom.VNode {
	attrs := vdom.Props{"class": vdom.Classes("card", props.Class)}
	if props.Key != "" {
		attrs["key"] = props.Key
	}

	var eyebrow, summary, meta *vdom.VNode
	if props.Eyebrow != "" {
		eyebrow = vdom.Div(vdom.Props{"class": "card-eyebrow"}, vdom.Text(props.Eyebrow))
	}
	if props.Summary != "" {
		summary = vdom.P(vdom.Props{"class": "card-summary"}, vdom.Text(props.Summary))
	}
	if props.Meta != nil {
		meta = vdom.Div(vdom.Props{"class": "card-meta"}, props.Meta)
	}

	return vdom.Article(attrs,
		vdom.A(vdom.Props{"class": "card-link", "href": props.Href},
			eyebrow,
			vdom.H2(vdom.Props{"class": "card-title"}, vdom.Text(props.Title)),
			summary,
			meta,
		),
	)
}

// CardGrid lays cards out in a responsive grid
func CardGrid(cards ...*vdom.VNode) *vdom.VNode {
	return vdom.Div(vdom.Props{"class": "card-grid"}, cards...)
}
