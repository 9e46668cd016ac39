package components

import (
	"fmt"
	"time"

	"github.com/toolbench/toolbench/pkg/vdom"
)

// BylineProps defines the properties for the Byline component
type BylineProps struct {
	Name      string
	URL       string
	Avatar    string
	Published time.Time
	Updated   time.Time
	Minutes   int
}

// Byline renders the author attribution above a post
func Byline(props BylineProps) *vdom.VNode {
	var avatar *vdom.VNode
	if props.Avatar != "" {
		avatar = vdom.Img(vdom.Props{"class": "byline-avatar", "src": props.Avatar, "alt": ""})
	}

	var name *vdom.VNode
	switch {
	case props.Name == "":
	case props.URL != "":
		name = vdom.A(vdom.Props{"class": "byline-name", "href": props.URL, "rel": "author"}, vdom.Text(props.Name))
	default:
		name = vdom.Span(vdom.Props{"class": "byline-name"}, vdom.Text(props.Name))
	}

	meta := []*vdom.VNode{}
	if !props.Published.IsZero() {
		meta = append(meta, Date(props.Published))
	}
	if !props.Updated.IsZero() && props.Updated.After(props.Published) {
		meta = append(meta, vdom.Span(nil, vdom.Text(" · updated "), Date(props.Updated)))
	}
	if props.Minutes > 0 {
		meta = append(meta, vdom.Span(nil, vdom.Text(fmt.Sprintf(" · %d min read", props.Minutes))))
	}

	return vdom.Div(vdom.Props{"class": "byline"},
		avatar,
		vdom.Div(nil,
			name,
			vdom.Div(vdom.Props{"class": "byline-meta"}, meta...),
		),
	)
}

// Date renders a machine-readable date
func Date(t time.Time) *vdom.VNode {
	return vdom.Time(vdom.Props{"datetime": t.Format("2006-01-02")}, vdom.Text(t.Format("January 2, 2006")))
}
