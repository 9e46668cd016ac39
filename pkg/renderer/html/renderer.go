package html

import (
	"html"
	"io"
	"sort"
	"strings"

	"github.com/toolbench/toolbench/pkg/vdom"
)

// voidElements are HTML elements that cannot have children
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// Renderer writes VNode trees as HTML
type Renderer struct {
	w   io.Writer
	err error
}

// NewRenderer creates a new HTML renderer
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render writes node and its subtree. A nil node renders nothing.
func (r *Renderer) Render(node *vdom.VNode) error {
	if node != nil {
		r.renderNode(node, false)
	}
	return r.err
}

// write helper that tracks errors
func (r *Renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

// renderNode renders a single VNode; raw is set inside script and style
func (r *Renderer) renderNode(node *vdom.VNode, raw bool) {
	if r.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindText:
		if raw {
			r.write(node.Text)
		} else {
			r.write(html.EscapeString(node.Text))
		}

	case vdom.KindRaw:
		r.write(node.Text)

	case vdom.KindElement:
		r.renderElement(node)

	case vdom.KindFragment:
		for i := range node.Kids {
			r.renderNode(&node.Kids[i], raw)
		}
	}
}

// renderElement renders an element node
func (r *Renderer) renderElement(node *vdom.VNode) {
	r.write("<")
	r.write(node.Tag)

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		if key == "key" || key == "ref" || (len(key) > 2 && key[0] == 'o' && key[1] == 'n') {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		valueStr, present := vdom.FormatAttr(value)
		if !present {
			continue
		}
		if _, isBool := value.(bool); isBool {
			r.write(" ")
			r.write(key)
			continue
		}

		// Security: prevent javascript: URLs in href/src attributes
		if (key == "href" || key == "src") && strings.HasPrefix(strings.ToLower(strings.TrimSpace(valueStr)), "javascript:") {
			valueStr = "#"
		}

		r.write(" ")
		r.write(key)
		r.write(`="`)
		r.write(html.EscapeString(valueStr))
		r.write(`"`)
	}

	r.write(">")

	if voidElements[node.Tag] {
		return
	}

	// Script and style content must not be escaped
	raw := node.Tag == "script" || node.Tag == "style"
	for i := range node.Kids {
		r.renderNode(&node.Kids[i], raw)
	}

	r.write("</")
	r.write(node.Tag)
	r.write(">")
}

// RenderToString is a convenience function to render a VNode to a string
func RenderToString(node *vdom.VNode) (string, error) {
	var buf strings.Builder
	if err := NewRenderer(&buf).Render(node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderDocument renders a full page with the HTML5 doctype
func RenderDocument(w io.Writer, doc *vdom.VNode) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return NewRenderer(w).Render(doc)
}
