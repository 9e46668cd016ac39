package vdom

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents a DOM element node
	KindElement VKind = iota
	// KindText represents a text node
	KindText
	// KindFragment represents a fragment (multiple children without parent)
	KindFragment
	// KindRaw represents pre-rendered HTML that is emitted verbatim
	KindRaw
)

// Props represents the properties/attributes of a VNode
type Props map[string]any

// VNode represents a virtual DOM node.
// Once built a tree is treated as immutable; widgets build a fresh tree on
// every render and let Diff work out what changed.
type VNode struct {
	// Kind determines the type of this node
	Kind VKind

	// Tag is the element tag name (e.g., "div", "span")
	// Only used when Kind == KindElement
	Tag string

	// Props contains all attributes for this node
	Props Props

	// Kids contains child nodes
	Kids []VNode

	// Key identifies a node across renders; nodes with different keys
	// are never patched into each other
	Key string

	// Text content for KindText, HTML source for KindRaw
	Text string
}

// NewElement creates a new element VNode. Nil children are dropped, which
// lets callers write conditional children inline.
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  collect(children),
	}
	if key, ok := props["key"].(string); ok {
		node.Key = key
	}
	return node
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: text,
	}
}

// NewFragment creates a new fragment VNode
func NewFragment(children ...*VNode) *VNode {
	return &VNode{
		Kind: KindFragment,
		Kids: collect(children),
	}
}

// NewRaw wraps already rendered, trusted HTML (for example a blog post
// body produced by the content pipeline)
func NewRaw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

func collect(children []*VNode) []VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}
	return kids
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// IsText returns true if this is a text node
func (v VNode) IsText() bool {
	return v.Kind == KindText
}

// IsFragment returns true if this is a fragment node
func (v VNode) IsFragment() bool {
	return v.Kind == KindFragment
}

// Attr returns the string form of an attribute and whether it is present.
// Boolean props are present only when true.
func (v VNode) Attr(key string) (string, bool) {
	val, ok := v.Props[key]
	if !ok || val == nil {
		return "", false
	}
	return FormatAttr(val)
}

// Find returns the first element in the tree (depth first, including v)
// whose id attribute equals id.
func (v *VNode) Find(id string) *VNode {
	if v == nil {
		return nil
	}
	if v.Kind == KindElement {
		if got, ok := v.Attr("id"); ok && got == id {
			return v
		}
	}
	for i := range v.Kids {
		if found := v.Kids[i].Find(id); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates all text below v, skipping raw HTML
func (v VNode) TextContent() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindRaw:
		return ""
	}
	var out []byte
	for _, kid := range v.Kids {
		out = append(out, kid.TextContent()...)
	}
	return string(out)
}

// flatten expands nested fragments so that children can be addressed by
// their position among real DOM siblings
func flatten(kids []VNode) []*VNode {
	out := make([]*VNode, 0, len(kids))
	for i := range kids {
		if kids[i].Kind == KindFragment {
			out = append(out, flatten(kids[i].Kids)...)
			continue
		}
		out = append(out, &kids[i])
	}
	return out
}
