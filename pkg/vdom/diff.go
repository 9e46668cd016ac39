package vdom

import (
	"fmt"
	"sort"
	"strings"
)

// PatchOp represents the type of patch operation
type PatchOp uint8

const (
	// OpReplace replaces the node at Path with Node
	OpReplace PatchOp = 0x01
	// OpSetAttribute sets or replaces an attribute
	OpSetAttribute PatchOp = 0x02
	// OpRemoveAttribute removes an attribute
	OpRemoveAttribute PatchOp = 0x03
	// OpSetText replaces the text content of a text-only element
	OpSetText PatchOp = 0x04
)

var opNames = map[PatchOp]string{
	OpReplace:         "replace",
	OpSetAttribute:    "set-attr",
	OpRemoveAttribute: "remove-attr",
	OpSetText:         "set-text",
}

// String returns the wire name of the operation
func (op PatchOp) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// MarshalText encodes the operation by name for JSON transports
func (op PatchOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText decodes an operation name
func (op *PatchOp) UnmarshalText(text []byte) error {
	for code, name := range opNames {
		if name == string(text) {
			*op = code
			return nil
		}
	}
	return fmt.Errorf("vdom: unknown patch op %q", text)
}

// Patch represents a single DOM mutation relative to a mount root.
// Path lists element-child indexes from the mount root; an empty path
// addresses the root itself (for a fragment root, the mount's contents).
type Patch struct {
	Op    PatchOp `json:"op"`
	Path  []int   `json:"path"`
	Key   string  `json:"key,omitempty"`
	Value string  `json:"value,omitempty"`
	Node  *VNode  `json:"-"` // For replace operations; nil clears the target
}

// String returns a human-readable representation of the patch
func (p Patch) String() string {
	path := pathString(p.Path)
	switch p.Op {
	case OpReplace:
		return fmt.Sprintf("Replace(path=%s)", path)
	case OpSetAttribute:
		return fmt.Sprintf("SetAttribute(path=%s, key=%q, value=%q)", path, p.Key, p.Value)
	case OpRemoveAttribute:
		return fmt.Sprintf("RemoveAttribute(path=%s, key=%q)", path, p.Key)
	case OpSetText:
		return fmt.Sprintf("SetText(path=%s, text=%q)", path, p.Value)
	default:
		return fmt.Sprintf("Unknown(op=%d)", p.Op)
	}
}

func pathString(path []int) string {
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = fmt.Sprint(idx)
	}
	return "/" + strings.Join(parts, "/")
}

// FormatAttr converts a prop value to its attribute form. Booleans are
// present only when true and carry no value.
func FormatAttr(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case bool:
		return "", v
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

// isRenderedProp reports whether a prop ends up as an HTML attribute
func isRenderedProp(key string) bool {
	if key == "key" || key == "ref" {
		return false
	}
	return !(len(key) > 2 && key[0] == 'o' && key[1] == 'n')
}

// diffContext holds state during diffing
type diffContext struct {
	patches []Patch
}

func (ctx *diffContext) add(p Patch) {
	p.Path = append([]int{}, p.Path...)
	ctx.patches = append(ctx.patches, p)
}

// Diff computes the patches needed to transform prev into next
func Diff(prev, next *VNode) []Patch {
	ctx := &diffContext{patches: make([]Patch, 0, 8)}
	ctx.diffNode(prev, next, []int{})
	return ctx.patches
}

func sameShape(prev, next *VNode) bool {
	if prev.Kind != next.Kind || prev.Key != next.Key {
		return false
	}
	return prev.Kind != KindElement || prev.Tag == next.Tag
}

// diffNode recursively diffs two nodes occupying the same position
func (ctx *diffContext) diffNode(prev, next *VNode, path []int) {
	if prev == nil && next == nil {
		return
	}
	if prev == nil || next == nil || !sameShape(prev, next) {
		ctx.add(Patch{Op: OpReplace, Path: path, Node: next})
		return
	}

	switch prev.Kind {
	case KindText, KindRaw:
		if prev.Text != next.Text {
			ctx.add(Patch{Op: OpReplace, Path: path, Node: next})
		}

	case KindElement:
		ctx.diffProps(path, prev.Props, next.Props)
		ctx.diffKids(prev, next, path)

	case KindFragment:
		ctx.diffKids(prev, next, path)
	}
}

// diffProps diffs rendered attributes in sorted key order
func (ctx *diffContext) diffProps(path []int, prevProps, nextProps Props) {
	keys := make([]string, 0, len(prevProps)+len(nextProps))
	seen := make(map[string]bool, len(prevProps)+len(nextProps))
	for _, props := range []Props{prevProps, nextProps} {
		for k := range props {
			if !seen[k] && isRenderedProp(k) {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		prevVal, hadPrev := FormatAttr(prevProps[key])
		nextVal, hasNext := FormatAttr(nextProps[key])
		switch {
		case hasNext && (!hadPrev || prevVal != nextVal):
			ctx.add(Patch{Op: OpSetAttribute, Path: path, Key: key, Value: nextVal})
		case hadPrev && !hasNext:
			ctx.add(Patch{Op: OpRemoveAttribute, Path: path, Key: key})
		}
	}
}

// diffKids diffs the children of two matching nodes. Text-only children
// collapse into a single set-text; any structural change that cannot be
// addressed by element index replaces the parent.
func (ctx *diffContext) diffKids(prev, next *VNode, path []int) {
	prevKids := flatten(prev.Kids)
	nextKids := flatten(next.Kids)

	if textOnly(prevKids) && textOnly(nextKids) {
		if prevText, nextText := joinText(prevKids), joinText(nextKids); prevText != nextText {
			if len(path) == 0 && prev.Kind == KindFragment {
				// The mount root has no element of its own to set text on
				ctx.add(Patch{Op: OpReplace, Path: path, Node: next})
				return
			}
			ctx.add(Patch{Op: OpSetText, Path: path, Value: nextText})
		}
		return
	}

	if len(prevKids) != len(nextKids) || !alignedKinds(prevKids, nextKids) {
		ctx.add(Patch{Op: OpReplace, Path: path, Node: next})
		return
	}

	elemIndex := 0
	for i := range prevKids {
		p, n := prevKids[i], nextKids[i]
		if p.Kind != KindElement {
			if p.Text != n.Text {
				ctx.add(Patch{Op: OpReplace, Path: path, Node: next})
				return
			}
			continue
		}
		ctx.diffNode(p, n, append(path, elemIndex))
		elemIndex++
	}
}

func textOnly(kids []*VNode) bool {
	for _, kid := range kids {
		if kid.Kind != KindText {
			return false
		}
	}
	return true
}

func joinText(kids []*VNode) string {
	var b strings.Builder
	for _, kid := range kids {
		b.WriteString(kid.Text)
	}
	return b.String()
}

// alignedKinds reports whether element positions line up, so element
// indexes in prev address the same DOM nodes as in next
func alignedKinds(prev, next []*VNode) bool {
	for i := range prev {
		if (prev[i].Kind == KindElement) != (next[i].Kind == KindElement) {
			return false
		}
	}
	return true
}
