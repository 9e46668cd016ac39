package vdom

import "strings"

// ElementFunc builds an element with the given props and children
type ElementFunc func(props Props, children ...*VNode) *VNode

func element(tag string) ElementFunc {
	return func(props Props, children ...*VNode) *VNode {
		return NewElement(tag, props, children...)
	}
}

// Element shortcuts for the HTML elements the site renders
var (
	A       = element("a")
	Article = element("article")
	Aside   = element("aside")
	Body    = element("body")
	Button  = element("button")
	Div     = element("div")
	Footer  = element("footer")
	H1      = element("h1")
	H2      = element("h2")
	H3      = element("h3")
	Head    = element("head")
	Header  = element("header")
	HTML    = element("html")
	Img     = element("img")
	Li      = element("li")
	Link    = element("link")
	Main    = element("main")
	Meta    = element("meta")
	Nav     = element("nav")
	Ol      = element("ol")
	P       = element("p")
	Script  = element("script")
	Section = element("section")
	Span    = element("span")
	Style   = element("style")
	Time    = element("time")
	Title   = element("title")
	Ul      = element("ul")
)

// Text is a shortcut for NewText
var Text = NewText

// Classes joins the non-empty class names
func Classes(names ...string) string {
	kept := names[:0:0]
	for _, name := range names {
		if name != "" {
			kept = append(kept, name)
		}
	}
	return strings.Join(kept, " ")
}

// If returns node when cond holds and nil otherwise
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}
