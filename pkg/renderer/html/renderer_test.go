package html

import (
	"errors"
	"strings"
	"testing"

	"github.com/toolbench/toolbench/pkg/vdom"
)

func TestRenderToString(t *testing.T) {
	tests := []struct {
		name     string
		node     *vdom.VNode
		expected string
	}{
		{
			name:     "nil renders nothing",
			node:     nil,
			expected: "",
		},
		{
			name:     "text with HTML entities",
			node:     vdom.NewText("<script>alert('xss')</script>"),
			expected: "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;",
		},
		{
			name:     "attributes in sorted order",
			node:     vdom.Div(vdom.Props{"id": "main", "class": "container", "data-mount": "toc"}),
			expected: `<div class="container" data-mount="toc" id="main"></div>`,
		},
		{
			name: "nested elements",
			node: vdom.Ul(nil,
				vdom.Li(nil, vdom.Text("one")),
				vdom.Li(nil, vdom.Text("two")),
			),
			expected: "<ul><li>one</li><li>two</li></ul>",
		},
		{
			name:     "void element",
			node:     vdom.Img(vdom.Props{"src": "/a.png", "alt": "A"}),
			expected: `<img alt="A" src="/a.png">`,
		},
		{
			name:     "boolean attributes",
			node:     vdom.Button(vdom.Props{"disabled": true, "hidden": false}, vdom.Text("Go")),
			expected: `<button disabled>Go</button>`,
		},
		{
			name:     "javascript url neutralised",
			node:     vdom.A(vdom.Props{"href": " JavaScript:alert(1)"}, vdom.Text("x")),
			expected: `<a href="#">x</a>`,
		},
		{
			name:     "handlers and keys skipped",
			node:     vdom.Div(vdom.Props{"key": "k", "onclick": "x", "ref": "r"}),
			expected: "<div></div>",
		},
		{
			name:     "raw html verbatim",
			node:     vdom.Article(nil, vdom.NewRaw(`<h2 id="heading-0">Intro</h2>`)),
			expected: `<article><h2 id="heading-0">Intro</h2></article>`,
		},
		{
			name:     "script content not escaped",
			node:     vdom.Script(nil, vdom.Text("if (a < b) {}")),
			expected: "<script>if (a < b) {}</script>",
		},
		{
			name:     "fragment",
			node:     vdom.NewFragment(vdom.Span(nil), vdom.Text("&")),
			expected: "<span></span>&amp;",
		},
		{
			name:     "numeric attribute",
			node:     vdom.Div(vdom.Props{"aria-valuenow": 42}),
			expected: `<div aria-valuenow="42"></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("RenderToString() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRenderDocument(t *testing.T) {
	var buf strings.Builder
	doc := vdom.HTML(vdom.Props{"lang": "en"}, vdom.Head(nil), vdom.Body(nil))
	if err := RenderDocument(&buf, doc); err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	want := "<!DOCTYPE html>\n<html lang=\"en\"><head></head><body></body></html>"
	if buf.String() != want {
		t.Errorf("RenderDocument() = %q, want %q", buf.String(), want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderer_WriteError(t *testing.T) {
	err := NewRenderer(failingWriter{}).Render(vdom.Div(nil, vdom.Text("x")))
	if err == nil {
		t.Fatal("Render() error = nil, want write error")
	}
}
