// Package toc implements the blog table of contents: heading extraction,
// scroll-position tracking and smooth-scroll navigation, composed into a
// widget that renders the navigable list.
package toc

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"strings"

	"golang.org/x/net/html"
)

// Heading describes one navigable section anchor
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// HeadingID returns the synthetic identifier of the n-th heading
func HeadingID(n int) string {
	return fmt.Sprintf("heading-%d", n)
}

func headingLevel(tag string) int {
	switch tag {
	case "h2":
		return 2
	case "h3":
		return 3
	}
	return 0
}

// Extract lazily yields every h2 and h3 in content, in document order,
// with sequential IDs. Identifiers embedded in the content are ignored so
// duplicate or missing anchors cannot break uniqueness.
func Extract(content string) iter.Seq[Heading] {
	return func(yield func(Heading) bool) {
		scan(content, nil, yield)
	}
}

// Collect drains a heading sequence into a slice
func Collect(seq iter.Seq[Heading]) []Heading {
	var out []Heading
	for h := range seq {
		out = append(out, h)
	}
	return out
}

// Annotate rewrites content so every h2 and h3 carries the id Extract would
// assign it, and returns the rewritten content with its headings. Running
// this while rendering means anchors exist before the page is served.
func Annotate(content string) (string, []Heading) {
	var b strings.Builder
	b.Grow(len(content) + 64)

	var headings []Heading
	scan(content, &b, func(h Heading) bool {
		headings = append(headings, h)
		return true
	})
	return b.String(), headings
}

// scan tokenizes content, emitting each heading once its end tag (or the end
// of input) is reached. When w is set every token is copied to it, with
// heading start tags rewritten to carry their synthetic id. A heading start
// or end tag of any level closes the open heading, as an HTML parser would.
func scan(content string, w io.Writer, emit func(Heading) bool) {
	z := html.NewTokenizer(strings.NewReader(content))

	var (
		open *Heading
		text strings.Builder
		next int
	)

	finish := func() bool {
		h := *open
		h.Text = strings.Join(strings.Fields(text.String()), " ")
		open = nil
		text.Reset()
		return emit(h)
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a tokenizer error; either way the input is done
			if open != nil {
				finish()
			}
			return
		}
		// Token, Text and TagName rewrite the tokenizer's buffer in place
		raw := bytes.Clone(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if open != nil && isHeadingTag(tok.Data) {
				if !finish() {
					return
				}
			}
			if level := headingLevel(tok.Data); level > 0 {
				open = &Heading{ID: HeadingID(next), Level: level}
				next++
				if w != nil {
					setAttr(&tok, "id", open.ID)
					io.WriteString(w, tok.String())
				}
				continue
			}

		case html.TextToken:
			if open != nil {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			if open != nil {
				name, _ := z.TagName()
				if isHeadingTag(string(name)) {
					if w != nil {
						w.Write(raw)
					}
					if !finish() {
						return
					}
					continue
				}
			}
		}

		if w != nil {
			w.Write(raw)
		}
	}
}

func isHeadingTag(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// setAttr replaces (or adds) an attribute on a tag token
func setAttr(tok *html.Token, key, val string) {
	kept := tok.Attr[:0]
	for _, attr := range tok.Attr {
		if attr.Namespace == "" && attr.Key == key {
			continue
		}
		kept = append(kept, attr)
	}
	tok.Attr = append(kept, html.Attribute{Key: key, Val: val})
}
