package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
)

const minWidth = 20

// Document is rendered post HTML laid out as terminal lines
type Document struct {
	Lines []string
	// Anchors maps heading ids to the line the heading starts on
	Anchors map[string]int
}

// Layout converts annotated post HTML into wrapped lines of at most width
// cells. Headings keep their ids as anchors; code blocks keep their line
// breaks.
func Layout(content string, width int) Document {
	if width < minWidth {
		width = minWidth
	}
	l := &layouter{
		width: width,
		doc:   Document{Anchors: make(map[string]int)},
	}

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			l.flush()
			for len(l.doc.Lines) > 0 && l.doc.Lines[len(l.doc.Lines)-1] == "" {
				l.doc.Lines = l.doc.Lines[:len(l.doc.Lines)-1]
			}
			return l.doc

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			l.start(tok)

		case html.EndTagToken:
			name, _ := z.TagName()
			l.end(string(name))

		case html.TextToken:
			if l.skip == "" {
				l.text.Write(z.Text())
			}
		}
	}
}

type layouter struct {
	width int
	doc   Document

	text    strings.Builder
	skip    string
	pre     int
	level   int
	anchor  string
	listing bool
}

func (l *layouter) start(tok html.Token) {
	if l.skip != "" {
		return
	}
	switch tok.Data {
	case "script", "style":
		l.skip = tok.Data
	case "pre":
		l.flush()
		l.pre++
	case "h1", "h2", "h3", "h4", "h5", "h6":
		l.flush()
		l.level = int(tok.Data[1] - '0')
		for _, a := range tok.Attr {
			if a.Key == "id" {
				l.anchor = a.Val
			}
		}
	case "li":
		l.flush()
		l.listing = true
	case "br":
		if l.pre > 0 {
			l.text.WriteByte('\n')
		} else {
			l.flush()
		}
	case "p", "div", "blockquote", "ul", "ol", "table", "tr", "hr":
		if l.pre == 0 {
			l.flush()
		}
	}
}

func (l *layouter) end(name string) {
	if l.skip != "" {
		if name == l.skip {
			l.skip = ""
		}
		return
	}
	switch name {
	case "pre":
		l.flushPre()
		if l.pre > 0 {
			l.pre--
		}
	case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "blockquote", "tr", "div":
		if l.pre == 0 {
			l.flush()
		}
	}
}

// flush lays out the pending inline text as one block
func (l *layouter) flush() {
	if l.pre > 0 {
		return
	}
	text := strings.Join(strings.Fields(l.text.String()), " ")
	l.text.Reset()

	level, anchor, listing := l.level, l.anchor, l.listing
	l.level, l.anchor, l.listing = 0, "", false
	if text == "" {
		return
	}

	switch {
	case level > 0:
		if anchor != "" {
			l.doc.Anchors[anchor] = len(l.doc.Lines)
		}
		prefix := strings.Repeat("#", level) + " "
		for _, line := range wrap(prefix+text, l.width) {
			l.doc.Lines = append(l.doc.Lines, headingStyle.Render(line))
		}
	case listing:
		for i, line := range wrap(text, l.width-2) {
			if i == 0 {
				l.doc.Lines = append(l.doc.Lines, "• "+line)
			} else {
				l.doc.Lines = append(l.doc.Lines, "  "+line)
			}
		}
	default:
		l.doc.Lines = append(l.doc.Lines, wrap(text, l.width)...)
	}
	l.doc.Lines = append(l.doc.Lines, "")
}

// flushPre emits a code block verbatim, indented
func (l *layouter) flushPre() {
	code := strings.Trim(l.text.String(), "\n")
	l.text.Reset()
	if code == "" {
		return
	}
	for _, line := range strings.Split(code, "\n") {
		l.doc.Lines = append(l.doc.Lines, codeStyle.Render("  "+line))
	}
	l.doc.Lines = append(l.doc.Lines, "")
}

func wrap(text string, width int) []string {
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}
