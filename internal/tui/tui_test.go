package tui

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/toolbench/toolbench/internal/content"
	navprogress "github.com/toolbench/toolbench/pkg/progress"
	"github.com/toolbench/toolbench/pkg/toc"
)

func plain(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ansi.Strip(l)
	}
	return out
}

func TestLayout(t *testing.T) {
	src := `<h2 id="heading-0">Intro</h2>` +
		`<p>Hello   <em>brave</em>
world &amp; more</p>` +
		"<pre><code>a := 1\nb := 2\n</code></pre>" +
		`<ul><li>one</li><li>two</li></ul>` +
		`<script>alert(1)</script>` +
		`<h3 id="heading-1">Details</h3>`

	doc := Layout(src, 40)
	want := []string{
		"## Intro",
		"",
		"Hello brave world & more",
		"",
		"  a := 1",
		"  b := 2",
		"",
		"• one",
		"",
		"• two",
		"",
		"### Details",
	}
	if got := plain(doc.Lines); !reflect.DeepEqual(got, want) {
		t.Errorf("Layout() lines = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(doc.Anchors, map[string]int{"heading-0": 0, "heading-1": 11}) {
		t.Errorf("Layout() anchors = %v", doc.Anchors)
	}
}

func TestLayout_Wraps(t *testing.T) {
	doc := Layout("<p>"+strings.Repeat("word ", 30)+"</p>", 20)
	if len(doc.Lines) < 7 {
		t.Fatalf("Layout() = %d lines, want the paragraph wrapped", len(doc.Lines))
	}
	for _, line := range doc.Lines {
		if w := lipgloss.Width(line); w > 20 {
			t.Errorf("line %q is %d cells wide", line, w)
		}
	}
}

// testPost builds a post whose sections are each 62 lines long
func testPost(slug string, sections ...string) *content.Post {
	var b strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&b, "<h2>%s</h2>", s)
		for range 30 {
			b.WriteString("<p>A line of text.</p>")
		}
	}
	html, headings := toc.Annotate(b.String())
	return &content.Post{
		FrontMatter: content.FrontMatter{Title: strings.ToUpper(slug[:1]) + slug[1:]},
		Slug:        slug,
		HTML:        html,
		Headings:    headings,
	}
}

func newTestModel(t *testing.T, width int) *Model {
	t.Helper()
	m := NewModel([]*content.Post{
		testPost("first", "Install", "Usage", "Wrap up"),
		testPost("second", "Only"),
	}, 0, navprogress.Config{})
	m.Update(tea.WindowSizeMsg{Width: width, Height: 23})
	return m
}

func press(m *Model, k string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return cmd
}

func TestModel_ActiveFollowsScroll(t *testing.T) {
	m := newTestModel(t, 120)

	if got := m.widget.Active().Get(); got != "heading-0" {
		t.Fatalf("initial active = %q, want heading-0", got)
	}

	// 20 rows per page; the second heading is on line 62
	for i := 0; i < 2; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	}
	if got := m.widget.Active().Get(); got != "heading-0" {
		t.Errorf("active between headings = %q, want heading-0 kept", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if got := m.widget.Active().Get(); got != "heading-1" {
		t.Errorf("active at offset %d = %q, want heading-1", m.viewport.YOffset, got)
	}
}

func TestModel_StepHeadings(t *testing.T) {
	m := newTestModel(t, 120)

	press(m, "]")
	if m.viewport.YOffset != 62 {
		t.Errorf("YOffset = %d, want 62", m.viewport.YOffset)
	}
	if got := m.widget.Active().Get(); got != "heading-1" {
		t.Errorf("active = %q, want heading-1", got)
	}

	press(m, "]")
	press(m, "[")
	if m.viewport.YOffset != 62 {
		t.Errorf("YOffset = %d, want 62", m.viewport.YOffset)
	}

	press(m, "[")
	press(m, "[")
	if m.viewport.YOffset != 0 || m.widget.Active().Get() != "heading-0" {
		t.Errorf("at %d active %q, want the first heading at the top", m.viewport.YOffset, m.widget.Active().Get())
	}
}

func TestModel_SwitchPostAnimatesProgress(t *testing.T) {
	m := newTestModel(t, 120)
	anim := m.indicator.Animator()

	if cmd := press(m, "p"); cmd != nil {
		t.Error("previous post from the first post should do nothing")
	}

	if cmd := press(m, "n"); cmd == nil {
		t.Fatal("next post returned no command")
	}
	if got := anim.State().Get().Phase; got != navprogress.Animating {
		t.Errorf("phase after switching = %v, want Animating", got)
	}

	m.Update(postLoadedMsg{index: 1})
	if m.current != 1 {
		t.Errorf("current = %d, want 1", m.current)
	}
	if got := anim.State().Get(); got.Phase != navprogress.Completing || got.Percent != 100 {
		t.Errorf("state after load = %+v, want Completing at 100", got)
	}
	if m.renderProgress() == "" {
		t.Error("progress bar hidden while completing")
	}
	if got := m.widget.Active().Get(); got != "heading-0" {
		t.Errorf("active on the new post = %q, want heading-0", got)
	}

	m.Update(tickMsg(m.clock.Now().Add(time.Second)))
	if got := anim.State().Get().Phase; got != navprogress.Idle {
		t.Errorf("phase after hold = %v, want Idle", got)
	}
	if m.renderProgress() != "" {
		t.Error("progress bar still shown after the hold")
	}
}

func TestModel_NarrowPanel(t *testing.T) {
	m := newTestModel(t, 60)

	if strings.Contains(ansi.Strip(m.View()), "On this page") {
		t.Error("narrow view shows the contents panel while closed")
	}

	press(m, "t")
	if !m.widget.Open().Get() {
		t.Fatal("t did not open the panel")
	}
	if !strings.Contains(ansi.Strip(m.View()), "On this page") {
		t.Error("open panel not rendered")
	}

	press(m, "]")
	if m.widget.Open().Get() {
		t.Error("selecting a heading on a narrow terminal should close the panel")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel([]*content.Post{testPost("first", "Install")}, 0, navprogress.Config{})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before sizing = %q", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 23})
	view := ansi.Strip(m.View())
	for _, want := range []string{"First", "1/1", "On this page", "▸ Install", "## Install", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("ctrl+c should quit")
	}
}
