// Package tui is a terminal reader for blog posts. It hosts the same
// table-of-contents and navigation-progress widgets as the site, with the
// terminal viewport standing in for the browser window.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toolbench/toolbench/internal/content"
	navprogress "github.com/toolbench/toolbench/pkg/progress"
	"github.com/toolbench/toolbench/pkg/reactive"
	"github.com/toolbench/toolbench/pkg/scheduler"
	"github.com/toolbench/toolbench/pkg/toc"
)

const (
	// wideWidth is the narrowest terminal that shows the contents pane
	// beside the post
	wideWidth = 100
	tocWidth  = 32
	// chrome is the header, progress and footer rows
	chrome = 3

	frameInterval = 50 * time.Millisecond
)

// RootMargin keeps the upper part of the viewport as the observed band
var RootMargin = toc.RootMargin{TopPx: 0, BottomPercent: -60}

// KeyMap defines the reader's shortcuts; scrolling uses the viewport's
type KeyMap struct {
	NextHeading key.Binding
	PrevHeading key.Binding
	NextPost    key.Binding
	PrevPost    key.Binding
	TOC         key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var DefaultKeyMap = KeyMap{
	NextHeading: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next section"),
	),
	PrevHeading: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "previous section"),
	),
	NextPost: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next post"),
	),
	PrevPost: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "previous post"),
	),
	TOC: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "contents"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

// Messages
type postLoadedMsg struct{ index int }
type tickMsg time.Time

// Model is the reader's state
type Model struct {
	// Window dimensions
	width  int
	height int

	posts   []*content.Post
	current int
	doc     Document

	viewport viewport.Model
	bar      progress.Model

	// The widgets run on a virtual clock advanced by tick messages
	clock     *scheduler.Manual
	ticking   bool
	route     *reactive.State[string]
	indicator *navprogress.Indicator

	widget *toc.Widget
	obs    *termObserver

	showHelp bool
	quitting bool
}

// NewModel creates a reader showing posts[start]
func NewModel(posts []*content.Post, start int, cfg navprogress.Config) *Model {
	if start < 0 || start >= len(posts) {
		start = 0
	}

	clock := scheduler.NewManual(time.Now())
	clock.SetFrameInterval(frameInterval)

	m := &Model{
		posts:    posts,
		current:  -1,
		viewport: viewport.New(80, 24-chrome),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		clock:    clock,
		route:    reactive.NewState(""),
	}
	m.indicator = navprogress.NewIndicator(clock, m.route, cfg)
	m.widget = toc.NewWidget(toc.Options{
		Title:      "On this page",
		Observers:  m.newObserver,
		Viewport:   termViewport{reader: m},
		RootMargin: RootMargin,
	})

	if len(posts) > 0 {
		m.show(start)
	}
	return m
}

// Run starts the reader in the alternate screen
func Run(posts []*content.Post, start int, cfg navprogress.Config) error {
	if len(posts) == 0 {
		return fmt.Errorf("tui: no posts to read")
	}
	p := tea.NewProgram(NewModel(posts, start, cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.quitting = true
			m.widget.Unmount()
			m.indicator.Unmount()
			return m, tea.Quit
		case key.Matches(msg, DefaultKeyMap.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, DefaultKeyMap.TOC):
			m.widget.Toggle()
			return m, nil
		case key.Matches(msg, DefaultKeyMap.NextHeading):
			m.stepHeading(1)
			return m, nil
		case key.Matches(msg, DefaultKeyMap.PrevHeading):
			m.stepHeading(-1)
			return m, nil
		case key.Matches(msg, DefaultKeyMap.NextPost):
			return m, m.open(m.current + 1)
		case key.Matches(msg, DefaultKeyMap.PrevPost):
			return m, m.open(m.current - 1)
		}

	case postLoadedMsg:
		m.show(msg.index)
		return m, m.tick()

	case tickMsg:
		m.ticking = false
		if d := time.Time(msg).Sub(m.clock.Now()); d > 0 {
			m.clock.Advance(d)
		}
		return m, m.tick()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.scan()
	return m, cmd
}

// open switches to another post, animating the progress bar while the
// post is laid out
func (m *Model) open(index int) tea.Cmd {
	if index < 0 || index >= len(m.posts) || index == m.current {
		return nil
	}
	m.indicator.Animator().Start()
	return tea.Batch(m.tick(), func() tea.Msg {
		return postLoadedMsg{index: index}
	})
}

// show lays out posts[index] and points the widgets at it
func (m *Model) show(index int) {
	post := m.posts[index]
	m.current = index

	m.widget.Unmount()
	m.widget.SetContent(post.HTML)
	m.layout()
	m.viewport.GotoTop()
	m.scan()

	m.route.Set(post.URL())
}

// tick keeps the virtual clock running while widget work is pending
func (m *Model) tick() tea.Cmd {
	if m.ticking || m.clock.PendingFrames()+m.clock.PendingTimers() == 0 {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) stepHeading(dir int) {
	headings := m.widget.Headings()
	if len(headings) == 0 {
		return
	}

	idx := -1
	active := m.widget.Active().Get()
	for i, h := range headings {
		if h.ID == active {
			idx = i
		}
	}
	next := idx + dir
	if idx < 0 && dir < 0 {
		next = 0
	}
	if next < 0 || next >= len(headings) {
		return
	}
	m.widget.Select(headings[next].ID)
	m.scan()
}

func (m *Model) scan() {
	if m.obs != nil {
		m.obs.scan()
	}
}

func (m *Model) narrow() bool {
	return m.width > 0 && m.width < wideWidth
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = width
	m.viewport.Height = max(height-chrome, 1)
	offset := m.viewport.YOffset
	m.layout()
	m.viewport.SetYOffset(offset)
	m.scan()
}

// layout re-flows the current post for the body width
func (m *Model) layout() {
	width := m.width
	if width == 0 {
		width = 80
	}
	if !m.narrow() {
		width -= tocWidth + 1
	}
	m.viewport.Width = width
	if m.current < 0 {
		return
	}
	m.doc = Layout(m.posts[m.current].HTML, width)
	m.viewport.SetContent(strings.Join(m.doc.Lines, "\n"))
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch {
	case m.narrow() && m.widget.Open().Get():
		body = lipgloss.NewStyle().Height(m.viewport.Height).Render(m.renderTOC())
	case m.narrow():
		body = m.viewport.View()
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.renderTOC())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderProgress(),
		body,
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	if m.current < 0 {
		return titleStyle.Render("No posts")
	}
	post := m.posts[m.current]
	return titleStyle.Render(post.Title) +
		mutedStyle.Render(fmt.Sprintf("  %d/%d · %d min read", m.current+1, len(m.posts), post.ReadingTime()))
}

func (m *Model) renderProgress() string {
	state := m.indicator.Animator().State().Get()
	if !state.Active() {
		return ""
	}
	return m.bar.ViewAs(state.Percent / 100)
}

func (m *Model) renderTOC() string {
	headings := m.widget.Headings()
	if len(headings) == 0 {
		return ""
	}

	active := m.widget.Active().Get()
	lines := []string{headingStyle.Render("On this page"), ""}
	for _, h := range headings {
		indent := strings.Repeat("  ", max(h.Level-2, 0))
		if h.ID == active {
			lines = append(lines, activeStyle.Render("▸ "+indent+h.Text))
		} else {
			lines = append(lines, "  "+indent+h.Text)
		}
	}
	return tocStyle.Width(tocWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	k := DefaultKeyMap
	hints := []key.Binding{k.PrevHeading, k.NextHeading, k.NextPost, k.PrevPost, k.TOC, k.Help, k.Quit}
	parts := make([]string, len(hints))
	for i, b := range hints {
		parts[i] = b.Help().Key + " " + b.Help().Desc
	}
	return helpStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) renderHelp() string {
	k := DefaultKeyMap
	rows := []string{titleStyle.Render("Keys"), "", "↑/↓ pgup/pgdn  scroll"}
	for _, b := range []key.Binding{k.PrevHeading, k.NextHeading, k.NextPost, k.PrevPost, k.TOC, k.Help, k.Quit} {
		rows = append(rows, fmt.Sprintf("%-14s %s", b.Help().Key, b.Help().Desc))
	}
	return strings.Join(rows, "\n")
}
