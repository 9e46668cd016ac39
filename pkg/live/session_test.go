package live

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/toolbench/toolbench/pkg/progress"
	"github.com/toolbench/toolbench/pkg/toc"
	"github.com/toolbench/toolbench/pkg/vdom"
)

var testContent = map[string]string{
	"/blog/first":  "<h2>Intro</h2><p>a</p><h2>Usage</h2><h3>Flags</h3>",
	"/blog/second": "<h2>Only</h2>",
}

type testHarness struct {
	t       *testing.T
	manager *Manager
	server  *httptest.Server
}

func newHarness(t *testing.T, opts Options) *testHarness {
	t.Helper()
	if opts.Content == nil {
		opts.Content = func(path string) (string, bool) {
			html, ok := testContent[path]
			return html, ok
		}
	}
	if opts.TOC.Title == "" {
		opts.TOC = toc.DefaultOptions()
	}
	opts.Progress = progress.Config{Hold: 50 * time.Millisecond}

	m := NewManager(opts)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HandleWebSocket(w, r, strings.TrimPrefix(r.URL.Path, "/live/"))
	}))
	t.Cleanup(func() {
		m.Close()
		srv.Close()
	})
	return &testHarness{t: t, manager: m, server: srv}
}

func (h *testHarness) page(path string) *url.URL {
	u, err := url.Parse(h.server.URL + path)
	if err != nil {
		h.t.Fatal(err)
	}
	return u
}

func (h *testHarness) dial(id string) (*websocket.Conn, *http.Response, error) {
	wsURL := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/live/" + id
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

func (h *testHarness) attach(s *Session) *websocket.Conn {
	h.t.Helper()
	conn, _, err := h.dial(s.ID())
	if err != nil {
		h.t.Fatalf("Dial() error = %v", err)
	}
	h.t.Cleanup(func() { conn.Close() })
	return conn
}

// next reads messages until one satisfies match
func next(t *testing.T, conn *websocket.Conn, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func isType(typ MessageType) func(ServerMessage) bool {
	return func(m ServerMessage) bool { return m.Type == typ }
}

func isPatch(mount string) func(ServerMessage) bool {
	return func(m ServerMessage) bool { return m.Type == MsgPatch && m.Mount == mount }
}

func TestSession_InitialRender(t *testing.T) {
	h := newHarness(t, Options{})

	post := h.manager.Create(h.page("/blog/first"))
	if post.Render(MountTOC) == nil {
		t.Error("Render(toc) = nil on a post page")
	}
	if post.Render(MountProgress) != nil {
		t.Error("Render(progress) should be nil while idle")
	}

	home := h.manager.Create(h.page("/"))
	if home.Render(MountTOC) != nil {
		t.Error("Render(toc) should be nil without content")
	}
	if h.manager.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.manager.Len())
	}
}

func TestSession_ObserveAndIntersect(t *testing.T) {
	h := newHarness(t, Options{})
	s := h.manager.Create(h.page("/blog/first"))
	conn := h.attach(s)

	obs := next(t, conn, isType(MsgObserve))
	if want := []string{"heading-0", "heading-1", "heading-2"}; !reflect.DeepEqual(obs.IDs, want) {
		t.Errorf("observe ids = %v, want %v", obs.IDs, want)
	}
	if obs.RootMargin != "-80px 0px -80% 0px" {
		t.Errorf("rootMargin = %q", obs.RootMargin)
	}

	conn.WriteJSON(ClientMessage{Type: MsgHello, URL: h.server.URL + "/blog/first"})
	conn.WriteJSON(ClientMessage{Type: MsgIntersect, Entries: []toc.Entry{
		{ID: "heading-1", Intersecting: true},
	}})

	msg := next(t, conn, isPatch(MountTOC))
	found := false
	for _, p := range msg.Patches {
		if p.Op == vdom.OpSetAttribute && p.Key == "class" && reflect.DeepEqual(p.Path, []int{2, 1}) {
			found = strings.Contains(p.Value, "toc-active")
		}
	}
	if !found {
		t.Errorf("patches = %+v, want class set on the second item", msg.Patches)
	}
}

func TestSession_SelectScrolls(t *testing.T) {
	h := newHarness(t, Options{})
	s := h.manager.Create(h.page("/blog/first"))
	conn := h.attach(s)

	conn.WriteJSON(ClientMessage{
		Type: MsgSelect,
		ID:   "heading-2",
		Layout: &Layout{
			ScrollY: 400,
			Tops:    map[string]float64{"heading-2": 900},
		},
	})
	msg := next(t, conn, isType(MsgScroll))
	if msg.Y != 1220 {
		t.Errorf("scroll y = %v, want 1220", msg.Y)
	}
}

func TestSession_ToggleSendsPatch(t *testing.T) {
	h := newHarness(t, Options{})
	s := h.manager.Create(h.page("/blog/first"))
	conn := h.attach(s)

	conn.WriteJSON(ClientMessage{Type: MsgToggle})
	msg := next(t, conn, isPatch(MountTOC))

	var expanded bool
	for _, p := range msg.Patches {
		if p.Key == "aria-expanded" && p.Value == "true" {
			expanded = true
		}
	}
	if !expanded {
		t.Errorf("patches = %+v, want aria-expanded=true", msg.Patches)
	}
}

func TestSession_NavigationProgress(t *testing.T) {
	h := newHarness(t, Options{})
	s := h.manager.Create(h.page("/blog/first"))
	conn := h.attach(s)
	conn.WriteJSON(ClientMessage{Type: MsgHello, URL: h.server.URL + "/blog/first"})

	// External links are not tracked
	conn.WriteJSON(ClientMessage{Type: MsgClick, Click: &progress.LinkClick{Href: "https://example.com/"}})
	conn.WriteJSON(ClientMessage{Type: MsgClick, Click: &progress.LinkClick{Href: h.server.URL + "/blog/second"}})

	nav := next(t, conn, isType(MsgNavigate))
	if nav.Href != "/blog/second" {
		t.Errorf("navigate href = %q, want /blog/second", nav.Href)
	}

	shown := next(t, conn, isPatch(MountProgress))
	if p := shown.Patches[0]; p.Op != vdom.OpReplace || !strings.Contains(p.HTML, "nav-progress") {
		t.Errorf("first progress patch = %+v, want bar mounted", p)
	}

	conn.WriteJSON(ClientMessage{Type: MsgRoute, Path: "/blog/second"})

	obs := next(t, conn, func(m ServerMessage) bool { return m.Type == MsgObserve && len(m.IDs) > 0 })
	if !reflect.DeepEqual(obs.IDs, []string{"heading-0"}) {
		t.Errorf("observe after route = %v, want [heading-0]", obs.IDs)
	}

	hidden := next(t, conn, func(m ServerMessage) bool {
		if m.Type != MsgPatch || m.Mount != MountProgress {
			return false
		}
		p := m.Patches[0]
		return p.Op == vdom.OpReplace && len(p.Path) == 0 && p.HTML == ""
	})
	if len(hidden.Patches) != 1 {
		t.Errorf("hide patches = %+v", hidden.Patches)
	}
}

func TestSession_RouteResyncsTOC(t *testing.T) {
	h := newHarness(t, Options{})
	s := h.manager.Create(h.page("/blog/first"))
	conn := h.attach(s)

	conn.WriteJSON(ClientMessage{Type: MsgRoute, Path: "/blog/second"})
	msg := next(t, conn, isPatch(MountTOC))

	p := msg.Patches[0]
	if p.Op != vdom.OpReplace || len(p.Path) != 0 {
		t.Fatalf("patch = %+v, want full replace", p)
	}
	if !strings.Contains(p.HTML, "Only") || strings.Contains(p.HTML, "Intro") {
		t.Errorf("replacement = %s, want the second post's headings", p.HTML)
	}
}

func TestManager_UnknownAndDuplicate(t *testing.T) {
	h := newHarness(t, Options{})

	_, resp, err := h.dial("missing")
	if err == nil {
		t.Fatal("Dial() to an unknown session succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %v, want 404", resp)
	}

	s := h.manager.Create(h.page("/"))
	h.attach(s)
	_, resp, err = h.dial(s.ID())
	if err == nil {
		t.Fatal("second Dial() succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate attach status = %v, want 409", resp)
	}
}

func TestManager_DisconnectTearsDown(t *testing.T) {
	h := newHarness(t, Options{})
	s := h.manager.Create(h.page("/blog/first"))
	conn := h.attach(s)
	next(t, conn, isType(MsgObserve))

	conn.Close()

	select {
	case <-s.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("session not closed after disconnect")
	}
	if _, err := h.manager.Get(s.ID()); err != ErrSessionNotFound {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
	if s.loop.PendingFrames() != 0 || s.loop.PendingTimers() != 0 {
		t.Error("pending work left after teardown")
	}
}

func TestManager_AttachTimeout(t *testing.T) {
	h := newHarness(t, Options{AttachTimeout: 20 * time.Millisecond})
	s := h.manager.Create(h.page("/blog/first"))

	select {
	case <-s.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("unattached session did not expire")
	}
	if h.manager.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.manager.Len())
	}
}

func TestManager_ExpiryRacesClose(t *testing.T) {
	h := newHarness(t, Options{AttachTimeout: time.Millisecond})

	sessions := make([]*Session, 20)
	for i := range sessions {
		sessions[i] = h.manager.Create(h.page("/blog/first"))
		if i%2 == 0 {
			go sessions[i].Close()
		}
	}

	for i, s := range sessions {
		select {
		case <-s.Done():
		case <-time.After(3 * time.Second):
			t.Fatalf("session %d never closed", i)
		}
	}
	if h.manager.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.manager.Len())
	}
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		allowed []string
		origin  string
		want    bool
	}{
		{origin: "", want: true},
		{origin: "http://example.com", want: true},
		{origin: "http://evil.test", want: false},
		{allowed: []string{"*"}, origin: "http://evil.test", want: true},
		{allowed: []string{"https://toolbench.dev"}, origin: "https://toolbench.dev", want: true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://example.com/live/x", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := checkOrigin(tt.allowed)(r); got != tt.want {
			t.Errorf("checkOrigin(%v)(%q) = %v, want %v", tt.allowed, tt.origin, got, tt.want)
		}
	}
}
