package live

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/toolbench/toolbench/pkg/progress"
	"github.com/toolbench/toolbench/pkg/reactive"
	htmlrenderer "github.com/toolbench/toolbench/pkg/renderer/html"
	"github.com/toolbench/toolbench/pkg/scheduler"
	"github.com/toolbench/toolbench/pkg/toc"
	"github.com/toolbench/toolbench/pkg/vdom"
)

// Session hosts the widgets of one page view. Widget state is owned by the
// session's loop goroutine; messages from the client are posted to it.
type Session struct {
	id     string
	logger *slog.Logger
	opts   *Options
	loop   *scheduler.Loop

	page      *url.URL
	route     *reactive.State[string]
	indicator *progress.Indicator
	toc       *toc.Widget
	view      *viewport
	obs       *remoteObserver

	mounts map[string]*mount
	frame  *scheduler.Task
	offs   []func()

	out      chan []byte
	attached atomic.Bool
	started  atomic.Bool
	closing  atomic.Bool
	// expiry is read by its own callback, on the timer goroutine
	expiry atomic.Pointer[time.Timer]

	closeOnce sync.Once
	closed    chan struct{}
	onClose   func()
}

type mount struct {
	render func() *vdom.VNode
	last   *vdom.VNode
	dirty  bool
	// synced is false when the client's DOM no longer matches last
	synced bool
}

func newSession(id string, page *url.URL, opts *Options, onClose func()) *Session {
	logger := opts.Logger.With("session", id)
	loop := scheduler.NewLoop(opts.FrameRate, logger)

	s := &Session{
		id:      id,
		logger:  logger,
		opts:    opts,
		loop:    loop,
		page:    page,
		route:   reactive.NewState(page.Path),
		out:     make(chan []byte, sendBuffer),
		closed:  make(chan struct{}),
		onClose: onClose,
	}
	s.view = &viewport{session: s}
	s.indicator = progress.NewIndicator(loop, s.route, opts.Progress)

	tocOpts := opts.TOC
	tocOpts.Observers = s.newObserver
	tocOpts.Viewport = s.view
	s.toc = toc.NewWidget(tocOpts)
	s.loadContent(page.Path)

	s.mounts = map[string]*mount{
		MountProgress: {render: s.indicator.Render},
		MountTOC:      {render: s.toc.Render},
	}
	for _, m := range s.mounts {
		m.last = m.render()
		m.synced = true
	}

	s.offs = append(s.offs,
		s.indicator.OnChange(func() { s.invalidate(MountProgress) }),
		s.toc.OnChange(func() { s.invalidate(MountTOC) }),
	)
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Render returns the tree the session believes mount shows. The page
// renderer embeds it in the initial HTML, so it must only be called before
// the client attaches.
func (s *Session) Render(name string) *vdom.VNode {
	if m, ok := s.mounts[name]; ok {
		return m.last
	}
	return nil
}

// Post runs fn on the session's loop
func (s *Session) Post(fn func()) {
	s.loop.Post(fn)
}

// Done is closed when the session has been torn down
func (s *Session) Done() <-chan struct{} {
	return s.closed
}

func (s *Session) start() {
	if s.started.CompareAndSwap(false, true) {
		s.loop.Start()
	}
}

func (s *Session) loadContent(path string) {
	var content string
	if s.opts.Content != nil {
		content, _ = s.opts.Content(path)
	}
	s.toc.SetContent(content)
}

func (s *Session) invalidate(name string) {
	m, ok := s.mounts[name]
	if !ok {
		return
	}
	m.dirty = true
	if !s.frame.Pending() {
		s.frame = s.loop.RequestFrame(s.flush)
	}
}

// flush sends one patch message per changed mount. Any number of state
// changes between two frames collapse into a single diff.
func (s *Session) flush(time.Time) {
	s.frame = nil

	names := make([]string, 0, len(s.mounts))
	for name := range s.mounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := s.mounts[name]
		if !m.dirty {
			continue
		}
		m.dirty = false

		next := m.render()
		var patches []vdom.Patch
		if m.synced {
			patches = vdom.Diff(m.last, next)
		} else {
			patches = []vdom.Patch{{Op: vdom.OpReplace, Path: []int{}, Node: next}}
		}
		m.last = next
		if len(patches) == 0 {
			continue
		}

		if s.send(ServerMessage{Type: MsgPatch, Mount: name, Patches: s.wire(patches)}) {
			m.synced = true
			continue
		}
		// Dropped; resend the whole mount on the next frame
		m.synced = false
		m.dirty = true
		if !s.frame.Pending() {
			s.frame = s.loop.RequestFrame(s.flush)
		}
	}
}

func (s *Session) wire(patches []vdom.Patch) []WirePatch {
	out := make([]WirePatch, len(patches))
	for i, p := range patches {
		out[i] = WirePatch{Patch: p}
		if p.Op == vdom.OpReplace && p.Node != nil {
			html, err := htmlrenderer.RenderToString(p.Node)
			if err != nil {
				s.logger.Error("rendering replacement", "error", err)
				continue
			}
			out[i].HTML = html
		}
	}
	return out
}

// send queues a message for the writer without blocking the loop
func (s *Session) send(msg ServerMessage) bool {
	if s.closing.Load() {
		return false
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encoding message", "type", msg.Type, "error", err)
		return false
	}
	select {
	case s.out <- data:
		return true
	default:
		s.logger.Warn("send buffer full, dropping message", "type", msg.Type)
		return false
	}
}

// dispatch handles one client message on the loop goroutine
func (s *Session) dispatch(msg ClientMessage) {
	switch msg.Type {
	case MsgHello:
		if u, err := url.Parse(msg.URL); err == nil && u.IsAbs() {
			s.page = u
		}
		s.view.layout.Narrow = msg.Narrow
		s.logger.Debug("client hello", "url", msg.URL)

	case MsgClick:
		if msg.Click == nil {
			return
		}
		if s.indicator.HandleClick(*msg.Click, s.page) {
			dest, _ := s.page.Parse(msg.Click.Href)
			s.send(ServerMessage{Type: MsgNavigate, Href: dest.RequestURI()})
		}

	case MsgRoute:
		dest, err := s.page.Parse(msg.Path)
		if err != nil {
			s.logger.Warn("bad route", "path", msg.Path, "error", err)
			return
		}
		s.page = dest
		s.route.Set(dest.Path)

		// The client swapped in a freshly rendered page, so the old
		// observation set and TOC markup are gone
		s.toc.Unmount()
		s.loadContent(dest.Path)
		if m := s.mounts[MountTOC]; m != nil {
			m.synced = false
		}
		s.invalidate(MountTOC)

	case MsgIntersect:
		if s.obs != nil {
			s.obs.callback(msg.Entries)
		}

	case MsgSelect:
		if msg.Layout != nil {
			s.view.layout = *msg.Layout
		}
		s.toc.Select(msg.ID)

	case MsgToggle:
		s.toc.Toggle()

	default:
		s.logger.Debug("unknown message", "type", msg.Type)
	}
}

// refresh re-reads the current page's content after a reload
func (s *Session) refresh() {
	s.loadContent(s.route.Get())
}

// expireAfter closes the session unless a client attaches within d
func (s *Session) expireAfter(d time.Duration) {
	s.expiry.Store(time.AfterFunc(d, func() {
		if !s.attached.Load() {
			s.logger.Debug("session expired before attach")
			s.Close()
		}
	}))
}

func (s *Session) stopExpiry() {
	if t := s.expiry.Load(); t != nil {
		t.Stop()
	}
}

// Close tears the session down: widgets are unmounted, every pending frame
// and timer is cancelled and the loop stops. It must not be called from
// the session's loop goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closing.Store(true)
		s.stopExpiry()

		teardown := func() {
			for _, off := range s.offs {
				off()
			}
			s.frame.Cancel()
			s.indicator.Unmount()
			s.toc.Unmount()
		}
		if s.started.Load() {
			s.loop.Call(teardown)
		} else {
			teardown()
		}
		s.loop.Stop()

		// Done fires only once the manager has forgotten the session
		if s.onClose != nil {
			s.onClose()
		}
		close(s.closed)
		s.logger.Debug("session closed")
	})
}

// remoteObserver forwards observation requests to the browser, which runs
// an IntersectionObserver and reports back with intersect messages
type remoteObserver struct {
	session  *Session
	margin   toc.RootMargin
	callback func([]toc.Entry)
}

func (s *Session) newObserver(margin toc.RootMargin, callback func([]toc.Entry)) toc.Observer {
	o := &remoteObserver{session: s, margin: margin, callback: callback}
	s.obs = o
	return o
}

func (o *remoteObserver) Observe(ids []string) {
	o.session.send(ServerMessage{
		Type:       MsgObserve,
		IDs:        slices.Clone(ids),
		RootMargin: o.margin.String(),
	})
}

func (o *remoteObserver) Disconnect() {
	if o.session.obs != o {
		return
	}
	o.session.obs = nil
	o.session.send(ServerMessage{Type: MsgObserve})
}

// viewport answers the navigator from the layout the client sent with its
// last select, and scrolls by asking the client to
type viewport struct {
	session *Session
	layout  Layout
}

func (v *viewport) ElementTop(id string) (float64, bool) {
	top, ok := v.layout.Tops[id]
	return top, ok
}

func (v *viewport) ScrollY() float64 {
	return v.layout.ScrollY
}

func (v *viewport) ScrollTo(y float64) {
	v.session.send(ServerMessage{Type: MsgScroll, Y: y})
}

func (v *viewport) Narrow() bool {
	return v.layout.Narrow
}
