// Package live hosts the site's interactive widgets server-side. Each page
// view gets a Session whose widgets run on their own scheduler loop; a
// small browser bridge forwards clicks, scroll intersections and
// navigations over a websocket and applies the patches sent back.
package live

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/toolbench/toolbench/pkg/progress"
	"github.com/toolbench/toolbench/pkg/toc"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("live: session not found")

// ErrSessionAttached is returned when a second connection targets a session
var ErrSessionAttached = errors.New("live: session already attached")

const (
	sendBuffer     = 256
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 << 10
)

// Options configures the widgets hosted by every session
type Options struct {
	FrameRate int
	Progress  progress.Config
	TOC       toc.Options

	// Content returns the rendered post HTML for a site path, or false
	// when the page has no table of contents
	Content func(path string) (string, bool)

	// AttachTimeout bounds how long a session waits for its websocket
	AttachTimeout time.Duration

	// AllowedOrigins lists origins allowed to connect; "*" allows any.
	// Empty means same host only.
	AllowedOrigins []string

	Logger *slog.Logger
}

// Manager creates sessions for rendered pages and serves their websockets
type Manager struct {
	opts     Options
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Logger = opts.Logger.With("component", "live")
	if opts.AttachTimeout <= 0 {
		opts.AttachTimeout = 30 * time.Second
	}

	m := &Manager{
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[string]*Session),
	}
	m.upgrader = websocket.Upgrader{
		CheckOrigin:     checkOrigin(opts.AllowedOrigins),
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return m
}

// Create starts a session for a page about to be rendered. The session
// is closed if no client attaches within the attach timeout.
func (m *Manager) Create(page *url.URL) *Session {
	id := uuid.NewString()
	s := newSession(id, page, &m.opts, func() { m.remove(id) })

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	s.expireAfter(m.opts.AttachTimeout)
	return s
}

// Get retrieves a session by id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Refresh re-reads page content in every session, after a content reload
func (m *Manager) Refresh() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		s.Post(s.refresh)
	}
}

// Close tears down every session
func (m *Manager) Close() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}

// HandleWebSocket upgrades the request and runs the session with the given
// id until the client disconnects
func (m *Manager) HandleWebSocket(w http.ResponseWriter, r *http.Request, id string) {
	s, err := m.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if !s.attached.CompareAndSwap(false, true) {
		http.Error(w, ErrSessionAttached.Error(), http.StatusConflict)
		return
	}
	s.stopExpiry()

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("failed to upgrade connection", "session", id, "error", err)
		s.Close()
		return
	}

	s.serve(conn)
}

// serve pumps messages between the connection and the session
func (s *Session) serve(conn *websocket.Conn) {
	s.start()
	s.logger.Info("session attached", "path", s.page.Path)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writer(conn)
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("unexpected close", "error", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("bad client message", "error", err)
			continue
		}
		s.loop.Post(func() { s.dispatch(msg) })
	}

	s.Close()
	<-writerDone
	s.logger.Info("session detached")
}

// writer handles writing messages to the websocket
func (s *Session) writer(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message := <-s.out:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.closed:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
