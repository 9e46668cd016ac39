package server

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/toolbench/toolbench/pkg/live"
	"github.com/toolbench/toolbench/pkg/vdom"
)

// Ctx is the canonical interface passed to page handlers
type Ctx interface {
	// === Request ===
	Request() *http.Request // raw request pointer (read-only)
	Path() string           // path without query string
	Query() url.Values      // parsed query params
	Param(key string) string

	// === Response ===
	Status(code int) // set HTTP status (default 200)
	StatusCode() int
	SetHeader(key, val string)

	// === Page ===
	SetTitle(title string)
	SetDescription(desc string)
	AddHead(nodes ...*vdom.VNode)
	// NameCrumb overrides the breadcrumb label of a path prefix
	NameCrumb(href, label string)
	// Mount returns the placeholder a live widget renders into
	Mount(name string) *vdom.VNode

	// === Internal ===
	Session() *live.Session // nil when rendering without live widgets
	Logger() *slog.Logger
}

// ctxImpl is the internal implementation of Ctx
type ctxImpl struct {
	server     *Server
	req        *http.Request
	w          http.ResponseWriter
	statusCode int
	logger     *slog.Logger
	session    *live.Session

	title  string
	desc   string
	head   []*vdom.VNode
	crumbs map[string]string
}

func newContext(s *Server, w http.ResponseWriter, r *http.Request) *ctxImpl {
	logger := s.logger.With(
		"path", r.URL.Path,
		"method", r.Method,
	)
	if id := middleware.GetReqID(r.Context()); id != "" {
		logger = logger.With("request_id", id)
	}

	return &ctxImpl{
		server:     s,
		req:        r,
		w:          w,
		statusCode: http.StatusOK,
		logger:     logger,
		crumbs:     make(map[string]string),
	}
}

// === Request Methods ===

func (c *ctxImpl) Request() *http.Request {
	return c.req
}

func (c *ctxImpl) Path() string {
	return c.req.URL.Path
}

func (c *ctxImpl) Query() url.Values {
	return c.req.URL.Query()
}

func (c *ctxImpl) Param(key string) string {
	return chi.URLParam(c.req, key)
}

// === Response Methods ===

func (c *ctxImpl) Status(code int) {
	c.statusCode = code
}

func (c *ctxImpl) StatusCode() int {
	return c.statusCode
}

func (c *ctxImpl) SetHeader(key, val string) {
	c.w.Header().Set(key, val)
}

// === Page Methods ===

func (c *ctxImpl) SetTitle(title string) {
	c.title = title
}

func (c *ctxImpl) SetDescription(desc string) {
	c.desc = desc
}

func (c *ctxImpl) AddHead(nodes ...*vdom.VNode) {
	c.head = append(c.head, nodes...)
}

func (c *ctxImpl) NameCrumb(href, label string) {
	c.crumbs[href] = label
}

func (c *ctxImpl) Mount(name string) *vdom.VNode {
	var inner *vdom.VNode
	if c.session != nil {
		inner = c.session.Render(name)
	} else {
		inner = c.server.staticWidget(name, c.Path())
	}
	return vdom.Div(vdom.Props{
		"class":           "live-mount live-mount-" + name,
		"data-live-mount": name,
	}, inner)
}

// === Internal ===

func (c *ctxImpl) Session() *live.Session {
	return c.session
}

func (c *ctxImpl) Logger() *slog.Logger {
	return c.logger
}
