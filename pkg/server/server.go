// Package server renders the Toolbench site: tool pages, the blog and the
// chrome around them. Pages are built as vdom trees and rendered on the
// server; when a live manager is configured every page view also gets a
// live session that hosts its reading-progress widgets.
package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/toolbench/toolbench/internal/content"
	"github.com/toolbench/toolbench/pkg/live"
	"github.com/toolbench/toolbench/pkg/toc"
	"github.com/toolbench/toolbench/pkg/vdom"
)

// Site describes the published site
type Site struct {
	Title       string
	BaseURL     string
	Description string
}

// Options configures a Server
type Options struct {
	Site  Site
	Store *content.Store

	// Live hosts the interactive widgets; nil renders every page statically
	Live *live.Manager

	// TOC configures statically rendered tables of contents
	TOC toc.Options

	// AllowedOrigins is the CORS allow-list of the JSON API
	AllowedOrigins []string

	Logger *slog.Logger
}

// Server serves the site
type Server struct {
	opts   Options
	logger *slog.Logger
	router chi.Router
}

// New creates a server and builds its routes
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TOC.Title == "" {
		opts.TOC = toc.DefaultOptions()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	opts.Site.BaseURL = strings.TrimSuffix(opts.Site.BaseURL, "/")

	s := &Server{
		opts:   opts,
		logger: opts.Logger.With("component", "server"),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get(SiteScriptPath, serveSiteScript)

	if s.opts.Live != nil {
		r.Get("/live/bridge.js", s.opts.Live.ServeBridge)
		r.Get("/live/{session}", func(w http.ResponseWriter, r *http.Request) {
			s.opts.Live.HandleWebSocket(w, r, chi.URLParam(r, "session"))
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/posts", s.api(s.apiPosts))
		r.Get("/posts/*", s.api(s.apiHeadings))
	})

	r.Get("/", s.page(s.home))
	r.Get("/tools", s.page(s.toolsIndex))
	r.Get("/tools/{slug}", s.page(s.tool))
	r.Get("/blog", s.page(s.blogIndex))
	r.Get("/blog/*", s.page(s.post))
	r.NotFound(s.page(s.notFound))

	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router returns the chi router for registering additional routes
func (s *Server) Router() chi.Router { return s.router }

// Site returns the site description
func (s *Server) Site() Site { return s.opts.Site }

type staticKey struct{}

func isStatic(r *http.Request) bool {
	static, _ := r.Context().Value(staticKey{}).(bool)
	return static
}

// Render renders one site path without a network listener or live
// session. Paths that do not resolve to a page fail with an error wrapping
// content.ErrNotFound.
func (s *Server) Render(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(context.WithValue(ctx, staticKey{}, true), http.MethodGet, s.opts.Site.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}

	rec := &recorder{header: make(http.Header), status: http.StatusOK}
	s.router.ServeHTTP(rec, req)

	switch {
	case rec.status == http.StatusNotFound:
		return nil, fmt.Errorf("render %s: %w", path, content.ErrNotFound)
	case rec.status != http.StatusOK:
		return nil, fmt.Errorf("render %s: status %d", path, rec.status)
	}
	return rec.body.Bytes(), nil
}

// Paths lists every path a static export needs
func (s *Server) Paths() []string {
	paths := []string{"/", "/tools"}
	for _, t := range content.Tools() {
		paths = append(paths, t.URL())
	}
	paths = append(paths, "/blog")
	for _, p := range s.opts.Store.Posts() {
		paths = append(paths, p.URL())
	}
	return append(paths, "/sitemap.xml", "/robots.txt", SiteScriptPath)
}

// ContentFor resolves site paths to annotated post HTML; it backs both the
// live sessions and static tables of contents
func ContentFor(store *content.Store) func(path string) (string, bool) {
	return func(path string) (string, bool) {
		slug, ok := strings.CutPrefix(path, "/blog/")
		if !ok || slug == "" {
			return "", false
		}
		post, err := store.Post(strings.TrimSuffix(slug, "/"))
		if err != nil {
			return "", false
		}
		return post.HTML, true
	}
}

// staticWidget renders a widget the way a fresh live session would
func (s *Server) staticWidget(name, path string) *vdom.VNode {
	if name != live.MountTOC {
		return nil
	}
	html, ok := ContentFor(s.opts.Store)(path)
	if !ok {
		return nil
	}
	w := toc.NewWidget(s.opts.TOC)
	w.SetContent(html)
	return w.Render()
}

// pageURL reconstructs the absolute URL the client requested
func pageURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// recorder captures a response rendered in-process
type recorder struct {
	header http.Header
	status int
	wrote  bool
	body   bytes.Buffer
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(code int) {
	if r.wrote {
		return
	}
	r.wrote = true
	r.status = code
}

func (r *recorder) Write(p []byte) (int, error) {
	r.wrote = true
	return r.body.Write(p)
}
