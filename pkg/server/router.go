package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/toolbench/toolbench/internal/content"
	"github.com/toolbench/toolbench/pkg/live"
	htmlrenderer "github.com/toolbench/toolbench/pkg/renderer/html"
	"github.com/toolbench/toolbench/pkg/vdom"
)

// HandlerFunc is the signature for page handlers. The returned tree is the
// page body; the layout adds the document and chrome around it.
type HandlerFunc func(ctx Ctx) (*vdom.VNode, error)

// APIHandlerFunc is the signature for API route handlers
type APIHandlerFunc func(r *http.Request) (any, error)

// page adapts a page handler to net/http
func (s *Server) page(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := newContext(s, w, r)
		if s.opts.Live != nil && !isStatic(r) && r.Header.Get(live.NavigateHeader) == "" {
			ctx.session = s.opts.Live.Create(pageURL(r))
		}

		// Handle panics
		defer func() {
			if err := recover(); err != nil {
				ctx.Logger().Error("panic in handler", "error", err)
				s.handleError(ctx, fmt.Errorf("internal server error: %v", err))
			}
		}()

		body, err := h(ctx)
		if err != nil {
			s.handleError(ctx, err)
			return
		}
		s.write(ctx, body)
	}
}

// handleError renders the not-found page for content.ErrNotFound and the
// error page for anything else
func (s *Server) handleError(ctx *ctxImpl, err error) {
	if errors.Is(err, content.ErrNotFound) {
		ctx.Logger().Debug("not found", "error", err)
		body, _ := s.notFound(ctx)
		s.write(ctx, body)
		return
	}

	ctx.Logger().Error("handler error", "error", err)
	ctx.Status(http.StatusInternalServerError)
	ctx.SetTitle("Something went wrong")
	s.write(ctx, vdom.Section(vdom.Props{"class": "error-page"},
		vdom.H1(nil, vdom.Text("Something went wrong")),
		vdom.P(nil, vdom.Text("The page could not be rendered. Please try again later.")),
		vdom.P(nil, vdom.A(vdom.Props{"href": "/"}, vdom.Text("Back to the home page"))),
	))
}

// write renders the page document and sends it
func (s *Server) write(ctx *ctxImpl, body *vdom.VNode) {
	var buf bytes.Buffer
	if err := htmlrenderer.RenderDocument(&buf, s.layout(ctx, body)); err != nil {
		ctx.Logger().Error("failed to render page", "error", err)
		http.Error(ctx.w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	if ctx.session != nil {
		ctx.SetHeader("Cache-Control", "no-store")
	}
	ctx.w.WriteHeader(ctx.StatusCode())
	ctx.w.Write(buf.Bytes())
}

// api adapts an API handler, serialising its result as JSON
func (s *Server) api(h APIHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h(r)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, content.ErrNotFound) {
				status = http.StatusNotFound
			} else {
				s.logger.Error("api error", "path", r.URL.Path, "error", err)
			}
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
