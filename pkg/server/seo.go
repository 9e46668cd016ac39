package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/toolbench/toolbench/internal/content"
	"github.com/toolbench/toolbench/pkg/toc"
)

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap builds the sitemap of every page
func (s *Server) Sitemap() ([]byte, error) {
	base := s.opts.Site.BaseURL
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, path := range []string{"/", "/tools", "/blog"} {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + path})
	}
	for _, t := range content.Tools() {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + t.URL()})
	}
	for _, p := range s.opts.Store.Posts() {
		u := sitemapURL{Loc: base + p.URL()}
		if mod := lastModified(p); !mod.IsZero() {
			u.LastMod = mod.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sitemap: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

func lastModified(p *content.Post) time.Time {
	if p.Updated.After(p.Date) {
		return p.Updated
	}
	return p.Date
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	data, err := s.Sitemap()
	if err != nil {
		s.logger.Error("building sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /live/\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", s.opts.Site.BaseURL)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(b.String()))
}

// PostSummary is the JSON listing entry of a post
type PostSummary struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Date     time.Time `json:"date"`
	Tags     []string  `json:"tags,omitempty"`
	Headings int       `json:"headings"`
}

func (s *Server) apiPosts(r *http.Request) (any, error) {
	posts := s.opts.Store.Posts()
	out := make([]PostSummary, len(posts))
	for i, p := range posts {
		out[i] = PostSummary{
			Slug:     p.Slug,
			Title:    p.Title,
			URL:      p.URL(),
			Date:     p.Date,
			Tags:     p.Tags,
			Headings: len(p.Headings),
		}
	}
	return out, nil
}

// apiHeadings serves /api/posts/{slug}/headings; slugs may contain slashes
func (s *Server) apiHeadings(r *http.Request) (any, error) {
	rest := strings.Trim(chi.URLParam(r, "*"), "/")
	slug, ok := strings.CutSuffix(rest, "/headings")
	if !ok || slug == "" {
		return nil, fmt.Errorf("api %s: %w", r.URL.Path, content.ErrNotFound)
	}

	p, err := s.opts.Store.Post(slug)
	if err != nil {
		return nil, err
	}
	if p.Headings == nil {
		return []toc.Heading{}, nil
	}
	return p.Headings, nil
}
