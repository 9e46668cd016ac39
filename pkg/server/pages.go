package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/toolbench/toolbench/internal/content"
	"github.com/toolbench/toolbench/pkg/components"
	"github.com/toolbench/toolbench/pkg/live"
	"github.com/toolbench/toolbench/pkg/vdom"
)

// latestPosts is how many posts the home page features
const latestPosts = 3

func (s *Server) home(ctx Ctx) (*vdom.VNode, error) {
	site := s.opts.Site

	posts := s.opts.Store.Posts()
	if len(posts) > latestPosts {
		posts = posts[:latestPosts]
	}

	return vdom.Div(vdom.Props{"class": "home"},
		vdom.Section(vdom.Props{"class": "hero"},
			vdom.H1(nil, vdom.Text(site.Title)),
			vdom.If(site.Description != "", vdom.P(nil, vdom.Text(site.Description))),
		),
		vdom.If(len(posts) > 0, vdom.Section(nil,
			vdom.H2(nil, vdom.Text("Latest posts")),
			postCards(posts),
		)),
		vdom.Section(nil,
			vdom.H2(nil, vdom.Text("Tools")),
			toolCards(content.Tools()),
		),
	), nil
}

func (s *Server) toolsIndex(ctx Ctx) (*vdom.VNode, error) {
	ctx.SetTitle("Tools")
	ctx.SetDescription("Small utilities for everyday development work.")

	sections := []*vdom.VNode{vdom.H1(nil, vdom.Text("Tools"))}
	for _, category := range content.Categories() {
		sections = append(sections, vdom.Section(nil,
			vdom.H2(nil, vdom.Text(category)),
			toolCards(content.ToolsInCategory(category)),
		))
	}
	return vdom.Div(vdom.Props{"class": "tools-index"}, sections...), nil
}

func (s *Server) tool(ctx Ctx) (*vdom.VNode, error) {
	t, err := content.LookupTool(ctx.Param("slug"))
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", ctx.Param("slug"), err)
	}
	ctx.SetTitle(t.Name)
	ctx.SetDescription(t.Summary)
	ctx.NameCrumb(t.URL(), t.Name)

	return vdom.Article(vdom.Props{"class": "tool"},
		vdom.Div(vdom.Props{"class": "card-eyebrow"}, vdom.Text(t.Category)),
		vdom.H1(nil, vdom.Text(t.Name)),
		vdom.P(nil, vdom.Text(t.Summary)),
		vdom.Div(vdom.Props{"class": "tool-placeholder", "data-tool": t.Slug},
			vdom.P(nil, vdom.Text("This tool is on its way.")),
		),
	), nil
}

func (s *Server) blogIndex(ctx Ctx) (*vdom.VNode, error) {
	ctx.SetTitle("Blog")
	ctx.SetDescription("Notes on the tools and the techniques behind them.")

	posts := s.opts.Store.Posts()
	if len(posts) == 0 {
		return vdom.Div(vdom.Props{"class": "blog-index"},
			vdom.H1(nil, vdom.Text("Blog")),
			vdom.P(nil, vdom.Text("No posts yet.")),
		), nil
	}
	return vdom.Div(vdom.Props{"class": "blog-index"},
		vdom.H1(nil, vdom.Text("Blog")),
		postCards(posts),
	), nil
}

func (s *Server) post(ctx Ctx) (*vdom.VNode, error) {
	slug := strings.Trim(ctx.Param("*"), "/")
	p, err := s.opts.Store.Post(slug)
	if err != nil {
		return nil, err
	}

	ctx.SetTitle(p.Title)
	ctx.SetDescription(p.Description)
	ctx.NameCrumb(p.URL(), p.Title)

	byline := components.BylineProps{
		Published: p.Date,
		Updated:   p.Updated,
		Minutes:   p.ReadingTime(),
	}
	var author *content.Author
	if p.Author != "" {
		if a, err := s.opts.Store.Author(p.Author); err == nil {
			author = &a
			byline.Name = a.Name
			byline.URL = a.URL
			byline.Avatar = a.Avatar
		}
	}

	ld, err := s.blogPosting(p, author)
	if err != nil {
		ctx.Logger().Warn("structured data", "error", err)
	} else {
		ctx.AddHead(vdom.Script(vdom.Props{"type": "application/ld+json"}, vdom.Text(ld)))
	}

	var tags *vdom.VNode
	if len(p.Tags) > 0 {
		items := make([]*vdom.VNode, len(p.Tags))
		for i, tag := range p.Tags {
			items[i] = vdom.Li(vdom.Props{"class": "tag"}, vdom.Text(tag))
		}
		tags = vdom.Ul(vdom.Props{"class": "tags"}, items...)
	}

	// A live session keeps the mount so a content reload can fill it
	var aside *vdom.VNode
	if len(p.Headings) > 0 || ctx.Session() != nil {
		aside = vdom.Aside(vdom.Props{"class": "post-toc"}, ctx.Mount(live.MountTOC))
	}

	return vdom.Div(vdom.Props{"class": vdom.Classes("post-layout", bareClass(aside == nil))},
		vdom.Article(vdom.Props{"class": "post"},
			vdom.Header(nil,
				vdom.H1(nil, vdom.Text(p.Title)),
				components.Byline(byline),
				tags,
			),
			vdom.Div(vdom.Props{"class": "post-body"}, vdom.NewRaw(p.HTML)),
		),
		aside,
	), nil
}

func bareClass(bare bool) string {
	if bare {
		return "post-layout-bare"
	}
	return ""
}

func (s *Server) notFound(ctx Ctx) (*vdom.VNode, error) {
	ctx.Status(http.StatusNotFound)
	ctx.SetTitle("Page not found")
	return vdom.Section(vdom.Props{"class": "error-page"},
		vdom.H1(nil, vdom.Text("Page not found")),
		vdom.P(nil, vdom.Text("There is nothing at "+ctx.Path()+".")),
		vdom.P(nil, vdom.A(vdom.Props{"href": "/"}, vdom.Text("Back to the home page"))),
	), nil
}

func toolCards(tools []content.Tool) *vdom.VNode {
	cards := make([]*vdom.VNode, len(tools))
	for i, t := range tools {
		cards[i] = components.Card(components.CardProps{
			Key:     t.Slug,
			Title:   t.Name,
			Href:    t.URL(),
			Eyebrow: t.Category,
			Summary: t.Summary,
		})
	}
	return components.CardGrid(cards...)
}

func postCards(posts []*content.Post) *vdom.VNode {
	cards := make([]*vdom.VNode, len(posts))
	for i, p := range posts {
		var meta *vdom.VNode
		if !p.Date.IsZero() {
			meta = vdom.Span(nil,
				components.Date(p.Date),
				vdom.Text(fmt.Sprintf(" · %d min read", p.ReadingTime())),
			)
		}
		cards[i] = components.Card(components.CardProps{
			Key:     p.Slug,
			Title:   p.Title,
			Href:    p.URL(),
			Summary: p.Description,
			Meta:    meta,
		})
	}
	return components.CardGrid(cards...)
}

// blogPosting builds the schema.org structured data for a post
func (s *Server) blogPosting(p *content.Post, author *content.Author) (string, error) {
	type person struct {
		Type string `json:"@type"`
		Name string `json:"name"`
		URL  string `json:"url,omitempty"`
	}
	doc := struct {
		Context       string   `json:"@context"`
		Type          string   `json:"@type"`
		Headline      string   `json:"headline"`
		Description   string   `json:"description,omitempty"`
		URL           string   `json:"url"`
		DatePublished string   `json:"datePublished,omitempty"`
		DateModified  string   `json:"dateModified,omitempty"`
		Author        *person  `json:"author,omitempty"`
		WordCount     int      `json:"wordCount"`
		Keywords      []string `json:"keywords,omitempty"`
	}{
		Context:     "https://schema.org",
		Type:        "BlogPosting",
		Headline:    p.Title,
		Description: p.Description,
		URL:         s.opts.Site.BaseURL + p.URL(),
		WordCount:   p.Words,
		Keywords:    p.Tags,
	}
	if !p.Date.IsZero() {
		doc.DatePublished = p.Date.Format("2006-01-02")
		doc.DateModified = doc.DatePublished
	}
	if !p.Updated.IsZero() {
		doc.DateModified = p.Updated.Format("2006-01-02")
	}
	if author != nil {
		doc.Author = &person{Type: "Person", Name: author.Name, URL: author.URL}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("blog posting %s: %w", p.Slug, err)
	}
	return string(data), nil
}
