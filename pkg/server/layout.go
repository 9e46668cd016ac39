package server

import (
	"strings"

	"github.com/toolbench/toolbench/internal/content"
	"github.com/toolbench/toolbench/pkg/components"
	"github.com/toolbench/toolbench/pkg/live"
	"github.com/toolbench/toolbench/pkg/styling"
	"github.com/toolbench/toolbench/pkg/vdom"
)

var siteSheet = styling.Register(styling.New("site", `
:root { --text: #1f2328; --muted: #59636e; --accent: #0969da; --surface: #ffffff; --bg: #f6f8fa; --border: #d1d9e0; }
[data-theme="dark"] { --text: #e6edf3; --muted: #9198a1; --accent: #4493f8; --surface: #151b23; --bg: #0d1117; --border: #3d444d; }
* { box-sizing: border-box; }
html { scroll-padding-top: 80px; }
body { margin: 0; font: 16px/1.6 system-ui, sans-serif; color: var(--text); background: var(--bg); }
a { color: var(--accent); }
.skip-link { position: absolute; left: -999px; }
.skip-link:focus { left: 1rem; top: 1rem; z-index: 100; }
.site-header { position: sticky; top: 0; z-index: 30; height: 64px; display: flex; align-items: center; gap: 1rem; padding: 0 1.5rem; background: var(--surface); border-bottom: 1px solid var(--border); }
.brand { font-weight: 700; color: var(--text); text-decoration: none; margin-right: auto; }
.site-nav a { margin-left: 1rem; color: var(--muted); text-decoration: none; }
.site-nav a[aria-current] { color: var(--text); font-weight: 600; }
.page-grid { max-width: 72rem; margin: 0 auto; padding: 2rem 1.5rem; display: grid; gap: 2rem; }
.page-grid-sidebar { grid-template-columns: 14rem minmax(0, 1fr); }
.sidebar h2 { font-size: 0.75rem; text-transform: uppercase; color: var(--muted); }
.sidebar ul { list-style: none; padding: 0; margin: 0 0 1rem; }
.sidebar a { color: var(--text); text-decoration: none; font-size: 0.9375rem; }
.sidebar a[aria-current] { color: var(--accent); font-weight: 600; }
.card-grid { display: grid; gap: 1rem; grid-template-columns: repeat(auto-fill, minmax(16rem, 1fr)); }
.post-layout { display: grid; gap: 2rem; grid-template-columns: minmax(0, 1fr) 14rem; }
.post-toc { position: sticky; top: 80px; align-self: start; }
.post-layout-bare, .post-layout:has(.live-mount-toc:empty) { grid-template-columns: minmax(0, 1fr); }
.post-toc:has(.live-mount:empty) { display: none; }
.post-body pre { overflow-x: auto; padding: 1rem; border-radius: 0.375rem; }
.tags { display: flex; gap: 0.5rem; list-style: none; padding: 0; }
.tag { font-size: 0.75rem; border: 1px solid var(--border); border-radius: 999px; padding: 0 0.5rem; }
.site-footer { border-top: 1px solid var(--border); padding: 1.5rem; text-align: center; color: var(--muted); font-size: 0.875rem; }
.menu-button { display: none; }
@media (max-width: 1023px) {
  .site-nav { display: none; }
  .menu-button { display: inline-flex; }
  .page-grid-sidebar, .post-layout { grid-template-columns: minmax(0, 1fr); }
  .page-grid-sidebar .sidebar { display: none; }
}
`))

// themeInit applies the stored theme before first paint
const themeInit = `(function(){try{var t=localStorage.getItem("theme");if(t){document.documentElement.dataset.theme=t}else if(matchMedia("(prefers-color-scheme: dark)").matches){document.documentElement.dataset.theme="dark"}}catch(e){}})();`

// mobileNavID is the id of the overlay the menu button opens
const mobileNavID = "mobile-nav"

// layout wraps a page body in the document and site chrome. Everything
// inside main#page is swapped by the live bridge on in-place navigation.
func (s *Server) layout(ctx *ctxImpl, body *vdom.VNode) *vdom.VNode {
	site := s.opts.Site
	path := ctx.Path()

	title := site.Title
	if ctx.title != "" {
		title = ctx.title + " · " + site.Title
	}
	desc := ctx.desc
	if desc == "" {
		desc = site.Description
	}

	head := []*vdom.VNode{
		vdom.Meta(vdom.Props{"charset": "utf-8"}),
		vdom.Meta(vdom.Props{"name": "viewport", "content": "width=device-width, initial-scale=1"}),
		vdom.Title(nil, vdom.Text(title)),
		vdom.If(desc != "", vdom.Meta(vdom.Props{"name": "description", "content": desc})),
		vdom.Link(vdom.Props{"rel": "canonical", "href": site.BaseURL + path}),
		vdom.Style(nil, vdom.Text(styling.CSS())),
		vdom.Script(nil, vdom.Text(themeInit)),
	}
	head = append(head, ctx.head...)

	var bridge *vdom.VNode
	if ctx.session != nil {
		bridge = vdom.Script(vdom.Props{
			"src":          "/live/bridge.js",
			"data-session": ctx.session.ID(),
			"defer":        true,
		})
	}

	return vdom.HTML(vdom.Props{"lang": "en"},
		vdom.Head(nil, head...),
		vdom.Body(nil,
			vdom.A(vdom.Props{"class": "skip-link", "href": "#page"}, vdom.Text("Skip to content")),
			ctx.Mount(live.MountProgress),
			s.header(path),
			components.Overlay(components.OverlayProps{
				ID:      mobileNavID,
				Title:   "Navigation",
				Content: s.mobileNav(path),
			}),
			vdom.Main(vdom.Props{"id": "page"}, s.pageGrid(ctx, body)),
			vdom.Footer(vdom.Props{"class": "site-footer"},
				vdom.Text(site.Title+" · developer tools and notes"),
			),
			vdom.Script(vdom.Props{"src": SiteScriptPath, "defer": true}),
			bridge,
		),
	)
}

func (s *Server) header(path string) *vdom.VNode {
	return vdom.Header(vdom.Props{"class": "site-header"},
		vdom.A(vdom.Props{"class": "brand", "href": "/"}, vdom.Text(s.opts.Site.Title)),
		vdom.Nav(vdom.Props{"class": "site-nav", "aria-label": "Main"},
			navLink("/tools", "Tools", path),
			navLink("/blog", "Blog", path),
		),
		components.ThemeToggle(),
		components.MenuButton(mobileNavID),
	)
}

func (s *Server) mobileNav(path string) *vdom.VNode {
	return vdom.Nav(vdom.Props{"aria-label": "Mobile"},
		vdom.Ul(nil,
			vdom.Li(nil, navLink("/", "Home", path)),
			vdom.Li(nil, navLink("/tools", "Tools", path)),
			vdom.Li(nil, navLink("/blog", "Blog", path)),
		),
		s.toolsNav(path),
	)
}

// pageGrid lays out breadcrumbs and the body, with the tools sidebar on
// tool pages
func (s *Server) pageGrid(ctx *ctxImpl, body *vdom.VNode) *vdom.VNode {
	path := ctx.Path()
	crumbs := components.Breadcrumbs(components.CrumbsFromPath(path, ctx.crumbs))
	main := vdom.Div(vdom.Props{"class": "page-content"}, crumbs, body)

	if !isToolsPath(path) {
		return vdom.Div(vdom.Props{"class": "page-grid"}, main)
	}
	return vdom.Div(vdom.Props{"class": "page-grid page-grid-sidebar"},
		vdom.Aside(vdom.Props{"class": "sidebar", "aria-label": "Tools"}, s.toolsNav(path)),
		main,
	)
}

// toolsNav lists the tools grouped by category
func (s *Server) toolsNav(path string) *vdom.VNode {
	var groups []*vdom.VNode
	for _, category := range content.Categories() {
		tools := content.ToolsInCategory(category)
		items := make([]*vdom.VNode, len(tools))
		for i, t := range tools {
			items[i] = vdom.Li(nil, navLink(t.URL(), t.Name, path))
		}
		groups = append(groups,
			vdom.H2(nil, vdom.Text(category)),
			vdom.Ul(nil, items...),
		)
	}
	return vdom.Div(vdom.Props{"class": "tools-nav"}, groups...)
}

func navLink(href, label, current string) *vdom.VNode {
	props := vdom.Props{"href": href}
	if href == current {
		props["aria-current"] = "page"
	}
	return vdom.A(props, vdom.Text(label))
}

func isToolsPath(path string) bool {
	return path == "/tools" || strings.HasPrefix(path, "/tools/")
}
