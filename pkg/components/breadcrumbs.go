package components

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/toolbench/toolbench/pkg/vdom"
)

// Crumb is one step of a breadcrumb trail
type Crumb struct {
	Label string
	Href  string
}

// CrumbsFromPath derives a trail from a site path. Labels come from names
// when present, otherwise the segment is title-cased with dashes as
// spaces. The last crumb has no link.
func CrumbsFromPath(path string, names map[string]string) []Crumb {
	path = strings.Trim(path, "/")
	crumbs := []Crumb{{Label: "Home", Href: "/"}}
	if path == "" {
		crumbs[0].Href = ""
		return crumbs
	}

	caser := cases.Title(language.English)
	segments := strings.Split(path, "/")
	href := ""
	for i, seg := range segments {
		href += "/" + seg
		label, ok := names[href]
		if !ok {
			label = caser.String(strings.ReplaceAll(seg, "-", " "))
		}
		crumb := Crumb{Label: label, Href: href}
		if i == len(segments)-1 {
			crumb.Href = ""
		}
		crumbs = append(crumbs, crumb)
	}
	return crumbs
}

// Breadcrumbs renders a trail; a single crumb renders nothing
func Breadcrumbs(crumbs []Crumb) *vdom.VNode {
	if len(crumbs) < 2 {
		return nil
	}

	items := make([]*vdom.VNode, len(crumbs))
	for i, c := range crumbs {
		if c.Href == "" {
			items[i] = vdom.Li(vdom.Props{"aria-current": "page"}, vdom.Text(c.Label))
			continue
		}
		items[i] = vdom.Li(nil, vdom.A(vdom.Props{"href": c.Href}, vdom.Text(c.Label)))
	}
	return vdom.Nav(vdom.Props{"class": "breadcrumbs", "aria-label": "Breadcrumb"},
		vdom.Ol(nil, items...),
	)
}
