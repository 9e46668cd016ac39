package progress

import (
	"net/url"
)

// LinkClick describes a click on an anchor, as reported by the host
type LinkClick struct {
	Href     string `json:"href"`
	Target   string `json:"target,omitempty"`
	Download bool   `json:"download,omitempty"`
	// Modifier is set when ctrl, meta, shift or alt was held
	Modifier bool `json:"modifier,omitempty"`
	// Button is the mouse button; 0 is the primary button
	Button int `json:"button,omitempty"`
}

// ShouldTrack reports whether a click starts an in-site navigation worth
// showing progress for: a same-origin http(s) link to a different path,
// opened in the current tab by a plain primary click.
func ShouldTrack(click LinkClick, current *url.URL) bool {
	if current == nil || click.Href == "" {
		return false
	}
	if click.Button != 0 || click.Modifier || click.Download {
		return false
	}
	if click.Target != "" && click.Target != "_self" {
		return false
	}

	dest, err := current.Parse(click.Href)
	if err != nil {
		return false
	}
	if dest.Scheme != "http" && dest.Scheme != "https" {
		return false
	}
	if dest.Scheme != current.Scheme || dest.Host != current.Host {
		return false
	}
	return cleanPath(dest) != cleanPath(current)
}

func cleanPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
