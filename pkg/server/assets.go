package server

import (
	_ "embed"
	"net/http"
)

// SiteScriptPath is where the chrome's script is served
const SiteScriptPath = "/assets/site.js"

//go:embed assets/site.js
var siteJS []byte

func serveSiteScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(siteJS)
}
