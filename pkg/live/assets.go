package live

import (
	_ "embed"
	"net/http"
)

//go:embed bridge.js
var bridgeJS []byte

// BridgeScript returns the browser side of the protocol
func BridgeScript() []byte {
	return bridgeJS
}

// ServeBridge serves the bridge script
func (m *Manager) ServeBridge(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(bridgeJS)
}
