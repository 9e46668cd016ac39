// Package styling collects the stylesheets that widgets and page chrome
// ship with, so the layout can emit them once per document.
package styling

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// Sheet is a named block of CSS
type Sheet struct {
	Name string
	Hash string
	CSS  string
}

// New creates a sheet; the hash is derived from the CSS content
func New(name, css string) *Sheet {
	sum := sha256.Sum256([]byte(css))
	return &Sheet{
		Name: name,
		Hash: hex.EncodeToString(sum[:])[:8],
		CSS:  strings.TrimSpace(css),
	}
}

// Registry keeps sheets in registration order, deduplicated by hash
type Registry struct {
	mu     sync.RWMutex
	order  []string
	sheets map[string]*Sheet
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{sheets: make(map[string]*Sheet)}
}

// Register adds a sheet; empty sheets and duplicates are ignored
func (r *Registry) Register(sheet *Sheet) {
	if sheet == nil || sheet.CSS == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sheets[sheet.Hash]; ok {
		return
	}
	r.sheets[sheet.Hash] = sheet
	r.order = append(r.order, sheet.Hash)
}

// Sheets returns the registered sheets in order
func (r *Registry) Sheets() []*Sheet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Sheet, 0, len(r.order))
	for _, hash := range r.order {
		out = append(out, r.sheets[hash])
	}
	return out
}

// CSS returns all registered CSS as a single string
func (r *Registry) CSS() string {
	var b strings.Builder
	for _, sheet := range r.Sheets() {
		b.WriteString("/* ")
		b.WriteString(sheet.Name)
		b.WriteString(" */\n")
		b.WriteString(sheet.CSS)
		b.WriteString("\n")
	}
	return b.String()
}

var global = NewRegistry()

// Register adds a sheet to the process-wide registry
func Register(sheet *Sheet) *Sheet {
	global.Register(sheet)
	return sheet
}

// CSS returns the process-wide stylesheet
func CSS() string {
	return global.CSS()
}
