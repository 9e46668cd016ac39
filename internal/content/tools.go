package content

import (
	"slices"
	"sort"
)

// Tool is an entry in the tool catalog. Tool pages are placeholders; only
// the catalog metadata is real.
type Tool struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
}

// URL returns the tool's site path
func (t Tool) URL() string {
	return "/tools/" + t.Slug
}

var catalog = []Tool{
	{Slug: "json-formatter", Name: "JSON Formatter", Category: "Formatting", Summary: "Pretty-print, minify and validate JSON documents."},
	{Slug: "sql-formatter", Name: "SQL Formatter", Category: "Formatting", Summary: "Reflow SQL queries into a readable layout."},
	{Slug: "base64", Name: "Base64 Encoder", Category: "Encoding", Summary: "Encode and decode Base64, including the URL-safe alphabet."},
	{Slug: "url-encoder", Name: "URL Encoder", Category: "Encoding", Summary: "Percent-encode and decode query strings and path segments."},
	{Slug: "jwt-decoder", Name: "JWT Decoder", Category: "Inspection", Summary: "Inspect the header and claims of a JSON Web Token."},
	{Slug: "regex-tester", Name: "Regex Tester", Category: "Inspection", Summary: "Try regular expressions against sample input with live matches."},
	{Slug: "cron-explainer", Name: "Cron Explainer", Category: "Inspection", Summary: "Describe a cron expression in plain words and list its next runs."},
	{Slug: "uuid-generator", Name: "UUID Generator", Category: "Generators", Summary: "Generate version 4 and version 7 UUIDs in bulk."},
	{Slug: "hash-generator", Name: "Hash Generator", Category: "Generators", Summary: "Compute MD5, SHA-1 and SHA-256 digests of text."},
	{Slug: "timestamp-converter", Name: "Timestamp Converter", Category: "Generators", Summary: "Convert between Unix timestamps and calendar dates."},
}

// Tools returns the catalog in display order
func Tools() []Tool {
	return slices.Clone(catalog)
}

// LookupTool finds a tool by slug
func LookupTool(slug string) (Tool, error) {
	for _, t := range catalog {
		if t.Slug == slug {
			return t, nil
		}
	}
	return Tool{}, ErrNotFound
}

// Categories returns the distinct categories, sorted
func Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range catalog {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out
}

// ToolsInCategory returns the tools of one category
func ToolsInCategory(category string) []Tool {
	var out []Tool
	for _, t := range catalog {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
