package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeSite struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (f *fakeSite) Paths() []string {
	return []string{"/", "/tools", "/blog/guides/deep", "/sitemap.xml"}
}

func (f *fakeSite) Render(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	page, ok := f.pages[path]
	if !ok {
		return nil, errors.New("no page " + path)
	}
	return []byte(page), nil
}

func TestFilePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "index.html"},
		{"", "index.html"},
		{"/tools", "tools/index.html"},
		{"/blog/guides/deep/", "blog/guides/deep/index.html"},
		{"/sitemap.xml", "sitemap.xml"},
		{"/assets/site.js", "assets/site.js"},
		{"/../etc/passwd", "etc/passwd/index.html"},
	}

	for _, tt := range tests {
		if got := FilePath(tt.path); got != tt.want {
			t.Errorf("FilePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRun(t *testing.T) {
	site := &fakeSite{pages: map[string]string{
		"/":                 "home",
		"/tools":            "tools",
		"/blog/guides/deep": "deep",
		"/sitemap.xml":      "<urlset/>",
	}}
	out := t.TempDir()
	var log bytes.Buffer

	result, err := Run(context.Background(), site, Options{
		Out:      out,
		Workers:  2,
		Reporter: &LogReporter{w: &log},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Files != 4 {
		t.Errorf("Files = %d, want 4", result.Files)
	}
	if result.Bytes != int64(len("home")+len("tools")+len("deep")+len("<urlset/>")) {
		t.Errorf("Bytes = %d", result.Bytes)
	}

	for file, want := range map[string]string{
		"index.html":                  "home",
		"tools/index.html":            "tools",
		"blog/guides/deep/index.html": "deep",
		"sitemap.xml":                 "<urlset/>",
	} {
		got, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(file)))
		if err != nil {
			t.Errorf("reading %s: %v", file, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", file, got, want)
		}
	}

	if !strings.HasPrefix(log.String(), "Exporting 4 files\n") || !strings.HasSuffix(log.String(), "Export complete\n") {
		t.Errorf("report = %q", log.String())
	}
	if strings.Count(log.String(), "[") != 4 {
		t.Errorf("report = %q, want one line per file", log.String())
	}
}

func TestRun_Error(t *testing.T) {
	site := &fakeSite{pages: map[string]string{"/": "home"}}

	_, err := Run(context.Background(), site, Options{Out: t.TempDir(), Workers: 1})
	if err == nil || !strings.Contains(err.Error(), "no page") {
		t.Errorf("Run() error = %v, want the render failure", err)
	}
}

func TestRun_NoOutput(t *testing.T) {
	if _, err := Run(context.Background(), &fakeSite{}, Options{}); err == nil {
		t.Error("Run() without an output directory should fail")
	}
}
