package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/toolbench/toolbench/internal/cache"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
	if cfg.Widgets.HeaderOffset != 80 {
		t.Errorf("HeaderOffset = %v, want 80", cfg.Widgets.HeaderOffset)
	}
	if got := cfg.Widgets.RootMargin().String(); got != "-80px 0px -80% 0px" {
		t.Errorf("RootMargin() = %q, want %q", got, "-80px 0px -80% 0px")
	}
	p := cfg.Widgets.Progress()
	if p.Ceiling != 90 || p.TimeConstant != 2*time.Second || p.Hold != 400*time.Millisecond {
		t.Errorf("Progress() = %+v, want 90 / 2s / 400ms", p)
	}
	if got := cfg.Server.Addr(); got != "localhost:8080" {
		t.Errorf("Addr() = %q, want localhost:8080", got)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9000
  allowed_origins: ["https://toolbench.dev"]
site:
  base_url: https://toolbench.dev
content:
  cache_entries: 64
  cache_policy: lfu
widgets:
  header_offset: 64
  progress_hold: 250ms
log:
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host = %q, want default localhost", cfg.Server.Host)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://toolbench.dev" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Widgets.HeaderOffset != 64 {
		t.Errorf("HeaderOffset = %v, want 64", cfg.Widgets.HeaderOffset)
	}
	if cfg.Widgets.ProgressHold != 250*time.Millisecond {
		t.Errorf("ProgressHold = %v, want 250ms", cfg.Widgets.ProgressHold)
	}
	if cfg.Widgets.ProgressCeiling != 90 {
		t.Errorf("ProgressCeiling = %v, want default 90", cfg.Widgets.ProgressCeiling)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if got := cfg.Content.Cache(); got.MaxEntries != 64 || got.Strategy != cache.LFU {
		t.Errorf("Content.Cache() = %+v, want 64 entries with LFU", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TOOLBENCH_SERVER__PORT", "7070")
	t.Setenv("TOOLBENCH_SITE__TITLE", "Bench")
	t.Setenv("TOOLBENCH_WIDGETS__FRAME_RATE", "30")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Site.Title != "Bench" {
		t.Errorf("Site.Title = %q, want Bench", cfg.Site.Title)
	}
	if cfg.Widgets.FrameRate != 30 {
		t.Errorf("FrameRate = %d, want 30", cfg.Widgets.FrameRate)
	}
}

func TestLoad_MissingNamedFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing named file should fail")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := DefaultConfig()
	original.Site.Title = "Saved"
	original.Widgets.ProgressTimeConstant = 3 * time.Second

	if err := original.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Site.Title != "Saved" {
		t.Errorf("Site.Title = %q, want Saved", loaded.Site.Title)
	}
	if loaded.Widgets.ProgressTimeConstant != 3*time.Second {
		t.Errorf("ProgressTimeConstant = %v, want 3s", loaded.Widgets.ProgressTimeConstant)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "no title", mutate: func(c *Config) { c.Site.Title = "" }, wantErr: "site.title"},
		{name: "relative base url", mutate: func(c *Config) { c.Site.BaseURL = "/blog" }, wantErr: "site.base_url"},
		{name: "no content dir", mutate: func(c *Config) { c.Content.Dir = "" }, wantErr: "content.dir"},
		{name: "negative cache size", mutate: func(c *Config) { c.Content.CacheEntries = -1 }, wantErr: "content.cache_entries"},
		{name: "cache policy", mutate: func(c *Config) { c.Content.CachePolicy = "random" }, wantErr: "content.cache_policy"},
		{name: "negative offset", mutate: func(c *Config) { c.Widgets.HeaderOffset = -1 }, wantErr: "header_offset"},
		{name: "margin range", mutate: func(c *Config) { c.Widgets.RootMarginBottomPercent = -150 }, wantErr: "root_margin_bottom_percent"},
		{name: "ceiling at 100", mutate: func(c *Config) { c.Widgets.ProgressCeiling = 100 }, wantErr: "progress_ceiling"},
		{name: "zero tau", mutate: func(c *Config) { c.Widgets.ProgressTimeConstant = 0 }, wantErr: "progress_time_constant"},
		{name: "frame rate", mutate: func(c *Config) { c.Widgets.FrameRate = 0 }, wantErr: "frame_rate"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLogConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("output = %q, want JSON warn record", out)
	}
}
