// Package config loads the toolbench configuration: built-in defaults,
// overlaid by a YAML file, overlaid by TOOLBENCH_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/toolbench/toolbench/internal/cache"
	"github.com/toolbench/toolbench/pkg/progress"
	"github.com/toolbench/toolbench/pkg/toc"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are
// separated by a double underscore: TOOLBENCH_SERVER__PORT=9000.
const EnvPrefix = "TOOLBENCH_"

// RelPath is the config file location searched in the XDG config dirs
const RelPath = "toolbench/config.yaml"

// Config represents the toolbench configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Site    SiteConfig    `yaml:"site" koanf:"site"`
	Content ContentConfig `yaml:"content" koanf:"content"`
	Widgets WidgetsConfig `yaml:"widgets" koanf:"widgets"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	// Server host
	Host string `yaml:"host" koanf:"host"`

	// Server port
	Port int `yaml:"port" koanf:"port"`

	// Origins allowed to call the JSON API
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`

	ReadTimeout     time.Duration `yaml:"read_timeout" koanf:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// SiteConfig contains what pages say about the site
type SiteConfig struct {
	Title string `yaml:"title" koanf:"title"`

	// Absolute URL the site is served from, used for canonical links,
	// the sitemap and structured data
	BaseURL string `yaml:"base_url" koanf:"base_url"`

	Description string `yaml:"description" koanf:"description"`
}

// ContentConfig locates the blog content
type ContentConfig struct {
	// Directory holding blog/ and authors.yaml
	Dir string `yaml:"dir" koanf:"dir"`

	// Whether to reload content when files change
	Watch bool `yaml:"watch" koanf:"watch"`

	// Rendered posts kept in memory, and which to drop first when full:
	// lru, lfu or fifo
	CacheEntries int    `yaml:"cache_entries" koanf:"cache_entries"`
	CachePolicy  string `yaml:"cache_policy" koanf:"cache_policy"`
}

// WidgetsConfig tunes the table of contents and progress indicator
type WidgetsConfig struct {
	// Sticky header height subtracted when scrolling to a heading
	HeaderOffset float64 `yaml:"header_offset" koanf:"header_offset"`

	RootMarginTopPx         float64 `yaml:"root_margin_top_px" koanf:"root_margin_top_px"`
	RootMarginBottomPercent float64 `yaml:"root_margin_bottom_percent" koanf:"root_margin_bottom_percent"`

	ProgressCeiling      float64       `yaml:"progress_ceiling" koanf:"progress_ceiling"`
	ProgressTimeConstant time.Duration `yaml:"progress_time_constant" koanf:"progress_time_constant"`
	ProgressHold         time.Duration `yaml:"progress_hold" koanf:"progress_hold"`

	// Frames per second delivered to live widgets
	FrameRate int `yaml:"frame_rate" koanf:"frame_rate"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// debug, info, warn or error
	Level string `yaml:"level" koanf:"level"`

	// text or json
	Format string `yaml:"format" koanf:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	margin := toc.DefaultRootMargin
	curve := progress.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Site: SiteConfig{
			Title:       "Toolbench",
			BaseURL:     "http://localhost:8080",
			Description: "Small, sharp tools for developers, and notes on building them.",
		},
		Content: ContentConfig{
			Dir:          "content",
			Watch:        false,
			CacheEntries: cache.DefaultConfig().MaxEntries,
			CachePolicy:  cache.DefaultConfig().Strategy.String(),
		},
		Widgets: WidgetsConfig{
			HeaderOffset:            toc.DefaultHeaderOffset,
			RootMarginTopPx:         margin.TopPx,
			RootMarginBottomPercent: margin.BottomPercent,
			ProgressCeiling:         curve.Ceiling,
			ProgressTimeConstant:    curve.TimeConstant,
			ProgressHold:            curve.Hold,
			FrameRate:               60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Path resolves the config file to load. An explicit path wins; otherwise
// the XDG config dirs are searched. An empty result means no file.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if found, err := xdg.SearchConfigFile(RelPath); err == nil {
		return found
	}
	return ""
}

// DefaultPath is where Save writes when no path is given
func DefaultPath() (string, error) {
	return xdg.ConfigFile(RelPath)
}

// Load reads configuration from path (see Path), then overlays
// environment variable overrides. A named file that does not exist is an
// error; no file at all yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps TOOLBENCH_WIDGETS__FRAME_RATE to widgets.frame_rate
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to path as YAML
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, errors.New("server.read_timeout must be non-negative"))
	}

	if c.Site.Title == "" {
		errs = append(errs, errors.New("site.title is required"))
	}
	if u, err := url.Parse(c.Site.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("site.base_url %q must be an absolute http(s) URL", c.Site.BaseURL))
	}

	if c.Content.Dir == "" {
		errs = append(errs, errors.New("content.dir is required"))
	}
	if c.Content.CacheEntries < 0 {
		errs = append(errs, errors.New("content.cache_entries must be non-negative"))
	}
	if _, err := cache.ParseStrategy(c.Content.CachePolicy); err != nil {
		errs = append(errs, fmt.Errorf("content.cache_policy: %w", err))
	}

	w := c.Widgets
	if w.HeaderOffset < 0 {
		errs = append(errs, errors.New("widgets.header_offset must be non-negative"))
	}
	if w.RootMarginBottomPercent < -100 || w.RootMarginBottomPercent > 100 {
		errs = append(errs, fmt.Errorf("widgets.root_margin_bottom_percent %g out of range [-100, 100]", w.RootMarginBottomPercent))
	}
	if w.ProgressCeiling <= 0 || w.ProgressCeiling >= 100 {
		errs = append(errs, fmt.Errorf("widgets.progress_ceiling %g must be in (0, 100)", w.ProgressCeiling))
	}
	if w.ProgressTimeConstant <= 0 {
		errs = append(errs, errors.New("widgets.progress_time_constant must be positive"))
	}
	if w.ProgressHold <= 0 {
		errs = append(errs, errors.New("widgets.progress_hold must be positive"))
	}
	if w.FrameRate <= 0 || w.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("widgets.frame_rate %d must be in [1, 240]", w.FrameRate))
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Cache returns the render memo settings; an invalid policy falls back
// to LRU (Validate reports it)
func (c ContentConfig) Cache() cache.Config {
	strategy, _ := cache.ParseStrategy(c.CachePolicy)
	return cache.Config{
		MaxEntries: c.CacheEntries,
		Strategy:   strategy,
	}
}

// RootMargin returns the tracker's root margin
func (w WidgetsConfig) RootMargin() toc.RootMargin {
	return toc.RootMargin{TopPx: w.RootMarginTopPx, BottomPercent: w.RootMarginBottomPercent}
}

// Progress returns the progress animation curve
func (w WidgetsConfig) Progress() progress.Config {
	return progress.Config{
		Ceiling:      w.ProgressCeiling,
		TimeConstant: w.ProgressTimeConstant,
		Hold:         w.ProgressHold,
	}
}

// TOC returns table of contents options without a host attached
func (w WidgetsConfig) TOC() toc.Options {
	opts := toc.DefaultOptions()
	opts.RootMargin = w.RootMargin()
	opts.HeaderOffset = w.HeaderOffset
	return opts
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return level, nil
}

// Logger builds the process logger
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch l.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log.format %q", l.Format)
}
