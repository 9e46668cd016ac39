// Package export writes the site as static files, for hosting without the
// live server. Widgets render in their initial state: the progress bar
// hidden and every table of contents with no active heading.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Renderer produces the pages of a site
type Renderer interface {
	Paths() []string
	Render(ctx context.Context, path string) ([]byte, error)
}

// Options configures an export
type Options struct {
	Out      string
	Workers  int
	Reporter Reporter
	Logger   *slog.Logger
}

// Result summarises a finished export
type Result struct {
	Files int
	Bytes int64
}

// Run renders every path of r into opts.Out. The first failure cancels
// the remaining work.
func Run(ctx context.Context, r Renderer, opts Options) (Result, error) {
	if opts.Out == "" {
		return Result{}, fmt.Errorf("export: no output directory")
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With("component", "export")

	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return Result{}, fmt.Errorf("export: %w", err)
	}

	paths := r.Paths()
	opts.Reporter.Start(len(paths))
	defer opts.Reporter.Finish()

	var (
		mu     sync.Mutex
		result Result
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := r.Render(ctx, p)
			if err != nil {
				return err
			}

			file := filepath.Join(opts.Out, filepath.FromSlash(FilePath(p)))
			if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
				return fmt.Errorf("export %s: %w", p, err)
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return fmt.Errorf("export %s: %w", p, err)
			}
			logger.Debug("wrote page", "path", p, "file", file, "bytes", len(data))

			mu.Lock()
			result.Files++
			result.Bytes += int64(len(data))
			opts.Reporter.Update(result.Files, p)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	logger.Info("export finished", "files", result.Files, "bytes", result.Bytes, "out", opts.Out)
	return result, nil
}

// FilePath maps a site path to the file that serves it: paths with an
// extension map to themselves, pages to an index.html in their directory
func FilePath(sitePath string) string {
	clean := strings.Trim(path.Clean("/"+sitePath), "/")
	if clean == "" {
		return "index.html"
	}
	if path.Ext(clean) != "" {
		return clean
	}
	return clean + "/index.html"
}
