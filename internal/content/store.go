package content

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/toolbench/toolbench/internal/cache"
	"github.com/toolbench/toolbench/pkg/reactive"
)

// Layout of the content directory
const (
	PostsGlob   = "blog/**/*.md"
	AuthorsFile = "authors.yaml"
)

// Store holds the loaded posts and authors. Reads are safe while a reload
// is in progress; a reload swaps everything in at once.
type Store struct {
	dir    string
	fsys   fs.FS
	logger *slog.Logger
	md     *Markdown

	mu      sync.RWMutex
	posts   map[string]*Post
	ordered []*Post
	authors map[string]Author

	version *reactive.State[int]
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithCache sizes the render memo
func WithCache(cfg cache.Config) StoreOption {
	return func(s *Store) {
		s.md = NewMarkdownCache(cfg)
	}
}

// NewStore creates a store reading from dir
func NewStore(dir string, logger *slog.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		dir:     dir,
		fsys:    os.DirFS(dir),
		logger:  logger.With("component", "content"),
		md:      NewMarkdown(),
		posts:   map[string]*Post{},
		authors: map[string]Author{},
		version: reactive.NewState(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the content directory
func (s *Store) Dir() string {
	return s.dir
}

// Load reads every post and the author registry
func (s *Store) Load(ctx context.Context) error {
	matches, err := doublestar.Glob(s.fsys, PostsGlob)
	if err != nil {
		return fmt.Errorf("listing posts: %w", err)
	}
	sort.Strings(matches)

	loaded := make([]*Post, len(matches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, name := range matches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			post, err := s.readPost(name)
			if err != nil {
				return err
			}
			loaded[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	authors, err := LoadAuthors(s.fsys, AuthorsFile)
	if err != nil {
		return err
	}

	posts := make(map[string]*Post, len(loaded))
	ordered := make([]*Post, 0, len(loaded))
	for _, p := range loaded {
		if p.Draft {
			continue
		}
		if _, ok := authors[p.Author]; p.Author != "" && !ok {
			s.logger.Warn("post references unknown author", "slug", p.Slug, "author", p.Author)
		}
		posts[p.Slug] = p
		ordered = append(ordered, p)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Slug < ordered[j].Slug
		}
		return ordered[i].Date.After(ordered[j].Date)
	})

	s.mu.Lock()
	s.posts = posts
	s.ordered = ordered
	s.authors = authors
	s.mu.Unlock()

	s.logger.Info("content loaded", "posts", len(ordered), "drafts", len(loaded)-len(ordered), "authors", len(authors))
	s.version.Update(func(v int) int { return v + 1 })
	return nil
}

// Reload is Load; kept separate so callers read clearly
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Store) readPost(name string) (*Post, error) {
	src, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	fm, body, err := SplitFrontMatter(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	rendered, err := s.md.Render(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	slug := strings.TrimSuffix(strings.TrimPrefix(name, "blog/"), path.Ext(name))
	if fm.Title == "" {
		fm.Title = slug
	}
	return &Post{
		FrontMatter: fm,
		Slug:        slug,
		Path:        name,
		HTML:        rendered.HTML,
		Headings:    rendered.Headings,
		Words:       rendered.Words,
	}, nil
}

// Post returns a published post by slug
func (s *Store) Post(slug string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[slug]
	if !ok {
		return nil, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	return p, nil
}

// Posts returns published posts, newest first
func (s *Store) Posts() []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Post(nil), s.ordered...)
}

// Author returns an author by id
func (s *Store) Author(id string) (Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.authors[id]
	if !ok {
		return Author{}, fmt.Errorf("author %q: %w", id, ErrNotFound)
	}
	return a, nil
}

// Version increments after every successful load
func (s *Store) Version() reactive.Signal[int] {
	return s.version
}

// Markdown returns the store's rendering pipeline
func (s *Store) Markdown() *Markdown {
	return s.md
}
