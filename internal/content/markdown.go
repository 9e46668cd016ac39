package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/toolbench/toolbench/internal/cache"
	"github.com/toolbench/toolbench/pkg/toc"
)

// Rendered is the output of the markdown pipeline
type Rendered struct {
	HTML     string
	Headings []toc.Heading
	Words    int
}

// Markdown converts post bodies to annotated HTML. Results are memoised by
// a hash of the source, so unchanged posts are free to re-render.
type Markdown struct {
	md    goldmark.Markdown
	cache *cache.Cache[Rendered]
}

// NewMarkdown creates the pipeline: GFM, syntax highlighting, then
// heading annotation
func NewMarkdown() *Markdown {
	return NewMarkdownCache(cache.DefaultConfig())
}

// NewMarkdownCache creates the pipeline with its memo sized by cfg
func NewMarkdownCache(cfg cache.Config) *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		cache: cache.New[Rendered](cfg),
	}
}

// Render converts a markdown body
func (m *Markdown) Render(src []byte) (Rendered, error) {
	return m.cache.GetOrCompute(cache.Key(src), func() (Rendered, error) {
		var buf bytes.Buffer
		if err := m.md.Convert(src, &buf); err != nil {
			return Rendered{}, fmt.Errorf("converting markdown: %w", err)
		}
		out, headings := toc.Annotate(buf.String())
		return Rendered{
			HTML:     out,
			Headings: headings,
			Words:    len(strings.Fields(string(src))),
		}, nil
	})
}

// Stats returns memo statistics
func (m *Markdown) Stats() cache.Stats {
	return m.cache.GetStats()
}
