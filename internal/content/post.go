// Package content loads the site's blog posts, authors and tool catalog.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/toolbench/toolbench/pkg/toc"
)

// ErrNotFound is returned when a post, author or tool does not exist
var ErrNotFound = errors.New("content: not found")

// FrontMatter is the YAML header of a post
type FrontMatter struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Date        time.Time `yaml:"date"`
	Updated     time.Time `yaml:"updated"`
	Author      string    `yaml:"author"`
	Tags        []string  `yaml:"tags"`
	Draft       bool      `yaml:"draft"`
}

// Post is a rendered blog post
type Post struct {
	FrontMatter

	Slug string
	// Path is the source file relative to the content dir
	Path string
	// HTML is the rendered body; every h2 and h3 carries its heading id
	HTML     string
	Headings []toc.Heading
	Words    int
}

// ReadingTime estimates minutes to read at 200 words a minute
func (p *Post) ReadingTime() int {
	if p.Words == 0 {
		return 0
	}
	return (p.Words + 199) / 200
}

// URL returns the post's site path
func (p *Post) URL() string {
	return "/blog/" + p.Slug
}

var delim = []byte("---")

// SplitFrontMatter separates a leading YAML block fenced by --- lines from
// the markdown body. Sources without front matter return a zero header.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter

	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(src, delim) {
		return fm, src, nil
	}

	rest := src[len(delim):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return fm, src, nil
	}
	rest = rest[nl+1:]

	var header []byte
	for {
		end := bytes.IndexByte(rest, '\n')
		line := rest
		if end >= 0 {
			line = rest[:end]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), delim) {
			if end < 0 {
				rest = nil
			} else {
				rest = rest[end+1:]
			}
			break
		}
		if end < 0 {
			return fm, nil, errors.New("front matter: missing closing ---")
		}
		header = append(header, rest[:end+1]...)
		rest = rest[end+1:]
	}

	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, nil, fmt.Errorf("front matter: %w", err)
	}
	return fm, rest, nil
}
