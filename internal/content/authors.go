package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Author is a post author from authors.yaml
type Author struct {
	ID     string `yaml:"-"`
	Name   string `yaml:"name"`
	Bio    string `yaml:"bio"`
	URL    string `yaml:"url"`
	Avatar string `yaml:"avatar"`
}

// LoadAuthors reads an author registry keyed by id. A missing file is an
// empty registry.
func LoadAuthors(fsys fs.FS, name string) (map[string]Author, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Author{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	authors := map[string]Author{}
	if err := yaml.Unmarshal(data, &authors); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	for id, a := range authors {
		a.ID = id
		if a.Name == "" {
			a.Name = id
		}
		authors[id] = a
	}
	return authors, nil
}
