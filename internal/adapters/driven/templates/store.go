// Package templates provides a read-only template store loaded from YAML
// data files. Built-in templates are embedded in the binary; an optional
// directory of extra files is merged over them by ID.
//
// A data file may hold any of three lists:
//
//	templates:    []domain.Template
//	requirements: []domain.RequirementModel
//	categories:   []domain.SectionCategory
//
// JSON files are accepted too, since JSON is valid YAML.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

//go:embed data/*.yaml
var builtin embed.FS

// Ensure Store implements the interface.
var _ driven.TemplateStore = (*Store)(nil)

// dataFile is the layout of a template data file.
type dataFile struct {
	Templates    []domain.Template         `yaml:"templates"`
	Requirements []domain.RequirementModel `yaml:"requirements"`
	Categories   []domain.SectionCategory  `yaml:"categories"`
}

// Store implements driven.TemplateStore. It is immutable after construction
// and safe for concurrent use.
type Store struct {
	templates    map[string]domain.Template
	requirements map[string]domain.RequirementModel
	categories   map[string]domain.SectionCategory
}

// NewStore loads the built-in templates and then every .yaml, .yml and
// .json file in dir, in name order. dir may be empty.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		templates:    make(map[string]domain.Template),
		requirements: make(map[string]domain.RequirementModel),
		categories:   make(map[string]domain.SectionCategory),
	}

	if err := s.loadFS(builtin, "data"); err != nil {
		return nil, fmt.Errorf("loading built-in templates: %w", err)
	}
	if dir != "" {
		if err := s.loadFS(os.DirFS(dir), "."); err != nil {
			return nil, fmt.Errorf("loading templates from %s: %w", dir, err)
		}
	}

	logger.Debug("template store: %d templates, %d requirements, %d categories",
		len(s.templates), len(s.requirements), len(s.categories))
	return s, nil
}

func (s *Store) loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, name)))
		if err != nil {
			return err
		}
		if err := s.load(data); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) load(data []byte) error {
	var file dataFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	for _, t := range file.Templates {
		if t.ID == "" {
			return fmt.Errorf("template without _id: %w", domain.ErrInvalidInput)
		}
		s.templates[t.ID] = t
	}
	for _, r := range file.Requirements {
		if r.ID == "" || r.ObjectType == "" {
			return fmt.Errorf("requirement %q without _id or objectType: %w", r.ID, domain.ErrInvalidInput)
		}
		s.requirements[r.ID] = r
	}
	for _, c := range file.Categories {
		if c.ID == "" {
			return fmt.Errorf("section category without _id: %w", domain.ErrInvalidInput)
		}
		s.categories[c.ID] = c
	}
	return nil
}

// Template returns a copy of the template with the given ID.
func (s *Store) Template(id string) (*domain.Template, error) {
	t, ok := s.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

// Templates returns all templates sorted by ID.
func (s *Store) Templates() []domain.Template {
	out := make([]domain.Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Requirement returns a copy of the requirement model with the given ID.
func (s *Store) Requirement(id string) (*domain.RequirementModel, bool) {
	r, ok := s.requirements[id]
	if !ok {
		return nil, false
	}
	return &r, true
}

// Categories returns the known section categories. The map must not be modified.
func (s *Store) Categories() map[string]domain.SectionCategory {
	return s.categories
}
