package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// outline is the section tree of one manuscript with the text of every
// section resolved up front.
type outline struct {
	doc      *domain.Document
	children map[string][]*domain.Section
	text     map[string]string

	// categories lists top-level section categories in first-appearance order.
	categories []string
	byCategory map[string][]*domain.Section
}

func buildOutline(doc *domain.Document, markup driven.Markup) (*outline, error) {
	o := &outline{
		doc:        doc,
		children:   make(map[string][]*domain.Section),
		text:       make(map[string]string),
		byCategory: make(map[string][]*domain.Section),
	}

	for _, s := range domain.ModelsOf[*domain.Section](doc) {
		parent := s.ParentID()
		if parent != "" {
			if _, ok := doc.Get(parent); !ok {
				return nil, fmt.Errorf("section %s: parent %s: %w", s.ID, parent, domain.ErrInvalidInput)
			}
		}
		o.children[parent] = append(o.children[parent], s)
	}
	for _, list := range o.children {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Priority < list[j].Priority })
	}

	for _, s := range o.topLevel() {
		if _, err := o.sectionText(s, markup); err != nil {
			return nil, err
		}
		if s.Category == "" {
			continue
		}
		if _, ok := o.byCategory[s.Category]; !ok {
			o.categories = append(o.categories, s.Category)
		}
		o.byCategory[s.Category] = append(o.byCategory[s.Category], s)
	}
	return o, nil
}

// topLevel returns sections without a parent in priority order.
func (o *outline) topLevel() []*domain.Section {
	return o.children[""]
}

// walk visits every section depth first, siblings in priority order.
func (o *outline) walk(fn func(*domain.Section)) {
	var visit func(parent string)
	visit = func(parent string) {
		for _, s := range o.children[parent] {
			fn(s)
			visit(s.ID)
		}
	}
	visit("")
}

// sectionText joins the section title, the text of its elements and the
// text of its subsections with single spaces.
func (o *outline) sectionText(s *domain.Section, markup driven.Markup) (string, error) {
	if t, ok := o.text[s.ID]; ok {
		return t, nil
	}
	var parts []string
	add := func(t string) {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}

	title, err := markup.Text(s.Title)
	if err != nil {
		return "", fmt.Errorf("section %s title: %w", s.ID, err)
	}
	add(title)

	for _, id := range s.ElementIDs {
		el, ok := o.doc.Get(id)
		if !ok {
			return "", fmt.Errorf("section %s: element %s: %w", s.ID, id, domain.ErrInvalidInput)
		}
		t, err := o.elementText(el, markup)
		if err != nil {
			return "", fmt.Errorf("element %s: %w", id, err)
		}
		add(t)
	}

	for _, child := range o.children[s.ID] {
		t, err := o.sectionText(child, markup)
		if err != nil {
			return "", err
		}
		add(t)
	}

	text := strings.Join(parts, " ")
	o.text[s.ID] = text
	return text, nil
}

func (o *outline) elementText(el domain.Model, markup driven.Markup) (string, error) {
	switch e := el.(type) {
	case *domain.ParagraphElement:
		return markup.Text(e.Contents)
	case *domain.KeywordsElement:
		return markup.Text(e.Contents)
	case *domain.ListElement:
		return markup.Text(e.Contents)
	case *domain.TableElement:
		if t, ok := o.table(e); ok {
			return markup.Text(t.Contents)
		}
	}
	return "", nil
}

func (o *outline) table(e *domain.TableElement) (*domain.Table, bool) {
	m, ok := o.doc.Get(e.ContainedObjectID)
	if !ok {
		return nil, false
	}
	t, ok := m.(*domain.Table)
	return t, ok
}

// manuscriptText joins the text of the top-level sections in priority order.
func (o *outline) manuscriptText() string {
	var parts []string
	for _, s := range o.topLevel() {
		if t := o.text[s.ID]; t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// paragraphs counts the paragraph elements directly in a section.
func (o *outline) paragraphs(s *domain.Section) int {
	n := 0
	for _, id := range s.ElementIDs {
		if m, ok := o.doc.Get(id); ok {
			if _, isParagraph := m.(*domain.ParagraphElement); isParagraph {
				n++
			}
		}
	}
	return n
}

// hasContent reports whether a section or any subsection holds body content:
// a bibliography element in a bibliography section, an equation with TeX,
// a figure, or a non-empty text block. Titles do not count.
func (o *outline) hasContent(s *domain.Section, markup driven.Markup) (bool, error) {
	bibliography := s.Category == domain.CategoryBibliography
	var check func(*domain.Section) (bool, error)
	check = func(sec *domain.Section) (bool, error) {
		for _, id := range sec.ElementIDs {
			el, ok := o.doc.Get(id)
			if !ok {
				continue
			}
			switch e := el.(type) {
			case *domain.BibliographyElement:
				if bibliography {
					return true, nil
				}
			case *domain.FigureElement:
				return true, nil
			case *domain.EquationElement:
				if m, ok := o.doc.Get(e.ContainedObjectID); ok {
					if eq, ok := m.(*domain.Equation); ok && strings.TrimSpace(eq.TeXRepresentation) != "" {
						return true, nil
					}
				}
			default:
				t, err := o.elementText(el, markup)
				if err != nil {
					return false, err
				}
				if strings.TrimSpace(t) != "" {
					return true, nil
				}
			}
		}
		for _, child := range o.children[sec.ID] {
			ok, err := check(child)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}
	return check(s)
}
