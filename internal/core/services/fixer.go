package services

import (
	"fmt"
	"html"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// Fixer applies automated remediations for fixable failures.
// It only appends or mutates models; it never removes them.
type Fixer struct {
	markup driven.Markup

	now        func() time.Time
	newSession func() string
}

// NewFixer creates a fixer.
func NewFixer(markup driven.Markup) *Fixer {
	return &Fixer{
		markup:     markup,
		now:        time.Now,
		newSession: uuid.NewString,
	}
}

// fixRun holds the bookkeeping of one Fix call.
type fixRun struct {
	*Fixer
	doc        *domain.Document
	scoped     *domain.Document
	manuscript *domain.Manuscript
	timestamp  float64
	session    string
}

// touch refreshes the update marker of a mutated model.
func (f *fixRun) touch(m domain.Model) {
	b := m.Meta()
	b.UpdatedAt = f.timestamp
	b.SessionID = f.session
}

// create fills the bookkeeping fields of a new model and appends it.
func (f *fixRun) create(m domain.Model, objectType domain.ObjectType) {
	b := m.Meta()
	b.ID = newModelID(objectType)
	b.ObjectType = objectType
	b.ManuscriptID = f.manuscript.ID
	b.ContainerID = f.manuscript.ContainerID
	b.CreatedAt = f.timestamp
	b.UpdatedAt = f.timestamp
	b.SessionID = f.session
	f.doc.Add(m)
	f.scoped.Add(m)
}

// Fix mutates doc so that the failed fixable results would pass, and returns
// it. Results are applied in order, except that missing sections are added
// in required order. Every result is resolved before the first mutation, so
// on error doc is left untouched.
func (f *Fixer) Fix(doc *domain.Document, manuscriptID string, results []domain.ValidationResult) (*domain.Document, error) {
	scoped := doc.ForManuscript(manuscriptID)
	manuscript, err := scoped.Manuscript(manuscriptID)
	if err != nil {
		return nil, err
	}

	run := &fixRun{
		Fixer:      f,
		doc:        doc,
		scoped:     scoped,
		manuscript: manuscript,
		timestamp:  float64(f.now().Unix()),
		session:    f.newSession(),
	}

	var steps []func()
	for _, r := range fixOrder(results) {
		step, err := run.prepare(r)
		if err != nil {
			return nil, fmt.Errorf("fix %s: %w", r.Type, err)
		}
		if step != nil {
			steps = append(steps, step)
		}
	}
	for _, step := range steps {
		step()
	}
	return doc, nil
}

// fixOrder returns the failed results. Required-section failures are sorted
// by description priority among the positions they occupy.
func fixOrder(results []domain.ValidationResult) []*domain.ValidationResult {
	var failed []*domain.ValidationResult
	var slots []int
	for i := range results {
		if results[i].Passed {
			continue
		}
		if results[i].Type == domain.ResultRequiredSection {
			slots = append(slots, len(failed))
		}
		failed = append(failed, &results[i])
	}

	required := make([]*domain.ValidationResult, len(slots))
	for i, slot := range slots {
		required[i] = failed[slot]
	}
	sort.SliceStable(required, func(i, j int) bool {
		return requiredPriority(required[i]) < requiredPriority(required[j])
	})
	for i, slot := range slots {
		failed[slot] = required[i]
	}
	return failed
}

func requiredPriority(r *domain.ValidationResult) int {
	if data, ok := r.Data.(*domain.RequiredSectionData); ok {
		return descriptionPriority(data.SectionDescription)
	}
	return 0
}

// prepare resolves everything r refers to and returns the mutation that
// fixes it. A nil step means r needs no change.
func (f *fixRun) prepare(r *domain.ValidationResult) (func(), error) {
	switch r.Type {
	case domain.ResultRequiredSection:
		data, ok := r.Data.(*domain.RequiredSectionData)
		if !ok {
			return nil, wrongData(r)
		}
		return func() { f.addRequiredSection(data.SectionDescription) }, nil

	case domain.ResultSectionTitleMatch:
		data, ok := r.Data.(*domain.SectionTitleData)
		if !ok {
			return nil, wrongData(r)
		}
		return f.retitle(r.AffectedElementID, data.Title)

	case domain.ResultSectionOrder:
		data, ok := r.Data.(*domain.OrderData)
		if !ok {
			return nil, wrongData(r)
		}
		return func() { f.reorderSections(data.Order) }, nil

	case domain.ResultKeywordsOrder:
		data, ok := r.Data.(*domain.OrderData)
		if !ok {
			return nil, wrongData(r)
		}
		return f.reorderKeywords(data.Order)

	default:
		if r.Type.Fixable() {
			return nil, fmt.Errorf("no fix for fixable result type %s: %w", r.Type, domain.ErrInvariant)
		}
	}
	return nil, nil
}

func wrongData(r *domain.ValidationResult) error {
	return fmt.Errorf("result %s carries %T: %w", r.ID, r.Data, domain.ErrInvariant)
}

// addRequiredSection appends a section built from the description, after
// every existing section.
func (f *fixRun) addRequiredSection(desc domain.SectionDescription) {
	s := f.addSection(desc, f.doc.NextPriority(), nil)
	logger.Debug("added %s section %s at priority %d", desc.SectionCategory, s.ID, s.Priority)
}

func (f *fixRun) addSection(desc domain.SectionDescription, priority int, parentPath []string) *domain.Section {
	title := desc.Title
	if title == "" {
		title = domain.CategoryDisplayName(desc.SectionCategory)
	}

	s := &domain.Section{
		Category: desc.SectionCategory,
		Title:    title,
		Priority: priority,
	}
	f.create(s, domain.ObjectSection)
	s.Path = append(slices.Clone(parentPath), s.ID)

	if desc.Placeholder != "" {
		p := &domain.ParagraphElement{Placeholder: desc.Placeholder}
		f.create(p, domain.ObjectParagraphElement)
		p.Contents = fmt.Sprintf(`<p id="%s" class="MPElement" data-placeholder-text="%s"></p>`,
			html.EscapeString(p.ID), html.EscapeString(desc.Placeholder))
		s.ElementIDs = []string{p.ID}
	}

	for i, sub := range desc.Subsections {
		f.addSection(sub, i+1, s.Path)
	}
	return s
}

func (f *fixRun) retitle(id, title string) (func(), error) {
	m, ok := f.scoped.Get(id)
	if !ok {
		return nil, fmt.Errorf("section %q not found: %w", id, domain.ErrInvalidInput)
	}
	s, ok := m.(*domain.Section)
	if !ok {
		return nil, fmt.Errorf("%s is %s, not a section: %w", id, m.Meta().ObjectType, domain.ErrInvariant)
	}
	return func() {
		s.Title = title
		f.touch(s)
	}, nil
}

// reorderSections renumbers the top-level sections of the required
// categories in required order, starting after the highest priority in use.
// Other sections keep their priorities.
func (f *fixRun) reorderSections(order []string) {
	index := make(map[string]int, len(order))
	for i, category := range order {
		if _, ok := index[category]; !ok {
			index[category] = i
		}
	}

	var sections []*domain.Section
	for _, s := range domain.ModelsOf[*domain.Section](f.scoped) {
		if _, ok := index[s.Category]; ok && s.ParentID() == "" {
			sections = append(sections, s)
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		a, b := sections[i], sections[j]
		if index[a.Category] != index[b.Category] {
			return index[a.Category] < index[b.Category]
		}
		return a.Priority < b.Priority
	})

	priority := f.doc.NextPriority()
	for _, s := range sections {
		s.Priority = priority
		priority++
		f.touch(s)
	}
}

// reorderKeywords stores the keyword order on the manuscript and rewrites
// the first keywords element of the keywords section to match.
func (f *fixRun) reorderKeywords(order []string) (func(), error) {
	kws, err := keywords(f.scoped, order)
	if err != nil {
		return nil, err
	}
	section, err := keywordsSection(f.scoped)
	if err != nil {
		return nil, err
	}

	var el *domain.KeywordsElement
	var contents string
	if section != nil {
		el = keywordsElement(f.scoped, section)
	}
	if el != nil {
		names := make([]string, len(kws))
		for i, k := range kws {
			names[i] = k.Name
		}
		contents, err = f.markup.ReplaceText(el.Contents, strings.Join(names, ", "))
		if err != nil {
			return nil, fmt.Errorf("keywords element %s: %w", el.ID, err)
		}
	}

	return func() {
		f.manuscript.KeywordIDs = slices.Clone(order)
		f.touch(f.manuscript)
		if el != nil {
			el.Contents = contents
			f.touch(el)
		}
	}, nil
}

func keywordsElement(doc *domain.Document, section *domain.Section) *domain.KeywordsElement {
	for _, id := range section.ElementIDs {
		m, ok := doc.Get(id)
		if !ok {
			continue
		}
		if el, ok := m.(*domain.KeywordsElement); ok {
			return el
		}
	}
	return nil
}
