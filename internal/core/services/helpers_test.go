package services

import (
	"context"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// --- Mock implementations ---

const (
	testTemplateID   = "MPManuscriptTemplate:test-article"
	testManuscriptID = "MPManuscript:1"

	reqSections     = "MPMandatorySubsectionsRequirement:test"
	reqMaxWords     = "MPMaximumManuscriptWordCountRequirement:test"
	reqTitleWords   = "MPMaximumManuscriptTitleWordCountRequirement:test"
	reqIgnoredChars = "MPMaximumManuscriptCharacterCountRequirement:test"

	catAbstract     = "MPSectionCategory:abstract"
	catMethods      = "MPSectionCategory:methods"
	catIntroduction = "MPSectionCategory:introduction"
)

func intPtr(n int) *int { return &n }

// fakeTemplates implements driven.TemplateStore over fixed maps.
type fakeTemplates struct {
	templates    map[string]domain.Template
	requirements map[string]domain.RequirementModel
	categories   map[string]domain.SectionCategory
}

var _ driven.TemplateStore = (*fakeTemplates)(nil)

// newFakeTemplates returns a store holding one template that requires an
// abstract of at most ten words followed by a methods section.
func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{
		templates: map[string]domain.Template{
			testTemplateID: {
				ID:                           testTemplateID,
				Title:                        "Test article",
				RequirementIDs:               []string{reqSections, "MPMaximumFigureCountRequirement:unknown"},
				MaxWordCountRequirement:      reqMaxWords,
				MaxCharCountRequirement:      reqIgnoredChars,
				MaxTitleWordCountRequirement: reqTitleWords,
			},
		},
		requirements: map[string]domain.RequirementModel{
			reqSections: {
				ID:         reqSections,
				ObjectType: domain.RequirementMandatorySubsections,
				Severity:   2,
				SectionDescriptions: []domain.SectionDescription{
					{SectionCategory: catMethods, Title: "Methods", Required: true, Priority: intPtr(2)},
					{
						SectionCategory: catAbstract,
						Title:           "Abstract",
						Required:        true,
						Priority:        intPtr(1),
						MaxWordCount:    intPtr(10),
						Placeholder:     "Summarise the work",
					},
				},
			},
			reqMaxWords: {
				ID:         reqMaxWords,
				ObjectType: domain.RequirementMaxManuscriptWords,
				Severity:   1,
				Count:      intPtr(100),
			},
			reqTitleWords: {
				ID:         reqTitleWords,
				ObjectType: domain.RequirementMaxTitleWords,
				Severity:   1,
				Count:      intPtr(8),
			},
			reqIgnoredChars: {
				ID:         reqIgnoredChars,
				ObjectType: domain.RequirementMaxManuscriptChars,
				Ignored:    true,
				Count:      intPtr(1),
			},
		},
		categories: map[string]domain.SectionCategory{
			catAbstract:                 {ID: catAbstract, Name: "Abstract", UniqueInScope: true},
			catMethods:                  {ID: catMethods, Name: "Methods", UniqueInScope: true},
			catIntroduction:             {ID: catIntroduction, Name: "Introduction"},
			domain.CategoryKeywords:     {ID: domain.CategoryKeywords, Name: "Keywords", UniqueInScope: true},
			domain.CategoryBibliography: {ID: domain.CategoryBibliography, Name: "Bibliography"},
		},
	}
}

func (f *fakeTemplates) Template(id string) (*domain.Template, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTemplates) Templates() []domain.Template {
	out := make([]domain.Template, 0, len(f.templates))
	for _, t := range f.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTemplates) Requirement(id string) (*domain.RequirementModel, bool) {
	m, ok := f.requirements[id]
	if !ok {
		return nil, false
	}
	return &m, true
}

func (f *fakeTemplates) Categories() map[string]domain.SectionCategory {
	return f.categories
}

// fakeStats counts whitespace separated words and runes.
type fakeStats struct{}

func (fakeStats) CountWords(text string) int      { return len(strings.Fields(text)) }
func (fakeStats) CountCharacters(text string) int { return utf8.RuneCountInString(text) }

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// fakeMarkup strips tags with a regular expression.
type fakeMarkup struct{}

func (fakeMarkup) Text(fragment string) (string, error) {
	return html.UnescapeString(tagPattern.ReplaceAllString(fragment, "")), nil
}

func (fakeMarkup) ReplaceText(fragment, text string) (string, error) {
	open := strings.Index(fragment, ">")
	end := strings.LastIndex(fragment, "<")
	if open < 0 || end <= open {
		return html.EscapeString(text), nil
	}
	return fragment[:open+1] + html.EscapeString(text) + fragment[end:], nil
}

// fakeCollator compares lower-cased strings.
type fakeCollator struct{}

func (fakeCollator) Compare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// fakeBinaries implements driven.BinaryStore over a map.
type fakeBinaries struct {
	data map[string][]byte
	err  error
}

func (f *fakeBinaries) Get(_ context.Context, id string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[id], nil
}

// fakeImages returns the info registered for the payload.
type fakeImages struct {
	info map[string]domain.ImageInfo
}

func (f *fakeImages) Inspect(data []byte) domain.ImageInfo {
	return f.info[string(data)]
}

// --- Document fixtures ---

func newTestValidator() *Validator {
	return NewValidator(fakeStats{}, fakeMarkup{}, fakeCollator{}, nil)
}

func newManuscript(title string, keywordIDs ...string) *domain.Manuscript {
	return &domain.Manuscript{
		Base:       domain.Base{ID: testManuscriptID, ObjectType: domain.ObjectManuscript},
		Title:      title,
		KeywordIDs: keywordIDs,
	}
}

func newSection(id, category, title string, priority int, elementIDs ...string) *domain.Section {
	return &domain.Section{
		Base:       domain.Base{ID: id, ObjectType: domain.ObjectSection, ManuscriptID: testManuscriptID},
		Category:   category,
		Title:      title,
		Priority:   priority,
		Path:       []string{id},
		ElementIDs: elementIDs,
	}
}

func newSubsection(parent *domain.Section, id, category, title string, priority int, elementIDs ...string) *domain.Section {
	s := newSection(id, category, title, priority, elementIDs...)
	s.Path = append(append([]string(nil), parent.Path...), id)
	return s
}

func newParagraph(id, contents string) *domain.ParagraphElement {
	return &domain.ParagraphElement{
		Base:     domain.Base{ID: id, ObjectType: domain.ObjectParagraphElement, ManuscriptID: testManuscriptID},
		Contents: contents,
	}
}

func newKeyword(id, name string) *domain.Keyword {
	return &domain.Keyword{
		Base: domain.Base{ID: id, ObjectType: domain.ObjectKeyword, ManuscriptID: testManuscriptID},
		Name: name,
	}
}

// newValidDocument returns a manuscript that passes every check of the
// test template.
func newValidDocument() *domain.Document {
	return domain.NewDocument(
		newManuscript("A short title"),
		newSection("MPSection:abstract", catAbstract, "Abstract", 1, "MPParagraphElement:abstract"),
		newParagraph("MPParagraphElement:abstract", "<p>We study things.</p>"),
		newSection("MPSection:methods", catMethods, "Methods", 2, "MPParagraphElement:methods"),
		newParagraph("MPParagraphElement:methods", "<p>We did things carefully.</p>"),
	)
}

// newKeywordsDocument returns a valid manuscript whose keywords are out of order.
func newKeywordsDocument() *domain.Document {
	doc := newValidDocument()
	ms, _ := doc.Manuscript(testManuscriptID)
	ms.KeywordIDs = []string{"MPKeyword:2", "MPKeyword:0", "MPKeyword:1"}
	doc.Add(newKeyword("MPKeyword:2", "Key2"))
	doc.Add(newKeyword("MPKeyword:0", "Key0"))
	doc.Add(newKeyword("MPKeyword:1", "Key1"))
	doc.Add(newSection("MPSection:keywords", domain.CategoryKeywords, "Keywords", 3, "MPKeywordsElement:1"))
	doc.Add(&domain.KeywordsElement{
		Base:     domain.Base{ID: "MPKeywordsElement:1", ObjectType: domain.ObjectKeywordsElement, ManuscriptID: testManuscriptID},
		Contents: `<div class="manuscript-keywords">Key2, Key0, Key1</div>`,
	})
	return doc
}

func testRequirements() *domain.Requirements {
	store := newFakeTemplates()
	t, _ := store.Template(testTemplateID)
	reqs, _ := ExtractRequirements(t, store)
	return reqs
}

func resultsOfType(results []domain.ValidationResult, t domain.ResultType) []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, r := range results {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

func failed(results []domain.ValidationResult) []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

func section(doc *domain.Document, id string) *domain.Section {
	m, ok := doc.Get(id)
	if !ok {
		return nil
	}
	s, _ := m.(*domain.Section)
	return s
}
