package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

func newTestFixer() *Fixer {
	f := NewFixer(fakeMarkup{})
	f.now = func() time.Time { return time.Unix(1700000000, 0) }
	f.newSession = func() string { return "session-1" }
	return f
}

// fixAndValidate fixes the failed fixable results of doc and returns the
// results of a fresh validation.
func fixAndValidate(t *testing.T, doc *domain.Document) []domain.ValidationResult {
	t.Helper()
	results := validate(t, doc, testRequirements())
	_, err := newTestFixer().Fix(doc, testManuscriptID, failedFixable(results))
	require.NoError(t, err)
	return validate(t, doc, testRequirements())
}

func TestFixer_Retitle(t *testing.T) {
	doc := newValidDocument()
	methods := section(doc, "MPSection:methods")
	methods.Title = "foo"

	after := fixAndValidate(t, doc)

	assert.Equal(t, "Methods", methods.Title)
	assert.Equal(t, float64(1700000000), methods.UpdatedAt)
	assert.Equal(t, "session-1", methods.SessionID)
	assert.Empty(t, failed(after))
}

func TestFixer_KeywordsOrder(t *testing.T) {
	doc := newKeywordsDocument()

	after := fixAndValidate(t, doc)

	ms, err := doc.Manuscript(testManuscriptID)
	require.NoError(t, err)
	assert.Equal(t, []string{"MPKeyword:0", "MPKeyword:1", "MPKeyword:2"}, ms.KeywordIDs)

	el, _ := doc.Get("MPKeywordsElement:1")
	assert.Equal(t, `<div class="manuscript-keywords">Key0, Key1, Key2</div>`, el.(*domain.KeywordsElement).Contents)
	assert.Empty(t, failed(after))
}

func TestFixer_KeywordsOrderDeterministic(t *testing.T) {
	first := newKeywordsDocument()
	second := newKeywordsDocument()

	fixAndValidate(t, first)
	fixAndValidate(t, second)

	a, _ := first.Manuscript(testManuscriptID)
	b, _ := second.Manuscript(testManuscriptID)
	assert.Equal(t, a.KeywordIDs, b.KeywordIDs)
}

func TestFixer_AddRequiredSection(t *testing.T) {
	doc := newValidDocument()
	doc.Remove("MPSection:abstract")
	doc.Remove("MPParagraphElement:abstract")
	section(doc, "MPSection:methods").Priority = 5
	before := doc.Len()

	results := validate(t, doc, testRequirements())
	_, err := newTestFixer().Fix(doc, testManuscriptID, failedFixable(results))
	require.NoError(t, err)

	require.Equal(t, before+2, doc.Len(), "a section and its placeholder paragraph")

	var added *domain.Section
	for _, s := range domain.ModelsOf[*domain.Section](doc) {
		if s.Category == catAbstract {
			added = s
		}
	}
	require.NotNil(t, added)
	assert.True(t, strings.HasPrefix(added.ID, "MPSection:"))
	assert.Equal(t, "Abstract", added.Title)
	assert.Equal(t, 6, added.Priority, "new sections go after every existing one")
	assert.Equal(t, []string{added.ID}, added.Path)
	assert.Equal(t, testManuscriptID, added.ManuscriptID)
	require.Len(t, added.ElementIDs, 1)

	p, ok := doc.Get(added.ElementIDs[0])
	require.True(t, ok)
	paragraph := p.(*domain.ParagraphElement)
	assert.Equal(t, "Summarise the work", paragraph.Placeholder)
	assert.Contains(t, paragraph.Contents, `data-placeholder-text="Summarise the work"`)
	assert.Contains(t, paragraph.Contents, `id="`+paragraph.ID+`"`)
}

func TestFixer_AddSectionWithSubsections(t *testing.T) {
	doc := newValidDocument()
	result := domain.ValidationResult{
		Base: domain.Base{ObjectType: domain.ObjectRequiredSectionResult},
		Type: domain.ResultRequiredSection,
		Data: &domain.RequiredSectionData{
			SectionCategory: catIntroduction,
			SectionDescription: domain.SectionDescription{
				SectionCategory: catIntroduction,
				Subsections: []domain.SectionDescription{
					{SectionCategory: "MPSectionCategory:background", Title: "Background"},
					{SectionCategory: "MPSectionCategory:aims"},
				},
			},
		},
	}

	_, err := newTestFixer().Fix(doc, testManuscriptID, []domain.ValidationResult{result})
	require.NoError(t, err)

	tree, err := buildOutline(doc, fakeMarkup{})
	require.NoError(t, err)
	top := tree.topLevel()
	intro := top[len(top)-1]
	assert.Equal(t, "Introduction", intro.Title)
	assert.Equal(t, 3, intro.Priority)

	children := tree.children[intro.ID]
	require.Len(t, children, 2)
	assert.Equal(t, "Background", children[0].Title)
	assert.Equal(t, 1, children[0].Priority)
	assert.Equal(t, "Aims", children[1].Title)
	assert.Equal(t, []string{intro.ID, children[1].ID}, children[1].Path)
}

func TestFixer_RequiredSectionsInPriorityOrder(t *testing.T) {
	doc := domain.NewDocument(newManuscript("A short title"))

	results := validate(t, doc, testRequirements())
	// Reverse the failures; the fixer still adds them in required order.
	fixable := failedFixable(results)
	fixable[0], fixable[1] = fixable[1], fixable[0]
	_, err := newTestFixer().Fix(doc, testManuscriptID, fixable)
	require.NoError(t, err)

	tree, err := buildOutline(doc, fakeMarkup{})
	require.NoError(t, err)
	assert.Equal(t, []string{catAbstract, catMethods}, tree.categories)
}

func TestFixer_ReorderSections(t *testing.T) {
	doc := newValidDocument()
	section(doc, "MPSection:abstract").Priority = 7
	doc.Add(newSection("MPSection:other", catIntroduction, "Introduction", 3))

	after := fixAndValidate(t, doc)

	abstract := section(doc, "MPSection:abstract")
	methods := section(doc, "MPSection:methods")
	assert.Equal(t, 8, abstract.Priority)
	assert.Equal(t, 9, methods.Priority)
	assert.Equal(t, 3, section(doc, "MPSection:other").Priority, "other sections keep their priority")
	assert.Empty(t, resultsOfType(failed(after), domain.ResultSectionOrder))
}

func TestFixer_PriorityMonotonic(t *testing.T) {
	doc := newValidDocument()
	doc.Remove("MPSection:methods")
	existing := map[string]int{}
	for _, s := range domain.ModelsOf[*domain.Section](doc) {
		existing[s.ID] = s.Priority
	}

	fixAndValidate(t, doc)

	for _, s := range domain.ModelsOf[*domain.Section](doc) {
		if _, ok := existing[s.ID]; ok || s.ParentID() != "" {
			continue
		}
		for _, p := range existing {
			assert.Greater(t, s.Priority, p)
		}
	}
}

func TestFixer_Idempotent(t *testing.T) {
	doc := newValidDocument()
	section(doc, "MPSection:methods").Title = "foo"
	fixAndValidate(t, doc)
	n := doc.Len()

	after := fixAndValidate(t, doc)

	assert.Equal(t, n, doc.Len())
	assert.Empty(t, failed(after))
}

func TestFixer_TwoPassOrder(t *testing.T) {
	doc := newValidDocument()
	doc.Remove("MPSection:abstract")
	doc.Remove("MPParagraphElement:abstract")
	section(doc, "MPSection:methods").Priority = 1

	first := fixAndValidate(t, doc)
	order := resultsOfType(first, domain.ResultSectionOrder)
	require.Len(t, order, 1)
	assert.False(t, order[0].Passed, "the added section lands after methods")

	second := fixAndValidate(t, doc)
	assert.Empty(t, failedFixable(second))
}

func TestFixer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		result domain.ValidationResult
		err    error
	}{
		{
			name: "wrong payload",
			result: domain.ValidationResult{
				Type: domain.ResultSectionTitleMatch,
				Data: &domain.OrderData{},
			},
			err: domain.ErrInvariant,
		},
		{
			name: "missing section",
			result: domain.ValidationResult{
				Type:              domain.ResultSectionTitleMatch,
				AffectedElementID: "MPSection:missing",
				Data:              &domain.SectionTitleData{Title: "Methods"},
			},
			err: domain.ErrInvalidInput,
		},
		{
			name: "not a section",
			result: domain.ValidationResult{
				Type:              domain.ResultSectionTitleMatch,
				AffectedElementID: "MPParagraphElement:methods",
				Data:              &domain.SectionTitleData{Title: "Methods"},
			},
			err: domain.ErrInvariant,
		},
		{
			name: "unknown keyword",
			result: domain.ValidationResult{
				Type: domain.ResultKeywordsOrder,
				Data: &domain.OrderData{Order: []string{"MPKeyword:missing"}},
			},
			err: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestFixer().Fix(newValidDocument(), testManuscriptID, []domain.ValidationResult{tt.result})
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFixer_SkipsPassedAndUnfixable(t *testing.T) {
	doc := newValidDocument()
	n := doc.Len()

	_, err := newTestFixer().Fix(doc, testManuscriptID, []domain.ValidationResult{
		{Type: domain.ResultSectionTitleMatch, Passed: true, Data: &domain.SectionTitleData{Title: "x"}},
		{Type: domain.ResultManuscriptMaxWords, Data: &domain.CountData{}},
	})
	require.NoError(t, err)

	assert.Equal(t, n, doc.Len())
	assert.Equal(t, "Methods", section(doc, "MPSection:methods").Title)
}

func TestFixer_MissingManuscript(t *testing.T) {
	_, err := newTestFixer().Fix(newValidDocument(), "MPManuscript:missing", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// brokenMarkup fails every rewrite.
type brokenMarkup struct{ fakeMarkup }

func (brokenMarkup) ReplaceText(string, string) (string, error) {
	return "", errors.New("malformed fragment")
}

func TestFixer_ErrorLeavesDocumentUntouched(t *testing.T) {
	t.Run("unknown section", func(t *testing.T) {
		doc := newValidDocument()
		doc.Remove("MPSection:abstract")
		doc.Remove("MPParagraphElement:abstract")
		section(doc, "MPSection:methods").Title = "foo"
		n := doc.Len()

		_, err := newTestFixer().Fix(doc, testManuscriptID, []domain.ValidationResult{
			{
				Type: domain.ResultRequiredSection,
				Data: &domain.RequiredSectionData{
					SectionDescription: domain.SectionDescription{SectionCategory: catAbstract, Title: "Abstract", Placeholder: "Summarise"},
					SectionCategory:    catAbstract,
				},
			},
			{
				Type:              domain.ResultSectionTitleMatch,
				AffectedElementID: "MPSection:methods",
				Data:              &domain.SectionTitleData{Title: "Methods"},
			},
			{
				Type:              domain.ResultSectionTitleMatch,
				AffectedElementID: "MPSection:missing",
				Data:              &domain.SectionTitleData{Title: "Methods"},
			},
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, n, doc.Len())
		assert.Equal(t, "foo", section(doc, "MPSection:methods").Title)
		assert.Zero(t, section(doc, "MPSection:methods").UpdatedAt)
	})

	t.Run("markup failure", func(t *testing.T) {
		doc := newKeywordsDocument()
		section(doc, "MPSection:methods").Title = "foo"
		f := newTestFixer()
		f.markup = brokenMarkup{}

		results := validate(t, doc, testRequirements())
		_, err := f.Fix(doc, testManuscriptID, failedFixable(results))

		require.Error(t, err)
		assert.Equal(t, "foo", section(doc, "MPSection:methods").Title)
		ms, _ := doc.Manuscript(testManuscriptID)
		assert.Equal(t, []string{"MPKeyword:2", "MPKeyword:0", "MPKeyword:1"}, ms.KeywordIDs)
	})
}
