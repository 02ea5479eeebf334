package services

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

var validDOI = regexp.MustCompile(`^(https://doi.org/)?10\..+/.+`)

// validation holds the state of a single Validate call.
type validation struct {
	*Validator

	doc        *domain.Document
	manuscript *domain.Manuscript
	tree       *outline
	reqs       *domain.Requirements
	binaries   driven.BinaryStore

	// required is written by the required-sections check before its done
	// channel closes.
	required []domain.ValidationResult

	// figureData is written by the figure-data task before its done channel
	// closes. Figures without a payload have no entry.
	figureData map[string][]byte
}

func (r *validation) newResult(t domain.ResultType, passed bool, severity int, data domain.ResultData) domain.ValidationResult {
	objectType := t.ObjectType()
	return domain.ValidationResult{
		Base: domain.Base{
			ID:           newModelID(objectType),
			ObjectType:   objectType,
			ManuscriptID: r.manuscript.ID,
		},
		Type:     t,
		Passed:   passed,
		Severity: severity,
		Fixable:  t.Fixable(),
		Data:     data,
	}
}

// countResult compares count with the bound. It returns nil when there is
// no bound.
func (r *validation) countResult(t domain.ResultType, count int, bound *domain.CountRequirement, checkMax bool) *domain.ValidationResult {
	if bound == nil {
		return nil
	}
	passed := count >= bound.Count
	if checkMax {
		passed = count <= bound.Count
	}
	res := r.newResult(t, passed, bound.Severity, &domain.CountData{Count: count, Value: bound.Count})
	return &res
}

type resultList []domain.ValidationResult

func (l *resultList) add(r *domain.ValidationResult) {
	if r != nil {
		*l = append(*l, *r)
	}
}

func (r *validation) requiredSections() []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, rs := range r.reqs.RequiredSections {
		category := rs.Description.SectionCategory
		_, present := r.tree.byCategory[category]
		out = append(out, r.newResult(domain.ResultRequiredSection, present, rs.Severity, &domain.RequiredSectionData{
			SectionDescription: rs.Description,
			SectionCategory:    category,
		}))
	}
	return out
}

// missingSection reports whether a required section failed in this run.
// Stored ignored records do not count: an ignored failure still leaves the
// section missing from the raw results.
func (r *validation) missingSection() bool {
	for _, res := range r.required {
		if !res.Passed {
			return true
		}
	}
	return false
}

func (r *validation) sectionOrder() []domain.ValidationResult {
	if r.missingSection() {
		return nil
	}
	required := r.reqs.RequiredOrder()

	passed := true
	var current []string
	for _, category := range r.tree.categories {
		if !slices.Contains(required, category) {
			continue
		}
		if !sequential(priorities(r.tree.byCategory[category])) {
			passed = false
			break
		}
		current = append(current, category)
	}
	if passed {
		passed = slices.Equal(required, current)
	}

	return []domain.ValidationResult{
		r.newResult(domain.ResultSectionOrder, passed, 0, &domain.OrderData{Order: required}),
	}
}

func priorities(sections []*domain.Section) []int {
	out := make([]int, len(sections))
	for i, s := range sections {
		out[i] = s.Priority
	}
	return out
}

// sequential reports whether the numbers form a run of consecutive integers.
func sequential(nums []int) bool {
	sorted := slices.Clone(nums)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] != 1 {
			return false
		}
	}
	return true
}

func (r *validation) manuscriptCounts() []domain.ValidationResult {
	text := r.tree.manuscriptText()
	chars := r.stats.CountCharacters(text)
	words := r.stats.CountWords(text)
	bounds := r.reqs.Manuscript

	var out resultList
	out.add(r.countResult(domain.ResultManuscriptMaxCharacters, chars, bounds.Characters.Max, true))
	out.add(r.countResult(domain.ResultManuscriptMinCharacters, chars, bounds.Characters.Min, false))
	out.add(r.countResult(domain.ResultManuscriptMaxWords, words, bounds.Words.Max, true))
	out.add(r.countResult(domain.ResultManuscriptMinWords, words, bounds.Words.Min, false))
	return out
}

func (r *validation) sectionCounts() []domain.ValidationResult {
	var out resultList
	for _, bounds := range r.reqs.Sections {
		for _, s := range r.tree.byCategory[bounds.Category] {
			text := r.tree.text[s.ID]
			chars := r.stats.CountCharacters(text)
			words := r.stats.CountWords(text)
			paragraphs := r.tree.paragraphs(s)

			section := func(res *domain.ValidationResult) *domain.ValidationResult {
				if res != nil {
					res.Data.(*domain.CountData).SectionCategory = bounds.Category
					res.AffectedElementID = s.ID
				}
				return res
			}
			out.add(section(r.countResult(domain.ResultSectionMaxCharacters, chars, bounds.Characters.Max, true)))
			out.add(section(r.countResult(domain.ResultSectionMinCharacters, chars, bounds.Characters.Min, false)))
			out.add(section(r.countResult(domain.ResultSectionMaxWords, words, bounds.Words.Max, true)))
			out.add(section(r.countResult(domain.ResultSectionMinWords, words, bounds.Words.Min, false)))
			out.add(section(r.countResult(domain.ResultSectionMaxParagraphs, paragraphs, bounds.Paragraphs.Max, true)))
		}
	}
	return out
}

func (r *validation) sectionTitles() []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, req := range r.reqs.SectionTitles {
		for _, s := range r.tree.byCategory[req.Category] {
			content := r.newResult(domain.ResultSectionTitleContainsContent,
				strings.TrimSpace(s.Title) != "", req.Severity,
				&domain.SectionData{SectionCategory: s.Category})
			content.AffectedElementID = s.ID
			out = append(out, content)

			if req.Title == "" {
				continue
			}
			match := r.newResult(domain.ResultSectionTitleMatch, s.Title == req.Title, req.Severity,
				&domain.SectionTitleData{Title: req.Title, SectionCategory: s.Category})
			match.AffectedElementID = s.ID
			out = append(out, match)
		}
	}
	return out
}

func (r *validation) sectionBodies() ([]domain.ValidationResult, error) {
	var out []domain.ValidationResult
	for _, category := range r.tree.categories {
		for _, s := range r.tree.byCategory[category] {
			ok, err := r.tree.hasContent(s, r.markup)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", s.ID, err)
			}
			title, err := r.markup.Text(s.Title)
			if err != nil {
				return nil, fmt.Errorf("section %s title: %w", s.ID, err)
			}
			res := r.newResult(domain.ResultSectionBodyHasContent, ok, 0,
				&domain.SectionData{SectionCategory: category, SectionTitle: title})
			res.AffectedElementID = s.ID
			out = append(out, res)
		}
	}
	return out, nil
}

// categoryUniqueness reports every section, at any depth, whose category is
// unique in scope and already appeared in the same scope.
func (r *validation) categoryUniqueness() []domain.ValidationResult {
	var order []string
	byCategory := make(map[string][]*domain.Section)
	r.tree.walk(func(s *domain.Section) {
		if s.Category == "" {
			return
		}
		if _, ok := byCategory[s.Category]; !ok {
			order = append(order, s.Category)
		}
		byCategory[s.Category] = append(byCategory[s.Category], s)
	})

	var out []domain.ValidationResult
	for _, category := range order {
		if !r.reqs.Categories[category].UniqueInScope {
			continue
		}
		scopes := make(map[string]bool)
		for _, s := range byCategory[category] {
			scope := s.Scope()
			if !scopes[scope] {
				scopes[scope] = true
				continue
			}
			res := r.newResult(domain.ResultSectionCategoryUniqueness, false, 0,
				&domain.SectionData{SectionCategory: category})
			res.AffectedElementID = s.ID
			out = append(out, res)
		}
	}
	return out
}

func (r *validation) titleCounts() ([]domain.ValidationResult, error) {
	title, err := r.markup.Text(r.manuscript.Title)
	if err != nil {
		return nil, fmt.Errorf("manuscript title: %w", err)
	}
	words := r.stats.CountWords(title)
	chars := r.stats.CountCharacters(title)
	bounds := r.reqs.Title

	var out resultList
	out.add(r.countResult(domain.ResultTitleMaxWords, words, bounds.Words.Max, true))
	out.add(r.countResult(domain.ResultTitleMinWords, words, bounds.Words.Min, false))
	out.add(r.countResult(domain.ResultTitleMaxCharacters, chars, bounds.Characters.Max, true))
	out.add(r.countResult(domain.ResultTitleMinCharacters, chars, bounds.Characters.Min, false))
	return out, nil
}

// citedReferences returns the IDs of cited bibliography items in citation order.
func (r *validation) citedReferences() []string {
	var refs []string
	seen := make(map[string]bool)
	for _, c := range domain.ModelsOf[*domain.Citation](r.doc) {
		for _, item := range c.EmbeddedCitationItems {
			if item.BibliographyItem == "" || seen[item.BibliographyItem] {
				continue
			}
			seen[item.BibliographyItem] = true
			refs = append(refs, item.BibliographyItem)
		}
	}
	return refs
}

func (r *validation) references() ([]domain.ValidationResult, error) {
	refs := r.citedReferences()

	var out resultList
	out.add(r.countResult(domain.ResultMaxReferences, len(refs), r.reqs.References.Max, true))

	for _, id := range refs {
		m, ok := r.doc.Get(id)
		if !ok {
			return nil, fmt.Errorf("reference %s not found: %w", id, domain.ErrInvalidInput)
		}
		item, ok := m.(*domain.BibliographyItem)
		if !ok {
			return nil, fmt.Errorf("reference %s is %s: %w", id, m.Meta().ObjectType, domain.ErrInvalidInput)
		}

		if item.DOI != "" {
			format := r.newResult(domain.ResultBibliographyDOIFormat, validDOI.MatchString(item.DOI), 0, nil)
			format.AffectedElementID = item.ID
			out = append(out, format)
		}
		exist := r.newResult(domain.ResultBibliographyDOIExist, item.DOI != "", 0, nil)
		exist.AffectedElementID = item.ID
		out = append(out, exist)
	}
	return out, nil
}

func (r *validation) figureTableCounts() []domain.ValidationResult {
	figures := len(domain.ModelsOf[*domain.Figure](r.doc))
	tables := len(domain.ModelsOf[*domain.Table](r.doc))

	var out resultList
	out.add(r.countResult(domain.ResultMaxFigures, figures, r.reqs.Figures.Max, true))
	out.add(r.countResult(domain.ResultMaxTables, tables, r.reqs.Tables.Max, true))
	out.add(r.countResult(domain.ResultMaxCombinedFigureTables, figures+tables, r.reqs.CombinedFigureTables.Max, true))
	return out
}

// loadFigureData fetches the payload of every figure once.
func (r *validation) loadFigureData(ctx context.Context) error {
	r.figureData = make(map[string][]byte)
	if r.binaries == nil {
		return nil
	}
	for _, f := range domain.ModelsOf[*domain.Figure](r.doc) {
		data, err := r.binaries.Get(ctx, f.ID)
		if err != nil {
			return fmt.Errorf("figure %s: %w", f.ID, err)
		}
		if len(data) > 0 {
			r.figureData[f.ID] = data
		}
	}
	return nil
}

// contentTypeFormat maps the content types a figure may declare to an image kind.
func contentTypeFormat(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpeg"
	case "image/png":
		return "png"
	case "image/tiff":
		return "tiff"
	default:
		return ""
	}
}

func (r *validation) figureFormats() []domain.ValidationResult {
	allowed := r.reqs.FigureFormats
	if len(allowed) == 0 {
		return nil
	}

	var out []domain.ValidationResult
	for _, f := range domain.ModelsOf[*domain.Figure](r.doc) {
		contentType := f.ContentType
		format := ""
		data, inspected := r.figureData[f.ID]
		inspected = inspected && r.images != nil
		if inspected {
			info := r.images.Inspect(data)
			format = info.Format
			if contentType == "" {
				contentType = info.ContentType
			}
		} else {
			// Without a payload the declared type is all there is.
			format = contentTypeFormat(f.ContentType)
		}
		if format == "" && contentType == "" {
			continue
		}

		res := r.newResult(domain.ResultFigureFormat, format != "" && slices.Contains(allowed, format), 0,
			&domain.FigureFormatData{ContentType: contentType, AllowedImageTypes: allowed})
		res.AffectedElementID = f.ID
		out = append(out, res)
	}
	return out
}

func (r *validation) figureImages() []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, f := range domain.ModelsOf[*domain.Figure](r.doc) {
		_, ok := r.figureData[f.ID]
		res := r.newResult(domain.ResultFigureContainsImage, ok, 0, nil)
		res.AffectedElementID = f.ID
		out = append(out, res)
	}
	return out
}

func (r *validation) figureResolution() ([]domain.ValidationResult, error) {
	bounds := r.reqs.FigureResolution
	if r.images == nil || (!bounds.HasWidthBound() && !bounds.HasHeightBound()) {
		return nil, nil
	}

	var out resultList
	for _, f := range domain.ModelsOf[*domain.Figure](r.doc) {
		data, ok := r.figureData[f.ID]
		if !ok {
			continue
		}
		info := r.images.Inspect(data)

		dimension := func(t domain.ResultType, count int, bound *domain.CountRequirement, checkMax bool) {
			if bound == nil {
				return
			}
			passed := count >= bound.Count
			if checkMax {
				passed = count <= bound.Count
			}
			res := r.newResult(t, passed, bound.Severity, &domain.FigureResolutionData{
				Count: count,
				Value: bound.Count,
				DPI:   bounds.DPI,
				ID:    f.ID,
			})
			res.AffectedElementID = f.ID
			out.add(&res)
		}

		switch {
		case info.Width > 0:
			dimension(domain.ResultFigureMinWidth, info.Width, bounds.Width.Min, false)
			dimension(domain.ResultFigureMaxWidth, info.Width, bounds.Width.Max, true)
		case bounds.HasWidthBound():
			return nil, fmt.Errorf("figure %s: unknown image width: %w", f.ID, domain.ErrInvariant)
		}

		switch {
		case info.Height > 0:
			dimension(domain.ResultFigureMinHeight, info.Height, bounds.Height.Min, false)
			dimension(domain.ResultFigureMaxHeight, info.Height, bounds.Height.Max, true)
		case bounds.HasHeightBound():
			return nil, fmt.Errorf("figure %s: unknown image height: %w", f.ID, domain.ErrInvariant)
		}
	}
	return out, nil
}

// keywords resolves the manuscript's keyword IDs.
func keywords(doc *domain.Document, ids []string) ([]*domain.Keyword, error) {
	out := make([]*domain.Keyword, 0, len(ids))
	for _, id := range ids {
		m, ok := doc.Get(id)
		if !ok {
			return nil, fmt.Errorf("keyword %s not found: %w", id, domain.ErrInvalidInput)
		}
		k, ok := m.(*domain.Keyword)
		if !ok {
			return nil, fmt.Errorf("%s is %s, not a keyword: %w", id, m.Meta().ObjectType, domain.ErrInvalidInput)
		}
		out = append(out, k)
	}
	return out, nil
}

// keywordsSection returns the only keywords section of the document, or nil
// when there is none.
func keywordsSection(doc *domain.Document) (*domain.Section, error) {
	var found *domain.Section
	for _, s := range domain.ModelsOf[*domain.Section](doc) {
		if s.Category != domain.CategoryKeywords {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("more than one keywords section (%s, %s): %w", found.ID, s.ID, domain.ErrInvalidInput)
		}
		found = s
	}
	return found, nil
}

// sortKeywords orders keywords by name, ignoring case and punctuation.
// Equal names keep their relative order.
func sortKeywords(kws []*domain.Keyword, collator driven.Collator) []*domain.Keyword {
	sorted := slices.Clone(kws)
	sort.SliceStable(sorted, func(i, j int) bool {
		return collator.Compare(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}

func (r *validation) keywordsOrder() ([]domain.ValidationResult, error) {
	ids := r.manuscript.KeywordIDs
	if len(ids) == 0 {
		return nil, nil
	}
	kws, err := keywords(r.doc, ids)
	if err != nil {
		return nil, err
	}
	if _, err := keywordsSection(r.doc); err != nil {
		return nil, err
	}

	sorted := sortKeywords(kws, r.collator)
	order := make([]string, len(sorted))
	for i, k := range sorted {
		order[i] = k.ID
	}

	return []domain.ValidationResult{
		r.newResult(domain.ResultKeywordsOrder, slices.Equal(order, ids), 0, &domain.OrderData{Order: order}),
	}, nil
}

func (r *validation) correspondingAuthors() []domain.ValidationResult {
	n := 0
	for _, c := range domain.ModelsOf[*domain.Contributor](r.doc) {
		if c.ManuscriptID == r.manuscript.ID && c.IsCorresponding {
			n++
		}
	}
	var out resultList
	out.add(r.countResult(domain.ResultMaxCorrespondingAuthors, n, r.reqs.CorrespondingAuthors.Max, true))
	return out
}

func (r *validation) runningTitle() []domain.ValidationResult {
	if r.manuscript.RunningTitle == "" {
		return nil
	}
	var out resultList
	out.add(r.countResult(domain.ResultRunningTitleMaxCharacters,
		r.stats.CountCharacters(r.manuscript.RunningTitle), r.reqs.RunningTitle.Max, true))
	return out
}
