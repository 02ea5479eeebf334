package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// requirementIDs returns the requirement IDs a template references, listed
// IDs first and then the scalar reference fields.
func requirementIDs(t *domain.Template) []string {
	ids := append([]string(nil), t.RequirementIDs...)
	for _, id := range []string{
		t.RunningTitleRequirement,
		t.MaxCharCountRequirement,
		t.MinCharCountRequirement,
		t.MaxWordCountRequirement,
		t.MinWordCountRequirement,
		t.MaxTitleCharCountRequirement,
		t.MinTitleCharCountRequirement,
		t.MaxTitleWordCountRequirement,
		t.MinTitleWordCountRequirement,
		t.MaxFigureCountRequirement,
		t.MaxTableCountRequirement,
		t.MaxCombinedFigureTableCountRequirement,
		t.MaxReferenceCountRequirement,
		t.MaxCorrespondingAuthorCountRequirement,
		t.MinFigureWidthRequirement,
		t.MaxFigureWidthRequirement,
		t.MinFigureHeightRequirement,
		t.MaxFigureHeightRequirement,
	} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ExtractRequirements resolves a template's requirement references through
// the store and normalizes them into requirement groups. Unknown IDs and
// missing fields mean "no bound".
func ExtractRequirements(t *domain.Template, store driven.TemplateStore) (*domain.Requirements, error) {
	if t == nil {
		return nil, fmt.Errorf("nil template: %w", domain.ErrInvalidInput)
	}

	byType := make(map[domain.RequirementObjectType][]*domain.RequirementModel)
	seen := make(map[string]bool)
	for _, id := range requirementIDs(t) {
		if seen[id] {
			continue
		}
		seen[id] = true
		model, ok := store.Requirement(id)
		if !ok {
			logger.Debug("template %s: requirement %s not found", t.ID, id)
			continue
		}
		byType[model.ObjectType] = append(byType[model.ObjectType], model)
	}

	count := func(typ domain.RequirementObjectType) *domain.CountRequirement {
		models := byType[typ]
		if len(models) == 0 {
			return nil
		}
		m := models[0]
		if m.Ignored || m.Count == nil {
			return nil
		}
		return &domain.CountRequirement{Count: *m.Count, Severity: m.Severity}
	}

	reqs := &domain.Requirements{
		TemplateID: t.ID,
		Manuscript: domain.TextCounts{
			Characters: domain.CountBounds{
				Max: count(domain.RequirementMaxManuscriptChars),
				Min: count(domain.RequirementMinManuscriptChars),
			},
			Words: domain.CountBounds{
				Max: count(domain.RequirementMaxManuscriptWords),
				Min: count(domain.RequirementMinManuscriptWords),
			},
		},
		Title: domain.TextCounts{
			Characters: domain.CountBounds{
				Max: count(domain.RequirementMaxTitleChars),
				Min: count(domain.RequirementMinTitleChars),
			},
			Words: domain.CountBounds{
				Max: count(domain.RequirementMaxTitleWords),
				Min: count(domain.RequirementMinTitleWords),
			},
		},
		RunningTitle:         domain.CountBounds{Max: count(domain.RequirementMaxRunningTitleChars)},
		Figures:              domain.CountBounds{Max: count(domain.RequirementMaxFigures)},
		Tables:               domain.CountBounds{Max: count(domain.RequirementMaxTables)},
		CombinedFigureTables: domain.CountBounds{Max: count(domain.RequirementMaxCombinedFigureTables)},
		References:           domain.CountBounds{Max: count(domain.RequirementMaxReferences)},
		CorrespondingAuthors: domain.CountBounds{Max: count(domain.RequirementMaxCorrespondingAuthors)},
		FigureResolution: domain.FigureResolution{
			Width: domain.CountBounds{
				Max: count(domain.RequirementMaxFigureWidth),
				Min: count(domain.RequirementMinFigureWidth),
			},
			Height: domain.CountBounds{
				Max: count(domain.RequirementMaxFigureHeight),
				Min: count(domain.RequirementMinFigureHeight),
			},
			DPI: figureDPI(t),
		},
		Categories: store.Categories(),
	}

	for _, f := range t.AcceptableFigureFormats {
		reqs.FigureFormats = append(reqs.FigureFormats, strings.ToLower(strings.TrimSpace(f)))
	}

	sectionIndex := make(map[string]int)
	for _, m := range byType[domain.RequirementMandatorySubsections] {
		if m.Ignored {
			continue
		}
		for _, desc := range m.SectionDescriptions {
			if desc.Required {
				reqs.RequiredSections = append(reqs.RequiredSections, domain.RequiredSection{
					Description: desc,
					Severity:    m.Severity,
				})
				reqs.SectionTitles = append(reqs.SectionTitles, domain.SectionTitleRequirement{
					Category: desc.SectionCategory,
					Title:    desc.Title,
					Severity: m.Severity,
				})
			}

			counts := sectionCounts(desc, m.Severity)
			if i, ok := sectionIndex[desc.SectionCategory]; ok {
				reqs.Sections[i] = counts
			} else {
				sectionIndex[desc.SectionCategory] = len(reqs.Sections)
				reqs.Sections = append(reqs.Sections, counts)
			}
		}
	}

	sort.SliceStable(reqs.RequiredSections, func(i, j int) bool {
		return descriptionPriority(reqs.RequiredSections[i].Description) <
			descriptionPriority(reqs.RequiredSections[j].Description)
	})

	logger.Debug("template %s: %d required sections, %d section count rules",
		t.ID, len(reqs.RequiredSections), len(reqs.Sections))
	return reqs, nil
}

func descriptionPriority(d domain.SectionDescription) int {
	if d.Priority == nil {
		return 0
	}
	return *d.Priority
}

func sectionCounts(d domain.SectionDescription, severity int) domain.SectionCounts {
	bound := func(n *int) *domain.CountRequirement {
		if n == nil {
			return nil
		}
		return &domain.CountRequirement{Count: *n, Severity: severity}
	}
	return domain.SectionCounts{
		Category: d.SectionCategory,
		TextCounts: domain.TextCounts{
			Characters: domain.CountBounds{Max: bound(d.MaxCharCount), Min: bound(d.MinCharCount)},
			Words:      domain.CountBounds{Max: bound(d.MaxWordCount), Min: bound(d.MinWordCount)},
		},
		Paragraphs: domain.CountBounds{Max: bound(d.MaxParagraphsCount)},
	}
}

// figureDPI returns the DPI used to express pixel bounds as physical sizes.
// It is only defined when exactly one screen DPI bound is declared.
func figureDPI(t *domain.Template) *int {
	minDPI, maxDPI := t.ScreenDPI()
	switch {
	case minDPI != nil && maxDPI != nil:
		logger.Warn("template %s declares both min and max screen DPI; figure sizes are reported in pixels", t.ID)
		return nil
	case minDPI != nil:
		return minDPI
	default:
		return maxDPI
	}
}
