package domain

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Template is a named bundle of requirement references published by an
// editorial venue. Templates are immutable once loaded.
type Template struct {
	ID             string   `json:"_id" yaml:"_id"`
	Title          string   `json:"title,omitempty" yaml:"title,omitempty"`
	RequirementIDs []string `json:"requirementIDs,omitempty" yaml:"requirementIDs,omitempty"`

	MaxCharCountRequirement string `json:"maxCharCountRequirement,omitempty" yaml:"maxCharCountRequirement,omitempty"`
	MinCharCountRequirement string `json:"minCharCountRequirement,omitempty" yaml:"minCharCountRequirement,omitempty"`
	MaxWordCountRequirement string `json:"maxWordCountRequirement,omitempty" yaml:"maxWordCountRequirement,omitempty"`
	MinWordCountRequirement string `json:"minWordCountRequirement,omitempty" yaml:"minWordCountRequirement,omitempty"`

	MaxTitleCharCountRequirement string `json:"maxManuscriptTitleCharacterCountRequirement,omitempty" yaml:"maxManuscriptTitleCharacterCountRequirement,omitempty"`
	MinTitleCharCountRequirement string `json:"minManuscriptTitleCharacterCountRequirement,omitempty" yaml:"minManuscriptTitleCharacterCountRequirement,omitempty"`
	MaxTitleWordCountRequirement string `json:"maxManuscriptTitleWordCountRequirement,omitempty" yaml:"maxManuscriptTitleWordCountRequirement,omitempty"`
	MinTitleWordCountRequirement string `json:"minManuscriptTitleWordCountRequirement,omitempty" yaml:"minManuscriptTitleWordCountRequirement,omitempty"`
	RunningTitleRequirement      string `json:"manuscriptRunningTitleRequirement,omitempty" yaml:"manuscriptRunningTitleRequirement,omitempty"`

	MaxFigureCountRequirement              string `json:"maxFigureCountRequirement,omitempty" yaml:"maxFigureCountRequirement,omitempty"`
	MaxTableCountRequirement               string `json:"maxTableCountRequirement,omitempty" yaml:"maxTableCountRequirement,omitempty"`
	MaxCombinedFigureTableCountRequirement string `json:"maxCombinedFigureTableCountRequirement,omitempty" yaml:"maxCombinedFigureTableCountRequirement,omitempty"`
	MaxReferenceCountRequirement           string `json:"maxReferenceCountRequirement,omitempty" yaml:"maxReferenceCountRequirement,omitempty"`
	MaxCorrespondingAuthorCountRequirement string `json:"maxCorrespondingAuthorCountRequirement,omitempty" yaml:"maxCorrespondingAuthorCountRequirement,omitempty"`

	MinFigureWidthRequirement  string `json:"minFigureWidthRequirement,omitempty" yaml:"minFigureWidthRequirement,omitempty"`
	MaxFigureWidthRequirement  string `json:"maxFigureWidthRequirement,omitempty" yaml:"maxFigureWidthRequirement,omitempty"`
	MinFigureHeightRequirement string `json:"minFigureHeightRequirement,omitempty" yaml:"minFigureHeightRequirement,omitempty"`
	MaxFigureHeightRequirement string `json:"maxFigureHeightRequirement,omitempty" yaml:"maxFigureHeightRequirement,omitempty"`

	// Screen DPI bounds are inline numeric strings, not requirement references.
	MinFigureScreenDPI string `json:"minFigureScreenDPIRequirement,omitempty" yaml:"minFigureScreenDPIRequirement,omitempty"`
	MaxFigureScreenDPI string `json:"maxFigureScreenDPIRequirement,omitempty" yaml:"maxFigureScreenDPIRequirement,omitempty"`

	AcceptableFigureFormats []string `json:"acceptableFigureFormats,omitempty" yaml:"acceptableFigureFormats,omitempty"`
}

// ScreenDPI returns the parsed min and max DPI. A bound that is absent or not
// an integer is reported as nil.
func (t *Template) ScreenDPI() (minDPI, maxDPI *int) {
	return parseDPI(t.MinFigureScreenDPI), parseDPI(t.MaxFigureScreenDPI)
}

func parseDPI(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// RequirementObjectType identifies the kind of a requirement model.
type RequirementObjectType string

// Requirement model object types.
const (
	RequirementMandatorySubsections RequirementObjectType = "MPMandatorySubsectionsRequirement"

	RequirementMaxManuscriptChars RequirementObjectType = "MPMaximumManuscriptCharacterCountRequirement"
	RequirementMinManuscriptChars RequirementObjectType = "MPMinimumManuscriptCharacterCountRequirement"
	RequirementMaxManuscriptWords RequirementObjectType = "MPMaximumManuscriptWordCountRequirement"
	RequirementMinManuscriptWords RequirementObjectType = "MPMinimumManuscriptWordCountRequirement"

	RequirementMaxTitleChars RequirementObjectType = "MPMaximumManuscriptTitleCharacterCountRequirement"
	RequirementMinTitleChars RequirementObjectType = "MPMinimumManuscriptTitleCharacterCountRequirement"
	RequirementMaxTitleWords RequirementObjectType = "MPMaximumManuscriptTitleWordCountRequirement"
	RequirementMinTitleWords RequirementObjectType = "MPMinimumManuscriptTitleWordCountRequirement"

	RequirementMaxRunningTitleChars RequirementObjectType = "MPMaximumManuscriptRunningTitleCharacterCountRequirement"

	RequirementMaxFigures              RequirementObjectType = "MPMaximumFigureCountRequirement"
	RequirementMaxTables               RequirementObjectType = "MPMaximumTableCountRequirement"
	RequirementMaxCombinedFigureTables RequirementObjectType = "MPMaximumCombinedFigureTableCountRequirement"
	RequirementMaxReferences           RequirementObjectType = "MPMaximumManuscriptReferenceCountRequirement"
	RequirementMaxCorrespondingAuthors RequirementObjectType = "MPMaximumCorrespondingAuthorCountRequirement"
	RequirementMinFigureWidth          RequirementObjectType = "MPMinimumFigureWidthRequirement"
	RequirementMaxFigureWidth          RequirementObjectType = "MPMaximumFigureWidthRequirement"
	RequirementMinFigureHeight         RequirementObjectType = "MPMinimumFigureHeightRequirement"
	RequirementMaxFigureHeight         RequirementObjectType = "MPMaximumFigureHeightRequirement"
)

// RequirementModel is a single requirement record referenced by a template.
// Count requirements carry Count; mandatory-subsection requirements carry
// section descriptions.
type RequirementModel struct {
	ID                  string                `json:"_id" yaml:"_id"`
	ObjectType          RequirementObjectType `json:"objectType" yaml:"objectType"`
	Severity            int                   `json:"severity" yaml:"severity"`
	Ignored             bool                  `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Count               *int                  `json:"count,omitempty" yaml:"count,omitempty"`
	SectionDescriptions []SectionDescription  `json:"embeddedSectionDescriptions,omitempty" yaml:"embeddedSectionDescriptions,omitempty"`
}

// SectionDescription describes a section a template expects.
type SectionDescription struct {
	SectionCategory    string               `json:"sectionCategory" yaml:"sectionCategory"`
	Title              string               `json:"title,omitempty" yaml:"title,omitempty"`
	Required           bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder        string               `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Subsections        []SectionDescription `json:"subsections,omitempty" yaml:"subsections,omitempty"`
	MinWordCount       *int                 `json:"minWordCount,omitempty" yaml:"minWordCount,omitempty"`
	MaxWordCount       *int                 `json:"maxWordCount,omitempty" yaml:"maxWordCount,omitempty"`
	MinCharCount       *int                 `json:"minCharCount,omitempty" yaml:"minCharCount,omitempty"`
	MaxCharCount       *int                 `json:"maxCharCount,omitempty" yaml:"maxCharCount,omitempty"`
	MaxParagraphsCount *int                 `json:"maxParagraphsCount,omitempty" yaml:"maxParagraphsCount,omitempty"`
	Priority           *int                 `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// SectionCategory is a named kind of section, e.g. "MPSectionCategory:abstract".
type SectionCategory struct {
	ID            string `json:"_id" yaml:"_id"`
	Name          string `json:"name" yaml:"name"`
	UniqueInScope bool   `json:"uniqueInScope,omitempty" yaml:"uniqueInScope,omitempty"`
}

// CategorySuffix returns the part of a category ID after the colon.
func CategorySuffix(category string) string {
	if i := strings.IndexByte(category, ':'); i >= 0 {
		return category[i+1:]
	}
	return category
}

// CategoryDisplayName returns the capitalized category suffix, used when no
// category record is known.
func CategoryDisplayName(category string) string {
	return capitalize(CategorySuffix(category))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
