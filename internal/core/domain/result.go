package domain

import (
	"encoding/json"
	"fmt"
)

// Result object types.
const (
	ObjectRequiredSectionResult ObjectType = "MPRequiredSectionValidationResult"
	ObjectSectionOrderResult    ObjectType = "MPSectionOrderValidationResult"
	ObjectKeywordsOrderResult   ObjectType = "MPKeywordsOrderValidationResult"
	ObjectSectionTitleResult    ObjectType = "MPSectionTitleValidationResult"
	ObjectSectionBodyResult     ObjectType = "MPSectionBodyValidationResult"
	ObjectSectionCategoryResult ObjectType = "MPSectionCategoryValidationResult"
	ObjectCountResult           ObjectType = "MPCountValidationResult"
	ObjectFigureResolution      ObjectType = "MPFigureResolution"
	ObjectFigureFormatResult    ObjectType = "MPFigureFormatValidationResult"
	ObjectFigureImageResult     ObjectType = "MPFigureImageValidationResult"
	ObjectBibliographyResult    ObjectType = "MPBibliographyValidationResult"
)

// IsResultObjectType reports whether t is a validation result object type.
func IsResultObjectType(t ObjectType) bool {
	switch t {
	case ObjectRequiredSectionResult, ObjectSectionOrderResult, ObjectKeywordsOrderResult,
		ObjectSectionTitleResult, ObjectSectionBodyResult, ObjectSectionCategoryResult,
		ObjectCountResult, ObjectFigureResolution, ObjectFigureFormatResult,
		ObjectFigureImageResult, ObjectBibliographyResult:
		return true
	default:
		return false
	}
}

// ResultType is the discriminant of a validation result.
type ResultType string

// Result types.
const (
	ResultRequiredSection ResultType = "required-section"
	ResultSectionOrder    ResultType = "section-order"
	ResultKeywordsOrder   ResultType = "keywords-order"

	ResultSectionTitleContainsContent ResultType = "section-title-contains-content"
	ResultSectionTitleMatch           ResultType = "section-title-match"
	ResultSectionBodyHasContent       ResultType = "section-body-has-content"
	ResultSectionCategoryUniqueness   ResultType = "section-category-uniqueness"

	ResultManuscriptMaxCharacters ResultType = "manuscript-maximum-characters"
	ResultManuscriptMinCharacters ResultType = "manuscript-minimum-characters"
	ResultManuscriptMaxWords      ResultType = "manuscript-maximum-words"
	ResultManuscriptMinWords      ResultType = "manuscript-minimum-words"

	ResultSectionMaxCharacters ResultType = "section-maximum-characters"
	ResultSectionMinCharacters ResultType = "section-minimum-characters"
	ResultSectionMaxWords      ResultType = "section-maximum-words"
	ResultSectionMinWords      ResultType = "section-minimum-words"
	ResultSectionMaxParagraphs ResultType = "section-maximum-paragraphs"

	ResultTitleMaxCharacters        ResultType = "manuscript-title-maximum-characters"
	ResultTitleMinCharacters        ResultType = "manuscript-title-minimum-characters"
	ResultTitleMaxWords             ResultType = "manuscript-title-maximum-words"
	ResultTitleMinWords             ResultType = "manuscript-title-minimum-words"
	ResultRunningTitleMaxCharacters ResultType = "manuscript-running-title-maximum-characters"

	ResultMaxFigures              ResultType = "manuscript-maximum-figures"
	ResultMaxTables               ResultType = "manuscript-maximum-tables"
	ResultMaxCombinedFigureTables ResultType = "manuscript-maximum-combined-figure-tables"
	ResultMaxReferences           ResultType = "manuscript-maximum-references"
	ResultMaxCorrespondingAuthors ResultType = "manuscript-maximum-corresponding-authors"

	ResultBibliographyDOIExist  ResultType = "bibliography-doi-exist"
	ResultBibliographyDOIFormat ResultType = "bibliography-doi-format"

	ResultFigureFormat        ResultType = "figure-format-validation"
	ResultFigureContainsImage ResultType = "figure-contains-image"
	ResultFigureMinWidth      ResultType = "figure-minimum-width-resolution"
	ResultFigureMaxWidth      ResultType = "figure-maximum-width-resolution"
	ResultFigureMinHeight     ResultType = "figure-minimum-height-resolution"
	ResultFigureMaxHeight     ResultType = "figure-maximum-height-resolution"
)

// ObjectType returns the object type under which results of this type are stored.
func (t ResultType) ObjectType() ObjectType {
	switch t {
	case ResultRequiredSection:
		return ObjectRequiredSectionResult
	case ResultSectionOrder:
		return ObjectSectionOrderResult
	case ResultKeywordsOrder:
		return ObjectKeywordsOrderResult
	case ResultSectionTitleContainsContent, ResultSectionTitleMatch:
		return ObjectSectionTitleResult
	case ResultSectionBodyHasContent:
		return ObjectSectionBodyResult
	case ResultSectionCategoryUniqueness:
		return ObjectSectionCategoryResult
	case ResultBibliographyDOIExist, ResultBibliographyDOIFormat:
		return ObjectBibliographyResult
	case ResultFigureFormat:
		return ObjectFigureFormatResult
	case ResultFigureContainsImage:
		return ObjectFigureImageResult
	case ResultFigureMinWidth, ResultFigureMaxWidth, ResultFigureMinHeight, ResultFigureMaxHeight:
		return ObjectFigureResolution
	default:
		return ObjectCountResult
	}
}

// Fixable reports whether an automated remediation exists for the type.
func (t ResultType) Fixable() bool {
	switch t {
	case ResultRequiredSection, ResultSectionOrder, ResultKeywordsOrder, ResultSectionTitleMatch:
		return true
	default:
		return false
	}
}

// ResultData is the type-specific payload of a validation result.
// The set of implementations is closed.
type ResultData interface {
	resultData()
}

// RequiredSectionData identifies the missing section.
type RequiredSectionData struct {
	SectionDescription SectionDescription `json:"sectionDescription"`
	SectionCategory    string             `json:"sectionCategory"`
}

// OrderData carries a required order of section categories or keyword IDs.
type OrderData struct {
	Order []string `json:"order"`
}

// SectionTitleData carries the required title of a section.
type SectionTitleData struct {
	Title           string `json:"title,omitempty"`
	SectionCategory string `json:"sectionCategory,omitempty"`
}

// SectionData identifies the category of a checked section.
type SectionData struct {
	SectionCategory string `json:"sectionCategory,omitempty"`
	SectionTitle    string `json:"sectionTitle,omitempty"`
}

// CountData is the payload of a count result: the measured count and the bound.
type CountData struct {
	Count           int    `json:"count"`
	Value           int    `json:"value"`
	SectionCategory string `json:"sectionCategory,omitempty"`
}

// FigureResolutionData is the payload of a figure dimension result.
type FigureResolutionData struct {
	Count int    `json:"count"`
	Value int    `json:"value"`
	DPI   *int   `json:"dpi,omitempty"`
	ID    string `json:"id,omitempty"`
}

// FigureFormatData is the payload of a figure format result.
type FigureFormatData struct {
	ContentType       string   `json:"contentType"`
	AllowedImageTypes []string `json:"allowedImageTypes"`
}

func (*RequiredSectionData) resultData()  {}
func (*OrderData) resultData()            {}
func (*SectionTitleData) resultData()     {}
func (*SectionData) resultData()          {}
func (*CountData) resultData()            {}
func (*FigureResolutionData) resultData() {}
func (*FigureFormatData) resultData()     {}

// ValidationResult is the outcome of a single check. Results are document
// models so that ignored results persist alongside content.
type ValidationResult struct {
	Base
	Type              ResultType `json:"type"`
	Passed            bool       `json:"passed"`
	Severity          int        `json:"severity"`
	Ignored           bool       `json:"ignored"`
	Fixable           bool       `json:"fixable,omitempty"`
	AffectedElementID string     `json:"affectedElementId,omitempty"`
	Data              ResultData `json:"data,omitempty"`
	Message           string     `json:"message,omitempty"`
}

// NewValidationData returns an empty payload for the result type, or nil
// when the type carries no payload.
func NewValidationData(t ResultType) ResultData {
	switch t {
	case ResultRequiredSection:
		return &RequiredSectionData{}
	case ResultSectionOrder, ResultKeywordsOrder:
		return &OrderData{}
	case ResultSectionTitleContainsContent, ResultSectionBodyHasContent, ResultSectionCategoryUniqueness:
		return &SectionData{}
	case ResultSectionTitleMatch:
		return &SectionTitleData{}
	case ResultFigureFormat:
		return &FigureFormatData{}
	case ResultFigureMinWidth, ResultFigureMaxWidth, ResultFigureMinHeight, ResultFigureMaxHeight:
		return &FigureResolutionData{}
	case ResultBibliographyDOIExist, ResultBibliographyDOIFormat, ResultFigureContainsImage:
		return nil
	default:
		return &CountData{}
	}
}

// UnmarshalJSON decodes a result, choosing the payload type from the result type.
func (r *ValidationResult) UnmarshalJSON(data []byte) error {
	type alias ValidationResult
	aux := struct {
		*alias
		Data json.RawMessage `json:"data,omitempty"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Data = nil
	if len(aux.Data) == 0 || string(aux.Data) == "null" {
		return nil
	}
	payload := NewValidationData(r.Type)
	if payload == nil {
		return nil
	}
	if err := json.Unmarshal(aux.Data, payload); err != nil {
		return fmt.Errorf("%s data: %w", r.Type, err)
	}
	r.Data = payload
	return nil
}

// Clone returns a copy of the result. The payload is shared.
func (r *ValidationResult) Clone() *ValidationResult {
	c := *r
	return &c
}
