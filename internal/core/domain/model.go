package domain

import (
	"encoding/json"
	"strings"
)

// ObjectType identifies the kind of a model in a manuscript document.
type ObjectType string

// Content object types.
const (
	ObjectManuscript          ObjectType = "MPManuscript"
	ObjectSection             ObjectType = "MPSection"
	ObjectParagraphElement    ObjectType = "MPParagraphElement"
	ObjectKeywordsElement     ObjectType = "MPKeywordsElement"
	ObjectListElement         ObjectType = "MPListElement"
	ObjectFigureElement       ObjectType = "MPFigureElement"
	ObjectTableElement        ObjectType = "MPTableElement"
	ObjectTable               ObjectType = "MPTable"
	ObjectEquationElement     ObjectType = "MPEquationElement"
	ObjectEquation            ObjectType = "MPEquation"
	ObjectBibliographyElement ObjectType = "MPBibliographyElement"
	ObjectBibliographyItem    ObjectType = "MPBibliographyItem"
	ObjectCitation            ObjectType = "MPCitation"
	ObjectKeyword             ObjectType = "MPKeyword"
	ObjectFigure              ObjectType = "MPFigure"
	ObjectContributor         ObjectType = "MPContributor"
)

// Well-known section categories.
const (
	CategoryKeywords     = "MPSectionCategory:keywords"
	CategoryBibliography = "MPSectionCategory:bibliography"
)

// Model is implemented by every entity stored in a Document.
type Model interface {
	// Meta returns the shared identity and bookkeeping fields.
	Meta() *Base
}

// Base holds the fields shared by all models.
type Base struct {
	ID           string     `json:"_id"`
	ObjectType   ObjectType `json:"objectType"`
	ManuscriptID string     `json:"manuscriptID,omitempty"`
	ContainerID  string     `json:"containerID,omitempty"`
	CreatedAt    float64    `json:"createdAt,omitempty"`
	UpdatedAt    float64    `json:"updatedAt,omitempty"`
	SessionID    string     `json:"sessionID,omitempty"`
}

// Meta returns the receiver; it lets embedding structs satisfy Model.
func (b *Base) Meta() *Base { return b }

// Manuscript is the root model of a document.
type Manuscript struct {
	Base
	Title        string   `json:"title,omitempty"`
	RunningTitle string   `json:"runningTitle,omitempty"`
	KeywordIDs   []string `json:"keywordIDs,omitempty"`
}

// Section is a titled, ordered container of elements and subsections.
type Section struct {
	Base
	Category   string   `json:"category,omitempty"`
	Title      string   `json:"title,omitempty"`
	Priority   int      `json:"priority"`
	Path       []string `json:"path"`
	ElementIDs []string `json:"elementIDs,omitempty"`
}

// Ancestors returns the section's path without its own ID.
func (s *Section) Ancestors() []string {
	out := make([]string, 0, len(s.Path))
	for _, id := range s.Path {
		if id != s.ID {
			out = append(out, id)
		}
	}
	return out
}

// ParentID returns the ID of the enclosing section, or "" for a top-level section.
func (s *Section) ParentID() string {
	ancestors := s.Ancestors()
	if len(ancestors) == 0 {
		return ""
	}
	return ancestors[len(ancestors)-1]
}

// Scope returns the uniqueness scope of the section: its ancestor path joined by commas.
func (s *Section) Scope() string {
	return strings.Join(s.Ancestors(), ",")
}

// ParagraphElement holds a paragraph of HTML content.
type ParagraphElement struct {
	Base
	Contents    string `json:"contents"`
	Placeholder string `json:"placeholderInnerHTML,omitempty"`
}

// KeywordsElement holds the serialised keyword list shown in a keywords section.
type KeywordsElement struct {
	Base
	Contents string `json:"contents"`
}

// ListElement holds an HTML list.
type ListElement struct {
	Base
	Contents string `json:"contents"`
}

// FigureElement groups one or more figures.
type FigureElement struct {
	Base
	ContainedObjectIDs []string `json:"containedObjectIDs,omitempty"`
}

// TableElement wraps a table.
type TableElement struct {
	Base
	ContainedObjectID string `json:"containedObjectID,omitempty"`
}

// Table holds tabular HTML content.
type Table struct {
	Base
	Contents string `json:"contents,omitempty"`
}

// EquationElement wraps an equation.
type EquationElement struct {
	Base
	ContainedObjectID string `json:"containedObjectID,omitempty"`
}

// Equation is a TeX equation.
type Equation struct {
	Base
	TeXRepresentation string `json:"TeXRepresentation,omitempty"`
}

// BibliographyElement lists bibliography items in a bibliography section.
type BibliographyElement struct {
	Base
	ContainedObjectIDs []string `json:"containedObjectIDs,omitempty"`
}

// BibliographyItem is a single reference.
type BibliographyItem struct {
	Base
	Title string `json:"title,omitempty"`
	DOI   string `json:"DOI,omitempty"`
}

// CitationItem points at a cited bibliography item.
type CitationItem struct {
	ID               string `json:"_id,omitempty"`
	BibliographyItem string `json:"bibliographyItem"`
}

// Citation is an in-text citation of one or more references.
type Citation struct {
	Base
	EmbeddedCitationItems []CitationItem `json:"embeddedCitationItems,omitempty"`
}

// Keyword is a manuscript keyword.
type Keyword struct {
	Base
	Name string `json:"name"`
}

// Figure is an image whose binary payload is stored outside the document.
type Figure struct {
	Base
	ContentType string `json:"contentType,omitempty"`
}

// Contributor is a manuscript author.
type Contributor struct {
	Base
	IsCorresponding bool `json:"isCorresponding,omitempty"`
}

// RawModel preserves a model of an unknown object type verbatim.
type RawModel struct {
	Base
	raw json.RawMessage
}

// MarshalJSON returns the original bytes.
func (m *RawModel) MarshalJSON() ([]byte, error) {
	return m.raw, nil
}

// newModel returns an empty model for the given object type, or nil if unknown.
func newModel(t ObjectType) Model {
	switch t {
	case ObjectManuscript:
		return &Manuscript{}
	case ObjectSection:
		return &Section{}
	case ObjectParagraphElement:
		return &ParagraphElement{}
	case ObjectKeywordsElement:
		return &KeywordsElement{}
	case ObjectListElement:
		return &ListElement{}
	case ObjectFigureElement:
		return &FigureElement{}
	case ObjectTableElement:
		return &TableElement{}
	case ObjectTable:
		return &Table{}
	case ObjectEquationElement:
		return &EquationElement{}
	case ObjectEquation:
		return &Equation{}
	case ObjectBibliographyElement:
		return &BibliographyElement{}
	case ObjectBibliographyItem:
		return &BibliographyItem{}
	case ObjectCitation:
		return &Citation{}
	case ObjectKeyword:
		return &Keyword{}
	case ObjectFigure:
		return &Figure{}
	case ObjectContributor:
		return &Contributor{}
	}
	if IsResultObjectType(t) {
		return &ValidationResult{}
	}
	return nil
}

// DecodeModel decodes a single JSON model, dispatching on its objectType.
// Unknown object types are kept as RawModel so they survive a round trip.
func DecodeModel(data []byte) (Model, error) {
	var base Base
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, err
	}
	m := newModel(base.ObjectType)
	if m == nil {
		return &RawModel{Base: base, raw: append(json.RawMessage(nil), data...)}, nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
