package domain

// CountRequirement is a single numeric bound with the severity of the
// requirement that declared it.
type CountRequirement struct {
	Count    int
	Severity int
}

// CountBounds holds the optional maximum and minimum of one metric.
type CountBounds struct {
	Max *CountRequirement
	Min *CountRequirement
}

// TextCounts bounds the characters and words of a text.
type TextCounts struct {
	Characters CountBounds
	Words      CountBounds
}

// SectionCounts bounds the text and paragraph count of one section category.
type SectionCounts struct {
	Category string
	TextCounts
	Paragraphs CountBounds
}

// RequiredSection is a section description a manuscript must satisfy.
type RequiredSection struct {
	Description SectionDescription
	Severity    int
}

// SectionTitleRequirement is the title rule for a required section category.
// An empty Title means only the "title has content" check applies.
type SectionTitleRequirement struct {
	Category string
	Title    string
	Severity int
}

// FigureResolution bounds figure pixel dimensions. DPI is set only when the
// template declares exactly one of its screen DPI bounds.
type FigureResolution struct {
	Width  CountBounds
	Height CountBounds
	DPI    *int
}

// HasWidthBound reports whether any width bound exists.
func (r FigureResolution) HasWidthBound() bool {
	return r.Width.Max != nil || r.Width.Min != nil
}

// HasHeightBound reports whether any height bound exists.
func (r FigureResolution) HasHeightBound() bool {
	return r.Height.Max != nil || r.Height.Min != nil
}

// Requirements is the normalized requirement set derived from a template.
type Requirements struct {
	TemplateID string

	// RequiredSections are in required order.
	RequiredSections []RequiredSection
	SectionTitles    []SectionTitleRequirement

	// Sections holds per-category count bounds in declaration order.
	Sections []SectionCounts

	Manuscript   TextCounts
	Title        TextCounts
	RunningTitle CountBounds

	Figures              CountBounds
	Tables               CountBounds
	CombinedFigureTables CountBounds
	References           CountBounds
	CorrespondingAuthors CountBounds

	FigureFormats    []string
	FigureResolution FigureResolution

	// Categories indexes the known section categories by ID.
	Categories map[string]SectionCategory
}

// RequiredOrder returns the required section categories in required order.
func (r *Requirements) RequiredOrder() []string {
	out := make([]string, 0, len(r.RequiredSections))
	for _, rs := range r.RequiredSections {
		out = append(out, rs.Description.SectionCategory)
	}
	return out
}
