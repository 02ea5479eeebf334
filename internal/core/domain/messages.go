package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Message returns the human-readable sentence for a result. Category names
// are looked up in categories; unknown categories fall back to their
// capitalized suffix.
func Message(r *ValidationResult, categories map[string]SectionCategory) string {
	pick := func(ok, failed string) string {
		if r.Passed {
			return ok
		}
		return failed
	}
	name := func(category string) string {
		if category == "" {
			return "Section"
		}
		if c, ok := categories[category]; ok && c.Name != "" {
			return c.Name
		}
		return CategoryDisplayName(category)
	}

	switch d := r.Data.(type) {
	case *RequiredSectionData:
		msg := fmt.Sprintf("There must exist a %q section", name(d.SectionCategory))
		return pick(msg, msg)

	case *OrderData:
		if r.Type == ResultKeywordsOrder {
			return pick("Keywords are listed in alphabetical order",
				"Keywords must be listed in alphabetical order")
		}
		names := make([]string, len(d.Order))
		for i, c := range d.Order {
			names[i] = name(c)
		}
		sections := strings.Join(names, ", ")
		return pick("Sections are listed in the correct order "+sections,
			fmt.Sprintf("Sections must be listed in the following order: %q", sections))

	case *SectionTitleData:
		return pick(fmt.Sprintf("Title for %q is correct", d.Title),
			fmt.Sprintf("Title for %q section should be %q", name(d.SectionCategory), d.Title))

	case *SectionData:
		n := name(d.SectionCategory)
		switch r.Type {
		case ResultSectionTitleContainsContent:
			return pick(fmt.Sprintf("%q title has content (is not empty)", n),
				fmt.Sprintf("%q title cannot be empty", n))
		case ResultSectionCategoryUniqueness:
			return pick(fmt.Sprintf("The scope has at most one %q section", n),
				fmt.Sprintf("Cannot have more than one %q section in the same scope", n))
		default:
			title := n
			if d.SectionCategory == CategoryBibliography && d.SectionTitle != "" {
				title = d.SectionTitle
			}
			return pick(fmt.Sprintf("%q section has content (is not empty)", title),
				fmt.Sprintf("%q section must not be empty", title))
		}

	case *CountData:
		return countMessage(r.Type, r.Passed, d, name)

	case *FigureFormatData:
		format := strings.ToUpper(d.ContentType[strings.IndexByte(d.ContentType, '/')+1:])
		allowed := make([]string, len(d.AllowedImageTypes))
		for i, t := range d.AllowedImageTypes {
			allowed[i] = strings.ToUpper(t)
		}
		return pick(fmt.Sprintf("Required image file format (%s)", format),
			fmt.Sprintf("%s format is not allowed, allowed formats (%s)", format, strings.Join(allowed, ",")))

	case *FigureResolutionData:
		return resolutionMessage(r.Type, r.Passed, d)
	}

	switch r.Type {
	case ResultBibliographyDOIExist:
		return pick("DOI included for bibliographic references",
			"DOI is required for bibliographic references")
	case ResultBibliographyDOIFormat:
		return pick("DOI format for bibliographic references is correct",
			"Incorrect DOI format for a bibliographic reference")
	case ResultFigureContainsImage:
		return pick("Image data for figure is included", "Image data for figure is missing")
	}
	return pick("Requirement passed", "Requirement did not pass")
}

var countSubjects = map[ResultType]struct {
	subject string
	max     bool
	unit    string
}{
	ResultManuscriptMaxCharacters:   {"The manuscript", true, "characters"},
	ResultManuscriptMinCharacters:   {"The manuscript", false, "characters"},
	ResultManuscriptMaxWords:        {"The manuscript", true, "words"},
	ResultManuscriptMinWords:        {"The manuscript", false, "words"},
	ResultTitleMaxCharacters:        {"The manuscript title", true, "characters"},
	ResultTitleMinCharacters:        {"The manuscript title", false, "characters"},
	ResultTitleMaxWords:             {"The manuscript title", true, "words"},
	ResultTitleMinWords:             {"The manuscript title", false, "words"},
	ResultRunningTitleMaxCharacters: {"The manuscript running title", true, "characters"},
	ResultMaxFigures:                {"The manuscript", true, "figures"},
	ResultMaxTables:                 {"The manuscript", true, "tables"},
	ResultMaxReferences:             {"The manuscript", true, "references"},
	ResultMaxCorrespondingAuthors:   {"The manuscript", true, "corresponding authors"},
	ResultMaxCombinedFigureTables:   {"The manuscript", true, "figures and tables"},
	ResultSectionMaxCharacters:      {"", true, "characters"},
	ResultSectionMinCharacters:      {"", false, "characters"},
	ResultSectionMaxWords:           {"", true, "words"},
	ResultSectionMinWords:           {"", false, "words"},
	ResultSectionMaxParagraphs:      {"", true, "paragraphs"},
}

func countMessage(t ResultType, passed bool, d *CountData, name func(string) string) string {
	s, ok := countSubjects[t]
	if !ok {
		if passed {
			return "Requirement passed"
		}
		return "Requirement did not pass"
	}
	subject := s.subject
	if subject == "" {
		subject = strconv.Quote(name(d.SectionCategory))
	}
	comparison := "more than or equal to"
	if s.max {
		comparison = "less than or equal to"
	}
	if passed {
		return fmt.Sprintf("%s has %s %d %s", subject, comparison, d.Value, s.unit)
	}
	return fmt.Sprintf("%s must have %s %d %s", subject, comparison, d.Value, s.unit)
}

func resolutionMessage(t ResultType, passed bool, d *FigureResolutionData) string {
	dimension, adjective := "width", "wide"
	if t == ResultFigureMinHeight || t == ResultFigureMaxHeight {
		dimension, adjective = "height", "tall"
	}
	comparison := "greater than or equal to"
	if t == ResultFigureMaxWidth || t == ResultFigureMaxHeight {
		comparison = "less than or equal to"
	}
	verb := "must be"
	if passed {
		verb = "is"
	}
	if d.DPI != nil && *d.DPI > 0 {
		cm := float64(d.Value) * 2.54 / float64(*d.DPI)
		return fmt.Sprintf("Figure %s %s %s %scm %s at %dDPI (%dpx)",
			dimension, verb, comparison, strconv.FormatFloat(cm, 'f', -1, 64), adjective, *d.DPI, d.Value)
	}
	return fmt.Sprintf("Figure %s %s %s (%dpx)", dimension, verb, comparison, d.Value)
}
