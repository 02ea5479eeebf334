package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect manuscript templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE:  runTemplatesList,
}

var templatesShowCmd = &cobra.Command{
	Use:   "show [template-id]",
	Short: "Show the requirements of a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesShow,
}

var templatesJSON bool

func init() {
	templatesListCmd.Flags().BoolVar(&templatesJSON, "json", false, "output as JSON")
	templatesShowCmd.Flags().BoolVar(&templatesJSON, "json", false, "output as JSON")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	if validationService == nil {
		return errValidationNotConfigured
	}

	templates := validationService.Templates()
	if templatesJSON {
		return writeJSON(cmd, templates)
	}

	if len(templates) == 0 {
		cmd.Println("No templates available.")
		return nil
	}

	current := ""
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			current = s.Validation.Template
		}
	}

	cmd.Println("Templates:")
	for _, t := range templates {
		marker := " "
		if t.ID == current {
			marker = "*"
		}
		if t.Title != "" {
			cmd.Printf(" %s %s\n     %s\n", marker, t.ID, t.Title)
		} else {
			cmd.Printf(" %s %s\n", marker, t.ID)
		}
	}
	return nil
}

// templateSummary is the JSON form of templates show.
type templateSummary struct {
	ID               string              `json:"id"`
	Title            string              `json:"title,omitempty"`
	RequiredSections []string            `json:"requiredSections"`
	Limits           map[string][]string `json:"limits,omitempty"`
	FigureFormats    []string            `json:"figureFormats,omitempty"`
}

func runTemplatesShow(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errValidationNotConfigured
	}

	tmpl, reqs, err := validationService.Template(args[0])
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	summary := templateSummary{
		ID:               tmpl.ID,
		Title:            tmpl.Title,
		RequiredSections: requiredSectionNames(reqs),
		Limits:           limits(reqs),
		FigureFormats:    reqs.FigureFormats,
	}

	if templatesJSON {
		return writeJSON(cmd, summary)
	}

	cmd.Printf("%s\n", summary.ID)
	if summary.Title != "" {
		cmd.Printf("  %s\n", summary.Title)
	}
	cmd.Println()

	cmd.Println("Required sections:")
	if len(summary.RequiredSections) == 0 {
		cmd.Println("  (none)")
	}
	for i, name := range summary.RequiredSections {
		cmd.Printf("  %d. %s\n", i+1, name)
	}

	if len(summary.Limits) > 0 {
		cmd.Println()
		cmd.Println("Limits:")
		for _, name := range limitOrder(reqs) {
			cmd.Printf("  %-24s %s\n", name, strings.Join(summary.Limits[name], ", "))
		}
	}

	if len(summary.FigureFormats) > 0 {
		cmd.Println()
		cmd.Printf("Figure formats: %s\n", strings.Join(summary.FigureFormats, ", "))
	}
	return nil
}

func requiredSectionNames(reqs *domain.Requirements) []string {
	names := make([]string, 0, len(reqs.RequiredSections))
	for _, rs := range reqs.RequiredSections {
		names = append(names, categoryName(reqs, rs.Description.SectionCategory))
	}
	return names
}

func categoryName(reqs *domain.Requirements, category string) string {
	if c, ok := reqs.Categories[category]; ok && c.Name != "" {
		return c.Name
	}
	return domain.CategoryDisplayName(category)
}

// limit is one bounded metric of a template.
type limit struct {
	name   string
	unit   string
	bounds domain.CountBounds
}

// namedBounds lists the bounded metrics of reqs in display order.
func namedBounds(reqs *domain.Requirements) []limit {
	out := []limit{
		{"Manuscript", "words", reqs.Manuscript.Words},
		{"Manuscript", "characters", reqs.Manuscript.Characters},
		{"Title", "words", reqs.Title.Words},
		{"Title", "characters", reqs.Title.Characters},
		{"Running title", "characters", reqs.RunningTitle},
		{"Figures", "", reqs.Figures},
		{"Tables", "", reqs.Tables},
		{"Figures and tables", "", reqs.CombinedFigureTables},
		{"References", "", reqs.References},
		{"Corresponding authors", "", reqs.CorrespondingAuthors},
	}
	for _, s := range reqs.Sections {
		name := categoryName(reqs, s.Category)
		out = append(out,
			limit{name, "words", s.Words},
			limit{name, "characters", s.Characters},
			limit{name, "paragraphs", s.Paragraphs},
		)
	}
	return out
}

func limits(reqs *domain.Requirements) map[string][]string {
	out := map[string][]string{}
	for _, b := range namedBounds(reqs) {
		if text := formatBounds(b.bounds, b.unit); text != "" {
			out[b.name] = append(out[b.name], text)
		}
	}
	return out
}

func limitOrder(reqs *domain.Requirements) []string {
	seen := map[string]bool{}
	var order []string
	for _, b := range namedBounds(reqs) {
		if formatBounds(b.bounds, b.unit) == "" || seen[b.name] {
			continue
		}
		seen[b.name] = true
		order = append(order, b.name)
	}
	return order
}

// formatBounds renders bounds as "10-250 words", "≤ 250 words" or "≥ 10".
func formatBounds(b domain.CountBounds, unit string) string {
	var text string
	switch {
	case b.Min != nil && b.Max != nil:
		text = fmt.Sprintf("%d-%d", b.Min.Count, b.Max.Count)
	case b.Max != nil:
		text = fmt.Sprintf("≤ %d", b.Max.Count)
	case b.Min != nil:
		text = fmt.Sprintf("≥ %d", b.Min.Count)
	default:
		return ""
	}
	if unit != "" {
		text += " " + unit
	}
	return text
}
