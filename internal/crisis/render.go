package crisis

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/steady/internal/models"
)

var sectionTitles = map[Section]string{
	SectionWarningSigns:  "Warning signs",
	SectionCoping:        "Things I can do on my own",
	SectionReasons:       "Reasons to keep going",
	SectionSafePlaces:    "Safe places",
	SectionProfessionals: "Professionals I can contact",
}

// Markdown renders the plan, contacts and crisis lines as Markdown.
func Markdown(plan models.SafetyPlan, contacts []models.SupportContact) string {
	var b strings.Builder
	b.WriteString("# My safety plan\n\n")

	if plan.IsEmpty() {
		b.WriteString("_Your plan is empty. Add to it with `steady crisis plan add`._\n\n")
	} else {
		for _, sec := range Sections() {
			f, _ := sec.field(&plan)
			if len(*f) == 0 {
				continue
			}
			fmt.Fprintf(&b, "## %s\n\n", sectionTitles[sec])
			for i, item := range *f {
				fmt.Fprintf(&b, "%d. %s\n", i+1, item)
			}
			b.WriteString("\n")
		}
	}

	if len(contacts) > 0 {
		b.WriteString("## People I can reach out to\n\n")
		b.WriteString("| Name | Phone | Relationship |\n|---|---|---|\n")
		for _, c := range contacts {
			name := c.Name
			if c.IsProfessional {
				name += " (professional)"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(name), escapeCell(c.Phone), escapeCell(c.Relationship))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Crisis lines\n\n")
	for _, l := range Lines {
		var ways []string
		if l.Phone != "" {
			ways = append(ways, "call **"+l.Phone+"**")
		}
		if l.SMS != "" {
			ways = append(ways, "text **"+l.SMS+"**")
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", l.Name, l.Region, strings.Join(ways, " or "))
	}
	b.WriteString("\nIf you are in immediate danger, call your local emergency number.\n")
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Render formats Markdown for the terminal. Width <= 0 uses 80 columns.
func Render(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
