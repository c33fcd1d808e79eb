// Package export renders stored reports to Markdown, HTML and DOCX.
// Renderers branch on section presence: optional sections the model did not
// produce are skipped, never rendered empty.
package export

import (
	"fmt"
	"strings"

	"github.com/nextmind/nextmind-backend/internal/report/types"
)

// Markdown renders the report as a Markdown document: title, the sections in
// canonical order with localized headings, then a metadata footer.
func Markdown(report *types.Report) string {
	lang := types.Language(report.Language)
	if !lang.Valid() {
		lang = types.LanguageEnglish
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", report.Title)

	for _, key := range types.SectionOrder {
		if key == "references" {
			continue
		}
		content := report.Section(key)
		if content == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", types.SectionLabel(key, lang), content)
	}

	if len(report.References) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", types.SectionLabel("references", lang))
		for _, ref := range report.References {
			fmt.Fprintf(&b, "- %s\n", ref)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "*%s · %s · %s*\n", report.Query, report.Model, report.CreatedAt)

	return b.String()
}
