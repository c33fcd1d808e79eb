package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/nextmind/nextmind-backend/internal/report/types"
	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

func init() {
	key := os.Getenv("UNIDOC_LICENSE_API_KEY")
	if key == "" {
		return
	}
	if err := license.SetMeteredKey(key); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set unioffice license: %v\n", err)
	}
}

// DOCX renders the report as a Word document: the title as a main heading,
// each present section as a heading plus paragraph, references as a list.
func DOCX(report *types.Report) ([]byte, error) {
	lang := types.Language(report.Language)
	if !lang.Valid() {
		lang = types.LanguageEnglish
	}

	doc := document.New()
	defer doc.Close()

	title := doc.AddParagraph()
	title.SetStyle("Title")
	title.AddRun().AddText(report.Title)

	for _, key := range types.SectionOrder {
		if key == "references" {
			continue
		}
		content := report.Section(key)
		if content == "" {
			continue
		}
		addSection(doc, types.SectionLabel(key, lang), content)
	}

	if len(report.References) > 0 {
		heading := doc.AddParagraph()
		heading.SetStyle("Heading1")
		heading.AddRun().AddText(types.SectionLabel("references", lang))
		for _, ref := range report.References {
			para := doc.AddParagraph()
			para.Properties().SetFirstLineIndent(0.25 * measurement.Inch)
			para.AddRun().AddText(ref)
		}
	}

	footer := doc.AddParagraph()
	run := footer.AddRun()
	run.Properties().SetItalic(true)
	run.AddText(fmt.Sprintf("%s · %s · %s", report.Query, report.Model, report.CreatedAt))
	footer.Properties().SetAlignment(wml.ST_JcCenter)

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to save docx: %w", err)
	}
	return buf.Bytes(), nil
}

func addSection(doc *document.Document, label, content string) {
	heading := doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.AddRun().AddText(label)

	body := doc.AddParagraph()
	body.AddRun().AddText(content)
}
