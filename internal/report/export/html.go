package export

import (
	"bytes"
	"fmt"
	stdhtml "html"

	"github.com/nextmind/nextmind-backend/internal/report/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML renders the report by converting its Markdown form, wrapped in a
// minimal standalone page.
func HTML(report *types.Report) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(report)), &body); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	page.WriteString(`<meta charset="utf-8">` + "\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", stdhtml.EscapeString(report.Title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	return page.String(), nil
}
