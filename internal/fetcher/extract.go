package fetcher

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// structuralSelectors are chrome elements that never carry article text.
const structuralSelectors = "script, style, iframe, nav, footer, header, aside, noscript"

// boilerplateHints flag elements whose class or id marks them as page
// furniture rather than content.
var boilerplateHints = []string{
	"sidebar", "ads", "promo", "newsletter", "cookie",
	"popup", "subscribe", "banner", "related", "share", "comment",
}

// contentSelectors are tried in order; the first non-trivial match wins.
var contentSelectors = []string{
	"main", "article", "#content", ".content", ".post", ".entry-content", ".blog-post",
}

// minContentLength is the threshold below which a container match is
// considered trivial and the next fallback is tried.
const minContentLength = 100

var whitespacePattern = regexp.MustCompile(`\s+`)

// PageContent holds the fields extracted from an HTML document.
type PageContent struct {
	Title       string
	Description string
	Image       string
	Published   string
	Body        string
}

// Extract pulls title, metadata and best-effort main content out of an HTML
// document.
func Extract(html string) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find(structuralSelectors).Remove()
	removeBoilerplate(doc)

	page := &PageContent{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		Image:       metaContent(doc, `meta[property="og:image"]`),
		Published:   extractPublished(doc),
		Body:        extractBody(doc),
	}

	return page, nil
}

// removeBoilerplate drops elements whose class or id contains a known
// furniture keyword.
func removeBoilerplate(doc *goquery.Document) {
	doc.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		marker := strings.ToLower(class + " " + id)
		for _, hint := range boilerplateHints {
			if strings.Contains(marker, hint) {
				s.Remove()
				return
			}
		}
	})
}

func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return "Untitled Page"
}

func extractDescription(doc *goquery.Document) string {
	if desc := metaContent(doc, `meta[name="description"]`); desc != "" {
		return desc
	}
	return metaContent(doc, `meta[property="og:description"]`)
}

func extractPublished(doc *goquery.Document) string {
	for _, selector := range []string{
		`meta[property="article:published_time"]`,
		`meta[name="publish-date"]`,
		`meta[name="date"]`,
	} {
		if value := metaContent(doc, selector); value != "" {
			return value
		}
	}
	if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return strings.TrimSpace(datetime)
	}
	return strings.TrimSpace(doc.Find("time").First().Text())
}

// extractBody walks the container fallback chain: known content selectors
// first, then all paragraphs, then the whole body.
func extractBody(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		text := cleanWhitespace(doc.Find(selector).First().Text())
		if len(text) >= minContentLength {
			return text
		}
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := cleanWhitespace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if joined := strings.Join(paragraphs, "\n\n"); len(joined) >= minContentLength {
		return joined
	}

	return cleanWhitespace(doc.Find("body").Text())
}

// metaContent returns the trimmed content attribute of the first match.
func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// Blob renders the page as a labeled plain-text block, truncated to
// MaxContentLength.
func (p *PageContent) Blob() string {
	var b strings.Builder

	b.WriteString("Title: ")
	b.WriteString(p.Title)
	b.WriteString("\n\n")

	if p.Description != "" {
		b.WriteString("Description: ")
		b.WriteString(p.Description)
		b.WriteString("\n\n")
	}
	if p.Image != "" {
		b.WriteString("Image: ")
		b.WriteString(p.Image)
		b.WriteString("\n\n")
	}
	if p.Published != "" {
		b.WriteString("Published: ")
		b.WriteString(p.Published)
		b.WriteString("\n\n")
	}

	b.WriteString("Content:\n")
	b.WriteString(p.Body)

	blob := b.String()
	if len(blob) > MaxContentLength {
		// Back off to a rune boundary so the cap never emits a torn rune.
		cut := MaxContentLength
		for cut > 0 && !utf8.RuneStart(blob[cut]) {
			cut--
		}
		blob = blob[:cut]
	}
	return blob
}
