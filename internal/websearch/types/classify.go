package types

import (
	"regexp"
	"strings"
)

var imageExtPattern = regexp.MustCompile(`\.(jpg|jpeg|png|gif|bmp|svg)(\?|$)`)

// DetectResultType classifies a result by URL and domain patterns.
// Pure function: the same result always yields the same type.
func DetectResultType(result *SearchResult) ResultType {
	url := strings.ToLower(result.Link)

	switch {
	case strings.HasSuffix(url, ".pdf"):
		return TypePDF
	case strings.HasSuffix(url, ".doc") || strings.HasSuffix(url, ".docx"):
		return TypeWord
	case strings.HasSuffix(url, ".xls") || strings.HasSuffix(url, ".xlsx"):
		return TypeSpreadsheet
	case strings.HasSuffix(url, ".ppt") || strings.HasSuffix(url, ".pptx"):
		return TypePresentation
	case imageExtPattern.MatchString(url):
		return TypeImage
	case containsAny(url, "youtube.com", "youtu.be", "vimeo.com"):
		return TypeVideo
	case containsAny(url, "news.google.com", "cnn.com", "bbc.co", "detik.com", "kompas.com"):
		return TypeNews
	case containsAny(url, "maps.google.com", "goo.gl/maps"):
		return TypeMap
	case containsAny(url, "twitter.com", "facebook.com", "linkedin.com", "instagram.com"):
		return TypeSocial
	case strings.HasPrefix(url, "http"):
		return TypeWeb
	default:
		return TypeOther
	}
}

// CategorizeResults annotates every result with its derived type.
func CategorizeResults(results []*SearchResult) []*SearchResult {
	for _, r := range results {
		r.Type = DetectResultType(r)
	}
	return results
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
