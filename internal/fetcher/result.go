package fetcher

import (
	"fmt"
	"time"
)

// Status classifies the outcome of a fetch.
type Status int

const (
	StatusOK Status = iota
	StatusForbidden
	StatusTimeout
	StatusNotHTML
	StatusHTTPError
	StatusNetworkError
)

// Result is the typed outcome of a fetch. Downstream code can branch on
// Status; the prompt boundary renders it to a sentinel string instead.
type Result struct {
	Status      Status
	StatusCode  int
	StatusText  string
	ContentType string
	Text        string
	Timeout     time.Duration
	Err         error
}

// OK reports whether content was extracted.
func (r *Result) OK() bool {
	return r != nil && r.Status == StatusOK
}

// transient reports whether a retry could change the outcome.
func (r *Result) transient() bool {
	return r.Status == StatusTimeout || r.Status == StatusNetworkError
}

// PromptText renders the result as prompt-safe text. Failures become
// bracketed sentinel strings so synthesis can proceed with degraded
// information.
func (r *Result) PromptText(url string) string {
	if r == nil {
		return fmt.Sprintf("[Content unavailable from %s: no response]", url)
	}

	switch r.Status {
	case StatusOK:
		return r.Text
	case StatusForbidden:
		return fmt.Sprintf("[Access Forbidden: The website at %s has restricted access to its content. Using available metadata only.]", url)
	case StatusTimeout:
		return fmt.Sprintf("[Content unavailable from %s: timeout after %s]", url, r.Timeout)
	case StatusNotHTML:
		return fmt.Sprintf("[Content from %s is not HTML (%s). Using available metadata only.]", url, r.ContentType)
	case StatusHTTPError:
		return fmt.Sprintf("[Content unavailable from %s: HTTP status %d %s]", url, r.StatusCode, r.StatusText)
	default:
		return fmt.Sprintf("[Content unavailable from %s: %v]", url, r.Err)
	}
}

// IsSentinel reports whether a content string is a fetch-failure sentinel
// rather than extracted page text.
func IsSentinel(content string) bool {
	return len(content) > 0 && content[0] == '[' &&
		(hasPrefix(content, "[Content unavailable") ||
			hasPrefix(content, "[Access Forbidden") ||
			hasPrefix(content, "[Content from"))
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
