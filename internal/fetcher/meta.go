package fetcher

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Meta is a lightweight per-URL metadata lookup result. Title and
// Description are nil when the page could not be fetched or parsed; the
// lookup itself never fails.
type Meta struct {
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// FetchMeta resolves just the title and description of a URL. It is a single
// attempt with the fetcher's timeout, no retries: metadata lookups are
// best-effort batch calls where a null beats a slow answer.
func (f *Fetcher) FetchMeta(ctx context.Context, rawURL string) Meta {
	meta := Meta{URL: rawURL}

	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return meta
	}
	f.setHeaders(req)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return meta
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return meta
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") && !strings.Contains(ct, "application/xhtml+xml") {
		return meta
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return meta
	}

	page, err := Extract(string(body))
	if err != nil {
		return meta
	}

	if page.Title != "" {
		meta.Title = &page.Title
	}
	if page.Description != "" {
		meta.Description = &page.Description
	}
	return meta
}
