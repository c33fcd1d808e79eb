package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/websearch/types"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is the Google Custom Search JSON API endpoint.
	DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

	// ResultsPerPage is the provider's hard cap per call.
	ResultsPerPage = 10

	// MaxTotalResults is assembled from parallel paginated calls.
	MaxTotalResults = 50

	// pageRetryDelay separates retries of a failed page request.
	pageRetryDelay = 500 * time.Millisecond
)

// GoogleProvider implements Provider on top of the Google Custom Search API.
type GoogleProvider struct {
	cfg        *conf.SearchConfig
	baseURL    string
	httpClient *http.Client
}

// NewGoogleProvider creates a Google Custom Search provider.
func NewGoogleProvider(cfg *conf.SearchConfig) *GoogleProvider {
	return &GoogleProvider{
		cfg:        cfg,
		baseURL:    DefaultBaseURL,
		httpClient: NewHTTPClient(cfg.Timeout),
	}
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// Validate fails fast when credentials are absent.
func (p *GoogleProvider) Validate() error {
	if p.cfg.APIKey == "" {
		return types.ErrMissingAPIKey
	}
	if p.cfg.CX == "" {
		return types.ErrMissingCX
	}
	return nil
}

// googleResponse is the subset of the provider payload we consume.
type googleResponse struct {
	Items []*types.SearchResult `json:"items"`
	Error *googleError          `json:"error"`
}

type googleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Search issues the paginated page requests in parallel and merges the
// results in page-offset order, regardless of response arrival order.
func (p *GoogleProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if req.Query == "" {
		return nil, types.ErrEmptyQuery
	}

	startTime := time.Now()

	max := req.MaxResults
	if max <= 0 || max > MaxTotalResults {
		max = MaxTotalResults
	}
	pageCount := (max + ResultsPerPage - 1) / ResultsPerPage

	pages := make([][]*types.SearchResult, pageCount)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < pageCount; i++ {
		g.Go(func() error {
			items, err := p.fetchPage(gctx, req, i*ResultsPerPage+1)
			if err != nil {
				return err
			}
			pages[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []*types.SearchResult
	for _, page := range pages {
		merged = append(merged, page...)
	}
	if len(merged) > max {
		merged = merged[:max]
	}

	return &types.SearchResponse{
		Query: req.Query,
		Items: types.CategorizeResults(merged),
		Took:  time.Since(startTime).Milliseconds(),
	}, nil
}

// fetchPage requests a single page of results at the given 1-based offset.
// Transport failures and 5xx answers are retried up to cfg.MaxRetries times;
// 4xx answers carry a definitive verdict and are returned as-is.
func (p *GoogleProvider) fetchPage(ctx context.Context, req *types.SearchRequest, start int) ([]*types.SearchResult, error) {
	var lastErr error
	for attempt := 0; attempt <= p.retries(); attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(pageRetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		items, retryable, err := p.requestPage(ctx, req, start)
		if err == nil {
			return items, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (p *GoogleProvider) retries() int {
	if p.cfg.MaxRetries < 0 {
		return 0
	}
	return p.cfg.MaxRetries
}

// requestPage performs one attempt. The second return value reports whether
// the failure is worth retrying.
func (p *GoogleProvider) requestPage(ctx context.Context, req *types.SearchRequest, start int) ([]*types.SearchResult, bool, error) {
	params := url.Values{}
	params.Set("key", p.cfg.APIKey)
	params.Set("cx", p.cfg.CX)
	params.Set("q", req.Query)
	params.Set("num", strconv.Itoa(ResultsPerPage))
	params.Set("start", strconv.Itoa(start))

	if req.SafeMode {
		params.Set("safe", "active")
	} else {
		params.Set("safe", "off")
	}

	if req.Language.Valid() {
		// Restrict-language plus UI locale and geolocation bias.
		params.Set("lr", "lang_"+string(req.Language))
		params.Set("hl", string(req.Language))
		if req.Language == types.LanguageIndonesian {
			params.Set("gl", "id")
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, &types.ProviderError{
			Code:    "REQUEST_FAILED",
			Message: "Google Search API request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	// Decode failures on an error status are ignored: the status alone decides,
	// and error bodies are not always JSON.
	var payload googleResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode != http.StatusOK {
		message := "Google Search API request failed"
		if payload.Error != nil && payload.Error.Message != "" {
			message = payload.Error.Message
		}
		return nil, resp.StatusCode >= http.StatusInternalServerError, &types.ProviderError{
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: message,
		}
	}

	if decodeErr != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	return payload.Items, false, nil
}
