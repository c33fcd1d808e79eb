package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/fetcher"
	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"github.com/nextmind/nextmind-backend/internal/ratelimit"
	"github.com/nextmind/nextmind-backend/internal/report/biz"
	"github.com/nextmind/nextmind-backend/internal/report/types"
	searchtypes "github.com/nextmind/nextmind-backend/internal/websearch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSearch returns a canned response.
type fakeSearch struct {
	resp        *searchtypes.SearchResponse
	err         error
	validateErr error
}

func (f *fakeSearch) Search(_ context.Context, _ *searchtypes.SearchRequest) (*searchtypes.SearchResponse, error) {
	return f.resp, f.err
}

func (f *fakeSearch) Validate() error { return f.validateErr }

// fakeLimiter returns a fixed decision.
type fakeLimiter struct {
	result *ratelimit.Result
}

func (f *fakeLimiter) Check(_ context.Context, _ string, _ ratelimit.Op, max int, _ time.Duration) (*ratelimit.Result, error) {
	if f.result != nil {
		return f.result, nil
	}
	return &ratelimit.Result{Success: true, Limit: max, Remaining: max - 1, Reset: 1_700_000_060_000}, nil
}

// fakeStore is an in-memory ReportStore for handler tests. It also backs the
// generator pipeline.
type fakeStore struct {
	mu      sync.Mutex
	reports map[string]*types.Report
}

func newFakeStore() *fakeStore {
	return &fakeStore{reports: make(map[string]*types.Report)}
}

func (s *fakeStore) Save(_ context.Context, report *types.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*types.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[id], nil
}

func (s *fakeStore) GetAll(_ context.Context) ([]*types.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*types.Report, 0, len(s.reports))
	for _, r := range s.reports {
		all = append(all, r)
	}
	return all, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reports[id]
	delete(s.reports, id)
	return ok, nil
}

// fakeModel answers every generation with a fixed valid report object.
type fakeModel struct{}

func (fakeModel) GenerateContent(_ context.Context, _, _, _ string) (string, error) {
	return `{
		"title": "Generated Title",
		"introduction": "intro",
		"summary": "summary",
		"analysis": "analysis",
		"conclusion": "conclusion",
		"references": ["Example (https://example.com)"]
	}`, nil
}

// fakeContent serves every URL from memory.
type fakeContent struct{}

func (fakeContent) FetchContent(_ context.Context, url string) string {
	return "Title: Page\n\nContent:\ntext from " + url
}

type testEnv struct {
	router  *gin.Engine
	store   *fakeStore
	search  *fakeSearch
	limiter *fakeLimiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &conf.Config{
		Gemini: conf.GeminiConfig{
			UseBackendAPIKey: true,
			APIKey:           "AIzaSyBackend0123456789abc",
			DefaultModel:     "gemini-2.0-flash",
			AllowedModels:    []string{"gemini-2.0-flash", "gemini-2.5-pro-exp-03-25"},
		},
		RateLimit: conf.RateLimitConfig{
			SearchMax:      10,
			SearchWindow:   time.Minute,
			GenerateMax:    5,
			GenerateWindow: 5 * time.Minute,
		},
	}

	store := newFakeStore()
	search := &fakeSearch{resp: &searchtypes.SearchResponse{Query: "q", Items: []*searchtypes.SearchResult{}}}
	limiter := &fakeLimiter{}

	synth := biz.NewSynthesizer(&cfg.Gemini, fakeModel{}, logger.Nop())
	generator := biz.NewGenerator(synth, fakeContent{}, store, logger.Nop())

	f, err := fetcher.New(&conf.FetcherConfig{Timeout: time.Second}, logger.Nop())
	require.NoError(t, err)

	svc := New(cfg, search, generator, store, limiter, f, logger.Nop())
	router := gin.New()
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	svc.RegisterRoutes(router)

	return &testEnv{router: router, store: store, search: search, limiter: limiter}
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSearch_RequiresQuery(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.limiter.result = &ratelimit.Result{Success: false, Limit: 10, Remaining: 0, Reset: 1_700_000_060_000}

	w := env.do(http.MethodGet, "/api/v1/search?q=golang", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1700000060000", w.Header().Get("X-RateLimit-Reset"))
}

func TestSearch_ProviderErrorMessageSurfaces(t *testing.T) {
	env := newTestEnv(t)
	env.search.err = &searchtypes.ProviderError{Code: "HTTP_403", Message: "Daily quota exceeded"}

	w := env.do(http.MethodGet, "/api/v1/search?q=golang", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Daily quota exceeded")
}

func TestSearch_Success(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/v1/search?q=golang&language=id&safe=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerate_InvalidModelRejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/reports", GenerateRequest{
		Query:           "ai in education",
		SelectedResults: []biz.SelectedResult{{Title: "T", Link: "https://t.example.com"}},
		Model:           "gpt-4",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "gpt-4")
}

func TestGenerate_MissingBodyFields(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/api/v1/reports", gin.H{"query": "only a query"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/reports", GenerateRequest{
		Query:           "ai in education",
		SelectedResults: []biz.SelectedResult{{Title: "T", Link: "https://t.example.com", Snippet: "s"}},
		Model:           "gemini-2.0-flash",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data struct {
			ReportID string       `json:"reportId"`
			Report   types.Report `json:"report"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.ReportID)
	assert.Equal(t, "Generated Title", envelope.Data.Report.Title)

	// The persisted copy is retrievable through the API.
	get := env.do(http.MethodGet, "/api/v1/reports/"+envelope.Data.ReportID, nil)
	assert.Equal(t, http.StatusOK, get.Code)
}

func TestGetReport_NotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/api/v1/reports/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReport_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.store.reports["r1"] = &types.Report{ID: "r1"}

	first := env.do(http.MethodDelete, "/api/v1/reports/r1", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), `"deleted":true`)

	second := env.do(http.MethodDelete, "/api/v1/reports/r1", nil)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), `"deleted":false`)
}

func TestExportReport_Formats(t *testing.T) {
	env := newTestEnv(t)
	env.store.reports["r1"] = &types.Report{
		ID: "r1", Title: "T", Query: "q",
		Summary: "s", Introduction: "i", Analysis: "a", Conclusion: "c",
		References: []string{"Sumber 1: X (https://x.example.com)"},
		CreatedAt:  "2024-03-01T10:00:00Z", Model: "gemini-2.0-flash", Language: "en",
	}

	t.Run("markdown default", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/reports/r1/export", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
		assert.Contains(t, w.Body.String(), "# T")
	})

	t.Run("html", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/reports/r1/export?format=html", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	})

	t.Run("unsupported format", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/v1/reports/r1/export?format=pdf", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConfig_ExposesKeyModeNotKey(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/config", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"useBackendApiKey":true`)
	assert.Contains(t, body, "gemini-2.0-flash")
	assert.NotContains(t, body, "AIzaSyBackend0123456789abc")
}

func TestFetchMeta_RequiresURLs(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/api/v1/meta", gin.H{"urls": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
