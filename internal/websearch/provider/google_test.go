package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/websearch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GoogleProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewGoogleProvider(&conf.SearchConfig{
		APIKey:  "test-key",
		CX:      "test-cx",
		Timeout: 5 * time.Second,
	})
	p.baseURL = srv.URL
	return p
}

func TestGoogleProvider_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     conf.SearchConfig
		wantErr error
	}{
		{"valid", conf.SearchConfig{APIKey: "k", CX: "cx"}, nil},
		{"missing key", conf.SearchConfig{CX: "cx"}, types.ErrMissingAPIKey},
		{"missing cx", conf.SearchConfig{APIKey: "k"}, types.ErrMissingCX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewGoogleProvider(&tt.cfg)
			err := p.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGoogleProvider_Search_MergesPagesInOffsetOrder(t *testing.T) {
	var mu sync.Mutex
	var starts []string

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		start := r.URL.Query().Get("start")
		mu.Lock()
		starts = append(starts, start)
		mu.Unlock()

		// Each page returns one item tagged with its offset so the merge
		// order is observable.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]string{
				{"title": "item-" + start, "link": "https://example.com/" + start, "snippet": "s"},
			},
		})
	})

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "golang"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 5)
	assert.ElementsMatch(t, []string{"1", "11", "21", "31", "41"}, starts)
	for i, want := range []string{"item-1", "item-11", "item-21", "item-31", "item-41"} {
		assert.Equal(t, want, resp.Items[i].Title)
	}
	assert.Equal(t, types.TypeWeb, resp.Items[0].Type)
}

func TestGoogleProvider_Search_CapsAtMaxTotalResults(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]string, ResultsPerPage)
		for i := range items {
			items[i] = map[string]string{
				"title":   fmt.Sprintf("t%d", i),
				"link":    fmt.Sprintf("https://example.com/%s/%d", r.URL.Query().Get("start"), i),
				"snippet": "s",
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
	})

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "golang"})
	require.NoError(t, err)
	assert.Len(t, resp.Items, MaxTotalResults)
}

func TestGoogleProvider_Search_LanguageParams(t *testing.T) {
	var mu sync.Mutex
	var lr, hl, gl, safe string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		q := r.URL.Query()
		lr, hl, gl, safe = q.Get("lr"), q.Get("hl"), q.Get("gl"), q.Get("safe")
		mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []map[string]string{}})
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{
		Query:    "kecerdasan buatan",
		Language: types.LanguageIndonesian,
		SafeMode: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "lang_id", lr)
	assert.Equal(t, "id", hl)
	assert.Equal(t, "id", gl)
	assert.Equal(t, "active", safe)
}

func TestGoogleProvider_Search_PropagatesProviderErrorMessage(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 403, "message": "Daily quota exceeded"},
		})
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{Query: "golang"})
	require.Error(t, err)

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "Daily quota exceeded", provErr.Message)
}

func TestGoogleProvider_Search_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]string{
				{"title": "recovered", "link": "https://example.com/1", "snippet": "s"},
			},
		})
	}))
	t.Cleanup(srv.Close)

	p := NewGoogleProvider(&conf.SearchConfig{
		APIKey:     "test-key",
		CX:         "test-cx",
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	})
	p.baseURL = srv.URL

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "golang", MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "recovered", resp.Items[0].Title)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGoogleProvider_Search_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 403, "message": "Daily quota exceeded"},
		})
	}))
	t.Cleanup(srv.Close)

	p := NewGoogleProvider(&conf.SearchConfig{
		APIKey:     "test-key",
		CX:         "test-cx",
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	})
	p.baseURL = srv.URL

	_, err := p.Search(context.Background(), &types.SearchRequest{Query: "golang", MaxResults: 10})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGoogleProvider_Search_EmptyQuery(t *testing.T) {
	p := NewGoogleProvider(&conf.SearchConfig{APIKey: "k", CX: "cx"})
	_, err := p.Search(context.Background(), &types.SearchRequest{})
	assert.ErrorIs(t, err, types.ErrEmptyQuery)
}
