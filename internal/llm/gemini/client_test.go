package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&conf.GeminiConfig{BaseURL: srv.URL}, logger.Nop())
}

func TestGenerateContent_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": `{"title":"ok"}`}},
				}},
			},
		})
	})

	text, err := c.GenerateContent(context.Background(), "gemini-2.0-flash", "sk-test", "write a report")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"ok"}`, text)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "sk-test", gotKey)

	contents := gotBody["contents"].([]interface{})
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	assert.Equal(t, "write a report", parts[0].(map[string]interface{})["text"])

	gen := gotBody["generationConfig"].(map[string]interface{})
	assert.Equal(t, float64(1), gen["temperature"])
	assert.Equal(t, 0.95, gen["topP"])
	assert.Equal(t, float64(64), gen["topK"])
	assert.Equal(t, float64(65536), gen["maxOutputTokens"])
}

func TestGenerateContent_APIErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":    400,
				"status":  "INVALID_ARGUMENT",
				"message": "API key not valid. Please pass a valid API key.",
			},
		})
	})

	_, err := c.GenerateContent(context.Background(), "gemini-2.0-flash", "bad-key", "prompt")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "API key not valid. Please pass a valid API key.", apiErr.Message)
}

func TestGenerateContent_NonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.GenerateContent(context.Background(), "gemini-2.0-flash", "k", "prompt")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP 502", apiErr.Message)
}

func TestGenerateContent_NoCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	})

	_, err := c.GenerateContent(context.Background(), "gemini-2.0-flash", "k", "prompt")
	assert.ErrorContains(t, err, "no candidates")
}
