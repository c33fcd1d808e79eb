// Package gemini is a minimal REST client for the Google Generative Language
// API, covering the single generateContent call report synthesis needs.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nextmind/nextmind-backend/internal/conf"
	"github.com/nextmind/nextmind-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public Generative Language endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Generation parameters used for every synthesis call.
const (
	temperature     = 1.0
	topP            = 0.95
	topK            = 64
	maxOutputTokens = 65536
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	cfg        *conf.GeminiConfig
	logger     *logger.Logger
	baseURL    string
	httpClient *http.Client
}

// New creates a Gemini client.
func New(cfg *conf.GeminiConfig, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		cfg:        cfg,
		logger:     log,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// GenerateContent sends the prompt to the given model and returns the first
// candidate's text. The API key is passed per call so user-supplied keys can
// override the backend key.
func (c *Client) GenerateContent(ctx context.Context, model, apiKey, prompt string) (string, error) {
	payload := &generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			TopP:            topP,
			TopK:            topK,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		c.logger.Warn("gemini api error",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return "", &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	c.logger.Info("gemini generation complete",
		zap.String("model", model),
		zap.Duration("took", time.Since(start)),
	)

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// APIError is a non-2xx response from the Gemini API with the upstream
// message preserved for the caller.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error (status %d): %s", e.StatusCode, e.Message)
}
