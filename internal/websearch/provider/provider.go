package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/nextmind/nextmind-backend/internal/websearch/types"
)

// Provider defines the interface for search providers
type Provider interface {
	// Search executes a search query
	Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error)

	// Name returns the provider name
	Name() string

	// Validate validates the provider configuration
	Validate() error
}

// NewHTTPClient creates an HTTP client shared by provider implementations.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
