package types

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingAPIKey = errors.New("missing search API key")
	ErrMissingCX     = errors.New("missing search engine id")

	// Request errors
	ErrEmptyQuery = errors.New("empty search query")
)

// ProviderError wraps provider-specific errors, carrying the upstream message.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
