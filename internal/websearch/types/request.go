package types

// Language restricts search results to a single language.
type Language string

const (
	LanguageIndonesian Language = "id"
	LanguageEnglish    Language = "en"
)

// Valid reports whether the language is one of the supported values.
func (l Language) Valid() bool {
	return l == LanguageIndonesian || l == LanguageEnglish
}

// SearchRequest represents a search request
type SearchRequest struct {
	Query      string   `json:"query"`
	Language   Language `json:"language,omitempty"` // empty means no restriction
	SafeMode   bool     `json:"safe_mode,omitempty"`
	MaxResults int      `json:"max_results,omitempty"` // capped at MaxTotalResults
}
