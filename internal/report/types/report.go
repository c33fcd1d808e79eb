// Package types defines the canonical report model shared by the synthesis,
// storage, transport and export layers.
package types

// Language is a supported report language.
type Language string

const (
	LanguageIndonesian Language = "id"
	LanguageEnglish    Language = "en"
)

// Valid reports whether the language is one we support.
func (l Language) Valid() bool {
	return l == LanguageIndonesian || l == LanguageEnglish
}

// SourceWithContent is a curated search result enriched with fetched page
// content (or a fetch-failure sentinel).
type SourceWithContent struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Content string `json:"content"`
}

// Report is the canonical multi-section research report. Required sections
// are always non-empty strings; optional sections are omitted when the model
// did not produce them. Field names are stable: downstream renderers branch
// on presence, so changes must be additive only.
type Report struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Query string `json:"query"`

	Summary      string `json:"summary"`
	Introduction string `json:"introduction"`
	Analysis     string `json:"analysis"`
	Conclusion   string `json:"conclusion"`

	LiteratureReview  string `json:"literature_review,omitempty"`
	Methodology       string `json:"methodology,omitempty"`
	Findings          string `json:"findings,omitempty"`
	CriticalAppraisal string `json:"critical_appraisal,omitempty"`
	Discussion        string `json:"discussion,omitempty"`
	Recommendations   string `json:"recommendations,omitempty"`

	References []string `json:"references"`
	CreatedAt  string   `json:"createdAt"`
	Model      string   `json:"model"`
	Language   string   `json:"language,omitempty"`
}

// Valid reports whether every required field is present. Storage reads use
// this to map structural corruption to "not found".
func (r *Report) Valid() bool {
	if r == nil {
		return false
	}
	return r.ID != "" &&
		r.Title != "" &&
		r.Query != "" &&
		r.Summary != "" &&
		r.Introduction != "" &&
		r.Analysis != "" &&
		r.Conclusion != "" &&
		r.References != nil &&
		r.CreatedAt != "" &&
		r.Model != ""
}
