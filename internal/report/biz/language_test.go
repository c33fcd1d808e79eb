package biz

import (
	"testing"

	"github.com/nextmind/nextmind-backend/internal/report/types"
	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  types.Language
	}{
		{"indonesian query", "pengaruh teknologi terhadap pendidikan di indonesia", types.LanguageIndonesian},
		{"english query", "impact of technology on modern education systems", types.LanguageEnglish},
		{"mixed mostly english", "machine learning applications for healthcare analysis", types.LanguageEnglish},
		{"single indonesian word dominates", "dampak kecerdasan buatan", types.LanguageIndonesian},
		{"empty", "", types.LanguageEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.query))
		})
	}
}

func TestDetectLanguage_Deterministic(t *testing.T) {
	query := "perkembangan teknologi pendidikan dan dampaknya"
	first := DetectLanguage(query)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DetectLanguage(query))
	}
}

func TestDetectLanguage_CaseInsensitive(t *testing.T) {
	assert.Equal(t, DetectLanguage("DAMPAK TEKNOLOGI PADA PENDIDIKAN"), DetectLanguage("dampak teknologi pada pendidikan"))
}
