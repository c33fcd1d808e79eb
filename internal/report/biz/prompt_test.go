package biz

import (
	"strings"
	"testing"

	"github.com/nextmind/nextmind-backend/internal/report/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLines(t *testing.T) {
	sources := []types.SourceWithContent{
		{Title: "First Article", Link: "https://a.example.com"},
		{Title: "Second Article", Link: "https://b.example.com"},
	}

	lines := strings.Split(SourceLines(sources), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Sumber 1: First Article (https://a.example.com)", lines[0])
	assert.Equal(t, "Sumber 2: Second Article (https://b.example.com)", lines[1])
}

func TestBuildPrompt_English(t *testing.T) {
	prompt := BuildPrompt("ai in education", []types.SourceWithContent{
		{Title: "Study", Link: "https://s.example.com", Content: "Title: Study\n\nContent:\nfindings"},
	}, types.LanguageEnglish)

	assert.Contains(t, prompt, "DEEP RESEARCH scientific assistant")
	assert.Contains(t, prompt, "Research topic: ai in education")
	assert.Contains(t, prompt, "Sumber 1: Study (https://s.example.com)")
	assert.Contains(t, prompt, "ONLY as a valid JSON object")

	// All eleven sections appear, numbered in fixed order.
	assert.Contains(t, prompt, "1. Introduction")
	assert.Contains(t, prompt, "2. Executive Summary")
	assert.Contains(t, prompt, "6. In-depth Analysis")
	assert.Contains(t, prompt, "11. References")

	// The JSON contract names every section key.
	for _, key := range types.SectionOrder {
		assert.Contains(t, prompt, `"`+key+`"`)
	}
	assert.Contains(t, prompt, `"title"`)
}

func TestBuildPrompt_Indonesian(t *testing.T) {
	prompt := BuildPrompt("dampak teknologi", nil, types.LanguageIndonesian)

	assert.Contains(t, prompt, "asisten riset ilmiah DEEP RESEARCH")
	assert.Contains(t, prompt, "Topik riset: dampak teknologi")
	assert.Contains(t, prompt, "1. Pendahuluan")
	assert.Contains(t, prompt, "9. Kesimpulan")
	assert.Contains(t, prompt, "HANYA sebagai objek JSON valid")
}

func TestBuildPrompt_IncludesSourceContent(t *testing.T) {
	prompt := BuildPrompt("q", []types.SourceWithContent{
		{Title: "T", Link: "https://x.example.com", Content: "[Access Forbidden: The website at https://x.example.com has restricted access to its content. Using available metadata only.]\nSnippet: fallback text"},
	}, types.LanguageEnglish)

	// Degraded sources still contribute their sentinel and snippet.
	assert.Contains(t, prompt, "[Access Forbidden")
	assert.Contains(t, prompt, "Snippet: fallback text")
}
