package biz

import (
	"fmt"
	"strings"

	"github.com/nextmind/nextmind-backend/internal/report/types"
)

// SourceLines renders the curated sources as the grounding context block:
// one "Sumber {i}: {title} ({link})" line per source, 1-based, input order.
func SourceLines(sources []types.SourceWithContent) string {
	lines := make([]string, len(sources))
	for i, source := range sources {
		lines[i] = fmt.Sprintf("Sumber %d: %s (%s)", i+1, source.Title, source.Link)
	}
	return strings.Join(lines, "\n")
}

// sourceContext renders the fetched content of each source, prefixed with
// its canonical source line, for the prompt's evidence block.
func sourceContext(sources []types.SourceWithContent) string {
	var b strings.Builder
	for i, source := range sources {
		fmt.Fprintf(&b, "Sumber %d: %s (%s)\n", i+1, source.Title, source.Link)
		if source.Content != "" {
			b.WriteString(source.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// numberedSections renders the fixed section list with localized labels.
func numberedSections(lang types.Language) string {
	lines := make([]string, len(types.SectionOrder))
	for i, key := range types.SectionOrder {
		lines[i] = fmt.Sprintf("%d. %s", i+1, types.SectionLabel(key, lang))
	}
	return strings.Join(lines, "\n")
}

// jsonSkeleton renders the exact JSON shape the model must return.
func jsonSkeleton(titlePlaceholder string) string {
	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  %q: %q,\n", "title", titlePlaceholder)
	for _, key := range types.SectionOrder {
		if key == "references" {
			continue
		}
		fmt.Fprintf(&b, "  %q: \"...\",\n", key)
	}
	b.WriteString(`  "references": ["Referensi 1", "Referensi 2", ...]` + "\n")
	b.WriteString("}")
	return b.String()
}

// BuildPrompt assembles the deep-research instruction template for the
// resolved language. The response contract is strict: a single JSON object
// with the section keys, title and references, nothing else.
func BuildPrompt(query string, sources []types.SourceWithContent, lang types.Language) string {
	if lang == types.LanguageIndonesian {
		return fmt.Sprintf(`Anda adalah asisten riset ilmiah DEEP RESEARCH yang sangat teliti dan mendalam. Buat laporan penelitian dengan analisis kritis, sintesis lintas sumber, dan ulasan literatur yang komprehensif.

Struktur laporan (urutkan dan isi semua jika memungkinkan):
%s

Petunjuk tambahan:
- Bandingkan teori/temuan antar sumber.
- Sertakan kutipan langsung jika relevan.
- Sajikan tabel/diagram jika relevan (format teks).
- Setiap klaim HARUS didukung referensi primer.
- Gunakan bahasa akademik, sistematis, dan komprehensif.

PENTING: Format respons HANYA sebagai objek JSON valid. JANGAN tambahkan narasi di luar JSON.

Topik riset: %s

Sumber yang dapat digunakan:
%s

Format JSON:
%s`, numberedSections(lang), query, sourceContext(sources), jsonSkeleton("Judul Laporan"))
	}

	return fmt.Sprintf(`You are a DEEP RESEARCH scientific assistant. Generate a research report with critical analysis, cross-source synthesis, and comprehensive literature review.

Report structure (order and fill all if possible):
%s

Additional instructions:
- Compare theories/findings across sources.
- Include direct quotes if relevant.
- Present tables/diagrams if relevant (text format).
- Every claim MUST be supported by a primary reference.
- Use academic, systematic, and comprehensive language.

IMPORTANT: Format the response ONLY as a valid JSON object. DO NOT add any narration outside the JSON.

Research topic: %s

Sources available:
%s

JSON format:
%s`, numberedSections(lang), query, sourceContext(sources), jsonSkeleton("Report Title"))
}
