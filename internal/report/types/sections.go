package types

// SectionOrder is the fixed presentation and prompt order of report
// sections. The synthesis prompt, the JSON contract and every renderer all
// follow this order.
var SectionOrder = []string{
	"introduction",
	"summary",
	"literature_review",
	"methodology",
	"findings",
	"analysis",
	"critical_appraisal",
	"discussion",
	"conclusion",
	"recommendations",
	"references",
}

// sectionLabels maps section keys to display labels per language.
var sectionLabels = map[string]map[Language]string{
	"introduction":       {LanguageIndonesian: "Pendahuluan", LanguageEnglish: "Introduction"},
	"summary":            {LanguageIndonesian: "Ringkasan Eksekutif", LanguageEnglish: "Executive Summary"},
	"literature_review":  {LanguageIndonesian: "Tinjauan Literatur", LanguageEnglish: "Literature Review"},
	"methodology":        {LanguageIndonesian: "Metodologi", LanguageEnglish: "Methodology"},
	"findings":           {LanguageIndonesian: "Temuan Utama", LanguageEnglish: "Key Findings"},
	"analysis":           {LanguageIndonesian: "Analisis Mendalam", LanguageEnglish: "In-depth Analysis"},
	"critical_appraisal": {LanguageIndonesian: "Kritik Kritis", LanguageEnglish: "Critical Appraisal"},
	"discussion":         {LanguageIndonesian: "Diskusi", LanguageEnglish: "Discussion"},
	"conclusion":         {LanguageIndonesian: "Kesimpulan", LanguageEnglish: "Conclusion"},
	"recommendations":    {LanguageIndonesian: "Rekomendasi & Future Work", LanguageEnglish: "Recommendations & Future Work"},
	"references":         {LanguageIndonesian: "Referensi", LanguageEnglish: "References"},
}

// SectionLabel returns the display label of a section in the given language,
// falling back to the raw key for unknown sections.
func SectionLabel(key string, lang Language) string {
	if labels, ok := sectionLabels[key]; ok {
		if label, ok := labels[lang]; ok {
			return label
		}
	}
	return key
}

// Section returns the report's content for a section key, empty if absent.
func (r *Report) Section(key string) string {
	switch key {
	case "introduction":
		return r.Introduction
	case "summary":
		return r.Summary
	case "literature_review":
		return r.LiteratureReview
	case "methodology":
		return r.Methodology
	case "findings":
		return r.Findings
	case "analysis":
		return r.Analysis
	case "critical_appraisal":
		return r.CriticalAppraisal
	case "discussion":
		return r.Discussion
	case "conclusion":
		return r.Conclusion
	case "recommendations":
		return r.Recommendations
	default:
		return ""
	}
}
