package biz

import (
	"strings"

	"github.com/nextmind/nextmind-backend/internal/report/types"
)

// indonesianWords is a dictionary of common Indonesian function words and
// high-frequency research vocabulary used for lightweight language detection.
var indonesianWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"yang", "dan", "di", "ke", "dari", "untuk", "dengan", "pada",
		"adalah", "ini", "itu", "tidak", "akan", "bisa", "dapat", "sudah",
		"telah", "belum", "ada", "juga", "atau", "karena", "jika", "kalau",
		"saya", "kamu", "anda", "kami", "kita", "mereka", "dia", "apa",
		"siapa", "bagaimana", "mengapa", "kenapa", "kapan", "dimana", "mana",
		"saat", "ketika", "dalam", "oleh", "sebagai", "tentang", "terhadap",
		"antara", "tetapi", "namun", "serta", "agar", "supaya", "sehingga",
		"yaitu", "bahwa", "para", "secara", "seperti", "hanya", "lebih",
		"sangat", "paling", "harus", "perlu", "banyak", "semua", "setiap",
		"beberapa", "lain", "baru", "besar", "kecil", "baik", "cara",
		"hasil", "tahun", "orang", "hari", "waktu", "tempat", "negara",
		"dunia", "pengaruh", "perkembangan", "penelitian", "pendidikan",
		"teknologi", "manfaat", "dampak", "penggunaan", "penerapan", "bagi",
	} {
		indonesianWords[w] = struct{}{}
	}
}

// detectionThreshold is the dictionary-match ratio above which a query is
// classified as Indonesian.
const detectionThreshold = 0.1

// DetectLanguage classifies a query by the share of its words found in the
// Indonesian dictionary. English is the default for empty or ambiguous input.
func DetectLanguage(text string) types.Language {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return types.LanguageEnglish
	}

	matches := 0
	for _, word := range words {
		if _, ok := indonesianWords[word]; ok {
			matches++
		}
	}

	if float64(matches)/float64(len(words)) > detectionThreshold {
		return types.LanguageIndonesian
	}
	return types.LanguageEnglish
}
