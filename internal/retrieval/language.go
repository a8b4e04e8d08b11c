package retrieval

import "strings"

// Supported query languages.
const (
	LanguageEnglish = "en"
	LanguageSpanish = "es"
	LanguageArabic  = "ar"
	LanguageFrench  = "fr"
)

var (
	spanishMarkers = []rune{'ñ', 'ü', 'é', 'á', 'í', 'ó', 'ú'}
	frenchMarkers  = []rune{'ç', 'à', 'è', 'ù', 'â', 'ê', 'î', 'ô', 'û'}
)

// DetectLanguage classifies text by character patterns. Arabic script wins
// over everything, then Spanish accents, then French accents, with English
// as the default. Detection never fails; ambiguous input falls through to
// English.
func DetectLanguage(text string) string {
	lower := strings.ToLower(text)

	for _, r := range lower {
		if r >= 0x0600 && r <= 0x06FF {
			return LanguageArabic
		}
	}
	if containsAny(lower, spanishMarkers) {
		return LanguageSpanish
	}
	if containsAny(lower, frenchMarkers) {
		return LanguageFrench
	}
	return LanguageEnglish
}

func containsAny(s string, markers []rune) bool {
	for _, r := range s {
		for _, m := range markers {
			if r == m {
				return true
			}
		}
	}
	return false
}
