package retrieval

import "strings"

// stopWords holds the fixed per-language stop-word lists applied during
// query normalization. Unknown languages get no filtering.
var stopWords = map[string]map[string]struct{}{
	LanguageEnglish: wordSet("the", "is", "are", "was", "were", "will", "would", "should", "could"),
	LanguageSpanish: wordSet("el", "la", "los", "las", "es", "son", "fue", "fueron", "será"),
	LanguageArabic:  wordSet("في", "من", "إلى", "على", "هو", "هي", "كان", "كانت"),
	LanguageFrench:  wordSet("le", "la", "les", "est", "sont", "était", "étaient", "sera"),
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// NormalizeQuery lower-cases, trims, and strips the language's stop words.
// Tokens are whitespace-delimited; punctuation stays attached so that
// "escuelas?" is not the token "escuelas". Stages that need clean tokens
// strip punctuation themselves.
func NormalizeQuery(query, language string) string {
	query = strings.ToLower(strings.TrimSpace(query))

	stops := stopWords[language]
	if len(stops) == 0 {
		return query
	}

	words := strings.Fields(query)
	filtered := words[:0]
	for _, w := range words {
		if _, skip := stops[w]; !skip {
			filtered = append(filtered, w)
		}
	}
	return strings.Join(filtered, " ")
}
