package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery_LowercasesAndTrims(t *testing.T) {
	assert.Equal(t, "housing plan", NormalizeQuery("  Housing Plan  ", "en"))
}

func TestNormalizeQuery_RemovesEnglishStopWords(t *testing.T) {
	assert.Equal(t, "what housing plan", NormalizeQuery("what is the housing plan", "en"))
}

func TestNormalizeQuery_RemovesSpanishStopWords(t *testing.T) {
	assert.Equal(t, "política de vivienda", NormalizeQuery("la política de vivienda", "es"))
}

func TestNormalizeQuery_UnknownLanguagePassesThrough(t *testing.T) {
	// No stop-word list for German; only case and whitespace change.
	assert.Equal(t, "was ist der plan", NormalizeQuery("Was ist der Plan", "de"))
}

func TestNormalizeQuery_StopWordsAreLanguageScoped(t *testing.T) {
	// "la" is a Spanish stop word but survives an English query.
	assert.Equal(t, "la guardia", NormalizeQuery("La Guardia", "en"))
}

func TestNormalizeQuery_Empty(t *testing.T) {
	assert.Equal(t, "", NormalizeQuery("   ", "en"))
}
