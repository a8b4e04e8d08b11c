package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage_Arabic(t *testing.T) {
	assert.Equal(t, "ar", DetectLanguage("ما هي خطة مصعب للإسكان؟"))
}

func TestDetectLanguage_Spanish(t *testing.T) {
	assert.Equal(t, "es", DetectLanguage("¿Cuál es la política de vivienda?"))
	assert.Equal(t, "es", DetectLanguage("educación"))
}

func TestDetectLanguage_French(t *testing.T) {
	assert.Equal(t, "fr", DetectLanguage("ça va être difficile"))
}

func TestDetectLanguage_DefaultsToEnglish(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("what is the housing plan"))
	assert.Equal(t, "en", DetectLanguage(""))
}

func TestDetectLanguage_ArabicWinsOverAccents(t *testing.T) {
	// Arabic script is checked before accent markers.
	assert.Equal(t, "ar", DetectLanguage("vivienda الإسكان"))
}

func TestDetectLanguage_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "es", DetectLanguage("EDUCACIÓN"))
}
