package script

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	s := Generate("Café éthique", "M&G Consulting", "Ethical coffee is grown fairly.", DefaultExcerptChars, DefaultCaptionChars)
	assert.Equal(t,
		"Attention ! Café éthique change tout ! Avec M&G Consulting, profitez du meilleur. Ethical coffee is grown fairly.... Chez M&G Consulting, qualité, innovation et confiance.",
		s.Text)
	assert.True(t, strings.HasSuffix(s.Caption, "..."))

	// Deterministic
	assert.Equal(t, s, Generate("Café éthique", "M&G Consulting", "Ethical coffee is grown fairly.", DefaultExcerptChars, DefaultCaptionChars))
}

func TestGenerateBoundsExcerpt(t *testing.T) {
	excerpt := strings.Repeat("ß", 1000)
	s := Generate("x", "y", excerpt, DefaultExcerptChars, DefaultCaptionChars)
	assert.Equal(t, DefaultExcerptChars, strings.Count(s.Text, "ß"))
	assert.Equal(t, DefaultCaptionChars+3, utf8.RuneCountInString(s.Caption))
}

func TestCaption(t *testing.T) {
	assert.Equal(t, "Short...", Caption("Short", 180))
	assert.Equal(t, "Caf...", Caption("Café", 3))
}
