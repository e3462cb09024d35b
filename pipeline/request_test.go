package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestValidate(t *testing.T) {
	assert.NoError(t, coffee.Validate())

	tests := map[string]Request{
		"subject":  {Brand: "b", Language: "en", Layout: LayoutSquare},
		"brand":    {Subject: "s", Brand: "  ", Language: "en", Layout: LayoutSquare},
		"language": {Subject: "s", Brand: "b", Language: "de", Layout: LayoutSquare},
		"layout":   {Subject: "s", Brand: "b", Language: "en", Layout: "portrait"},
	}
	for name, request := range tests {
		assert.ErrorIs(t, request.Validate(), ErrInvalidRequest, name)
	}
}

func TestRequestFilename(t *testing.T) {
	assert.Equal(t, "Pro_M&G_Consulting_Café_éthique.mp4", coffee.Filename())

	unsafe := Request{Subject: "a/b: c?", Brand: "Acme\tInc"}
	assert.Equal(t, "Pro_Acme_Inc_ab_c.mp4", unsafe.Filename())
}

func TestLayoutLabels(t *testing.T) {
	for _, layout := range Layouts {
		assert.True(t, layout.Valid())
		assert.NotEmpty(t, layout.Label())
	}
	assert.Equal(t, "YouTube – Horizontal 16:9", LayoutHorizontal.Label())
	assert.False(t, Layout("portrait").Valid())
}
