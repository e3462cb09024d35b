package voice

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pashonic/globecast/utils/mockclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText(t *testing.T) {
	text := "Attention ! Café éthique change tout ! Avec M&G Consulting, profitez du meilleur. " + strings.Repeat("mot ", 60)
	chunks := SplitText(text, 100)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 100)
		assert.Equal(t, strings.TrimSpace(chunk), chunk)
	}
	assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(strings.Fields(strings.Join(chunks, " ")), " "))

	// Test unbreakable text
	chunks = SplitText(strings.Repeat("a", 250), 100)
	assert.Equal(t, []int{100, 100, 50}, []int{len(chunks[0]), len(chunks[1]), len(chunks[2])})

	assert.Empty(t, SplitText("   ", 100))
	assert.Equal(t, []string{"short"}, SplitText("short", 100))
}

func TestGoogleTranslateSynthesize(t *testing.T) {
	language, _ := LookupLanguage("zh")

	var queries []string
	client := &mockclient.MockClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		queries = append(queries, req.URL.Query().Get("q"))
		assert.Equal(t, "zh-CN", req.URL.Query().Get("tl"))
		return mockclient.Response(200, []byte("mp3|")), nil
	}}
	audio, err := NewGoogleTranslate(client).Synthesize(context.Background(), strings.Repeat("word ", 50), language)
	require.Nil(t, err)
	assert.Len(t, queries, 3)
	assert.Equal(t, "mp3|mp3|mp3|", string(audio))

	// Test failing chunk fails the whole synthesis
	client = &mockclient.MockClient{DoFunc: func(*http.Request) (*http.Response, error) {
		return mockclient.Response(429, nil), nil
	}}
	audio, err = NewGoogleTranslate(client).Synthesize(context.Background(), "Bonjour", language)
	assert.NotNil(t, err)
	assert.Nil(t, audio)
}
