package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pashonic/globecast/utils/restclient"
)

const (
	default_translate_url = "https://translate.google.com/translate_tts"
	default_chunk_chars   = 100
	default_tts_timeout   = 12 * time.Second
)

// GoogleTranslate speaks through the keyless translate endpoint, which only
// accepts short inputs, so text is sent in chunks and the mp3 frames are
// concatenated.
type GoogleTranslate struct {
	URL        string
	ChunkChars int
	Timeout    time.Duration
	Client     restclient.HTTPClient
}

func NewGoogleTranslate(client restclient.HTTPClient) *GoogleTranslate {
	return &GoogleTranslate{
		URL:        default_translate_url,
		ChunkChars: default_chunk_chars,
		Timeout:    default_tts_timeout,
		Client:     client,
	}
}

func (g *GoogleTranslate) Synthesize(ctx context.Context, text string, language Language) ([]byte, error) {
	chunks := SplitText(text, g.ChunkChars)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		params := url.Values{}
		params.Set("ie", "UTF-8")
		params.Set("client", "tw-ob")
		params.Set("tl", language.TranslateCode)
		params.Set("q", chunk)
		params.Set("total", fmt.Sprint(len(chunks)))
		params.Set("idx", fmt.Sprint(i))
		params.Set("textlen", fmt.Sprint(utf8.RuneCountInString(chunk)))

		if err := g.fetch(ctx, g.URL+"?"+params.Encode(), &audio); err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return audio.Bytes(), nil
}

func (g *GoogleTranslate) fetch(ctx context.Context, requestURL string, dst io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	body, err := restclient.GetOK(ctx, g.Client, requestURL, http.Header{"User-Agent": {"Mozilla/5.0"}})
	if err != nil {
		return err
	}
	defer body.Close()
	_, err = io.Copy(dst, body)
	return err
}

// SplitText breaks text into pieces of at most max runes, cutting after
// sentence punctuation when possible, then at spaces, then anywhere.
func SplitText(text string, max int) []string {
	var chunks []string
	rest := []rune(strings.TrimSpace(text))
	for len(rest) > 0 {
		if len(rest) <= max {
			chunks = append(chunks, string(rest))
			break
		}
		cut := lastIndexFunc(rest[:max+1], func(r rune) bool { return strings.ContainsRune(".!?;,", r) })
		if cut <= 0 {
			cut = lastIndexFunc(rest[:max+1], func(r rune) bool { return r == ' ' })
		}
		if cut <= 0 {
			cut = max
		}
		if cut > max {
			cut = max
		}
		chunk := strings.TrimSpace(string(rest[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		rest = []rune(strings.TrimSpace(string(rest[cut:])))
	}
	return chunks
}

// lastIndexFunc returns the position just after the last rune matching f.
func lastIndexFunc(runes []rune, f func(rune) bool) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if f(runes[i]) {
			return i + 1
		}
	}
	return 0
}
