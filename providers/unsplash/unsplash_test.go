package unsplash

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pashonic/globecast/utils/mockclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	files map[string][]byte
}

func (m *memorySink) SaveStream(r io.Reader, ext string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	name := "file" + string(rune('0'+len(m.files))) + ext
	m.files[name] = data
	return name, nil
}

const searchPage = `<html><body>
<img src="logo.svg">
<img srcset="https://images.example/a?w=100 100w, https://images.example/a?w=2000 2000w">
<img srcset="https://images.example/b.png?w=100 100w,https://images.example/b.png?w=2000 2000w">
<img srcset="https://images.example/c?w=100&fm=webp 100w">
<img srcset="https://images.example/d?w=100 100w">
</body></html>`

func searchClient(failing map[string]bool) *mockclient.MockClient {
	return &mockclient.MockClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		if strings.HasPrefix(req.URL.String(), default_search_url) {
			return mockclient.Response(200, []byte(searchPage)), nil
		}
		if failing[req.URL.Path] {
			return nil, errors.New("timeout")
		}
		return mockclient.Response(200, bytes.Repeat([]byte{0xff}, 16)), nil
	}}
}

func TestLargestCandidate(t *testing.T) {
	assert.Equal(t, "https://x/2000", LargestCandidate("https://x/100 100w, https://x/2000 2000w"))
	assert.Equal(t, "https://x/only", LargestCandidate("https://x/only"))
	assert.Equal(t, "https://x/a", LargestCandidate("https://x/a 1x, "))
	assert.Equal(t, "", LargestCandidate(""))
}

func TestFetchImages(t *testing.T) {
	ctx := context.Background()

	// Test full result
	sink := &memorySink{}
	client := searchClient(nil)
	result := New(client).FetchImages(ctx, "Café éthique", 3, sink)
	assert.False(t, result.Degraded)
	require.Len(t, result.Value, 3)
	assert.Equal(t, "https://unsplash.com/s/photos/Caf%C3%A9%20%C3%A9thique", client.Requests()[0])
	assert.Equal(t, "https://images.example/a?w=2000", client.Requests()[1])
	assert.Equal(t, "file0.jpg", result.Value[0].Path)
	assert.Equal(t, "file1.png", result.Value[1].Path)
	assert.Equal(t, "file2.webp", result.Value[2].Path)
	for _, asset := range result.Value {
		assert.Equal(t, "image", string(asset.Kind))
	}

	// Test partial result is kept
	sink = &memorySink{}
	result = New(searchClient(map[string]bool{"/a": true, "/c": true})).FetchImages(ctx, "coffee", 3, sink)
	assert.True(t, result.Degraded)
	assert.Len(t, result.Value, 2)
	assert.Len(t, sink.files, 2)
}

func TestFetchImagesUnreachable(t *testing.T) {
	sink := &memorySink{}
	result := New(mockclient.Unreachable()).FetchImages(context.Background(), "coffee", 3, sink)
	assert.True(t, result.Degraded)
	assert.Empty(t, result.Value)
	assert.Empty(t, sink.files)

	result = New(mockclient.Unreachable()).FetchImages(context.Background(), "coffee", 0, sink)
	assert.False(t, result.Degraded)
	assert.Empty(t, result.Value)
}
