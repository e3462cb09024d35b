package videouploader

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	body  string
}

func newService(t *testing.T, status int, response string) (*youtube.Service, *recorder) {
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.paths = append(rec.paths, r.URL.Path)
		rec.body = string(body)
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)

	service, err := youtube.NewService(context.Background(),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/"),
	)
	require.NoError(t, err)
	return service, rec
}

func videoFile(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "Pro_Acme_Tea.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake mp4"), 0644))
	return path
}

func TestPublishReturnsLink(t *testing.T) {
	service, rec := newService(t, http.StatusOK, `{"id":"abc123"}`)
	uploader := NewWithService(service, Settings{Tags: []string{"ads"}})

	link, err := uploader.Publish(context.Background(), videoFile(t), "Acme – Tea", "Attention ! Tea change tout !")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc123", link)

	require.Len(t, rec.paths, 1)
	assert.True(t, strings.HasSuffix(rec.paths[0], "/upload/youtube/v3/videos"), rec.paths[0])
	assert.Contains(t, rec.body, "Acme – Tea")
	assert.Contains(t, rec.body, `"privacyStatus":"private"`)
}

func TestPublishFailure(t *testing.T) {
	service, _ := newService(t, http.StatusForbidden, `{"error":{"code":403,"message":"quotaExceeded"}}`)
	uploader := NewWithService(service, Settings{})

	_, err := uploader.Publish(context.Background(), videoFile(t), "t", "d")
	assert.Error(t, err)

	_, err = uploader.Publish(context.Background(), "/nonexistent.mp4", "t", "d")
	assert.Error(t, err)
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Settings{ClientSecretFile: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "é", truncate("é", 5))
}
