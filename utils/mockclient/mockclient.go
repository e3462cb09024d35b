package mockclient

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"sync"
)

var ErrUnreachable = errors.New("dial tcp: host unreachable")

// MockClient answers requests with DoFunc and records every request URL.
type MockClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)

	mu       sync.Mutex
	requests []string
}

func (m *MockClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req.URL.String())
	m.mu.Unlock()
	if m.DoFunc == nil {
		return nil, ErrUnreachable
	}
	return m.DoFunc(req)
}

func (m *MockClient) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// Unreachable fails every request the way a dead network would.
func Unreachable() *MockClient {
	return &MockClient{}
}

func Response(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     http.Header{},
	}
}
