package restclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns the production client. Per-call deadlines come from the
// request context, the client timeout is only a backstop.
func New(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

func Get(ctx context.Context, client HTTPClient, url string, headers http.Header) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if headers != nil {
		request.Header = headers.Clone()
	}
	return client.Do(request)
}

// GetOK performs a GET and fails on any non-2xx status. The caller closes
// the returned body.
func GetOK(ctx context.Context, client HTTPClient, url string, headers http.Header) (io.ReadCloser, error) {
	res, err := Get(ctx, client, url, headers)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, res.Status)
	}
	return res.Body, nil
}
