package pexels

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/utils/mockclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSink struct {
	saved int
}

func (c *countingSink) SaveStream(r io.Reader, ext string) (string, error) {
	io.Copy(io.Discard, r)
	c.saved++
	return strings.Repeat("v", c.saved) + ext, nil
}

const searchBody = `{"videos":[
 {"id":1,"duration":7,"video_files":[
   {"link":"https://videos.example/1-sd.mp4","file_type":"video/mp4","width":540,"height":960},
   {"link":"https://videos.example/1-hd.mp4","file_type":"video/mp4","width":1080,"height":1920},
   {"link":"https://videos.example/1-4k.mp4","file_type":"video/mp4","width":2160,"height":3840}]},
 {"id":2,"duration":12,"video_files":[
   {"link":"https://videos.example/2.webm","file_type":"video/webm","width":1080,"height":1920}]},
 {"id":3,"duration":4,"video_files":[
   {"link":"https://videos.example/3-sd.mp4","file_type":"video/mp4","width":720,"height":1280}]}
]}`

func TestFetchStockVideos(t *testing.T) {
	ctx := context.Background()
	vertical := media.FrameSize{Width: 1080, Height: 1920}

	var authorization string
	client := &mockclient.MockClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		if strings.HasPrefix(req.URL.String(), default_search_url) {
			authorization = req.Header.Get("Authorization")
			return mockclient.Response(200, []byte(searchBody)), nil
		}
		return mockclient.Response(200, []byte("mp4")), nil
	}}

	sink := &countingSink{}
	result := New(client, "secret").FetchStockVideos(ctx, "ethical coffee", 2, vertical, sink)
	assert.False(t, result.Degraded)
	require.Len(t, result.Value, 2)
	assert.Equal(t, "secret", authorization)
	assert.Equal(t, media.KindVideo, result.Value[0].Kind)
	assert.EqualValues(t, 7, result.Value[0].Duration)
	assert.EqualValues(t, 4, result.Value[1].Duration)

	requests := client.Requests()
	assert.Contains(t, requests[0], "orientation=portrait")
	assert.Contains(t, requests[0], "query=ethical+coffee")
	assert.Equal(t, "https://videos.example/1-hd.mp4", requests[1])
	assert.Equal(t, "https://videos.example/3-sd.mp4", requests[2])
}

func TestFetchStockVideosDegraded(t *testing.T) {
	ctx := context.Background()
	size := media.FrameSize{Width: 1920, Height: 1080}

	// Test missing key
	result := New(mockclient.Unreachable(), "").FetchStockVideos(ctx, "coffee", 2, size, &countingSink{})
	assert.True(t, result.Degraded)
	assert.ErrorIs(t, result.Reason, errNotConfigured)

	// Test unreachable api
	result = New(mockclient.Unreachable(), "secret").FetchStockVideos(ctx, "coffee", 2, size, &countingSink{})
	assert.True(t, result.Degraded)
	assert.Empty(t, result.Value)

	// Test empty result
	client := &mockclient.MockClient{DoFunc: func(*http.Request) (*http.Response, error) {
		return mockclient.Response(200, []byte(`{"videos":[]}`)), nil
	}}
	result = New(client, "secret").FetchStockVideos(ctx, "coffee", 2, size, &countingSink{})
	assert.True(t, result.Degraded)
	assert.ErrorIs(t, result.Reason, errNoVideos)
}

func TestOrientation(t *testing.T) {
	assert.Equal(t, "portrait", Orientation(media.FrameSize{Width: 1080, Height: 1920}))
	assert.Equal(t, "landscape", Orientation(media.FrameSize{Width: 1920, Height: 1080}))
	assert.Equal(t, "square", Orientation(media.FrameSize{Width: 1080, Height: 1080}))
}
