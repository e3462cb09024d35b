package providers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestFindAll(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div class="a b"><p>one <b>bold</b></p><p>two</p><p>three</p></div>`))
	require.Nil(t, err)

	div := FindFirst(doc, func(n *html.Node) bool { return HasClass(n, "b") })
	require.NotNil(t, div)

	paragraphs := FindAll(div, Tag("p"), 2)
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "one bold", Text(paragraphs[0]))
	assert.Equal(t, "two", Text(paragraphs[1]))

	assert.Len(t, FindAll(doc, Tag("p"), 0), 3)
	assert.Nil(t, FindFirst(doc, Tag("img")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Café", Truncate("Café éthique", 4))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("anything", 0))
}

func TestResult(t *testing.T) {
	ok := OK([]string{"a"})
	assert.False(t, ok.Degraded)
	assert.Nil(t, ok.Reason)

	reason := errors.New("timeout")
	degraded := Degraded("fallback", reason)
	assert.True(t, degraded.Degraded)
	assert.Equal(t, "fallback", degraded.Value)
	assert.ErrorIs(t, degraded.Reason, reason)
}
